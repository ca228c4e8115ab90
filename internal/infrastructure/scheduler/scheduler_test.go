package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_RunsJobsUntilCancelled(t *testing.T) {
	s := New(time.UTC, discardLogger())

	var runs atomic.Int32
	var sawCancel atomic.Bool
	require.NoError(t, s.Add("tick", "@every 1s", func(ctx context.Context) error {
		runs.Add(1)
		<-ctx.Done()
		sawCancel.Store(true)
		return ctx.Err()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.True(t, sawCancel.Load(), "running jobs see the cancellation")
	assert.Equal(t, int32(1), runs.Load(), "overlapping ticks are skipped")
}

func TestScheduler_RejectsBadSpec(t *testing.T) {
	s := New(time.UTC, discardLogger())

	err := s.Add("broken", "every tuesday", func(context.Context) error { return errors.New("never") })

	assert.ErrorContains(t, err, "schedule broken")
}
