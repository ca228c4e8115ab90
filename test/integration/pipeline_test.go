//go:build integration

package integration

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LibertytechX/seeds-metrics/internal/application/dto"
	"github.com/LibertytechX/seeds-metrics/internal/application/usecase"
	"github.com/LibertytechX/seeds-metrics/internal/domain/event"
	"github.com/LibertytechX/seeds-metrics/internal/domain/model"
	"github.com/LibertytechX/seeds-metrics/internal/domain/port"
	"github.com/LibertytechX/seeds-metrics/internal/domain/service"
	"github.com/LibertytechX/seeds-metrics/internal/infrastructure/kafka"
	"github.com/LibertytechX/seeds-metrics/internal/infrastructure/persistence/postgres"
	pkgkafka "github.com/LibertytechX/seeds-metrics/pkg/kafka"
	"github.com/LibertytechX/seeds-metrics/pkg/testutil"
)

type noopCache struct{}

func (noopCache) Get(context.Context, string) (port.CachedSnapshot, error) {
	return port.CachedSnapshot{}, nil
}
func (noopCache) Fill(context.Context, model.MetricsSnapshot, int64) error { return nil }
func (noopCache) Invalidate(context.Context, string) error                 { return nil }

type noopMetrics struct{}

func (noopMetrics) SnapshotComputed(context.Context)                        {}
func (noopMetrics) SnapshotFailed(context.Context, string)                  {}
func (noopMetrics) BatchCompleted(context.Context, time.Duration, int, int) {}

type fixedClock struct{ today civil.Date }

func (c fixedClock) Now() time.Time    { return c.today.In(time.UTC).Add(8 * time.Hour) }
func (c fixedClock) Today() civil.Date { return c.today }

// TestComputeAndRelay computes a portfolio against Postgres and relays the
// resulting events to a real Kafka broker.
func TestComputeAndRelay(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	pg, pool := setupTestDB(t)
	seedStandardLoan(t, pg, testutil.TestLoanID1)
	seedStandardLoan(t, pg, testutil.TestLoanID2)

	kc := testutil.NewKafkaContainer(ctx, t)
	t.Cleanup(func() { kc.Cleanup(t) })
	const topic = "loanmetrics.events"
	kc.CreateTopic(t, topic)

	termsRepo := postgres.NewLoanTermsRepo(pool)
	clock := fixedClock{today: testutil.Date(2024, time.January, 26)}
	compute := usecase.NewComputeSnapshotUseCase(
		termsRepo, postgres.NewRepaymentRepo(pool), postgres.NewSnapshotRepo(pool),
		noopCache{}, service.NewMetricsEngine(), clock, noopMetrics{}, logger,
	)
	recompute := usecase.NewRecomputePortfolioUseCase(termsRepo, compute, clock, noopMetrics{}, 2, logger)

	summary, err := recompute.Execute(ctx, dto.RecomputePortfolioRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Zero(t, summary.Failed)

	producer, err := pkgkafka.NewProducer(pkgkafka.Config{Brokers: kc.Brokers})
	require.NoError(t, err)
	t.Cleanup(func() { _ = producer.Close() })

	relay := kafka.NewOutboxRelay(
		postgres.NewOutboxRepo(pool),
		kafka.NewEventPublisher(producer, topic, logger),
		10, clock.Now, logger,
	)
	published, err := relay.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, published, "one computed event per loan on the first evaluation")

	again, err := relay.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, again)

	reader := kafkago.NewReader(kafkago.ReaderConfig{Brokers: kc.Brokers, Topic: topic})
	t.Cleanup(func() { _ = reader.Close() })

	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	seen := map[string]string{}
	for len(seen) < 2 {
		msg, err := reader.ReadMessage(readCtx)
		require.NoError(t, err)
		for _, h := range msg.Headers {
			if h.Key == "event_type" {
				seen[string(msg.Key)] = string(h.Value)
			}
		}
	}
	assert.Equal(t, event.TypeSnapshotComputed, seen[testutil.TestLoanID1])
	assert.Equal(t, event.TypeSnapshotComputed, seen[testutil.TestLoanID2])
}
