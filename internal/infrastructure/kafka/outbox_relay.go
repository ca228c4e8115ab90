package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/LibertytechX/seeds-metrics/pkg/events"
)

// OutboxRelay moves unpublished outbox entries to the broker. Delivery is at
// least once: entries are marked only after the broker accepted them.
type OutboxRelay struct {
	outbox    events.OutboxRepository
	publisher events.EntryPublisher
	batchSize int
	now       func() time.Time
	logger    *slog.Logger

	mu sync.Mutex
}

// NewOutboxRelay creates a relay draining batchSize entries per round trip.
func NewOutboxRelay(
	outbox events.OutboxRepository,
	publisher events.EntryPublisher,
	batchSize int,
	now func() time.Time,
	logger *slog.Logger,
) *OutboxRelay {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &OutboxRelay{
		outbox:    outbox,
		publisher: publisher,
		batchSize: batchSize,
		now:       now,
		logger:    logger,
	}
}

// Run drains the outbox until it is empty or ctx is done. Concurrent calls
// are serialised. It returns the number of entries published.
func (r *OutboxRelay) Run(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	published := 0
	for ctx.Err() == nil {
		entries, err := r.outbox.FetchUnpublished(ctx, r.batchSize)
		if err != nil {
			return published, fmt.Errorf("fetch outbox: %w", err)
		}
		if len(entries) == 0 {
			break
		}

		if err := r.publisher.PublishEntries(ctx, entries...); err != nil {
			return published, fmt.Errorf("publish outbox: %w", err)
		}

		ids := make([]string, len(entries))
		for i, e := range entries {
			ids[i] = e.ID
		}
		if err := r.outbox.MarkPublished(ctx, ids, r.now()); err != nil {
			return published, fmt.Errorf("mark outbox published: %w", err)
		}
		published += len(entries)

		if len(entries) < r.batchSize {
			break
		}
	}

	if published > 0 {
		r.logger.InfoContext(ctx, "outbox relayed", "published", published)
	}
	return published, nil
}
