package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseEvent(t *testing.T) {
	at := time.Date(2024, 1, 26, 9, 30, 0, 0, time.FixedZone("WAT", 3600))

	event := NewBaseEvent("LoanScored", "loan-123", "Loan", at)

	assert.NotEmpty(t, event.EventID())
	assert.Equal(t, "LoanScored", event.EventType())
	assert.Equal(t, "loan-123", event.AggregateID())
	assert.Equal(t, "Loan", event.AggregateType())
	assert.True(t, event.OccurredAt().Equal(at))
	assert.Equal(t, time.UTC, event.OccurredAt().Location())
}

func TestNewBaseEvent_UniqueIDs(t *testing.T) {
	a := NewBaseEvent("LoanScored", "loan-1", "Loan", time.Now())
	b := NewBaseEvent("LoanScored", "loan-1", "Loan", time.Now())

	assert.NotEqual(t, a.EventID(), b.EventID())
}

func TestBaseEventImplementsDomainEvent(t *testing.T) {
	var _ DomainEvent = BaseEvent{}
}

type scoredEvent struct {
	BaseEvent
	Score int `json:"score"`
}

func TestNewOutboxEntry(t *testing.T) {
	at := time.Date(2024, 1, 26, 0, 0, 0, 0, time.UTC)
	event := scoredEvent{
		BaseEvent: NewBaseEvent("LoanScored", "loan-789", "Loan", at),
		Score:     42,
	}

	entry, err := NewOutboxEntry(event)
	require.NoError(t, err)

	assert.Equal(t, event.EventID(), entry.ID)
	assert.Equal(t, "loan-789", entry.AggregateID)
	assert.Equal(t, "Loan", entry.AggregateType)
	assert.Equal(t, "LoanScored", entry.EventType)
	assert.Equal(t, at, entry.CreatedAt)
	assert.Nil(t, entry.PublishedAt)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(entry.Payload, &parsed))
	assert.Equal(t, event.EventID(), parsed["event_id"])
	assert.Equal(t, "loan-789", parsed["aggregate_id"])
	assert.EqualValues(t, 42, parsed["score"])
}

func TestEventCollector(t *testing.T) {
	at := time.Now()

	t.Run("records in order", func(t *testing.T) {
		collector := &EventCollector{}
		collector.Record(NewBaseEvent("Event1", "agg", "Aggregate", at))
		collector.Record(NewBaseEvent("Event2", "agg", "Aggregate", at))

		events := collector.Events()
		require.Len(t, events, 2)
		assert.Equal(t, "Event1", events[0].EventType())
		assert.Equal(t, "Event2", events[1].EventType())
	})

	t.Run("events does not clear", func(t *testing.T) {
		collector := &EventCollector{}
		collector.Record(NewBaseEvent("Event1", "agg", "Aggregate", at))

		_ = collector.Events()

		assert.Len(t, collector.Events(), 1)
	})

	t.Run("clear events drains the collector", func(t *testing.T) {
		collector := &EventCollector{}
		collector.Record(NewBaseEvent("Event1", "agg", "Aggregate", at))
		collector.Record(NewBaseEvent("Event2", "agg", "Aggregate", at))

		cleared := collector.ClearEvents()

		assert.Len(t, cleared, 2)
		assert.Empty(t, collector.Events())
	})

	t.Run("clear on empty returns nil", func(t *testing.T) {
		collector := &EventCollector{}

		assert.Nil(t, collector.ClearEvents())
	})
}
