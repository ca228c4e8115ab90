package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

const (
	defaultHandlerRetries = 3
	defaultRetryBackoff   = 200 * time.Millisecond
)

// Handler processes a consumed Kafka message. A returned error is retried with
// backoff; once retries are exhausted the message stays uncommitted and Start
// returns, so the group resumes from it after a restart or rebalance.
type Handler func(ctx context.Context, msg Message) error

// messageReader is the part of *kafkago.Reader the consumer drives.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Config() kafkago.ReaderConfig
	Close() error
}

// Consumer wraps a kafka-go group reader.
type Consumer struct {
	reader       messageReader
	handler      Handler
	logger       *slog.Logger
	maxRetries   int
	retryBackoff time.Duration
}

// NewConsumer creates a new Consumer for the given topic with the provided handler.
func NewConsumer(cfg Config, topic string, handler Handler, logger *slog.Logger) (*Consumer, error) {
	if cfg.ConsumerGroup == "" {
		return nil, errors.New("kafka: consumer group is required")
	}
	mechanism, err := cfg.saslMechanism()
	if err != nil {
		return nil, err
	}

	readerCfg := kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    topic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10 * 1024 * 1024, // 10 MB
	}
	if cfg.TLS || cfg.SASLEnabled {
		readerCfg.Dialer = &kafkago.Dialer{
			ClientID:      cfg.ClientID,
			DualStack:     true,
			TLS:           cfg.tlsConfig(),
			SASLMechanism: mechanism,
		}
	}

	return newConsumer(kafkago.NewReader(readerCfg), handler, cfg, logger), nil
}

func newConsumer(reader messageReader, handler Handler, cfg Config, logger *slog.Logger) *Consumer {
	c := &Consumer{
		reader:       reader,
		handler:      handler,
		logger:       logger,
		maxRetries:   cfg.HandlerRetries,
		retryBackoff: cfg.RetryBackoff,
	}
	if c.maxRetries <= 0 {
		c.maxRetries = defaultHandlerRetries
	}
	if c.retryBackoff <= 0 {
		c.retryBackoff = defaultRetryBackoff
	}
	return c
}

// Start begins consuming messages. Blocks until the context is canceled or a
// message fails every retry; in the latter case the message is not committed
// and the error is returned.
func (c *Consumer) Start(ctx context.Context) error {
	cfg := c.reader.Config()
	c.logger.Info("consumer starting", "topic", cfg.Topic, "group", cfg.GroupID)

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Info("consumer stopping due to context cancellation")
				return nil
			}
			return fmt.Errorf("fetching message: %w", err)
		}

		if err := c.handleWithRetry(ctx, m); err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopping due to context cancellation")
				return nil
			}
			return fmt.Errorf("handling %s/%d@%d: %w", m.Topic, m.Partition, m.Offset, err)
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.logger.Error("commit error",
				"topic", m.Topic,
				"partition", m.Partition,
				"offset", m.Offset,
				"error", err,
			)
		}
	}
}

// handleWithRetry runs the handler with exponential backoff and jitter.
func (c *Consumer) handleWithRetry(ctx context.Context, m kafkago.Message) error {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.retryBackoff * (1 << uint(attempt-1))
			jitter := time.Duration(rand.Int64N(int64(backoff)/2 + 1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}

		err := c.handler(ctx, fromKafkaMessage(m))
		if err == nil {
			return nil
		}
		lastErr = err
		c.logger.Warn("handler error",
			"topic", m.Topic,
			"partition", m.Partition,
			"offset", m.Offset,
			"attempt", attempt+1,
			"error", err,
		)
	}

	return fmt.Errorf("exhausted %d retries: %w", c.maxRetries, lastErr)
}

// Close closes the reader.
func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("closing kafka reader: %w", err)
	}
	return nil
}
