package ingestion

import (
	"context"
	"errors"
	"fmt"

	"github.com/getsentry/sentry-go"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/wakala/paysync/internal/logging"
)

// Consumer is the subset of *kafkago.Reader the consume loop needs.
type Consumer interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, messages ...kafkago.Message) error
}

// NewReader builds a consumer-group reader for the transaction event topic.
// Offsets are committed explicitly by Consume.
func NewReader(brokers []string, topic, groupID string) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

// Consume applies transaction events from reader until ctx is done or the
// projection store fails. Undecodable events are logged and committed so they
// do not block the partition.
func Consume(ctx context.Context, reader Consumer, svc *Service) error {
	logger := logging.Logger(ctx, "kafka consumer")
	logger.Info().Msg("starting consumer")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			message, err := reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("error fetching message: %w", err)
			}

			_, err = svc.Apply(ctx, SourceKafka, message.Value)
			if errors.Is(err, ErrInvalidEvent) {
				logger.Warn().Err(err).
					Str("key", string(message.Key)).
					Int("partition", message.Partition).
					Int64("offset", message.Offset).
					Msg("skipping invalid transaction event")
			} else if err != nil {
				return fmt.Errorf("error applying message partition %d offset %d: %w",
					message.Partition, message.Offset, err)
			}

			err = reader.CommitMessages(ctx, message)
			if err != nil {
				logger.Err(err).
					Str("key", string(message.Key)).
					Int("partition", message.Partition).
					Int64("offset", message.Offset).
					Msg("error committing kafka message")
				sentry.CaptureException(err)
			}
		}
	}
}
