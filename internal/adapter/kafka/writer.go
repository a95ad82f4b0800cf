package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/unit-converter-service/internal/config"
	"github.com/couchcryptid/unit-converter-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces conversion results to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch publishes encoded results to the sink topic in a single
// WriteMessages call. Messages are keyed by request id.
func (w *Writer) LoadBatch(ctx context.Context, msgs []domain.OutputMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]kafkago.Message, len(msgs))
	for i := range msgs {
		out[i] = toKafkaMessage(msgs[i])
	}
	if err := w.writer.WriteMessages(ctx, out...); err != nil {
		return err
	}
	w.logger.Debug("loaded batch", "size", len(out))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

func toKafkaMessage(msg domain.OutputMessage) kafkago.Message {
	return kafkago.Message{
		Key:   []byte(msg.ID),
		Value: msg.Value,
		Headers: []kafkago.Header{
			{Key: "category", Value: []byte(msg.Category)},
			{Key: "outcome", Value: []byte(msg.Outcome)},
			{Key: "content-type", Value: []byte(msg.ContentType)},
			{Key: "processed_at", Value: []byte(msg.ProcessedAt.Format(time.RFC3339))},
		},
	}
}
