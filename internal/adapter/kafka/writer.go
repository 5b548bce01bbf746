package kafka

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/blast-effects-service/internal/config"
	"github.com/couchcryptid/blast-effects-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces effect reports to a Kafka topic.
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

// LoadBatch serializes and publishes multiple effect reports to the sink
// topic in a single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, reports []domain.EffectReport) error {
	if len(reports) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(reports))
	for i := range reports {
		msg, err := serializeToMessage(reports[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an EffectReport into a Kafka message.
func serializeToMessage(report domain.EffectReport) (kafkago.Message, error) {
	out, err := domain.SerializeReport(report)
	if err != nil {
		return kafkago.Message{}, err
	}
	return kafkago.Message{
		Key:   out.Key,
		Value: out.Value,
		Headers: []kafkago.Header{
			{Key: "law", Value: []byte(out.Headers["law"])},
			{Key: "processed_at", Value: []byte(out.Headers["processed_at"])},
		},
	}, nil
}
