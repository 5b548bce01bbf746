//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/couchcryptid/blast-effects-service/internal/adapter/kafka"
	"github.com/couchcryptid/blast-effects-service/internal/config"
	"github.com/couchcryptid/blast-effects-service/internal/domain"
	"github.com/couchcryptid/blast-effects-service/internal/observability"
	"github.com/couchcryptid/blast-effects-service/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSourceTopic = "test-detonations"
	testSinkTopic   = "test-reports"
)

// reportMessage holds a deserialized message read from the sink topic.
type reportMessage struct {
	Report  domain.EffectReport
	Key     string
	Headers map[string]string
}

func readReport(ctx context.Context, t *testing.T, consumer *kafkago.Reader) reportMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var report domain.EffectReport
	require.NoError(t, json.Unmarshal(msg.Value, &report), "unmarshal sink message")

	return reportMessage{Report: report, Key: string(msg.Key), Headers: headers}
}

func testConfig(broker, group string) *config.Config {
	return &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaSourceTopic:   testSourceTopic,
		KafkaSinkTopic:     testSinkTopic,
		KafkaGroupID:       fmt.Sprintf("%s-%d", group, time.Now().UnixNano()),
		BatchFlushInterval: 5 * time.Second,
		ScalingLaw:         domain.DefaultLawName,
	}
}

func newTransformer(t *testing.T) *pipeline.DetonationTransformer {
	t.Helper()
	catalog, err := domain.DefaultCatalog()
	require.NoError(t, err)
	return pipeline.NewTransformer(catalog, domain.DefaultLawName, nil, observability.NewMetricsForTesting(), discardLogger())
}

func sinkConsumer(t *testing.T, broker string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

// TestKafkaReaderWriter round-trips one request through kafka.Reader, the
// transformer, and kafka.Writer.
func TestKafkaReaderWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker, "test-reader")

	req := domain.DetonationRequest{ID: "req-1", Preset: "little-boy", Lat: 34.3853, Lon: 132.4553}
	payload, err := json.Marshal(req)
	require.NoError(t, err)

	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx, kafkago.Message{Key: []byte("req-1"), Value: payload}))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })

	// Retry while the consumer group rebalances.
	var batch []domain.RawEvent
	for {
		batch, err = reader.ExtractBatch(ctx, 1)
		require.NoError(t, err)
		if len(batch) > 0 {
			break
		}
		if ctx.Err() != nil {
			t.Fatal("timed out waiting for message from source topic")
		}
	}
	require.Len(t, batch, 1)
	raw := batch[0]
	assert.Equal(t, []byte("req-1"), raw.Key)
	assert.Equal(t, payload, raw.Value)
	assert.Equal(t, testSourceTopic, raw.Topic)
	require.NotNil(t, raw.Commit)
	require.NoError(t, raw.Commit(ctx))

	report, err := newTransformer(t).Transform(ctx, raw)
	require.NoError(t, err)

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })
	require.NoError(t, writer.LoadBatch(ctx, []domain.EffectReport{report}))

	rm := readReport(ctx, t, sinkConsumer(t, broker))
	assert.Equal(t, report.ID, rm.Key)
	assert.Equal(t, "cube-root", rm.Headers["law"])
	_, err = time.Parse(time.RFC3339, rm.Headers["processed_at"])
	assert.NoError(t, err, "processed_at should be valid RFC3339")

	assert.Equal(t, "req-1", rm.Report.RequestID)
	assert.Equal(t, "little-boy", rm.Report.Preset)
	assert.Equal(t, 15.0, rm.Report.YieldKt)
	require.Len(t, rm.Report.Effects, 5)
	assert.Equal(t, domain.Fireball, rm.Report.Effects[0].Kind)
	assert.Equal(t, domain.BandNeighborhood, rm.Report.Effects[0].Narrative.Band)
}

// TestPipelineEndToEnd runs the full pipeline against a real broker and checks
// every preset produces an ordered report.
func TestPipelineEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker, "test-pipeline")

	requests := loadMockData(t)
	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })

	msgs := make([]kafkago.Message, 0, len(requests))
	for _, req := range requests {
		payload, err := json.Marshal(req)
		require.NoError(t, err)
		msgs = append(msgs, kafkago.Message{Key: []byte(req.ID), Value: payload})
	}
	require.NoError(t, producer.WriteMessages(ctx, msgs...))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	p := pipeline.New(reader, newTransformer(t), writer, discardLogger(), observability.NewMetricsForTesting(), 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := sinkConsumer(t, broker)
	received := make(map[string]domain.EffectReport, len(requests))
	for len(received) < len(requests) {
		rm := readReport(ctx, t, consumer)
		assert.Equal(t, rm.Report.ID, rm.Key)
		assert.Equal(t, "cube-root", rm.Headers["law"])
		received[rm.Report.RequestID] = rm.Report
	}

	pipelineCancel()
	require.NoError(t, <-errCh)
	assert.True(t, p.Ready())

	for _, req := range requests {
		report, ok := received[req.ID]
		require.True(t, ok, "missing report for %s", req.ID)
		require.Len(t, report.Effects, 5)
		for i := 1; i < len(report.Effects); i++ {
			assert.GreaterOrEqual(t, report.Effects[i].RadiusMeters, report.Effects[i-1].RadiusMeters,
				"%s: %s ordering", req.ID, report.Effects[i].Kind)
		}
	}

	tsar := received["req-tsar-bomba"]
	assert.Equal(t, 50000.0, tsar.YieldKt)
	for _, e := range tsar.Effects {
		assert.Equal(t, domain.SeverityExtreme, e.Narrative.Severity)
	}
}

// TestPipelineTransformError verifies poison messages are skipped while
// valid requests behind them still flow.
func TestPipelineTransformError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSourceTopic)
	createTopic(t, broker, testSinkTopic)
	cfg := testConfig(broker, "test-poison")

	valid, err := json.Marshal(domain.DetonationRequest{ID: "good", YieldKt: 1})
	require.NoError(t, err)

	producer := &kafkago.Writer{Addr: kafkago.TCP(broker), Topic: testSourceTopic}
	t.Cleanup(func() { _ = producer.Close() })
	require.NoError(t, producer.WriteMessages(ctx,
		kafkago.Message{Key: []byte("bad-json"), Value: []byte("not-json{{{")},
		kafkago.Message{Key: []byte("bad-yield"), Value: []byte(`{"yield_kt":-1}`)},
		kafkago.Message{Key: []byte("bad-preset"), Value: []byte(`{"preset":"unobtainium"}`)},
		kafkago.Message{Key: []byte("good"), Value: valid},
	))

	reader := kafka.NewReader(cfg, discardLogger())
	t.Cleanup(func() { _ = reader.Close() })
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	p := pipeline.New(reader, newTransformer(t), writer, discardLogger(), observability.NewMetricsForTesting(), 50)

	pipelineCtx, pipelineCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(pipelineCtx) }()

	consumer := sinkConsumer(t, broker)
	rm := readReport(ctx, t, consumer)
	assert.Equal(t, "good", rm.Report.RequestID)
	assert.Equal(t, 1.0, rm.Report.YieldKt)

	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err = consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no second message on sink topic")

	pipelineCancel()
	require.NoError(t, <-errCh)
}
