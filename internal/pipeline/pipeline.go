package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/blast-effects-service/internal/domain"
	"github.com/couchcryptid/blast-effects-service/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
)

// BatchExtractor reads up to batchSize raw events from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer converts a raw detonation request into an effect report.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.EffectReport, error)
}

// BatchLoader writes multiple effect reports to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, reports []domain.EffectReport) error
}

// Pipeline orchestrates the extract-transform-load loop.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// Ready reports whether at least one batch has been loaded.
func (p *Pipeline) Ready() bool {
	return p.ready.Load()
}

// CheckReadiness returns nil if the pipeline has processed at least one message,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not processed any messages yet")
	}
	return nil
}

// Run executes the batch ETL loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	delay := newBackoff(initialBackoff, maxBackoff)
	for ctx.Err() == nil {
		if !p.processBatch(ctx, delay) {
			break
		}
	}
	p.logger.Info("pipeline stopping", "reason", context.Cause(ctx))
	return nil
}

// processBatch runs one extract-transform-load cycle. Returns false if the pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, delay *backoff) bool {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		return delay.wait(ctx)
	}
	if len(rawBatch) == 0 {
		return true
	}

	p.metrics.RequestsConsumed.Add(float64(len(rawBatch)))
	p.metrics.BatchSize.Observe(float64(len(rawBatch)))
	delay.reset()

	reports, accepted := p.transformBatch(ctx, rawBatch)
	if len(reports) == 0 {
		return true
	}

	if err := p.loader.LoadBatch(ctx, reports); err != nil {
		p.logger.Error("load batch failed", "error", err, "batch_size", len(reports))
		return delay.wait(ctx)
	}

	p.metrics.ReportsProduced.Add(float64(len(reports)))
	p.metrics.Assessments.WithLabelValues("stream", "success").Add(float64(len(reports)))
	for _, raw := range accepted {
		p.commitOffset(ctx, raw)
	}

	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)
	return true
}

// transformBatch assesses each request. Rejected requests are committed
// immediately; accepted ones are returned alongside their reports and are
// committed only after the load succeeds.
func (p *Pipeline) transformBatch(ctx context.Context, rawBatch []domain.RawEvent) ([]domain.EffectReport, []domain.RawEvent) {
	reports := make([]domain.EffectReport, 0, len(rawBatch))
	accepted := make([]domain.RawEvent, 0, len(rawBatch))

	for _, raw := range rawBatch {
		report, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.reject(ctx, raw, err)
			continue
		}
		reports = append(reports, report)
		accepted = append(accepted, raw)
	}
	return reports, accepted
}

func (p *Pipeline) reject(ctx context.Context, raw domain.RawEvent, err error) {
	reason := rejectReason(err)
	p.logger.Warn("rejecting detonation request",
		"error", err,
		"reason", reason,
		"topic", raw.Topic,
		"partition", raw.Partition,
		"offset", raw.Offset,
	)
	p.metrics.TransformErrors.WithLabelValues(reason).Inc()
	p.metrics.Assessments.WithLabelValues("stream", "rejected").Inc()
	p.commitOffset(ctx, raw)
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

// rejectReason maps a transform error to a low-cardinality metric label.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidYield):
		return "invalid_yield"
	case errors.Is(err, domain.ErrUnknownPreset):
		return "unknown_preset"
	case errors.Is(err, domain.ErrUnknownScalingLaw):
		return "unknown_law"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrEncode):
		return "encode"
	default:
		return "other"
	}
}

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// backoff is a doubling retry delay capped at max.
type backoff struct {
	current, initial, max time.Duration
}

func newBackoff(initial, maxDelay time.Duration) *backoff {
	return &backoff{current: initial, initial: initial, max: maxDelay}
}

func (b *backoff) reset() {
	b.current = b.initial
}

// wait sleeps for the current delay and doubles it. Returns false if ctx is
// cancelled first.
func (b *backoff) wait(ctx context.Context) bool {
	if !retry.SleepWithContext(ctx, b.current) {
		return false
	}
	b.current = retry.NextBackoff(b.current, b.max)
	return true
}
