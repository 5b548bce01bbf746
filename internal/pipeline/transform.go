package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/blast-effects-service/internal/domain"
	"github.com/couchcryptid/blast-effects-service/internal/observability"
)

// ErrDecode marks messages whose payload is not a detonation request.
var ErrDecode = errors.New("decode detonation request")

// ErrEncode marks reports that cannot be serialized for the sink topic.
var ErrEncode = errors.New("encode effect report")

// DetonationTransformer implements Transformer using the domain calculator
// with optional geocoding enrichment.
type DetonationTransformer struct {
	catalog    *domain.Catalog
	defaultLaw string
	geocoder   domain.Geocoder
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewTransformer creates a DetonationTransformer. Pass a nil geocoder to
// disable geocoding enrichment.
func NewTransformer(catalog *domain.Catalog, defaultLaw string, geocoder domain.Geocoder, metrics *observability.Metrics, logger *slog.Logger) *DetonationTransformer {
	return &DetonationTransformer{
		catalog:    catalog,
		defaultLaw: defaultLaw,
		geocoder:   geocoder,
		metrics:    metrics,
		logger:     logger,
	}
}

func (t *DetonationTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.EffectReport, error) {
	req, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.EffectReport{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	report, err := domain.BuildReport(req, t.catalog, t.defaultLaw)
	if err != nil {
		return domain.EffectReport{}, err
	}

	for _, e := range report.Effects {
		t.metrics.EffectRadius.WithLabelValues(e.Kind.String()).Observe(e.RadiusMeters)
	}

	report = domain.EnrichWithGeocoding(ctx, report, t.geocoder, t.logger)

	if _, err := domain.SerializeReport(report); err != nil {
		return domain.EffectReport{}, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	t.logger.Debug("detonation assessed",
		"report_id", report.ID,
		"yield_kt", report.YieldKt,
		"law", report.Law,
	)
	return report, nil
}
