package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ParseRawEvent deserializes a RawEvent's value into a DetonationRequest.
func ParseRawEvent(raw RawEvent) (DetonationRequest, error) {
	var req DetonationRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return DetonationRequest{}, fmt.Errorf("parse raw event: %w", err)
	}
	req.Preset = strings.ToLower(strings.TrimSpace(req.Preset))
	req.Law = strings.TrimSpace(req.Law)
	req.Location.Name = strings.TrimSpace(req.Location.Name)
	req.Location.Region = strings.TrimSpace(req.Location.Region)
	return req, nil
}

// ResolveYield returns the request's explicit yield, falling back to its
// preset. A request with neither is an invalid yield.
func ResolveYield(req DetonationRequest, catalog *Catalog) (float64, error) {
	if req.YieldKt != 0 {
		return req.YieldKt, ValidateYield(req.YieldKt)
	}
	if req.Preset != "" {
		return catalog.Preset(req.Preset)
	}
	return 0, fmt.Errorf("%w: no yield_kt or preset", ErrInvalidYield)
}

// BuildReport resolves the request's yield and scaling law, assesses every
// effect, and stamps the report with a deterministic ID and processing time.
func BuildReport(req DetonationRequest, catalog *Catalog, defaultLaw string) (EffectReport, error) {
	yieldKt, err := ResolveYield(req, catalog)
	if err != nil {
		return EffectReport{}, err
	}

	lawName := req.Law
	if lawName == "" {
		lawName = defaultLaw
	}
	law, err := catalog.Law(lawName)
	if err != nil {
		return EffectReport{}, err
	}

	assessment, err := Assess(yieldKt, law)
	if err != nil {
		return EffectReport{}, err
	}

	return EffectReport{
		ID:        generateID(law.Name, yieldKt, req.Lat, req.Lon, req.Location.Name),
		RequestID: req.ID,
		Preset:    req.Preset,
		YieldKt:   yieldKt,
		Law:       law.Name,
		GroundZero: GroundZero{
			Geo:      Geo{Lat: req.Lat, Lon: req.Lon},
			Location: req.Location,
		},
		Effects:     assessment.Effects,
		ProcessedAt: clock.Now().UTC(),
	}, nil
}

// generateID produces a deterministic ID from the report's key fields so that
// replaying a request yields the same report ID.
func generateID(law string, yieldKt, lat, lon float64, place string) string {
	input := fmt.Sprintf("%s|%g|%.4f|%.4f|%s", law, yieldKt, lat, lon, strings.ToLower(place))
	hash := sha256.Sum256([]byte(input))
	return "det-" + hex.EncodeToString(hash[:8])
}

// SerializeReport marshals a report into an OutputEvent keyed by report ID.
func SerializeReport(report EffectReport) (OutputEvent, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize effect report: %w", err)
	}
	return OutputEvent{
		Key:   []byte(report.ID),
		Value: data,
		Headers: map[string]string{
			"law":          report.Law,
			"processed_at": report.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
