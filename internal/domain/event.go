package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Location is a named ground-zero site, e.g. {Name: "Hiroshima", Region: "Japan"}.
type Location struct {
	Name   string `json:"name,omitempty"`
	Region string `json:"region,omitempty"`
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat,omitempty"`
	Lon float64 `json:"lon,omitempty"`
}

// DetonationRequest is the JSON payload published to the source topic.
// YieldKt takes precedence over Preset; an empty Law selects the default.
type DetonationRequest struct {
	ID       string   `json:"id,omitempty"`
	YieldKt  float64  `json:"yield_kt,omitempty"`
	Preset   string   `json:"preset,omitempty"`
	Law      string   `json:"law,omitempty"`
	Lat      float64  `json:"lat,omitempty"`
	Lon      float64  `json:"lon,omitempty"`
	Location Location `json:"location,omitempty"`
}

// GroundZero is the detonation site after optional geocoding enrichment.
type GroundZero struct {
	Geo      Geo      `json:"geo,omitempty"`
	Location Location `json:"location,omitempty"`

	// Geocoding enrichment fields.
	FormattedAddress string  `json:"formatted_address,omitempty"`
	PlaceName        string  `json:"place_name,omitempty"`
	GeoConfidence    float64 `json:"geo_confidence,omitempty"`
	GeoSource        string  `json:"geo_source,omitempty"` // "forward", "reverse", "original", "failed"
}

// EffectReport is the assessed form destined for the sink topic.
type EffectReport struct {
	ID          string     `json:"id"`
	RequestID   string     `json:"request_id,omitempty"`
	Preset      string     `json:"preset,omitempty"`
	YieldKt     float64    `json:"yield_kt"`
	Law         string     `json:"law"`
	GroundZero  GroundZero `json:"ground_zero"`
	Effects     []Effect   `json:"effects"`
	ProcessedAt time.Time  `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
