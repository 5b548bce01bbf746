package domain

import (
	"context"
	"log/slog"
)

// EnrichWithGeocoding attempts to enrich a report's ground zero with geocoding
// data. If geocoder is nil or geocoding fails, the report is returned with
// GeoSource set accordingly (graceful degradation).
func EnrichWithGeocoding(ctx context.Context, report EffectReport, geocoder Geocoder, logger *slog.Logger) EffectReport {
	if geocoder == nil {
		return report
	}

	gz := &report.GroundZero
	hasCoords := gz.Geo.Lat != 0 || gz.Geo.Lon != 0
	hasName := gz.Location.Name != ""

	// Forward geocode: site name → coordinates (when coords are missing).
	if !hasCoords && hasName {
		result, err := geocoder.ForwardGeocode(ctx, gz.Location.Name, gz.Location.Region)
		if err != nil {
			logger.Warn("forward geocoding failed",
				"report_id", report.ID,
				"location", gz.Location.Name,
				"region", gz.Location.Region,
				"error", err,
			)
			gz.GeoSource = "failed"
			return report
		}
		if result.Lat != 0 || result.Lon != 0 {
			gz.Geo.Lat = result.Lat
			gz.Geo.Lon = result.Lon
			gz.FormattedAddress = result.FormattedAddress
			gz.PlaceName = result.PlaceName
			gz.GeoConfidence = result.Confidence
			gz.GeoSource = "forward"
			return report
		}
		gz.GeoSource = "original"
		return report
	}

	// Reverse geocode: coordinates → place details (when coords are present).
	if hasCoords {
		result, err := geocoder.ReverseGeocode(ctx, gz.Geo.Lat, gz.Geo.Lon)
		if err != nil {
			logger.Warn("reverse geocoding failed",
				"report_id", report.ID,
				"lat", gz.Geo.Lat,
				"lon", gz.Geo.Lon,
				"error", err,
			)
			gz.GeoSource = "failed"
			return report
		}
		if result.FormattedAddress != "" {
			gz.FormattedAddress = result.FormattedAddress
			gz.PlaceName = result.PlaceName
			gz.GeoConfidence = result.Confidence
			gz.GeoSource = "reverse"
			return report
		}
		gz.GeoSource = "original"
		return report
	}

	gz.GeoSource = "original"
	return report
}
