package domain

import (
	"fmt"
	"math"
)

// Band classifies a radius by absolute size.
type Band string

const (
	BandMinimal      Band = "minimal"      // <= 10 m
	BandLimited      Band = "limited"      // <= 30 m
	BandLocalized    Band = "localized"    // <= 50 m
	BandBlock        Band = "block"        // <= 100 m
	BandNeighborhood Band = "neighborhood" // <= 200 m
	BandDistrict     Band = "district"     // > 200 m
)

// Severity is the coarse label attached to a band.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
	SeverityExtreme  Severity = "extreme"
)

// SeverityNarrative is the static description of an effect at a radius band.
type SeverityNarrative struct {
	Kind     EffectKind `json:"kind"`
	Band     Band       `json:"band"`
	Severity Severity   `json:"severity"`
	Text     string     `json:"text"`
}

type bandLimit struct {
	maxMeters float64
	band      Band
	severity  Severity
}

var bandLimits = []bandLimit{
	{10, BandMinimal, SeverityMinor},
	{30, BandLimited, SeverityMinor},
	{50, BandLocalized, SeverityModerate},
	{100, BandBlock, SeverityModerate},
	{200, BandNeighborhood, SeveritySevere},
	{math.Inf(1), BandDistrict, SeverityExtreme},
}

// ClassifyRadius returns the band and severity for a radius in meters.
// Band upper bounds are inclusive.
func ClassifyRadius(radius float64) (Band, Severity) {
	for _, l := range bandLimits {
		if radius <= l.maxMeters {
			return l.band, l.severity
		}
	}
	return BandDistrict, SeverityExtreme
}

var narratives = map[EffectKind]map[Band]string{
	Fireball: {
		BandMinimal:      "A small fireball; anything it touches is vaporized, but it barely clears a single room.",
		BandLimited:      "The fireball engulfs a building footprint; everything inside is vaporized.",
		BandLocalized:    "The fireball swallows a city lot and its neighbors; nothing inside survives.",
		BandBlock:        "The fireball spans a city block; structures and people inside are vaporized.",
		BandNeighborhood: "The fireball covers several blocks; the ground beneath is scoured to bare earth.",
		BandDistrict:     "Maximum size of the nuclear fireball; anything inside the fireball is effectively vaporized.",
	},
	HeavyBlast: {
		BandMinimal:      "Overpressure collapses walls immediately around ground zero; anyone nearby is killed.",
		BandLimited:      "Reinforced structures next to ground zero fail; fatalities near 100% within the radius.",
		BandLocalized:    "Concrete buildings across the lot are destroyed; survival inside the radius is unlikely.",
		BandBlock:        "Heavily built concrete buildings across the block are severely damaged or demolished.",
		BandNeighborhood: "Heavily built concrete buildings are severely damaged; fatalities approach 100%.",
		BandDistrict:     "Heavily built concrete buildings are severely damaged or demolished across whole districts; fatalities approach 100%.",
	},
	ModerateBlast: {
		BandMinimal:      "Light structures at ground zero are knocked down; serious injuries are likely.",
		BandLimited:      "Houses next to ground zero collapse; occupants are likely killed or trapped.",
		BandLocalized:    "Residential buildings on the lot collapse; fires start from ruptured gas lines.",
		BandBlock:        "Most residential buildings on the block collapse; injuries are universal.",
		BandNeighborhood: "Most residential buildings collapse; widespread fatalities and high risk of fires.",
		BandDistrict:     "Most residential buildings collapse across the district; widespread fatalities and firestorms are likely.",
	},
	ThermalRadiation: {
		BandMinimal:      "Flash heat burns exposed skin close to ground zero.",
		BandLimited:      "Third-degree burns for anyone exposed near ground zero; clothing ignites.",
		BandLocalized:    "Third-degree burns across the lot; dry materials catch fire.",
		BandBlock:        "Third-degree burns across the block; exposed victims need urgent care.",
		BandNeighborhood: "Third-degree burns throughout; many victims require amputation and fires spread.",
		BandDistrict:     "Causes severe burns, possible amputation, and 100% probability of 3rd-degree burns.",
	},
	LightBlast: {
		BandMinimal:      "Windows nearby crack; minor cuts from debris.",
		BandLimited:      "Windows shatter on adjacent buildings; injuries from flying glass.",
		BandLocalized:    "Windows shatter across the lot; flying glass causes injuries.",
		BandBlock:        "Windows shatter across the block; many injuries from flying glass.",
		BandNeighborhood: "Windows shatter throughout the neighborhood; many injuries caused by flying glass.",
		BandDistrict:     "Windows shatter; many injuries caused by flying glass.",
	},
}

// DescribeEffect looks up the narrative for an effect at the given radius.
// Narratives are banded by absolute radius so the same table serves every
// scaling law.
func DescribeEffect(kind EffectKind, radius, yieldKt float64) (SeverityNarrative, error) {
	if !kind.Valid() {
		return SeverityNarrative{}, fmt.Errorf("%w: %d", ErrUnknownEffectKind, int(kind))
	}
	if err := ValidateYield(yieldKt); err != nil {
		return SeverityNarrative{}, err
	}
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius < 0 {
		return SeverityNarrative{}, fmt.Errorf("%w: %v m", ErrInvalidRadius, radius)
	}

	band, severity := ClassifyRadius(radius)
	return SeverityNarrative{
		Kind:     kind,
		Band:     band,
		Severity: severity,
		Text:     narratives[kind][band],
	}, nil
}
