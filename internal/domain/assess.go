package domain

import "fmt"

// Effect is one assessed effect ring, ready for a display layer.
type Effect struct {
	Kind         EffectKind        `json:"kind"`
	Label        string            `json:"label"`
	RadiusMeters float64           `json:"radius_m"`
	AreaKm2      float64           `json:"area_km2"`
	Narrative    SeverityNarrative `json:"narrative"`
}

// Summary renders the effect as a single display line, e.g.
// "Fireball radius: 67.0 m (0.01 km²)".
func (e Effect) Summary() string {
	return fmt.Sprintf("%s: %.1f m (%.2f km²)", e.Label, e.RadiusMeters, e.AreaKm2)
}

// Assessment is the full set of effects for one yield under one law.
type Assessment struct {
	YieldKt float64      `json:"yield_kt"`
	Law     string       `json:"law"`
	Radii   RadiusResult `json:"radii"`
	Effects []Effect     `json:"effects"`
}

// Assess computes radii, areas, and narratives for every effect kind,
// ordered from the fireball outward.
func Assess(yieldKt float64, law ScalingLaw) (Assessment, error) {
	radii, err := ComputeRadii(yieldKt, law)
	if err != nil {
		return Assessment{}, err
	}

	effects := make([]Effect, 0, len(radii))
	for _, kind := range AllEffectKinds() {
		radius := radii[kind]
		narrative, err := DescribeEffect(kind, radius, yieldKt)
		if err != nil {
			return Assessment{}, fmt.Errorf("describe %s: %w", kind, err)
		}
		effects = append(effects, Effect{
			Kind:         kind,
			Label:        kind.Label(),
			RadiusMeters: radius,
			AreaKm2:      ComputeArea(radius),
			Narrative:    narrative,
		})
	}

	return Assessment{
		YieldKt: yieldKt,
		Law:     law.Name,
		Radii:   radii,
		Effects: effects,
	}, nil
}
