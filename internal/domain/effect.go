package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidYield is returned for zero, negative, non-finite, or unparsable yields.
	ErrInvalidYield = errors.New("invalid yield")

	// ErrUnknownEffectKind is returned for kinds outside the fixed enumeration.
	ErrUnknownEffectKind = errors.New("unknown effect kind")

	// ErrInvalidRadius is returned for negative or non-finite radii.
	ErrInvalidRadius = errors.New("invalid radius")
)

// EffectKind identifies one of the five blast effects. Kinds are declared in
// radius order: for any valid scaling law a later kind never has a smaller
// radius than an earlier one.
type EffectKind int

const (
	Fireball EffectKind = iota
	HeavyBlast
	ModerateBlast
	ThermalRadiation
	LightBlast

	numEffectKinds
)

var effectKindNames = [numEffectKinds]string{
	Fireball:         "fireball",
	HeavyBlast:       "heavy_blast",
	ModerateBlast:    "moderate_blast",
	ThermalRadiation: "thermal_radiation",
	LightBlast:       "light_blast",
}

var effectKindLabels = [numEffectKinds]string{
	Fireball:         "Fireball radius",
	HeavyBlast:       "Heavy blast damage radius (20 psi)",
	ModerateBlast:    "Moderate blast damage radius (5 psi)",
	ThermalRadiation: "Thermal radiation radius (3rd degree burns)",
	LightBlast:       "Light blast damage radius (1 psi)",
}

// AllEffectKinds returns every effect kind in radius order.
func AllEffectKinds() []EffectKind {
	return []EffectKind{Fireball, HeavyBlast, ModerateBlast, ThermalRadiation, LightBlast}
}

// Valid reports whether k is a member of the enumeration.
func (k EffectKind) Valid() bool {
	return k >= Fireball && k < numEffectKinds
}

func (k EffectKind) String() string {
	if !k.Valid() {
		return "EffectKind(" + strconv.Itoa(int(k)) + ")"
	}
	return effectKindNames[k]
}

// Label returns the human-readable heading for the effect, e.g.
// "Heavy blast damage radius (20 psi)".
func (k EffectKind) Label() string {
	if !k.Valid() {
		return k.String()
	}
	return effectKindLabels[k]
}

func (k EffectKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEffectKind, int(k))
	}
	return []byte(effectKindNames[k]), nil
}

func (k *EffectKind) UnmarshalText(text []byte) error {
	parsed, err := ParseEffectKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseEffectKind maps a kind name such as "moderate_blast" to its EffectKind.
// Matching is case-insensitive and accepts hyphens in place of underscores.
func ParseEffectKind(s string) (EffectKind, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for k, n := range effectKindNames {
		if n == name {
			return EffectKind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEffectKind, s)
}

// RadiusResult maps each effect kind to its radius in meters.
type RadiusResult map[EffectKind]float64

// Get returns the radius for kind, or 0 if absent.
func (r RadiusResult) Get(kind EffectKind) float64 {
	return r[kind]
}

// ValidateYield checks that a yield in kilotons is positive and finite.
func ValidateYield(yieldKt float64) error {
	if math.IsNaN(yieldKt) || math.IsInf(yieldKt, 0) || yieldKt <= 0 {
		return fmt.Errorf("%w: %v kt", ErrInvalidYield, yieldKt)
	}
	return nil
}

// ParseYield parses user-supplied yield text in kilotons.
func ParseYield(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidYield)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidYield, s)
	}
	if err := ValidateYield(v); err != nil {
		return 0, err
	}
	return v, nil
}

// ComputeArea converts a radius in meters to the enclosed area in square
// kilometers, rounded to two decimals for display.
func ComputeArea(radius float64) float64 {
	area := math.Pi * radius * radius / 1_000_000
	return math.Round(area*100) / 100
}
