package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidScalingLaw is returned when a law is missing coefficients, has
// non-positive values, or would produce out-of-order radii.
var ErrInvalidScalingLaw = errors.New("invalid scaling law")

// Root is the exponent applied to the yield ratio.
type Root string

const (
	CubeRoot   Root = "cube"
	SquareRoot Root = "square"
)

// apply evaluates the root of x.
func (r Root) apply(x float64) float64 {
	switch r {
	case SquareRoot:
		return math.Sqrt(x)
	default:
		return math.Cbrt(x)
	}
}

// exponent returns 1/3 or 1/2.
func (r Root) exponent() float64 {
	if r == SquareRoot {
		return 0.5
	}
	return 1.0 / 3.0
}

func (r Root) valid() bool {
	return r == CubeRoot || r == SquareRoot
}

// Coefficient is the radius of an effect at a reference yield.
type Coefficient struct {
	Meters      float64 `json:"meters" yaml:"meters"`
	ReferenceKt float64 `json:"reference_kt" yaml:"reference_kt"`
}

// ScalingLaw relates yield to effect radius:
//
//	radius = Meters * root(yieldKt / ReferenceKt)
//
// with one Coefficient per effect kind.
type ScalingLaw struct {
	Name         string                     `json:"name"`
	Root         Root                       `json:"root"`
	Coefficients map[EffectKind]Coefficient `json:"coefficients"`
}

// Coefficient returns the bare radius for kind at its reference yield.
func (l ScalingLaw) Coefficient(kind EffectKind) float64 {
	return l.Coefficients[kind].Meters
}

// Validate checks that every kind has a usable coefficient and that radii
// stay ordered Fireball <= HeavyBlast <= ... <= LightBlast at every yield.
//
// With a shared exponent p each radius is (Meters / ReferenceKt^p) * yield^p,
// so ordering the effective coefficients orders the radii for all yields.
func (l ScalingLaw) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidScalingLaw)
	}
	if !l.Root.valid() {
		return fmt.Errorf("%w: %s: unknown root %q", ErrInvalidScalingLaw, l.Name, l.Root)
	}

	p := l.Root.exponent()
	prev := 0.0
	for _, kind := range AllEffectKinds() {
		c, ok := l.Coefficients[kind]
		if !ok {
			return fmt.Errorf("%w: %s: missing %s", ErrInvalidScalingLaw, l.Name, kind)
		}
		if !positiveFinite(c.Meters) || !positiveFinite(c.ReferenceKt) {
			return fmt.Errorf("%w: %s: %s needs positive meters and reference_kt", ErrInvalidScalingLaw, l.Name, kind)
		}
		effective := c.Meters / math.Pow(c.ReferenceKt, p)
		if effective < prev {
			return fmt.Errorf("%w: %s: %s radius falls below the preceding effect", ErrInvalidScalingLaw, l.Name, kind)
		}
		prev = effective
	}
	return nil
}

// ComputeRadii evaluates the scaling law for every effect kind. The result is
// a pure function of its inputs; invalid yields never produce radii, and a
// yield whose radius or area overflows float64 is rejected as out of range.
func ComputeRadii(yieldKt float64, law ScalingLaw) (RadiusResult, error) {
	if err := ValidateYield(yieldKt); err != nil {
		return nil, err
	}
	if err := law.Validate(); err != nil {
		return nil, err
	}

	radii := make(RadiusResult, numEffectKinds)
	for _, kind := range AllEffectKinds() {
		c := law.Coefficients[kind]
		r := c.Meters * (law.Root.apply(yieldKt) / law.Root.apply(c.ReferenceKt))
		if !finite(r) || !finite(ComputeArea(r)) {
			return nil, fmt.Errorf("%w: %v kt out of range for %s", ErrInvalidYield, yieldKt, law.Name)
		}
		radii[kind] = r
	}
	return radii, nil
}

func positiveFinite(v float64) bool {
	return v > 0 && finite(v)
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// DefaultLawName is the scaling law used when a request does not name one.
const DefaultLawName = "cube-root"

// BuiltinLaws returns the scaling laws shipped with the service:
//
//   - cube-root: 1 kt reference table used by the detonation map pages.
//   - cube-root-tonne: 1 t (0.001 kt) reference table for small charges.
//   - square-root: 0.02 kt reference table for the square-root variant.
func BuiltinLaws() []ScalingLaw {
	return []ScalingLaw{
		{
			Name: DefaultLawName,
			Root: CubeRoot,
			Coefficients: uniformReference(1,
				67, 173, 363, 399, 930),
		},
		{
			Name: "cube-root-tonne",
			Root: CubeRoot,
			Coefficients: uniformReference(0.001,
				5.58, 21.8, 45.8, 50.3, 118),
		},
		{
			Name: "square-root",
			Root: SquareRoot,
			Coefficients: uniformReference(0.02,
				18.5, 42, 88, 97, 228),
		},
	}
}

// uniformReference builds a coefficient table where every effect shares one
// reference yield. meters are given in kind order.
func uniformReference(referenceKt float64, meters ...float64) map[EffectKind]Coefficient {
	out := make(map[EffectKind]Coefficient, len(meters))
	for i, m := range meters {
		out[EffectKind(i)] = Coefficient{Meters: m, ReferenceKt: referenceKt}
	}
	return out
}
