package domain

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownScalingLaw is returned when a law name is not in the catalog.
	ErrUnknownScalingLaw = errors.New("unknown scaling law")

	// ErrUnknownPreset is returned when a preset name is not in the catalog.
	ErrUnknownPreset = errors.New("unknown preset")

	// ErrInvalidPreset is returned when a preset table fails validation at load.
	ErrInvalidPreset = errors.New("invalid preset")
)

//go:embed presets.yaml
var builtinPresetsYAML []byte

// presetNameRe restricts preset names to lowercase slugs, e.g. "little-boy".
var presetNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Preset is a named yield.
type Preset struct {
	Name    string  `json:"name"`
	YieldKt float64 `json:"yield_kt"`
}

// Catalog holds the scaling laws and presets available to a process.
// It is immutable after construction and safe for concurrent use.
type Catalog struct {
	laws    map[string]ScalingLaw
	presets map[string]float64
}

// NewCatalog validates laws and presets and indexes them by name.
func NewCatalog(laws []ScalingLaw, presets map[string]float64) (*Catalog, error) {
	c := &Catalog{
		laws:    make(map[string]ScalingLaw, len(laws)),
		presets: make(map[string]float64, len(presets)),
	}
	for _, law := range laws {
		if err := law.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.laws[law.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidScalingLaw, law.Name)
		}
		c.laws[law.Name] = law
	}
	if len(c.laws) == 0 {
		return nil, fmt.Errorf("%w: no laws configured", ErrInvalidScalingLaw)
	}
	for name, y := range presets {
		if !presetNameRe.MatchString(name) {
			return nil, fmt.Errorf("%w: bad name %q", ErrInvalidPreset, name)
		}
		if err := ValidateYield(y); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPreset, name, err)
		}
		c.presets[name] = y
	}
	return c, nil
}

// DefaultCatalog returns the built-in laws and presets.
func DefaultCatalog() (*Catalog, error) {
	presets, err := parsePresets(builtinPresetsYAML)
	if err != nil {
		return nil, fmt.Errorf("builtin presets: %w", err)
	}
	return NewCatalog(BuiltinLaws(), presets)
}

// LoadCatalog builds a catalog from optional YAML files. An empty path keeps
// the built-in table for that half of the catalog.
func LoadCatalog(lawsFile, presetsFile string) (*Catalog, error) {
	laws := BuiltinLaws()
	if lawsFile != "" {
		data, err := os.ReadFile(lawsFile)
		if err != nil {
			return nil, fmt.Errorf("reading laws file: %w", err)
		}
		laws, err = parseLaws(data)
		if err != nil {
			return nil, fmt.Errorf("parsing laws file %s: %w", lawsFile, err)
		}
	}

	presetsData := builtinPresetsYAML
	if presetsFile != "" {
		data, err := os.ReadFile(presetsFile)
		if err != nil {
			return nil, fmt.Errorf("reading presets file: %w", err)
		}
		presetsData = data
	}
	presets, err := parsePresets(presetsData)
	if err != nil {
		return nil, fmt.Errorf("parsing presets: %w", err)
	}

	return NewCatalog(laws, presets)
}

// Law returns the named scaling law.
func (c *Catalog) Law(name string) (ScalingLaw, error) {
	law, ok := c.laws[name]
	if !ok {
		return ScalingLaw{}, fmt.Errorf("%w: %q", ErrUnknownScalingLaw, name)
	}
	return law, nil
}

// Preset returns the yield for a named preset.
func (c *Catalog) Preset(name string) (float64, error) {
	y, ok := c.presets[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return y, nil
}

// Laws returns all laws sorted by name.
func (c *Catalog) Laws() []ScalingLaw {
	out := make([]ScalingLaw, 0, len(c.laws))
	for _, law := range c.laws {
		out = append(out, law)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Presets returns all presets ordered by yield, then name.
func (c *Catalog) Presets() []Preset {
	out := make([]Preset, 0, len(c.presets))
	for name, y := range c.presets {
		out = append(out, Preset{Name: name, YieldKt: y})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].YieldKt != out[j].YieldKt {
			return out[i].YieldKt < out[j].YieldKt
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// YAML file schemas.

type lawsFile struct {
	Laws []lawEntry `yaml:"laws"`
}

type lawEntry struct {
	Name    string                 `yaml:"name"`
	Root    string                 `yaml:"root"`
	Effects map[string]Coefficient `yaml:"effects"`
}

type presetsFile struct {
	Presets map[string]float64 `yaml:"presets"`
}

func parseLaws(data []byte) ([]ScalingLaw, error) {
	var f lawsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	laws := make([]ScalingLaw, 0, len(f.Laws))
	for _, e := range f.Laws {
		law := ScalingLaw{
			Name:         e.Name,
			Root:         Root(e.Root),
			Coefficients: make(map[EffectKind]Coefficient, len(e.Effects)),
		}
		for name, c := range e.Effects {
			kind, err := ParseEffectKind(name)
			if err != nil {
				return nil, fmt.Errorf("law %q: %w", e.Name, err)
			}
			if _, dup := law.Coefficients[kind]; dup {
				return nil, fmt.Errorf("%w: %s: duplicate %s", ErrInvalidScalingLaw, e.Name, kind)
			}
			law.Coefficients[kind] = c
		}
		laws = append(laws, law)
	}
	return laws, nil
}

func parsePresets(data []byte) (map[string]float64, error) {
	var f presetsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Presets, nil
}
