package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRadius(t *testing.T) {
	tests := []struct {
		radius   float64
		band     Band
		severity Severity
	}{
		{0, BandMinimal, SeverityMinor},
		{10, BandMinimal, SeverityMinor},
		{10.01, BandLimited, SeverityMinor},
		{30, BandLimited, SeverityMinor},
		{45.8, BandLocalized, SeverityModerate},
		{50, BandLocalized, SeverityModerate},
		{100, BandBlock, SeverityModerate},
		{165.2, BandNeighborhood, SeveritySevere},
		{200, BandNeighborhood, SeveritySevere},
		{200.5, BandDistrict, SeverityExtreme},
		{1e9, BandDistrict, SeverityExtreme},
	}

	for _, tc := range tests {
		band, severity := ClassifyRadius(tc.radius)
		assert.Equal(t, tc.band, band, "radius %v", tc.radius)
		assert.Equal(t, tc.severity, severity, "radius %v", tc.radius)
	}
}

func TestDescribeEffect(t *testing.T) {
	t.Run("district fireball", func(t *testing.T) {
		n, err := DescribeEffect(Fireball, 450, 100)
		require.NoError(t, err)
		assert.Equal(t, Fireball, n.Kind)
		assert.Equal(t, BandDistrict, n.Band)
		assert.Equal(t, SeverityExtreme, n.Severity)
		assert.Contains(t, n.Text, "effectively vaporized")
	})

	t.Run("light blast in the limited band", func(t *testing.T) {
		n, err := DescribeEffect(LightBlast, 25, 0.0001)
		require.NoError(t, err)
		assert.Equal(t, BandLimited, n.Band)
		assert.Contains(t, n.Text, "flying glass")
	})

	t.Run("zero radius", func(t *testing.T) {
		n, err := DescribeEffect(ThermalRadiation, 0, 1)
		require.NoError(t, err)
		assert.Equal(t, BandMinimal, n.Band)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := DescribeEffect(EffectKind(42), 100, 1)
		require.ErrorIs(t, err, ErrUnknownEffectKind)

		_, err = DescribeEffect(EffectKind(-1), 100, 1)
		require.ErrorIs(t, err, ErrUnknownEffectKind)
	})

	t.Run("invalid yield", func(t *testing.T) {
		_, err := DescribeEffect(Fireball, 100, 0)
		require.ErrorIs(t, err, ErrInvalidYield)
	})

	t.Run("invalid radius", func(t *testing.T) {
		for _, r := range []float64{-1, math.NaN(), math.Inf(1)} {
			_, err := DescribeEffect(Fireball, r, 1)
			require.ErrorIs(t, err, ErrInvalidRadius, "radius %v", r)
		}
	})
}

func TestNarratives_CoverEveryKindAndBand(t *testing.T) {
	for _, kind := range AllEffectKinds() {
		for _, l := range bandLimits {
			assert.NotEmpty(t, narratives[kind][l.band], "%s/%s", kind, l.band)
		}
	}
}
