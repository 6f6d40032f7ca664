package scan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupTransform(t *testing.T) {
	t.Parallel()

	t.Run("known names resolve", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"grayscale", "heatmap", "viridis", "plasma"} {
			tr, err := LookupTransform(name)
			require.NoError(t, err, "colormap %q should resolve", name)
			require.NotNil(t, tr)
		}
	})

	t.Run("unknown name is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := LookupTransform("sepia")
		require.ErrorIs(t, err, ErrUnknownColorTransform)
		assert.Contains(t, err.Error(), "sepia")
	})

	t.Run("no case folding", func(t *testing.T) {
		t.Parallel()
		_, err := LookupTransform("Grayscale")
		require.ErrorIs(t, err, ErrUnknownColorTransform)
	})

	t.Run("default is grayscale", func(t *testing.T) {
		t.Parallel()
		tr, err := LookupTransform(DefaultTransform)
		require.NoError(t, err)
		c := tr(0.5)
		assert.Equal(t, c.R, c.G)
		assert.Equal(t, c.G, c.B)
	})
}

func TestTransformNames(t *testing.T) {
	t.Parallel()

	names := TransformNames()
	assert.Equal(t, []string{"grayscale", "heatmap", "plasma", "viridis"}, names)
}

func TestGrayscaleReplicatesIntensity(t *testing.T) {
	t.Parallel()

	for _, v := range []float64{0, 0.25, 0.5, 0.75, 1} {
		c := Grayscale(v)
		want := uint8(math.Round(v * 255))
		assert.Equal(t, want, c.R, "red at %v", v)
		assert.Equal(t, want, c.G, "green at %v", v)
		assert.Equal(t, want, c.B, "blue at %v", v)
		assert.Equal(t, uint8(255), c.A, "alpha at %v", v)
	}
}

func TestTransformsAreOpaque(t *testing.T) {
	t.Parallel()

	for _, name := range TransformNames() {
		tr, err := LookupTransform(name)
		require.NoError(t, err)
		for v := 0.0; v <= 1.0; v += 0.05 {
			assert.Equal(t, uint8(255), tr(v).A, "%s alpha at %v", name, v)
		}
	}
}

func TestTransformsClampOutOfRangeInput(t *testing.T) {
	t.Parallel()

	for _, name := range TransformNames() {
		tr, err := LookupTransform(name)
		require.NoError(t, err)
		assert.Equal(t, tr(0), tr(-0.5), "%s below range", name)
		assert.Equal(t, tr(1), tr(1.5), "%s above range", name)
	}
}

// ----------------------------------------------------------------------------
// Palette shape checks. Exact channel values are fit-dependent; these pin the
// qualitative structure of each ramp instead.
// ----------------------------------------------------------------------------

func TestHeatmapRamp(t *testing.T) {
	t.Parallel()

	low := Heatmap(0)
	assert.Less(t, low.R, uint8(32), "heatmap starts near black")
	assert.Zero(t, low.G)
	assert.Zero(t, low.B)

	mid := Heatmap(0.5)
	assert.Equal(t, uint8(255), mid.R, "red saturates before midpoint")
	assert.Greater(t, mid.G, uint8(0))
	assert.Zero(t, mid.B)

	high := Heatmap(1)
	assert.Equal(t, uint8(255), high.R)
	assert.Equal(t, uint8(255), high.G)
	assert.Equal(t, uint8(255), high.B, "heatmap ends at white")
}

func TestViridisRamp(t *testing.T) {
	t.Parallel()

	low := Viridis(0)
	assert.Greater(t, low.B, low.R, "viridis starts in dark purple-blue")
	assert.Greater(t, low.B, low.G)

	mid := Viridis(0.5)
	assert.Greater(t, mid.G, mid.R, "viridis midpoint is teal-green")

	high := Viridis(1)
	assert.Greater(t, high.G, uint8(200), "viridis ends bright yellow")
	assert.Greater(t, high.R, uint8(200))
	assert.Less(t, high.B, uint8(100))
}

func TestPlasmaRamp(t *testing.T) {
	t.Parallel()

	low := Plasma(0)
	assert.Greater(t, low.B, low.G, "plasma starts in deep blue-violet")

	high := Plasma(1)
	assert.Greater(t, high.R, uint8(200), "plasma ends bright yellow")
	assert.Greater(t, high.G, uint8(180))
	assert.Less(t, high.B, uint8(100))
}
