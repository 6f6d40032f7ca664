package scan

import (
	"fmt"
	"image/color"
	"math"
	"sort"
)

// Transform maps a normalized intensity in [0,1] to an opaque RGB color.
// Every transform is a pure function; the set is fixed at process start.
type Transform func(v float64) color.RGBA

// DefaultTransform is the identity/grayscale transform name.
const DefaultTransform = "grayscale"

var transforms = map[string]Transform{
	"grayscale": Grayscale,
	"heatmap":   Heatmap,
	"viridis":   Viridis,
	"plasma":    Plasma,
}

// LookupTransform resolves a colormap name to its transform. Unknown names
// fail with ErrUnknownColorTransform; there is no fallback substitution.
func LookupTransform(name string) (Transform, error) {
	t, ok := transforms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColorTransform, name)
	}
	return t, nil
}

// TransformNames returns the known colormap names in sorted order.
func TransformNames() []string {
	names := make([]string, 0, len(transforms))
	for name := range transforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Grayscale replicates the intensity across all three channels.
func Grayscale(v float64) color.RGBA {
	g := channelByte(v)
	return color.RGBA{R: g, G: g, B: g, A: 255}
}

// Heatmap is the classic black→red→yellow→white thermal ramp: red saturates
// first, then green, then blue.
func Heatmap(v float64) color.RGBA {
	v = clamp01(v)
	const (
		redEnd   = 0.365079
		greenEnd = 0.746032
	)
	r := clamp01(0.0416 + (1-0.0416)*(v/redEnd))
	g := clamp01((v - redEnd) / (greenEnd - redEnd))
	b := clamp01((v - greenEnd) / (1 - greenEnd))
	return color.RGBA{R: channelByte(r), G: channelByte(g), B: channelByte(b), A: 255}
}

// Degree-6 per-channel polynomial fits to the matplotlib viridis and plasma
// ramps, evaluated with Horner's rule. Coefficient rows are constant through
// x^6 for R, G, B.
var viridisCoeffs = [7][3]float64{
	{0.2777273272234177, 0.005407344544966578, 0.3340998053353061},
	{0.1050930431085774, 1.404613529898575, 1.384590162594685},
	{-0.3308618287255563, 0.214847559468213, 0.09509516302823659},
	{-4.634230498983486, -5.799100973351585, -19.33244095627987},
	{6.228269936347081, 14.17993336680509, 56.69055260068105},
	{4.776384997670288, -13.74514537774601, -65.35303263337234},
	{-5.435455855934631, 4.645852612178535, 26.3124352495832},
}

var plasmaCoeffs = [7][3]float64{
	{0.05873234392399702, 0.02333670892565664, 0.5433401826748754},
	{2.176514634195958, 0.2383834171260182, 0.7539604599784036},
	{-2.689460476458034, -7.455851135738909, 3.110799939717086},
	{6.130348345893603, 42.3461881477227, -28.51885465332158},
	{-11.10743619062271, -82.66631109428045, 60.13984767418263},
	{10.02306557647065, 71.41361770095349, -54.07218655560067},
	{-3.658713842777788, -22.93153465461149, 18.19190778539828},
}

// Viridis is a perceptually uniform blue→green→yellow ramp.
func Viridis(v float64) color.RGBA {
	return polyColor(viridisCoeffs, v)
}

// Plasma is a high-contrast purple→orange→yellow ramp.
func Plasma(v float64) color.RGBA {
	return polyColor(plasmaCoeffs, v)
}

func polyColor(c [7][3]float64, v float64) color.RGBA {
	v = clamp01(v)
	var rgb [3]float64
	for ch := 0; ch < 3; ch++ {
		acc := c[6][ch]
		for i := 5; i >= 0; i-- {
			acc = acc*v + c[i][ch]
		}
		rgb[ch] = clamp01(acc)
	}
	return color.RGBA{
		R: channelByte(rgb[0]),
		G: channelByte(rgb[1]),
		B: channelByte(rgb[2]),
		A: 255,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func channelByte(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}
