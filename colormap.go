package pcrender

import "github.com/chewxy/math32"

const colormapFloor = 0.001

// Colormap maps a position in the unit cube to an RGB color. Inputs are
// clamped to [0.001, 1] and the resulting vector is normalized so the
// output is continuous in its inputs and every channel is in (0,1].
func Colormap(u, v, w float32) Color {
	u = clamp(u, colormapFloor, 1)
	v = clamp(v, colormapFloor, 1)
	w = clamp(w, colormapFloor, 1)
	norm := math32.Sqrt(u*u + v*v + w*w)
	return Color{R: u / norm, G: v / norm, B: w / norm}
}

func clamp(x, a, b float32) float32 {
	return math32.Min(b, math32.Max(x, a))
}
