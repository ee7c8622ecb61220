package pcrender

import (
	"fmt"
	"math/rand"

	"github.com/soypat/pcrender/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// CanonicalExtent is the length the longest side of a frame's
	// bounding box is scaled to. Standardized points lie in
	// [-CanonicalExtent/2, CanonicalExtent/2] along every axis.
	CanonicalExtent = 1.0
	// GroundOffset lifts points above the ground plane after the
	// axis remap so the lowest spheres do not clip into it.
	GroundOffset float32 = 0.0125
)

// Standardize subsamples f down to n points and fits the result in the
// canonical cube centered at the origin.
//
// Points are picked without replacement in the order given by a random
// permutation drawn from rng. When f holds fewer than n points every point is
// used, shuffled, so the result has min(n, len(f)) points and never more than n.
// Scaling is isotropic: the longest bounding box side becomes CanonicalExtent.
// A frame where all points coincide is centered and left unscaled.
func Standardize(f Frame, n int, rng *rand.Rand) ([]Point32, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBadCount, n)
	}
	if len(f) == 0 {
		return nil, ErrEmptyFrame
	}
	perm := rng.Perm(len(f))
	if len(perm) > n {
		perm = perm[:n]
	}
	picked := make(d3.Set, len(perm))
	for i, idx := range perm {
		if !d3.Finite(f[idx]) {
			return nil, fmt.Errorf("%w: point %d is %v", ErrNonFinite, idx, f[idx])
		}
		picked[i] = f[idx]
	}

	bb := picked.Bounds()
	center := bb.Center()
	scale := bb.MaxSide() / CanonicalExtent
	if scale == 0 {
		scale = 1
	}
	out := make([]Point32, len(picked))
	for i, v := range picked {
		v = r3.Scale(1/scale, r3.Sub(v, center))
		out[i] = Point32{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
	}
	return out, nil
}

// RendererAxes maps standardized points onto the Z-up axes of the emitted
// camera. The result is a new slice where each point (x,y,z) becomes
// (-z, x, y+GroundOffset).
func RendererAxes(pts []Point32) []Point32 {
	out := make([]Point32, len(pts))
	for i, p := range pts {
		out[i] = Point32{X: -p.Z, Y: p.X, Z: p.Y + GroundOffset}
	}
	return out
}

// Colors returns the colormap of every point remapped by RendererAxes.
func Colors(pts []Point32) []Color {
	colors := make([]Color, len(pts))
	for i, p := range pts {
		colors[i] = Colormap(ColorInput(p))
	}
	return colors
}

// ColorInput shifts a remapped point back into the unit cube so it can be
// fed to Colormap. The ground offset is removed so color depends only on
// the standardized position.
func ColorInput(p Point32) (u, v, w float32) {
	return p.X + 0.5, p.Y + 0.5, p.Z + 0.5 - GroundOffset
}
