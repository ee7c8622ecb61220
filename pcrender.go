// Package pcrender turns point clouds into Mitsuba 3 scene documents
// made of small colored spheres resting on a ground plane.
//
// The root package holds the data model and the per-frame math:
// bounding box standardization, the renderer axis convention and
// the position colormap. Loading lives in pcio, scene text in scene,
// renderer invocation in render and the per-file driver in pipeline.
package pcrender

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"
)

// Frame is one timestep of a point cloud. The order of points defines
// their index and is otherwise meaningless.
type Frame []r3.Vec

// Sequence is an ordered list of frames. Single-frame inputs are
// sequences of length 1.
type Sequence []Frame

// Point32 is a standardized point. Scene documents are written with
// single precision so normalized points are stored as float32.
type Point32 struct {
	X, Y, Z float32
}

// Color is an RGB triplet with channels in [0,1].
type Color struct {
	R, G, B float32
}

var (
	// ErrEmptyFrame is returned when a frame has no points to standardize.
	ErrEmptyFrame = errors.New("pcrender: empty frame")
	// ErrBadCount is returned for non-positive target point counts.
	ErrBadCount = errors.New("pcrender: point count must be positive")
	// ErrNonFinite is returned when a frame contains NaN or infinite coordinates.
	ErrNonFinite = errors.New("pcrender: non-finite point coordinate")
)

// Dims returns the number of frames and the point count of the largest frame.
func (s Sequence) Dims() (frames, maxPoints int) {
	for _, f := range s {
		if len(f) > maxPoints {
			maxPoints = len(f)
		}
	}
	return len(s), maxPoints
}
