// Package pcio reads point cloud files into pcrender sequences.
package pcio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/soypat/pcrender"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrUnsupportedFormat is returned by Load for unrecognized file extensions.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrMalformed is returned when a file of a known format does not hold
	// point data in the expected layout.
	ErrMalformed = errors.New("malformed point cloud")
)

// PredKey is the array name looked up inside .npz archives.
const PredKey = "pred"

// Formats lists the file extensions Load understands.
var Formats = []string{".npy", ".npz", ".ply"}

// Load reads the point cloud at path. The format is picked by file extension:
//   - .npy: numeric array of shape [N,3] or [F,N,3]
//   - .npz: archive holding such an array under PredKey
//   - .ply: vertex element with x, y and z properties, read as a single frame
func Load(path string) (pcrender.Sequence, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".npy":
		return readNPYFile(path)
	case ".npz":
		return readNPZFile(path, PredKey)
	case ".ply":
		return readPLYFile(path)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// Reshape interprets flat row-major data with the given shape as a sequence.
// A shape of [N,3] is a single frame; [F,N,3] yields F frames of N points.
// data is not retained.
func Reshape(data []float64, shape []int) (pcrender.Sequence, error) {
	var frames, points int
	switch len(shape) {
	case 2:
		frames, points = 1, shape[0]
	case 3:
		frames, points = shape[0], shape[1]
	default:
		return nil, fmt.Errorf("%w: want shape [N,3] or [F,N,3], got %v", ErrMalformed, shape)
	}
	if shape[len(shape)-1] != 3 {
		return nil, fmt.Errorf("%w: last dimension must be 3, got %v", ErrMalformed, shape)
	}
	if frames*points*3 != len(data) {
		return nil, fmt.Errorf("%w: shape %v does not match %d values", ErrMalformed, shape, len(data))
	}
	seq := make(pcrender.Sequence, frames)
	for i := range seq {
		f := make(pcrender.Frame, points)
		offset := i * points * 3
		for j := range f {
			k := offset + 3*j
			f[j] = r3.Vec{X: data[k], Y: data[k+1], Z: data[k+2]}
		}
		seq[i] = f
	}
	return seq, nil
}
