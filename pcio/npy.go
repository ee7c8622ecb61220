package pcio

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sbinet/npyio"
	"github.com/soypat/pcrender"
)

func readNPYFile(path string) (pcrender.Sequence, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return ReadNPY(fp)
}

// ReadNPY decodes a NumPy array holding point coordinates.
// Little endian float32, float64, int32 and int64 arrays in C order are accepted.
func ReadNPY(r io.Reader) (pcrender.Sequence, error) {
	npy, err := npyio.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	descr := npy.Header.Descr
	if descr.Fortran {
		return nil, fmt.Errorf("%w: fortran ordered arrays not supported", ErrMalformed)
	}
	var data []float64
	switch descr.Type {
	case "<f8":
		err = npy.Read(&data)
	case "<f4":
		var f32 []float32
		err = npy.Read(&f32)
		data = widen(f32)
	case "<i8":
		var i64 []int64
		err = npy.Read(&i64)
		data = widen(i64)
	case "<i4":
		var i32 []int32
		err = npy.Read(&i32)
		data = widen(i32)
	default:
		return nil, fmt.Errorf("%w: unsupported dtype %q", ErrMalformed, descr.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Reshape(data, descr.Shape)
}

func widen[T float32 | int32 | int64](s []T) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = float64(v)
	}
	return out
}

// readNPZFile reads the array named key from an .npz archive.
func readNPZFile(path, key string) (pcrender.Sequence, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if strings.TrimSuffix(f.Name, ".npy") != key {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return ReadNPY(rc)
	}
	return nil, fmt.Errorf("%w: archive has no %q array", ErrMalformed, key)
}
