package pcio

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sbinet/npyio"
	"github.com/soypat/pcrender"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// npyBytes encodes data as a version 1.0 .npy payload.
// descr selects the element type written: "<f8" or "<f4".
func npyBytes(t testing.TB, descr string, shape []int, data []float64) []byte {
	dims := make([]string, len(shape))
	for i, d := range shape {
		dims[i] = fmt.Sprint(d)
	}
	shapeStr := strings.Join(dims, ", ")
	if len(shape) == 1 {
		shapeStr += ","
	}
	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': (%s), }", descr, shapeStr)
	// magic(6) + version(2) + header length(2) + header must be a multiple of 64.
	for (10+len(header)+1)%64 != 0 {
		header += " "
	}
	header += "\n"
	var b bytes.Buffer
	b.WriteString("\x93NUMPY\x01\x00")
	binary.Write(&b, binary.LittleEndian, uint16(len(header)))
	b.WriteString(header)
	for _, v := range data {
		var err error
		switch descr {
		case "<f8":
			err = binary.Write(&b, binary.LittleEndian, v)
		case "<f4":
			err = binary.Write(&b, binary.LittleEndian, float32(v))
		default:
			t.Fatalf("unsupported test descr %q", descr)
		}
		if err != nil {
			t.Fatal(err)
		}
	}
	return b.Bytes()
}

func writeFile(t testing.TB, name string, data []byte) string {
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func seqData(frames, points int) []float64 {
	data := make([]float64, frames*points*3)
	for i := range data {
		data[i] = float64(i) * 0.5
	}
	return data
}

func TestLoadNPY2D(t *testing.T) {
	// 2D arrays are written with npyio itself.
	m := mat.NewDense(4, 3, seqData(1, 4))
	var b bytes.Buffer
	if err := npyio.Write(&b, m); err != nil {
		t.Fatal(err)
	}
	seq, err := Load(writeFile(t, "cloud.npy", b.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	want := pcrender.Sequence{{
		{X: 0, Y: 0.5, Z: 1},
		{X: 1.5, Y: 2, Z: 2.5},
		{X: 3, Y: 3.5, Z: 4},
		{X: 4.5, Y: 5, Z: 5.5},
	}}
	if diff := cmp.Diff(want, seq); diff != "" {
		t.Errorf("sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadNPY3D(t *testing.T) {
	for _, descr := range []string{"<f8", "<f4"} {
		path := writeFile(t, "anim.npy", npyBytes(t, descr, []int{3, 5, 3}, seqData(3, 5)))
		seq, err := Load(path)
		if err != nil {
			t.Fatalf("%s: %v", descr, err)
		}
		frames, points := seq.Dims()
		if frames != 3 || points != 5 {
			t.Fatalf("%s: got %d frames of %d points. want 3 of 5", descr, frames, points)
		}
		// first point of the last frame starts at flat index 2*5*3.
		want := r3.Vec{X: 15, Y: 15.5, Z: 16}
		if seq[2][0] != want {
			t.Errorf("%s: got %v. want %v", descr, seq[2][0], want)
		}
	}
}

func TestLoadNPZ(t *testing.T) {
	var b bytes.Buffer
	zw := zip.NewWriter(&b)
	for name, shape := range map[string][]int{
		"other.npy": {2, 3},
		"pred.npy":  {2, 4, 3},
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		n := shape[0] * 3
		if len(shape) == 3 {
			n = shape[0] * shape[1] * 3
		}
		w.Write(npyBytes(t, "<f8", shape, seqData(1, n/3)))
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	seq, err := Load(writeFile(t, "pred.npz", b.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if frames, points := seq.Dims(); frames != 2 || points != 4 {
		t.Errorf("got %d frames of %d points. want 2 of 4", frames, points)
	}
}

func TestLoadNPZMissingKey(t *testing.T) {
	var b bytes.Buffer
	zw := zip.NewWriter(&b)
	w, _ := zw.Create("points.npy")
	w.Write(npyBytes(t, "<f8", []int{1, 3}, []float64{1, 2, 3}))
	zw.Close()
	_, err := Load(writeFile(t, "nopred.npz", b.Bytes()))
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("got error %v. want ErrMalformed", err)
	}
}

func TestLoadPLY(t *testing.T) {
	const src = `ply
format ascii 1.0
comment three vertices and no faces
element vertex 3
property float x
property float y
property float z
end_header
0 0 0
1 2 3
-1 0.5 4
`
	seq, err := Load(writeFile(t, "scan.ply", []byte(src)))
	if err != nil {
		t.Fatal(err)
	}
	want := pcrender.Sequence{{{}, {X: 1, Y: 2, Z: 3}, {X: -1, Y: 0.5, Z: 4}}}
	if diff := cmp.Diff(want, seq); diff != "" {
		t.Errorf("sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadUnsupported(t *testing.T) {
	for _, name := range []string{"cloud.txt", "cloud", "cloud.pcd"} {
		_, err := Load(writeFile(t, name, []byte("1 2 3")))
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%s: got error %v. want ErrUnsupportedFormat", name, err)
		}
	}
}

func TestReshape(t *testing.T) {
	for _, test := range []struct {
		shape   []int
		n       int
		wantErr bool
	}{
		{shape: []int{4, 3}, n: 12},
		{shape: []int{2, 2, 3}, n: 12},
		{shape: []int{0, 3}, n: 0},
		{shape: []int{12}, n: 12, wantErr: true},
		{shape: []int{4, 4}, n: 16, wantErr: true},
		{shape: []int{1, 1, 4, 3}, n: 12, wantErr: true},
		{shape: []int{5, 3}, n: 12, wantErr: true},
	} {
		_, err := Reshape(make([]float64, test.n), test.shape)
		if (err != nil) != test.wantErr {
			t.Errorf("shape %v: got error %v, want error: %v", test.shape, err, test.wantErr)
		}
		if err != nil && !errors.Is(err, ErrMalformed) {
			t.Errorf("shape %v: error %v does not wrap ErrMalformed", test.shape, err)
		}
	}
}

func TestReshapeCopies(t *testing.T) {
	data := []float64{1, 2, 3}
	seq, err := Reshape(data, []int{1, 3})
	if err != nil {
		t.Fatal(err)
	}
	data[0] = 100
	if seq[0][0].X != 1 {
		t.Error("sequence aliases input data")
	}
}
