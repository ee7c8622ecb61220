package pcio

import (
	"fmt"
	"io"
	"os"

	"github.com/EliCDavis/polyform/formats/ply"
	"github.com/EliCDavis/polyform/modeling"
	"github.com/soypat/pcrender"
	"gonum.org/v1/gonum/spatial/r3"
)

func readPLYFile(path string) (pcrender.Sequence, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return ReadPLY(fp)
}

// ReadPLY reads the x, y and z vertex properties of a PLY file as a
// single frame. Faces, if present, are ignored.
func ReadPLY(r io.Reader) (pcrender.Sequence, error) {
	mesh, err := ply.ReadMesh(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	positions, ok := mesh.View().Float3Data[modeling.PositionAttribute]
	if !ok || len(positions) == 0 {
		return nil, fmt.Errorf("%w: no vertex positions", ErrMalformed)
	}
	f := make(pcrender.Frame, len(positions))
	for i, p := range positions {
		f[i] = r3.Vec{X: p.X(), Y: p.Y(), Z: p.Z()}
	}
	return pcrender.Sequence{f}, nil
}
