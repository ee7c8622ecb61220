// Package scene writes Mitsuba 3 scene documents that draw a point cloud
// as small diffuse spheres over a rough plastic ground plane lit by a
// single area light.
package scene

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/template"

	"github.com/soypat/pcrender"
	"gonum.org/v1/gonum/spatial/r3"
)

// Params controls the parts of the document that do not depend on point data.
type Params struct {
	// MaxDepth is the path integrator's maximum depth. -1 is unbounded.
	MaxDepth int
	// Camera placement, looking from Origin at Target.
	Origin, Target, Up r3.Vec
	// FOV is the horizontal field of view in degrees.
	FOV               float64
	NearClip, FarClip float64
	// SampleCount is the number of samples per pixel of the independent sampler.
	SampleCount   int
	Width, Height int
	// Radius of every point sphere.
	Radius float64
	// GroundZ is the height of the ground plane and GroundScale its half size.
	GroundZ, GroundScale float64
	// LightOrigin is where the rectangular area light sits, facing the origin.
	LightOrigin r3.Vec
	Radiance    float64
}

// DefaultParams returns the parameters for a 1920x1080 render of a point
// cloud standardized into the unit cube.
func DefaultParams() Params {
	return Params{
		MaxDepth:    -1,
		Origin:      r3.Vec{X: 3, Y: 3, Z: 3},
		Up:          r3.Vec{Z: 1},
		FOV:         25,
		NearClip:    0.1,
		FarClip:     100,
		SampleCount: 256,
		Width:       1920,
		Height:      1080,
		Radius:      0.007,
		GroundZ:     -0.5,
		GroundScale: 10,
		LightOrigin: r3.Vec{X: -4, Y: 4, Z: 20},
		Radiance:    6,
	}
}

func (p Params) validate() error {
	switch {
	case p.Width <= 0 || p.Height <= 0:
		return fmt.Errorf("scene: film size must be positive, got %dx%d", p.Width, p.Height)
	case p.SampleCount <= 0:
		return fmt.Errorf("scene: sample count must be positive, got %d", p.SampleCount)
	case p.Radius <= 0:
		return fmt.Errorf("scene: sphere radius must be positive, got %g", p.Radius)
	case p.FOV <= 0 || p.FOV >= 180:
		return fmt.Errorf("scene: field of view must be in (0,180), got %g", p.FOV)
	}
	return nil
}

var funcs = template.FuncMap{
	"f32": formatFloat32,
	"vec": func(v r3.Vec) string {
		return fmt.Sprintf("%g,%g,%g", v.X, v.Y, v.Z)
	},
}

var (
	headerTmpl = template.Must(template.New("header").Funcs(funcs).Parse(headerSrc))
	sphereTmpl = template.Must(template.New("sphere").Funcs(funcs).Parse(sphereSrc))
	footerTmpl = template.Must(template.New("footer").Funcs(funcs).Parse(footerSrc))
)

const headerSrc = `<scene version="3.0.0">
    <integrator type="path">
        <integer name="max_depth" value="{{.MaxDepth}}"/>
    </integrator>
    <sensor type="perspective">
        <float name="far_clip" value="{{.FarClip}}"/>
        <float name="near_clip" value="{{.NearClip}}"/>
        <transform name="to_world">
            <lookat origin="{{vec .Origin}}" target="{{vec .Target}}" up="{{vec .Up}}"/>
        </transform>
        <float name="fov" value="{{.FOV}}"/>
        <sampler type="independent">
            <integer name="sample_count" value="{{.SampleCount}}"/>
        </sampler>
        <film type="hdrfilm">
            <integer name="width" value="{{.Width}}"/>
            <integer name="height" value="{{.Height}}"/>
            <rfilter type="gaussian"/>
        </film>
    </sensor>

    <bsdf type="roughplastic" id="surface_material">
        <string name="distribution" value="ggx"/>
        <float name="alpha" value="0.05"/>
        <float name="int_ior" value="1.46"/>
        <rgb name="diffuse_reflectance" value="1,1,1"/>
    </bsdf>

`

const sphereSrc = `
    <shape type="sphere">
        <float name="radius" value="{{.Radius}}"/>
        <transform name="to_world">
            <translate value="{{f32 .P.X}}, {{f32 .P.Y}}, {{f32 .P.Z}}"/>
        </transform>
        <bsdf type="diffuse">
            <rgb name="reflectance" value="{{f32 .C.R}},{{f32 .C.G}},{{f32 .C.B}}"/>
        </bsdf>
    </shape>
`

const footerSrc = `
    <shape type="rectangle">
        <ref name="bsdf" id="surface_material"/>
        <transform name="to_world">
            <scale value="{{.GroundScale}}, {{.GroundScale}}, 1"/>
            <translate value="0, 0, {{.GroundZ}}"/>
        </transform>
    </shape>

    <shape type="rectangle">
        <transform name="to_world">
            <scale value="{{.GroundScale}}, {{.GroundScale}}, 1"/>
            <lookat origin="{{vec .LightOrigin}}" target="0,0,0" up="0,0,1"/>
        </transform>
        <emitter type="area">
            <rgb name="radiance" value="{{.Radiance}},{{.Radiance}},{{.Radiance}}"/>
        </emitter>
    </shape>
</scene>
`

// formatFloat32 formats v with the fewest digits that read back as the same float32.
func formatFloat32(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// Header writes the opening of a document: integrator, camera, sampler,
// film and the ground material.
func Header(w io.Writer, p Params) error {
	return headerTmpl.Execute(w, p)
}

// Sphere writes a single shape record for point pt with diffuse color c.
func Sphere(w io.Writer, p Params, pt pcrender.Point32, c pcrender.Color) error {
	return sphereTmpl.Execute(w, struct {
		Radius float64
		P      pcrender.Point32
		C      pcrender.Color
	}{Radius: p.Radius, P: pt, C: c})
}

// Footer writes the ground plane, the area light and closes the document.
func Footer(w io.Writer, p Params) error {
	return footerTmpl.Execute(w, p)
}

// Document is a complete scene description. It is not modified after Build.
type Document struct {
	b       []byte
	spheres int
}

// Build assembles the document for points and their colors, in order.
// Identical inputs yield byte-identical documents.
func Build(points []pcrender.Point32, colors []pcrender.Color, p Params) (Document, error) {
	if len(points) != len(colors) {
		return Document{}, fmt.Errorf("scene: %d points but %d colors", len(points), len(colors))
	}
	if err := p.validate(); err != nil {
		return Document{}, err
	}
	var buf bytes.Buffer
	// Each sphere record is around 400 bytes.
	buf.Grow(2048 + 400*len(points))
	if err := Header(&buf, p); err != nil {
		return Document{}, err
	}
	for i := range points {
		if err := Sphere(&buf, p, points[i], colors[i]); err != nil {
			return Document{}, err
		}
	}
	if err := Footer(&buf, p); err != nil {
		return Document{}, err
	}
	return Document{b: buf.Bytes(), spheres: len(points)}, nil
}

// Spheres returns the number of shape records for points in the document.
func (d Document) Spheres() int { return d.spheres }

// Len returns the size of the document in bytes.
func (d Document) Len() int { return len(d.b) }

// WriteTo writes the document to w.
func (d Document) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.b)
	return int64(n), err
}

// WriteFile writes the document to path, creating or truncating it.
func (d Document) WriteFile(path string) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	_, err = d.WriteTo(fp)
	if err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}

// String returns the document text.
func (d Document) String() string { return string(d.b) }
