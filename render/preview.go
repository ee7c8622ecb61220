package render

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
)

// Preview is a fast rasterizing renderer for checking framing and colors
// without a Mitsuba install. It reads the same scene documents but only
// honors the camera, film size, sphere shapes, the ground rectangle and
// the position of the area light, shading everything with a phong model.
type Preview struct {
	// Scale multiplies the film resolution of the document. Zero means 1.
	Scale float64
	// Supersample renders at this multiple of the output size and
	// downsamples for antialiasing. Zero means 2.
	Supersample int
	// Detail is the icosphere subdivision level used for spheres.
	Detail int
}

var _ Renderer = Preview{}

var (
	previewBackground = fauxgl.HexColor("#FFF8E3")
	previewGround     = fauxgl.Color{R: 0.85, G: 0.85, B: 0.85, A: 1}
)

// Variants returns the single variant the preview emulates.
func (Preview) Variants(context.Context) ([]string, error) {
	return []string{DefaultVariant}, nil
}

// Render rasterizes the scene at scenePath and saves it as a PNG at imagePath.
func (p Preview) Render(ctx context.Context, scenePath, imagePath string) error {
	fp, err := os.Open(scenePath)
	if err != nil {
		return err
	}
	desc, err := decodeScene(fp)
	fp.Close()
	if err != nil {
		return fmt.Errorf("preview %s: %w", scenePath, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	scale := p.Scale
	if scale <= 0 {
		scale = 1
	}
	ss := p.Supersample
	if ss <= 0 {
		ss = 2
	}
	width := int(math.Max(1, math.Round(float64(desc.Width)*scale)))
	height := int(math.Max(1, math.Round(float64(desc.Height)*scale)))

	var (
		eye    = vec(desc.Eye)
		center = vec(desc.LookAt)
		up     = vec(desc.Up)
		light  = vec(r3.Sub(desc.Light, desc.LookAt)).Normalize()
	)
	aspect := float64(width) / float64(height)
	// Mitsuba's fov is horizontal by default, fauxgl wants the vertical one.
	fovx := desc.FOV * math.Pi / 180
	fovy := 2 * math.Atan(math.Tan(fovx/2)/aspect) * 180 / math.Pi

	raster := fauxgl.NewContext(width*ss, height*ss)
	raster.ClearColorBufferWith(previewBackground)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, desc.Near, desc.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	raster.Shader = shader

	if desc.Ground {
		// Mitsuba rectangles span [-1,1] before transforming.
		plane := fauxgl.NewPlane()
		plane.BiUnitCube()
		plane.Transform(fauxgl.Scale(fauxgl.V(desc.GroundScale.X, desc.GroundScale.Y, 1)).
			Translate(fauxgl.V(0, 0, desc.GroundZ)))
		shader.ObjectColor = previewGround
		raster.DrawMesh(plane)
	}

	unit := fauxgl.NewSphere(p.Detail)
	for _, s := range desc.Spheres {
		sphere := unit.Copy()
		sphere.Transform(fauxgl.Scale(fauxgl.V(s.Radius, s.Radius, s.Radius)).Translate(vec(s.Center)))
		shader.ObjectColor = fauxgl.Color{R: s.Color.X, G: s.Color.Y, B: s.Color.Z, A: 1}
		raster.DrawMesh(sphere)
	}

	// downsample image for antialiasing
	image := raster.Image()
	image = resize.Resize(uint(width), uint(height), image, resize.Bilinear)
	return fauxgl.SavePNG(imagePath, image)
}

func vec(v r3.Vec) fauxgl.Vector { return fauxgl.V(v.X, v.Y, v.Z) }
