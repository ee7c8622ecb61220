package render

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// The subset of the Mitsuba scene format the preview understands.
type (
	xmlScene struct {
		XMLName xml.Name   `xml:"scene"`
		Sensor  xmlSensor  `xml:"sensor"`
		Shapes  []xmlShape `xml:"shape"`
	}
	xmlSensor struct {
		Floats    []xmlParam   `xml:"float"`
		Transform xmlTransform `xml:"transform"`
		Film      struct {
			Integers []xmlParam `xml:"integer"`
		} `xml:"film"`
	}
	xmlShape struct {
		Type      string       `xml:"type,attr"`
		Floats    []xmlParam   `xml:"float"`
		Transform xmlTransform `xml:"transform"`
		BSDF      *struct {
			RGB []xmlParam `xml:"rgb"`
		} `xml:"bsdf"`
		Emitter *struct {
			Type string `xml:"type,attr"`
		} `xml:"emitter"`
	}
	xmlTransform struct {
		Translate *xmlParam `xml:"translate"`
		Scale     *xmlParam `xml:"scale"`
		LookAt    *struct {
			Origin string `xml:"origin,attr"`
			Target string `xml:"target,attr"`
			Up     string `xml:"up,attr"`
		} `xml:"lookat"`
	}
	xmlParam struct {
		Name  string `xml:"name,attr"`
		Value string `xml:"value,attr"`
	}
)

// sceneSphere is a decoded sphere shape.
type sceneSphere struct {
	Center r3.Vec
	Radius float64
	Color  r3.Vec
}

// sceneDesc is what the preview rasterizer needs from a scene document.
type sceneDesc struct {
	Eye, LookAt, Up r3.Vec
	FOV             float64 // horizontal, degrees
	Near, Far       float64
	Width, Height   int
	Spheres         []sceneSphere
	// Ground is set if the scene has a non-emitting rectangle.
	Ground      bool
	GroundZ     float64
	GroundScale r3.Vec
	// Light is the position of the first area emitter.
	Light r3.Vec
}

func decodeScene(r io.Reader) (sceneDesc, error) {
	var doc xmlScene
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return sceneDesc{}, fmt.Errorf("decoding scene: %w", err)
	}
	desc := sceneDesc{
		FOV:    39.3077, // Mitsuba defaults.
		Near:   0.01,
		Far:    10000,
		Width:  768,
		Height: 576,
		Up:     r3.Vec{Z: 1},
		Light:  r3.Vec{Z: 10},
	}
	var err error
	for _, f := range doc.Sensor.Floats {
		switch f.Name {
		case "fov":
			desc.FOV, err = strconv.ParseFloat(f.Value, 64)
		case "near_clip":
			desc.Near, err = strconv.ParseFloat(f.Value, 64)
		case "far_clip":
			desc.Far, err = strconv.ParseFloat(f.Value, 64)
		}
		if err != nil {
			return sceneDesc{}, fmt.Errorf("sensor %s: %w", f.Name, err)
		}
	}
	for _, i := range doc.Sensor.Film.Integers {
		switch i.Name {
		case "width":
			desc.Width, err = strconv.Atoi(i.Value)
		case "height":
			desc.Height, err = strconv.Atoi(i.Value)
		}
		if err != nil {
			return sceneDesc{}, fmt.Errorf("film %s: %w", i.Name, err)
		}
	}
	if la := doc.Sensor.Transform.LookAt; la != nil {
		if desc.Eye, err = parseVec(la.Origin); err != nil {
			return sceneDesc{}, err
		}
		if desc.LookAt, err = parseVec(la.Target); err != nil {
			return sceneDesc{}, err
		}
		if desc.Up, err = parseVec(la.Up); err != nil {
			return sceneDesc{}, err
		}
	}

	lightFound := false
	for i, shape := range doc.Shapes {
		switch {
		case shape.Type == "sphere":
			sph, err := decodeSphere(shape)
			if err != nil {
				return sceneDesc{}, fmt.Errorf("shape %d: %w", i, err)
			}
			desc.Spheres = append(desc.Spheres, sph)
		case shape.Type == "rectangle" && shape.Emitter != nil:
			if lightFound || shape.Transform.LookAt == nil {
				continue
			}
			if desc.Light, err = parseVec(shape.Transform.LookAt.Origin); err != nil {
				return sceneDesc{}, fmt.Errorf("shape %d: %w", i, err)
			}
			lightFound = true
		case shape.Type == "rectangle":
			desc.Ground = true
			desc.GroundScale = r3.Vec{X: 1, Y: 1, Z: 1}
			if s := shape.Transform.Scale; s != nil {
				if desc.GroundScale, err = parseVec(s.Value); err != nil {
					return sceneDesc{}, fmt.Errorf("shape %d: %w", i, err)
				}
			}
			if tr := shape.Transform.Translate; tr != nil {
				v, err := parseVec(tr.Value)
				if err != nil {
					return sceneDesc{}, fmt.Errorf("shape %d: %w", i, err)
				}
				desc.GroundZ = v.Z
			}
		}
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return sceneDesc{}, fmt.Errorf("invalid film size %dx%d", desc.Width, desc.Height)
	}
	return desc, nil
}

func decodeSphere(shape xmlShape) (sph sceneSphere, err error) {
	sph.Radius = 1
	sph.Color = r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}
	for _, f := range shape.Floats {
		if f.Name == "radius" {
			if sph.Radius, err = strconv.ParseFloat(f.Value, 64); err != nil {
				return sph, fmt.Errorf("sphere radius: %w", err)
			}
		}
	}
	if tr := shape.Transform.Translate; tr != nil {
		if sph.Center, err = parseVec(tr.Value); err != nil {
			return sph, err
		}
	}
	if shape.BSDF != nil {
		for _, c := range shape.BSDF.RGB {
			if c.Name == "reflectance" {
				if sph.Color, err = parseVec(c.Value); err != nil {
					return sph, err
				}
			}
		}
	}
	return sph, nil
}

// parseVec parses Mitsuba vector attributes such as "1, 2, 3" or "1,2,3".
func parseVec(s string) (r3.Vec, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return r3.Vec{}, fmt.Errorf("vector %q does not have 3 components", s)
	}
	var v [3]float64
	for i, f := range fields {
		var err error
		v[i], err = strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return r3.Vec{}, fmt.Errorf("vector %q: %w", s, err)
		}
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
}
