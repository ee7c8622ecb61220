// Package pipeline drives the conversion of one point cloud file into
// per-frame scene documents and rendered images.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/soypat/pcrender"
	"github.com/soypat/pcrender/pcio"
	"github.com/soypat/pcrender/render"
	"github.com/soypat/pcrender/scene"
)

// Logf reports progress. It defaults to log.Printf and may be replaced
// with SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil mutes it.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// DefaultNumPoints is the number of spheres drawn per frame.
const DefaultNumPoints = 2048

// Config describes a conversion run.
type Config struct {
	// Input is the point cloud file. Artifacts are written next to it.
	Input string
	// NumPoints is the number of points kept per frame.
	NumPoints int
	// Variant is the renderer compute backend.
	Variant string
	// Seed seeds point subsampling. Runs with equal seeds write identical scenes.
	Seed int64
	// Renderer renders the scene documents. If nil a render.Mitsuba
	// using Variant is used.
	Renderer render.Renderer
	// Scene holds the document parameters. If nil scene.DefaultParams is used.
	Scene *scene.Params
	// SkipRender only writes scene documents.
	SkipRender bool
	// Force renders frames even if their image already exists.
	Force bool
}

// DefaultConfig returns the configuration used for input when no
// options are given.
func DefaultConfig(input string) Config {
	return Config{
		Input:     input,
		NumPoints: DefaultNumPoints,
		Variant:   render.DefaultVariant,
	}
}

// Summary lists the artifacts touched by Run.
type Summary struct {
	Frames   int
	Scenes   []string
	Rendered []string
	// Skipped are images that already existed and were left untouched.
	Skipped []string
}

// ScenePath returns the scene document path for a frame of input.
// The input's base name, extension included, is kept as prefix.
func ScenePath(input string, frame int) string {
	return artifactPath(input, frame, ".xml")
}

// ImagePath returns the rendered image path for a frame of input.
func ImagePath(input string, frame int) string {
	return artifactPath(input, frame, ".png")
}

func artifactPath(input string, frame int, ext string) string {
	dir, base := filepath.Split(input)
	return filepath.Join(dir, fmt.Sprintf("%s_%02d%s", base, frame, ext))
}

// Run loads cfg.Input and, frame by frame, writes its scene document and
// renders it unless the frame's image already exists. Frames are processed
// in order and the first error aborts the run. Unrecognized input formats
// return an error wrapping pcio.ErrUnsupportedFormat.
func Run(ctx context.Context, cfg Config) (Summary, error) {
	var sum Summary
	if cfg.NumPoints <= 0 {
		return sum, fmt.Errorf("%w: got %d", pcrender.ErrBadCount, cfg.NumPoints)
	}
	if cfg.Variant == "" {
		cfg.Variant = render.DefaultVariant
	}
	params := scene.DefaultParams()
	if cfg.Scene != nil {
		params = *cfg.Scene
	}
	renderer := cfg.Renderer
	if renderer == nil {
		renderer = render.Mitsuba{Variant: cfg.Variant}
	}
	if !cfg.SkipRender {
		if err := render.CheckVariant(ctx, renderer, cfg.Variant); err != nil {
			return sum, err
		}
	}

	seq, err := pcio.Load(cfg.Input)
	if err != nil {
		return sum, err
	}
	sum.Frames = len(seq)
	rng := rand.New(rand.NewSource(cfg.Seed))
	for i, frame := range seq {
		if len(frame) < cfg.NumPoints {
			Logf("frame %d has %d points, fewer than the %d requested: using all of them", i, len(frame), cfg.NumPoints)
		}
		pts, err := pcrender.Standardize(frame, cfg.NumPoints, rng)
		if err != nil {
			return sum, fmt.Errorf("frame %d: %w", i, err)
		}
		pts = pcrender.RendererAxes(pts)
		doc, err := scene.Build(pts, pcrender.Colors(pts), params)
		if err != nil {
			return sum, fmt.Errorf("frame %d: %w", i, err)
		}

		scenePath := ScenePath(cfg.Input, i)
		Logf("writing %s (%d spheres)", scenePath, doc.Spheres())
		if err := doc.WriteFile(scenePath); err != nil {
			return sum, err
		}
		sum.Scenes = append(sum.Scenes, scenePath)
		if cfg.SkipRender {
			continue
		}

		imagePath := ImagePath(cfg.Input, i)
		exists, err := fileExists(imagePath)
		if err != nil {
			return sum, err
		}
		if exists && !cfg.Force {
			Logf("skipping rendering of %s, image already exists", imagePath)
			sum.Skipped = append(sum.Skipped, imagePath)
			continue
		}
		Logf("rendering %s to %s", scenePath, imagePath)
		if err := renderer.Render(ctx, scenePath, imagePath); err != nil {
			return sum, fmt.Errorf("frame %d: %w", i, err)
		}
		sum.Rendered = append(sum.Rendered, imagePath)
	}
	return sum, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
