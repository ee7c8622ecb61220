// Package render turns scene documents written to disk into images.
package render

import (
	"context"
	"errors"
	"fmt"
)

// DefaultVariant is the scalar RGB Mitsuba backend, available on every install.
const DefaultVariant = "scalar_rgb"

// ErrUnknownVariant is returned when a variant is not declared by a renderer.
var ErrUnknownVariant = errors.New("unknown renderer variant")

// Renderer loads the scene document at scenePath and writes the
// resulting image to imagePath.
type Renderer interface {
	Render(ctx context.Context, scenePath, imagePath string) error
	// Variants lists the compute backends the renderer supports.
	Variants(ctx context.Context) ([]string, error)
}

// CheckVariant returns an error wrapping ErrUnknownVariant if variant
// is not one of r's declared variants.
func CheckVariant(ctx context.Context, r Renderer, variant string) error {
	variants, err := r.Variants(ctx)
	if err != nil {
		return fmt.Errorf("listing renderer variants: %w", err)
	}
	for _, v := range variants {
		if v == variant {
			return nil
		}
	}
	return fmt.Errorf("%w %q, choose from %v", ErrUnknownVariant, variant, variants)
}
