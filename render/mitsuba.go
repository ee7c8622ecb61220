package render

import (
	"context"
	_ "embed"
	"fmt"
	"os/exec"
	"strings"
)

//go:embed mitsuba_bridge.py
var bridgeScript string

// Mitsuba renders scenes with the Mitsuba 3 Python package by running
// a short bridge script in a Python interpreter.
type Mitsuba struct {
	// Python is the interpreter to run. Defaults to "python3".
	Python string
	// Variant is the Mitsuba variant to render with. Defaults to DefaultVariant.
	Variant string
}

var _ Renderer = Mitsuba{}

func (m Mitsuba) python() string {
	if m.Python == "" {
		return "python3"
	}
	return m.Python
}

func (m Mitsuba) variant() string {
	if m.Variant == "" {
		return DefaultVariant
	}
	return m.Variant
}

// Render loads, renders and writes the scene at scenePath to imagePath.
// The image format follows imagePath's extension.
func (m Mitsuba) Render(ctx context.Context, scenePath, imagePath string) error {
	cmd := exec.CommandContext(ctx, m.python(), "-c", bridgeScript, m.variant(), scenePath, imagePath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("mitsuba %s render of %s failed: %w\n%s", m.variant(), scenePath, err, output)
	}
	return nil
}

// Variants returns the variants compiled into the installed Mitsuba package.
func (m Mitsuba) Variants(ctx context.Context) ([]string, error) {
	cmd := exec.CommandContext(ctx, m.python(), "-c", bridgeScript, "--variants")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("querying mitsuba variants: %w", err)
	}
	return strings.Fields(string(output)), nil
}
