// Command pcrender renders .npy, .npz and .ply point clouds with Mitsuba 3.
//
// For every frame of the input it writes <file>_<NN>.xml next to it and
// renders <file>_<NN>.png unless that image already exists.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/soypat/pcrender/pcio"
	"github.com/soypat/pcrender/pipeline"
	"github.com/soypat/pcrender/render"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := pipeline.DefaultConfig("")
	var (
		rendererName string
		python       string
		previewScale float64
	)
	cmd := &cobra.Command{
		Use:   "pcrender <file.npy|file.npz|file.ply>",
		Short: "Render point clouds as spheres with Mitsuba 3",
		Long: `pcrender draws each point of a point cloud as a small sphere colored by
its position, above a ground plane lit by an area light.

Arrays of shape [N,3] are a single frame, [F,N,3] arrays are F frames.
.npz archives must hold the array under the "pred" key. Every frame is
standardized into the unit cube and subsampled to the requested point count.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Input = args[0]
			switch rendererName {
			case "mitsuba":
				cfg.Renderer = render.Mitsuba{Python: python, Variant: cfg.Variant}
			case "preview":
				cfg.Renderer = render.Preview{Scale: previewScale}
			default:
				return fmt.Errorf("unknown renderer %q, want mitsuba or preview", rendererName)
			}
			_, err := pipeline.Run(cmd.Context(), cfg)
			if errors.Is(err, pcio.ErrUnsupportedFormat) {
				fmt.Fprintln(cmd.OutOrStdout(), "unsupported file format.")
				return nil
			}
			return err
		},
	}
	flags := cmd.Flags()
	flags.IntVarP(&cfg.NumPoints, "num_points_per_object", "n", pipeline.DefaultNumPoints, "number of points drawn per frame")
	flags.StringVarP(&cfg.Variant, "mitsuba_variant", "v", render.DefaultVariant, "Mitsuba variant to render with")
	flags.Int64Var(&cfg.Seed, "seed", 0, "seed for point subsampling")
	flags.StringVar(&rendererName, "renderer", "mitsuba", "renderer backend: mitsuba or preview")
	flags.StringVar(&python, "python", "python3", "Python interpreter with the mitsuba package installed")
	flags.Float64Var(&previewScale, "preview-scale", 0.5, "film resolution multiplier for the preview renderer")
	flags.BoolVar(&cfg.SkipRender, "no-render", false, "only write scene documents")
	flags.BoolVar(&cfg.Force, "force", false, "render frames even if their image exists")
	return cmd
}
