package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/hexmap-tools/internal/pipeline"
)

func newSplitCmd(opts *options) *cobra.Command {
	var (
		grid      gridFlags
		outputDir string
		format    string
		margin    int
		workers   int
		debugDir  string
	)

	cmd := &cobra.Command{
		Use:   "split <image>",
		Short: "Extract every hex tile from a map image",
		Example: `  hexsplit split map.png
  hexsplit split map.png --rows 7 --cols 7 --vert-spacing 53.5
  hexsplit split map.png --mask edges.png --invert-offset -o tiles/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("output-dir") {
				cfg.OutputDir = outputDir
			}
			if f.Changed("format") {
				cfg.TileFormat = format
			}
			if f.Changed("margin") {
				cfg.Margin = margin
			}
			if f.Changed("workers") {
				cfg.Workers = workers
			}
			if f.Changed("debug-dir") {
				cfg.DebugDir = debugDir
			}
			if err := grid.apply(cmd, cfg); err != nil {
				return err
			}

			req := pipeline.RequestFromConfig(cfg, args[0], grid.mask)
			res, err := opts.runner().Split(cmd.Context(), req)
			if err != nil {
				return err
			}

			mode := "automatic"
			if res.Manual {
				mode = "manual"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d hex tiles to %s (%s mode, %dx%d grid)\n",
				len(res.Files), req.OutputDir, mode, res.Params.Rows, res.Params.Cols)
			fmt.Fprintf(cmd.OutOrStdout(), "Manifest: %s\n", res.Manifest)
			return nil
		},
	}

	grid.register(cmd)
	f := cmd.Flags()
	f.StringVarP(&outputDir, "output-dir", "o", "hex_tiles", "Output directory for extracted tiles")
	f.StringVar(&format, "format", "png", "Tile file format: png or tiff")
	f.IntVar(&margin, "margin", 5, "Padding in pixels around each hex")
	f.IntVar(&workers, "workers", 0, "Concurrent tile workers (default: number of CPUs)")
	f.StringVar(&debugDir, "debug-dir", "debug_images", "Directory for debug images")
	return cmd
}
