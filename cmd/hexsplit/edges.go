package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/hexmap-tools/internal/imaging"
	"github.com/ironsheep/hexmap-tools/internal/pipeline"
)

func newEdgesCmd(opts *options) *cobra.Command {
	var (
		output     string
		blurRadius float64
		threshold  uint8
	)

	cmd := &cobra.Command{
		Use:   "edges <image>",
		Short: "Write the edge mask the grid detector would use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("blur") {
				cfg.Edges.BlurRadius = blurRadius
			}
			if cmd.Flags().Changed("threshold") {
				cfg.Edges.Threshold = threshold
			}

			mask, err := opts.runner().EdgeMask(pipeline.RequestFromConfig(cfg, args[0], ""))
			if err != nil {
				return err
			}
			if err := imaging.Save(mask, output); err != nil {
				return err
			}

			edges := 0
			for _, v := range mask.Pix {
				if v > 0 {
					edges++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d edge pixels)\n", output, edges)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "edges.png", "Output file for the mask")
	f.Float64Var(&blurRadius, "blur", 1.0, "Blur radius before the gradient")
	f.Uint8Var(&threshold, "threshold", 64, "Gradient threshold (1-255)")
	return cmd
}
