package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/ironsheep/hexmap-tools/internal/pipeline"
)

func newAnalyzeCmd(opts *options) *cobra.Command {
	var (
		grid      gridFlags
		withCells bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <image>",
		Short: "Print the inferred grid parameters as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if err := grid.apply(cmd, cfg); err != nil {
				return err
			}

			plan, err := opts.runner().Plan(pipeline.RequestFromConfig(cfg, args[0], grid.mask))
			if err != nil {
				return err
			}
			if !withCells {
				plan.Cells = nil
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(plan)
		},
	}

	grid.register(cmd)
	cmd.Flags().BoolVar(&withCells, "cells", false, "Include every cell center in the output")
	return cmd
}
