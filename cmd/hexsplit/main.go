// Command hexsplit infers the hex grid of a map image and cuts every cell
// into its own transparent-background tile.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/hexmap-tools/internal/config"
	"github.com/ironsheep/hexmap-tools/internal/hexgrid"
	"github.com/ironsheep/hexmap-tools/internal/imaging"
	"github.com/ironsheep/hexmap-tools/internal/pipeline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Logs go to stderr; stdout carries command output.
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("hexsplit: %v", err)
	}
}

// options holds the flags shared by every subcommand.
type options struct {
	configPath string
	debug      bool
	quiet      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "hexsplit",
		Short: "Split hex grid map images into individual tiles",
		Long: `hexsplit finds the hexagonal tile grid in a map image and extracts
every cell as a hexagon-masked PNG with a transparent background.

Without --rows and --cols the grid is inferred from the map's edges.
With both it is sized from the image dimensions (manual mode).

Environment variables:
  HEXMAP_LOG_LEVEL=debug    Enable debug logging`,
		Version:       fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "hexsplit.yaml", "YAML configuration file")
	pf.BoolVar(&opts.debug, "debug", false, "Enable debug logging and debug images")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "Only log warnings and errors")

	root.AddCommand(
		newSplitCmd(opts),
		newAnalyzeCmd(opts),
		newEdgesCmd(opts),
	)
	return root
}

// loadConfig reads the config file and applies --debug.
func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.debug {
		cfg.Debug = true
	}
	return cfg, nil
}

// sink returns the event sink for the selected verbosity.
func (o *options) sink() hexgrid.EventSink {
	level := hexgrid.LevelInfo
	switch {
	case o.debug || os.Getenv("HEXMAP_LOG_LEVEL") == "debug":
		level = hexgrid.LevelDebug
	case o.quiet:
		level = hexgrid.LevelWarn
	}
	return hexgrid.LogSink{Logger: log.Default(), MinLevel: level}
}

func (o *options) runner() *pipeline.Runner {
	if o.debug || os.Getenv("HEXMAP_LOG_LEVEL") == "debug" {
		log.Printf("hexsplit %s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}
	return pipeline.NewRunner(imaging.NewImageCache(0), o.sink())
}
