package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/hexmap-tools/internal/hexgrid"
	"github.com/ironsheep/hexmap-tools/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("hexmap-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("hexmap-mcp - MCP server for hex map grid inference and tile extraction")
			fmt.Println()
			fmt.Println("Usage: hexmap-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  HEXMAP_LOG_LEVEL=debug    Log every pipeline event")
			fmt.Println("  HEXMAP_LOG_LEVEL=warn     Log warnings and errors only")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	level := hexgrid.LevelInfo
	switch os.Getenv("HEXMAP_LOG_LEVEL") {
	case "debug":
		level = hexgrid.LevelDebug
		log.Printf("Hex Map MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	case "warn":
		level = hexgrid.LevelWarn
	}

	if Version != "dev" {
		server.Version = Version
	}

	srv := server.New(hexgrid.LogSink{Logger: log.Default(), MinLevel: level})
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
