package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/pixelmill/image-edit-mcp/internal/config"
	"github.com/pixelmill/image-edit-mcp/internal/genfill"
	"github.com/pixelmill/image-edit-mcp/internal/imaging"
	"github.com/pixelmill/image-edit-mcp/internal/pipeline"
	"github.com/pixelmill/image-edit-mcp/internal/server"
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
			fmt.Printf("image-edit-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("image-edit-mcp - MCP server for image editing and aspect-ratio transformation")
			fmt.Println()
			fmt.Println("Usage: image-edit-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  GEMINI_API_KEY                 Enable generative canvas extension")
			fmt.Println("  IMAGE_EDIT_CONFIG=path         Config file location (default config.yaml)")
			fmt.Println("  IMAGE_EDIT_LOG_LEVEL=debug     Enable debug logging")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// A local .env lets MCP clients run the server without exporting
	// credentials; absence is fine.
	_ = godotenv.Load()

	configPath := os.Getenv("IMAGE_EDIT_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	imaging.Configure(cfg.Codec.MaxParallel)

	logLevel := os.Getenv("IMAGE_EDIT_LOG_LEVEL")
	if logLevel == "debug" {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		pipeline.SetLogger(slog.New(handler))
		genfill.SetLogger(slog.New(handler))
		log.Printf("Image Edit MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	pcfg := pipeline.Config{
		Upscale: imaging.UpscaleOptions{
			FloorBytes:  cfg.Upscale.FloorBytes,
			TargetBytes: cfg.Upscale.TargetBytes,
			MaxScale:    cfg.Upscale.MaxScale,
		},
	}

	if cfg.AIConfigured() {
		client, err := genfill.New(cfg.Gemini.APIKey, genfill.Options{
			Model:       cfg.Gemini.Model,
			BaseURL:     cfg.Gemini.BaseURL,
			MaxAttempts: cfg.Gemini.MaxAttempts,
		})
		if err != nil {
			log.Fatalf("Generative client error: %v", err)
		}
		pcfg.Filler = client
		pcfg.Enhancer = client
		if logLevel == "debug" {
			log.Printf("Generative canvas extension enabled (model %q)", cfg.Gemini.Model)
		}
	}

	srv := server.New(pipeline.New(pcfg))
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
