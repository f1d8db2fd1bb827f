package main

import (
	"flag"
	"fmt"
	"os"

	"pdf2latex/internal/config"
	"pdf2latex/internal/fontbase"
	"pdf2latex/internal/logger"
)

func main() {
	fontDir := flag.String("fontdir", "", "font library directory (default: from config)")
	code := flag.String("code", "", "font family code to build (default: all families)")
	threads := flag.Int("t", 0, "number of concurrent glyph renders (default: from config)")
	dpi := flag.Int("dpi", 0, "rendering DPI, must match recognition DPI (default: from config)")
	configPath := flag.String("config", "", "config file path")
	verbose := flag.Bool("v", false, "enable verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fontgen [options]\n\nBuilds the reference glyph library. Requires pdflatex and pdftoppm.\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	manager, err := config.NewManager(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := manager.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg := manager.Get()

	if *fontDir != "" {
		cfg.FontDir = *fontDir
	}
	if *threads > 0 {
		cfg.Threads = *threads
	}
	if *dpi > 0 {
		cfg.DPI = *dpi
	}
	if *verbose {
		cfg.Verbose = true
	}

	level := logger.LevelInfo
	if cfg.Verbose {
		level = logger.LevelDebug
	}
	if err := logger.Init(&logger.Config{Level: level, EnableConsole: true}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	codes := fontbase.AllCodes()
	if *code != "" {
		parsed, err := fontbase.ParseCode(*code)
		if err != nil {
			logger.Error("unknown font family code", err, logger.String("code", *code))
			os.Exit(1)
		}
		codes = []fontbase.Code{parsed}
	}

	builderCfg := fontbase.BuilderConfig{
		FontDir: cfg.FontDir,
		Threads: cfg.Threads,
		DPI:     cfg.DPI,
	}

	for _, c := range codes {
		if err := fontbase.CreateFamily(c, builderCfg); err != nil {
			logger.Error("family build failed", err,
				logger.String("code", c.String()))
			os.Exit(1)
		}
	}
}
