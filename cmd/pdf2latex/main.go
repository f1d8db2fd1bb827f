package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pdf2latex/internal/config"
	"pdf2latex/internal/fontbase"
	"pdf2latex/internal/formula"
	"pdf2latex/internal/latex"
	"pdf2latex/internal/logger"
	"pdf2latex/internal/pdf"
	"pdf2latex/internal/types"
)

func main() {
	output := flag.String("o", "", "output .tex file (default: print to stdout)")
	pages := flag.String("pages", "", "pages to convert, e.g. \"1,3,5,7-9\" (default: all)")
	threads := flag.Int("t", 0, "number of concurrent matching threads (default: from config)")
	fontDir := flag.String("fontdir", "", "font library directory (default: from config)")
	configPath := flag.String("config", "", "config file path")
	verbose := flag.Bool("v", false, "enable verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pdf2latex [options] <input.pdf>\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	input := flag.Arg(0)

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

	// Command line flags override the config file
	if *threads > 0 {
		cfg.Threads = *threads
	}
	if *fontDir != "" {
		cfg.FontDir = *fontDir
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, input, *output, *pages, cfg); err != nil {
		logger.Error("conversion failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, input, output, pageSpec string, cfg *types.Config) error {
	fb, err := fontbase.Load(cfg.FontDir)
	if err != nil {
		return err
	}

	doc, err := pdf.Load(ctx, input, pageSpec, cfg)
	if err != nil {
		return err
	}

	result, err := doc.Guess(ctx, fb, cfg)
	if err != nil {
		return err
	}

	if cfg.FormulaModelEnabled {
		model, err := formula.NewModel(cfg.FormulaModelPath)
		if err != nil {
			logger.Warn("formula model unavailable, emitting formulas glyph by glyph",
				logger.Err(err))
		} else {
			formula.Apply(doc.Pages, model, cfg)
			model.Close()
		}
	}

	texDoc := latex.NewDocument(doc.Pages, cfg)
	if output == "" {
		fmt.Print(texDoc.Content())
	} else if err := texDoc.Save(output); err != nil {
		return err
	}

	glyphs, unmatched := 0, 0
	for _, p := range result.Pages {
		glyphs += p.Glyphs
		unmatched += p.Unmatched
	}
	dest := output
	if dest == "" {
		dest = "stdout"
	}
	logger.Info("conversion complete",
		logger.String("output", dest),
		logger.Int("pages", len(result.Pages)),
		logger.Int("glyphs", glyphs),
		logger.Int("unmatched", unmatched),
		logger.Int("duration_ms", int(result.DurationMS)))

	return nil
}
