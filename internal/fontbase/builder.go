package fontbase

import (
	"os"
	"sync"
	"time"

	"pdf2latex/internal/logger"
	"pdf2latex/internal/types"
)

// BuilderConfig holds the settings for building one font family.
type BuilderConfig struct {
	// FontDir is where the family files are persisted
	FontDir string
	// Threads bounds the number of concurrent glyph renders
	Threads int
	// DPI must match the recognizer's rasterization DPI
	DPI int
}

// CreateFamily renders and persists every symbol of the given family,
// one file per size. Glyphs already present in a family file are not
// re-rendered, so an interrupted build resumes where it stopped.
func CreateFamily(code Code, cfg BuilderConfig) error {
	now := time.Now()
	logger.Info("creating font family", logger.String("code", code.String()))

	workDir, err := os.MkdirTemp("", "pdf2latex-fontgen-")
	if err != nil {
		return types.NewAppError(types.ErrRender, "failed to create work directory", err)
	}
	defer os.RemoveAll(workDir)

	renderer := NewRenderer(workDir, cfg.DPI)
	symbols := GenerateSymbols()

	for _, size := range AllSizes() {
		if err := createSizeFile(code, size, symbols, renderer, cfg); err != nil {
			return err
		}
	}

	logger.Info("created font family",
		logger.String("code", code.String()),
		logger.Duration("duration", time.Since(now)))
	return nil
}

// createSizeFile renders the missing glyphs of one (family, size) file
func createSizeFile(code Code, size Size, symbols []Symbol, renderer *Renderer, cfg BuilderConfig) error {
	path := FamilyPath(cfg.FontDir, code, size)

	glyphs, err := ReadFamilyFile(path)
	if err != nil {
		logger.Warn("existing font file is unreadable, rebuilding it",
			logger.String("path", path), logger.Err(err))
		glyphs = nil
	}

	existing := make(map[string]bool, len(glyphs))
	for _, g := range glyphs {
		existing[g.Data().Key()] = true
	}

	// Expand symbols into the concrete glyph data still missing
	var pending []GlyphData
	for _, symbol := range symbols {
		for _, styles := range symbol.Styles {
			data := GlyphData{
				Base:      symbol.Base,
				Code:      code,
				Size:      size,
				Styles:    styles,
				Modifiers: symbol.Modifiers,
				Math:      symbol.Math,
			}
			if !existing[data.Key()] {
				pending = append(pending, data)
			}
		}
	}

	if len(pending) == 0 {
		logger.Debug("font file already complete", logger.String("path", path))
		return nil
	}

	logger.Info("rendering glyphs",
		logger.String("size", size.Path()),
		logger.Int("pending", len(pending)),
		logger.Int("existing", len(glyphs)))

	// Use semaphore for concurrency control
	threads := cfg.Threads
	if threads <= 0 {
		threads = 1
	}
	sem := make(chan struct{}, threads)
	var wg sync.WaitGroup
	var mu sync.Mutex
	rendered := make([]*KnownGlyph, 0, len(pending))
	failed := 0

	for i, data := range pending {
		wg.Add(1)
		go func(id int, data GlyphData) {
			defer wg.Done()

			// Acquire semaphore
			sem <- struct{}{}
			defer func() { <-sem }()

			glyph, err := renderer.Render(data, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// A symbol a family cannot typeset is skipped, not fatal
				logger.Debug("skipping unrenderable glyph",
					logger.String("base", data.Base), logger.Err(err))
				failed++
				return
			}
			rendered = append(rendered, glyph)
		}(i, data)
	}

	wg.Wait()

	glyphs = append(glyphs, rendered...)
	if err := WriteFamilyFile(path, glyphs); err != nil {
		return err
	}

	logger.Info("saved font file",
		logger.String("path", path),
		logger.Int("glyphs", len(glyphs)),
		logger.Int("failed", failed))
	return nil
}
