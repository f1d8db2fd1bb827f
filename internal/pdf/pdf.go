// Package pdf turns a PDF file into recognized pages: it validates the
// input, rasterizes the selected pages through pdftoppm and runs the
// glyph matcher over every page.
package pdf

import (
	"context"
	"time"

	"pdf2latex/internal/fontbase"
	"pdf2latex/internal/logger"
	"pdf2latex/internal/page"
	"pdf2latex/internal/types"
)

// Document is a PDF rasterized into segmented pages, ready for matching.
type Document struct {
	Info  *Info
	Pages []*page.Page

	// pageNumbers holds the 1-based source page number of each entry in
	// Pages, parallel to it
	pageNumbers []int
}

// Load validates the PDF at path, rasterizes the pages selected by
// pageSpec (all of them when empty) and segments each one.
func Load(ctx context.Context, path, pageSpec string, cfg *types.Config) (*Document, error) {
	now := time.Now()

	info, err := Probe(path)
	if err != nil {
		return nil, err
	}
	if info.HasTextLayer {
		logger.Warn("PDF already contains a text layer, recognition may be unnecessary",
			logger.String("file", info.FileName))
	}

	numbers, err := ParsePageRange(pageSpec, info.PageCount)
	if err != nil {
		return nil, err
	}

	images, err := Rasterize(ctx, path, numbers, cfg.DPI)
	if err != nil {
		return nil, err
	}

	if numbers == nil {
		numbers = make([]int, len(images))
		for i := range images {
			numbers[i] = i + 1
		}
	}

	pages := make([]*page.Page, len(images))
	for i, img := range images {
		pages[i] = page.NewPage(img, cfg.CharThreshold)
	}

	logger.Info("loaded PDF",
		logger.String("file", info.FileName),
		logger.Int("pages", len(pages)),
		logger.Duration("duration", time.Since(now)))

	return &Document{Info: info, Pages: pages, pageNumbers: numbers}, nil
}

// Guess matches every page of the document against the font library and
// returns a per-page summary
func (d *Document) Guess(ctx context.Context, fb *fontbase.FontBase, cfg *types.Config) (*types.DocumentResult, error) {
	now := time.Now()

	result := &types.DocumentResult{
		Input:     d.Info.Path,
		PageCount: d.Info.PageCount,
	}

	for i, p := range d.Pages {
		pageNum := d.pageNumbers[i]
		logger.Info("converting page", logger.Int("page", pageNum))

		if err := p.Guess(ctx, fb, cfg); err != nil {
			return nil, err
		}

		result.Pages = append(result.Pages, types.PageResult{
			PageNumber: pageNum,
			Lines:      len(p.Lines),
			Glyphs:     p.GlyphCount(),
			Unmatched:  p.Unmatched(),
			AvgDist:    p.AverageDist(),
		})
	}

	result.DurationMS = time.Since(now).Milliseconds()
	return result, nil
}

// Content returns the document's recognized text, mostly for debugging
func (d *Document) Content() string {
	content := ""
	for i, p := range d.Pages {
		if i > 0 {
			content += "\n"
		}
		content += p.Content()
	}
	return content
}
