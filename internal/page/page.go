package page

import (
	"context"
	"image"
	"strings"
	"sync"
	"time"

	"pdf2latex/internal/fontbase"
	"pdf2latex/internal/imaging"
	"pdf2latex/internal/logger"
	"pdf2latex/internal/types"
)

// Page is one rasterized page of a document, segmented into lines.
type Page struct {
	Image *image.Gray
	Lines []*Line
}

// NewPage segments a page raster into lines, words and glyphs
func NewPage(img *image.Gray, charThreshold uint8) *Page {
	return &Page{
		Image: img,
		Lines: findLines(img, charThreshold),
	}
}

// findLines segments a page into lines by the blank rows between them
func findLines(img *image.Gray, charThreshold uint8) []*Line {
	width := img.Bounds().Dx()

	var lines []*Line
	for _, part := range imaging.FindParts(img, LineSpacing) {
		rect := imaging.NewRect(0, part.Start, width, part.End-part.Start+1)
		lines = append(lines, NewLine(rect, img, charThreshold))
	}
	return lines
}

// Guess matches the whole page against the font library, one goroutine
// per line bounded by cfg.Threads. The font library is only read, so the
// goroutines share it without locking.
func (p *Page) Guess(ctx context.Context, fb *fontbase.FontBase, cfg *types.Config) error {
	now := time.Now()

	threads := cfg.Threads
	if threads <= 0 {
		threads = 1
	}
	sem := make(chan struct{}, threads)
	var wg sync.WaitGroup

	for _, line := range p.Lines {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return err
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(l *Line) {
			defer wg.Done()
			defer func() { <-sem }()
			l.Guess(fb, cfg)
		}(line)
	}

	wg.Wait()

	for _, line := range p.Lines {
		line.detectMatrix(p.Image, fb, cfg)
	}

	logger.Debug("page matched",
		logger.Int("lines", len(p.Lines)),
		logger.Duration("duration", time.Since(now)))
	return nil
}

// Content returns the page's recognized text, mostly for debugging
func (p *Page) Content() string {
	parts := make([]string, len(p.Lines))
	for i, line := range p.Lines {
		parts[i] = line.Content()
	}
	return strings.Join(parts, "\n")
}

// LeftMargin returns the smallest left margin of the page's lines
func (p *Page) LeftMargin() (int, bool) {
	margin, found := 0, false
	for _, line := range p.Lines {
		if x, ok := line.LeftMargin(); ok && (!found || x < margin) {
			margin, found = x, true
		}
	}
	return margin, found
}

// RightMargins returns the right margin of every line that has one
func (p *Page) RightMargins() []int {
	var margins []int
	for _, line := range p.Lines {
		if x, ok := line.RightMargin(); ok {
			margins = append(margins, x)
		}
	}
	return margins
}

// GlyphCount returns the number of glyphs on the page
func (p *Page) GlyphCount() int {
	count := 0
	for _, line := range p.Lines {
		count += line.GlyphCount()
	}
	return count
}

// Unmatched returns the number of glyphs with no acceptable match
func (p *Page) Unmatched() int {
	count := 0
	for _, line := range p.Lines {
		for _, word := range line.Words {
			for _, g := range word.Glyphs {
				if g.Guess == nil {
					count++
				}
			}
		}
	}
	return count
}

// AverageDist returns the mean match distance per glyph, for diagnostics
func (p *Page) AverageDist() float64 {
	sum, count := 0.0, 0
	for _, line := range p.Lines {
		sum += line.DistSum()
		count += line.GlyphCount()
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
