// Package formula recognizes display formulas that the glyph matcher
// cannot handle, using an ONNX vision model. The recognizer is optional;
// without a model the rest of the pipeline works unchanged.
package formula

import (
	"image"

	"pdf2latex/internal/logger"
	"pdf2latex/internal/page"
	"pdf2latex/internal/types"
)

// Recognizer turns a raster of a formula into LaTeX.
type Recognizer interface {
	Recognize(img *image.Gray) (string, error)
	Close() error
}

// formulaDistFactor scales the match threshold: a word whose mean glyph
// distance exceeds the threshold by this factor is treated as a formula
// candidate.
const formulaDistFactor = 4.0

// Apply runs the recognizer over every word the matcher failed on and
// stores the results on the words. Recognition failures are logged and
// skipped; a formula the model cannot read is still emitted glyph by
// glyph.
func Apply(pages []*page.Page, rec Recognizer, cfg *types.Config) {
	recognized := 0
	for _, p := range pages {
		for _, line := range p.Lines {
			for _, word := range line.Words {
				if !isCandidate(word, cfg) {
					continue
				}

				latex, err := rec.Recognize(word.Rect.Crop(p.Image))
				if err != nil {
					logger.Warn("formula recognition failed", logger.Err(err))
					continue
				}
				if latex == "" {
					continue
				}

				word.Formula = latex
				recognized++
			}
		}
	}

	if recognized > 0 {
		logger.Info("recognized formulas", logger.Int("count", recognized))
	}
}

// isCandidate reports whether a word matched badly enough to be a formula
func isCandidate(word *page.Word, cfg *types.Config) bool {
	if len(word.Glyphs) == 0 {
		return false
	}

	unmatched := 0
	for _, g := range word.Glyphs {
		if g.Guess == nil {
			unmatched++
		}
	}
	if unmatched > 0 {
		return true
	}

	mean := word.DistSum() / float64(len(word.Glyphs))
	return mean > cfg.DistThreshold*formulaDistFactor
}
