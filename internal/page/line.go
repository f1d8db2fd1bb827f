package page

import (
	"image"
	"strings"

	"pdf2latex/internal/fontbase"
	"pdf2latex/internal/imaging"
	"pdf2latex/internal/types"
)

// Line is a horizontal band of words sharing one baseline.
type Line struct {
	Rect     imaging.Rect
	Baseline int
	Words    []*Word
}

// NewLine cuts the given line rect of the page into words and estimates
// the line's baseline
func NewLine(rect imaging.Rect, page *image.Gray, charThreshold uint8) *Line {
	words := findWords(rect, page, charThreshold)
	return &Line{
		Rect:     rect,
		Baseline: findBaseline(words),
		Words:    words,
	}
}

// findWords segments a line into words by the blank columns between them
func findWords(bounds imaging.Rect, page *image.Gray, charThreshold uint8) []*Word {
	rotated := imaging.Rotate90(bounds.Crop(page))

	var words []*Word
	for _, part := range imaging.FindParts(rotated, WordSpacing) {
		rect := imaging.NewRect(bounds.X+part.Start, bounds.Y, part.End-part.Start+1, bounds.Height)
		words = append(words, NewWord(rect, page, charThreshold))
	}
	return words
}

// findBaseline estimates the baseline as the most frequent bottom edge of
// the line's glyphs. Descenders and subscripts are outliers that the mode
// ignores.
func findBaseline(words []*Word) int {
	var bottoms []int
	for _, word := range words {
		for _, g := range word.Glyphs {
			bottoms = append(bottoms, g.Rect.Y+g.Rect.Height)
		}
	}

	baseline, _ := imaging.MostFrequent(bottoms, 0)
	return baseline
}

// Guess matches every word of the line against the font library
func (l *Line) Guess(fb *fontbase.FontBase, cfg *types.Config) {
	for _, word := range l.Words {
		word.Guess(fb, l.Baseline, cfg)
	}
}

// FirstGuess returns the match of the line's first glyph, or nil
func (l *Line) FirstGuess(distThreshold float64) *fontbase.KnownGlyph {
	if len(l.Words) == 0 {
		return nil
	}
	return l.Words[0].FirstGuess(distThreshold)
}

// LastGuess returns the match of the line's last glyph, or nil
func (l *Line) LastGuess(distThreshold float64) *fontbase.KnownGlyph {
	if len(l.Words) == 0 {
		return nil
	}
	return l.Words[len(l.Words)-1].LastGuess(distThreshold)
}

// Content returns the line's recognized text, mostly for debugging
func (l *Line) Content() string {
	parts := make([]string, len(l.Words))
	for i, word := range l.Words {
		parts[i] = word.Content()
	}
	return strings.Join(parts, " ")
}

// Latex emits the LaTeX for the line between the given neighbor glyphs
func (l *Line) Latex(prev, next *fontbase.KnownGlyph, distThreshold float64) string {
	parts := make([]string, len(l.Words))
	for i, word := range l.Words {
		p, n := prev, next
		if i > 0 {
			p = l.Words[i-1].LastGuess(distThreshold)
		}
		if i < len(l.Words)-1 {
			n = l.Words[i+1].FirstGuess(distThreshold)
		}
		parts[i] = word.Latex(p, n)
	}
	return strings.Join(parts, " ")
}

// DistSum returns the summed match distance of the line's glyphs
func (l *Line) DistSum() float64 {
	sum := 0.0
	for _, word := range l.Words {
		sum += word.DistSum()
	}
	return sum
}

// GlyphCount returns the number of glyphs in the line
func (l *Line) GlyphCount() int {
	count := 0
	for _, word := range l.Words {
		count += len(word.Glyphs)
	}
	return count
}

// LeftMargin returns the page x of the line's first glyph
func (l *Line) LeftMargin() (int, bool) {
	if len(l.Words) == 0 || len(l.Words[0].Glyphs) == 0 {
		return 0, false
	}
	return l.Words[0].Glyphs[0].Rect.X, true
}

// RightMargin returns the page x just past the line's last glyph
func (l *Line) RightMargin() (int, bool) {
	if len(l.Words) == 0 {
		return 0, false
	}
	last := l.Words[len(l.Words)-1]
	if len(last.Glyphs) == 0 {
		return 0, false
	}
	g := last.Glyphs[len(last.Glyphs)-1]
	return g.Rect.X + g.Rect.Width, true
}
