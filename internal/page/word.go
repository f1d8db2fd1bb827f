// Package page implements the segmentation hierarchy of a rasterized
// page: lines cut by horizontal projection, words cut by vertical
// projection, glyphs cut by flood fill, plus the corrective merge pass
// that repairs over-segmented compound glyphs.
package page

import (
	"image"
	"image/color"
	"math"
	"strings"

	"pdf2latex/internal/fontbase"
	"pdf2latex/internal/glyph"
	"pdf2latex/internal/imaging"
	"pdf2latex/internal/types"
)

const (
	// LineSpacing is the blank-row gap below which two ink runs belong to
	// the same line.
	LineSpacing = 10
	// WordSpacing is the blank-column gap below which two ink runs belong
	// to the same word.
	WordSpacing = 15
)

// Word is a horizontal run of glyphs inside a line.
type Word struct {
	Rect   imaging.Rect
	Glyphs []*glyph.UnknownGlyph

	// Formula, when set, replaces the word's glyph-by-glyph emission
	// with a display formula, either a recognized matrix block or the
	// formula model's output.
	Formula string
}

// NewWord cuts the glyphs out of the given word rect of the page
func NewWord(rect imaging.Rect, page *image.Gray, charThreshold uint8) *Word {
	return &Word{
		Rect:   rect,
		Glyphs: findGlyphs(rect, page, charThreshold),
	}
}

// findGlyphs scans the word left to right for unvisited ink pixels and
// flood-fills a glyph from each. Found glyphs are painted white on a
// working copy so one component is only extracted once.
func findGlyphs(bounds imaging.Rect, page *image.Gray, charThreshold uint8) []*glyph.UnknownGlyph {
	working := bounds.Crop(page)

	var glyphs []*glyph.UnknownGlyph
	for x := 0; x < bounds.Width; x++ {
		for y := 0; y < bounds.Height; y++ {
			if working.GrayAt(x, y).Y > charThreshold {
				continue
			}

			g := glyph.FromSeed(image.Pt(x, y), bounds, page, charThreshold)

			for nx := 0; nx < g.Rect.Width; nx++ {
				for ny := 0; ny < g.Rect.Height; ny++ {
					if g.Bitmap[nx+ny*g.Rect.Width] < imaging.White {
						working.SetGray(nx+g.Rect.X-bounds.X, ny+g.Rect.Y-bounds.Y,
							color.Gray{Y: imaging.White})
					}
				}
			}

			glyphs = append(glyphs, g)
		}
	}

	return glyphs
}

// shouldJoin reports whether the glyph at index is worth merging with its
// predecessor: either their rects nearly touch, which suggests one glyph
// was cut in two, or its best match is still poor.
func (w *Word) shouldJoin(index int, distThreshold float64) bool {
	prev := w.Glyphs[index-1]
	return prev.Rect.X+prev.Rect.Width-WordSpacing/4 > w.Glyphs[index].Rect.X ||
		w.Glyphs[index].Dist > distThreshold
}

// Guess matches every glyph of the word against the font library, then
// walks the glyphs right to left merging candidates that match better
// joined than apart. Glyphs still matching poorly after the merge pass
// are retried without baseline alignment, which recovers isolated sub
// and superscripts.
func (w *Word) Guess(fb *fontbase.FontBase, baseline int, cfg *types.Config) {
	for _, g := range w.Glyphs {
		g.TryGuess(fb, baseline, true, cfg.DistThreshold)
	}

	index := len(w.Glyphs)
outer:
	for index > 1 {
		index--

		if !w.shouldJoin(index, cfg.DistThreshold) {
			continue
		}

		joined := w.Glyphs[index]
		dist := w.Glyphs[index].Dist
		for collapse := 1; collapse <= 2; collapse++ {
			if index < collapse {
				continue outer
			}

			dist = math.Max(dist, w.Glyphs[index-collapse].Dist)
			joined = joined.Join(w.Glyphs[index-collapse])
			joined.TryGuess(fb, baseline, true, cfg.DistThreshold)

			// Replace the fragments only if the whole beats the worst part
			if joined.Dist < dist {
				w.Glyphs = append(w.Glyphs[:index-collapse],
					append([]*glyph.UnknownGlyph{joined}, w.Glyphs[index+1:]...)...)
				index -= collapse
				continue outer
			}
		}
	}

	for _, g := range w.Glyphs {
		if g.Dist > cfg.DistUnalignedThreshold {
			g.TryGuess(fb, baseline, false, cfg.DistThreshold)
		}
	}
}

// FirstGuess returns the first glyph's match, or nil when the word as a
// whole matched too poorly to trust as emission context.
func (w *Word) FirstGuess(distThreshold float64) *fontbase.KnownGlyph {
	if len(w.Glyphs) == 0 || w.DistSum()/float64(len(w.Glyphs)) >= distThreshold*4 {
		return nil
	}
	return w.Glyphs[0].Guess
}

// LastGuess returns the last glyph's match under the same quality gate
func (w *Word) LastGuess(distThreshold float64) *fontbase.KnownGlyph {
	if len(w.Glyphs) == 0 || w.DistSum()/float64(len(w.Glyphs)) >= distThreshold*4 {
		return nil
	}
	return w.Glyphs[len(w.Glyphs)-1].Guess
}

// Content returns the word's recognized text, with an unmatched glyph
// shown as a placeholder block. Mostly for debugging.
func (w *Word) Content() string {
	var sb strings.Builder
	for _, g := range w.Glyphs {
		if g.Guess != nil {
			sb.WriteString(g.Guess.Base)
		} else {
			sb.WriteRune('▄')
		}
	}
	return sb.String()
}

// Latex emits the LaTeX for the word between the given neighbor glyphs
func (w *Word) Latex(prev, next *fontbase.KnownGlyph) string {
	if w.Formula != "" {
		return "$$" + w.Formula + "$$"
	}

	var sb strings.Builder
	for i, g := range w.Glyphs {
		p, n := prev, next
		if i > 0 {
			p = w.Glyphs[i-1].Guess
		}
		if i < len(w.Glyphs)-1 {
			n = w.Glyphs[i+1].Guess
		}

		if g.Guess == nil {
			sb.WriteString("?")
			continue
		}
		sb.WriteString(g.Guess.Latex(dataOf(p), dataOf(n), i == len(w.Glyphs)-1))
	}
	return sb.String()
}

// DistSum returns the summed match distance of the word's matched glyphs
func (w *Word) DistSum() float64 {
	sum := 0.0
	for _, g := range w.Glyphs {
		if g.Guess != nil {
			sum += g.Dist
		}
	}
	return sum
}

// dataOf converts an optional known glyph to its optional data
func dataOf(k *fontbase.KnownGlyph) *fontbase.GlyphData {
	if k == nil {
		return nil
	}
	data := k.Data()
	return &data
}
