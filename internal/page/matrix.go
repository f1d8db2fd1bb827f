package page

import (
	"image"
	"strings"

	"pdf2latex/internal/fontbase"
	"pdf2latex/internal/glyph"
	"pdf2latex/internal/imaging"
	"pdf2latex/internal/types"
)

// MatrixSpacing is the blank-column gap below which two ink runs belong
// to the same matrix column. Matrix columns sit much further apart than
// the glyphs of a word.
const MatrixSpacing = 70

// Matrix is a bracketed block recognized as rows and columns of cells.
type Matrix struct {
	Rect imaging.Rect
	Rows [][]*Word
}

// Latex emits the block as a pmatrix, cells joined per row
func (m *Matrix) Latex() string {
	rows := make([]string, len(m.Rows))
	for i, row := range m.Rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = cell.Latex(nil, nil)
		}
		rows[i] = cells[0]
		if len(cells) > 1 {
			rows[i] = strings.Join(cells, " & ")
		}
	}
	return "\\begin{pmatrix}\n" + strings.Join(rows, " \\\\\n") + "\n\\end{pmatrix}"
}

// detectMatrix looks for a tall bracket pair among the line's guessed
// glyphs. When the region between the brackets re-segments into more
// than one cell, the words the block spans are folded into a single
// word carrying the block's pmatrix as its formula.
func (l *Line) detectMatrix(img *image.Gray, fb *fontbase.FontBase, cfg *types.Config) {
	var opening, closing *glyph.UnknownGlyph
	for _, word := range l.Words {
		for _, g := range word.Glyphs {
			b := g.Bracket(cfg.DistThreshold)
			if b.Opening() && opening == nil {
				opening = g
			} else if b.Closing() {
				closing = g
			}
		}
	}
	if opening == nil || closing == nil ||
		closing.Rect.X <= opening.Rect.X+opening.Rect.Width {
		return
	}

	m := newMatrix(opening, closing, img, fb, cfg)
	if m == nil {
		return
	}

	block := &Word{Rect: m.Rect, Formula: m.Latex()}
	var words []*Word
	inserted := false
	for _, word := range l.Words {
		switch {
		case word.Rect.X+word.Rect.Width <= m.Rect.X:
			words = append(words, word)
		case word.Rect.X >= m.Rect.X+m.Rect.Width:
			if !inserted {
				words = append(words, block)
				inserted = true
			}
			words = append(words, word)
		case !inserted:
			words = append(words, block)
			inserted = true
		}
	}
	if !inserted {
		words = append(words, block)
	}
	l.Words = words
}

// newMatrix cuts the region between the brackets into rows by blank
// bands and each row into cells by the matrix column spacing, and
// matches every cell. A region with a single cell is not a matrix.
func newMatrix(opening, closing *glyph.UnknownGlyph, img *image.Gray, fb *fontbase.FontBase, cfg *types.Config) *Matrix {
	x := opening.Rect.X + opening.Rect.Width
	y := min(opening.Rect.Y, closing.Rect.Y)
	width := closing.Rect.X - x
	height := max(opening.Rect.Y+opening.Rect.Height,
		closing.Rect.Y+closing.Rect.Height) - y
	if width <= 0 || height <= 0 {
		return nil
	}
	inside := imaging.NewRect(x, y, width, height)

	var rows [][]*Word
	cells := 0
	for _, band := range imaging.FindParts(inside.Crop(img), LineSpacing) {
		bandRect := imaging.NewRect(x, y+band.Start, width, band.End-band.Start+1)
		rotated := imaging.Rotate90(bandRect.Crop(img))

		var row []*Word
		for _, part := range imaging.FindParts(rotated, MatrixSpacing) {
			cellRect := imaging.NewRect(x+part.Start, bandRect.Y,
				part.End-part.Start+1, bandRect.Height)
			row = append(row, NewWord(cellRect, img, cfg.CharThreshold))
		}
		if len(row) == 0 {
			continue
		}

		baseline := findBaseline(row)
		for _, cell := range row {
			cell.Guess(fb, baseline, cfg)
		}
		cells += len(row)
		rows = append(rows, row)
	}
	if len(rows) < 2 && cells < 2 {
		return nil
	}

	return &Matrix{
		Rect: imaging.NewRect(opening.Rect.X, y,
			closing.Rect.X+closing.Rect.Width-opening.Rect.X, height),
		Rows: rows,
	}
}
