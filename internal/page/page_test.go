package page

import (
	"context"
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf2latex/internal/fontbase"
	"pdf2latex/internal/glyph"
	"pdf2latex/internal/imaging"
	"pdf2latex/internal/types"
)

func testConfig() *types.Config {
	return &types.Config{
		Threads:                2,
		DistThreshold:          4.0,
		DistUnalignedThreshold: 32.0,
		CharThreshold:          75,
	}
}

// whitePage returns a white grayscale image of the given size
func whitePage(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = imaging.White
	}
	return img
}

func ink(img *image.Gray, x, y int) {
	img.Pix[x+y*img.Stride] = 0
}

func TestNewPageSegmentsLinesAndWords(t *testing.T) {
	img := whitePage(40, 30)
	// First line: two words far enough apart to be split
	for x := 5; x <= 8; x++ {
		ink(img, x, 5)
	}
	for x := 28; x <= 30; x++ {
		ink(img, x, 5)
	}
	// Second line, well below the first
	for x := 10; x <= 12; x++ {
		ink(img, x, 22)
	}

	p := NewPage(img, 75)
	require.Len(t, p.Lines, 2)

	assert.Equal(t, imaging.NewRect(0, 5, 40, 1), p.Lines[0].Rect)
	require.Len(t, p.Lines[0].Words, 2)
	assert.Equal(t, imaging.NewRect(0, 22, 40, 1), p.Lines[1].Rect)
	require.Len(t, p.Lines[1].Words, 1)

	// Each word holds one connected glyph in page coordinates
	require.Len(t, p.Lines[0].Words[0].Glyphs, 1)
	assert.Equal(t, imaging.NewRect(5, 5, 4, 1), p.Lines[0].Words[0].Glyphs[0].Rect)
}

func TestNewPageBlank(t *testing.T) {
	p := NewPage(whitePage(20, 20), 75)
	assert.Empty(t, p.Lines)
}

func TestFindBaselineIgnoresDescender(t *testing.T) {
	img := whitePage(14, 14)
	// Two glyphs sitting on the baseline and one descending below it
	ink(img, 2, 8)
	ink(img, 2, 9)
	ink(img, 6, 8)
	ink(img, 6, 9)
	for y := 8; y <= 11; y++ {
		ink(img, 10, y)
	}

	line := NewLine(imaging.NewRect(0, 8, 14, 4), img, 75)
	assert.Equal(t, 10, line.Baseline)
}

func TestPageMargins(t *testing.T) {
	img := whitePage(40, 30)
	for x := 5; x <= 8; x++ {
		ink(img, x, 5)
	}
	for x := 28; x <= 30; x++ {
		ink(img, x, 5)
	}
	for x := 10; x <= 12; x++ {
		ink(img, x, 22)
	}

	p := NewPage(img, 75)

	left, ok := p.LeftMargin()
	require.True(t, ok)
	assert.Equal(t, 5, left)
	assert.Equal(t, []int{31, 13}, p.RightMargins())
}

func TestWordGuessMergesSplitGlyph(t *testing.T) {
	// An exclamation-mark-like glyph whose dot got segmented apart
	img := whitePage(10, 10)
	ink(img, 2, 2)
	ink(img, 3, 2)
	ink(img, 2, 4)
	ink(img, 3, 4)

	word := NewWord(imaging.NewRect(2, 2, 2, 3), img, 75)
	require.Len(t, word.Glyphs, 2)

	// The library only knows the whole glyph
	fb := fontbase.New()
	fb.Add(&fontbase.KnownGlyph{
		Base:   "!",
		Code:   fontbase.Lmr,
		Size:   fontbase.Normalsize,
		Styles: []fontbase.Style{fontbase.StyleNormal},
		Rect:   imaging.NewRect(0, 0, 2, 3),
		Bitmap: []uint8{0, 0, 255, 255, 0, 0},
	})

	cfg := testConfig()
	cfg.DistThreshold = 1.0
	cfg.DistUnalignedThreshold = 100.0
	word.Guess(fb, 5, cfg)

	require.Len(t, word.Glyphs, 1)
	require.NotNil(t, word.Glyphs[0].Guess)
	assert.Equal(t, "!", word.Glyphs[0].Guess.Base)
	assert.Equal(t, 0.0, word.Glyphs[0].Dist)
}

func TestPageGuessRecognizesGlyph(t *testing.T) {
	img := whitePage(20, 20)
	// A 2x2 block glyph
	ink(img, 5, 5)
	ink(img, 6, 5)
	ink(img, 5, 6)
	ink(img, 6, 6)

	fb := fontbase.New()
	fb.Add(&fontbase.KnownGlyph{
		Base:   "a",
		Code:   fontbase.Lmr,
		Size:   fontbase.Normalsize,
		Styles: []fontbase.Style{fontbase.StyleNormal},
		Rect:   imaging.NewRect(0, 0, 2, 2),
		Bitmap: []uint8{0, 0, 0, 0},
	})

	p := NewPage(img, 75)
	require.NoError(t, p.Guess(context.Background(), fb, testConfig()))

	require.Len(t, p.Lines, 1)
	require.Len(t, p.Lines[0].Words, 1)
	require.Len(t, p.Lines[0].Words[0].Glyphs, 1)

	g := p.Lines[0].Words[0].Glyphs[0]
	require.NotNil(t, g.Guess)
	assert.Equal(t, "a", g.Guess.Base)
	assert.Less(t, g.Dist, testConfig().DistThreshold)
	assert.Equal(t, "a", p.Content())
}

func TestPageGuessCancelled(t *testing.T) {
	img := whitePage(20, 20)
	ink(img, 5, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPage(img, 75)
	err := p.Guess(ctx, fontbase.New(), testConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLineLatexJoinsWords(t *testing.T) {
	known := &fontbase.KnownGlyph{
		Base:   "a",
		Code:   fontbase.Lmr,
		Size:   fontbase.Normalsize,
		Styles: []fontbase.Style{fontbase.StyleNormal},
		Rect:   imaging.NewRect(0, 0, 1, 1),
		Bitmap: []uint8{0},
	}
	line := &Line{
		Rect:     imaging.NewRect(0, 0, 10, 1),
		Baseline: 1,
		Words: []*Word{
			{Rect: imaging.NewRect(0, 0, 1, 1), Glyphs: glyphWithGuess(known, 0, 0)},
			{Rect: imaging.NewRect(5, 0, 1, 1), Glyphs: glyphWithGuess(known, 5, 0)},
		},
	}

	assert.Equal(t, "a a", line.Latex(nil, nil, 4.0))
	assert.Equal(t, "a a", line.Content())
}

// glyphWithGuess builds a single already-matched glyph at (x, y)
func glyphWithGuess(known *fontbase.KnownGlyph, x, y int) []*glyph.UnknownGlyph {
	return []*glyph.UnknownGlyph{{
		Rect:   imaging.NewRect(x, y, known.Rect.Width, known.Rect.Height),
		Bitmap: known.Bitmap,
		Dist:   0,
		Guess:  known,
	}}
}

func TestPageRecognizesWord(t *testing.T) {
	img := whitePage(20, 20)
	// Two distinct glyphs close enough to form one word
	for y := 5; y <= 7; y++ {
		ink(img, 4, y)
		ink(img, 6, y)
		ink(img, 9, y)
	}
	ink(img, 5, 6)

	fb := fontbase.New()
	fb.Add(&fontbase.KnownGlyph{
		Base:   "H",
		Code:   fontbase.Lmr,
		Size:   fontbase.Normalsize,
		Styles: []fontbase.Style{fontbase.StyleNormal},
		Rect:   imaging.NewRect(0, 0, 3, 3),
		Bitmap: []uint8{0, 255, 0, 0, 0, 0, 0, 255, 0},
	})
	fb.Add(&fontbase.KnownGlyph{
		Base:   "i",
		Code:   fontbase.Lmr,
		Size:   fontbase.Normalsize,
		Styles: []fontbase.Style{fontbase.StyleNormal},
		Rect:   imaging.NewRect(0, 0, 1, 3),
		Bitmap: []uint8{0, 0, 0},
	})

	p := NewPage(img, 75)
	require.NoError(t, p.Guess(context.Background(), fb, testConfig()))

	require.Len(t, p.Lines, 1)
	require.Len(t, p.Lines[0].Words, 1)
	require.Len(t, p.Lines[0].Words[0].Glyphs, 2)
	for _, g := range p.Lines[0].Words[0].Glyphs {
		require.NotNil(t, g.Guess)
		assert.Less(t, g.Dist, testConfig().DistThreshold)
	}
	assert.Equal(t, "Hi", p.Content())
}

// drawBracket paints a round bracket column by column, mirrored for the
// closing side
func drawBracket(img *image.Gray, x, y, h int, closing bool) {
	for dy := 0; dy < h; dy++ {
		dx := 0
		switch {
		case dy == 0 || dy == h-1:
			dx = 3
		case dy == 1 || dy == h-2:
			dx = 2
		}
		if closing {
			dx = 3 - dx
		}
		ink(img, x+dx, y+dy)
	}
}

func TestPageGuessDetectsMatrix(t *testing.T) {
	img := whitePage(100, 40)
	drawBracket(img, 2, 4, 32, false)
	drawBracket(img, 92, 4, 32, true)

	// Four cells: two rows split by a blank band, two columns far apart
	for _, cy := range []int{5, 25} {
		for _, cx := range []int{8, 85} {
			for y := cy; y < cy+4; y++ {
				for x := cx; x < cx+3; x++ {
					ink(img, x, y)
				}
			}
		}
	}

	p := NewPage(img, 75)
	require.Len(t, p.Lines, 1)
	require.NoError(t, p.Guess(context.Background(), fontbase.New(), testConfig()))

	require.Len(t, p.Lines[0].Words, 1)
	formula := p.Lines[0].Words[0].Formula
	assert.Contains(t, formula, "\\begin{pmatrix}")
	assert.Contains(t, formula, "\\end{pmatrix}")
	// Two rows of two cells each
	assert.Equal(t, 1, strings.Count(formula, "\\\\"))
	assert.Equal(t, 2, strings.Count(formula, "&"))
}

func TestPageGuessLeavesPlainTextAlone(t *testing.T) {
	img := whitePage(20, 20)
	ink(img, 5, 5)
	ink(img, 6, 5)

	p := NewPage(img, 75)
	require.NoError(t, p.Guess(context.Background(), fontbase.New(), testConfig()))

	require.Len(t, p.Lines, 1)
	require.Len(t, p.Lines[0].Words, 1)
	assert.Empty(t, p.Lines[0].Words[0].Formula)
	assert.Len(t, p.Lines[0].Words[0].Glyphs, 1)
}
