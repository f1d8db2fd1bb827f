package fontbase

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf2latex/internal/imaging"
)

func sampleGlyph(base string, math bool) *KnownGlyph {
	return &KnownGlyph{
		Base:   base,
		Code:   Lmr,
		Size:   Normalsize,
		Styles: []Style{StyleNormal},
		Math:   math,
		Rect:   imaging.NewRect(0, 0, 2, 2),
		Bitmap: []uint8{0, 255, 255, 0},
		Offset: 0,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	glyphs := []*KnownGlyph{
		sampleGlyph("a", false),
		{
			Base:      "o",
			Code:      Cmr,
			Size:      Large,
			Styles:    []Style{StyleBold, StyleItalic},
			Modifiers: []string{"hat"},
			Math:      false,
			Rect:      imaging.NewRect(0, 0, 3, 1),
			Bitmap:    []uint8{10, 20, 30},
			Offset:    -2,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeGlyphs(&buf, glyphs))

	decoded, err := DecodeGlyphs(&buf)
	require.NoError(t, err)
	require.Len(t, decoded, len(glyphs))

	for i, want := range glyphs {
		got := decoded[i]
		assert.Equal(t, want.Data(), got.Data())
		assert.Equal(t, want.Rect, got.Rect)
		assert.Equal(t, want.Bitmap, got.Bitmap)
		assert.Equal(t, want.Offset, got.Offset)
	}
}

func TestReadFamilyFileMissing(t *testing.T) {
	glyphs, err := ReadFamilyFile(filepath.Join(t.TempDir(), "nope"))
	assert.NoError(t, err)
	assert.Nil(t, glyphs)
}

func TestReadFamilyFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad")
	require.NoError(t, os.WriteFile(path, []byte("not a font file"), 0644))

	_, err := ReadFamilyFile(path)
	assert.Error(t, err)
}

func TestWriteReadFamilyFile(t *testing.T) {
	path := FamilyPath(t.TempDir(), Lmr, Normalsize)
	glyphs := []*KnownGlyph{sampleGlyph("x", false), sampleGlyph("y", true)}

	require.NoError(t, WriteFamilyFile(path, glyphs))

	loaded, err := ReadFamilyFile(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "x", loaded[0].Base)
	assert.True(t, loaded[1].Math)
}

func TestLoadMissingDirectory(t *testing.T) {
	fb, err := Load(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Equal(t, 0, fb.Count())
}

func TestLoadSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()

	good := FamilyPath(dir, Lmr, Normalsize)
	require.NoError(t, WriteFamilyFile(good, []*KnownGlyph{sampleGlyph("a", false)}))

	bad := FamilyPath(dir, Lmr, Large)
	require.NoError(t, os.MkdirAll(filepath.Dir(bad), 0755))
	require.NoError(t, os.WriteFile(bad, []byte("garbage"), 0644))

	fb, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, fb.Count())
}

func TestLookupByDims(t *testing.T) {
	fb := New()
	g := sampleGlyph("a", false)
	fb.Add(g)

	hits := fb.Lookup(Lmr, Dims{Width: 2, Height: 2})
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].Base)

	assert.Empty(t, fb.Lookup(Lmr, Dims{Width: 5, Height: 5}))
	assert.Empty(t, fb.Lookup(Qag, Dims{Width: 2, Height: 2}))
}

func TestLatexPlainRun(t *testing.T) {
	a := GlyphData{Base: "a", Size: Normalsize, Styles: []Style{StyleNormal}}
	b := GlyphData{Base: "b", Size: Normalsize, Styles: []Style{StyleNormal}}

	assert.Equal(t, "a", LatexFor(a, nil, &b, false))
	assert.Equal(t, "b", LatexFor(b, &a, nil, true))
}

func TestLatexSizeRegion(t *testing.T) {
	small := GlyphData{Base: "s", Size: Small, Styles: []Style{StyleNormal}}
	normal := GlyphData{Base: "n", Size: Normalsize, Styles: []Style{StyleNormal}}

	// Opens at transition in, closes at transition out
	assert.Equal(t, "{\\small s", LatexFor(small, &normal, &small, false))
	assert.Equal(t, "s}", LatexFor(small, &small, &normal, false))
	assert.Equal(t, "{\\small s}", LatexFor(small, nil, nil, true))
}

func TestLatexStyleRegion(t *testing.T) {
	bold := GlyphData{Base: "b", Size: Normalsize, Styles: []Style{StyleBold}}

	assert.Equal(t, "\\textbf{b}", LatexFor(bold, nil, nil, true))

	// Adjacent bold glyphs share one region
	assert.Equal(t, "\\textbf{b", LatexFor(bold, nil, &bold, false))
	assert.Equal(t, "b", LatexFor(bold, &bold, &bold, false))
	assert.Equal(t, "b}", LatexFor(bold, &bold, nil, true))
}

func TestLatexMathRegion(t *testing.T) {
	alpha := GlyphData{Base: "\\alpha", Size: Normalsize, Styles: []Style{StyleNormal}, Math: true}
	beta := GlyphData{Base: "\\beta", Size: Normalsize, Styles: []Style{StyleNormal}, Math: true}

	assert.Equal(t, "$\\alpha$", LatexFor(alpha, nil, nil, true))

	// Control word followed by more math gets a separating space
	assert.Equal(t, "$\\alpha ", LatexFor(alpha, nil, &beta, false))
	assert.Equal(t, "\\beta$", LatexFor(beta, &alpha, nil, true))
}

func TestLatexModifiers(t *testing.T) {
	data := GlyphData{
		Base: "a", Size: Normalsize, Styles: []Style{StyleNormal},
		Modifiers: []string{"hat"},
	}
	assert.Equal(t, "\\hat{a}", LatexFor(data, nil, nil, true))
}

func TestGlyphDataKeyDistinguishes(t *testing.T) {
	a := GlyphData{Base: "a", Code: Lmr, Size: Normalsize, Styles: []Style{StyleNormal}}
	b := a
	b.Math = true
	c := a
	c.Styles = []Style{StyleBold}

	assert.NotEqual(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.Equal(t, a.Key(), GlyphData{Base: "a", Code: Lmr, Size: Normalsize, Styles: []Style{StyleNormal}}.Key())
}

func TestGenerateSymbolsCoverage(t *testing.T) {
	symbols := GenerateSymbols()
	require.NotEmpty(t, symbols)

	bases := make(map[string]bool)
	for _, s := range symbols {
		bases[s.Base] = true
	}
	assert.True(t, bases["a"])
	assert.True(t, bases["0"])
	assert.True(t, bases["\\alpha"])
}
