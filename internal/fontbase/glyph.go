package fontbase

import (
	"fmt"
	"strings"

	"pdf2latex/internal/imaging"
)

// GlyphData is the symbolic identity of a reference glyph: what was
// typeset, with which family, size, style stack and modifiers, and
// whether it was set in math mode. Two KnownGlyphs with equal data are
// duplicates regardless of their bitmaps.
type GlyphData struct {
	Base      string
	Code      Code
	Size      Size
	Styles    []Style
	Modifiers []string
	Math      bool
}

// Key returns a stable identity string for deduplication
func (d GlyphData) Key() string {
	var sb strings.Builder
	sb.WriteString(d.Base)
	sb.WriteByte('|')
	sb.WriteString(string(d.Code))
	fmt.Fprintf(&sb, "|%d|", d.Size)
	for _, s := range d.Styles {
		fmt.Fprintf(&sb, "%d,", s)
	}
	sb.WriteByte('|')
	sb.WriteString(strings.Join(d.Modifiers, ","))
	fmt.Fprintf(&sb, "|%v", d.Math)
	return sb.String()
}

// defaultContext is the surrounding state assumed at the start and end of
// a page: normal size, normal style, text mode.
var defaultContext = GlyphData{Size: Normalsize, Styles: []Style{StyleNormal}}

// KnownGlyph is a reference glyph rendered from a font family at library
// build time. It is immutable after construction: the matcher only reads
// the bitmap and baseline offset.
type KnownGlyph struct {
	Base      string
	Code      Code
	Size      Size
	Styles    []Style
	Modifiers []string
	Math      bool

	Rect   imaging.Rect
	Bitmap []uint8
	// Offset is the signed distance from the glyph's visual bottom to
	// the baseline it was rendered on; positive means the glyph descends
	// below the baseline.
	Offset int
}

// Bounds returns the glyph's bounding rect (origin is always (0, 0))
func (g *KnownGlyph) Bounds() imaging.Rect {
	return g.Rect
}

// Pixels returns the glyph's row-major grayscale bitmap
func (g *KnownGlyph) Pixels() []uint8 {
	return g.Bitmap
}

// Data returns the symbolic identity of the glyph
func (g *KnownGlyph) Data() GlyphData {
	return GlyphData{
		Base:      g.Base,
		Code:      g.Code,
		Size:      g.Size,
		Styles:    g.Styles,
		Modifiers: g.Modifiers,
		Math:      g.Math,
	}
}

// Latex emits the LaTeX for the glyph given its neighbors. Opening and
// closing markers for size, style and math regions are only emitted at
// transition boundaries, so a run of glyphs sharing attributes produces a
// single region.
func (g *KnownGlyph) Latex(prev, next *GlyphData, end bool) string {
	return LatexFor(g.Data(), prev, next, end)
}

// LatexFor emits the LaTeX for some glyph data between the given
// neighbors. A nil neighbor stands for the surrounding default context.
func LatexFor(data GlyphData, prev, next *GlyphData, end bool) string {
	if prev == nil {
		prev = &defaultContext
	}
	if next == nil {
		next = &defaultContext
	}

	var sb strings.Builder

	if data.Size != prev.Size || data.Math != prev.Math || !stylesEqual(data.Styles, prev.Styles) {
		if data.Size != Normalsize && !data.Math {
			sb.WriteString("{\\")
			sb.WriteString(data.Size.String())
			sb.WriteString(" ")
		}

		if data.Math && !prev.Math {
			sb.WriteString("$")
		}

		for _, style := range data.Styles {
			if style != StyleNormal {
				sb.WriteString("\\")
				sb.WriteString(style.String())
				sb.WriteString("{")
			}
		}
	}

	base := data.Base
	for _, modifier := range data.Modifiers {
		base = "\\" + modifier + "{" + base + "}"
	}
	sb.WriteString(base)

	// A control-word glyph followed by more math needs a separating space
	if strings.HasPrefix(data.Base, "\\") && next.Math && !end {
		sb.WriteString(" ")
	}

	if data.Size != next.Size || data.Math != next.Math || !stylesEqual(data.Styles, next.Styles) {
		for _, style := range data.Styles {
			if style != StyleNormal {
				sb.WriteString("}")
			}
		}

		if data.Math && !next.Math {
			sb.WriteString("$")
		}

		if data.Size != Normalsize && !data.Math {
			sb.WriteString("}")
		}
	}

	return sb.String()
}
