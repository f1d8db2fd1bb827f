package fontbase

import (
	"bytes"
	"encoding/gob"
	"io"
	"os"
	"path/filepath"

	"pdf2latex/internal/imaging"
	"pdf2latex/internal/types"
)

// glyphRecord is the persisted form of a KnownGlyph. Kept separate from
// the in-memory type so the index layout can change without breaking
// saved families.
type glyphRecord struct {
	Base      string
	Code      Code
	Size      Size
	Styles    []Style
	Modifiers []string
	Math      bool
	X         int
	Y         int
	Width     int
	Height    int
	Bitmap    []uint8
	Offset    int
}

// EncodeGlyphs writes a sequence of glyphs in the binary family format.
// The encoding round-trips exactly: decoding and re-encoding produces
// identical bytes, which the matcher relies on for bit-exact bitmaps.
func EncodeGlyphs(w io.Writer, glyphs []*KnownGlyph) error {
	records := make([]glyphRecord, len(glyphs))
	for i, g := range glyphs {
		records[i] = glyphRecord{
			Base:      g.Base,
			Code:      g.Code,
			Size:      g.Size,
			Styles:    g.Styles,
			Modifiers: g.Modifiers,
			Math:      g.Math,
			X:         g.Rect.X,
			Y:         g.Rect.Y,
			Width:     g.Rect.Width,
			Height:    g.Rect.Height,
			Bitmap:    g.Bitmap,
			Offset:    g.Offset,
		}
	}
	return gob.NewEncoder(w).Encode(records)
}

// DecodeGlyphs reads a sequence of glyphs from the binary family format
func DecodeGlyphs(r io.Reader) ([]*KnownGlyph, error) {
	var records []glyphRecord
	if err := gob.NewDecoder(r).Decode(&records); err != nil {
		return nil, err
	}

	glyphs := make([]*KnownGlyph, len(records))
	for i, rec := range records {
		glyphs[i] = &KnownGlyph{
			Base:      rec.Base,
			Code:      rec.Code,
			Size:      rec.Size,
			Styles:    rec.Styles,
			Modifiers: rec.Modifiers,
			Math:      rec.Math,
			Rect:      imaging.NewRect(rec.X, rec.Y, rec.Width, rec.Height),
			Bitmap:    rec.Bitmap,
			Offset:    rec.Offset,
		}
	}
	return glyphs, nil
}

// ReadFamilyFile loads one family file. A missing file is an empty
// family; a corrupt file is a decode error for the caller to downgrade.
func ReadFamilyFile(path string) ([]*KnownGlyph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, types.NewAppError(types.ErrFontLoad, "failed to read font file", err)
	}

	glyphs, err := DecodeGlyphs(bytes.NewReader(data))
	if err != nil {
		return nil, types.NewAppError(types.ErrFontDecode, "failed to decode font file", err)
	}
	return glyphs, nil
}

// WriteFamilyFile persists one family file, creating directories as needed
func WriteFamilyFile(path string, glyphs []*KnownGlyph) error {
	var buf bytes.Buffer
	if err := EncodeGlyphs(&buf, glyphs); err != nil {
		return types.NewAppError(types.ErrFontDecode, "failed to encode font file", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return types.NewAppError(types.ErrFontLoad, "failed to create font directory", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return types.NewAppError(types.ErrFontLoad, "failed to write font file", err)
	}
	return nil
}
