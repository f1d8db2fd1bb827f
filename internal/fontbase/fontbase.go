// Package fontbase holds the library of reference glyphs the recognizer
// matches against. Glyphs are rendered offline (see Renderer), persisted
// per family and size, and loaded read-only at recognition time, grouped
// by bitmap dimensions so the matcher only examines candidates of nearly
// the same size.
package fontbase

import (
	"os"
	"path/filepath"
	"time"

	"pdf2latex/internal/logger"
	"pdf2latex/internal/types"
)

// Dims is a bitmap (width, height) bucket key.
type Dims struct {
	Width  int
	Height int
}

// Family groups one font family's glyphs by bitmap dimensions.
type Family map[Dims][]*KnownGlyph

// FontBase is the in-memory index of known glyphs, keyed by font family
// code. Built once per run and shared read-only across all matching
// goroutines; nothing mutates it after Load returns.
type FontBase struct {
	Glyphs map[Code]Family
}

// New creates an empty FontBase
func New() *FontBase {
	return &FontBase{Glyphs: make(map[Code]Family)}
}

// Load reads the persisted font library from fontDir. Missing or corrupt
// family files degrade to an empty family with a warning; only an
// unreadable directory is an error.
func Load(fontDir string) (*FontBase, error) {
	now := time.Now()
	logger.Info("loading fonts", logger.String("dir", fontDir))

	if info, err := os.Stat(fontDir); err != nil {
		if os.IsNotExist(err) {
			logger.Warn("font directory does not exist, starting with an empty library",
				logger.String("dir", fontDir))
			return New(), nil
		}
		return nil, types.NewAppError(types.ErrFontLoad, "failed to read font directory", err)
	} else if !info.IsDir() {
		return nil, types.NewAppErrorWithDetails(types.ErrFontLoad,
			"font directory is not a directory", fontDir, nil)
	}

	fb := New()
	total := 0
	for _, code := range AllCodes() {
		family := loadFamily(fontDir, code)
		fb.Glyphs[code] = family
		for _, glyphs := range family {
			total += len(glyphs)
		}
	}

	logger.Info("loaded fonts",
		logger.Int("glyphs", total),
		logger.Duration("duration", time.Since(now)))
	return fb, nil
}

// loadFamily loads one family's glyphs for every size, bucketed by dimensions
func loadFamily(fontDir string, code Code) Family {
	family := make(Family)
	for _, size := range AllSizes() {
		glyphs, err := ReadFamilyFile(FamilyPath(fontDir, code, size))
		if err != nil {
			logger.Warn("skipping unreadable font file",
				logger.String("code", code.String()),
				logger.String("size", size.Path()),
				logger.Err(err))
			continue
		}
		for _, glyph := range glyphs {
			dims := Dims{Width: glyph.Rect.Width, Height: glyph.Rect.Height}
			family[dims] = append(family[dims], glyph)
		}
	}
	return family
}

// FamilyPath returns the path of the persisted file for a family and size
func FamilyPath(fontDir string, code Code, size Size) string {
	return filepath.Join(fontDir, code.String(), size.Path())
}

// Lookup returns the glyphs of the given family with the given dimensions
func (fb *FontBase) Lookup(code Code, dims Dims) []*KnownGlyph {
	family, ok := fb.Glyphs[code]
	if !ok {
		return nil
	}
	return family[dims]
}

// Count returns the total number of glyphs in the library
func (fb *FontBase) Count() int {
	total := 0
	for _, family := range fb.Glyphs {
		for _, glyphs := range family {
			total += len(glyphs)
		}
	}
	return total
}

// Add inserts a glyph into the index. Only used while building a library;
// a FontBase being matched against is never mutated.
func (fb *FontBase) Add(glyph *KnownGlyph) {
	family, ok := fb.Glyphs[glyph.Code]
	if !ok {
		family = make(Family)
		fb.Glyphs[glyph.Code] = family
	}
	dims := Dims{Width: glyph.Rect.Width, Height: glyph.Rect.Height}
	family[dims] = append(family[dims], glyph)
}
