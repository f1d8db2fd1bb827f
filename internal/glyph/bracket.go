package glyph

import (
	"math"

	"pdf2latex/internal/imaging"
)

// Bracket classifies a glyph as a matrix delimiter.
type Bracket int

const (
	NoBracket Bracket = iota
	OpeningRound
	OpeningSquare
	OpeningCurly
	ClosingRound
	ClosingSquare
	ClosingCurly
)

// Opening reports whether b opens a bracketed block
func (b Bracket) Opening() bool {
	return b == OpeningRound || b == OpeningSquare || b == OpeningCurly
}

// Closing reports whether b closes a bracketed block
func (b Bracket) Closing() bool {
	return b == ClosingRound || b == ClosingSquare || b == ClosingCurly
}

const (
	// bracketProbeGap is the row distance from the vertical middle at
	// which the edge probes sample the bracket's spine.
	bracketProbeGap = 5
	// curlySymmetryLimit relaxes the mirror-symmetry check for curly
	// brackets, whose center tip breaks the symmetry of round and
	// square ones.
	curlySymmetryLimit = 40.0
)

// Bracket classifies the glyph by its silhouette. A bracket is tall,
// carries ink on the corners of one side and along the middle of the
// other, and its top half mirrors its bottom half. Round and square
// brackets must mirror within distThreshold, curly ones within the
// looser curlySymmetryLimit.
func (u *UnknownGlyph) Bracket(distThreshold float64) Bracket {
	w, h := u.Rect.Width, u.Rect.Height
	if w*2 > h || h <= 2*bracketProbeGap {
		return NoBracket
	}

	ink := func(x, y int) bool {
		return u.Bitmap[x+y*w] < imaging.White
	}

	var kind Bracket
	switch {
	// ink on the left corners and a right-side spine reads ) ] or }
	case ink(0, 0) && ink(0, h-1) && ink(w-1, h/2):
		kind = ClosingCurly
		if ink(w-1, h/2-bracketProbeGap) && ink(w-1, h/2+bracketProbeGap) {
			kind = ClosingRound
			if ink(w-1, 0) && ink(w-1, h-1) {
				kind = ClosingSquare
			}
		}
	// ink on the right corners and a left-side spine reads ( [ or {
	case ink(w-1, 0) && ink(w-1, h-1) && ink(0, h/2):
		kind = OpeningCurly
		if ink(0, h/2-bracketProbeGap) && ink(0, h/2+bracketProbeGap) {
			kind = OpeningRound
			if ink(0, 0) && ink(0, h-1) {
				kind = OpeningSquare
			}
		}
	default:
		return NoBracket
	}

	limit := distThreshold
	if kind == OpeningCurly || kind == ClosingCurly {
		limit = curlySymmetryLimit
	}

	upper, lower := u.splitMirrored()
	if Distance(upper, lower, 0, curlySymmetryLimit+1) >= limit {
		return NoBracket
	}
	return kind
}

// splitMirrored returns the glyph's top half and its bottom half flipped
// vertically, so a symmetric glyph yields two near-identical halves.
func (u *UnknownGlyph) splitMirrored() (*UnknownGlyph, *UnknownGlyph) {
	w, half := u.Rect.Width, u.Rect.Height/2
	rect := imaging.NewRect(0, 0, w, half)

	upper := &UnknownGlyph{Rect: rect, Bitmap: u.Bitmap[:w*half], Dist: math.Inf(1)}

	flipped := make([]uint8, 0, w*half)
	for y := u.Rect.Height - 1; y >= u.Rect.Height-half; y-- {
		flipped = append(flipped, u.Bitmap[y*w:(y+1)*w]...)
	}
	lower := &UnknownGlyph{Rect: rect, Bitmap: flipped, Dist: math.Inf(1)}

	return upper, lower
}
