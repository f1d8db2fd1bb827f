// Package glyph implements the pixel-distance matcher at the heart of the
// recognizer. An UnknownGlyph is a connected ink component cut out of a
// page raster; matching walks the font library for candidates of nearly
// the same dimensions and keeps the one with the smallest bitmap distance.
package glyph

import (
	"image"
	"math"

	"pdf2latex/internal/fontbase"
	"pdf2latex/internal/imaging"
)

// Glyph is any bitmap with a bounding rect, either a reference glyph from
// the font library or an unknown one cut from a page.
type Glyph interface {
	Bounds() imaging.Rect
	Pixels() []uint8
}

// pixelAt returns the normalized grayscale of the pixel at (x, y),
// where 1 is background and 0 is ink. Outside the bitmap it is background.
func pixelAt(g Glyph, x, y int) float64 {
	r := g.Bounds()
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return 1
	}
	return float64(g.Pixels()[x+y*r.Width]) / 255
}

// Distance computes the visual distance between two glyphs, shifted
// vertically by offset to align their baselines. For each of the 9 shifts
// within one pixel of the offset it accumulates squared differences over
// the ink pixels of both glyphs, and returns the smallest accumulator.
// Taking the minimum over the shifts absorbs the one-pixel jitter that
// segmentation introduces. A shift whose accumulator reaches limit stops
// accumulating, so hopeless candidates are abandoned early.
func Distance(g, other Glyph, offset int, limit float64) float64 {
	type shift struct{ dx, dy int }

	shifts := make([]shift, 0, 9)
	dists := make([]float64, 0, 9)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			shifts = append(shifts, shift{dx, dy + offset})
			dists = append(dists, 0)
		}
	}

	// Ink pixels of g against the shifted pixels of other
	gb := g.Bounds()
	for x := 0; x < gb.Width; x++ {
		for y := 0; y < gb.Height; y++ {
			vg := pixelAt(g, x, y)
			if vg == 1 {
				continue
			}
			for i, s := range shifts {
				if dists[i] >= limit {
					continue
				}
				vo := pixelAt(other, x+s.dx, y+s.dy)
				dists[i] += (vg - vo) * (vg - vo)
			}
		}
	}

	// Ink pixels of other that land on background of g, so that extra ink
	// in the candidate counts against it too
	ob := other.Bounds()
	for x := 0; x < ob.Width; x++ {
		for y := 0; y < ob.Height; y++ {
			vo := pixelAt(other, x, y)
			if vo == 1 {
				continue
			}
			for i, s := range shifts {
				if dists[i] >= limit {
					continue
				}
				if pixelAt(g, x-s.dx, y-s.dy) == 1 {
					dists[i] += (1 - vo) * (1 - vo)
				}
			}
		}
	}

	min := dists[0]
	for _, d := range dists[1:] {
		if d < min {
			min = d
		}
	}
	return min
}

// UnknownGlyph is a connected ink component cut from a page raster,
// together with the best match found for it so far.
type UnknownGlyph struct {
	// Rect is the component's bounding rect in page coordinates
	Rect   imaging.Rect
	Bitmap []uint8

	// Dist is the distance of the current guess, +Inf before any match
	Dist  float64
	Guess *fontbase.KnownGlyph
}

// Bounds returns the glyph's bounding rect in page coordinates
func (u *UnknownGlyph) Bounds() imaging.Rect {
	return u.Rect
}

// Pixels returns the glyph's row-major grayscale bitmap
func (u *UnknownGlyph) Pixels() []uint8 {
	return u.Bitmap
}

// FromSeed cuts the connected component containing start out of the given
// region of the page. The component is flood-filled from the seed, its
// bounding rect computed and its pixels copied onto a white bitmap, so
// overlapping neighbors do not bleed into each other's bitmaps.
// Coordinates of start are relative to bounds; the resulting rect is in
// page coordinates.
func FromSeed(start image.Point, bounds imaging.Rect, page *image.Gray, threshold uint8) *UnknownGlyph {
	crop := bounds.Crop(page)
	pixels := imaging.FloodFill([]image.Point{start}, crop, threshold)
	rect := imaging.BoundingRect(pixels)

	bitmap := make([]uint8, rect.Width*rect.Height)
	for i := range bitmap {
		bitmap[i] = imaging.White
	}
	for _, p := range pixels {
		bitmap[(p.X-rect.X)+(p.Y-rect.Y)*rect.Width] = crop.GrayAt(p.X, p.Y).Y
	}

	return &UnknownGlyph{
		Rect:   imaging.NewRect(rect.X+bounds.X, rect.Y+bounds.Y, rect.Width, rect.Height),
		Bitmap: bitmap,
		Dist:   math.Inf(1),
	}
}

// Join merges two glyphs into one covering both bounding rects, discarding
// any guesses. Used when a compound glyph was split by segmentation.
func (u *UnknownGlyph) Join(other *UnknownGlyph) *UnknownGlyph {
	x := min(u.Rect.X, other.Rect.X)
	y := min(u.Rect.Y, other.Rect.Y)
	width := max(u.Rect.X+u.Rect.Width, other.Rect.X+other.Rect.Width) - x
	height := max(u.Rect.Y+u.Rect.Height, other.Rect.Y+other.Rect.Height) - y

	bitmap := make([]uint8, width*height)
	for i := range bitmap {
		bitmap[i] = imaging.White
	}
	blit := func(g *UnknownGlyph) {
		for nx := 0; nx < g.Rect.Width; nx++ {
			for ny := 0; ny < g.Rect.Height; ny++ {
				v := g.Bitmap[nx+ny*g.Rect.Width]
				if v < imaging.White {
					bitmap[(nx+g.Rect.X-x)+(ny+g.Rect.Y-y)*width] = v
				}
			}
		}
	}
	blit(u)
	blit(other)

	return &UnknownGlyph{
		Rect:   imaging.NewRect(x, y, width, height),
		Bitmap: bitmap,
		Dist:   math.Inf(1),
	}
}

// TryGuess matches the glyph against the font library, keeping the closest
// candidate found. Only candidates within two pixels of the glyph's
// dimensions are examined. When aligned, candidates are compared at the
// vertical offset that aligns their baseline with the given one; otherwise
// they are compared in place and the baseline divergence is added as a
// penalty, which recovers isolated sub and superscripts. A candidate
// closer than distThreshold is good enough and ends the whole scan.
func (u *UnknownGlyph) TryGuess(fb *fontbase.FontBase, baseline int, aligned bool, distThreshold float64) {
	closest := u.Dist
	var guess *fontbase.KnownGlyph

scan:
	for _, family := range fb.Glyphs {
		for _, dw := range []int{0, -1, 1, -2, 2} {
			for _, dh := range []int{0, -1, 1, -2, 2} {
				dims := fontbase.Dims{Width: u.Rect.Width + dw, Height: u.Rect.Height + dh}
				if dims.Width <= 0 || dims.Height <= 0 {
					continue
				}

				for _, candidate := range family[dims] {
					offset := candidate.Offset - (u.Rect.Y + u.Rect.Height - baseline)

					var dist float64
					if aligned {
						dist = Distance(u, candidate, offset, closest)
					} else {
						dist = Distance(u, candidate, 0, closest) + math.Abs(float64(offset))
					}

					if dist < closest {
						closest = dist
						guess = candidate
					}

					if dist < distThreshold {
						break scan
					}
				}
			}
		}
	}

	if guess != nil {
		u.Dist = closest
		u.Guess = guess
	}
}
