// Package imaging provides the low-level raster primitives used by the
// recognizer: axis-aligned rectangles, 1-D projection-profile segmentation,
// flood fill and small statistics helpers. All functions operate on
// single-channel grayscale images where 255 is background and lower values
// are ink.
package imaging

import (
	"image"
	"image/color"
	"image/draw"
)

// White is the background grayscale value.
const White = 255

// Rect is an axis-aligned rectangle in pixel coordinates.
// Detection logic never constructs a Rect with zero width or height.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewRect creates a new Rect with the given coordinates and dimensions
func NewRect(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Contains reports whether the point (x, y) lies inside the rect
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// ContainsRect reports whether other lies entirely inside the rect
func (r Rect) ContainsRect(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.X+other.Width <= r.X+r.Width &&
		other.Y+other.Height <= r.Y+r.Height
}

// Crop copies the sub-rectangle of the given image into a standalone
// grayscale image with origin (0, 0). Areas outside the source are white.
func (r Rect) Crop(src *image.Gray) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	for i := range dst.Pix {
		dst.Pix[i] = White
	}
	draw.Draw(dst, dst.Bounds(), src, image.Pt(r.X, r.Y), draw.Src)
	return dst
}

// ToGray converts any image to a grayscale image with origin (0, 0)
func ToGray(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok && g.Bounds().Min == image.Pt(0, 0) {
		return g
	}
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Rotate90 rotates the image 90 degrees clockwise, so that row i of the
// result is column i of the source. Used to run FindParts along columns.
func Rotate90(src *image.Gray) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, h, w))
	for y := 0; y < w; y++ {
		for x := 0; x < h; x++ {
			dst.SetGray(x, y, color.Gray{Y: src.GrayAt(b.Min.X+y, b.Min.Y+h-1-x).Y})
		}
	}
	return dst
}

// Part is a contiguous run of ink rows, both bounds inclusive.
type Part struct {
	Start int
	End   int
}

// FindParts finds the contiguous non-blank row runs of a grayscale image.
// A row is ink if its mean grayscale value is below 255; two ink runs
// separated by fewer than spacing blank rows are merged into one part.
// A part still open at the bottom of the image is closed and emitted.
func FindParts(gray *image.Gray, spacing int) []Part {
	var parts []Part

	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	if w == 0 || h == 0 {
		return parts
	}

	start, end := 0, 0
	inPart := false

	for y := 0; y < h; y++ {
		sum := 0
		for x := 0; x < w; x++ {
			sum += int(gray.GrayAt(x, y).Y)
		}
		average := sum / w

		if inPart && average == White {
			// Remember where the part ended, close it once the gap is wide enough
			if end == 0 {
				end = y
			}
			if y-end >= spacing {
				parts = append(parts, Part{Start: start, End: end - 1})
				inPart = false
			}
		} else if average != White {
			end = 0
			if !inPart {
				start = y
				inPart = true
			}
		}
	}

	if inPart {
		if end != 0 {
			parts = append(parts, Part{Start: start, End: end - 1})
		} else {
			parts = append(parts, Part{Start: start, End: h - 1})
		}
	}

	return parts
}

// FloodFill expands an 8-connected region from the seed pixels. A pixel is
// used as an expansion point only if its value is at or below threshold,
// but any reached pixel below 255 joins the result; this captures thin
// anti-aliased glyph edges without flooding through them into neighbors.
// The order of the returned pixels is unspecified.
func FloodFill(seeds []image.Point, gray *image.Gray, threshold uint8) []image.Point {
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()

	pixels := make([]image.Point, 0, len(seeds))
	seen := make(map[image.Point]bool, len(seeds))
	for _, p := range seeds {
		if !seen[p] {
			seen[p] = true
			pixels = append(pixels, p)
		}
	}

	for index := 0; index < len(pixels); index++ {
		p := pixels[index]
		if gray.GrayAt(p.X, p.Y).Y > threshold {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				n := image.Pt(p.X+dx, p.Y+dy)
				if n.X < 0 || n.Y < 0 || n.X >= w || n.Y >= h {
					continue
				}
				if !seen[n] && gray.GrayAt(n.X, n.Y).Y < White {
					seen[n] = true
					pixels = append(pixels, n)
				}
			}
		}
	}

	return pixels
}

// BoundingRect reduces a pixel set to its bounding rectangle.
// Returns a zero Rect for an empty set.
func BoundingRect(pixels []image.Point) Rect {
	if len(pixels) == 0 {
		return Rect{}
	}
	minX, minY := pixels[0].X, pixels[0].Y
	maxX, maxY := pixels[0].X, pixels[0].Y
	for _, p := range pixels[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return NewRect(minX, minY, maxX-minX+1, maxY-minY+1)
}

// MostFrequent returns the statistical mode of values and its count.
// Returns def with count 0 for an empty slice.
func MostFrequent[T comparable](values []T, def T) (T, int) {
	counts := make(map[T]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	mode, max := def, 0
	for v, count := range counts {
		if count > max {
			mode = v
			max = count
		}
	}
	return mode, max
}
