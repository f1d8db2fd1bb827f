package imaging

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func whiteImage(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = White
	}
	return img
}

func inkRow(img *image.Gray, y int) {
	for x := 0; x < img.Bounds().Dx(); x++ {
		img.Pix[x+y*img.Stride] = 0
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(2, 3, 4, 5)

	assert.True(t, r.Contains(2, 3))
	assert.True(t, r.Contains(5, 7))
	assert.False(t, r.Contains(6, 3))
	assert.False(t, r.Contains(2, 8))
	assert.False(t, r.Contains(1, 3))
}

func TestRectContainsRect(t *testing.T) {
	r := NewRect(0, 0, 10, 10)

	assert.True(t, r.ContainsRect(NewRect(2, 2, 3, 3)))
	assert.True(t, r.ContainsRect(r))
	assert.False(t, r.ContainsRect(NewRect(8, 8, 3, 3)))
}

func TestCropIsStandalone(t *testing.T) {
	img := whiteImage(10, 10)
	img.Pix[3+4*img.Stride] = 0

	crop := NewRect(2, 3, 4, 4).Crop(img)
	require.Equal(t, image.Rect(0, 0, 4, 4), crop.Bounds())
	assert.Equal(t, uint8(0), crop.GrayAt(1, 1).Y)

	// Mutating the crop leaves the source untouched
	crop.Pix[0] = 0
	assert.Equal(t, uint8(White), img.GrayAt(2, 3).Y)
}

func TestCropOutsideIsWhite(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))

	crop := NewRect(2, 2, 4, 4).Crop(img)
	assert.Equal(t, uint8(White), crop.GrayAt(3, 3).Y)
	// The overlapping part keeps the source's black pixels
	assert.Equal(t, uint8(0), crop.GrayAt(0, 0).Y)
}

func TestRotate90RowsBecomeColumns(t *testing.T) {
	// A 3x2 image with one black pixel at (0, 1)
	img := whiteImage(3, 2)
	img.Pix[0+1*img.Stride] = 0

	rotated := Rotate90(img)
	require.Equal(t, image.Rect(0, 0, 2, 3), rotated.Bounds())

	// Row 0 of the result holds column 0 of the source
	assert.Equal(t, uint8(0), rotated.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(White), rotated.GrayAt(1, 0).Y)
}

func TestFindPartsAllWhite(t *testing.T) {
	assert.Empty(t, FindParts(whiteImage(5, 5), 0))
}

func TestFindPartsSingleRun(t *testing.T) {
	img := whiteImage(5, 10)
	inkRow(img, 3)
	inkRow(img, 4)

	assert.Equal(t, []Part{{Start: 3, End: 4}}, FindParts(img, 0))
}

func TestFindPartsSpacingMerge(t *testing.T) {
	img := whiteImage(5, 20)
	inkRow(img, 2)
	inkRow(img, 6)

	// The 3-row gap splits under a small spacing and merges under a large one
	assert.Equal(t, []Part{{Start: 2, End: 2}, {Start: 6, End: 6}}, FindParts(img, 2))
	assert.Equal(t, []Part{{Start: 2, End: 6}}, FindParts(img, 3))
}

func TestFindPartsOpenAtEnd(t *testing.T) {
	img := whiteImage(5, 6)
	inkRow(img, 4)
	inkRow(img, 5)

	assert.Equal(t, []Part{{Start: 4, End: 5}}, FindParts(img, 10))
}

func TestFindPartsPartialRowIsInk(t *testing.T) {
	// One black pixel lowers the row mean below white
	img := whiteImage(5, 5)
	img.Pix[2+2*img.Stride] = 0

	assert.Equal(t, []Part{{Start: 2, End: 2}}, FindParts(img, 0))
}

func TestFloodFillSingleBlob(t *testing.T) {
	img := whiteImage(10, 10)
	blob := []image.Point{{X: 2, Y: 2}, {X: 3, Y: 2}, {X: 3, Y: 3}}
	for _, p := range blob {
		img.Pix[p.X+p.Y*img.Stride] = 0
	}
	// A disconnected second blob must not be reached
	img.Pix[7+7*img.Stride] = 0

	pixels := FloodFill([]image.Point{{X: 2, Y: 2}}, img, 128)
	assert.ElementsMatch(t, blob, pixels)
}

func TestFloodFillDiagonalConnectivity(t *testing.T) {
	img := whiteImage(5, 5)
	img.Pix[1+1*img.Stride] = 0
	img.Pix[2+2*img.Stride] = 0

	pixels := FloodFill([]image.Point{{X: 1, Y: 1}}, img, 128)
	assert.Len(t, pixels, 2)
}

func TestFloodFillEdgePixelsNotExpansionPoints(t *testing.T) {
	// A light pixel above the threshold joins the set but does not expand
	img := whiteImage(5, 1)
	img.Pix[0] = 0   // seed
	img.Pix[1] = 200 // light, above threshold
	img.Pix[2] = 0   // only reachable through the light pixel

	pixels := FloodFill([]image.Point{{X: 0, Y: 0}}, img, 128)
	assert.ElementsMatch(t, []image.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}, pixels)
}

func TestBoundingRect(t *testing.T) {
	pixels := []image.Point{{X: 3, Y: 7}, {X: 5, Y: 4}, {X: 4, Y: 9}}
	assert.Equal(t, NewRect(3, 4, 3, 6), BoundingRect(pixels))

	assert.Equal(t, Rect{}, BoundingRect(nil))
}

func TestMostFrequent(t *testing.T) {
	mode, count := MostFrequent([]int{5, 3, 5, 7, 5, 3}, 0)
	assert.Equal(t, 5, mode)
	assert.Equal(t, 3, count)

	mode, count = MostFrequent(nil, 42)
	assert.Equal(t, 42, mode)
	assert.Equal(t, 0, count)
}
