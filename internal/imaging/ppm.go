package imaging

import (
	"fmt"
	"image"
)

// DecodeNetpbm decodes a concatenated stream of binary netpbm images
// (P5 grayscale or P6 color), as produced on stdout by pdftoppm when
// rasterizing a multi-page document. Color images are reduced to
// grayscale with the Rec. 601 weights the image package uses.
func DecodeNetpbm(data []byte) ([]*image.Gray, error) {
	var images []*image.Gray

	pos := 0
	for pos < len(data) {
		img, next, err := decodeOne(data, pos)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
		pos = next
	}

	if len(images) == 0 {
		return nil, fmt.Errorf("empty netpbm stream")
	}
	return images, nil
}

// decodeOne decodes a single netpbm image starting at pos and returns the
// offset just past its pixel data.
func decodeOne(data []byte, pos int) (*image.Gray, int, error) {
	if pos+2 > len(data) || data[pos] != 'P' {
		return nil, 0, fmt.Errorf("invalid netpbm magic at offset %d", pos)
	}
	magic := data[pos+1]
	if magic != '5' && magic != '6' {
		return nil, 0, fmt.Errorf("unsupported netpbm format P%c", magic)
	}
	pos += 2

	width, pos, err := readToken(data, pos)
	if err != nil {
		return nil, 0, err
	}
	height, pos, err := readToken(data, pos)
	if err != nil {
		return nil, 0, err
	}
	maxval, pos, err := readToken(data, pos)
	if err != nil {
		return nil, 0, err
	}
	if width <= 0 || height <= 0 {
		return nil, 0, fmt.Errorf("invalid netpbm dimensions %dx%d", width, height)
	}
	if maxval != 255 {
		return nil, 0, fmt.Errorf("unsupported netpbm maxval %d", maxval)
	}

	channels := 1
	if magic == '6' {
		channels = 3
	}
	size := width * height * channels
	if pos+size > len(data) {
		return nil, 0, fmt.Errorf("truncated netpbm pixel data")
	}

	img := image.NewGray(image.Rect(0, 0, width, height))
	if channels == 1 {
		copy(img.Pix, data[pos:pos+size])
	} else {
		for i := 0; i < width*height; i++ {
			r := uint32(data[pos+3*i])
			g := uint32(data[pos+3*i+1])
			b := uint32(data[pos+3*i+2])
			img.Pix[i] = uint8((299*r + 587*g + 114*b + 500) / 1000)
		}
	}

	return img, pos + size, nil
}

// readToken reads the next whitespace-separated decimal token, skipping
// '#' comment lines, and consumes the single whitespace after it.
func readToken(data []byte, pos int) (int, int, error) {
	for pos < len(data) {
		if isSpace(data[pos]) {
			pos++
		} else if data[pos] == '#' {
			for pos < len(data) && data[pos] != '\n' {
				pos++
			}
		} else {
			break
		}
	}

	start := pos
	for pos < len(data) && data[pos] >= '0' && data[pos] <= '9' {
		pos++
	}
	if pos == start {
		return 0, 0, fmt.Errorf("malformed netpbm header")
	}

	value := 0
	for _, b := range data[start:pos] {
		value = value*10 + int(b-'0')
	}

	// Single whitespace terminates the token (mandatory before raster data)
	if pos < len(data) && isSpace(data[pos]) {
		pos++
	}
	return value, pos, nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
