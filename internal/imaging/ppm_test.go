package imaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeNetpbmGray(t *testing.T) {
	data := append([]byte("P5\n2 2\n255\n"), 0, 64, 128, 255)

	images, err := DecodeNetpbm(data)
	require.NoError(t, err)
	require.Len(t, images, 1)

	img := images[0]
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
	assert.Equal(t, []uint8{0, 64, 128, 255}, img.Pix)
}

func TestDecodeNetpbmColor(t *testing.T) {
	// One white and one black pixel
	data := append([]byte("P6\n2 1\n255\n"), 255, 255, 255, 0, 0, 0)

	images, err := DecodeNetpbm(data)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, []uint8{255, 0}, images[0].Pix)
}

func TestDecodeNetpbmConcatenated(t *testing.T) {
	one := append([]byte("P5\n1 1\n255\n"), 17)
	two := append([]byte("P5\n2 1\n255\n"), 1, 2)

	images, err := DecodeNetpbm(append(one, two...))
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, []uint8{17}, images[0].Pix)
	assert.Equal(t, []uint8{1, 2}, images[1].Pix)
}

func TestDecodeNetpbmComments(t *testing.T) {
	data := append([]byte("P5\n# created by pdftoppm\n2 1\n255\n"), 9, 8)

	images, err := DecodeNetpbm(data)
	require.NoError(t, err)
	assert.Equal(t, []uint8{9, 8}, images[0].Pix)
}

func TestDecodeNetpbmErrors(t *testing.T) {
	cases := map[string][]byte{
		"empty":      {},
		"bad magic":  []byte("Q5\n1 1\n255\n0"),
		"ascii form": []byte("P2\n1 1\n255\n0"),
		"truncated":  []byte("P5\n4 4\n255\n"),
		"bad maxval": append([]byte("P5\n1 1\n65535\n"), 0, 0),
	}
	for name, data := range cases {
		_, err := DecodeNetpbm(data)
		assert.Error(t, err, name)
	}
}
