package imageinput

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"svw.info/picreveal/internal/domain"
)

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 90, A: 255})
		}
	}
	return img
}

func TestDecodePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(16, 9)))

	d, err := NewDecoder(0).Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 16, d.Width)
	assert.Equal(t, 9, d.Height)
	assert.True(t, strings.HasPrefix(d.SourceRef, "data:image/png;base64,"))

	back, err := DescribeDataURL(d.SourceRef)
	require.NoError(t, err)
	assert.Equal(t, d, back)

	img, err := DecodeDataURL(d.SourceRef)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 9), img.Bounds())
}

func TestDecodeBMP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, solid(4, 7)))

	d, err := NewDecoder(0).Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4, d.Width)
	assert.Equal(t, 7, d.Height)
	assert.True(t, strings.HasPrefix(d.SourceRef, "data:image/bmp;base64,"))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := NewDecoder(0).Decode(strings.NewReader("definitely not an image"))
	assert.ErrorIs(t, err, domain.ErrInvalidImage)
}

func TestDecodeTooLarge(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(32, 32)))
	_, err := NewDecoder(16).Decode(&buf)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestDataURLErrors(t *testing.T) {
	for _, ref := range []string{"", "http://example.com/a.png", "data:image/png,plain", "data:image/png;base64,!!!"} {
		_, err := DecodeDataURL(ref)
		assert.ErrorIs(t, err, domain.ErrInvalidImage, "ref %q", ref)
	}
}
