package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", []byte("\xFF\xD8\xFF\xE0rest"), MIMETypeJPEG},
		{"png", []byte("\x89PNG\r\n\x1a\nrest"), MIMETypePNG},
		{"gif", []byte("GIF89a...."), MIMETypeGIF},
		{"tiff little endian", []byte("II*\x00...."), MIMETypeTIFF},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), MIMETypeWEBP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectType(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := DetectType([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestNormalize_DownscalesAndReencodes(t *testing.T) {
	n := NewNormalizer(50)

	out, err := n.Normalize(makePNG(t, 200, 100))
	require.NoError(t, err)

	mimeType, err := DetectType(out)
	require.NoError(t, err)
	assert.Equal(t, MIMETypeJPEG, mimeType)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 50, decoded.Bounds().Dx())
	assert.Equal(t, 25, decoded.Bounds().Dy())
}

func TestNormalize_KeepsSmallImages(t *testing.T) {
	n := NewNormalizer(1024)

	out, err := n.Normalize(makePNG(t, 40, 30))
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, decoded.Bounds().Dx())
	assert.Equal(t, 30, decoded.Bounds().Dy())
}

func TestNormalize_Rejects(t *testing.T) {
	n := NewNormalizer(100)

	_, err := n.Normalize(nil)
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = n.Normalize([]byte("plain text upload"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	// valid PNG magic with a truncated body
	_, err = n.Normalize([]byte("\x89PNG\r\n\x1a\n\x00\x00"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}
