// Package imaging normalizes uploaded evidence photos before captioning.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

const (
	MIMETypeJPEG = "image/jpeg"
	MIMETypePNG  = "image/png"
	MIMETypeGIF  = "image/gif"
	MIMETypeTIFF = "image/tiff"
	MIMETypeWEBP = "image/webp"
)

const jpegQuality = 85

var (
	// ErrUnsupportedImage is returned when the upload is not a decodable image
	ErrUnsupportedImage = errors.New("unsupported image")

	// ErrEmptyImage is returned for zero-length uploads
	ErrEmptyImage = errors.New("empty image")
)

//nolint:gochecknoglobals
var (
	imageHeaders = map[string][]string{
		MIMETypeJPEG: {"\xFF\xD8"},
		MIMETypePNG:  {"\x89\x50\x4E\x47\x0D\x0A\x1A\x0A"},
		MIMETypeGIF:  {"GIF87a", "GIF89a"},
		MIMETypeTIFF: {"\x49\x49\x2A\x00", "\x4D\x4D\x00\x2A"},
	}

	imageDecoders = map[string]func(io.Reader) (image.Image, error){
		MIMETypeJPEG: jpeg.Decode,
		MIMETypePNG:  png.Decode,
		MIMETypeGIF:  gif.Decode,
		MIMETypeTIFF: tiff.Decode,
		MIMETypeWEBP: webp.Decode,
	}
)

// DetectType sniffs the MIME type from magic bytes
func DetectType(data []byte) (string, error) {
	// RIFF....WEBP
	if len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP" {
		return MIMETypeWEBP, nil
	}

	for mimeType, headers := range imageHeaders {
		for _, header := range headers {
			if bytes.HasPrefix(data, []byte(header)) {
				return mimeType, nil
			}
		}
	}

	return "", ErrUnsupportedImage
}

// Normalizer decodes any supported upload and re-encodes it as a JPEG no
// wider than MaxWidth, preserving aspect ratio
type Normalizer struct {
	MaxWidth int
}

// NewNormalizer creates a normalizer. A maxWidth <= 0 disables downscaling.
func NewNormalizer(maxWidth int) *Normalizer {
	return &Normalizer{MaxWidth: maxWidth}
}

// Normalize converts data into a JPEG suitable for the caption model
func (n *Normalizer) Normalize(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	mimeType, err := DetectType(data)
	if err != nil {
		return nil, err
	}

	original, err := imageDecoders[mimeType](bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrUnsupportedImage, mimeType, err)
	}

	bounds := original.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("%w: zero-sized image", ErrUnsupportedImage)
	}

	width, height := bounds.Dx(), bounds.Dy()
	if n.MaxWidth > 0 && width > n.MaxWidth {
		ratio := float64(n.MaxWidth) / float64(width)
		width = n.MaxWidth
		height = max(1, int(float64(height)*ratio))
	}

	// Flatten transparency onto white, JPEG has no alpha channel
	bitmap := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(bitmap, bitmap.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(bitmap, bitmap.Bounds(), original, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, bitmap, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return buf.Bytes(), nil
}
