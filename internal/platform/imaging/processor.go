// Package imaging decodes and normalizes uploaded avatar images.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	// Registered decoders for the accepted upload formats. GIF is
	// deliberately absent from this list.
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// ErrUnsupportedFormat indicates the uploaded data is not a JPEG or PNG image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// allowedExtensions lists the file extensions accepted for avatar uploads.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// AllowedExtension reports whether the filename carries an accepted
// image extension. The check is case-insensitive.
func AllowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return allowedExtensions[ext]
}

// Processor normalizes uploaded images to a fixed-size square PNG.
type Processor struct {
	size int
}

// NewProcessor creates a Processor that resizes images to size x size pixels.
func NewProcessor(size int) (*Processor, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid avatar size: %d", size)
	}
	return &Processor{size: size}, nil
}

// Normalize decodes the given image bytes, resizes the image to the
// configured square dimensions, and re-encodes it as PNG. JPEG and PNG
// inputs are accepted; any other format returns ErrUnsupportedFormat.
func (p *Processor) Normalize(data []byte) ([]byte, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if format != "jpeg" && format != "png" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	dst := image.NewRGBA(image.Rect(0, 0, p.size, p.size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}

	return buf.Bytes(), nil
}
