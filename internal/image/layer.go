// Package image provides mosaic and shot image loading and windowed sub-image
// extraction.
package image

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Kind tells a large reference mosaic apart from a single-shot image.
type Kind int

const (
	KindUnknown Kind = iota
	KindMosaic       // Composite reference image with an .Align file
	KindShot         // Single image of one spot
)

func (k Kind) String() string {
	switch k {
	case KindMosaic:
		return "Mosaic"
	case KindShot:
		return "Shot"
	default:
		return "Unknown"
	}
}

// Layer is a loaded image.
type Layer struct {
	Path   string      // Original file path
	Image  image.Image // Decoded image data
	Format string      // Decoder name (bmp, tiff, png, jpeg)
	Kind   Kind
}

// Load decodes the image at path.
func Load(path string) (*Layer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return &Layer{
		Path:   path,
		Image:  img,
		Format: format,
		Kind:   guessKind(path),
	}, nil
}

// Width returns the image width in pixels.
func (l *Layer) Width() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (l *Layer) Height() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dy()
}

// Window returns a size×size view of the layer centered on center (pixels).
func (l *Layer) Window(center image.Point, size int) *Window {
	return NewWindow(l.Image, center, size)
}

// guessKind treats a file with a sibling .Align file as a mosaic.
func guessKind(path string) Kind {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if _, err := os.Stat(base + ".Align"); err == nil {
		return KindMosaic
	}
	return KindShot
}

// SupportedFormats returns the list of supported image extensions.
func SupportedFormats() []string {
	return []string{".bmp", ".tiff", ".tif", ".png", ".jpg", ".jpeg"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
