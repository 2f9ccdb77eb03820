// Package mosaic matches scan-definition files (.scancsv) to mosaic images by
// checking shot coordinates against each mosaic's alignment bounds.
package mosaic

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"zircon-dims/pkg/geometry"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrMalformedAlignment is returned when an alignment file cannot be read or
// its Center/Size values cannot be parsed. Callers degrade to degenerate bounds.
var ErrMalformedAlignment = errors.New("malformed alignment file")

// Alignment holds the values read from a mosaic .Align file.
//
// Rotation is read but never applied to the bounds: a rotated mosaic yields
// an incorrect (axis-aligned) rectangle.
type Alignment struct {
	Center   geometry.Point2D
	Size     geometry.Size
	Rotation float64
}

// Bounds returns the axis-aligned rectangle covered by the mosaic.
func (a Alignment) Bounds() geometry.Rect {
	return geometry.RectFromCenter(a.Center, a.Size)
}

type alignDocument struct {
	Alignment *struct {
		Center   *string `xml:"Center"`
		Size     *string `xml:"Size"`
		Rotation *string `xml:"Rotation"`
	} `xml:"Alignment"`
}

// ParseAlignment reads an alignment document. Missing Center or Size elements
// leave the corresponding values at zero; unparseable values are an error.
func ParseAlignment(path string) (Alignment, error) {
	var a Alignment
	if path == "" {
		return a, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Alignment{}, fmt.Errorf("%w: %v", ErrMalformedAlignment, err)
	}

	var doc alignDocument
	if err := decodeAlignDocument(data, &doc); err != nil {
		return Alignment{}, fmt.Errorf("%w: %v", ErrMalformedAlignment, err)
	}
	if doc.Alignment == nil {
		return a, nil
	}

	if doc.Alignment.Center != nil {
		x, y, err := parsePair(*doc.Alignment.Center)
		if err != nil {
			return Alignment{}, fmt.Errorf("%w: center: %v", ErrMalformedAlignment, err)
		}
		a.Center = geometry.Point2D{X: x, Y: y}
	}
	if doc.Alignment.Size != nil {
		w, h, err := parsePair(*doc.Alignment.Size)
		if err != nil {
			return Alignment{}, fmt.Errorf("%w: size: %v", ErrMalformedAlignment, err)
		}
		a.Size = geometry.Size{Width: w, Height: h}
	}
	if doc.Alignment.Rotation != nil {
		// Optional; a bad value here is not worth failing the bounds over.
		if r, err := strconv.ParseFloat(strings.TrimSpace(*doc.Alignment.Rotation), 64); err == nil {
			a.Rotation = r
		}
	}

	return a, nil
}

// decodeAlignDocument unmarshals an alignment document in any encoding its
// XML declaration names. UTF-16 files are recognised by their byte order mark.
func decodeAlignDocument(data []byte, doc *alignDocument) error {
	var r io.Reader = bytes.NewReader(data)
	if bytes.HasPrefix(data, []byte{0xFF, 0xFE}) || bytes.HasPrefix(data, []byte{0xFE, 0xFF}) {
		r = transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	}
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader
	return dec.Decode(doc)
}

// charsetReader decodes a declared charset to UTF-8. UTF-16 input has already
// been transcoded by decodeAlignDocument and ASCII is a subset of UTF-8, so
// those labels pass through.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch l := strings.ToLower(strings.TrimSpace(label)); {
	case strings.HasPrefix(l, "utf-16"), l == "us-ascii", l == "ascii":
		return input, nil
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

// ParseAlignmentBounds returns the mosaic rectangle described by an alignment
// file. An empty path gives degenerate (0,0,0,0) bounds. On a malformed file
// the degenerate bounds are returned together with an error wrapping
// ErrMalformedAlignment.
func ParseAlignmentBounds(path string) (geometry.Rect, error) {
	a, err := ParseAlignment(path)
	if err != nil {
		return geometry.Rect{}, err
	}
	return a.Bounds(), nil
}

// parsePair parses "a,b" into two floats.
func parsePair(text string) (float64, float64, error) {
	parts := strings.Split(strings.TrimSpace(text), ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected 2 comma-separated values, got %q", text)
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
