package mosaic

import (
	"path/filepath"
	"testing"

	"zircon-dims/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func TestParseAlignmentBounds(t *testing.T) {
	dir := t.TempDir()

	t.Run("center and size", func(t *testing.T) {
		path := writeAlign(t, dir, "a.Align", 1000, -2000, 500, 400)
		bounds, err := ParseAlignmentBounds(path)
		require.NoError(t, err)
		assert.Equal(t, geometry.Rect{MinX: 750, MaxX: 1250, MinY: -2200, MaxY: -1800}, bounds)
	})

	t.Run("empty path is degenerate", func(t *testing.T) {
		bounds, err := ParseAlignmentBounds("")
		require.NoError(t, err)
		assert.Equal(t, geometry.Rect{}, bounds)
	})

	t.Run("no alignment section is degenerate", func(t *testing.T) {
		path := writeFile(t, dir, "b.Align", `<ImageAlignment><Other>1</Other></ImageAlignment>`)
		bounds, err := ParseAlignmentBounds(path)
		require.NoError(t, err)
		assert.Equal(t, geometry.Rect{}, bounds)
	})

	t.Run("missing size keeps center", func(t *testing.T) {
		path := writeFile(t, dir, "c.Align", `<ImageAlignment><Alignment><Center>10,20</Center></Alignment></ImageAlignment>`)
		bounds, err := ParseAlignmentBounds(path)
		require.NoError(t, err)
		assert.Equal(t, geometry.Rect{MinX: 10, MaxX: 10, MinY: 20, MaxY: 20}, bounds)
	})

	t.Run("unparseable center degrades", func(t *testing.T) {
		path := writeFile(t, dir, "d.Align", `<ImageAlignment><Alignment><Center>ten,20</Center><Size>5,5</Size></Alignment></ImageAlignment>`)
		bounds, err := ParseAlignmentBounds(path)
		require.ErrorIs(t, err, ErrMalformedAlignment)
		assert.Equal(t, geometry.Rect{}, bounds)
	})

	t.Run("not xml degrades", func(t *testing.T) {
		path := writeFile(t, dir, "e.Align", "this is not xml <")
		bounds, err := ParseAlignmentBounds(path)
		require.ErrorIs(t, err, ErrMalformedAlignment)
		assert.Equal(t, geometry.Rect{}, bounds)
	})

	t.Run("missing file degrades", func(t *testing.T) {
		bounds, err := ParseAlignmentBounds(filepath.Join(dir, "nope.Align"))
		require.ErrorIs(t, err, ErrMalformedAlignment)
		assert.Equal(t, geometry.Rect{}, bounds)
	})
}

func TestParseAlignmentIgnoresRotation(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "r.Align", `<ImageAlignment>
  <Alignment>
    <Rotation>12.5</Rotation>
    <Center>0,0</Center>
    <Size>100,50</Size>
  </Alignment>
</ImageAlignment>`)

	a, err := ParseAlignment(path)
	require.NoError(t, err)
	assert.Equal(t, 12.5, a.Rotation)
	assert.Equal(t, geometry.Rect{MinX: -50, MaxX: 50, MinY: -25, MaxY: 25}, a.Bounds())
}

func TestParseAlignmentDeclaredEncodings(t *testing.T) {
	dir := t.TempDir()
	want := geometry.Rect{MinX: -1, MaxX: 3, MinY: 0, MaxY: 4}
	doc := func(encoding string) string {
		return `<?xml version="1.0" encoding="` + encoding + `"?>
<ImageAlignment>
  <Operator>Zoë Müller</Operator>
  <Alignment>
    <Center>1,2</Center>
    <Size>4,4</Size>
  </Alignment>
</ImageAlignment>
`
	}

	t.Run("windows-1252", func(t *testing.T) {
		encoded, err := charmap.Windows1252.NewEncoder().String(doc("windows-1252"))
		require.NoError(t, err)
		path := writeFile(t, dir, "cp.Align", encoded)

		bounds, err := ParseAlignmentBounds(path)
		require.NoError(t, err)
		assert.Equal(t, want, bounds)
	})

	t.Run("iso-8859-1", func(t *testing.T) {
		encoded, err := charmap.ISO8859_1.NewEncoder().String(doc("ISO-8859-1"))
		require.NoError(t, err)
		path := writeFile(t, dir, "latin1.Align", encoded)

		bounds, err := ParseAlignmentBounds(path)
		require.NoError(t, err)
		assert.Equal(t, want, bounds)
	})

	t.Run("utf-16 with byte order mark", func(t *testing.T) {
		encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(doc("utf-16"))
		require.NoError(t, err)
		path := writeFile(t, dir, "wide.Align", encoded)

		bounds, err := ParseAlignmentBounds(path)
		require.NoError(t, err)
		assert.Equal(t, want, bounds)
	})

	t.Run("utf-16 big endian", func(t *testing.T) {
		encoded, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().String(doc("UTF-16"))
		require.NoError(t, err)
		path := writeFile(t, dir, "wide-be.Align", encoded)

		bounds, err := ParseAlignmentBounds(path)
		require.NoError(t, err)
		assert.Equal(t, want, bounds)
	})

	t.Run("utf-16 label on single-byte text", func(t *testing.T) {
		path := writeFile(t, dir, "label.Align", `<?xml version="1.0" encoding="utf-16"?>
<ImageAlignment><Alignment><Center>1,2</Center><Size>4,4</Size></Alignment></ImageAlignment>`)

		bounds, err := ParseAlignmentBounds(path)
		require.NoError(t, err)
		assert.Equal(t, want, bounds)
	})

	t.Run("unknown encoding degrades", func(t *testing.T) {
		path := writeFile(t, dir, "odd.Align", `<?xml version="1.0" encoding="x-no-such-charset"?>
<ImageAlignment><Alignment><Center>1,2</Center><Size>4,4</Size></Alignment></ImageAlignment>`)

		bounds, err := ParseAlignmentBounds(path)
		require.ErrorIs(t, err, ErrMalformedAlignment)
		assert.Equal(t, geometry.Rect{}, bounds)
	})
}
