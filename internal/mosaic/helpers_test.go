package mosaic

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

type testShot struct {
	name     string
	scanType string
	vertex   string
}

func spot(name string, x, y float64) testShot {
	return testShot{name: name, scanType: "Spot", vertex: fmt.Sprintf("%g, %g, 0.000", x, y)}
}

// writeScanlist writes a Windows-1252 encoded scanlist into dir.
func writeScanlist(t *testing.T, dir, name string, shots []testShot) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("Description,Selected,Scan Type,Lock,Vertex Count,Vertex List,Preablation Settings\n")
	for _, s := range shots {
		fmt.Fprintf(&b, "%s,1,%s,0,1,\"%s\",\"\"\n", s.name, s.scanType, s.vertex)
	}

	encoded, err := charmap.Windows1252.NewEncoder().String(b.String())
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(encoded), 0644))
	return path
}

// writeAlign writes an alignment file with the given center and size.
func writeAlign(t *testing.T, dir, name string, cx, cy, w, h float64) string {
	t.Helper()
	body := fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<ImageAlignment>
  <Alignment>
    <Rotation>0</Rotation>
    <Center>%g,%g</Center>
    <Size>%g,%g</Size>
  </Alignment>
</ImageAlignment>
`, cx, cy, w, h)
	return writeFile(t, dir, name, body)
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}
