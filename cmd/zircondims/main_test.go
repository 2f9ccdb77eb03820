package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zircon-dims/internal/mosaic"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeText(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func scanlistCSV(points ...[2]float64) string {
	var b strings.Builder
	b.WriteString("Description,Selected,Scan Type,Lock,Vertex Count,Vertex List\n")
	for i, p := range points {
		fmt.Fprintf(&b, "Spot %d,True,Spot,False,1,\"%g,%g,0\"\n", i+1, p[0], p[1])
	}
	return b.String()
}

func alignXML(cx, cy, w, h float64) string {
	return fmt.Sprintf(`<?xml version="1.0"?>
<ImageAlignment>
  <Alignment>
    <Center>%g,%g</Center>
    <Size>%g,%g</Size>
  </Alignment>
</ImageAlignment>
`, cx, cy, w, h)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "zircondims 0.1.0")
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zircondims.yaml")

	out, _, err := runCLI(t, "config", "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	_, _, err = runCLI(t, "config", "init", "--path", path)
	assert.ErrorContains(t, err, "already exists")

	out, _, err = runCLI(t, "config", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
}

func TestMatchCommand(t *testing.T) {
	dir := t.TempDir()
	scans := filepath.Join(dir, "scans")
	mosaics := filepath.Join(dir, "mosaics")

	// four spots inside the first mosaic, one just outside
	writeText(t, filepath.Join(scans, "a.scancsv"),
		scanlistCSV([2]float64{1, 1}, [2]float64{2, 2}, [2]float64{-2, 3}, [2]float64{4, -4}, [2]float64{20, 0}))
	writeText(t, filepath.Join(scans, "b.scancsv"), scanlistCSV([2]float64{500, 500}))
	writeText(t, filepath.Join(mosaics, "m1.Align"), alignXML(0, 0, 10, 10))
	writeText(t, filepath.Join(mosaics, "m2.Align"), alignXML(100, 100, 10, 10))

	infoPath := filepath.Join(dir, "out", "mos_info.csv")
	matchPath := filepath.Join(dir, "out", "matches.json")
	out, logs, err := runCLI(t, "match",
		"--scans", scans,
		"--mosaics", mosaics,
		"--sample", "PX-1",
		"--out", infoPath,
		"--matches", matchPath,
		"--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "m1.bmp")
	assert.Contains(t, logs, "no mosaic matched scanlists")
	assert.Contains(t, logs, "run_id")

	info, err := os.ReadFile(infoPath)
	require.NoError(t, err)
	assert.Equal(t,
		"Sample,Scanlist,Mosaic,Max_zircon_size,X_offset,Y_offset\nPX-1,a.scancsv,m1.bmp,500,0,0\n",
		string(info))

	mf, err := mosaic.LoadMatchFile(matchPath)
	require.NoError(t, err)
	table, err := mf.Table()
	require.NoError(t, err)
	assert.Equal(t, []string{"m1.bmp"}, table.Candidates("a.scancsv"))
	assert.Empty(t, table.Candidates("b.scancsv"))

	// zero tolerance rejects the stray spot
	out, _, err = runCLI(t, "match", "--scans", scans, "--mosaics", mosaics, "--max-out-of-bounds", "0")
	require.NoError(t, err)
	assert.NotContains(t, out, "m1.bmp")
}

func TestMatchCommandRequiresDirs(t *testing.T) {
	_, _, err := runCLI(t, "match", "--scans", t.TempDir())
	assert.ErrorContains(t, err, "mosaics")
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	scan := filepath.Join(dir, "a.scancsv")
	align := filepath.Join(dir, "m.Align")
	writeText(t, scan, scanlistCSV([2]float64{1, 1}, [2]float64{50, 50}, [2]float64{60, 60}))
	writeText(t, align, alignXML(0, 0, 10, 10))

	out, _, err := runCLI(t, "check", "--scanlist", scan, "--align", align)
	require.NoError(t, err)
	assert.Contains(t, out, "yes")

	out, _, err = runCLI(t, "check", "--scanlist", scan, "--align", align, "--max-out-of-bounds", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "no")
}

// writeGrainImage writes a 64×64 shot with a bright 20×20 grain in the middle.
func writeGrainImage(t *testing.T, path string) *image.Gray {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			v := uint8(15)
			if x >= 22 && x < 42 && y >= 22 && y < 42 {
				v = 230
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return img
}

func TestSegmentCommandOtsu(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "shot.png")
	img := writeGrainImage(t, imgPath)

	overlay := filepath.Join(dir, "overlay.png")
	out, _, err := runCLI(t, "segment", "--image", imgPath, "--otsu", "--overlay-out", overlay)
	require.NoError(t, err)
	assert.Contains(t, out, "otsu")

	mf, err := os.Open(filepath.Join(dir, "shot_mask.png"))
	require.NoError(t, err)
	defer mf.Close()
	mask, err := png.Decode(mf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), mask.Bounds())
	assert.FileExists(t, overlay)
}

func TestSegmentCommandNotFound(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "blank.png")
	f, err := os.Create(imgPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 32, 32))))
	require.NoError(t, f.Close())

	out, _, err := runCLI(t, "segment", "--image", imgPath, "--center", "16,16", "--size", "20", "--zoom-in")
	require.NoError(t, err)
	assert.Contains(t, out, "zoom-in")
	assert.NoFileExists(t, filepath.Join(dir, "blank_mask.png"))
}

func TestParseCenter(t *testing.T) {
	p, err := parseCenter(" 12, 30")
	require.NoError(t, err)
	assert.Equal(t, image.Pt(12, 30), p)

	_, err = parseCenter("12")
	assert.Error(t, err)
	_, err = parseCenter("a,b")
	assert.Error(t, err)
}

func TestSegmentCommandStrategyList(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "grain.png")
	writeGrainImage(t, imgPath)

	out, _, err := runCLI(t, "segment", "--image", imgPath, "--center", "32,32", "--size", "64",
		"--strategies", "baseline,otsu", "--overlay-out", filepath.Join(dir, "overlay.png"))
	require.NoError(t, err)
	assert.Contains(t, out, "otsu")
	assert.FileExists(t, filepath.Join(dir, "grain_mask.png"))
	assert.FileExists(t, filepath.Join(dir, "overlay.png"))

	_, _, err = runCLI(t, "segment", "--image", imgPath, "--strategies", "baseline,sharpen")
	assert.ErrorContains(t, err, "sharpen")
}

func TestSegmentCommandRejectsUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mosaic.Align")
	writeText(t, path, alignXML(0, 0, 1, 1))

	_, _, err := runCLI(t, "segment", "--image", path, "--otsu")
	assert.ErrorContains(t, err, "unsupported image format")
}
