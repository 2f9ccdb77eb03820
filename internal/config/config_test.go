package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zircon-dims/internal/segment"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 1, cfg.Match.MaxOutOfBounds)
	assert.Equal(t, 3, cfg.Match.PairwiseMaxOutOfBounds)
	assert.Equal(t, ".scancsv", cfg.Match.ScanExt)
	assert.Equal(t, 500.0, cfg.Info.MaxZirconSize)
	assert.Equal(t, 150, cfg.Segment.SubImageSize)
	assert.Equal(t, 100, cfg.Segment.MinRegionPixels)
	assert.False(t, cfg.Segment.Otsu)
	require.NoError(t, cfg.Validate())

	params, err := cfg.SegmentParams()
	require.NoError(t, err)
	assert.Equal(t, []segment.Strategy{segment.Baseline}, params.Strategies)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zircondims.yaml")
	data := `
match:
  maxOutOfBounds: 2
info:
  sample: PX-12
segment:
  zoomIn: true
  otsu: true
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Match.MaxOutOfBounds)
	assert.Equal(t, 2, cfg.MatchParams().MaxOutOfBounds)
	assert.Equal(t, ".Align", cfg.MatchParams().AlignExt)
	assert.Equal(t, "PX-12", cfg.InfoDefaults().Sample)
	assert.Equal(t, 500.0, cfg.InfoDefaults().MaxZirconSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "auto", cfg.Log.Format)

	params, err := cfg.SegmentParams()
	require.NoError(t, err)
	assert.Equal(t,
		[]segment.Strategy{segment.Baseline, segment.ZoomIn, segment.OtsuThreshold},
		params.Strategies)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("segment:\n  zoomInFactor: 1.5\n"), 0644))
	_, err := LoadConfig(bad)
	assert.ErrorContains(t, err, "zoomInFactor")

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("match: [1, 2\n"), 0644))
	_, err = LoadConfig(broken)
	assert.ErrorContains(t, err, "error parsing config file")
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "zircondims.yaml")
	require.NoError(t, CreateDefaultConfigFile(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigStrategyList(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "order.yaml")
	data := "segment:\n  zoomOut: true\n  strategies: [baseline, otsu, contrast]\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	params, err := cfg.SegmentParams()
	require.NoError(t, err)
	assert.Equal(t,
		[]segment.Strategy{segment.Baseline, segment.OtsuThreshold, segment.ContrastEnhance},
		params.Strategies)

	bad := filepath.Join(dir, "bad-order.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("segment:\n  strategies: [baseline, sharpen]\n"), 0644))
	_, err = LoadConfig(bad)
	assert.ErrorContains(t, err, "sharpen")
}
