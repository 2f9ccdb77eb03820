package mosaic

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// MatchFileVersion is the current match file format version.
const MatchFileVersion = 1

// MatchFile is the on-disk form of a match run (.json). It keeps every
// candidate so the first-candidate choice in the info table can be reviewed.
type MatchFile struct {
	Version        int          `json:"version"`
	Created        time.Time    `json:"created"`
	ScanDir        string       `json:"scan_dir,omitempty"`
	MosaicDir      string       `json:"mosaic_dir,omitempty"`
	MaxOutOfBounds int          `json:"max_out_of_bounds"`
	Matches        []MatchEntry `json:"matches"`
}

// NewMatchFile wraps a match table for saving.
func NewMatchFile(table *MatchTable, scanDir, mosaicDir string, maxOutOfBounds int) *MatchFile {
	return &MatchFile{
		Version:        MatchFileVersion,
		Created:        time.Now(),
		ScanDir:        scanDir,
		MosaicDir:      mosaicDir,
		MaxOutOfBounds: maxOutOfBounds,
		Matches:        table.Entries(),
	}
}

// Table rebuilds the match table.
func (m *MatchFile) Table() (*MatchTable, error) {
	return MatchTableFromEntries(m.Matches)
}

// LoadMatchFile reads a match file.
func LoadMatchFile(path string) (*MatchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var mf MatchFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to parse match file: %w", err)
	}
	if mf.Version > MatchFileVersion {
		return nil, fmt.Errorf("match file version %d is newer than supported version %d", mf.Version, MatchFileVersion)
	}

	return &mf, nil
}

// Save writes the match file, creating the parent directory if needed.
func (m *MatchFile) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
