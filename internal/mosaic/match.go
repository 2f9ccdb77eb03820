package mosaic

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"zircon-dims/pkg/geometry"
)

const (
	// DefaultPairwiseMaxOutOfBounds is the tolerance used by WithinBounds.
	DefaultPairwiseMaxOutOfBounds = 3
	// DefaultBatchMaxOutOfBounds is the tolerance used by ComputeMatches.
	DefaultBatchMaxOutOfBounds = 1
)

// IsWithinBounds reports whether at most maxOutOfBounds shots fall outside
// bounds. Shots on the rectangle's edge are inside.
func IsWithinBounds(scan *ScanFile, bounds geometry.Rect, maxOutOfBounds int) bool {
	return CountOutOfBounds(scan, bounds) <= maxOutOfBounds
}

// WithinBounds is IsWithinBounds with DefaultPairwiseMaxOutOfBounds.
func WithinBounds(scan *ScanFile, bounds geometry.Rect) bool {
	return IsWithinBounds(scan, bounds, DefaultPairwiseMaxOutOfBounds)
}

// CountOutOfBounds returns the number of shots outside bounds.
func CountOutOfBounds(scan *ScanFile, bounds geometry.Rect) int {
	out := 0
	for _, shot := range scan.Shots {
		if !bounds.Contains(shot.Point) {
			out++
		}
	}
	return out
}

// MatchParams configures a batch match run.
type MatchParams struct {
	MaxOutOfBounds int

	ScanExt  string // scanlist extension, e.g. ".scancsv"
	AlignExt string // alignment extension, e.g. ".Align"
	ImageExt string // mosaic image extension substituted for AlignExt

	Logger *slog.Logger
}

// DefaultMatchParams returns the batch defaults.
func DefaultMatchParams() MatchParams {
	return MatchParams{
		MaxOutOfBounds: DefaultBatchMaxOutOfBounds,
		ScanExt:        ".scancsv",
		AlignExt:       ".Align",
		ImageExt:       ".bmp",
	}
}

// WithMaxOutOfBounds returns a copy of params with a different tolerance.
func (p MatchParams) WithMaxOutOfBounds(n int) MatchParams {
	p.MaxOutOfBounds = n
	return p
}

// WithLogger returns a copy of params that logs to l.
func (p MatchParams) WithLogger(l *slog.Logger) MatchParams {
	p.Logger = l
	return p
}

func (p MatchParams) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// MosaicImageName converts an alignment filename into its mosaic image name.
func (p MatchParams) MosaicImageName(alignName string) string {
	return strings.TrimSuffix(alignName, p.AlignExt) + p.ImageExt
}

// mosaicBounds pairs a mosaic image name with its alignment bounds.
type mosaicBounds struct {
	image  string
	bounds geometry.Rect
}

// ComputeMatches checks every scanlist in scanDir against every alignment file
// in mosaicDir and records the mosaics each scanlist fits. Candidates keep
// directory order; they are not ranked.
//
// A malformed alignment file is logged and treated as degenerate bounds.
// A malformed scanlist aborts the run.
func ComputeMatches(scanDir, mosaicDir string, params MatchParams) (*MatchTable, error) {
	log := params.logger()

	scanNames, err := listFiles(scanDir, params.ScanExt)
	if err != nil {
		return nil, fmt.Errorf("failed to list scanlists: %w", err)
	}
	alignNames, err := listFiles(mosaicDir, params.AlignExt)
	if err != nil {
		return nil, fmt.Errorf("failed to list alignment files: %w", err)
	}

	mosaics := make([]mosaicBounds, 0, len(alignNames))
	for _, name := range alignNames {
		var bounds geometry.Rect
		align, err := ParseAlignment(filepath.Join(mosaicDir, name))
		switch {
		case err != nil:
			log.Warn("using degenerate mosaic bounds", "file", name, "error", err)
		case align.Rotation != 0:
			log.Debug("ignoring mosaic rotation", "file", name, "rotation", align.Rotation)
			bounds = align.Bounds()
		default:
			bounds = align.Bounds()
		}
		mosaics = append(mosaics, mosaicBounds{image: params.MosaicImageName(name), bounds: bounds})
	}

	table := NewMatchTable()
	for _, name := range scanNames {
		scan, err := ParseShotCoordinates(filepath.Join(scanDir, name))
		if err != nil {
			return nil, err
		}

		table.Add(name)
		for _, m := range mosaics {
			if IsWithinBounds(scan, m.bounds, params.MaxOutOfBounds) {
				table.Add(name, m.image)
			}
		}
		log.Debug("scanlist checked",
			"scanlist", name,
			"shots", scan.Len(),
			"extent", scan.Extent().String(),
			"candidates", len(table.Candidates(name)))
	}

	return table, nil
}

// listFiles returns the names of regular files in dir with the given suffix,
// in directory-read (lexical) order.
func listFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// MatchTable maps scanlist names to candidate mosaic images, preserving the
// order in which scanlists and candidates were added.
type MatchTable struct {
	order      []string
	candidates map[string][]string
}

// NewMatchTable creates an empty table.
func NewMatchTable() *MatchTable {
	return &MatchTable{candidates: make(map[string][]string)}
}

// Add registers scan (if new) and appends mosaics not already listed for it.
func (t *MatchTable) Add(scan string, mosaics ...string) {
	existing, ok := t.candidates[scan]
	if !ok {
		t.order = append(t.order, scan)
		existing = []string{}
	}
	for _, m := range mosaics {
		if !contains(existing, m) {
			existing = append(existing, m)
		}
	}
	t.candidates[scan] = existing
}

// Scans returns scanlist names in insertion order.
func (t *MatchTable) Scans() []string {
	return append([]string(nil), t.order...)
}

// Candidates returns the candidate mosaics for scan.
func (t *MatchTable) Candidates(scan string) []string {
	out := make([]string, len(t.candidates[scan]))
	copy(out, t.candidates[scan])
	return out
}

// Len returns the number of scanlists in the table.
func (t *MatchTable) Len() int {
	return len(t.order)
}

// Entries returns the table as an ordered slice.
func (t *MatchTable) Entries() []MatchEntry {
	entries := make([]MatchEntry, 0, len(t.order))
	for _, scan := range t.order {
		entries = append(entries, MatchEntry{Scanlist: scan, Mosaics: t.Candidates(scan)})
	}
	return entries
}

// MatchEntry is one row of a MatchTable.
type MatchEntry struct {
	Scanlist string   `json:"scanlist"`
	Mosaics  []string `json:"mosaics"`
}

// ErrDuplicateScanlist is returned when entries repeat a scanlist.
var ErrDuplicateScanlist = errors.New("duplicate scanlist")

// MatchTableFromEntries rebuilds a table from ordered entries.
func MatchTableFromEntries(entries []MatchEntry) (*MatchTable, error) {
	t := NewMatchTable()
	for _, e := range entries {
		if _, ok := t.candidates[e.Scanlist]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateScanlist, e.Scanlist)
		}
		t.Add(e.Scanlist, e.Mosaics...)
	}
	return t, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
