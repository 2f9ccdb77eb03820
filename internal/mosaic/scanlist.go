package mosaic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"zircon-dims/pkg/geometry"

	"golang.org/x/text/encoding/charmap"
)

// Scanlist column names.
const (
	ColumnDescription = "Description"
	ColumnScanType    = "Scan Type"
	ColumnVertexList  = "Vertex List"

	// SpotScanType is the only scan type whose rows become shots.
	SpotScanType = "Spot"
)

var (
	// ErrMissingColumn is returned when a scanlist lacks a required column.
	ErrMissingColumn = errors.New("scanlist missing required column")
	// ErrMalformedVertex is returned when a spot's vertex list does not start
	// with two numbers.
	ErrMalformedVertex = errors.New("malformed vertex list")
)

// Shot is a single spot location from a scanlist.
type Shot struct {
	Name  string           `json:"name"`
	Point geometry.Point2D `json:"point"`
}

// ScanFile is the ordered set of spot shots read from one scanlist.
// Shot names are unique within a ScanFile.
type ScanFile struct {
	Name  string
	Shots []Shot
	index map[string]int
	seen  map[string]int
}

// NewScanFile creates an empty ScanFile.
func NewScanFile(name string) *ScanFile {
	return &ScanFile{Name: name, index: make(map[string]int), seen: make(map[string]int)}
}

// Add appends a shot using the scanlist naming rule: the first occurrence of a
// name is kept as is, repeats become name-2, name-3, ... It returns the name
// the shot was stored under.
func (s *ScanFile) Add(name string, p geometry.Point2D) string {
	if s.index == nil {
		s.index = make(map[string]int)
		s.seen = make(map[string]int)
	}

	stored := name
	n := s.seen[name]
	if n > 0 {
		stored = name + "-" + strconv.Itoa(n+1)
	}
	// A literal name may collide with a generated one; keep counting.
	for _, taken := s.index[stored]; taken; _, taken = s.index[stored] {
		n++
		stored = name + "-" + strconv.Itoa(n+1)
	}
	s.seen[name] = n + 1

	s.index[stored] = len(s.Shots)
	s.Shots = append(s.Shots, Shot{Name: stored, Point: p})
	return stored
}

// Len returns the number of shots.
func (s *ScanFile) Len() int {
	return len(s.Shots)
}

// Names returns shot names in file order.
func (s *ScanFile) Names() []string {
	names := make([]string, len(s.Shots))
	for i, shot := range s.Shots {
		names[i] = shot.Name
	}
	return names
}

// Extent returns the bounding box of all shots.
func (s *ScanFile) Extent() geometry.Rect {
	points := make([]geometry.Point2D, len(s.Shots))
	for i, shot := range s.Shots {
		points[i] = shot.Point
	}
	return geometry.BoundingBox(points)
}

// ParseShotCoordinates reads a .scancsv file and returns its spot shots.
// The file is decoded as Windows-1252.
func ParseShotCoordinates(path string) (*ScanFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scanlist: %w", err)
	}
	defer f.Close()

	scan, err := ReadShotCoordinates(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scan, nil
}

// ReadShotCoordinates parses scanlist rows from r. Only rows whose Scan Type
// is "Spot" are kept; the first two values of the Vertex List are x and y.
func ReadShotCoordinates(r io.Reader, name string) (*ScanFile, error) {
	reader := csv.NewReader(charmap.Windows1252.NewDecoder().Reader(r))
	reader.FieldsPerRecord = -1
	// Descriptions are free text and may carry stray quotes.
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	descCol, err := requireColumn(cols, ColumnDescription)
	if err != nil {
		return nil, err
	}
	typeCol, err := requireColumn(cols, ColumnScanType)
	if err != nil {
		return nil, err
	}
	vertexCol, err := requireColumn(cols, ColumnVertexList)
	if err != nil {
		return nil, err
	}

	scan := NewScanFile(name)
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", line, err)
		}
		if field(record, typeCol) != SpotScanType {
			continue
		}

		p, err := parseVertex(field(record, vertexCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		scan.Add(field(record, descCol), p)
	}

	return scan, nil
}

func requireColumn(cols map[string]int, name string) (int, error) {
	i, ok := cols[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	return i, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return record[i]
}

// parseVertex takes the first two comma-separated numbers of a vertex list.
func parseVertex(list string) (geometry.Point2D, error) {
	parts := strings.Split(list, ",")
	if len(parts) < 2 {
		return geometry.Point2D{}, fmt.Errorf("%w: %q", ErrMalformedVertex, list)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geometry.Point2D{}, fmt.Errorf("%w: %q", ErrMalformedVertex, list)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geometry.Point2D{}, fmt.Errorf("%w: %q", ErrMalformedVertex, list)
	}
	return geometry.Point2D{X: x, Y: y}, nil
}
