package mosaic

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// InfoHeader is the fixed column order of a mosaic info table.
var InfoHeader = []string{"Sample", "Scanlist", "Mosaic", "Max_zircon_size", "X_offset", "Y_offset"}

// InfoDefaults are the values written into every generated info record.
type InfoDefaults struct {
	Sample        string
	MaxZirconSize float64 // µm
	XOffset       float64 // µm
	YOffset       float64 // µm
}

// DefaultInfoDefaults returns the standard record defaults.
func DefaultInfoDefaults() InfoDefaults {
	return InfoDefaults{MaxZirconSize: 500}
}

// InfoRecord is one row of a mosaic info table.
type InfoRecord struct {
	Sample        string
	Scanlist      string
	Mosaic        string
	MaxZirconSize float64
	XOffset       float64
	YOffset       float64
}

// Row returns the record's values in InfoHeader order.
func (r InfoRecord) Row() []string {
	return []string{
		r.Sample,
		r.Scanlist,
		r.Mosaic,
		formatNumber(r.MaxZirconSize),
		formatNumber(r.XOffset),
		formatNumber(r.YOffset),
	}
}

// Reduction is the output of ReduceToInfoRecords.
type Reduction struct {
	// Records has one row per matched scanlist. Mosaic is the first
	// candidate and needs to be verified by a person.
	Records []InfoRecord
	// Matches is the input table without unmatched scanlists.
	Matches *MatchTable
	// Unmatched lists scanlists with no candidates.
	Unmatched []string
}

// ReduceToInfoRecords drops scanlists without candidates and emits one info
// record per remaining scanlist using its first candidate mosaic.
func ReduceToInfoRecords(table *MatchTable, defaults InfoDefaults) Reduction {
	red := Reduction{Matches: NewMatchTable()}
	for _, scan := range table.Scans() {
		candidates := table.Candidates(scan)
		if len(candidates) == 0 {
			red.Unmatched = append(red.Unmatched, scan)
			continue
		}
		red.Matches.Add(scan, candidates...)
		red.Records = append(red.Records, InfoRecord{
			Sample:        defaults.Sample,
			Scanlist:      scan,
			Mosaic:        candidates[0],
			MaxZirconSize: defaults.MaxZirconSize,
			XOffset:       defaults.XOffset,
			YOffset:       defaults.YOffset,
		})
	}
	return red
}

// WriteInfoCSV writes records as a mosaic info CSV with the InfoHeader columns.
func WriteInfoCSV(w io.Writer, records []InfoRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(InfoHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.Row()); err != nil {
			return fmt.Errorf("failed to write record for %s: %w", r.Scanlist, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
