package ingest

import (
	"math"
	"strconv"
	"strings"

	"github.com/okian/smtgolf/internal/domain/model"
)

// Positional CSV columns.
const (
	colTimestamp = iota
	colGolfer
	colHole
	colStroke
	colFirstMeasurement
)

// Issue describes a measurement cell that held text which is not a number.
// The cell is treated as null.
type Issue struct {
	Line   int    `json:"line"`
	Column string `json:"column"`
	Value  string `json:"value"`
}

// ParseRow converts one CSV record into a RawRow. Missing leading columns
// default to "" or 0; empty measurement cells are null. Cells that do not
// parse as a finite number are also null and are returned as issues with a
// zero Line, which callers fill in.
func ParseRow(record []string) (model.RawRow, []Issue) {
	row := model.RawRow{
		Timestamp:    field(record, colTimestamp),
		Golfer:       field(record, colGolfer),
		HoleNumber:   int(leadingInt(field(record, colHole))),
		StrokeNumber: int(leadingInt(field(record, colStroke))),
	}

	var issues []Issue
	for i, f := range model.Fields() {
		raw := field(record, colFirstMeasurement+i)
		v, ok := parseMeasurement(raw)
		if !ok {
			issues = append(issues, Issue{Column: f.String(), Value: raw})
		}
		row.Set(f, v)
	}
	return row, issues
}

func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

// parseMeasurement returns nil for blank cells. ok is false when the cell has
// text that is not a finite number.
func parseMeasurement(raw string) (v *float64, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return &f, true
}
