// Package export renders match statistics and comparisons as XLSX workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/okian/smtgolf/internal/domain/model"
)

// Sheet names.
const (
	SheetSummary    = "Summary"
	SheetShots      = "Shots"
	SheetComparison = "Comparison"
)

const defaultSheet = "Sheet1"

var summaryHeader = []any{
	"Golfer", "Shots",
	"Avg Ball Speed", "Avg Launch Angle", "Avg Apex", "Avg Curve", "Avg Carry", "Avg Total", "Max Total",
	"Avg Time To Ball Speed (s)", "Avg Time To Launch Angle (s)", "Avg Time To Apex (s)",
	"Avg Time To Curve (s)", "Avg Time To Carry (s)", "Avg Time To Total (s)",
}

var shotsHeader = []any{
	"Golfer", "Hole", "Stroke", "First Timestamp",
	"Ball Speed", "Launch Angle", "Apex", "Curve", "Carry", "Total",
	"Time To Ball Speed (ms)", "Time To Launch Angle (ms)", "Time To Apex (ms)",
	"Time To Curve (ms)", "Time To Carry (ms)", "Time To Total (ms)",
}

// WriteMatch writes a workbook with a per-golfer Summary sheet and a Shots
// sheet listing every shot.
func WriteMatch(w io.Writer, matchNumber string, stats []model.GolferStats) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheet, SheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetShots); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{Title: "Match " + matchNumber}); err != nil {
		return fmt.Errorf("set properties: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	summary := [][]any{summaryHeader}
	shots := [][]any{shotsHeader}
	for _, g := range stats {
		row := []any{g.Golfer, g.ShotCount,
			num(g.AvgBallSpeed), num(g.AvgLaunchAngle), num(g.AvgApex), num(g.AvgCurve),
			num(g.AvgCarryDistance), num(g.AvgTotalDistance), num(g.MaxTotalDistance)}
		for _, field := range model.Fields() {
			row = append(row, num(g.AverageLatency(field)))
		}
		summary = append(summary, row)

		for _, s := range g.Shots {
			shots = append(shots, shotRow(s))
		}
	}

	if err := writeRows(f, SheetSummary, summary, bold); err != nil {
		return err
	}
	if err := writeRows(f, SheetShots, shots, bold); err != nil {
		return err
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteComparison writes a single-sheet workbook with one row per position
// followed by the aggregate deltas and verdict.
func WriteComparison(w io.Writer, matchA, matchB string, cmp model.Comparison) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheet, SheetComparison); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	header := []any{"Hole", "Stroke", "Golfer " + matchA, "Golfer " + matchB, "Matched", "Outlier"}
	for _, field := range model.Fields() {
		header = append(header, "Δ "+field.String()+" (s)")
	}
	rows := [][]any{header}
	for _, pc := range cmp.Positions {
		row := []any{pc.HoleNumber, pc.StrokeNumber, golfer(pc.MatchA), golfer(pc.MatchB), pc.Matched, pc.Outlier}
		for _, field := range model.Fields() {
			row = append(row, num(pc.Diffs.Get(field)))
		}
		rows = append(rows, row)
	}

	rows = append(rows, []any{})
	mean := []any{"Mean Δ", "", "", "", "", ""}
	meanAbs := []any{"Mean |Δ|", "", "", "", "", ""}
	for _, field := range model.Fields() {
		mean = append(mean, num(cmp.MeanDelta.Get(field)))
		meanAbs = append(meanAbs, num(cmp.MeanAbsDelta.Get(field)))
	}
	rows = append(rows, mean, meanAbs,
		[]any{"Verdict", string(cmp.Verdict)},
		[]any{"Faster", cmp.Faster, "Slower", cmp.Slower, "Tied", cmp.Tied},
		[]any{"Outliers", cmp.OutlierCount},
	)

	if err := writeRows(f, SheetComparison, rows, bold); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func shotRow(s model.Shot) []any {
	row := []any{s.Golfer, s.HoleNumber, s.StrokeNumber, s.FirstTimestamp}
	for _, field := range model.Fields() {
		row = append(row, num(s.Measurements.Get(field)))
	}
	for _, field := range model.Fields() {
		row = append(row, millis(s.Latencies.Get(field)))
	}
	return row
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", end, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	return nil
}

// num leaves null values as empty cells.
func num(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func millis(v *int64) any {
	if v == nil {
		return ""
	}
	return *v
}

func golfer(s *model.Shot) string {
	if s == nil {
		return ""
	}
	return s.Golfer
}
