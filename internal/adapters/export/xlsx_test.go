package export_test

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/okian/smtgolf/internal/adapters/export"
	"github.com/okian/smtgolf/internal/domain/compare"
	"github.com/okian/smtgolf/internal/domain/model"
	"github.com/okian/smtgolf/internal/domain/summary"
	. "github.com/smartystreets/goconvey/convey"
)

func f(v float64) *float64 { return &v }
func ms(v int64) *int64 { return &v }

func sampleStats() []model.GolferStats {
	return summary.Summarize([]model.Shot{
		{Golfer: "Ana", HoleNumber: 1, StrokeNumber: 1, FirstTimestamp: "10:00:00.000",
			Measurements: model.Measurements{BallSpeed: f(150), TotalDistance: f(250)},
			Latencies:    model.Latencies{TimeToBallSpeed: ms(100), TimeToTotal: ms(1200)}},
		{Golfer: "Ana", HoleNumber: 2, StrokeNumber: 1, FirstTimestamp: "10:05:00.000",
			Measurements: model.Measurements{TotalDistance: f(240)},
			Latencies:    model.Latencies{TimeToTotal: ms(1000)}},
		{Golfer: "Bo", HoleNumber: 1, StrokeNumber: 2, FirstTimestamp: "10:01:00.000",
			Measurements: model.Measurements{TotalDistance: f(230)},
			Latencies:    model.Latencies{TimeToTotal: ms(900)}},
	})
}

func TestWriteMatch(t *testing.T) {
	Convey("Given summarized stats", t, func() {
		var buf bytes.Buffer
		So(export.WriteMatch(&buf, "M1", sampleStats()), ShouldBeNil)

		book, err := excelize.OpenReader(&buf)
		So(err, ShouldBeNil)
		defer book.Close()

		Convey("Then the workbook has a summary and a shots sheet", func() {
			So(book.GetSheetList(), ShouldResemble, []string{export.SheetSummary, export.SheetShots})
		})

		Convey("Then the summary lists golfers and shot counts", func() {
			rows, err := book.GetRows(export.SheetSummary)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 3)
			So(rows[0][0], ShouldEqual, "Golfer")
			So(rows[1][0], ShouldEqual, "Ana")
			So(rows[1][1], ShouldEqual, "2")
			So(rows[2][0], ShouldEqual, "Bo")
			So(rows[2][1], ShouldEqual, "1")
		})

		Convey("Then every shot has a row and null values are blank", func() {
			rows, err := book.GetRows(export.SheetShots)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 4)
			So(rows[1][3], ShouldEqual, "10:00:00.000")
			So(rows[2][4], ShouldEqual, "")
			So(rows[1][15], ShouldEqual, "1200")
		})
	})
}

func TestWriteComparison(t *testing.T) {
	Convey("Given a comparison of a match with itself", t, func() {
		stats := sampleStats()
		cmp := compare.NewComparator().Compare(stats, stats)

		var buf bytes.Buffer
		So(export.WriteComparison(&buf, "M1", "M1", cmp), ShouldBeNil)

		book, err := excelize.OpenReader(&buf)
		So(err, ShouldBeNil)
		defer book.Close()

		Convey("Then every position is a row followed by the verdict", func() {
			rows, err := book.GetRows(export.SheetComparison)
			So(err, ShouldBeNil)
			So(rows[0][0], ShouldEqual, "Hole")
			So(rows[1][0], ShouldEqual, "1")
			So(rows[3][0], ShouldEqual, "2")

			var verdict string
			for _, r := range rows {
				if len(r) > 1 && r[0] == "Verdict" {
					verdict = r[1]
				}
			}
			So(verdict, ShouldEqual, string(model.VerdictNoDifference))
		})
	})
}
