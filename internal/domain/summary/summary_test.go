package summary_test

import (
	"strings"
	"testing"

	"github.com/okian/smtgolf/internal/domain/ingest"
	"github.com/okian/smtgolf/internal/domain/model"
	"github.com/okian/smtgolf/internal/domain/summary"
	"github.com/okian/smtgolf/internal/domain/timing"
	. "github.com/smartystreets/goconvey/convey"
)

func f(v float64) *float64 { return &v }
func ms(v int64) *int64 { return &v }

func TestSummarize(t *testing.T) {
	Convey("Given shots with a field missing on one of them", t, func() {
		shots := []model.Shot{
			{Golfer: "Ana", HoleNumber: 1, StrokeNumber: 1, Measurements: model.Measurements{Apex: f(10), TotalDistance: f(200)}, Latencies: model.Latencies{TimeToApex: ms(400), TimeToTotal: ms(1000)}},
			{Golfer: "Ana", HoleNumber: 1, StrokeNumber: 2, Measurements: model.Measurements{TotalDistance: f(260)}, Latencies: model.Latencies{TimeToTotal: ms(1500)}},
			{Golfer: "Ana", HoleNumber: 2, StrokeNumber: 1, Measurements: model.Measurements{Apex: f(20), TotalDistance: f(230)}, Latencies: model.Latencies{TimeToApex: ms(600), TimeToTotal: ms(2000)}},
		}

		Convey("When summarized", func() {
			stats := summary.Summarize(shots)

			Convey("Then the mean excludes nulls", func() {
				So(stats, ShouldHaveLength, 1)
				So(*stats[0].AvgApex, ShouldEqual, 15.0)
				So(*stats[0].AvgTotalDistance, ShouldAlmostEqual, 230.0)
			})

			Convey("And the maximum total distance is reported", func() {
				So(*stats[0].MaxTotalDistance, ShouldEqual, 260.0)
			})

			Convey("And latency means are in seconds", func() {
				So(*stats[0].AvgTimeToApex, ShouldAlmostEqual, 0.5)
				So(*stats[0].AvgTimeToTotal, ShouldAlmostEqual, 1.5)
				So(*stats[0].AverageLatency(model.FieldTotalDistance), ShouldAlmostEqual, 1.5)
			})

			Convey("And fields nobody measured have a null mean", func() {
				So(stats[0].AvgBallSpeed, ShouldBeNil)
				So(stats[0].AvgTimeToBallSpeed, ShouldBeNil)
			})

			Convey("And shots keep their order", func() {
				So(stats[0].ShotCount, ShouldEqual, 3)
				So(stats[0].Shots[1].StrokeNumber, ShouldEqual, 2)
			})
		})
	})

	Convey("Given golfers in arbitrary order", t, func() {
		shots := []model.Shot{
			{Golfer: "Zed", TotalDistance: f(1)},
			{Golfer: "bo", TotalDistance: f(1)},
			{Golfer: "Ana", TotalDistance: f(1)},
			{Golfer: "Zed", TotalDistance: f(2)},
		}
		stats := summary.Summarize(shots)

		Convey("Then golfers come back sorted by name", func() {
			So(stats, ShouldHaveLength, 3)
			So(stats[0].Golfer, ShouldEqual, "Ana")
			So(stats[1].Golfer, ShouldEqual, "bo")
			So(stats[2].Golfer, ShouldEqual, "Zed")
			So(stats[2].ShotCount, ShouldEqual, 2)
		})
	})

	Convey("Given no shots", t, func() {
		Convey("Then there are no golfers", func() {
			So(summary.Summarize(nil), ShouldBeEmpty)
		})
	})
}

func TestSummarizeUpload(t *testing.T) {
	Convey("Given an upload with two complete shots for Ana and an incomplete one for Bo", t, func() {
		csv := strings.Join([]string{
			"10:00:00.000,Ana,1,1,150,,,,,",
			"10:00:00.900,Ana,1,1,150,12,30,-2,240,255",
			"10:00:10.000,Bo,1,1,140,11,,,,",
			"10:00:11.000,Bo,1,1,140,11,28,1,230,",
			"10:01:00.000,Ana,2,1,155,13,31,0,250,262",
		}, "\n")

		read, err := ingest.ReadRows(strings.NewReader(csv))
		So(err, ShouldBeNil)
		res := timing.NewAggregator().Aggregate(read.Rows)
		stats := summary.Summarize(res.Shots)

		Convey("Then only Ana is summarized", func() {
			So(stats, ShouldHaveLength, 1)
			So(stats[0].Golfer, ShouldEqual, "Ana")
			So(stats[0].Shots, ShouldHaveLength, 2)
			So(res.Discarded, ShouldEqual, 1)
		})
	})
}

func TestFlatten(t *testing.T) {
	Convey("Given summarized golfers", t, func() {
		stats := []model.GolferStats{
			{Golfer: "Ana", Shots: []model.Shot{{Golfer: "Ana", HoleNumber: 1}, {Golfer: "Ana", HoleNumber: 2}}},
			{Golfer: "Bo", Shots: []model.Shot{{Golfer: "Bo", HoleNumber: 1}}},
		}

		Convey("Then flattening lists shots golfer by golfer", func() {
			shots := summary.Flatten(stats)
			So(shots, ShouldHaveLength, 3)
			So(shots[1].HoleNumber, ShouldEqual, 2)
			So(shots[2].Golfer, ShouldEqual, "Bo")
		})
	})
}
