package model_test

import (
	"encoding/json"
	"testing"

	model "github.com/okian/smtgolf/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func TestField(t *testing.T) {
	convey.Convey("Given the measurement fields", t, func() {
		convey.Convey("Then they are listed in expected arrival order", func() {
			names := make([]string, 0, model.FieldCount)
			for _, f := range model.Fields() {
				names = append(names, f.String())
			}
			convey.So(names, convey.ShouldResemble, []string{
				"ballSpeed", "launchAngle", "apex", "curve", "carryDistance", "totalDistance",
			})
		})

		convey.Convey("And an out-of-range field has an unknown name", func() {
			convey.So(model.Field(42).String(), convey.ShouldEqual, "unknown")
			convey.So(model.Field(-1).String(), convey.ShouldEqual, "unknown")
		})
	})
}

func TestFieldAccessors(t *testing.T) {
	convey.Convey("Given empty per-field containers", t, func() {
		var m model.Measurements
		var l model.Latencies
		var g model.Gaps
		var d model.FieldDeltas

		convey.Convey("When every field is set to a distinct value", func() {
			for i, f := range model.Fields() {
				m.Set(f, f64(float64(i)+0.5))
				l.Set(f, i64(int64(i)*100))
				g.Set(f, i64(int64(i)*10))
				d.Set(f, f64(float64(i)*-1))
			}

			convey.Convey("Then each field reads back its own value", func() {
				for i, f := range model.Fields() {
					convey.So(*m.Get(f), convey.ShouldEqual, float64(i)+0.5)
					convey.So(*l.Get(f), convey.ShouldEqual, int64(i)*100)
					convey.So(*g.Get(f), convey.ShouldEqual, int64(i)*10)
					convey.So(*d.Get(f), convey.ShouldEqual, float64(i)*-1)
				}
			})
		})

		convey.Convey("Then unset fields read back as nil", func() {
			for _, f := range model.Fields() {
				convey.So(m.Get(f), convey.ShouldBeNil)
				convey.So(l.Get(f), convey.ShouldBeNil)
			}
		})
	})
}

func TestPosition(t *testing.T) {
	convey.Convey("Given shot positions", t, func() {
		a := model.Position{HoleNumber: 1, StrokeNumber: 3}
		b := model.Position{HoleNumber: 2, StrokeNumber: 1}
		c := model.Position{HoleNumber: 2, StrokeNumber: 2}

		convey.Convey("Then they order by hole before stroke", func() {
			convey.So(a.Less(b), convey.ShouldBeTrue)
			convey.So(b.Less(c), convey.ShouldBeTrue)
			convey.So(c.Less(a), convey.ShouldBeFalse)
			convey.So(a.Less(a), convey.ShouldBeFalse)
		})

		convey.Convey("And a shot reports its own position", func() {
			s := model.Shot{Golfer: "Ana", HoleNumber: 2, StrokeNumber: 1}
			convey.So(s.Position(), convey.ShouldResemble, b)
		})
	})
}

func TestShotJSON(t *testing.T) {
	convey.Convey("Given a shot with some missing measurements", t, func() {
		s := model.Shot{Golfer: "Ana", HoleNumber: 1, StrokeNumber: 1, FirstTimestamp: "10:00:00.000"}
		s.TotalDistance = f64(250)
		s.TimeToTotal = i64(1200)

		convey.Convey("When encoded as JSON", func() {
			raw, err := json.Marshal(s)
			convey.So(err, convey.ShouldBeNil)

			var out map[string]any
			convey.So(json.Unmarshal(raw, &out), convey.ShouldBeNil)

			convey.Convey("Then fields are flattened and nulls are explicit", func() {
				convey.So(out["golfer"], convey.ShouldEqual, "Ana")
				convey.So(out["totalDistance"], convey.ShouldEqual, 250.0)
				convey.So(out["timeToTotal"], convey.ShouldEqual, 1200.0)
				convey.So(out, convey.ShouldContainKey, "ballSpeed")
				convey.So(out["ballSpeed"], convey.ShouldBeNil)
				convey.So(out, convey.ShouldNotContainKey, "gaps")
			})
		})
	})
}
