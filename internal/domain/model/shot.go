// Package model contains domain models passed between layers.
package model

// Field identifies one of the six tracked measurements. Constants are declared
// in the order the tracker is expected to deliver them.
type Field int

// Measurement fields in expected arrival order.
const (
	FieldBallSpeed Field = iota
	FieldLaunchAngle
	FieldApex
	FieldCurve
	FieldCarryDistance
	FieldTotalDistance
)

// FieldCount is the number of tracked measurement fields.
const FieldCount = 6

var fieldNames = [FieldCount]string{
	"ballSpeed",
	"launchAngle",
	"apex",
	"curve",
	"carryDistance",
	"totalDistance",
}

// String returns the JSON name of the field.
func (f Field) String() string {
	if f < 0 || int(f) >= FieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

// Fields returns all measurement fields in expected arrival order.
func Fields() []Field {
	return []Field{
		FieldBallSpeed,
		FieldLaunchAngle,
		FieldApex,
		FieldCurve,
		FieldCarryDistance,
		FieldTotalDistance,
	}
}

// Measurements holds the six nullable measurement values. A nil value means
// "not measured", which is distinct from a measured zero.
type Measurements struct {
	BallSpeed     *float64 `json:"ballSpeed"`
	LaunchAngle   *float64 `json:"launchAngle"`
	Apex          *float64 `json:"apex"`
	Curve         *float64 `json:"curve"`
	CarryDistance *float64 `json:"carryDistance"`
	TotalDistance *float64 `json:"totalDistance"`
}

// Get returns the value of field f.
func (m Measurements) Get(f Field) *float64 {
	switch f {
	case FieldBallSpeed:
		return m.BallSpeed
	case FieldLaunchAngle:
		return m.LaunchAngle
	case FieldApex:
		return m.Apex
	case FieldCurve:
		return m.Curve
	case FieldCarryDistance:
		return m.CarryDistance
	case FieldTotalDistance:
		return m.TotalDistance
	}
	return nil
}

// Set assigns the value of field f.
func (m *Measurements) Set(f Field, v *float64) {
	switch f {
	case FieldBallSpeed:
		m.BallSpeed = v
	case FieldLaunchAngle:
		m.LaunchAngle = v
	case FieldApex:
		m.Apex = v
	case FieldCurve:
		m.Curve = v
	case FieldCarryDistance:
		m.CarryDistance = v
	case FieldTotalDistance:
		m.TotalDistance = v
	}
}

// RawRow is one sensor observation from a tracker CSV export.
type RawRow struct {
	Timestamp    string `json:"timestamp"`
	Golfer       string `json:"golfer"`
	HoleNumber   int    `json:"holeNumber"`
	StrokeNumber int    `json:"strokeNumber"`
	Measurements
}

// Latencies holds, per field, the milliseconds from a shot's first row to the
// row where that field first became non-null.
type Latencies struct {
	TimeToBallSpeed   *int64 `json:"timeToBallSpeed"`
	TimeToLaunchAngle *int64 `json:"timeToLaunchAngle"`
	TimeToApex        *int64 `json:"timeToApex"`
	TimeToCurve       *int64 `json:"timeToCurve"`
	TimeToCarry       *int64 `json:"timeToCarry"`
	TimeToTotal       *int64 `json:"timeToTotal"`
}

// Get returns the latency of field f.
func (l Latencies) Get(f Field) *int64 {
	switch f {
	case FieldBallSpeed:
		return l.TimeToBallSpeed
	case FieldLaunchAngle:
		return l.TimeToLaunchAngle
	case FieldApex:
		return l.TimeToApex
	case FieldCurve:
		return l.TimeToCurve
	case FieldCarryDistance:
		return l.TimeToCarry
	case FieldTotalDistance:
		return l.TimeToTotal
	}
	return nil
}

// Set assigns the latency of field f.
func (l *Latencies) Set(f Field, v *int64) {
	switch f {
	case FieldBallSpeed:
		l.TimeToBallSpeed = v
	case FieldLaunchAngle:
		l.TimeToLaunchAngle = v
	case FieldApex:
		l.TimeToApex = v
	case FieldCurve:
		l.TimeToCurve = v
	case FieldCarryDistance:
		l.TimeToCarry = v
	case FieldTotalDistance:
		l.TimeToTotal = v
	}
}

// Gaps holds, per field, the milliseconds between the previously arrived field
// and this one.
type Gaps struct {
	GapToBallSpeed   *int64 `json:"gapToBallSpeed"`
	GapToLaunchAngle *int64 `json:"gapToLaunchAngle"`
	GapToApex        *int64 `json:"gapToApex"`
	GapToCurve       *int64 `json:"gapToCurve"`
	GapToCarry       *int64 `json:"gapToCarry"`
	GapToTotal       *int64 `json:"gapToTotal"`
}

// Get returns the gap of field f.
func (g Gaps) Get(f Field) *int64 {
	switch f {
	case FieldBallSpeed:
		return g.GapToBallSpeed
	case FieldLaunchAngle:
		return g.GapToLaunchAngle
	case FieldApex:
		return g.GapToApex
	case FieldCurve:
		return g.GapToCurve
	case FieldCarryDistance:
		return g.GapToCarry
	case FieldTotalDistance:
		return g.GapToTotal
	}
	return nil
}

// Set assigns the gap of field f.
func (g *Gaps) Set(f Field, v *int64) {
	switch f {
	case FieldBallSpeed:
		g.GapToBallSpeed = v
	case FieldLaunchAngle:
		g.GapToLaunchAngle = v
	case FieldApex:
		g.GapToApex = v
	case FieldCurve:
		g.GapToCurve = v
	case FieldCarryDistance:
		g.GapToCarry = v
	case FieldTotalDistance:
		g.GapToTotal = v
	}
}

// Position is the (hole, stroke) slot used to join shots across matches.
type Position struct {
	HoleNumber   int `json:"holeNumber"`
	StrokeNumber int `json:"strokeNumber"`
}

// Less orders positions by hole, then stroke.
func (p Position) Less(o Position) bool {
	if p.HoleNumber != o.HoleNumber {
		return p.HoleNumber < o.HoleNumber
	}
	return p.StrokeNumber < o.StrokeNumber
}

// Shot is one completed swing: final values plus arrival latencies.
type Shot struct {
	Golfer         string `json:"golfer"`
	HoleNumber     int    `json:"holeNumber"`
	StrokeNumber   int    `json:"strokeNumber"`
	FirstTimestamp string `json:"firstTimestamp"`
	Measurements
	Latencies
	Gaps *Gaps `json:"gaps,omitempty"`
}

// Position returns the shot's comparison slot.
func (s Shot) Position() Position {
	return Position{HoleNumber: s.HoleNumber, StrokeNumber: s.StrokeNumber}
}
