package model

import "time"

// GolferStats summarizes the completed shots of one golfer. Latency means are
// in seconds.
type GolferStats struct {
	Golfer    string `json:"golfer"`
	ShotCount int    `json:"shotCount"`
	Shots     []Shot `json:"shots"`

	AvgBallSpeed     *float64 `json:"avgBallSpeed"`
	AvgLaunchAngle   *float64 `json:"avgLaunchAngle"`
	AvgApex          *float64 `json:"avgApex"`
	AvgCurve         *float64 `json:"avgCurve"`
	AvgCarryDistance *float64 `json:"avgCarryDistance"`
	AvgTotalDistance *float64 `json:"avgTotalDistance"`
	MaxTotalDistance *float64 `json:"maxTotalDistance"`

	AvgTimeToBallSpeed   *float64 `json:"avgTimeToBallSpeed"`
	AvgTimeToLaunchAngle *float64 `json:"avgTimeToLaunchAngle"`
	AvgTimeToApex        *float64 `json:"avgTimeToApex"`
	AvgTimeToCurve       *float64 `json:"avgTimeToCurve"`
	AvgTimeToCarry       *float64 `json:"avgTimeToCarry"`
	AvgTimeToTotal       *float64 `json:"avgTimeToTotal"`
}

// SetAverage assigns the mean measurement value of field f.
func (g *GolferStats) SetAverage(f Field, v *float64) {
	switch f {
	case FieldBallSpeed:
		g.AvgBallSpeed = v
	case FieldLaunchAngle:
		g.AvgLaunchAngle = v
	case FieldApex:
		g.AvgApex = v
	case FieldCurve:
		g.AvgCurve = v
	case FieldCarryDistance:
		g.AvgCarryDistance = v
	case FieldTotalDistance:
		g.AvgTotalDistance = v
	}
}

// SetAverageLatency assigns the mean latency in seconds of field f.
func (g *GolferStats) SetAverageLatency(f Field, v *float64) {
	switch f {
	case FieldBallSpeed:
		g.AvgTimeToBallSpeed = v
	case FieldLaunchAngle:
		g.AvgTimeToLaunchAngle = v
	case FieldApex:
		g.AvgTimeToApex = v
	case FieldCurve:
		g.AvgTimeToCurve = v
	case FieldCarryDistance:
		g.AvgTimeToCarry = v
	case FieldTotalDistance:
		g.AvgTimeToTotal = v
	}
}

// AverageLatency returns the mean latency in seconds of field f.
func (g GolferStats) AverageLatency(f Field) *float64 {
	switch f {
	case FieldBallSpeed:
		return g.AvgTimeToBallSpeed
	case FieldLaunchAngle:
		return g.AvgTimeToLaunchAngle
	case FieldApex:
		return g.AvgTimeToApex
	case FieldCurve:
		return g.AvgTimeToCurve
	case FieldCarryDistance:
		return g.AvgTimeToCarry
	case FieldTotalDistance:
		return g.AvgTimeToTotal
	}
	return nil
}

// Match is a named batch of shots uploaded together.
type Match struct {
	ID          int64     `json:"id"`
	MatchNumber string    `json:"match_number"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	ShotCount   int       `json:"shot_count"`
}
