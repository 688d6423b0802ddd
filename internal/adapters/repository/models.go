package repository

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/okian/smtgolf/internal/domain/model"
)

type matchRow struct {
	bun.BaseModel `bun:"table:matches,alias:m"`

	ID          int64     `bun:"id,pk,autoincrement"`
	MatchNumber string    `bun:"match_number,notnull,unique"`
	Description string    `bun:"description,notnull,default:''"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
}

func (r matchRow) toModel(shotCount int) model.Match {
	return model.Match{
		ID:          r.ID,
		MatchNumber: r.MatchNumber,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		ShotCount:   shotCount,
	}
}

// shotRow stores latencies in milliseconds.
type shotRow struct {
	bun.BaseModel `bun:"table:shots,alias:s"`

	ID             int64  `bun:"id,pk,autoincrement"`
	MatchID        int64  `bun:"match_id,notnull"`
	Golfer         string `bun:"golfer,notnull"`
	HoleNumber     int    `bun:"hole_number,notnull"`
	StrokeNumber   int    `bun:"stroke_number,notnull"`
	FirstTimestamp string `bun:"first_timestamp,notnull"`

	BallSpeed     *float64 `bun:"ball_speed"`
	LaunchAngle   *float64 `bun:"launch_angle"`
	Apex          *float64 `bun:"apex"`
	Curve         *float64 `bun:"curve"`
	CarryDistance *float64 `bun:"carry_distance"`
	TotalDistance *float64 `bun:"total_distance"`

	TimeToBallSpeed   *int64 `bun:"time_to_ball_speed"`
	TimeToLaunchAngle *int64 `bun:"time_to_launch_angle"`
	TimeToApex        *int64 `bun:"time_to_apex"`
	TimeToCurve       *int64 `bun:"time_to_curve"`
	TimeToCarry       *int64 `bun:"time_to_carry"`
	TimeToTotal       *int64 `bun:"time_to_total"`
}

// matchSummary is the row shape of the match listing query.
type matchSummary struct {
	ID          int64     `bun:"id"`
	MatchNumber string    `bun:"match_number"`
	Description string    `bun:"description"`
	CreatedAt   time.Time `bun:"created_at"`
	ShotCount   int       `bun:"shot_count"`
}

func newShotRow(matchID int64, s model.Shot) shotRow {
	return shotRow{
		MatchID:           matchID,
		Golfer:            s.Golfer,
		HoleNumber:        s.HoleNumber,
		StrokeNumber:      s.StrokeNumber,
		FirstTimestamp:    s.FirstTimestamp,
		BallSpeed:         s.BallSpeed,
		LaunchAngle:       s.LaunchAngle,
		Apex:              s.Apex,
		Curve:             s.Curve,
		CarryDistance:     s.CarryDistance,
		TotalDistance:     s.TotalDistance,
		TimeToBallSpeed:   s.TimeToBallSpeed,
		TimeToLaunchAngle: s.TimeToLaunchAngle,
		TimeToApex:        s.TimeToApex,
		TimeToCurve:       s.TimeToCurve,
		TimeToCarry:       s.TimeToCarry,
		TimeToTotal:       s.TimeToTotal,
	}
}

func (r shotRow) toModel() model.Shot {
	return model.Shot{
		Golfer:         r.Golfer,
		HoleNumber:     r.HoleNumber,
		StrokeNumber:   r.StrokeNumber,
		FirstTimestamp: r.FirstTimestamp,
		Measurements: model.Measurements{
			BallSpeed:     r.BallSpeed,
			LaunchAngle:   r.LaunchAngle,
			Apex:          r.Apex,
			Curve:         r.Curve,
			CarryDistance: r.CarryDistance,
			TotalDistance: r.TotalDistance,
		},
		Latencies: model.Latencies{
			TimeToBallSpeed:   r.TimeToBallSpeed,
			TimeToLaunchAngle: r.TimeToLaunchAngle,
			TimeToApex:        r.TimeToApex,
			TimeToCurve:       r.TimeToCurve,
			TimeToCarry:       r.TimeToCarry,
			TimeToTotal:       r.TimeToTotal,
		},
	}
}
