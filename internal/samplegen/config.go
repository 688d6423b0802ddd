// Package samplegen produces synthetic launch-monitor CSV exports and can
// push them to a running service.
package samplegen

import "time"

// Config holds the shape of a generated export.
type Config struct {
	Seed           int64         // Equal seeds give equal shots; 0 picks a random seed
	Golfers        int           // Number of golfers
	Holes          int           // Holes played by every golfer
	MaxStrokes     int           // Strokes per hole are drawn from 1..MaxStrokes
	Start          time.Duration // Time of day of the first observation
	LatencyScale   float64       // Multiplies every field arrival offset
	IncompleteRate float64       // Fraction of shots that never report total distance
	NoiseRate      float64       // Fraction of measurement cells replaced by "N/A"
}

// DefaultConfig returns a small export: four golfers over nine holes.
func DefaultConfig() Config {
	return Config{
		Seed:         1,
		Golfers:      4,
		Holes:        9,
		MaxStrokes:   4,
		Start:        9 * time.Hour,
		LatencyScale: 1,
	}
}

// Observation is one sensor row. Measurements hold the values known when the
// row was emitted; nil cells are written empty.
type Observation struct {
	At           time.Duration
	Golfer       string
	HoleNumber   int
	StrokeNumber int
	Values       [6]*float64
	Noisy        [6]bool
}
