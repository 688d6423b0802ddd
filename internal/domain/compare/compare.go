// Package compare diffs the tracking latency of two matches position by
// position.
//
// Shots are joined on (hole, stroke) regardless of who played them, so the
// comparison answers how quickly each slot was tracked in match B relative to
// match A.
package compare

import (
	"math"
	"sort"

	"github.com/okian/smtgolf/internal/domain/model"
	"github.com/okian/smtgolf/internal/domain/summary"
)

const millisPerSecond = 1000.0

// Comparator computes position-matched comparisons.
type Comparator struct {
	outlierFactor float64
	tieThreshold  float64
}

// NewComparator creates a comparator with the given options.
func NewComparator(opts ...Option) *Comparator {
	c := &Comparator{
		outlierFactor: defaultOutlierFactor,
		tieThreshold:  defaultTieThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compare joins the shots of a and b by position and reports per-field
// latency deltas (B minus A, seconds), outliers and an overall verdict.
// It never fails; missing data yields unmatched entries and nil deltas.
func (c *Comparator) Compare(a, b []model.GolferStats) model.Comparison {
	var cmp model.Comparison

	slotsA, dupA := index(summary.Flatten(a))
	slotsB, dupB := index(summary.Flatten(b))
	cmp.DuplicatePositions = dupA + dupB

	positions := union(slotsA, slotsB)
	cmp.Positions = make([]model.PositionComparison, 0, len(positions))
	for _, p := range positions {
		pc := model.PositionComparison{Position: p, MatchA: slotsA[p], MatchB: slotsB[p]}
		switch {
		case pc.MatchA != nil && pc.MatchB != nil:
			pc.Matched = true
			pc.Diffs = latencyDeltas(pc.MatchA.Latencies, pc.MatchB.Latencies)
			cmp.MatchedPositions++
		case pc.MatchA != nil:
			cmp.OnlyInA++
		default:
			cmp.OnlyInB++
		}
		cmp.Positions = append(cmp.Positions, pc)
	}

	cmp.MeanDelta, cmp.MeanAbsDelta = means(cmp.Positions)
	c.flagOutliers(&cmp)
	c.classify(&cmp)
	return cmp
}

// index maps every position to the first shot found there. Later shots at the
// same position are counted and ignored.
func index(shots []model.Shot) (map[model.Position]*model.Shot, int) {
	slots := make(map[model.Position]*model.Shot, len(shots))
	var dups int
	for i := range shots {
		p := shots[i].Position()
		if _, ok := slots[p]; ok {
			dups++
			continue
		}
		slots[p] = &shots[i]
	}
	return slots, dups
}

func union(a, b map[model.Position]*model.Shot) []model.Position {
	seen := make(map[model.Position]struct{}, len(a)+len(b))
	out := make([]model.Position, 0, len(a)+len(b))
	for _, m := range []map[model.Position]*model.Shot{a, b} {
		for p := range m {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func latencyDeltas(a, b model.Latencies) model.FieldDeltas {
	var d model.FieldDeltas
	for _, field := range model.Fields() {
		la, lb := a.Get(field), b.Get(field)
		if la == nil || lb == nil {
			continue
		}
		v := float64(*lb-*la) / millisPerSecond
		d.Set(field, &v)
	}
	return d
}

func means(positions []model.PositionComparison) (mean, meanAbs model.FieldDeltas) {
	for _, field := range model.Fields() {
		var sum, sumAbs float64
		var n int
		for _, pc := range positions {
			if !pc.Matched {
				continue
			}
			d := pc.Diffs.Get(field)
			if d == nil {
				continue
			}
			sum += *d
			sumAbs += math.Abs(*d)
			n++
		}
		if n == 0 {
			continue
		}
		m, ma := sum/float64(n), sumAbs/float64(n)
		mean.Set(field, &m)
		meanAbs.Set(field, &ma)
	}
	return mean, meanAbs
}

func (c *Comparator) flagOutliers(cmp *model.Comparison) {
	for i := range cmp.Positions {
		pc := &cmp.Positions[i]
		if !pc.Matched {
			continue
		}
		for _, field := range model.Fields() {
			d, ma := pc.Diffs.Get(field), cmp.MeanAbsDelta.Get(field)
			if d == nil || ma == nil {
				continue
			}
			if math.Abs(*d) > c.outlierFactor*(*ma) {
				pc.OutlierFields = append(pc.OutlierFields, field.String())
			}
		}
		if len(pc.OutlierFields) > 0 {
			pc.Outlier = true
			cmp.OutlierCount++
		}
	}
}

// classify sets the verdict from the mean total delta and buckets every
// matched position by its own total delta. A position without a total delta
// counts as tied.
func (c *Comparator) classify(cmp *model.Comparison) {
	cmp.Verdict = c.verdict(cmp.MeanDelta.TotalDistance)
	for _, pc := range cmp.Positions {
		if !pc.Matched {
			continue
		}
		switch c.verdict(pc.Diffs.TotalDistance) {
		case model.VerdictFaster:
			cmp.Faster++
		case model.VerdictSlower:
			cmp.Slower++
		default:
			cmp.Tied++
		}
	}
}

func (c *Comparator) verdict(d *float64) model.Verdict {
	switch {
	case d == nil:
		return model.VerdictNoDifference
	case *d < -c.tieThreshold:
		return model.VerdictFaster
	case *d > c.tieThreshold:
		return model.VerdictSlower
	default:
		return model.VerdictNoDifference
	}
}
