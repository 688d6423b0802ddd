// Package timing groups raw tracker rows into shots and measures how long each
// measurement took to arrive.
package timing

import (
	"sort"

	"github.com/okian/smtgolf/internal/domain/ingest"
	"github.com/okian/smtgolf/internal/domain/model"
)

// Result contains the completed shots of one upload.
type Result struct {
	// Shots in first-appearance order of their (golfer, hole, stroke) key.
	Shots []model.Shot
	// Discarded counts groups that never reported a total distance.
	Discarded int
}

// Aggregator turns raw rows into completed shots.
type Aggregator struct {
	sequentialGaps bool
}

// NewAggregator creates an aggregator with the given options.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type shotKey struct {
	golfer string
	hole   int
	stroke int
}

type timedRow struct {
	at  int64
	row model.RawRow
}

// Aggregate partitions rows by (golfer, hole, stroke) and emits one shot per
// partition whose final total distance is non-null.
func (a *Aggregator) Aggregate(rows []model.RawRow) Result {
	groups := make(map[shotKey][]timedRow)
	var order []shotKey
	for _, r := range rows {
		k := shotKey{golfer: r.Golfer, hole: r.HoleNumber, stroke: r.StrokeNumber}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], timedRow{at: ingest.ParseTimestamp(r.Timestamp), row: r})
	}

	var res Result
	for _, k := range order {
		shot, ok := a.buildShot(groups[k])
		if !ok {
			res.Discarded++
			continue
		}
		res.Shots = append(res.Shots, shot)
	}
	return res
}

func (a *Aggregator) buildShot(group []timedRow) (model.Shot, bool) {
	sort.SliceStable(group, func(i, j int) bool { return group[i].at < group[j].at })
	first := group[0]

	var (
		finals    finalValues
		latencies firstArrivals
	)
	for _, tr := range group {
		finals.observe(tr.row.Measurements)
		latencies.observe(tr.row.Measurements, tr.at-first.at)
	}
	if finals.values.TotalDistance == nil {
		return model.Shot{}, false
	}

	shot := model.Shot{
		Golfer:         first.row.Golfer,
		HoleNumber:     first.row.HoleNumber,
		StrokeNumber:   first.row.StrokeNumber,
		FirstTimestamp: first.row.Timestamp,
		Measurements:   finals.values,
		Latencies:      latencies.values,
	}
	if a.sequentialGaps {
		gaps := SequentialGaps(shot.Latencies)
		shot.Gaps = &gaps
	}
	return shot, true
}

// finalValues keeps the last non-null observation of every field.
type finalValues struct {
	values model.Measurements
}

func (f *finalValues) observe(m model.Measurements) {
	for _, field := range model.Fields() {
		if v := m.Get(field); v != nil {
			val := *v
			f.values.Set(field, &val)
		}
	}
}

// firstArrivals keeps the offset at which every field was first non-null.
type firstArrivals struct {
	values model.Latencies
}

func (f *firstArrivals) observe(m model.Measurements, offset int64) {
	for _, field := range model.Fields() {
		if m.Get(field) == nil || f.values.Get(field) != nil {
			continue
		}
		d := offset
		f.values.Set(field, &d)
	}
}

// SequentialGaps derives, for each field in expected arrival order, the time
// since the nearest earlier field that arrived. The first arrived field is
// measured from the start of the shot. Fields that never arrived stay nil.
func SequentialGaps(l model.Latencies) model.Gaps {
	var (
		gaps model.Gaps
		prev int64
	)
	for _, field := range model.Fields() {
		v := l.Get(field)
		if v == nil {
			continue
		}
		g := *v - prev
		gaps.Set(field, &g)
		prev = *v
	}
	return gaps
}
