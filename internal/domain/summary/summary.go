// Package summary rolls completed shots up into per-golfer statistics.
package summary

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/okian/smtgolf/internal/domain/model"
)

const millisPerSecond = 1000.0

// Summarize groups shots by golfer and computes means over non-null values,
// the maximum total distance and mean latencies in seconds. Golfers are sorted
// by name using English collation; shots keep their input order.
func Summarize(shots []model.Shot) []model.GolferStats {
	byGolfer := make(map[string][]model.Shot)
	var names []string
	for _, s := range shots {
		if _, ok := byGolfer[s.Golfer]; !ok {
			names = append(names, s.Golfer)
		}
		byGolfer[s.Golfer] = append(byGolfer[s.Golfer], s)
	}

	sortNames(names)

	stats := make([]model.GolferStats, 0, len(names))
	for _, name := range names {
		stats = append(stats, summarizeGolfer(name, byGolfer[name]))
	}
	return stats
}

// Flatten returns every shot of every golfer, golfer by golfer.
func Flatten(stats []model.GolferStats) []model.Shot {
	var n int
	for _, g := range stats {
		n += len(g.Shots)
	}
	shots := make([]model.Shot, 0, n)
	for _, g := range stats {
		shots = append(shots, g.Shots...)
	}
	return shots
}

func sortNames(names []string) {
	c := collate.New(language.English)
	sort.SliceStable(names, func(i, j int) bool {
		if r := c.CompareString(names[i], names[j]); r != 0 {
			return r < 0
		}
		return names[i] < names[j]
	})
}

func summarizeGolfer(name string, shots []model.Shot) model.GolferStats {
	g := model.GolferStats{
		Golfer:    name,
		ShotCount: len(shots),
		Shots:     shots,
	}

	for _, field := range model.Fields() {
		var values, latencies mean
		for _, s := range shots {
			if v := s.Measurements.Get(field); v != nil {
				values.add(*v)
			}
			if l := s.Latencies.Get(field); l != nil {
				latencies.add(float64(*l) / millisPerSecond)
			}
		}
		g.SetAverage(field, values.value())
		g.SetAverageLatency(field, latencies.value())
	}

	for _, s := range shots {
		if s.TotalDistance == nil {
			continue
		}
		if g.MaxTotalDistance == nil || *s.TotalDistance > *g.MaxTotalDistance {
			v := *s.TotalDistance
			g.MaxTotalDistance = &v
		}
	}
	return g
}

// mean accumulates a running arithmetic mean. value is nil until a sample is
// added.
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.n++
}

func (m mean) value() *float64 {
	if m.n == 0 {
		return nil
	}
	v := m.sum / float64(m.n)
	return &v
}
