package samplegen

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Field arrival windows in milliseconds after the first observation, in
// column order. Ball speed arrives with the first row.
var arrivalWindows = [6][2]int{
	{0, 0},
	{60, 250},
	{300, 700},
	{500, 900},
	{800, 1300},
	{1100, 1800},
}

// Gap between consecutive shots, in seconds.
const (
	minShotGap = 20
	maxShotGap = 90
)

// Generator builds fake exports from a seeded faker.
type Generator struct {
	cfg   Config
	faker *gofakeit.Faker
}

// New creates a generator. Zero-valued fields of cfg take DefaultConfig values.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.Golfers <= 0 {
		cfg.Golfers = def.Golfers
	}
	if cfg.Holes <= 0 {
		cfg.Holes = def.Holes
	}
	if cfg.MaxStrokes <= 0 {
		cfg.MaxStrokes = def.MaxStrokes
	}
	if cfg.LatencyScale <= 0 {
		cfg.LatencyScale = def.LatencyScale
	}
	if cfg.Start <= 0 {
		cfg.Start = def.Start
	}
	return &Generator{cfg: cfg, faker: gofakeit.New(uint64(cfg.Seed))}
}

// Generate returns the observations of one match in time order.
func (g *Generator) Generate() []Observation {
	golfers := g.golferNames()
	var out []Observation
	clock := g.cfg.Start

	for hole := 1; hole <= g.cfg.Holes; hole++ {
		for _, golfer := range golfers {
			strokes := g.faker.Number(1, g.cfg.MaxStrokes)
			for stroke := 1; stroke <= strokes; stroke++ {
				out = append(out, g.shot(clock, golfer, hole, stroke)...)
				clock += time.Duration(g.faker.Number(minShotGap, maxShotGap)) * time.Second
			}
		}
	}
	return out
}

// golferNames returns unique first names.
func (g *Generator) golferNames() []string {
	seen := make(map[string]int, g.cfg.Golfers)
	names := make([]string, 0, g.cfg.Golfers)
	for len(names) < g.cfg.Golfers {
		name := g.faker.FirstName()
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s %d", name, n)
		}
		names = append(names, name)
	}
	return names
}

// shot emits one observation per distinct field arrival time. Every draw is
// made regardless of the rates so equal seeds keep producing equal shots.
func (g *Generator) shot(start time.Duration, golfer string, hole, stroke int) []Observation {
	values := [6]float64{
		round1(g.faker.Float64Range(110, 180)),
		round1(g.faker.Float64Range(8, 20)),
		round1(g.faker.Float64Range(15, 45)),
		round1(g.faker.Float64Range(-15, 15)),
		round1(g.faker.Float64Range(150, 290)),
		0,
	}
	values[5] = round1(values[4] + g.faker.Float64Range(3, 30))

	var arrivals [6]time.Duration
	for i, w := range arrivalWindows {
		ms := float64(g.faker.Number(w[0], w[1])) * g.cfg.LatencyScale
		arrivals[i] = time.Duration(ms) * time.Millisecond
	}
	incomplete := g.faker.Float64() < g.cfg.IncompleteRate
	var noisy [6]bool
	for i := range noisy {
		noisy[i] = g.faker.Float64() < g.cfg.NoiseRate
	}

	n := len(values)
	if incomplete {
		n--
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return cmp.Compare(arrivals[a], arrivals[b]) })

	var obs []Observation
	var known [6]*float64
	for k, i := range order {
		v := values[i]
		known[i] = &v
		if k+1 < n && arrivals[order[k+1]] == arrivals[i] {
			continue
		}
		o := Observation{
			At:           start + arrivals[i],
			Golfer:       golfer,
			HoleNumber:   hole,
			StrokeNumber: stroke,
			Values:       known,
		}
		// Noise only on the final row; earlier rows keep the real values.
		if k == n-1 {
			o.Noisy = noisy
			o.Noisy[5] = false
		}
		obs = append(obs, o)
	}
	return obs
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// WriteCSV writes observations as a header-less tracker export.
func WriteCSV(w io.Writer, obs []Observation) error {
	cw := csv.NewWriter(w)
	record := make([]string, 10)
	for _, o := range obs {
		record[0] = FormatClock(o.At)
		record[1] = o.Golfer
		record[2] = strconv.Itoa(o.HoleNumber)
		record[3] = strconv.Itoa(o.StrokeNumber)
		for i, v := range o.Values {
			switch {
			case o.Noisy[i]:
				record[4+i] = "N/A"
			case v == nil:
				record[4+i] = ""
			default:
				record[4+i] = strconv.FormatFloat(*v, 'f', -1, 64)
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// FormatClock renders a time of day as HH:MM:SS.mmm.
func FormatClock(d time.Duration) string {
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d.%03d", ms/3_600_000, ms/60_000%60, ms/1000%60, ms%1000)
}
