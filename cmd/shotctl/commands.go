package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/okian/smtgolf/internal/adapters/repository"
	service "github.com/okian/smtgolf/internal/app"
	"github.com/okian/smtgolf/internal/domain/model"
	"github.com/okian/smtgolf/internal/samplegen"
)

var errUsage = errors.New("usage")

// openInput opens a CSV path, or stdin for "-".
func openInput(path string) (io.ReadCloser, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: a CSV file argument is required", errUsage)
	}
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

var jsonFlag = &cli.BoolFlag{Name: "json", Usage: "print the full result as JSON"}

func analyzeCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "summarize a CSV export without storing it",
		ArgsUsage: "FILE",
		Flags:     []cli.Flag{jsonFlag},
		Action: func(c *cli.Context) error {
			in, err := openInput(c.Args().First())
			if err != nil {
				return err
			}
			defer in.Close()

			res, err := e.service().Analyze(c.Context, in)
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return e.printJSON(res)
			}
			fmt.Fprintf(e.out, "rows %d, shots %d, discarded %d, warnings %d\n",
				res.TotalRows, res.CompletedShots, res.DiscardedShots, res.Warnings)
			return e.printStats(res.Stats)
		},
	}
}

func uploadCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "store a CSV export under a match number",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "match", Aliases: []string{"m"}, Required: true, Usage: "match number"},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "match description"},
		},
		Action: func(c *cli.Context) error {
			in, err := openInput(c.Args().First())
			if err != nil {
				return err
			}
			defer in.Close()

			return e.withStore(c.Context, func(svc *service.Service) error {
				res, err := svc.Upload(c.Context, c.String("match"), c.String("description"), in)
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "stored match %s: %d shots from %d rows (%d discarded)\n",
					res.MatchNumber, res.CompletedShots, res.TotalRows, res.DiscardedShots)
				return nil
			})
		},
	}
}

func matchesCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "matches",
		Usage: "list stored matches, newest first",
		Flags: []cli.Flag{jsonFlag},
		Action: func(c *cli.Context) error {
			return e.withStore(c.Context, func(svc *service.Service) error {
				matches, err := svc.ListMatches(c.Context)
				if err != nil {
					return err
				}
				if c.Bool("json") {
					return e.printJSON(matches)
				}
				tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "MATCH\tSHOTS\tCREATED\tDESCRIPTION")
				for _, m := range matches {
					fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", m.MatchNumber, m.ShotCount, m.CreatedAt.Format(time.DateTime), m.Description)
				}
				return tw.Flush()
			})
		},
	}
}

func deleteCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "delete a stored match and its shots",
		ArgsUsage: "MATCH",
		Action: func(c *cli.Context) error {
			return e.withStore(c.Context, func(svc *service.Service) error {
				if err := svc.DeleteMatch(c.Context, c.Args().First()); err != nil {
					return err
				}
				fmt.Fprintf(e.out, "deleted match %s\n", c.Args().First())
				return nil
			})
		},
	}
}

func compareCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "compare the tracking latency of two stored matches (B minus A)",
		ArgsUsage: "MATCH_A MATCH_B",
		Flags: []cli.Flag{
			jsonFlag,
			&cli.Float64Flag{Name: "outlier-factor", Usage: "flag deltas above this multiple of the mean absolute delta"},
			&cli.Float64Flag{Name: "tie-threshold", Usage: "dead zone in seconds for the verdict"},
		},
		Action: func(c *cli.Context) error {
			if c.IsSet("outlier-factor") {
				e.cfg.OutlierFactor = c.Float64("outlier-factor")
			}
			if c.IsSet("tie-threshold") {
				e.cfg.TieThresholdSeconds = c.Float64("tie-threshold")
			}
			return e.withStore(c.Context, func(svc *service.Service) error {
				res, err := svc.Compare(c.Context, c.Args().Get(0), c.Args().Get(1))
				if err != nil {
					return err
				}
				if c.Bool("json") {
					return e.printJSON(res)
				}
				return e.printComparison(res)
			})
		},
	}
}

func exportCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "write a match workbook, or a comparison workbook with --against",
		ArgsUsage: "MATCH",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output path (default MATCH.xlsx)"},
			&cli.StringFlag{Name: "against", Usage: "second match number for a comparison workbook"},
		},
		Action: func(c *cli.Context) error {
			matchNumber := c.Args().First()
			if matchNumber == "" {
				return fmt.Errorf("%w: a match number is required", errUsage)
			}
			out := c.String("out")
			if out == "" {
				out = matchNumber + ".xlsx"
				if b := c.String("against"); b != "" {
					out = fmt.Sprintf("%s-vs-%s.xlsx", matchNumber, b)
				}
			}

			var buf bytes.Buffer
			err := e.withStore(c.Context, func(svc *service.Service) error {
				if b := c.String("against"); b != "" {
					return svc.ExportComparison(c.Context, matchNumber, b, &buf)
				}
				return svc.ExportMatch(c.Context, matchNumber, &buf)
			})
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o600); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(e.out, "wrote %s\n", out)
			return nil
		},
	}
}

func generateCommand(e *env) *cli.Command {
	def := samplegen.DefaultConfig()
	return &cli.Command{
		Name:  "generate",
		Usage: "write a synthetic CSV export, optionally uploading it",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "seed", Value: def.Seed, Usage: "equal seeds give equal shots; 0 is random"},
			&cli.IntFlag{Name: "golfers", Value: def.Golfers},
			&cli.IntFlag{Name: "holes", Value: def.Holes},
			&cli.IntFlag{Name: "max-strokes", Value: def.MaxStrokes},
			&cli.DurationFlag{Name: "start", Value: def.Start, Usage: "time of day of the first observation"},
			&cli.Float64Flag{Name: "latency-scale", Value: def.LatencyScale, Usage: "multiplies field arrival offsets"},
			&cli.Float64Flag{Name: "incomplete-rate", Usage: "fraction of shots without total distance"},
			&cli.Float64Flag{Name: "noise-rate", Usage: "fraction of cells written as N/A"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output path (default stdout)"},
			&cli.StringFlag{Name: "upload", Usage: "base URL of a running service to upload to"},
			&cli.StringFlag{Name: "match", Aliases: []string{"m"}, Usage: "match number used with --upload"},
			&cli.StringFlag{Name: "description", Usage: "description used with --upload"},
			&cli.DurationFlag{Name: "timeout", Value: 30 * time.Second, Usage: "HTTP timeout for --upload"},
		},
		Action: func(c *cli.Context) error {
			gen := samplegen.New(samplegen.Config{
				Seed:           c.Int64("seed"),
				Golfers:        c.Int("golfers"),
				Holes:          c.Int("holes"),
				MaxStrokes:     c.Int("max-strokes"),
				Start:          c.Duration("start"),
				LatencyScale:   c.Float64("latency-scale"),
				IncompleteRate: c.Float64("incomplete-rate"),
				NoiseRate:      c.Float64("noise-rate"),
			})
			var buf bytes.Buffer
			if err := samplegen.WriteCSV(&buf, gen.Generate()); err != nil {
				return err
			}

			if url := c.String("upload"); url != "" {
				match := strings.TrimSpace(c.String("match"))
				if match == "" {
					return fmt.Errorf("%w: --match is required with --upload", errUsage)
				}
				client := samplegen.NewClient(url, c.Duration("timeout"))
				if err := client.CheckHealth(c.Context); err != nil {
					return err
				}
				res, err := client.Upload(c.Context, match, c.String("description"), buf.Bytes())
				if err != nil {
					return err
				}
				fmt.Fprintf(e.out, "uploaded match %s: %d shots\n", res.MatchNumber, res.CompletedShots)
				return nil
			}

			if out := c.String("out"); out != "" {
				if err := os.WriteFile(out, buf.Bytes(), 0o600); err != nil {
					return fmt.Errorf("write %s: %w", out, err)
				}
				fmt.Fprintf(e.out, "wrote %s\n", out)
				return nil
			}
			_, err := buf.WriteTo(e.out)
			return err
		},
	}
}

func initDBCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "init-db",
		Usage: "create the matches and shots tables if missing",
		Action: func(c *cli.Context) error {
			store, err := repository.Open(c.Context, e.cfg.DBDriver, e.cfg.DBDSN)
			if err != nil {
				return err
			}
			defer store.Close()
			fmt.Fprintf(e.out, "schema ready (%s)\n", e.cfg.DBDriver)
			return nil
		},
	}
}

func (e *env) printJSON(v any) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (e *env) printStats(stats []model.GolferStats) error {
	tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "GOLFER\tSHOTS\tAVG TOTAL\tMAX TOTAL\tAVG CARRY\tT BALL (s)\tT CARRY (s)\tT TOTAL (s)\t")
	for _, g := range stats {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			g.Golfer, g.ShotCount,
			num(g.AvgTotalDistance, 1), num(g.MaxTotalDistance, 1), num(g.AvgCarryDistance, 1),
			num(g.AvgTimeToBallSpeed, 3), num(g.AvgTimeToCarry, 3), num(g.AvgTimeToTotal, 3))
	}
	return tw.Flush()
}

func (e *env) printComparison(res service.ComparisonResult) error {
	cmp := res.Comparison
	fmt.Fprintf(e.out, "%s vs %s: %s\n", res.MatchA.MatchNumber, res.MatchB.MatchNumber, cmp.Verdict)
	fmt.Fprintf(e.out, "matched %d, only in A %d, only in B %d, duplicates %d\n",
		cmp.MatchedPositions, cmp.OnlyInA, cmp.OnlyInB, cmp.DuplicatePositions)
	fmt.Fprintf(e.out, "faster %d, slower %d, tied %d, outliers %d\n", cmp.Faster, cmp.Slower, cmp.Tied, cmp.OutlierCount)

	tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "FIELD\tMEAN Δ (s)\tMEAN |Δ| (s)\t")
	for _, f := range model.Fields() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", f, num(cmp.MeanDelta.Get(f), 3), num(cmp.MeanAbsDelta.Get(f), 3))
	}
	return tw.Flush()
}

func num(v *float64, prec int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.*f", prec, *v)
}
