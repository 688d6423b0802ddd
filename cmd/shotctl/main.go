// Command shotctl works with shot-tracker exports from the terminal: analyze
// and store CSV files, compare matches, export workbooks and generate sample
// data.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	service "github.com/okian/smtgolf/internal/app"
	"github.com/okian/smtgolf/internal/config"
	"github.com/okian/smtgolf/pkg/logger"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "shotctl:", err)
		os.Exit(1)
	}
}

// env is the state shared by every command.
type env struct {
	cfg *config.Config
	out io.Writer
}

func newApp(stdout, stderr io.Writer) *cli.App {
	e := &env{out: stdout}
	return &cli.App{
		Name:      "shotctl",
		Usage:     "analyze, store and compare launch-monitor CSV exports",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db-driver", Usage: "store backend: sqlite or postgres"},
			&cli.StringFlag{Name: "db-dsn", Usage: "data source name of the store"},
			&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "debug, info, warn or error"},
			&cli.BoolFlag{Name: "sequential-gaps", Usage: "attach field-to-field gaps to shots"},
		},
		Before: func(c *cli.Context) error {
			return e.setup(c, stderr)
		},
		Commands: []*cli.Command{
			analyzeCommand(e),
			uploadCommand(e),
			matchesCommand(e),
			deleteCommand(e),
			compareCommand(e),
			exportCommand(e),
			generateCommand(e),
			initDBCommand(e),
		},
	}
}

// setup loads configuration and applies global flags on top of it.
func (e *env) setup(c *cli.Context, stderr io.Writer) error {
	cfg, err := config.Load(c.Context)
	if err != nil {
		return err
	}
	if c.IsSet("db-driver") {
		cfg.DBDriver = c.String("db-driver")
	}
	if c.IsSet("db-dsn") {
		cfg.DBDSN = c.String("db-dsn")
	}
	if c.IsSet("sequential-gaps") {
		cfg.SequentialGaps = c.Bool("sequential-gaps")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.cfg = cfg

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithOutput(stderr)); err != nil {
		return err
	}
	return logger.SetLevelString(c.String("log-level"))
}

// service returns a service that has not opened a store.
func (e *env) service() *service.Service {
	return service.New(
		service.WithLogger(logger.Named("shotctl")),
		service.WithDatabase(e.cfg.DBDriver, e.cfg.DBDSN),
		service.WithSequentialGaps(e.cfg.SequentialGaps),
		service.WithOutlierFactor(e.cfg.OutlierFactor),
		service.WithTieThreshold(e.cfg.TieThresholdSeconds),
	)
}

// withStore runs fn against a started service and stops it afterwards.
func (e *env) withStore(ctx context.Context, fn func(*service.Service) error) error {
	svc := e.service()
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()
	return fn(svc)
}
