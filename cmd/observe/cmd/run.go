package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-drift/observe/cmd/observe/internal/chart"
	"github.com/go-drift/observe/cmd/observe/internal/scenario"
	"github.com/go-drift/observe/pkg/observable"
)

func init() {
	RegisterCommand(&Command{
		Name:  "run",
		Short: "Replay a scenario file",
		Long: `Replay a YAML scenario against an observable integer.

A scenario lists the initial value, the observers attached up front and a
sequence of steps:

  requires: v0.1.0
  initial: 5
  observers: [obs1, obs2]
  steps:
    - {op: set, value: 10}
    - {op: attach, observer: obs3}
    - {op: drop, observer: obs3}
    - {op: mutate, mul: 2}
    - {op: expect, value: 20, subscribers: 2}

Ops: set, set_silently, set_if_changed, trigger, mutate (add or mul),
attach, drop, expect. Every observer prints "name, value" per update.
A failing expect stops the run with an error.`,
		Usage:   "observe run [-o FILE] [-v LEVEL] SCENARIO",
		Options: func() any { return &runOptions{} },
		Run:     runRun,
	})
}

type runOptions struct {
	commonOptions

	Output string `short:"o" long:"output" value-name:"FILE" description:"Write a PNG chart of the value history"`

	Args struct {
		Scenario string `positional-arg-name:"SCENARIO" required:"yes"`
	} `positional-args:"yes"`
}

func runRun(o any, _ []string) error {
	opts := o.(*runOptions)

	s, err := scenario.Load(opts.Args.Scenario)
	if err != nil {
		return err
	}
	if err := s.CheckVersion(Version); err != nil {
		return err
	}

	runner := &scenario.Runner{
		Out:    stdout,
		Logger: slog.Default(),
	}

	var (
		c     *chart.Chart
		guard *observable.Guarded[int64]
	)
	if opts.Output != "" {
		c = chart.New()
		guard = observable.Guard[int64]("chart", c)
		runner.Extra = append(runner.Extra, guard)
	}

	res, err := runner.Run(s)
	if err != nil {
		return err
	}
	slog.Info("scenario complete",
		slog.String("file", opts.Args.Scenario),
		slog.Int("steps", res.Steps),
		slog.Int64("value", res.Value),
		slog.Int("subscribers", res.Subscribers),
	)

	if c != nil {
		if n := guard.Recovered(); n > 0 {
			slog.Warn("chart missed updates", slog.Int("panics", n))
		}
		if err := writeChart(c, opts.Output); err != nil {
			return err
		}
		slog.Info("chart written", slog.String("file", opts.Output), slog.Int("points", len(c.History())))
	}
	return nil
}

func writeChart(c *chart.Chart, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart: %w", err)
	}
	if err := c.WritePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode chart: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
