package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/quantumholdem/internal/bot"
	"github.com/lox/quantumholdem/internal/config"
	"github.com/lox/quantumholdem/internal/display"
	"github.com/lox/quantumholdem/internal/fileutil"
	"github.com/lox/quantumholdem/internal/game"
	"github.com/lox/quantumholdem/internal/randutil"
)

// SimulateCmd plays bot-only tables in parallel.
type SimulateCmd struct {
	Tables   int      `default:"4" help:"Number of tables to run in parallel"`
	Hands    int      `default:"500" help:"Hands per table"`
	Bots     []string `default:"rand,call,maniac,fold" help:"Bot strategy per seat (rand, call, fold, maniac)"`
	Preset   string   `help:"Table preset from the config file (first preset when empty)"`
	Seed     *int64   `help:"Deterministic RNG seed (optional)"`
	NoColor  bool     `help:"Disable colored output"`
	States   bool     `help:"Show raw qubit states next to cards"`
	ShowLast bool     `help:"Print the final hand of the first table"`
	Report   string   `type:"path" help:"Write a JSON summary to this file"`

	out io.Writer `kong:"-"`
}

// tableRun is the outcome of one simulated table.
type tableRun struct {
	hands  int
	chips  []int
	start  []int
	last   *game.HandResult
	names  []string
	counts map[string]int // how each hand ended
}

func (c *SimulateCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	preset, ok := cfg.Preset(c.Preset)
	if !ok {
		return fmt.Errorf("unknown table preset %q", c.Preset)
	}

	level := "warn"
	if cli.LogLevel != "" {
		level = cli.LogLevel
	}
	logger, err := setupLogger(level)
	if err != nil {
		return err
	}

	if c.Tables < 1 || c.Hands < 1 {
		return fmt.Errorf("tables and hands must be positive")
	}
	if len(c.Bots) < 2 || len(c.Bots) > preset.MaxSeats {
		return fmt.Errorf("need 2 to %d bots, got %d", preset.MaxSeats, len(c.Bots))
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	logger.Info("simulating", "tables", c.Tables, "hands", c.Hands, "bots", c.Bots, "preset", preset.Name, "seed", seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runs := make([]*tableRun, c.Tables)
	g, ctx := errgroup.WithContext(ctx)
	for i := range c.Tables {
		g.Go(func() error {
			run, err := c.runTable(ctx, preset, seed+int64(i)*7919, logger.With("table", i))
			if err != nil {
				return fmt.Errorf("table %d: %w", i, err)
			}
			runs[i] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return c.report(runs, seed)
}

func (c *SimulateCmd) runTable(ctx context.Context, preset config.TablePreset, seed int64, logger *log.Logger) (*tableRun, error) {
	players := make([]game.PlayerInfo, len(c.Bots))
	bots := make([]bot.Bot, len(c.Bots))
	names := make([]string, len(c.Bots))
	for i, strategy := range c.Bots {
		b, err := bot.New(strategy, randutil.New(seed+int64(i)+1), logger)
		if err != nil {
			return nil, err
		}
		bots[i] = b
		names[i] = fmt.Sprintf("%s-%d", strategy, i)
		players[i] = game.PlayerInfo{ID: names[i], Name: names[i]}
	}

	opts := append(preset.Options(), game.WithRNG(randutil.New(seed)), game.WithLogger(logger))
	tbl, err := game.NewTable(players, opts...)
	if err != nil {
		return nil, err
	}
	runner, err := bot.NewRunner(tbl, bots, logger)
	if err != nil {
		return nil, err
	}

	run := &tableRun{names: names, counts: map[string]int{}}
	for i := range names {
		s, _ := tbl.Seat(i)
		run.start = append(run.start, s.State.Chips)
	}
	total := tbl.TotalChips()

	for run.hands < c.Hands && tbl.CanStartHand() {
		res, err := runner.PlayHand(ctx)
		if err != nil {
			return nil, err
		}
		run.hands++
		run.last = res
		switch {
		case res.Aborted:
			run.counts["aborted"]++
		case res.Showdown:
			run.counts["showdown"]++
		default:
			run.counts["uncontested"]++
		}
		if got := tbl.TotalChips(); got != total {
			return nil, fmt.Errorf("chips not conserved after hand %d: %d != %d", tbl.HandNumber(), got, total)
		}
	}

	for i := range names {
		s, _ := tbl.Seat(i)
		run.chips = append(run.chips, s.State.Chips)
	}
	return run, nil
}

// simulationReport is the JSON summary written by --report.
type simulationReport struct {
	Seed      int64              `json:"seed"`
	Tables    int                `json:"tables"`
	Hands     int                `json:"hands"`
	Endings   map[string]int     `json:"endings"`
	Standings []display.Standing `json:"standings"`
}

func (c *SimulateCmd) report(runs []*tableRun, seed int64) error {
	out := c.out
	if out == nil {
		out = os.Stdout
	}
	opts := []display.Option{display.WithColor(!c.NoColor)}
	if c.States {
		opts = append(opts, display.WithStates())
	}
	r := display.New(out, opts...)

	if c.ShowLast && len(runs) > 0 {
		fmt.Fprint(out, r.HandResult(runs[0].last, runs[0].names))
	}

	var (
		hands  int
		counts = map[string]int{}
		rows   = make([]display.Standing, len(c.Bots))
	)
	for i, name := range runs[0].names {
		rows[i].Name = name
	}
	for _, run := range runs {
		hands += run.hands
		for k, v := range run.counts {
			counts[k] += v
		}
		for i := range run.chips {
			rows[i].Chips += run.chips[i]
			rows[i].Delta += run.chips[i] - run.start[i]
		}
	}

	fmt.Fprintf(out, "Played %d hands on %d tables (showdown %d, uncontested %d, aborted %d)\n",
		hands, len(runs), counts["showdown"], counts["uncontested"], counts["aborted"])
	fmt.Fprint(out, r.Standings(rows))

	if c.Report == "" {
		return nil
	}
	return fileutil.WriteJSON(c.Report, simulationReport{
		Seed:      seed,
		Tables:    len(runs),
		Hands:     hands,
		Endings:   counts,
		Standings: rows,
	})
}
