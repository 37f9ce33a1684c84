package bot

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/quantumholdem/internal/game"
)

// Collapser is implemented by bots that may choose to collapse their hole
// cards early.
type Collapser interface {
	Collapse(snap game.Snapshot) bool
}

// Runner drives a table with one bot per seat.
type Runner struct {
	table  *game.Table
	bots   []Bot
	logger *log.Logger
}

// NewRunner pairs a table with its bots. bots[i] plays seat i.
func NewRunner(t *game.Table, bots []Bot, logger *log.Logger) (*Runner, error) {
	if len(bots) != t.NumSeats() {
		return nil, fmt.Errorf("%d bots for %d seats", len(bots), t.NumSeats())
	}
	return &Runner{table: t, bots: bots, logger: logger.WithPrefix("runner")}, nil
}

// Table returns the table being driven.
func (r *Runner) Table() *game.Table { return r.table }

type roundKey struct {
	phase game.Phase
	seat  int
}

// PlayHand starts a hand and plays it to completion.
func (r *Runner) PlayHand(ctx context.Context) (*game.HandResult, error) {
	t := r.table
	if err := t.StartHand(); err != nil {
		return nil, err
	}

	gated := make(map[roundKey]bool)
	for t.Phase() != game.PhaseComplete {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		seat := t.Actor()
		if seat == -1 {
			if _, err := t.DealNextStreet(); err != nil {
				return t.Result(), err
			}
			continue
		}

		key := roundKey{phase: t.Phase(), seat: seat}
		if !gated[key] {
			gated[key] = true
			if err := r.playGates(seat); err != nil {
				return t.Result(), err
			}
		}

		d := r.bots[seat].Decide(t.Snapshot(seat))
		if _, err := t.Act(seat, d.Action, d.Amount); err != nil {
			if !game.Classify(err).Recoverable() {
				return t.Result(), err
			}
			r.logger.Warn("bot chose an illegal action, folding",
				"hand", t.HandNumber(), "seat", seat, "action", d.Action, "amount", d.Amount, "error", err)
			if _, err := t.Act(seat, game.Fold, 0); err != nil {
				return t.Result(), err
			}
			continue
		}
		r.logger.Debug("decision", "hand", t.HandNumber(), "seat", seat,
			"action", d.Action, "amount", d.Amount, "reason", d.Reasoning)
	}
	return t.Result(), nil
}

func (r *Runner) playGates(seat int) error {
	t := r.table
	b := r.bots[seat]
	for _, m := range b.Gates(t.Snapshot(seat)) {
		res, err := t.ApplyGate(seat, m.Gate, m.Cards, m.Preview)
		if err != nil {
			if game.Classify(err).Recoverable() {
				r.logger.Debug("gate rejected", "seat", seat, "gate", m.Gate, "error", err)
				continue
			}
			return err
		}
		r.logger.Debug("gate", "hand", t.HandNumber(), "seat", seat, "gate", res.Gate,
			"cards", res.Cards, "preview", res.Preview)
	}

	if c, ok := b.(Collapser); ok && c.Collapse(t.Snapshot(seat)) {
		if _, err := t.CollapseCards(seat); err != nil && !game.Classify(err).Recoverable() {
			return err
		}
	}
	return nil
}
