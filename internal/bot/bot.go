// Package bot provides automated players for simulations and tests. Bots
// only see what a seat's snapshot shows them and only choose among the
// legal actions it lists.
package bot

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/quantumholdem/internal/game"
	"github.com/lox/quantumholdem/internal/quantum"
)

// Decision is a betting action chosen by a bot. Amount is the raise-to
// total for Raise and ignored otherwise.
type Decision struct {
	Action    game.Action
	Amount    int
	Reasoning string
}

// GateMove is a gate a bot wants to apply to its own hole cards.
type GateMove struct {
	Gate    quantum.Gate
	Cards   []int
	Preview bool
}

// Bot decides actions for one seat.
type Bot interface {
	// Decide is called when the seat is due to act.
	Decide(snap game.Snapshot) Decision
	// Gates is called once per betting round before the seat acts and
	// returns the gates to try, in order.
	Gates(snap game.Snapshot) []GateMove
}

// Strategies lists the names accepted by New.
var Strategies = []string{"rand", "call", "fold", "maniac"}

// New returns the bot for strategy.
func New(strategy string, rng *rand.Rand, logger *log.Logger) (Bot, error) {
	logger = logger.WithPrefix("bot")
	switch strategy {
	case "rand":
		return NewRandBot(rng, logger), nil
	case "call":
		return NewCallBot(logger), nil
	case "fold":
		return NewFoldBot(logger), nil
	case "maniac":
		return NewManiacBot(rng, logger), nil
	}
	return nil, fmt.Errorf("unknown bot strategy %q", strategy)
}

func legal(snap game.Snapshot) game.LegalActions {
	if snap.Viewer < 0 || snap.Viewer >= len(snap.Seats) {
		return game.LegalActions{}
	}
	return snap.Seats[snap.Viewer].Legal
}

// prefer returns the first of actions that is legal, falling back to fold.
func prefer(l game.LegalActions, reasoning string, actions ...game.Action) Decision {
	for _, a := range actions {
		if l.Can(a) {
			d := Decision{Action: a, Reasoning: reasoning}
			if a == game.Raise {
				d.Amount = l.MinRaiseTo
			}
			return d
		}
	}
	return Decision{Action: game.Fold, Reasoning: "fallback: " + reasoning}
}
