package bot

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/quantumholdem/internal/game"
	"github.com/lox/quantumholdem/internal/quantum"
)

// RandBot picks uniformly among legal actions and sometimes applies a
// random gate.
type RandBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandBot creates a RandBot.
func NewRandBot(rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{rng: rng, logger: logger}
}

func (r *RandBot) Decide(snap game.Snapshot) Decision {
	l := legal(snap)
	if len(l.Actions) == 0 {
		return Decision{Action: game.Fold, Reasoning: "rand-bot no legal actions"}
	}

	a := l.Actions[r.rng.IntN(len(l.Actions))]
	d := Decision{Action: a, Reasoning: "rand-bot random action"}
	if a == game.Raise {
		d.Amount = l.MinRaiseTo + r.rng.IntN(l.MaxRaiseTo-l.MinRaiseTo+1)
	}
	r.logger.Debug("rand-bot decision", "seat", snap.Viewer, "action", d.Action, "amount", d.Amount,
		"choices", len(l.Actions))
	return d
}

func (r *RandBot) Gates(snap game.Snapshot) []GateMove {
	l := legal(snap)
	var moves []GateMove
	for range l.GatesRound {
		if r.rng.IntN(3) != 0 {
			continue
		}
		g := quantum.Gate(r.rng.IntN(3) + 1)
		first := r.rng.IntN(2)
		cards := []int{first}
		if g == quantum.GateCNOT {
			cards = append(cards, 1-first)
		}
		moves = append(moves, GateMove{Gate: g, Cards: cards, Preview: r.rng.IntN(4) == 0})
	}
	if len(moves) > 0 {
		r.logger.Debug("rand-bot gates", "seat", snap.Viewer, "moves", len(moves))
	}
	return moves
}

// Collapse measures the hole cards early once in a while after the flop.
func (r *RandBot) Collapse(snap game.Snapshot) bool {
	return snap.Phase != game.PhasePreflop && legal(snap).CanCollapse && r.rng.IntN(8) == 0
}
