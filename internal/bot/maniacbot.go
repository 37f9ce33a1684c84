package bot

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/quantumholdem/internal/game"
	"github.com/lox/quantumholdem/internal/quantum"
)

// ManiacBot raises whenever it can, shoves a fifth of the time and spends
// its whole gate allowance on Z gates.
type ManiacBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewManiacBot creates a ManiacBot.
func NewManiacBot(rng *rand.Rand, logger *log.Logger) *ManiacBot {
	return &ManiacBot{rng: rng, logger: logger}
}

func (m *ManiacBot) Decide(snap game.Snapshot) Decision {
	l := legal(snap)
	d := prefer(l, "maniac", game.Raise, game.AllIn, game.Call, game.Check)
	if l.Can(game.AllIn) && m.rng.IntN(5) == 0 {
		d = Decision{Action: game.AllIn, Reasoning: "maniac shove"}
	}
	m.logger.Debug("maniac decision", "seat", snap.Viewer, "action", d.Action, "amount", d.Amount, "reason", d.Reasoning)
	return d
}

func (m *ManiacBot) Gates(snap game.Snapshot) []GateMove {
	l := legal(snap)
	moves := make([]GateMove, 0, l.GatesRound)
	for i := range l.GatesRound {
		moves = append(moves, GateMove{Gate: quantum.GateZ, Cards: []int{i % 2}})
	}
	if len(moves) > 0 {
		m.logger.Debug("maniac gates", "seat", snap.Viewer, "count", len(moves))
	}
	return moves
}
