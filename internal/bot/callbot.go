package bot

import (
	"github.com/charmbracelet/log"

	"github.com/lox/quantumholdem/internal/game"
)

// CallBot checks or calls every street and never touches its cards.
type CallBot struct {
	logger *log.Logger
}

// NewCallBot creates a CallBot.
func NewCallBot(logger *log.Logger) *CallBot {
	return &CallBot{logger: logger}
}

func (c *CallBot) Decide(snap game.Snapshot) Decision {
	d := prefer(legal(snap), "call-bot", game.Check, game.Call, game.AllIn)
	c.logger.Debug("call-bot decision", "seat", snap.Viewer, "action", d.Action, "reason", d.Reasoning)
	return d
}

func (c *CallBot) Gates(game.Snapshot) []GateMove { return nil }
