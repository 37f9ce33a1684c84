package bot

import (
	"github.com/charmbracelet/log"

	"github.com/lox/quantumholdem/internal/game"
)

// FoldBot checks when it is free and folds to any bet.
type FoldBot struct {
	logger *log.Logger
}

// NewFoldBot creates a FoldBot.
func NewFoldBot(logger *log.Logger) *FoldBot {
	return &FoldBot{logger: logger}
}

func (f *FoldBot) Decide(snap game.Snapshot) Decision {
	d := prefer(legal(snap), "fold-bot", game.Check, game.Fold)
	f.logger.Debug("fold-bot decision", "seat", snap.Viewer, "action", d.Action, "reason", d.Reasoning)
	return d
}

func (f *FoldBot) Gates(game.Snapshot) []GateMove { return nil }
