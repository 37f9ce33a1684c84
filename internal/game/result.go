package game

import (
	"github.com/lox/quantumholdem/internal/quantum"
	"github.com/lox/quantumholdem/poker"
)

// HandResult describes how a hand ended. Exactly one of Uncontested,
// Showdown or Aborted is set.
type HandResult struct {
	HandNumber  int                     `json:"hand_number"`
	Uncontested bool                    `json:"uncontested"`
	Showdown    bool                    `json:"showdown"`
	Aborted     bool                    `json:"aborted"`
	Reason      string                  `json:"reason,omitempty"`
	Board       []poker.Card            `json:"board"`
	Pots        []Pot                   `json:"pots"`
	Awards      []PotAward              `json:"awards"`
	Hands       map[int]poker.HandValue `json:"hands,omitempty"`
	Revealed    map[int][]poker.Card    `json:"revealed,omitempty"`
	Collapses   []quantum.Collapsed     `json:"collapses,omitempty"`
	Winners     []int                   `json:"winners"`
	Payouts     map[int]int             `json:"payouts"`
}

// ActionResult is returned by an accepted player action.
type ActionResult struct {
	Seat          int         `json:"seat"`
	Action        Action      `json:"action"` // As applied; a call for the whole stack is AllIn
	Amount        int         `json:"amount"` // Chips added by this action
	Pot           int         `json:"pot"`
	CurrentBet    int         `json:"current_bet"`
	RoundComplete bool        `json:"round_complete"`
	NextActor     int         `json:"next_actor"` // -1 when no one is due to act
	Hand          *HandResult `json:"hand,omitempty"`
}

// StreetResult is returned when the table advances a street.
type StreetResult struct {
	Phase     Phase        `json:"phase"`
	Dealt     []poker.Card `json:"dealt"`
	Board     []poker.Card `json:"board"`
	NextActor int          `json:"next_actor"`
	Hand      *HandResult  `json:"hand,omitempty"`
}

// GateResult is returned by ApplyGate. Outcome holds the preview or the
// applied result for the gate.
type GateResult struct {
	Seat           int             `json:"seat"`
	Gate           quantum.Gate    `json:"gate"`
	Cards          []int           `json:"cards"`
	Preview        bool            `json:"preview"`
	Outcome        quantum.Outcome `json:"outcome"`
	RoundRemaining int             `json:"round_remaining"`
	HandRemaining  int             `json:"hand_remaining"`
}
