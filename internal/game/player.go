package game

import (
	"github.com/lox/quantumholdem/poker"
)

// PlayerInfo identifies a player supplied by the caller at table creation.
type PlayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Seat is one player's place at the table. Its chip stack and folded flag
// live in State, which the Ledger mutates.
type Seat struct {
	ID        string
	Name      string
	Position  int
	HoleCards []poker.Card // 0 or 2 cards; gates mutate these copies

	Dealer     bool
	SmallBlind bool
	BigBlind   bool

	GatesThisRound int
	GatesThisHand  int
	Collapsed      bool
	SittingOut     bool // No chips when the hand started

	State BetState
}

// Chips returns the seat's current stack.
func (s *Seat) Chips() int { return s.State.Chips }

// Folded reports whether the seat is out of the current hand.
func (s *Seat) Folded() bool { return s.State.Folded }

// InHand reports whether the seat was dealt into the current hand and has
// not folded.
func (s *Seat) InHand() bool {
	return !s.SittingOut && !s.State.Folded && len(s.HoleCards) == 2
}

func (s *Seat) resetForHand() {
	s.HoleCards = nil
	s.Dealer, s.SmallBlind, s.BigBlind = false, false, false
	s.GatesThisRound, s.GatesThisHand = 0, 0
	s.Collapsed = false
	s.SittingOut = s.State.Chips == 0
	s.State = BetState{Chips: s.State.Chips, Folded: s.SittingOut}
}
