package game

import (
	"fmt"
	"strings"
)

// Phase is the hand state machine position.
type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseDealing
	PhasePreflop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
	PhaseComplete
)

func (p Phase) String() string {
	if p < PhaseWaiting || p > PhaseComplete {
		return "unknown"
	}
	return [...]string{"waiting", "dealing", "preflop", "flop", "turn", "river", "showdown", "complete"}[p]
}

// ParsePhase parses a phase name as produced by String.
func ParsePhase(s string) (Phase, error) {
	for p := PhaseWaiting; p <= PhaseComplete; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(b []byte) error {
	parsed, err := ParsePhase(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Betting reports whether the phase has an open betting round.
func (p Phase) Betting() bool {
	return p >= PhasePreflop && p <= PhaseRiver
}

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
	AllIn
)

func (a Action) String() string {
	if a < Fold || a > AllIn {
		return "unknown"
	}
	return [...]string{"fold", "check", "call", "raise", "allin"}[a]
}

// ParseAction parses an action name as produced by String.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "raise", "bet":
		return Raise, nil
	case "allin", "all_in", "all-in":
		return AllIn, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(b []byte) error {
	parsed, err := ParseAction(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// BetState is one seat's money position within a hand.
type BetState struct {
	Chips     int  `json:"chips"`
	Bet       int  `json:"bet"`       // Committed this betting round
	Committed int  `json:"committed"` // Committed this hand
	AllIn     bool `json:"all_in"`
	Folded    bool `json:"folded"`
	Acted     bool `json:"acted"`
}

// CanAct reports whether the seat may still take betting actions.
func (b *BetState) CanAct() bool {
	return !b.Folded && !b.AllIn
}

func (b *BetState) commit(amount int) {
	b.Chips -= amount
	b.Bet += amount
	b.Committed += amount
	if b.Chips == 0 {
		b.AllIn = true
	}
}

// Ledger tracks the bets of one hand: the amount to match, the minimum
// raise increment, and each seat's BetState. It does not know about turn
// order; the Table enforces that.
type Ledger struct {
	Seats      []*BetState
	CurrentBet int
	MinRaise   int
	BigBlind   int
}

// NewLedger creates a ledger over the given seat states.
func NewLedger(seats []*BetState, bigBlind int) *Ledger {
	return &Ledger{Seats: seats, MinRaise: bigBlind, BigBlind: bigBlind}
}

// PostBlinds debits each blind seat by min(blind, stack). A short stack posts
// everything and is all-in. The bet to match becomes the big blind.
func (l *Ledger) PostBlinds(sbSeat, bbSeat, smallBlind, bigBlind int) {
	for _, p := range []struct{ seat, amount int }{{sbSeat, smallBlind}, {bbSeat, bigBlind}} {
		s := l.Seats[p.seat]
		s.commit(min(p.amount, s.Chips))
	}
	l.CurrentBet = bigBlind
	l.MinRaise = bigBlind
}

// NewRound clears per-round bets and acted flags for the next street.
func (l *Ledger) NewRound() {
	for _, s := range l.Seats {
		s.Bet = 0
		s.Acted = false
	}
	l.CurrentBet = 0
	l.MinRaise = l.BigBlind
}

// ToCall returns the amount seat must add to match the current bet.
func (l *Ledger) ToCall(seat int) int {
	return max(0, l.CurrentBet-l.Seats[seat].Bet)
}

// CanCheck reports whether seat has matched the current bet and can act.
func (l *Ledger) CanCheck(seat int) bool {
	s := l.Seats[seat]
	return s.CanAct() && s.Bet >= l.CurrentBet
}

// CanCall reports whether seat is below the current bet and has chips.
func (l *Ledger) CanCall(seat int) bool {
	s := l.Seats[seat]
	return s.CanAct() && s.Bet < l.CurrentBet && s.Chips > 0
}

// CanRaise reports whether seat holds more than the call amount and betting
// is open to it. A seat that already acted is only reopened by a full raise.
func (l *Ledger) CanRaise(seat int) bool {
	s := l.Seats[seat]
	return s.CanAct() && !s.Acted && s.Chips > l.ToCall(seat)
}

// MinRaiseTo is the smallest legal raise target for seat, capped at its stack.
func (l *Ledger) MinRaiseTo(seat int) int {
	return min(l.CurrentBet+l.MinRaise, l.MaxRaiseTo(seat))
}

// MaxRaiseTo is the raise target that commits seat's whole stack.
func (l *Ledger) MaxRaiseTo(seat int) int {
	s := l.Seats[seat]
	return s.Bet + s.Chips
}

// Apply validates and applies action for seat. For Raise, amount is the
// total target bet for the round. The returned Action is what was actually
// applied: a call that takes the whole stack becomes AllIn. On error the
// ledger is unchanged.
func (l *Ledger) Apply(seat int, action Action, amount int) (Action, error) {
	if seat < 0 || seat >= len(l.Seats) {
		return action, illegal("seat %d does not exist", seat)
	}
	s := l.Seats[seat]
	if s.Folded {
		return action, illegal("seat %d has folded", seat)
	}
	if s.AllIn {
		return action, illegal("seat %d is all-in", seat)
	}

	switch action {
	case Fold:
		s.Folded = true
		s.Acted = true
		return Fold, nil
	case Check:
		if !l.CanCheck(seat) {
			return action, illegal("cannot check, must call %d", l.ToCall(seat))
		}
		s.Acted = true
		return Check, nil
	case Call:
		return l.call(seat)
	case Raise:
		return l.RaiseTo(seat, amount)
	case AllIn:
		return l.AllIn(seat)
	}
	return action, illegal("unknown action %d", action)
}

func (l *Ledger) call(seat int) (Action, error) {
	if !l.CanCall(seat) {
		return Call, illegal("nothing to call")
	}
	s := l.Seats[seat]
	toCall := l.ToCall(seat)
	if toCall >= s.Chips {
		return l.AllIn(seat)
	}
	s.commit(toCall)
	s.Acted = true
	return Call, nil
}

// RaiseTo raises seat's bet to amount. The raise must reach the current bet
// plus the minimum increment unless amount is exactly the seat's whole stack.
func (l *Ledger) RaiseTo(seat, amount int) (Action, error) {
	s := l.Seats[seat]
	if !s.CanAct() {
		return Raise, illegal("seat %d cannot act", seat)
	}
	if s.Acted {
		return Raise, illegal("betting was not reopened, call or fold")
	}
	if !l.CanRaise(seat) {
		return Raise, illegal("insufficient chips to raise")
	}
	maxTo := l.MaxRaiseTo(seat)
	if amount > maxTo {
		return Raise, illegal("insufficient chips, maximum raise to %d", maxTo)
	}
	if amount <= l.CurrentBet {
		return Raise, illegal("raise to %d does not exceed current bet %d", amount, l.CurrentBet)
	}
	if minTo := l.CurrentBet + l.MinRaise; amount < minTo && amount != maxTo {
		return Raise, illegal("raise too small, minimum %d", minTo)
	}
	if amount == maxTo {
		return l.AllIn(seat)
	}

	l.MinRaise = amount - l.CurrentBet
	l.CurrentBet = amount
	s.commit(amount - s.Bet)
	l.reopen(seat)
	return Raise, nil
}

// AllIn commits seat's whole stack. A total above the current bet is a raise;
// it reopens betting only if the increment is at least the minimum raise.
func (l *Ledger) AllIn(seat int) (Action, error) {
	s := l.Seats[seat]
	if !s.CanAct() || s.Chips == 0 {
		return AllIn, illegal("seat %d has no chips to commit", seat)
	}
	total := s.Bet + s.Chips
	if total > l.CurrentBet && s.Acted {
		return AllIn, illegal("betting was not reopened, call or fold")
	}

	s.commit(s.Chips)
	if total > l.CurrentBet {
		raiseBy := total - l.CurrentBet
		l.CurrentBet = total
		if raiseBy >= l.MinRaise {
			l.MinRaise = raiseBy
			l.reopen(seat)
			return AllIn, nil
		}
	}
	s.Acted = true
	return AllIn, nil
}

// reopen makes every other live seat respond to a full raise.
func (l *Ledger) reopen(raiser int) {
	for i, s := range l.Seats {
		if i != raiser && s.CanAct() {
			s.Acted = false
		}
	}
	l.Seats[raiser].Acted = true
}

// RoundComplete reports whether the betting round is over. Every live seat
// (not folded, not all-in) must have matched the current bet, and when more
// than one seat is live each must also have acted.
func (l *Ledger) RoundComplete() bool {
	for i := range l.Seats {
		if l.NeedsAction(i) {
			return false
		}
	}
	return true
}

// NeedsAction reports whether seat still owes a decision this round.
func (l *Ledger) NeedsAction(seat int) bool {
	s := l.Seats[seat]
	if !s.CanAct() {
		return false
	}
	return s.Bet < l.CurrentBet || (!s.Acted && l.ActiveCount() > 1)
}

// Pot returns every chip committed this hand.
func (l *Ledger) Pot() int {
	total := 0
	for _, s := range l.Seats {
		total += s.Committed
	}
	return total
}

// Live returns the seats that have not folded, in seat order.
func (l *Ledger) Live() []int {
	var out []int
	for i, s := range l.Seats {
		if !s.Folded {
			out = append(out, i)
		}
	}
	return out
}

// ActiveCount returns the number of seats that can still act.
func (l *Ledger) ActiveCount() int {
	n := 0
	for _, s := range l.Seats {
		if s.CanAct() {
			n++
		}
	}
	return n
}

// Refund returns all committed chips to their seats.
func (l *Ledger) Refund() {
	for _, s := range l.Seats {
		s.Chips += s.Committed
		s.Committed = 0
		s.Bet = 0
	}
}
