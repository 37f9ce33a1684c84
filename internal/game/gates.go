package game

import (
	"errors"

	"github.com/lox/quantumholdem/internal/quantum"
)

// GateAllowance returns how many more gates seat may apply this round and
// this hand.
func (t *Table) GateAllowance(seat int) (round, hand int) {
	if seat < 0 || seat >= len(t.seats) {
		return 0, 0
	}
	s := t.seats[seat]
	if s.Collapsed || !s.InHand() || !t.phase.Betting() {
		return 0, 0
	}
	hand = max(0, t.handGates-s.GatesThisHand)
	round = min(max(0, t.roundGates-s.GatesThisRound), hand)
	return round, hand
}

// ApplyGate applies (or previews) gate on seat's hole cards. cards holds hole
// card slots: one for X and Z, control then target for CNOT. Gates may be
// applied out of turn during any betting round. Previews are not counted
// against the allowance.
func (t *Table) ApplyGate(seat int, gate quantum.Gate, cards []int, previewOnly bool) (GateResult, error) {
	if !t.phase.Betting() {
		return GateResult{}, illegal("gates only during a betting round (phase %s)", t.phase)
	}
	if seat < 0 || seat >= len(t.seats) {
		return GateResult{}, illegal("seat %d does not exist", seat)
	}
	s := t.seats[seat]
	if s.State.Folded || len(s.HoleCards) != 2 {
		return GateResult{}, illegal("seat %d is not in the hand", seat)
	}
	if gate < quantum.GateX || gate > quantum.GateCNOT {
		return GateResult{}, illegal("unknown gate %d", gate)
	}
	if len(cards) != gate.Arity() {
		return GateResult{}, illegal("%s gate takes %d card(s), got %d", gate, gate.Arity(), len(cards))
	}
	for _, c := range cards {
		if c != 0 && c != 1 {
			return GateResult{}, illegal("card index %d out of range", c)
		}
	}
	if gate == quantum.GateCNOT && cards[0] == cards[1] {
		return GateResult{}, illegal("control and target must be different cards")
	}

	res := GateResult{Seat: seat, Gate: gate, Cards: cards, Preview: previewOnly}
	if previewOnly {
		switch gate {
		case quantum.GateX:
			res.Outcome = quantum.PreviewX(s.HoleCards[cards[0]])
		case quantum.GateZ:
			res.Outcome = quantum.PreviewZ(s.HoleCards[cards[0]])
		case quantum.GateCNOT:
			res.Outcome = quantum.PreviewCNOT(s.HoleCards[cards[0]], s.HoleCards[cards[1]])
		}
		res.RoundRemaining, res.HandRemaining = t.GateAllowance(seat)
		return res, nil
	}

	if s.Collapsed {
		return GateResult{}, overBudget("seat %d cards are collapsed", seat)
	}
	if s.GatesThisHand >= t.handGates {
		return GateResult{}, overBudget("seat %d used %d of %d gates this hand", seat, s.GatesThisHand, t.handGates)
	}
	if s.GatesThisRound >= t.roundGates {
		return GateResult{}, overBudget("seat %d used %d of %d gates this round", seat, s.GatesThisRound, t.roundGates)
	}

	switch gate {
	case quantum.GateX:
		res.Outcome = t.gates.ApplyX(&s.HoleCards[cards[0]])
	case quantum.GateZ:
		res.Outcome = t.gates.ApplyZ(&s.HoleCards[cards[0]])
	case quantum.GateCNOT:
		out, err := t.gates.ApplyCNOT(
			quantum.CardRef{Seat: seat, Slot: cards[0]},
			quantum.CardRef{Seat: seat, Slot: cards[1]},
			s.HoleCards[cards[0]], &s.HoleCards[cards[1]])
		if err != nil {
			if errors.Is(err, quantum.ErrSameCard) {
				return GateResult{}, illegal("%v", err)
			}
			return GateResult{}, err
		}
		res.Outcome = out
	}
	s.GatesThisRound++
	s.GatesThisHand++
	res.RoundRemaining, res.HandRemaining = t.GateAllowance(seat)

	t.logger.Debug("gate applied",
		"hand", t.handNumber,
		"seat", seat,
		"gate", gate,
		"cards", cards,
		"hand_remaining", res.HandRemaining)
	return res, nil
}

// CollapseCards resolves seat's hole cards to classical cards. The seat can
// apply no further gates this hand.
func (t *Table) CollapseCards(seat int) ([]quantum.Collapsed, error) {
	if !t.phase.Betting() {
		return nil, illegal("cards collapse only during a betting round (phase %s)", t.phase)
	}
	if seat < 0 || seat >= len(t.seats) {
		return nil, illegal("seat %d does not exist", seat)
	}
	s := t.seats[seat]
	if s.State.Folded || len(s.HoleCards) != 2 {
		return nil, illegal("seat %d is not in the hand", seat)
	}
	if s.Collapsed {
		return nil, overBudget("seat %d cards are already collapsed", seat)
	}
	return t.collapse(seat)
}

func (t *Table) collapse(seat int) ([]quantum.Collapsed, error) {
	s := t.seats[seat]
	refs := make([]quantum.CardRef, len(s.HoleCards))
	for i := range s.HoleCards {
		refs[i] = quantum.CardRef{Seat: seat, Slot: i}
	}
	steps, err := t.gates.Collapse(refs, s.HoleCards)
	if err != nil {
		return nil, err
	}
	s.Collapsed = true
	t.logger.Debug("cards collapsed", "hand", t.handNumber, "seat", seat, "cards", s.HoleCards)
	return steps, nil
}
