package game

import (
	"github.com/lox/quantumholdem/poker"
)

// Spectator is the viewer index for a snapshot that reveals no hole cards
// until showdown.
const Spectator = -1

// CardView is the serializable form of an encoded card.
type CardView struct {
	Card    string `json:"card"`  // "A♥", or "??" when undefined
	State   string `json:"state"` // "|01100⟩+"
	Bits    uint8  `json:"bits"`
	Sign    int    `json:"sign"`
	Defined bool   `json:"defined"`
}

func viewCards(cards []poker.Card) []CardView {
	if cards == nil {
		return nil
	}
	out := make([]CardView, len(cards))
	for i, c := range cards {
		out[i] = CardView{
			Card:    c.String(),
			State:   c.State(),
			Bits:    c.Bits,
			Sign:    int(c.Sign),
			Defined: c.Defined(),
		}
	}
	return out
}

// LegalActions lists what a seat may do right now.
type LegalActions struct {
	Actions     []Action `json:"actions"`
	CallAmount  int      `json:"call_amount"`
	MinRaiseTo  int      `json:"min_raise_to"`
	MaxRaiseTo  int      `json:"max_raise_to"`
	GatesRound  int      `json:"gates_round"` // Remaining this round
	GatesHand   int      `json:"gates_hand"`  // Remaining this hand
	CanCollapse bool     `json:"can_collapse"`
}

// Can reports whether a is among the legal actions.
func (l LegalActions) Can(a Action) bool {
	for _, x := range l.Actions {
		if x == a {
			return true
		}
	}
	return false
}

// SeatView is one seat as seen by the snapshot's viewer.
type SeatView struct {
	Position       int          `json:"position"`
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Chips          int          `json:"chips"`
	Bet            int          `json:"bet"`
	Committed      int          `json:"committed"`
	Folded         bool         `json:"folded"`
	AllIn          bool         `json:"all_in"`
	Acted          bool         `json:"acted"`
	SittingOut     bool         `json:"sitting_out"`
	Dealer         bool         `json:"dealer"`
	SmallBlind     bool         `json:"small_blind"`
	BigBlind       bool         `json:"big_blind"`
	Collapsed      bool         `json:"collapsed"`
	GatesThisRound int          `json:"gates_this_round"`
	GatesThisHand  int          `json:"gates_this_hand"`
	CardCount      int          `json:"card_count"`
	HoleCards      []CardView   `json:"hole_cards,omitempty"` // Only for the viewer, or at showdown
	Legal          LegalActions `json:"legal"`
}

// Snapshot is the full serializable table state for one viewer.
type Snapshot struct {
	HandNumber int         `json:"hand_number"`
	Phase      Phase       `json:"phase"`
	Pot        int         `json:"pot"`
	CurrentBet int         `json:"current_bet"`
	MinRaise   int         `json:"min_raise"`
	SmallBlind int         `json:"small_blind"`
	BigBlind   int         `json:"big_blind"`
	Button     int         `json:"button"`
	Actor      int         `json:"actor"`
	Viewer     int         `json:"viewer"`
	Board      []CardView  `json:"board"`
	Seats      []SeatView  `json:"seats"`
	LastResult *HandResult `json:"last_result,omitempty"`
}

// Snapshot returns the table state as seen by viewer, a seat index or
// Spectator. Hole cards of other seats are hidden until the showdown.
func (t *Table) Snapshot(viewer int) Snapshot {
	snap := Snapshot{
		HandNumber: t.handNumber,
		Phase:      t.phase,
		Pot:        t.ledger.Pot(),
		CurrentBet: t.ledger.CurrentBet,
		MinRaise:   t.ledger.MinRaise,
		SmallBlind: t.smallBlind,
		BigBlind:   t.bigBlind,
		Button:     t.Button(),
		Actor:      t.actor,
		Viewer:     viewer,
		Board:      viewCards(t.board),
		Seats:      make([]SeatView, len(t.seats)),
		LastResult: t.result,
	}

	var revealed map[int][]poker.Card
	if t.result != nil && t.phase == PhaseComplete {
		revealed = t.result.Revealed
	}

	for i, s := range t.seats {
		v := SeatView{
			Position:       i,
			ID:             s.ID,
			Name:           s.Name,
			Chips:          s.State.Chips,
			Bet:            s.State.Bet,
			Committed:      s.State.Committed,
			Folded:         s.State.Folded,
			AllIn:          s.State.AllIn,
			Acted:          s.State.Acted,
			SittingOut:     s.SittingOut,
			Dealer:         s.Dealer,
			SmallBlind:     s.SmallBlind,
			BigBlind:       s.BigBlind,
			Collapsed:      s.Collapsed,
			GatesThisRound: s.GatesThisRound,
			GatesThisHand:  s.GatesThisHand,
			CardCount:      len(s.HoleCards),
			Legal:          t.LegalActions(i),
		}
		switch {
		case i == viewer:
			v.HoleCards = viewCards(s.HoleCards)
		case revealed != nil && revealed[i] != nil:
			v.HoleCards = viewCards(revealed[i])
		}
		snap.Seats[i] = v
	}
	return snap
}

// LegalActions returns what seat may do now. Betting actions are only listed
// for the seat due to act.
func (t *Table) LegalActions(seat int) LegalActions {
	var out LegalActions
	if seat < 0 || seat >= len(t.seats) {
		return out
	}
	out.GatesRound, out.GatesHand = t.GateAllowance(seat)
	s := t.seats[seat]
	out.CanCollapse = t.phase.Betting() && s.InHand() && !s.Collapsed

	if !t.phase.Betting() || seat != t.actor {
		return out
	}
	l := t.ledger
	out.Actions = append(out.Actions, Fold)
	if l.CanCheck(seat) {
		out.Actions = append(out.Actions, Check)
	}
	if l.CanCall(seat) {
		out.CallAmount = min(l.ToCall(seat), s.State.Chips)
		if l.ToCall(seat) < s.State.Chips {
			out.Actions = append(out.Actions, Call)
		}
	}
	if l.CanRaise(seat) {
		out.MinRaiseTo = l.MinRaiseTo(seat)
		out.MaxRaiseTo = l.MaxRaiseTo(seat)
		if out.MinRaiseTo < out.MaxRaiseTo {
			out.Actions = append(out.Actions, Raise)
		}
	}
	if s.State.Chips > 0 && (l.CanRaise(seat) || l.MaxRaiseTo(seat) <= l.CurrentBet) {
		out.Actions = append(out.Actions, AllIn)
	}
	return out
}
