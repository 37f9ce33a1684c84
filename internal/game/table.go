package game

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/lox/quantumholdem/internal/quantum"
	"github.com/lox/quantumholdem/internal/randutil"
	"github.com/lox/quantumholdem/poker"
)

// Table runs successive hands for a fixed set of seats. It is a single
// state machine: callers must serialize access to one Table.
type Table struct {
	seats  []*Seat
	ledger *Ledger
	deck   *poker.Deck
	gates  *quantum.Engine
	logger *log.Logger

	smallBlind int
	bigBlind   int
	roundGates int
	handGates  int

	phase      Phase
	handNumber int
	button     int
	sbSeat     int
	bbSeat     int
	actor      int
	board      []poker.Card
	result     *HandResult
}

// NewTable creates a table for players with optional configuration. Seats
// are numbered in the order given.
//
//	t, err := game.NewTable(players, game.WithBlinds(5, 10), game.WithRNG(randutil.New(42)))
func NewTable(players []PlayerInfo, opts ...TableOption) (*Table, error) {
	cfg := defaultTableConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(len(players)); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if p.ID == "" {
			return nil, fmt.Errorf("%w: empty player id", ErrInvalidConfig)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: duplicate player id %q", ErrInvalidConfig, p.ID)
		}
		seen[p.ID] = true
	}

	rng := cfg.rng
	if rng == nil {
		rng = randutil.NewSecure()
	}
	logger := cfg.logger
	if logger == nil {
		logger = discardLogger()
	}

	seats := make([]*Seat, len(players))
	states := make([]*BetState, len(players))
	for i, p := range players {
		chips := cfg.startChips
		if cfg.chipCounts != nil {
			chips = cfg.chipCounts[i]
		}
		name := p.Name
		if name == "" {
			name = p.ID
		}
		seats[i] = &Seat{ID: p.ID, Name: name, Position: i, State: BetState{Chips: chips}}
		states[i] = &seats[i].State
	}

	return &Table{
		seats:      seats,
		ledger:     NewLedger(states, cfg.bigBlind),
		deck:       poker.NewDeck(rng),
		gates:      quantum.NewEngine(rng),
		logger:     logger.WithPrefix("table"),
		smallBlind: cfg.smallBlind,
		bigBlind:   cfg.bigBlind,
		roundGates: cfg.roundGates,
		handGates:  cfg.handGates,
		phase:      PhaseWaiting,
		button:     cfg.button - 1, // StartHand rotates onto cfg.button
		sbSeat:     -1,
		bbSeat:     -1,
		actor:      -1,
	}, nil
}

// Phase returns the current hand phase.
func (t *Table) Phase() Phase { return t.phase }

// Actor returns the seat due to act, or -1.
func (t *Table) Actor() int { return t.actor }

// Button returns the dealer seat of the current or last hand, or -1 before
// the first hand.
func (t *Table) Button() int {
	if t.handNumber == 0 {
		return -1
	}
	return t.button
}

// HandNumber returns the number of hands started.
func (t *Table) HandNumber() int { return t.handNumber }

// Board returns a copy of the community cards.
func (t *Table) Board() []poker.Card { return slices.Clone(t.board) }

// Pot returns the chips committed this hand.
func (t *Table) Pot() int { return t.ledger.Pot() }

// CurrentBet returns the amount to match in the current round.
func (t *Table) CurrentBet() int { return t.ledger.CurrentBet }

// Result returns the outcome of the last completed hand, if any.
func (t *Table) Result() *HandResult { return t.result }

// NumSeats returns the number of seats.
func (t *Table) NumSeats() int { return len(t.seats) }

// Seat returns a copy of seat i.
func (t *Table) Seat(i int) (Seat, bool) {
	if i < 0 || i >= len(t.seats) {
		return Seat{}, false
	}
	s := *t.seats[i]
	s.HoleCards = slices.Clone(s.HoleCards)
	return s, true
}

// SeatIndex returns the seat held by player id, or -1.
func (t *Table) SeatIndex(id string) int {
	for i, s := range t.seats {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// TotalChips returns all chips at the table, stacks plus committed.
func (t *Table) TotalChips() int {
	total := 0
	for _, s := range t.seats {
		total += s.State.Chips + s.State.Committed
	}
	return total
}

// CanStartHand reports whether no hand is running and more than one seat
// holds chips.
func (t *Table) CanStartHand() bool {
	if t.phase != PhaseWaiting && t.phase != PhaseComplete {
		return false
	}
	funded := 0
	for _, s := range t.seats {
		if s.State.Chips > 0 {
			funded++
		}
	}
	return funded > 1
}

// StartHand rotates the button, deals two hole cards to every funded seat,
// posts blinds and sets the first seat to act.
func (t *Table) StartHand() error {
	if t.phase != PhaseWaiting && t.phase != PhaseComplete {
		return illegal("hand in progress (phase %s)", t.phase)
	}
	if !t.CanStartHand() {
		return illegal("need at least two seats with chips")
	}

	t.phase = PhaseDealing
	t.handNumber++
	t.board = nil
	t.gates.Reset()
	for _, s := range t.seats {
		s.resetForHand()
	}

	t.button = t.nextFunded(t.button)
	order := t.dealOrder()
	if len(order) == 2 {
		t.sbSeat, t.bbSeat = t.button, order[0]
	} else {
		t.sbSeat, t.bbSeat = order[0], order[1]
	}
	t.seats[t.button].Dealer = true
	t.seats[t.sbSeat].SmallBlind = true
	t.seats[t.bbSeat].BigBlind = true

	t.deck.Build()
	t.deck.Shuffle()
	hands, err := t.deck.DealHoleCards(len(order))
	if err != nil {
		return t.abort(err)
	}
	for i, seat := range order {
		t.seats[seat].HoleCards = hands[i][:]
	}
	if err := t.deck.Verify(); err != nil {
		return t.abort(err)
	}

	t.ledger.CurrentBet = 0
	t.ledger.MinRaise = t.bigBlind
	t.ledger.PostBlinds(t.sbSeat, t.bbSeat, t.smallBlind, t.bigBlind)
	t.phase = PhasePreflop
	t.actor = t.nextToAct(t.bbSeat)

	t.logger.Info("hand started",
		"hand", t.handNumber,
		"button", t.button,
		"sb", t.sbSeat,
		"bb", t.bbSeat,
		"players", len(order))
	return nil
}

// nextFunded returns the first seat after from that holds chips.
func (t *Table) nextFunded(from int) int {
	n := len(t.seats)
	for i := 1; i <= n; i++ {
		seat := (from + i + n) % n
		if t.seats[seat].State.Chips > 0 {
			return seat
		}
	}
	return -1
}

// dealOrder lists the seats dealt into the hand starting after the button
// and ending with it.
func (t *Table) dealOrder() []int {
	n := len(t.seats)
	order := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		seat := (t.button + i) % n
		if !t.seats[seat].SittingOut {
			order = append(order, seat)
		}
	}
	return order
}

// nextToAct returns the first seat after from that owes a decision, or -1.
func (t *Table) nextToAct(from int) int {
	n := len(t.seats)
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		if t.ledger.NeedsAction(seat) {
			return seat
		}
	}
	return -1
}

// Act applies a betting action for seat. For Raise, amount is the total bet
// for the round. The seat must be the one due to act.
func (t *Table) Act(seat int, action Action, amount int) (ActionResult, error) {
	if !t.phase.Betting() {
		return ActionResult{}, illegal("no betting round in progress (phase %s)", t.phase)
	}
	if seat < 0 || seat >= len(t.seats) {
		return ActionResult{}, illegal("seat %d does not exist", seat)
	}
	if t.seats[seat].State.Folded {
		return ActionResult{}, illegal("seat %d has folded", seat)
	}
	if seat != t.actor {
		return ActionResult{}, illegal("not seat %d's turn (waiting on seat %d)", seat, t.actor)
	}

	before := t.seats[seat].State.Committed
	applied, err := t.ledger.Apply(seat, action, amount)
	if err != nil {
		return ActionResult{}, err
	}

	res := ActionResult{
		Seat:       seat,
		Action:     applied,
		Amount:     t.seats[seat].State.Committed - before,
		CurrentBet: t.ledger.CurrentBet,
	}
	t.logger.Debug("action", "hand", t.handNumber, "seat", seat, "action", applied, "amount", res.Amount)

	if len(t.ledger.Live()) == 1 {
		res.Pot = t.ledger.Pot()
		res.Hand = t.awardUncontested()
		res.RoundComplete = true
		res.NextActor = -1
		return res, nil
	}

	if t.ledger.RoundComplete() {
		t.actor = -1
		res.RoundComplete = true
	} else {
		t.actor = t.nextToAct(seat)
	}
	res.Pot = t.ledger.Pot()
	res.NextActor = t.actor
	return res, nil
}

// DealNextStreet moves to the next street once the betting round is
// complete. From the river it runs the showdown. If folds left one seat the
// hand is awarded without dealing.
func (t *Table) DealNextStreet() (StreetResult, error) {
	if !t.phase.Betting() {
		return StreetResult{}, illegal("no betting round in progress (phase %s)", t.phase)
	}
	if !t.ledger.RoundComplete() {
		return StreetResult{}, illegal("betting round not complete (waiting on seat %d)", t.actor)
	}
	if len(t.ledger.Live()) == 1 {
		hand := t.awardUncontested()
		return StreetResult{Phase: t.phase, Board: t.Board(), NextActor: -1, Hand: hand}, nil
	}
	if t.phase == PhaseRiver {
		hand, err := t.showdown()
		if err != nil {
			return StreetResult{}, err
		}
		return StreetResult{Phase: t.phase, Board: t.Board(), NextActor: -1, Hand: hand}, nil
	}

	dealt, err := t.dealStreet()
	if err != nil {
		return StreetResult{}, err
	}
	return StreetResult{Phase: t.phase, Dealt: dealt, Board: t.Board(), NextActor: t.actor}, nil
}

func (t *Table) dealStreet() ([]poker.Card, error) {
	var (
		dealt []poker.Card
		err   error
		next  Phase
	)
	switch t.phase {
	case PhasePreflop:
		dealt, err = t.deck.DealFlop()
		next = PhaseFlop
	case PhaseFlop:
		var c poker.Card
		c, err = t.deck.DealTurn()
		dealt, next = []poker.Card{c}, PhaseTurn
	case PhaseTurn:
		var c poker.Card
		c, err = t.deck.DealRiver()
		dealt, next = []poker.Card{c}, PhaseRiver
	default:
		return nil, illegal("cannot deal a street in phase %s", t.phase)
	}
	if err != nil {
		return nil, t.abort(err)
	}
	if err := t.deck.Verify(); err != nil {
		return nil, t.abort(err)
	}

	t.board = append(t.board, dealt...)
	t.phase = next
	t.ledger.NewRound()
	for _, s := range t.seats {
		s.GatesThisRound = 0
	}
	t.actor = t.nextToAct(t.button)
	t.logger.Debug("street dealt", "hand", t.handNumber, "phase", t.phase, "cards", dealt)
	return dealt, nil
}

// ForceShowdown runs out any remaining streets and shows down. It is legal
// once the current round is complete and either the river has been dealt or
// no more than one seat can still bet.
func (t *Table) ForceShowdown() (*HandResult, error) {
	if !t.phase.Betting() {
		return nil, illegal("no betting round in progress (phase %s)", t.phase)
	}
	if !t.ledger.RoundComplete() {
		return nil, illegal("betting round not complete (waiting on seat %d)", t.actor)
	}
	if len(t.ledger.Live()) == 1 {
		return t.awardUncontested(), nil
	}
	if t.phase != PhaseRiver && t.ledger.ActiveCount() > 1 {
		return nil, illegal("betting still open on the %s", t.phase)
	}
	for t.phase != PhaseRiver {
		if _, err := t.dealStreet(); err != nil {
			return nil, err
		}
	}
	return t.showdown()
}

// showdown collapses remaining hole cards, evaluates every live hand, builds
// side pots and pays them out.
func (t *Table) showdown() (*HandResult, error) {
	t.phase = PhaseShowdown
	t.actor = -1
	result := &HandResult{
		HandNumber: t.handNumber,
		Showdown:   true,
		Board:      t.Board(),
		Hands:      map[int]poker.HandValue{},
		Revealed:   map[int][]poker.Card{},
	}

	hands := map[int][]poker.Card{}
	for _, seat := range t.ledger.Live() {
		s := t.seats[seat]
		if !s.Collapsed {
			steps, err := t.collapse(seat)
			if err != nil {
				return nil, t.abort(err)
			}
			result.Collapses = append(result.Collapses, steps...)
		}
		result.Revealed[seat] = slices.Clone(s.HoleCards)

		cards := slices.Clone(t.board)
		for _, c := range s.HoleCards {
			if c.Defined() {
				cards = append(cards, c)
			}
		}
		if len(cards) < 5 {
			continue
		}
		v, err := poker.Evaluate(cards)
		if err != nil {
			return nil, t.abort(err)
		}
		result.Hands[seat] = v
		hands[seat] = cards
	}

	result.Pots = BuildPots(t.ledger.Seats)
	awards, err := Distribute(result.Pots, hands, t.dealOrder())
	if err != nil {
		return nil, t.abort(err)
	}
	result.Awards = awards
	t.pay(result)
	t.finish(result)
	return result, nil
}

// awardUncontested gives the whole pot to the only seat left.
func (t *Table) awardUncontested() *HandResult {
	winner := t.ledger.Live()[0]
	total := t.ledger.Pot()
	result := &HandResult{
		HandNumber:  t.handNumber,
		Uncontested: true,
		Board:       t.Board(),
		Pots:        []Pot{{Amount: total, Eligible: []int{winner}, Main: true}},
		Awards: []PotAward{{
			Amount:  total,
			Winners: []int{winner},
			Shares:  map[int]int{winner: total},
		}},
	}
	t.pay(result)
	t.finish(result)
	return result
}

func (t *Table) pay(result *HandResult) {
	result.Payouts = Payouts(result.Awards)
	for seat, amt := range result.Payouts {
		t.seats[seat].State.Chips += amt
	}
	for seat, amt := range result.Payouts {
		if amt > 0 {
			result.Winners = append(result.Winners, seat)
		}
	}
	slices.Sort(result.Winners)
	for _, s := range t.seats {
		s.State.Committed = 0
		s.State.Bet = 0
	}
}

func (t *Table) finish(result *HandResult) {
	t.phase = PhaseComplete
	t.actor = -1
	t.result = result
	t.logger.Info("hand complete",
		"hand", t.handNumber,
		"winners", result.Winners,
		"showdown", result.Showdown,
		"aborted", result.Aborted)
}

// abort ends the hand after a deck failure, refunding every committed chip.
func (t *Table) abort(cause error) error {
	t.ledger.Refund()
	result := &HandResult{
		HandNumber: t.handNumber,
		Aborted:    true,
		Reason:     cause.Error(),
		Board:      t.Board(),
	}
	t.phase = PhaseComplete
	t.actor = -1
	t.result = result
	t.logger.Error("hand aborted", "hand", t.handNumber, "err", cause)
	return fmt.Errorf("hand %d aborted: %w", t.handNumber, cause)
}
