package quantum

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/quantumholdem/internal/randutil"
	"github.com/lox/quantumholdem/poker"
)

// ErrSameCard is returned when a CNOT names one card as both control and target.
var ErrSameCard = errors.New("control and target must be different cards")

// CardRef addresses one hole card: the seat index and slot (0 or 1).
type CardRef struct {
	Seat int `json:"seat"`
	Slot int `json:"slot"`
}

func (r CardRef) String() string {
	return fmt.Sprintf("seat%d/%d", r.Seat, r.Slot)
}

// Engine applies gates for one table. Entanglement links live in a side
// table keyed by CardRef and are cleared by Reset at the start of each hand.
type Engine struct {
	rng      *rand.Rand
	links    map[CardRef]CardRef
	resolved map[CardRef]bool
}

// NewEngine creates an engine. A nil rng selects the secure source.
func NewEngine(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = randutil.NewSecure()
	}
	return &Engine{
		rng:      rng,
		links:    make(map[CardRef]CardRef),
		resolved: make(map[CardRef]bool),
	}
}

// Reset clears all entanglement links and resolution marks.
func (e *Engine) Reset() {
	clear(e.links)
	clear(e.resolved)
}

// ApplyX flips the lowest qubit that yields a defined card.
func (e *Engine) ApplyX(c *poker.Card) XOutcome {
	out := PreviewX(*c)
	*c = out.After
	return out
}

// ApplyZ negates the card's sign.
func (e *Engine) ApplyZ(c *poker.Card) ZOutcome {
	out := PreviewZ(*c)
	*c = out.After
	return out
}

// ApplyCNOT picks a random qubit, flips target's bit there when control's
// bit is set, and links the two cards whether or not target changed.
func (e *Engine) ApplyCNOT(ctrlRef, tgtRef CardRef, control poker.Card, target *poker.Card) (CNOTOutcome, error) {
	if ctrlRef == tgtRef {
		return CNOTOutcome{}, ErrSameCard
	}
	q := e.rng.IntN(poker.QubitCount)
	b := cnotBranch(control, *target, q)
	out := CNOTOutcome{
		Control:      control,
		TargetBefore: *target,
		TargetAfter:  b.Target,
		Qubit:        q,
		Flipped:      b.Flipped,
		Undefined:    b.Undefined,
	}
	*target = b.Target
	e.link(ctrlRef, tgtRef)
	return out, nil
}

func (e *Engine) link(a, b CardRef) {
	for _, r := range []CardRef{a, b} {
		if old, ok := e.links[r]; ok {
			delete(e.links, old)
		}
	}
	e.links[a] = b
	e.links[b] = a
}

// Partner returns the card ref is entangled with, if any.
func (e *Engine) Partner(ref CardRef) (CardRef, bool) {
	p, ok := e.links[ref]
	return p, ok
}

// Resolved reports whether ref has been collapsed this hand.
func (e *Engine) Resolved(ref CardRef) bool {
	return e.resolved[ref]
}

// Resolution is the classical reading of one card at collapse.
type Resolution struct {
	Ref       CardRef         `json:"ref"`
	Card      poker.Card      `json:"card"`
	Classical poker.Classical `json:"classical"`
	Defined   bool            `json:"defined"`
}

// Collapsed is one collapse step. Partner is set when the card's entangled
// partner was in the same set and resolved jointly.
type Collapsed struct {
	Resolution
	Partner *Resolution `json:"partner,omitempty"`
}

func resolve(ref CardRef, c poker.Card) Resolution {
	cl, ok := c.Decode()
	return Resolution{Ref: ref, Card: c, Classical: cl, Defined: ok}
}

// Collapse decodes each card in refs (cards[i] is the current state of
// refs[i]). Entangled pairs within the set are reported once, together.
// Card bits are never modified.
func (e *Engine) Collapse(refs []CardRef, cards []poker.Card) ([]Collapsed, error) {
	if len(refs) != len(cards) {
		return nil, fmt.Errorf("collapse: %d refs for %d cards", len(refs), len(cards))
	}
	index := make(map[CardRef]int, len(refs))
	for i, r := range refs {
		index[r] = i
	}

	done := make(map[CardRef]bool, len(refs))
	out := make([]Collapsed, 0, len(refs))
	for i, r := range refs {
		if done[r] {
			continue
		}
		step := Collapsed{Resolution: resolve(r, cards[i])}
		done[r] = true
		if p, ok := e.links[r]; ok {
			if j, inSet := index[p]; inSet && !done[p] {
				partner := resolve(p, cards[j])
				step.Partner = &partner
				done[p] = true
			}
		}
		out = append(out, step)
	}
	for r := range done {
		e.resolved[r] = true
	}
	return out, nil
}
