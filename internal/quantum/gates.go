// Package quantum implements the gate operations that players may apply to
// encoded hole cards: bit-flip (X), phase-flip (Z) and the entangling
// controlled flip (CNOT), plus joint collapse of entangled cards.
//
// The engine knows nothing about budgets or turn order. Previews are pure;
// only the Apply methods mutate cards.
package quantum

import (
	"fmt"
	"strings"

	"github.com/lox/quantumholdem/poker"
)

// Gate identifies a gate operation.
type Gate uint8

const (
	GateX Gate = iota + 1
	GateZ
	GateCNOT
)

func (g Gate) String() string {
	switch g {
	case GateX:
		return "X"
	case GateZ:
		return "Z"
	case GateCNOT:
		return "CNOT"
	default:
		return "unknown"
	}
}

// Arity returns the number of cards the gate operates on.
func (g Gate) Arity() int {
	if g == GateCNOT {
		return 2
	}
	return 1
}

// ParseGate parses "x", "z" or "cnot" (case-insensitive).
func ParseGate(s string) (Gate, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x", "bitflip", "bit_flip":
		return GateX, nil
	case "z", "phaseflip", "phase_flip":
		return GateZ, nil
	case "cnot", "cx":
		return GateCNOT, nil
	}
	return 0, fmt.Errorf("unknown gate %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (g Gate) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Gate) UnmarshalText(b []byte) error {
	parsed, err := ParseGate(string(b))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Outcome is the result of a gate. It is one of XOutcome, ZOutcome,
// CNOTOutcome or CNOTPreview.
type Outcome interface {
	Gate() Gate
	outcome()
}

// XOutcome reports a bit-flip. Qubit is -1 when no position produced a
// defined card and the card was left unchanged.
type XOutcome struct {
	Before poker.Card `json:"before"`
	After  poker.Card `json:"after"`
	Qubit  int        `json:"qubit"`
}

// NoOp reports whether the flip left the card unchanged.
func (o XOutcome) NoOp() bool { return o.Qubit < 0 }

func (XOutcome) Gate() Gate { return GateX }
func (XOutcome) outcome()   {}

// ZOutcome reports a phase flip. Undefined is set when the new state has no
// classical card.
type ZOutcome struct {
	Before    poker.Card `json:"before"`
	After     poker.Card `json:"after"`
	Undefined bool       `json:"undefined"`
}

func (ZOutcome) Gate() Gate { return GateZ }
func (ZOutcome) outcome()   {}

// CNOTOutcome reports an applied controlled flip on the chosen qubit.
type CNOTOutcome struct {
	Control      poker.Card `json:"control"`
	TargetBefore poker.Card `json:"target_before"`
	TargetAfter  poker.Card `json:"target_after"`
	Qubit        int        `json:"qubit"`
	Flipped      bool       `json:"flipped"`
	Undefined    bool       `json:"undefined"`
}

func (CNOTOutcome) Gate() Gate { return GateCNOT }
func (CNOTOutcome) outcome()   {}

// CNOTBranch is the projected result of a CNOT for one qubit choice.
type CNOTBranch struct {
	Qubit     int        `json:"qubit"`
	Flipped   bool       `json:"flipped"`
	Target    poker.Card `json:"target"`
	Undefined bool       `json:"undefined"`
}

// CNOTPreview lists every possible CNOT result, one per qubit position.
type CNOTPreview struct {
	Control  poker.Card                    `json:"control"`
	Target   poker.Card                    `json:"target"`
	Branches [poker.QubitCount]CNOTBranch `json:"branches"`
}

func (CNOTPreview) Gate() Gate { return GateCNOT }
func (CNOTPreview) outcome()   {}

// PreviewX projects a bit-flip: the lowest qubit whose flip yields a defined
// card is chosen. The card is not modified.
func PreviewX(c poker.Card) XOutcome {
	for q := range poker.QubitCount {
		if next := c.FlipQubit(q); next.Defined() {
			return XOutcome{Before: c, After: next, Qubit: q}
		}
	}
	return XOutcome{Before: c, After: c, Qubit: -1}
}

// PreviewZ projects a phase flip.
func PreviewZ(c poker.Card) ZOutcome {
	next := poker.Card{Bits: c.Bits, Sign: c.Sign.Flip()}
	return ZOutcome{Before: c, After: next, Undefined: !next.Defined()}
}

// PreviewCNOT projects the controlled flip for all five qubit choices.
func PreviewCNOT(control, target poker.Card) CNOTPreview {
	p := CNOTPreview{Control: control, Target: target}
	for q := range poker.QubitCount {
		p.Branches[q] = cnotBranch(control, target, q)
	}
	return p
}

func cnotBranch(control, target poker.Card, q int) CNOTBranch {
	b := CNOTBranch{Qubit: q, Target: target}
	if control.Qubit(q) == 1 {
		b.Flipped = true
		b.Target = target.FlipQubit(q)
	}
	b.Undefined = !b.Target.Defined()
	return b
}
