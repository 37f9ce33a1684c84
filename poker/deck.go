package poker

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/quantumholdem/internal/randutil"
)

var (
	// ErrInsufficientCards is returned when a required deal cannot be met.
	ErrInsufficientCards = errors.New("insufficient cards in deck")
	// ErrDeckCorrupted is returned when the draw, dealt and burn piles no
	// longer hold exactly the 52 distinct canonical encodings.
	ErrDeckCorrupted = errors.New("deck integrity violation")
)

// DeckSize is the number of cards in a full deck.
const DeckSize = 52

// Deck holds the draw pile plus the dealt and burn piles for one hand.
// Cards leave from the front of the draw pile.
type Deck struct {
	draw   []Card
	dealt  []Card
	burned []Card
	rng    *rand.Rand // Random source for shuffling; secure when not injected
}

// NewDeck builds a deck in canonical order. A nil rng selects the secure
// source. The deck is not shuffled.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = randutil.NewSecure()
	}
	d := &Deck{rng: rng}
	d.Build()
	return d
}

// Build populates the draw pile with the 52 canonical encodings and clears
// the dealt and burn piles.
func (d *Deck) Build() {
	cards := CanonicalCards()
	d.draw = append(d.draw[:0], cards[:]...)
	d.dealt = d.dealt[:0]
	d.burned = d.burned[:0]
}

// Shuffle shuffles the draw pile using Fisher-Yates with the deck's source.
func (d *Deck) Shuffle() {
	shuffle(d.draw, d.rng)
}

// ShuffleSeed shuffles the draw pile with a reproducible source derived
// only from seed. Intended for deterministic tests.
func (d *Deck) ShuffleSeed(seed int64) {
	shuffle(d.draw, randutil.New(seed))
}

func shuffle(cards []Card, rng *rand.Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Deal moves up to n cards from the front of the draw pile to the dealt pile.
// It returns fewer than n cards when the draw pile runs out.
func (d *Deck) Deal(n int) []Card {
	if n <= 0 {
		return nil
	}
	n = min(n, len(d.draw))
	cards := make([]Card, n)
	copy(cards, d.draw[:n])
	d.draw = d.draw[n:]
	d.dealt = append(d.dealt, cards...)
	return cards
}

// DealOne deals a single card. The second value is false if the pile is empty.
func (d *Deck) DealOne() (Card, bool) {
	cards := d.Deal(1)
	if len(cards) == 0 {
		return Card{}, false
	}
	return cards[0], true
}

// Burn moves one card from the front of the draw pile to the burn pile
// without exposing it.
func (d *Deck) Burn() bool {
	if len(d.draw) == 0 {
		return false
	}
	d.burned = append(d.burned, d.draw[0])
	d.draw = d.draw[1:]
	return true
}

// DealHoleCards deals two cards to each of numSeats seats, one card per seat
// per pass. Seat i of the result is the i-th seat in dealing order.
func (d *Deck) DealHoleCards(numSeats int) ([][2]Card, error) {
	if need := numSeats * 2; len(d.draw) < need {
		return nil, fmt.Errorf("%w: hole cards need %d, have %d", ErrInsufficientCards, need, len(d.draw))
	}
	hands := make([][2]Card, numSeats)
	for pass := range 2 {
		for seat := range numSeats {
			c, _ := d.DealOne()
			hands[seat][pass] = c
		}
	}
	return hands, nil
}

// DealFlop burns one card then deals three.
func (d *Deck) DealFlop() ([]Card, error) {
	return d.burnAndDeal("flop", 3)
}

// DealTurn burns one card then deals one.
func (d *Deck) DealTurn() (Card, error) {
	cards, err := d.burnAndDeal("turn", 1)
	if err != nil {
		return Card{}, err
	}
	return cards[0], nil
}

// DealRiver burns one card then deals one.
func (d *Deck) DealRiver() (Card, error) {
	cards, err := d.burnAndDeal("river", 1)
	if err != nil {
		return Card{}, err
	}
	return cards[0], nil
}

func (d *Deck) burnAndDeal(street string, n int) ([]Card, error) {
	if need := n + 1; len(d.draw) < need {
		return nil, fmt.Errorf("%w: %s needs %d, have %d", ErrInsufficientCards, street, need, len(d.draw))
	}
	d.Burn()
	return d.Deal(n), nil
}

// Reset restores the draw pile to the canonical build order (unshuffled)
// and clears the dealt and burn piles.
func (d *Deck) Reset() {
	d.Build()
}

// Remaining returns the number of cards left in the draw pile.
func (d *Deck) Remaining() int { return len(d.draw) }

// DealtCount returns the number of cards dealt this hand.
func (d *Deck) DealtCount() int { return len(d.dealt) }

// BurnedCount returns the number of cards burned this hand.
func (d *Deck) BurnedCount() int { return len(d.burned) }

// Peek returns up to n cards from the front of the draw pile without dealing.
func (d *Deck) Peek(n int) []Card {
	n = max(0, min(n, len(d.draw)))
	out := make([]Card, n)
	copy(out, d.draw[:n])
	return out
}

// Find returns the draw pile index of c, or -1.
func (d *Deck) Find(c Card) int {
	for i, dc := range d.draw {
		if dc == c {
			return i
		}
	}
	return -1
}

// Verify checks that draw+dealt+burn hold exactly the 52 distinct canonical
// encodings. Any deviation is an internal-consistency failure.
func (d *Deck) Verify() error {
	total := len(d.draw) + len(d.dealt) + len(d.burned)
	if total != DeckSize {
		return fmt.Errorf("%w: %d cards across piles", ErrDeckCorrupted, total)
	}
	var seen [2 * StateCount]bool
	for _, pile := range [][]Card{d.draw, d.dealt, d.burned} {
		for _, c := range pile {
			if !c.Defined() {
				return fmt.Errorf("%w: undefined state %s in deck", ErrDeckCorrupted, c.State())
			}
			if seen[c.Key()] {
				return fmt.Errorf("%w: duplicate %s", ErrDeckCorrupted, c)
			}
			seen[c.Key()] = true
		}
	}
	return nil
}
