package poker

import (
	"errors"
	"fmt"
	"strings"
)

// Rank is a classical card rank, Two (2) through Ace (14).
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the short rank symbol ("2".."9", "10", "J", "Q", "K", "A").
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Ten:
		return fmt.Sprintf("%d", r)
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	}
	return "?"
}

// Name returns the long rank name used in hand labels.
func (r Rank) Name() string {
	switch r {
	case Jack:
		return "Jack"
	case Queen:
		return "Queen"
	case King:
		return "King"
	case Ace:
		return "Ace"
	}
	return r.String()
}

// Suit is a classical card suit. Hearts and diamonds carry a positive sign,
// spades and clubs a negative one.
type Suit uint8

const (
	Hearts Suit = iota
	Diamonds
	Spades
	Clubs
)

func (s Suit) String() string {
	return [...]string{"♥", "♦", "♠", "♣"}[s&3]
}

// Letter returns the ASCII suit letter (h, d, s, c).
func (s Suit) Letter() byte {
	return "hdsc"[s&3]
}

// Sign is the amplitude sign carried by an encoded card.
type Sign int8

const (
	Positive Sign = 1
	Negative Sign = -1
)

func (s Sign) String() string {
	if s == Negative {
		return "-"
	}
	return "+"
}

// Flip returns the opposite sign.
func (s Sign) Flip() Sign {
	if s == Negative {
		return Positive
	}
	return Negative
}

// QubitCount is the number of qubits (bits) carried by every encoded card.
const QubitCount = 5

// StateCount is the number of distinct 5-bit values per sign.
const StateCount = 1 << QubitCount

// ErrUnknownCard is returned when a rank/suit pair or string is not one of the
// 52 canonical cards.
var ErrUnknownCard = errors.New("unknown card")

// Classical is a decoded playing card.
type Classical struct {
	Rank Rank
	Suit Suit
}

func (c Classical) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Card is an encoded card: a 5-bit qubit state plus an amplitude sign.
// Its identity is the (Bits, Sign) pair; the value is immutable and gate
// operations produce new values.
type Card struct {
	Bits uint8 `json:"bits"`
	Sign Sign  `json:"sign"`
}

// decodeTable[signIndex][bits] holds the classical card for each state.
// States 26..31 of each sign stay undefined.
var (
	decodeTable [2][StateCount]Classical
	definedMask [2][StateCount]bool
	encodeTable [4][Ace + 1]Card
	canonical   [52]Card
)

func init() {
	i := 0
	for _, group := range []struct {
		sign  Sign
		suits [2]Suit
	}{
		{Positive, [2]Suit{Hearts, Diamonds}},
		{Negative, [2]Suit{Spades, Clubs}},
	} {
		state := uint8(0)
		for _, suit := range group.suits {
			for rank := Two; rank <= Ace; rank++ {
				c := Card{Bits: state, Sign: group.sign}
				decodeTable[signIndex(group.sign)][state] = Classical{Rank: rank, Suit: suit}
				definedMask[signIndex(group.sign)][state] = true
				encodeTable[suit][rank] = c
				canonical[i] = c
				i++
				state++
			}
		}
	}
}

func signIndex(s Sign) int {
	if s == Negative {
		return 1
	}
	return 0
}

// Decode looks up the classical card for the encoded state. The second return
// value is false for the 12 undefined states.
func (c Card) Decode() (Classical, bool) {
	if c.Bits >= StateCount || (c.Sign != Positive && c.Sign != Negative) {
		return Classical{}, false
	}
	idx := signIndex(c.Sign)
	if !definedMask[idx][c.Bits] {
		return Classical{}, false
	}
	return decodeTable[idx][c.Bits], true
}

// Defined reports whether the card decodes to a classical card.
func (c Card) Defined() bool {
	_, ok := c.Decode()
	return ok
}

// Encode returns the encoded form of a canonical card.
func Encode(rank Rank, suit Suit) (Card, error) {
	if rank < Two || rank > Ace || suit > Clubs {
		return Card{}, fmt.Errorf("%w: rank %d suit %d", ErrUnknownCard, rank, suit)
	}
	return encodeTable[suit][rank], nil
}

// MustEncode is Encode for known-good inputs.
func MustEncode(rank Rank, suit Suit) Card {
	c, err := Encode(rank, suit)
	if err != nil {
		panic(err)
	}
	return c
}

// CanonicalCards returns the 52 defined encodings in deck build order:
// hearts, diamonds, spades, clubs, each Two through Ace.
func CanonicalCards() [52]Card {
	return canonical
}

// FlipQubit returns the card with qubit q (0 = most significant) inverted.
func (c Card) FlipQubit(q int) Card {
	c.Bits ^= 1 << (QubitCount - 1 - q)
	return c
}

// Qubit returns the value (0 or 1) of qubit q (0 = most significant).
func (c Card) Qubit(q int) uint8 {
	return (c.Bits >> (QubitCount - 1 - q)) & 1
}

// Key returns a dense index in [0, 64) unique to the (Bits, Sign) identity.
func (c Card) Key() int {
	return signIndex(c.Sign)*StateCount + int(c.Bits&(StateCount-1))
}

// State renders the raw encoded state, e.g. "|01100⟩+".
func (c Card) State() string {
	return fmt.Sprintf("|%05b⟩%s", c.Bits, c.Sign)
}

// String renders the classical card ("A♥") or "??" for undefined states.
func (c Card) String() string {
	cl, ok := c.Decode()
	if !ok {
		return "??"
	}
	return cl.String()
}

// Short renders the two-character ASCII form ("Ah", "Tc") or "??".
func (c Card) Short() string {
	cl, ok := c.Decode()
	if !ok {
		return "??"
	}
	r := cl.Rank.String()
	if cl.Rank == Ten {
		r = "T"
	}
	return r + string(cl.Suit.Letter())
}

// ParseCard parses a string like "As", "Th", "10♦" into an encoded card.
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrUnknownCard, s)
	}

	var suit Suit
	rest := s
	switch {
	case strings.HasSuffix(s, "♥"):
		suit, rest = Hearts, strings.TrimSuffix(s, "♥")
	case strings.HasSuffix(s, "♦"):
		suit, rest = Diamonds, strings.TrimSuffix(s, "♦")
	case strings.HasSuffix(s, "♠"):
		suit, rest = Spades, strings.TrimSuffix(s, "♠")
	case strings.HasSuffix(s, "♣"):
		suit, rest = Clubs, strings.TrimSuffix(s, "♣")
	default:
		switch s[len(s)-1] {
		case 'h', 'H':
			suit = Hearts
		case 'd', 'D':
			suit = Diamonds
		case 's', 'S':
			suit = Spades
		case 'c', 'C':
			suit = Clubs
		default:
			return Card{}, fmt.Errorf("%w: invalid suit in %q", ErrUnknownCard, s)
		}
		rest = s[:len(s)-1]
	}

	var rank Rank
	switch strings.ToUpper(rest) {
	case "2":
		rank = Two
	case "3":
		rank = Three
	case "4":
		rank = Four
	case "5":
		rank = Five
	case "6":
		rank = Six
	case "7":
		rank = Seven
	case "8":
		rank = Eight
	case "9":
		rank = Nine
	case "T", "10":
		rank = Ten
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	case "A":
		rank = Ace
	default:
		return Card{}, fmt.Errorf("%w: invalid rank in %q", ErrUnknownCard, s)
	}

	return Encode(rank, suit)
}

// MustParseCards parses a space separated card list, panicking on error.
// Intended for tests and fixtures.
func MustParseCards(s string) []Card {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			panic(err)
		}
		cards = append(cards, c)
	}
	return cards
}
