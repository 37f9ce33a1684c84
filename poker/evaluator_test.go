package poker

import (
	"errors"
	"testing"

	ph "github.com/paulhankin/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/quantumholdem/internal/randutil"
)

func TestEvaluateCategories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cards    string
		category Category
		tiebreak []int
		label    string
	}{
		{"royal flush from seven", "Ah Kh Qh Jh Th 2c 3d", RoyalFlush, []int{14}, "Royal Flush"},
		{"straight flush", "9s 8s 7s 6s 5s", StraightFlush, []int{9}, "Straight Flush, 9 high"},
		{"steel wheel", "As 2s 3s 4s 5s", StraightFlush, []int{5}, "Straight Flush, 5 high"},
		{"quads", "Kc Kd Kh Ks 2c 3c", FourOfAKind, []int{13, 3}, "Four of a Kind, Kings"},
		{"full house", "Qh Qd Qs 4c 4d", FullHouse, []int{12, 4}, "Full House, Queens over 4s"},
		{"flush", "Ad Jd 9d 6d 3d", Flush, []int{14, 11, 9, 6, 3}, "Flush, Ace high"},
		{"broadway straight", "Ac Kd Qh Js Tc", Straight, []int{14}, "Straight, Ace high"},
		{"wheel", "Ac 2d 3h 4s 5c", Straight, []int{5}, "Straight, 5 high"},
		{"trips", "7h 7d 7s Kc 2d", ThreeOfAKind, []int{7, 13, 2}, "Three of a Kind, 7s"},
		{"two pair", "Jh Jd 4s 4c Ad", TwoPair, []int{11, 4, 14}, "Two Pair, Jacks and 4s"},
		{"pair", "9h 9d Ks 5c 2d", Pair, []int{9, 13, 5, 2}, "Pair of 9s"},
		{"high card", "Ah Jd 8s 5c 2d", HighCard, []int{14, 11, 8, 5, 2}, "High Card, Ace"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			v, err := Evaluate(MustParseCards(tc.cards))
			require.NoError(t, err)
			assert.Equal(t, tc.category, v.Category)
			assert.Equal(t, tc.tiebreak, v.Tiebreak)
			assert.Equal(t, tc.label, v.Label)
		})
	}
}

func TestWheelLosesToSixHighStraight(t *testing.T) {
	t.Parallel()

	wheel := MustParseCards("Ac 2d 3h 4s 5c")
	six := MustParseCards("2c 3d 4h 5s 6c")
	got, err := Compare(six, wheel)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestFiveOfARankScoresAsQuads(t *testing.T) {
	t.Parallel()

	// Gate-transformed hands can repeat an identity.
	cards := MustParseCards("Ah Ad As Ac Kd")
	cards = append(cards, MustEncode(Ace, Hearts))
	v, err := Evaluate(cards)
	require.NoError(t, err)
	assert.Equal(t, FourOfAKind, v.Category)
	assert.Equal(t, 14, v.Tiebreak[0])

	five := []Card{
		MustEncode(Ace, Hearts), MustEncode(Ace, Hearts), MustEncode(Ace, Diamonds),
		MustEncode(Ace, Spades), MustEncode(Ace, Clubs),
	}
	v, err = Evaluate(five)
	require.NoError(t, err)
	assert.Equal(t, FourOfAKind, v.Category)
	assert.Equal(t, []int{14, 14}, v.Tiebreak)
}

func TestEvaluateRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := Evaluate(MustParseCards("Ah Kh Qh Jh"))
	assert.True(t, errors.Is(err, ErrHandSize))

	cards := MustParseCards("Ah Kh Qh Jh Th")
	cards[2] = Card{Bits: 28, Sign: Negative}
	_, err = Evaluate(cards)
	assert.True(t, errors.Is(err, ErrUndefinedCard))
}

func TestHandValueCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"flush beats straight", "2h 5h 7h 9h Jh", "5c 6d 7h 8s 9c", 1},
		{"kicker decides pair", "Kh Kd Ac 7s 2d", "Ks Kc Qc 7h 2h", 1},
		{"second pair decides", "Ah Ad 9c 9s 2d", "As Ac 8c 8s Kd", 1},
		{"suits never break ties", "Ah Kh Qd Js 9c", "As Ks Qc Jh 9d", 0},
		{"lower trips lose", "3h 3d 3s Ac Kd", "4h 4d 4s 2c 5d", -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Compare(MustParseCards(tc.a), MustParseCards(tc.b))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRankManySharedWinners(t *testing.T) {
	t.Parallel()

	board := "Ah Kd Qs Jc Tc"
	hands := map[int][]Card{
		0: MustParseCards(board + " 2h 3d"),
		3: MustParseCards(board + " 4h 5d"),
		1: MustParseCards("2c 7d 9h 4s 3c 8d 6c"),
	}
	winners, value, err := RankMany(hands)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3}, winners)
	assert.Equal(t, Straight, value.Category)
}

func toReference(c Classical) ph.Card {
	var s ph.Suit
	switch c.Suit {
	case Hearts:
		s = ph.Heart
	case Diamonds:
		s = ph.Diamond
	case Spades:
		s = ph.Spade
	default:
		s = ph.Club
	}
	r := ph.Rank(c.Rank)
	if c.Rank == Ace {
		r = ph.Rank(1)
	}
	card, err := ph.MakeCard(s, r)
	if err != nil {
		panic(err)
	}
	return card
}

func referenceScore(cards []Classical) int16 {
	var a [7]ph.Card
	for i, c := range cards {
		a[i] = toReference(c)
	}
	return ph.Eval7(&a)
}

// TestEvaluatorAgreesWithReference checks ordering on random 7-card hands
// against an independent lookup-table evaluator.
func TestEvaluatorAgreesWithReference(t *testing.T) {
	t.Parallel()

	// Establish the reference's score direction from a known ordering.
	royal := []Classical{{Ace, Spades}, {King, Spades}, {Queen, Spades}, {Jack, Spades}, {Ten, Spades}, {Two, Hearts}, {Four, Diamonds}}
	junk := []Classical{{Seven, Hearts}, {Five, Diamonds}, {Four, Clubs}, {Three, Spades}, {Two, Hearts}, {Nine, Clubs}, {Jack, Diamonds}}
	higherIsBetter := referenceScore(royal) > referenceScore(junk)

	rng := randutil.New(2024)
	deck := NewDeck(rng)
	draw := func() []Classical {
		deck.Reset()
		deck.Shuffle()
		out := make([]Classical, 7)
		for i, c := range deck.Deal(7) {
			out[i], _ = c.Decode()
		}
		return out
	}

	for i := range 500 {
		a, b := draw(), draw()
		got := EvaluateClassical(a).Compare(EvaluateClassical(b))

		sa, sb := referenceScore(a), referenceScore(b)
		want := 0
		switch {
		case sa == sb:
		case (sa > sb) == higherIsBetter:
			want = 1
		default:
			want = -1
		}
		if got != want {
			t.Fatalf("hand %d: %v vs %v: got %d, reference %d", i, a, b, got, want)
		}
	}
}
