package poker

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// ErrUndefinedCard is returned when an undefined encoded state is evaluated.
var ErrUndefinedCard = errors.New("cannot evaluate undefined card")

// ErrHandSize is returned when a hand does not hold 5 to 7 cards.
var ErrHandSize = errors.New("hand must hold 5 to 7 cards")

// Category is a hand category. Lower values are stronger: RoyalFlush is 1,
// HighCard is 10.
type Category uint8

const (
	RoyalFlush Category = iota + 1
	StraightFlush
	FourOfAKind
	FullHouse
	Flush
	Straight
	ThreeOfAKind
	TwoPair
	Pair
	HighCard
)

func (c Category) String() string {
	switch c {
	case RoyalFlush:
		return "Royal Flush"
	case StraightFlush:
		return "Straight Flush"
	case FourOfAKind:
		return "Four of a Kind"
	case FullHouse:
		return "Full House"
	case Flush:
		return "Flush"
	case Straight:
		return "Straight"
	case ThreeOfAKind:
		return "Three of a Kind"
	case TwoPair:
		return "Two Pair"
	case Pair:
		return "Pair"
	case HighCard:
		return "High Card"
	default:
		return "Unknown"
	}
}

// HandValue is the evaluated strength of a hand. Tiebreak holds rank values
// (2..14), most significant first, and is compared lexicographically.
type HandValue struct {
	Category Category `json:"category"`
	Tiebreak []int    `json:"tiebreak"`
	Label    string   `json:"label"`
}

// Compare returns +1 if v beats o, -1 if o beats v, and 0 on an exact tie.
func (v HandValue) Compare(o HandValue) int {
	if v.Category != o.Category {
		if v.Category < o.Category {
			return 1
		}
		return -1
	}
	return slices.Compare(v.Tiebreak, o.Tiebreak)
}

// Evaluate ranks 5 to 7 encoded cards. For 6 or 7 cards every 5-card subset
// is scored and the strongest kept.
func Evaluate(cards []Card) (HandValue, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return HandValue{}, fmt.Errorf("%w: got %d", ErrHandSize, len(cards))
	}
	decoded := make([]Classical, len(cards))
	for i, c := range cards {
		cl, ok := c.Decode()
		if !ok {
			return HandValue{}, fmt.Errorf("%w: %s", ErrUndefinedCard, c.State())
		}
		decoded[i] = cl
	}
	return EvaluateClassical(decoded), nil
}

// EvaluateClassical ranks 5 to 7 decoded cards. It panics on other sizes.
func EvaluateClassical(cards []Classical) HandValue {
	if len(cards) == 5 {
		return evaluate5([5]Classical(cards))
	}
	if len(cards) < 5 || len(cards) > 7 {
		panic("poker: EvaluateClassical needs 5 to 7 cards")
	}

	var best HandValue
	found := false
	n := len(cards)
	var five [5]Classical
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						five = [5]Classical{cards[a], cards[b], cards[c], cards[d], cards[e]}
						v := evaluate5(five)
						if !found || v.Compare(best) > 0 {
							best, found = v, true
						}
					}
				}
			}
		}
	}
	return best
}

type rankGroup struct {
	rank  int
	count int
}

func evaluate5(cards [5]Classical) HandValue {
	values := make([]int, 5)
	counts := map[int]int{}
	flush := true
	for i, c := range cards {
		values[i] = int(c.Rank)
		counts[int(c.Rank)]++
		if c.Suit != cards[0].Suit {
			flush = false
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	groups := make([]rankGroup, 0, len(counts))
	for r, n := range counts {
		groups = append(groups, rankGroup{rank: r, count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	straight, high := straightHigh(values)
	name := func(v int) string { return Rank(v).Name() }

	switch {
	case flush && straight && high == int(Ace):
		return HandValue{RoyalFlush, []int{high}, "Royal Flush"}
	case flush && straight:
		return HandValue{StraightFlush, []int{high}, fmt.Sprintf("Straight Flush, %s high", name(high))}
	case groups[0].count >= 4:
		// Gates can duplicate identities, so a rank may appear five times.
		kicker := groups[0].rank
		if len(groups) > 1 {
			kicker = groups[1].rank
		}
		return HandValue{FourOfAKind, []int{groups[0].rank, kicker}, fmt.Sprintf("Four of a Kind, %ss", name(groups[0].rank))}
	case groups[0].count == 3 && groups[1].count == 2:
		return HandValue{FullHouse, []int{groups[0].rank, groups[1].rank},
			fmt.Sprintf("Full House, %ss over %ss", name(groups[0].rank), name(groups[1].rank))}
	case flush:
		return HandValue{Flush, values, fmt.Sprintf("Flush, %s high", name(values[0]))}
	case straight:
		return HandValue{Straight, []int{high}, fmt.Sprintf("Straight, %s high", name(high))}
	case groups[0].count == 3:
		return HandValue{ThreeOfAKind, groupRanks(groups), fmt.Sprintf("Three of a Kind, %ss", name(groups[0].rank))}
	case groups[0].count == 2 && groups[1].count == 2:
		return HandValue{TwoPair, groupRanks(groups),
			fmt.Sprintf("Two Pair, %ss and %ss", name(groups[0].rank), name(groups[1].rank))}
	case groups[0].count == 2:
		return HandValue{Pair, groupRanks(groups), fmt.Sprintf("Pair of %ss", name(groups[0].rank))}
	default:
		return HandValue{HighCard, values, fmt.Sprintf("High Card, %s", name(values[0]))}
	}
}

func groupRanks(groups []rankGroup) []int {
	out := make([]int, len(groups))
	for i, g := range groups {
		out[i] = g.rank
	}
	return out
}

// straightHigh reports whether five descending rank values form a straight
// and its high card. The wheel (A-2-3-4-5) is 5-high.
func straightHigh(desc []int) (bool, int) {
	for i := 1; i < len(desc); i++ {
		if desc[i] == desc[i-1] {
			return false, 0
		}
	}
	if desc[0]-desc[4] == 4 {
		return true, desc[0]
	}
	if desc[0] == int(Ace) && desc[1] == int(Five) && desc[4] == int(Two) {
		return true, int(Five)
	}
	return false, 0
}

// Compare evaluates two hands and returns +1 if a wins, -1 if b wins, 0 on a tie.
func Compare(a, b []Card) (int, error) {
	va, err := Evaluate(a)
	if err != nil {
		return 0, err
	}
	vb, err := Evaluate(b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}

// RankMany evaluates each seat's cards and returns the seats sharing the best
// category and tiebreak, in ascending seat order, with the winning value.
func RankMany(hands map[int][]Card) ([]int, HandValue, error) {
	seats := make([]int, 0, len(hands))
	for seat := range hands {
		seats = append(seats, seat)
	}
	sort.Ints(seats)

	var (
		best    HandValue
		winners []int
	)
	for _, seat := range seats {
		v, err := Evaluate(hands[seat])
		if err != nil {
			return nil, HandValue{}, fmt.Errorf("seat %d: %w", seat, err)
		}
		switch {
		case winners == nil || v.Compare(best) > 0:
			best, winners = v, []int{seat}
		case v.Compare(best) == 0:
			winners = append(winners, seat)
		}
	}
	return winners, best, nil
}
