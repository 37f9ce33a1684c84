package game

import (
	"fmt"
	"slices"

	"github.com/lox/quantumholdem/poker"
)

// Pot represents a pot (main or side)
type Pot struct {
	Amount   int   `json:"amount"`
	Eligible []int `json:"eligible"` // Seat numbers eligible for this pot
	Main     bool  `json:"main"`
}

// BuildPots splits committed chips into a main pot and side pots. Tiers run
// between the distinct commitment levels of seats that have not folded; a
// seat is eligible for every tier up to its own level. Folded chips count in
// each tier they reach, and anything folded above the top tier joins the last
// pot, so the pots always sum to the chips committed.
func BuildPots(seats []*BetState) []Pot {
	var levels []int
	for _, s := range seats {
		if !s.Folded && s.Committed > 0 {
			levels = append(levels, s.Committed)
		}
	}
	slices.Sort(levels)
	levels = slices.Compact(levels)

	var pots []Pot
	prev := 0
	for _, level := range levels {
		pot := Pot{Main: len(pots) == 0}
		for i, s := range seats {
			pot.Amount += min(max(s.Committed-prev, 0), level-prev)
			if !s.Folded && s.Committed >= level {
				pot.Eligible = append(pot.Eligible, i)
			}
		}
		pots = append(pots, pot)
		prev = level
	}

	excess := 0
	for _, s := range seats {
		excess += max(s.Committed-prev, 0)
	}
	if excess > 0 {
		if len(pots) == 0 {
			// Only folded money: nobody is eligible, the caller decides.
			return []Pot{{Amount: excess, Main: true}}
		}
		pots[len(pots)-1].Amount += excess
	}
	return pots
}

// PotAward records how one pot was split.
type PotAward struct {
	Pot     int              `json:"pot"`
	Amount  int              `json:"amount"`
	Winners []int            `json:"winners"`
	Shares  map[int]int      `json:"shares"`
	Hand    *poker.HandValue `json:"hand,omitempty"`
}

// Distribute awards each pot to the best hands among its eligible seats,
// ranked with poker.RankMany. hands holds each showdown seat's usable cards
// (board plus defined hole cards). order lists seats in dealer-relative
// order (first seat after the button first); an uneven split gives the
// remainder to the earliest co-winner in that order. Eligible seats without
// cards only win if no eligible seat has any.
func Distribute(pots []Pot, hands map[int][]poker.Card, order []int) ([]PotAward, error) {
	rank := make(map[int]int, len(order))
	for i, seat := range order {
		rank[seat] = i
	}
	byOrder := func(a, b int) int { return rank[a] - rank[b] }

	awards := make([]PotAward, 0, len(pots))
	for idx, pot := range pots {
		award := PotAward{Pot: idx, Amount: pot.Amount, Shares: map[int]int{}}

		contenders := make(map[int][]poker.Card, len(pot.Eligible))
		for _, seat := range pot.Eligible {
			if cards, ok := hands[seat]; ok {
				contenders[seat] = cards
			}
		}
		if len(contenders) > 0 {
			winners, best, err := poker.RankMany(contenders)
			if err != nil {
				return nil, fmt.Errorf("pot %d: %w", idx, err)
			}
			award.Winners = winners
			award.Hand = &best
		} else {
			award.Winners = slices.Clone(pot.Eligible)
		}

		if len(award.Winners) == 0 {
			awards = append(awards, award)
			continue
		}
		slices.SortFunc(award.Winners, byOrder)
		share := pot.Amount / len(award.Winners)
		for _, seat := range award.Winners {
			award.Shares[seat] = share
		}
		award.Shares[award.Winners[0]] += pot.Amount % len(award.Winners)
		awards = append(awards, award)
	}
	return awards, nil
}

// Payouts totals the chips each seat receives across awards.
func Payouts(awards []PotAward) map[int]int {
	out := map[int]int{}
	for _, a := range awards {
		for seat, amt := range a.Shares {
			out[seat] += amt
		}
	}
	return out
}
