package display

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/quantumholdem/internal/game"
	"github.com/lox/quantumholdem/internal/randutil"
	"github.com/lox/quantumholdem/poker"
)

func plain() *Renderer {
	return New(&bytes.Buffer{}, WithColor(false))
}

func TestCard(t *testing.T) {
	t.Parallel()

	r := plain()
	c := poker.MustEncode(poker.Ace, poker.Hearts)
	view := game.CardView{Card: c.String(), State: c.State(), Sign: int(c.Sign), Defined: true}
	assert.Equal(t, "A♥", r.Card(view))

	withState := New(&bytes.Buffer{}, WithColor(false), WithStates())
	assert.Equal(t, "A♥ "+c.State(), withState.Card(view))

	undefined := game.CardView{Card: "??", State: "|11010⟩+", Sign: 1}
	assert.Equal(t, "??", r.Card(undefined))
}

func newTable(t *testing.T) *game.Table {
	t.Helper()
	tbl, err := game.NewTable([]game.PlayerInfo{
		{ID: "a", Name: "Alice"},
		{ID: "b", Name: "Bob"},
		{ID: "c", Name: "Carol"},
	}, game.WithRNG(randutil.New(5)))
	require.NoError(t, err)
	return tbl
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	tbl := newTable(t)
	require.NoError(t, tbl.StartHand())
	snap := tbl.Snapshot(0)

	out := plain().Snapshot(snap)
	assert.Contains(t, out, "Hand #1")
	assert.Contains(t, out, "preflop")
	assert.Contains(t, out, "Pot 30")
	assert.Contains(t, out, "Board: (none)")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "[] []", "other seats show face-down cards")
	assert.Contains(t, out, snap.Seats[0].HoleCards[0].Card)
	assert.Contains(t, out, "> ", "actor is marked")
	assert.Contains(t, out, "BB")
}

func TestHandResult(t *testing.T) {
	t.Parallel()

	tbl := newTable(t)
	require.NoError(t, tbl.StartHand())
	for tbl.Phase() != game.PhaseComplete {
		if tbl.Actor() == -1 {
			_, err := tbl.DealNextStreet()
			require.NoError(t, err)
			continue
		}
		seat := tbl.Actor()
		action := game.Call
		if tbl.LegalActions(seat).Can(game.Check) {
			action = game.Check
		}
		_, err := tbl.Act(seat, action, 0)
		require.NoError(t, err)
	}

	res := tbl.Result()
	require.NotNil(t, res)
	out := plain().HandResult(res, []string{"Alice", "Bob", "Carol"})
	assert.Contains(t, out, "Hand #1 result")
	assert.Contains(t, out, "Board: ")
	assert.Contains(t, out, "Main pot (60)")
	for seat, v := range res.Hands {
		assert.Contains(t, out, v.Label, "seat %d hand label", seat)
	}

	assert.Empty(t, plain().HandResult(nil, nil))
}

func TestHandResultAborted(t *testing.T) {
	t.Parallel()

	out := plain().HandResult(&game.HandResult{HandNumber: 3, Aborted: true, Reason: "deck exhausted"}, nil)
	assert.Contains(t, out, "Aborted: deck exhausted")
}

func TestHandResultFallbackNames(t *testing.T) {
	t.Parallel()

	res := &game.HandResult{
		HandNumber:  2,
		Uncontested: true,
		Awards:      []game.PotAward{{Amount: 30, Winners: []int{1}, Shares: map[int]int{1: 30}}},
	}
	out := plain().HandResult(res, nil)
	assert.Contains(t, out, "Won uncontested")
	assert.Contains(t, out, "Seat 1 +30")
}

func TestStandings(t *testing.T) {
	t.Parallel()

	out := plain().Standings([]Standing{
		{Name: "Bob", Chips: 800, Delta: -200},
		{Name: "Alice", Chips: 1200, Delta: 200},
	})
	assert.Contains(t, out, " 1. Alice")
	assert.Contains(t, out, " 2. Bob")
	assert.Contains(t, out, "+200")
	assert.Contains(t, out, "-200")
}
