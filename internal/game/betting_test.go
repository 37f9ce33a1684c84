package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedger(bigBlind int, chips ...int) *Ledger {
	states := make([]*BetState, len(chips))
	for i, c := range chips {
		states[i] = &BetState{Chips: c}
	}
	return NewLedger(states, bigBlind)
}

func TestPostBlinds(t *testing.T) {
	t.Parallel()

	l := newLedger(20, 1000, 1000, 1000, 1000)
	l.PostBlinds(0, 1, 10, 20)

	assert.Equal(t, 30, l.Pot())
	assert.Equal(t, 20, l.CurrentBet)
	assert.Equal(t, 20, l.MinRaise)
	assert.Equal(t, 990, l.Seats[0].Chips)
	assert.Equal(t, 980, l.Seats[1].Chips)
	assert.False(t, l.Seats[1].Acted, "posting a blind is not acting")
}

func TestShortBlindGoesAllIn(t *testing.T) {
	t.Parallel()

	l := newLedger(20, 1000, 15)
	l.PostBlinds(0, 1, 10, 20)

	assert.True(t, l.Seats[1].AllIn)
	assert.Equal(t, 15, l.Seats[1].Committed)
	assert.Equal(t, 20, l.CurrentBet, "current bet stays at the configured big blind")
	assert.False(t, l.RoundComplete(), "small blind still owes the call")
}

func TestCallAndRaiseReopenAction(t *testing.T) {
	t.Parallel()

	l := newLedger(20, 1000, 1000, 1000, 1000)
	l.PostBlinds(0, 1, 10, 20)

	applied, err := l.Apply(2, Call, 0)
	require.NoError(t, err)
	assert.Equal(t, Call, applied)
	assert.Equal(t, 20, l.Seats[2].Committed)
	assert.Equal(t, 50, l.Pot())
	assert.True(t, l.Seats[2].Acted)

	applied, err = l.Apply(3, Raise, 60)
	require.NoError(t, err)
	assert.Equal(t, Raise, applied)
	assert.Equal(t, 60, l.CurrentBet)
	assert.Equal(t, 40, l.MinRaise)
	for _, seat := range []int{0, 1, 2} {
		assert.False(t, l.Seats[seat].Acted, "seat %d must respond to the raise", seat)
	}
	assert.True(t, l.Seats[3].Acted)
	assert.False(t, l.RoundComplete())
}

func TestRaiseValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		chips   int
		amount  int
		wantErr bool
		want    Action
	}{
		{name: "minimum raise", chips: 1000, amount: 40, want: Raise},
		{name: "below minimum", chips: 1000, amount: 39, wantErr: true},
		{name: "not above current bet", chips: 1000, amount: 20, wantErr: true},
		{name: "more than stack", chips: 100, amount: 101, wantErr: true},
		{name: "short all-in below minimum", chips: 30, amount: 30, want: AllIn},
		{name: "exact stack is all-in", chips: 500, amount: 500, want: AllIn},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			l := newLedger(20, 1000, 1000, tc.chips)
			l.PostBlinds(0, 1, 10, 20)
			before := *l.Seats[2]

			applied, err := l.Apply(2, Raise, tc.amount)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrIllegalAction)
				assert.Equal(t, before, *l.Seats[2], "rejected raise must not mutate")
				assert.Equal(t, 20, l.CurrentBet)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, applied)
			assert.Equal(t, tc.amount, l.Seats[2].Bet)
		})
	}
}

func TestCallForWholeStackBecomesAllIn(t *testing.T) {
	t.Parallel()

	l := newLedger(20, 1000, 1000, 15)
	l.PostBlinds(0, 1, 10, 20)

	applied, err := l.Apply(2, Call, 0)
	require.NoError(t, err)
	assert.Equal(t, AllIn, applied)
	assert.True(t, l.Seats[2].AllIn)
	assert.Equal(t, 15, l.Seats[2].Committed)
	assert.Equal(t, 20, l.CurrentBet)
}

func TestShortAllInDoesNotReopenBetting(t *testing.T) {
	t.Parallel()

	l := newLedger(20, 1000, 1000, 130)
	l.NewRound()

	_, err := l.Apply(0, Raise, 100)
	require.NoError(t, err)
	_, err = l.Apply(1, Call, 0)
	require.NoError(t, err)

	applied, err := l.Apply(2, AllIn, 0)
	require.NoError(t, err)
	assert.Equal(t, AllIn, applied)
	assert.Equal(t, 130, l.CurrentBet)
	assert.Equal(t, 100, l.MinRaise, "short all-in leaves the raise increment alone")
	assert.True(t, l.Seats[0].Acted)
	assert.True(t, l.Seats[1].Acted)

	assert.False(t, l.CanRaise(0))
	_, err = l.Apply(0, Raise, 400)
	assert.ErrorIs(t, err, ErrIllegalAction)
	_, err = l.Apply(0, AllIn, 0)
	assert.ErrorIs(t, err, ErrIllegalAction)

	_, err = l.Apply(0, Call, 0)
	require.NoError(t, err)
	assert.False(t, l.RoundComplete())
	_, err = l.Apply(1, Call, 0)
	require.NoError(t, err)
	assert.True(t, l.RoundComplete())
}

func TestFullAllInRaiseReopens(t *testing.T) {
	t.Parallel()

	l := newLedger(20, 1000, 1000, 300)
	l.NewRound()

	_, err := l.Apply(0, Raise, 100)
	require.NoError(t, err)
	_, err = l.Apply(1, Call, 0)
	require.NoError(t, err)
	_, err = l.Apply(2, AllIn, 0)
	require.NoError(t, err)

	assert.Equal(t, 300, l.CurrentBet)
	assert.Equal(t, 200, l.MinRaise)
	assert.False(t, l.Seats[0].Acted)
	assert.False(t, l.Seats[1].Acted)
	assert.True(t, l.CanRaise(0))
}

func TestCheckRules(t *testing.T) {
	t.Parallel()

	l := newLedger(20, 1000, 1000)
	l.PostBlinds(0, 1, 10, 20)

	_, err := l.Apply(0, Check, 0)
	assert.ErrorIs(t, err, ErrIllegalAction, "small blind cannot check facing the big blind")

	_, err = l.Apply(0, Call, 0)
	require.NoError(t, err)
	assert.False(t, l.RoundComplete(), "big blind keeps the option")

	_, err = l.Apply(1, Check, 0)
	require.NoError(t, err)
	assert.True(t, l.RoundComplete())
}

func TestRoundCompletion(t *testing.T) {
	t.Parallel()

	t.Run("everyone folded or all-in", func(t *testing.T) {
		t.Parallel()
		l := newLedger(20, 100, 100, 100)
		l.NewRound()
		_, _ = l.Apply(0, AllIn, 0)
		_, _ = l.Apply(1, Fold, 0)
		_, _ = l.Apply(2, Call, 0)
		assert.True(t, l.RoundComplete())
	})

	t.Run("lone live seat must match an all-in", func(t *testing.T) {
		t.Parallel()
		l := newLedger(20, 100, 1000)
		l.NewRound()
		_, _ = l.Apply(0, AllIn, 0)
		assert.Equal(t, 1, l.ActiveCount())
		assert.False(t, l.RoundComplete())
		assert.True(t, l.NeedsAction(1))
		_, _ = l.Apply(1, Call, 0)
		assert.True(t, l.RoundComplete())
	})

	t.Run("new street with one live seat", func(t *testing.T) {
		t.Parallel()
		l := newLedger(20, 100, 1000)
		l.NewRound()
		_, _ = l.Apply(0, AllIn, 0)
		_, _ = l.Apply(1, Call, 0)
		l.NewRound()
		assert.True(t, l.RoundComplete())
	})
}

func TestFoldedAndAllInSeatsCannotAct(t *testing.T) {
	t.Parallel()

	l := newLedger(20, 1000, 50, 1000)
	l.NewRound()
	_, err := l.Apply(0, Fold, 0)
	require.NoError(t, err)
	_, err = l.Apply(0, Check, 0)
	assert.ErrorIs(t, err, ErrIllegalAction)

	_, err = l.Apply(1, AllIn, 0)
	require.NoError(t, err)
	_, err = l.Apply(1, Call, 0)
	assert.ErrorIs(t, err, ErrIllegalAction)

	_, err = l.Apply(7, Call, 0)
	assert.ErrorIs(t, err, ErrIllegalAction)
}

func TestRefund(t *testing.T) {
	t.Parallel()

	l := newLedger(20, 1000, 1000)
	l.PostBlinds(0, 1, 10, 20)
	_, _ = l.Apply(0, Raise, 100)
	l.Refund()

	assert.Equal(t, 1000, l.Seats[0].Chips)
	assert.Equal(t, 1000, l.Seats[1].Chips)
	assert.Zero(t, l.Pot())
}

func TestParseAction(t *testing.T) {
	t.Parallel()

	for _, a := range []Action{Fold, Check, Call, Raise, AllIn} {
		got, err := ParseAction(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	_, err := ParseAction("shove")
	assert.Error(t, err)
}

func TestPhaseText(t *testing.T) {
	t.Parallel()

	for p := PhaseWaiting; p <= PhaseComplete; p++ {
		b, err := p.MarshalText()
		require.NoError(t, err)
		var got Phase
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, p, got)
	}
	_, err := ParsePhase("overtime")
	assert.Error(t, err)
	assert.True(t, PhaseRiver.Betting())
	assert.False(t, PhaseShowdown.Betting())
}
