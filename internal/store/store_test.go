package store

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/lox/quantumholdem/internal/game"
	"github.com/lox/quantumholdem/internal/randutil"
	"github.com/lox/quantumholdem/internal/tableid"
)

func players(n int) []game.PlayerInfo {
	out := make([]game.PlayerInfo, n)
	for i := range out {
		out[i] = game.PlayerInfo{ID: fmt.Sprintf("p%d", i)}
	}
	return out
}

func newTestStore(t *testing.T, clock quartz.Clock) *Store {
	t.Helper()
	return New(WithClock(clock), WithLogger(log.New(io.Discard)))
}

func TestCreateAndDo(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, quartz.NewMock(t))
	id, err := s.Create("default", players(3), game.WithRNG(randutil.New(1)))
	require.NoError(t, err)
	require.NoError(t, tableid.Validate(id))
	assert.Equal(t, 1, s.Len())

	err = s.Do(id, func(tbl *game.Table) error {
		return tbl.StartHand()
	})
	require.NoError(t, err)

	snap, err := s.Snapshot(id, 0)
	require.NoError(t, err)
	assert.Equal(t, game.PhasePreflop, snap.Phase)
	assert.Len(t, snap.Seats[0].HoleCards, 2)
	assert.Nil(t, snap.Seats[1].HoleCards)

	sentinel := fmt.Errorf("boom")
	assert.ErrorIs(t, s.Do(id, func(*game.Table) error { return sentinel }), sentinel)
}

func TestCreateRejectsBadTables(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, quartz.NewMock(t))
	_, err := s.Create("default", players(1))
	require.ErrorIs(t, err, game.ErrInvalidConfig)
	assert.Zero(t, s.Len())
}

func TestUnknownTable(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, quartz.NewMock(t))
	err := s.Do("missing", func(*game.Table) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Snapshot("missing", game.Spectator)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, s.Delete("missing"))
}

func TestDelete(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, quartz.NewMock(t))
	id, err := s.Create("default", players(2))
	require.NoError(t, err)

	assert.True(t, s.Delete(id))
	assert.False(t, s.Delete(id))
	assert.ErrorIs(t, s.Do(id, func(*game.Table) error { return nil }), ErrNotFound)
}

func TestListOldestFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := quartz.NewMock(t)
	s := newTestStore(t, clock)

	var ids []string
	for i := range 3 {
		id, err := s.Create(fmt.Sprintf("preset-%d", i), players(2+i))
		require.NoError(t, err)
		ids = append(ids, id)
		clock.Advance(time.Second).MustWait(ctx)
	}

	list := s.List()
	require.Len(t, list, 3)
	for i, sum := range list {
		assert.Equal(t, ids[i], sum.ID)
		assert.Equal(t, fmt.Sprintf("preset-%d", i), sum.Preset)
		assert.Len(t, sum.Players, 2+i)
		assert.Equal(t, game.PhaseWaiting, sum.Phase)
	}
}

func TestReapIdleTables(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := quartz.NewMock(t)
	s := newTestStore(t, clock)

	stale, err := s.Create("default", players(2))
	require.NoError(t, err)
	busy, err := s.Create("default", players(2))
	require.NoError(t, err)

	clock.Advance(10 * time.Minute).MustWait(ctx)
	assert.Empty(t, s.Reap(15*time.Minute))

	require.NoError(t, s.Do(busy, func(*game.Table) error { return nil }))
	clock.Advance(10 * time.Minute).MustWait(ctx)

	assert.Equal(t, []string{stale}, s.Reap(15*time.Minute))
	assert.Equal(t, 1, s.Len())
	require.NoError(t, s.Do(busy, func(*game.Table) error { return nil }))
}

func TestRunReaper(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, quartz.NewReal())
	_, err := s.Create("default", players(2))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	g := errgroup.Group{}
	g.Go(func() error {
		return s.RunReaper(ctx, 0, 5*time.Millisecond)
	})

	require.Eventually(t, func() bool { return s.Len() == 0 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, g.Wait())
}

// step performs one legal engine operation, whichever the table is ready for.
func step(tbl *game.Table) error {
	switch {
	case tbl.CanStartHand():
		return tbl.StartHand()
	case tbl.Actor() != -1:
		seat := tbl.Actor()
		action := game.Call
		if tbl.LegalActions(seat).Can(game.Check) {
			action = game.Check
		}
		_, err := tbl.Act(seat, action, 0)
		return err
	case tbl.Phase().Betting():
		_, err := tbl.DealNextStreet()
		return err
	}
	return nil
}

func TestConcurrentAccessIsSerialized(t *testing.T) {
	t.Parallel()

	s := newTestStore(t, quartz.NewReal())
	shared, err := s.Create("default", players(4), game.WithRNG(randutil.New(3)))
	require.NoError(t, err)

	var g errgroup.Group
	for w := range 8 {
		own, err := s.Create("default", players(2), game.WithRNG(randutil.New(int64(w))))
		require.NoError(t, err)

		g.Go(func() error {
			for range 100 {
				if err := s.Do(shared, step); err != nil {
					return err
				}
				if err := s.Do(own, step); err != nil {
					return err
				}
				if _, err := s.Snapshot(shared, w%4); err != nil {
					return err
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		s.List()
		return nil
	})
	require.NoError(t, g.Wait())

	require.NoError(t, s.Do(shared, func(tbl *game.Table) error {
		assert.Equal(t, 4000, tbl.TotalChips())
		assert.Positive(t, tbl.HandNumber())
		return nil
	}))
}
