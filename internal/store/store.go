// Package store keeps the tables a server is hosting. Every table is owned by
// exactly one entry and all access to it runs under that entry's lock, so
// callers on different goroutines see one serialized stream of operations
// per table while separate tables proceed in parallel.
package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/quantumholdem/internal/game"
	"github.com/lox/quantumholdem/internal/tableid"
)

// ErrNotFound is returned for an unknown table id.
var ErrNotFound = errors.New("table not found")

type entry struct {
	mu       sync.Mutex
	table    *game.Table
	preset   string
	players  []game.PlayerInfo
	created  time.Time
	lastUsed time.Time
}

// Summary is lightweight table metadata for listings.
type Summary struct {
	ID         string            `json:"id"`
	Preset     string            `json:"preset"`
	Players    []game.PlayerInfo `json:"players"`
	HandNumber int               `json:"hand_number"`
	Phase      game.Phase        `json:"phase"`
	Pot        int               `json:"pot"`
	CreatedAt  time.Time         `json:"created_at"`
	LastUsed   time.Time         `json:"last_used"`
}

// Store maps table ids to tables.
type Store struct {
	mu     sync.RWMutex
	tables map[string]*entry
	clock  quartz.Clock
	ids    *tableid.Generator
	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for timestamps, ids and reaping.
func WithClock(clock quartz.Clock) Option {
	return func(s *Store) { s.clock = clock }
}

// WithLogger sets the logger. The store logs with a "store" prefix.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{tables: make(map[string]*entry)}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = quartz.NewReal()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.logger = s.logger.WithPrefix("store")
	s.ids = tableid.New(s.clock, nil)
	return s
}

// Create builds a table for players and returns its id. preset is recorded
// for listings only.
func (s *Store) Create(preset string, players []game.PlayerInfo, opts ...game.TableOption) (string, error) {
	table, err := game.NewTable(players, opts...)
	if err != nil {
		return "", err
	}
	now := s.clock.Now()
	e := &entry{
		table:    table,
		preset:   preset,
		players:  slices.Clone(players),
		created:  now,
		lastUsed: now,
	}

	s.mu.Lock()
	id := s.ids.Generate()
	for s.tables[id] != nil {
		id = s.ids.Generate()
	}
	s.tables[id] = e
	s.mu.Unlock()

	s.logger.Info("table created", "id", id, "preset", preset, "players", len(players))
	return id, nil
}

func (s *Store) get(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.tables[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, nil
}

// Do runs fn with exclusive access to the table. fn must not retain the
// table after returning.
func (s *Store) Do(id string, fn func(*game.Table) error) error {
	e, err := s.get(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastUsed = s.clock.Now()
	return fn(e.table)
}

// Snapshot returns the table state as seen by viewer.
func (s *Store) Snapshot(id string, viewer int) (game.Snapshot, error) {
	var snap game.Snapshot
	err := s.Do(id, func(t *game.Table) error {
		snap = t.Snapshot(viewer)
		return nil
	})
	return snap, err
}

// Delete removes a table. It reports whether the table existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	_, ok := s.tables[id]
	delete(s.tables, id)
	s.mu.Unlock()
	if ok {
		s.logger.Info("table deleted", "id", id)
	}
	return ok
}

// Len returns the number of tables.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables)
}

// List returns a summary of every table, oldest first.
func (s *Store) List() []Summary {
	s.mu.RLock()
	ids := make([]string, 0, len(s.tables))
	entries := make([]*entry, 0, len(s.tables))
	for id, e := range s.tables {
		ids = append(ids, id)
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	out := make([]Summary, len(entries))
	for i, e := range entries {
		e.mu.Lock()
		out[i] = Summary{
			ID:         ids[i],
			Preset:     e.preset,
			Players:    slices.Clone(e.players),
			HandNumber: e.table.HandNumber(),
			Phase:      e.table.Phase(),
			Pot:        e.table.Pot(),
			CreatedAt:  e.created,
			LastUsed:   e.lastUsed,
		}
		e.mu.Unlock()
	}
	slices.SortFunc(out, func(a, b Summary) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Reap deletes tables unused for at least idle and returns their ids.
func (s *Store) Reap(idle time.Duration) []string {
	cutoff := s.clock.Now().Add(-idle)

	s.mu.Lock()
	var reaped []string
	for id, e := range s.tables {
		e.mu.Lock()
		stale := !e.lastUsed.After(cutoff)
		e.mu.Unlock()
		if stale {
			delete(s.tables, id)
			reaped = append(reaped, id)
		}
	}
	s.mu.Unlock()

	slices.Sort(reaped)
	for _, id := range reaped {
		s.logger.Info("reaped idle table", "id", id, "idle", idle)
	}
	return reaped
}

// RunReaper reaps idle tables every interval until ctx is done.
func (s *Store) RunReaper(ctx context.Context, idle, interval time.Duration) error {
	w := s.clock.TickerFunc(ctx, interval, func() error {
		s.Reap(idle)
		return nil
	}, "reaper")
	err := w.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
