package game

import (
	"fmt"
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
)

// MaxSeats is the largest table the engine supports.
const MaxSeats = 10

// TableOption configures a Table during creation.
type TableOption func(*tableConfig)

// tableConfig holds all configuration for creating a table.
type tableConfig struct {
	rng        *rand.Rand  // Nil selects the secure source
	smallBlind int         // Default: 10
	bigBlind   int         // Default: 20
	startChips int         // Default: 1000
	chipCounts []int       // If nil, uses uniform starting chips
	button     int         // Seat that holds the button for the first hand
	roundGates int         // Default: 2
	handGates  int         // Default: 4
	logger     *log.Logger // Default discards
}

func defaultTableConfig() *tableConfig {
	return &tableConfig{
		smallBlind: 10,
		bigBlind:   20,
		startChips: 1000,
		roundGates: 2,
		handGates:  4,
	}
}

func (c *tableConfig) validate(players int) error {
	if players < 2 || players > MaxSeats {
		return fmt.Errorf("%w: need 2 to %d players, got %d", ErrInvalidConfig, MaxSeats, players)
	}
	if c.smallBlind <= 0 || c.bigBlind < c.smallBlind {
		return fmt.Errorf("%w: blinds %d/%d", ErrInvalidConfig, c.smallBlind, c.bigBlind)
	}
	if c.chipCounts != nil && len(c.chipCounts) != players {
		return fmt.Errorf("%w: %d chip counts for %d players", ErrInvalidConfig, len(c.chipCounts), players)
	}
	for _, chips := range c.chipCounts {
		if chips < 0 {
			return fmt.Errorf("%w: negative chip count %d", ErrInvalidConfig, chips)
		}
	}
	if c.chipCounts == nil && c.startChips <= 0 {
		return fmt.Errorf("%w: starting chips %d", ErrInvalidConfig, c.startChips)
	}
	if c.button < 0 || c.button >= players {
		return fmt.Errorf("%w: button %d out of range", ErrInvalidConfig, c.button)
	}
	if c.roundGates < 0 || c.handGates < 0 {
		return fmt.Errorf("%w: negative gate limits", ErrInvalidConfig)
	}
	return nil
}

// WithBlinds sets the small and big blind amounts.
func WithBlinds(small, big int) TableOption {
	return func(c *tableConfig) {
		c.smallBlind = small
		c.bigBlind = big
	}
}

// WithStartingChips sets the same starting chips for all players.
// Default is 1000 if not specified.
func WithStartingChips(chips int) TableOption {
	return func(c *tableConfig) {
		c.startChips = chips
		c.chipCounts = nil
	}
}

// WithChips sets individual chip counts for each player.
// The length must match the number of players.
func WithChips(chipCounts []int) TableOption {
	return func(c *tableConfig) {
		c.chipCounts = chipCounts
	}
}

// WithRNG injects the random source used for shuffling and CNOT qubit
// choice. Use a seeded source only for deterministic tests.
func WithRNG(rng *rand.Rand) TableOption {
	return func(c *tableConfig) {
		c.rng = rng
	}
}

// WithButton places the dealer button for the first hand.
func WithButton(seat int) TableOption {
	return func(c *tableConfig) {
		c.button = seat
	}
}

// WithGateLimits sets the per-round and per-hand gate allowance.
func WithGateLimits(perRound, perHand int) TableOption {
	return func(c *tableConfig) {
		c.roundGates = perRound
		c.handGates = perHand
	}
}

// WithLogger sets the logger. The table logs with a "table" prefix.
func WithLogger(logger *log.Logger) TableOption {
	return func(c *tableConfig) {
		c.logger = logger
	}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
