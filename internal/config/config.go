// Package config loads server settings and table presets from HCL.
//
//	server {
//	  address      = "0.0.0.0"
//	  port         = 8080
//	  log_level    = "debug"
//	  idle_timeout = "15m"
//	}
//
//	table "micro" {
//	  small_blind    = 1
//	  big_blind      = 2
//	  starting_chips = 200
//	  max_seats      = 6
//	}
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/quantumholdem/internal/game"
)

// DefaultPreset is the preset used when a request names none.
const DefaultPreset = "default"

// Config is the complete server configuration.
type Config struct {
	Server *ServerSettings `hcl:"server,block"`
	Tables []TablePreset   `hcl:"table,block"`
}

// ServerSettings holds listener and housekeeping settings.
type ServerSettings struct {
	Address     string `hcl:"address,optional"`
	Port        int    `hcl:"port,optional"`
	LogLevel    string `hcl:"log_level,optional"`
	IdleTimeout string `hcl:"idle_timeout,optional"` // Go duration; idle tables are reaped after it
}

// TablePreset is a named set of table rules.
type TablePreset struct {
	Name          string `hcl:"name,label"`
	SmallBlind    int    `hcl:"small_blind"`
	BigBlind      int    `hcl:"big_blind"`
	StartingChips int    `hcl:"starting_chips,optional"`
	MaxSeats      int    `hcl:"max_seats,optional"`
	GatesPerRound *int   `hcl:"gates_per_round,optional"` // Nil means the default; 0 disables gates
	GatesPerHand  *int   `hcl:"gates_per_hand,optional"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads filename. A missing file yields Default.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(file.Body)
}

// Parse decodes configuration from src. filename only labels diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(file.Body)
}

func decode(body hcl.Body) (*Config, error) {
	var c Config
	if diags := gohcl.DecodeBody(body, nil, &c); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Server == nil {
		c.Server = &ServerSettings{}
	}
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Server.IdleTimeout == "" {
		c.Server.IdleTimeout = "30m"
	}

	if len(c.Tables) == 0 {
		c.Tables = []TablePreset{{Name: DefaultPreset, SmallBlind: 10, BigBlind: 20}}
	}
	for i := range c.Tables {
		t := &c.Tables[i]
		if t.StartingChips == 0 {
			t.StartingChips = t.BigBlind * 50
		}
		if t.MaxSeats == 0 {
			t.MaxSeats = 6
		}
		if t.GatesPerRound == nil {
			t.GatesPerRound = intPtr(2)
		}
		if t.GatesPerHand == nil {
			t.GatesPerHand = intPtr(4)
		}
	}
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if _, err := c.IdleTimeout(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Tables))
	for _, t := range c.Tables {
		if seen[t.Name] {
			return fmt.Errorf("table %s: defined more than once", t.Name)
		}
		seen[t.Name] = true
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks a single preset.
func (t TablePreset) Validate() error {
	switch {
	case t.SmallBlind <= 0:
		return fmt.Errorf("table %s: small blind must be positive", t.Name)
	case t.BigBlind < t.SmallBlind:
		return fmt.Errorf("table %s: big blind must be at least the small blind", t.Name)
	case t.MaxSeats < 2 || t.MaxSeats > game.MaxSeats:
		return fmt.Errorf("table %s: max seats must be between 2 and %d", t.Name, game.MaxSeats)
	case t.StartingChips < t.BigBlind:
		return fmt.Errorf("table %s: starting chips must cover the big blind", t.Name)
	case t.GatesPerRound == nil || t.GatesPerHand == nil:
		return fmt.Errorf("table %s: gate limits not set", t.Name)
	case *t.GatesPerRound < 0 || *t.GatesPerHand < 0:
		return fmt.Errorf("table %s: gate limits must not be negative", t.Name)
	}
	return nil
}

// Options returns the table options for this preset.
func (t TablePreset) Options() []game.TableOption {
	return []game.TableOption{
		game.WithBlinds(t.SmallBlind, t.BigBlind),
		game.WithStartingChips(t.StartingChips),
		game.WithGateLimits(*t.GatesPerRound, *t.GatesPerHand),
	}
}

func intPtr(v int) *int { return &v }

// IdleTimeout parses the server idle timeout.
func (c *Config) IdleTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Server.IdleTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid idle_timeout %q: %w", c.Server.IdleTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("idle_timeout must be positive, got %s", d)
	}
	return d, nil
}

// ListenAddress returns host:port for the HTTP listener.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// Preset returns the named preset. An empty name selects the first preset.
func (c *Config) Preset(name string) (TablePreset, bool) {
	if name == "" && len(c.Tables) > 0 {
		return c.Tables[0], true
	}
	for _, t := range c.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TablePreset{}, false
}
