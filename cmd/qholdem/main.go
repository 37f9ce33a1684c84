package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Config   string           `short:"c" default:"qholdem.hcl" env:"QHOLDEM_CONFIG" help:"HCL config file (defaults apply when missing)"`
	LogLevel string           `default:"" env:"QHOLDEM_LOG_LEVEL" help:"Override the configured log level (debug, info, warn, error)"`

	Server   ServerCmd   `cmd:"" help:"Run the table server"`
	Simulate SimulateCmd `cmd:"" help:"Play bots against each other and report results"`
}

func main() {
	// A missing .env is fine; anything else is worth a warning.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("could not load .env", "error", err)
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("qholdem"),
		kong.Description("Quantum Hold'em table server and bot simulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}

// setupLogger returns a stderr logger at the named level.
func setupLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
	}), nil
}
