package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lox/quantumholdem/internal/config"
	"github.com/lox/quantumholdem/internal/server"
	"github.com/lox/quantumholdem/internal/store"
)

// ServerCmd runs the HTTP and WebSocket table server.
type ServerCmd struct {
	Host string `help:"Listen host, overriding the config file"`
	Port int    `help:"Listen port, overriding the config file"`
}

func (c *ServerCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if c.Host != "" {
		cfg.Server.Address = c.Host
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := cfg.Server.LogLevel
	if cli.LogLevel != "" {
		level = cli.LogLevel
	}
	logger, err := setupLogger(level)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := store.New(store.WithLogger(logger))
	srv := server.New(st, cfg, logger)

	presets := make([]string, len(cfg.Tables))
	for i, p := range cfg.Tables {
		presets[i] = p.Name
	}
	logger.Info("starting quantum hold'em server",
		"address", cfg.ListenAddress(),
		"presets", presets,
		"idle_timeout", cfg.Server.IdleTimeout)

	return srv.Run(ctx)
}
