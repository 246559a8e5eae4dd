package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"scrum-cards/internal/config"
	"scrum-cards/internal/eventloop"
	"scrum-cards/internal/helpers"
	"scrum-cards/internal/logger"
	"scrum-cards/internal/repositories"
	"scrum-cards/internal/services"
)

// app wires one session together for a single command
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	loop    *eventloop.Loop
	kv      repositories.KeyValueStore
	ui      *services.ConsoleUI
	session *services.Session
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := logger.NewSessionLogger()

	kv, err := repositories.NewKeyValueStore(ctx, &cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}

	loop := eventloop.New()
	ui := services.NewConsoleUI(helpers.Stdout, verbose)
	store := services.NewConfigurationStore(kv, services.OnLoop(loop, ui), logger.For(log, "storage"))
	repo := repositories.NewJiraRepository(&cfg.Tracker, logger.For(log, "tracker"))

	return &app{
		cfg:     cfg,
		log:     log,
		loop:    loop,
		kv:      kv,
		ui:      ui,
		session: services.NewSession(loop, store, repo, ui, logger.For(log, "session")),
	}, nil
}

// start loads the saved settings and waits for the queries they trigger
func (a *app) start(ctx context.Context) error {
	a.session.Start(ctx)
	return a.settle(ctx)
}

// settle runs the loop until every posted task and request has finished
func (a *app) settle(ctx context.Context) error {
	if err := a.loop.RunUntilIdle(ctx); err != nil {
		return fmt.Errorf("session did not settle: %w", err)
	}
	return nil
}

func (a *app) requireConfiguration() error {
	if a.session.ConfigurationRequested() {
		return fmt.Errorf("tracker is not configured")
	}
	return nil
}

func (a *app) close() {
	if err := a.kv.Close(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close storage")
	}
}

// withApp builds an app, loads the saved settings and runs fn
func withApp(fn func(ctx context.Context, a *app) error) error {
	ctx := context.Background()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.start(ctx); err != nil {
		return err
	}
	return fn(ctx, a)
}
