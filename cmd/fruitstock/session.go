package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/saltyorg/fruitstock/internal/auth"
	"github.com/saltyorg/fruitstock/internal/config"
	"github.com/saltyorg/fruitstock/internal/console"
	"github.com/saltyorg/fruitstock/internal/database"
	"github.com/saltyorg/fruitstock/internal/inventory"
	"github.com/saltyorg/fruitstock/internal/menu"
)

const loginTimeFormat = "2006-01-02 15:04:05"

// now is replaced in tests.
var now = time.Now

// runSession connects, authenticates once and runs the menu until the user quits.
func runSession(cfg *config.Config, in io.Reader, out io.Writer) error {
	log.Info().
		Str("version", version).
		Str("driver", cfg.Database.Driver).
		Msg("Starting fruitstock")

	// Initialize database
	db, err := database.New(cfg.Database)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize database")
		return &exitError{code: exitConnection, err: fmt.Errorf("could not connect to the database: %w", err)}
	}
	log.Info().Str("driver", db.Driver()).Str("target", db.Target()).Msg("Connected to database")
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Error().Err(err).Msg("Failed to run database migrations")
		return &exitError{code: exitConnection, err: fmt.Errorf("could not prepare the database: %w", err)}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	done := make(chan struct{})
	defer close(done)

	go func() {
		var sig os.Signal
		select {
		case sig = <-sigChan:
		case <-done:
			return
		}
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
		os.Exit(exitInterrupted)
	}()

	p := console.New(in, out)

	if err := login(p, auth.FromConfig(cfg.Auth)); err != nil {
		return &exitError{code: exitAuth, err: err}
	}

	loop := menu.New(inventory.NewManager(db, p), p)
	if err := loop.Run(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	log.Info().Msg("Session ended")
	return nil
}

// login performs the single permitted credential check.
func login(p *console.Prompter, creds auth.Credentials) error {
	username, err := p.ReadLine("Username: ")
	if err != nil {
		log.Warn().Err(err).Msg("No username entered")
		return auth.ErrAuthFailed
	}

	password, err := p.ReadLine("Password: ")
	if err != nil {
		log.Warn().Err(err).Msg("No password entered")
		return auth.ErrAuthFailed
	}

	if !creds.Login(username, password) {
		log.Warn().Str("username", username).Msg("Login rejected")
		return auth.ErrAuthFailed
	}

	log.Info().Str("username", username).Msg("Login successful")
	p.Printf("Login successful! Welcome, %s. Logged in at: %s\n", username, now().Format(loginTimeFormat))
	return nil
}
