package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/saltyorg/fruitstock/internal/auth"
	"github.com/saltyorg/fruitstock/internal/config"
	"github.com/saltyorg/fruitstock/internal/console"
	"github.com/saltyorg/fruitstock/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Process exit codes.
const (
	exitOK          = 0
	exitConnection  = 1 // also any other runtime failure
	exitAuth        = 2
	exitConfig      = 3
	exitInterrupted = 130
)

// CLI flags
var (
	configFile string
	dbPath     string
	dbDriver   string
	verbosity  int
)

// exitError carries the process exit code for a failed run.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fruitstock",
		Short:         "Fruitstock - fruit inventory manager",
		Long:          `Fruitstock is an interactive console manager for a fruit inventory table.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	// Flags
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file (default: ./fruitstock.yaml)")
	rootCmd.Flags().StringVarP(&dbPath, "db", "d", "", "SQLite database path (or set FRUITSTOCK_DATABASE_PATH)")
	rootCmd.Flags().StringVar(&dbDriver, "driver", "", "database driver: sqlite or postgres (or set FRUITSTOCK_DATABASE_DRIVER)")
	rootCmd.Flags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity and log to stderr (-v debug, -vv trace)")

	// Version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fruitstock %s (commit: %s, built: %s)\n", version, commit, date)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "hash-password",
		Short: "Read a password from stdin and print its bcrypt hash for auth.password_hash",
		Args:  cobra.NoArgs,
		RunE:  hashPassword,
	})

	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.Options{
		File: configFile,
		Flags: map[string]*pflag.Flag{
			"database.path":   cmd.Flags().Lookup("db"),
			"database.driver": cmd.Flags().Lookup("driver"),
		},
	})
	if err != nil {
		return &exitError{code: exitConfig, err: fmt.Errorf("load config: %w", err)}
	}

	// Setup logging
	logging.Apply(cfg.Log, verbosity)

	return runSession(cfg, cmd.InOrStdin(), cmd.OutOrStdout())
}

func hashPassword(cmd *cobra.Command, args []string) error {
	p := console.New(cmd.InOrStdin(), cmd.ErrOrStderr())

	password, err := p.ReadLine("Password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitConnection
}
