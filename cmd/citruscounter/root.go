// Package main provides the entry point for the CitrusCounter CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/citruscounter/citruscounter/internal/config"
	intlog "github.com/citruscounter/citruscounter/internal/log"
	"github.com/citruscounter/citruscounter/internal/store"
)

// NewRootCmd creates the root command for CitrusCounter.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "citruscounter",
		Short: "Estimate citrus yield from tree photographs",
		Long: `CitrusCounter estimates citrus yield for a farm from four photographs
of its trees. The photographs are submitted to a remote counting service,
and the latest count is combined with the farm's tree count into a
per-acre yield report.

Log in once with your registered phone number, record your farm details,
and then run counting sessions as often as you like.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCountCmd())
	cmd.AddCommand(NewLoginCmd())
	cmd.AddCommand(NewSignupCmd())
	cmd.AddCommand(NewLogoutCmd())
	cmd.AddCommand(NewPasswordResetCmd())
	cmd.AddCommand(NewProfileCmd())
	cmd.AddCommand(NewFarmCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// openDefaultStore opens the local store in the XDG data directory. Used by
// commands that work entirely offline and take no service flags.
func openDefaultStore() (*store.Store, error) {
	db, err := store.Open(config.XDGDataDir(), store.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	return db, nil
}

// setupLogger creates a structured logger based on verbosity setting.
// All log output passes through the sanitizing handler so phone numbers
// and credentials never reach the terminal in the clear.
func setupLogger(verbose bool) *slog.Logger {
	return intlog.NewSanitizingLogger(os.Stderr, verbose)
}
