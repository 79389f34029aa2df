package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/citruscounter/citruscounter/internal/auth"
	"github.com/citruscounter/citruscounter/internal/model"
	"github.com/citruscounter/citruscounter/internal/store"
)

// NewSignupCmd creates the signup command.
func NewSignupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new account with the counting service",
		Long: `Signup registers a new account with the counting service and logs you
in. The phone number becomes your account identifier and cannot be
changed later.

Examples:
  citruscounter signup --name "Ahmed Khan" --phone 03001234567`,
		RunE: runSignupCmd,
	}

	cmd.Flags().StringP("name", "n", "", "Display name (required)")
	cmd.Flags().StringP("phone", "p", "", "Phone number (required)")
	cmd.Flags().String("password", "", "Account password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("phone")

	addServiceFlags(cmd)

	return cmd
}

// runSignupCmd executes the signup command.
func runSignupCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildServiceConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return err
	}
	phone, err := cmd.Flags().GetString("phone")
	if err != nil {
		return err
	}
	password, err := readPassword(cmd)
	if err != nil {
		return err
	}

	client := auth.NewClient(cfg.Endpoint,
		auth.WithTimeout(cfg.Timeout),
		auth.WithUserAgent(cfg.UserAgent),
		auth.WithLogger(logger),
	)

	identity, err := client.Signup(cmd.Context(), name, phone, password)
	if err != nil {
		return describeAuthError(err)
	}

	db, err := store.Open(cfg.DataDir, store.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	defer db.Close()

	if err := db.SaveIdentity(cmd.Context(), identity); err != nil {
		return fmt.Errorf("failed to store identity: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Account created for %s (%s)\n", identity.Name, model.MaskPhone(identity.Phone))
	return nil
}
