package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/citruscounter/citruscounter/internal/auth"
	"github.com/citruscounter/citruscounter/internal/model"
	"github.com/citruscounter/citruscounter/internal/store"
)

// NewProfileCmd creates the profile command with its subcommands.
func NewProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit the logged-in profile",
		Long: `Profile shows the stored identity, or updates the display name with the
edit subcommand. The phone number identifies the account and cannot be
changed.`,
		RunE: runProfileShowCmd,
	}

	edit := &cobra.Command{
		Use:   "edit",
		Short: "Update the profile's display name",
		Long: `Edit updates the display name on the counting service and in the local
store. The account password is required to authorize the change.

Examples:
  citruscounter profile edit --name "Ahmed K. Khan"`,
		RunE: runProfileEditCmd,
	}
	edit.Flags().StringP("name", "n", "", "New display name (required)")
	edit.Flags().String("password", "", "Account password (prompted when omitted)")
	_ = edit.MarkFlagRequired("name")
	addServiceFlags(edit)

	cmd.AddCommand(edit)
	return cmd
}

// runProfileShowCmd prints the stored identity and farm details.
func runProfileShowCmd(cmd *cobra.Command, _ []string) error {
	db, err := openDefaultStore()
	if err != nil {
		return err
	}
	defer db.Close()

	identity, err := db.Identity(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Name:  %s\n", identity.Name)
	fmt.Fprintf(cmd.OutOrStdout(), "Phone: %s\n", model.MaskPhone(identity.Phone))

	if farm, err := db.FarmMetadata(cmd.Context()); err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Farm:  %d acres, %d trees\n", farm.LandSizeAcres, farm.TotalTrees)
	}
	if count, err := db.LastCount(cmd.Context()); err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Last count: %d citrus per tree\n", count)
	}
	return nil
}

// runProfileEditCmd executes the profile edit subcommand.
func runProfileEditCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildServiceConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	db, err := store.Open(cfg.DataDir, store.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	defer db.Close()

	identity, err := db.Identity(cmd.Context())
	if err != nil {
		return err
	}

	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return err
	}
	password, err := readPassword(cmd)
	if err != nil {
		return err
	}

	identity.Name = name

	client := auth.NewClient(cfg.Endpoint,
		auth.WithTimeout(cfg.Timeout),
		auth.WithUserAgent(cfg.UserAgent),
		auth.WithLogger(logger),
	)

	updated, err := client.EditProfile(cmd.Context(), identity, password)
	if err != nil {
		return describeAuthError(err)
	}

	if err := db.SaveIdentity(cmd.Context(), updated); err != nil {
		return fmt.Errorf("failed to store updated identity: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Profile updated: %s\n", updated.Name)
	return nil
}
