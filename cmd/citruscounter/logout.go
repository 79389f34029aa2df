package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citruscounter/citruscounter/internal/store"
)

// NewLogoutCmd creates the logout command.
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and remove the stored identity",
		Long: `Logout removes the stored identity and your locally mirrored counting
history. Farm details (land size, tree count) are kept: they describe the
farm, not the account.`,
		RunE: runLogoutCmd,
	}
}

// runLogoutCmd executes the logout command.
func runLogoutCmd(cmd *cobra.Command, _ []string) error {
	db, err := openDefaultStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Identity(cmd.Context()); errors.Is(err, store.ErrNotLoggedIn) {
		fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
		return nil
	}

	if err := db.ClearIdentity(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
	return nil
}
