package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citruscounter/citruscounter/internal/auth"
	"github.com/citruscounter/citruscounter/internal/model"
	"github.com/citruscounter/citruscounter/internal/store"
)

// NewPasswordResetCmd creates the password-reset command.
func NewPasswordResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password-reset",
		Short: "Request a password reset from the admin",
		Long: `Password-reset prepares a recovery request for your account. The
counting service has no self-service reset; an admin verifies you over
WhatsApp and changes the password manually. This command prints the
message to send and a WhatsApp link that opens the chat prefilled.

When you are logged in, the stored name and phone number are used.
Otherwise pass them with --name and --phone.

Examples:
  # Use the stored identity
  citruscounter password-reset

  # Recover an account this machine never logged into
  citruscounter password-reset --name "Ahmed Khan" --phone 03001234567`,
		RunE: runPasswordResetCmd,
	}

	cmd.Flags().StringP("name", "n", "", "Registered display name (default: stored identity)")
	cmd.Flags().StringP("phone", "p", "", "Registered phone number (default: stored identity)")

	return cmd
}

// runPasswordResetCmd executes the password-reset command.
func runPasswordResetCmd(cmd *cobra.Command, _ []string) error {
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return err
	}
	phone, err := cmd.Flags().GetString("phone")
	if err != nil {
		return err
	}

	if name == "" || phone == "" {
		identity, err := storedIdentity(cmd)
		if err != nil {
			return err
		}
		if name == "" {
			name = identity.Name
		}
		if phone == "" {
			phone = identity.Phone
		}
	}

	req, err := auth.NewRecoveryRequest(name, phone)
	if err != nil {
		return describeAuthError(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Send this message to the admin on WhatsApp (%s):\n\n", auth.RecoveryContact)
	fmt.Fprintf(out, "%s\n\n", req.Message())
	fmt.Fprintf(out, "Open the chat directly:\n%s\n", req.WhatsAppURL())
	return nil
}

// storedIdentity loads the logged-in identity to fill in missing account
// details.
func storedIdentity(cmd *cobra.Command) (model.Identity, error) {
	db, err := openDefaultStore()
	if err != nil {
		return model.Identity{}, err
	}
	defer db.Close()

	identity, err := db.Identity(cmd.Context())
	if errors.Is(err, store.ErrNotLoggedIn) {
		return model.Identity{}, fmt.Errorf("%w: pass --name and --phone to identify the account", err)
	}
	if err != nil {
		return model.Identity{}, err
	}
	return identity, nil
}
