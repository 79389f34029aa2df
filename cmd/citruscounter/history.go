package main

import (
	"encoding/json"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the locally mirrored counting history",
		Long: `History lists the counting results recorded for the logged-in phone
number. The history is mirrored locally after every successful counting
session, so it works offline.`,
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output the history as JSON")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	db, err := openDefaultStore()
	if err != nil {
		return err
	}
	defer db.Close()

	identity, err := db.Identity(cmd.Context())
	if err != nil {
		return err
	}

	entries, err := db.CountHistory(cmd.Context(), identity.Phone)
	if err != nil {
		return err
	}

	if jsonFlag, _ := cmd.Flags().GetBool("json"); jsonFlag {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No counting history recorded yet. Run 'citruscounter count' first.")
		return nil
	}

	printer := message.NewPrinter(language.English)
	fmt.Fprintf(cmd.OutOrStdout(), "Counting history for %s:\n\n", identity.Name)
	for _, entry := range entries {
		fmt.Fprintln(cmd.OutOrStdout(), printer.Sprintf("  %s  %d citrus", entry.Date, entry.CitrusCount))
	}
	return nil
}
