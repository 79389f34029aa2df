package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/citruscounter/citruscounter/internal/model"
	"github.com/citruscounter/citruscounter/internal/store"
)

// NewFarmCmd creates the farm command.
func NewFarmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "farm",
		Short: "Show or record farm details",
		Long: `Farm shows the recorded land size and tree count, or updates them when
flags are given. The tree count is required to build yield reports: the
per-acre estimate is the latest count multiplied by the total trees.

Examples:
  # Show the recorded details
  citruscounter farm

  # Record or update them
  citruscounter farm --land-size 5 --total-trees 20`,
		RunE: runFarmCmd,
	}

	cmd.Flags().IntP("land-size", "l", 0, "Farm land size in acres")
	cmd.Flags().IntP("total-trees", "t", 0, "Total citrus trees on the farm")

	return cmd
}

// runFarmCmd executes the farm command.
func runFarmCmd(cmd *cobra.Command, _ []string) error {
	db, err := openDefaultStore()
	if err != nil {
		return err
	}
	defer db.Close()

	landSize, err := cmd.Flags().GetInt("land-size")
	if err != nil {
		return err
	}
	totalTrees, err := cmd.Flags().GetInt("total-trees")
	if err != nil {
		return err
	}

	if landSize == 0 && totalTrees == 0 {
		md, err := db.FarmMetadata(cmd.Context())
		if errors.Is(err, store.ErrNoFarmMetadata) {
			fmt.Fprintln(cmd.OutOrStdout(), "No farm details recorded. Use --land-size and --total-trees to record them.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Land size:   %d acres\n", md.LandSizeAcres)
		fmt.Fprintf(cmd.OutOrStdout(), "Total trees: %d\n", md.TotalTrees)
		return nil
	}

	// Merge partial updates with stored values so one flag doesn't wipe
	// the other field.
	md, err := db.FarmMetadata(cmd.Context())
	if err != nil && !errors.Is(err, store.ErrNoFarmMetadata) {
		return err
	}
	if landSize != 0 {
		md.LandSizeAcres = landSize
	}
	if totalTrees != 0 {
		md.TotalTrees = totalTrees
	}

	if err := md.Validate(); err != nil {
		if errors.Is(err, model.ErrInvalidLandSize) || errors.Is(err, model.ErrInvalidTotalTrees) {
			return fmt.Errorf("%w (both values must be positive)", err)
		}
		return err
	}

	if err := db.SaveFarmMetadata(cmd.Context(), md); err != nil {
		return fmt.Errorf("failed to save farm details: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Farm details saved: %d acres, %d trees\n", md.LandSizeAcres, md.TotalTrees)
	return nil
}
