package cmd

import (
	"fmt"

	"github.com/KaramelBytes/energymix-cli/internal/export"
	"github.com/spf13/cobra"
)

var (
	expOutput   string
	expFraction float64
	expData     bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the derived tables to an Excel workbook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBuilder(cmd.Context())
		if err != nil {
			return err
		}
		opt := export.Options{Fraction: cfg.SimulationFraction, IncludeData: expData}
		if cmd.Flags().Changed("fraction") {
			opt.Fraction = expFraction
		}
		if err := export.Save(expOutput, b, opt); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote workbook to %s\n", expOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&expOutput, "output", "o", "energymix.xlsx", "output workbook")
	exportCmd.Flags().Float64Var(&expFraction, "fraction", 0.3, "reallocation fraction for the simulation sheet (default simulation_fraction)")
	exportCmd.Flags().BoolVar(&expData, "data-sheet", false, "include the full canonical table as a sheet")
}
