package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	mixJSON     bool
	heatmapJSON bool
)

var mixCmd = &cobra.Command{
	Use:   "mix",
	Short: "Show yearly generation per source for the focus country",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBuilder(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if mixJSON {
			f, err := b.EnergyMixArea()
			if err != nil {
				return err
			}
			return printJSON(out, f)
		}
		m, err := b.MixMatrix()
		if err != nil {
			return err
		}
		if m.Empty() {
			return fmt.Errorf("no generation records for %s", b.Focus)
		}
		fmt.Fprintf(out, "Energy mix of %s\n", b.Focus)
		return printMatrix(out, "PRODUCT", m, 2)
	},
}

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Show each source's yearly share of generation (%) for the focus country",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBuilder(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if heatmapJSON {
			f, err := b.ShareHeatmap()
			if err != nil {
				return err
			}
			return printJSON(out, f)
		}
		m, err := b.ShareMatrix()
		if err != nil {
			return err
		}
		if m.Empty() {
			return fmt.Errorf("no generation records for %s", b.Focus)
		}
		fmt.Fprintf(out, "Share of generation in %s (%%, %s)\n", b.Focus, b.ShareMode.Resolve(b.Table))
		return printMatrix(out, "PRODUCT", m, 4)
	},
}

func init() {
	rootCmd.AddCommand(mixCmd)
	rootCmd.AddCommand(heatmapCmd)
	mixCmd.Flags().BoolVar(&mixJSON, "json", false, "print the area figure as JSON")
	heatmapCmd.Flags().BoolVar(&heatmapJSON, "json", false, "print the heatmap figure as JSON")
}
