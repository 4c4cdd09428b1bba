package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var kpiJSON bool

var kpiCmd = &cobra.Command{
	Use:   "kpi",
	Short: "Show the headline KPIs of the focus country",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBuilder(cmd.Context())
		if err != nil {
			return err
		}
		k := b.KPIs()
		out := cmd.OutOrStdout()
		if kpiJSON {
			return printJSON(out, map[string]any{"country": b.Focus, "kpis": k, "cards": k.Cards(b.Focus)})
		}
		for _, c := range k.Cards(b.Focus) {
			fmt.Fprintf(out, "%-28s %s\n", c.Title+":", c.Value)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(kpiCmd)
	kpiCmd.Flags().BoolVar(&kpiJSON, "json", false, "print KPIs as JSON")
}
