package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/energymix-cli/internal/energy"
	"github.com/KaramelBytes/energymix-cli/internal/utils"
	"github.com/spf13/cobra"
)

var co2JSON bool

var co2Cmd = &cobra.Command{
	Use:   "co2 <country> [country...]",
	Short: "Compare estimated CO₂ per year across countries",
	Long: `Estimates CO₂ as generation times the active profile's coefficient and compares
the selected countries with the focus country, year by year, followed by each
selected country's share of the selection's total.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBuilder(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if co2JSON {
			line, err := b.CO2Comparison(args)
			if err != nil {
				return err
			}
			pie, err := b.CO2Pie(args)
			if err != nil {
				return err
			}
			return printJSON(out, map[string]any{"comparison": line, "pie": pie})
		}

		t := energy.Filter{Countries: append(append([]string(nil), args...), b.Focus)}.Apply(b.Table)
		if t.Len() == 0 {
			return fmt.Errorf("no records for %s", strings.Join(args, ", "))
		}
		m, err := energy.Pivot(t, energy.FieldCountry, energy.FieldYear, energy.CO2(b.Profile), energy.AggSum)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "CO₂ estimate (%s, %s)\n", b.Profile.Name, b.Profile.Unit)
		if err := printMatrix(out, "COUNTRY", m, 2); err != nil {
			return err
		}

		d, err := energy.Aggregate(energy.Filter{Countries: args}.Apply(b.Table), []energy.Field{energy.FieldCountry}, energy.CO2(b.Profile), energy.AggSum)
		if err != nil {
			return err
		}
		total := d.Total()
		fmt.Fprintln(out)
		for _, r := range d.Rows {
			share := 0.0
			if total > 0 {
				share = r.Value / total * 100
			}
			fmt.Fprintf(out, "%-20s %14s  %s\n", r.Key.Country, utils.FormatThousands(r.Value), utils.FormatPercent(share))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(co2Cmd)
	co2Cmd.Flags().BoolVar(&co2JSON, "json", false, "print the comparison and pie figures as JSON")
}
