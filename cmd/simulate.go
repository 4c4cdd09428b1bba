package cmd

import (
	"fmt"
	"text/tabwriter"

	cfgpkg "github.com/KaramelBytes/energymix-cli/internal/config"
	"github.com/KaramelBytes/energymix-cli/internal/energy"
	"github.com/KaramelBytes/energymix-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	simFraction float64
	simThrough  int
	simJSON     bool

	fcProduct string
	fcThrough int
	fcJSON    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Reallocate a fraction of fossil generation to solar and wind",
	Long: `Moves a fraction of each year's Coal, Oil and Natural gas generation to Solar and
Wind (split evenly) for the focus country and recomputes CO₂ with the active
coefficient profile. With --through, baseline and simulated CO₂ are extended
at their historical compound growth rate.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBuilder(cmd.Context())
		if err != nil {
			return err
		}
		fraction := cfg.SimulationFraction
		if cmd.Flags().Changed("fraction") {
			fraction = simFraction
		}
		s, err := energy.Simulate(energy.Country(b.Focus).Apply(b.Table), b.Profile, fraction)
		if err != nil {
			return err
		}
		if len(s.Years) == 0 {
			return fmt.Errorf("no records for %s", b.Focus)
		}
		out := cmd.OutOrStdout()
		var proj *energy.ScenarioProjection
		if simThrough > 0 {
			if err := cfgpkg.CheckThrough(simThrough); err != nil {
				return err
			}
			if proj, err = energy.ProjectScenario(s, simThrough); err != nil {
				return err
			}
		}
		if simJSON {
			res := map[string]any{"fraction": s.Fraction, "profile": s.Profile, "years": s.Years}
			if proj != nil {
				res["baseline_projection"] = proj.Baseline.Points()
				res["simulated_projection"] = proj.Simulated.Points()
			}
			return printJSON(out, res)
		}

		fmt.Fprintf(out, "%s: %.0f%% of fossil generation moved to Solar/Wind (%s)\n", b.Focus, fraction*100, s.Profile)
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "YEAR\tMOVED\tCO2_BASELINE\tCO2_SIMULATED\tREDUCTION\t")
		for _, o := range s.Years {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n", o.Year,
				utils.FormatCell(o.Moved, 2), utils.FormatCell(o.Baseline, 2),
				utils.FormatCell(o.Simulated, 2), utils.FormatCell(o.Baseline-o.Simulated, 2))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if proj != nil {
			last := proj.Baseline.LastHistoricalYear()
			fmt.Fprintf(out, "\nBaseline CO₂ (%.2f%%/year)\n", proj.Baseline.Rate()*100)
			if err := printPoints(out, "CO2", proj.Baseline.Points(), last); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nSimulated CO₂ (%.2f%%/year)\n", proj.Simulated.Rate()*100)
			return printPoints(out, "CO2", proj.Simulated.Points(), last)
		}
		return nil
	},
}

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project a source's yearly generation at its historical growth rate",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBuilder(cmd.Context())
		if err != nil {
			return err
		}
		through := cfg.ProjectionThrough
		if cmd.Flags().Changed("through") {
			through = fcThrough
			if err := cfgpkg.CheckThrough(through); err != nil {
				return err
			}
		}
		t := energy.Filter{Countries: []string{b.Focus}, Products: []string{fcProduct}}.Apply(b.Table)
		if t.Len() == 0 {
			return fmt.Errorf("no %s records for %s", fcProduct, b.Focus)
		}
		d, err := energy.Aggregate(t, []energy.Field{energy.FieldYear}, energy.Generation, energy.AggSum)
		if err != nil {
			return err
		}
		p, err := energy.Project(energy.AnnualSeries(d), through)
		if err != nil {
			return fmt.Errorf("%s in %s: %w", fcProduct, b.Focus, err)
		}
		out := cmd.OutOrStdout()
		if fcJSON {
			return printJSON(out, map[string]any{
				"country": b.Focus, "product": fcProduct, "rate": p.Rate(), "points": p.Points(),
			})
		}
		fmt.Fprintf(out, "%s generation in %s: %.2f%%/year\n", fcProduct, b.Focus, p.Rate()*100)
		return printPoints(out, "VALUE", p.Points(), p.LastHistoricalYear())
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(forecastCmd)
	simulateCmd.Flags().Float64Var(&simFraction, "fraction", 0.3, "fraction of fossil generation to reallocate (0..1, default simulation_fraction)")
	simulateCmd.Flags().IntVar(&simThrough, "through", 0, "project baseline and simulated CO₂ through this year")
	simulateCmd.Flags().BoolVar(&simJSON, "json", false, "print the scenario as JSON")
	forecastCmd.Flags().StringVar(&fcProduct, "product", "Solar", "source to project")
	forecastCmd.Flags().IntVar(&fcThrough, "through", 2050, "last projected year (default projection_through)")
	forecastCmd.Flags().BoolVar(&fcJSON, "json", false, "print the projection as JSON")
}
