package cmd

import (
	"fmt"
	"os"

	"github.com/KaramelBytes/energymix-cli/internal/analysis"
	"github.com/KaramelBytes/energymix-cli/internal/energy"
	"github.com/KaramelBytes/energymix-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	descOutputPath string
	descGroupBy    string
	descTop        int
	descAll        bool
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Summarize the dataset with descriptive statistics",
	Long: `Prints a schema and describe() table (count, mean, std, min, quartiles, max) of the
canonical dataset, restricted to the focus country unless --all is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, rep, err := loadTable(cmd.Context())
		if err != nil {
			return err
		}
		opt := analysis.DefaultOptions()
		if descTop > 0 {
			opt.TopValues = descTop
		}
		if descGroupBy != "" {
			f, err := energy.ParseField(descGroupBy)
			if err != nil {
				return err
			}
			opt.GroupBy = f
		}
		name := rep.Source
		if !descAll {
			t = energy.Country(cfg.FocusCountry).Apply(t)
			name = fmt.Sprintf("%s (%s)", rep.Source, cfg.FocusCountry)
		}
		md := analysis.Describe(maskDSN(name), t, opt).Markdown()

		if descOutputPath != "" {
			if err := utils.SafeWriteFile(descOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary to %s\n", descOutputPath)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), md)
		if t.Len() == 0 {
			fmt.Fprintf(os.Stderr, "⚠ Warning: no records for %s\n", cfg.FocusCountry)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringVarP(&descOutputPath, "output", "o", "", "write the summary to a file instead of stdout")
	describeCmd.Flags().StringVar(&descGroupBy, "group-by", "", "add per-group VALUE statistics (country|year|month|product)")
	describeCmd.Flags().IntVar(&descTop, "top", 0, "top categories listed per text column")
	describeCmd.Flags().BoolVar(&descAll, "all", false, "describe every country instead of the focus country")
}
