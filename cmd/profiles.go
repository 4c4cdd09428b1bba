package cmd

import (
	"fmt"
	"os"
	"strings"

	cfgpkg "github.com/KaramelBytes/energymix-cli/internal/config"
	"github.com/KaramelBytes/energymix-cli/internal/emission"
	"github.com/spf13/cobra"
)

var (
	profilesYAML   bool
	profilesImport string
)

var profilesCmd = &cobra.Command{
	Use:   "profiles [name]",
	Short: "List CO₂ coefficient profiles",
	Long: `Lists the registered coefficient profiles: the built-in emission-factor and
intensity-score tables plus any declared under coefficient_profiles in the config.
Keywords are matched as lowercase substrings of the product label, first match wins.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if profilesImport != "" {
			return importProfiles(cmd, profilesImport)
		}
		names := emission.Names()
		if len(args) == 1 {
			names = args
		}
		var ps []emission.Profile
		for _, n := range names {
			p, err := emission.Lookup(n)
			if err != nil {
				return err
			}
			ps = append(ps, p)
		}
		out := cmd.OutOrStdout()
		if profilesYAML {
			b, err := emission.MarshalProfilesYAML(ps)
			if err != nil {
				return err
			}
			_, err = out.Write(b)
			return err
		}
		active := ""
		if cfg != nil {
			active = cfg.CoefficientProfile
		}
		for i, p := range ps {
			if i > 0 {
				fmt.Fprintln(out)
			}
			marker := ""
			if strings.EqualFold(p.Name, active) {
				marker = " (active)"
			}
			fmt.Fprintf(out, "%s [%s]%s\n", p.Name, p.Unit, marker)
			for _, c := range p.Coefficients {
				fmt.Fprintf(out, "  %-14s %g\n", c.Keyword, c.Value)
			}
		}
		return nil
	},
}

// importProfiles merges the profiles of a YAML file into the config,
// replacing same-named entries, and saves it.
func importProfiles(cmd *cobra.Command, path string) error {
	c, err := requireConfig()
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open profiles: %w", err)
	}
	defer f.Close()
	ps, err := emission.LoadProfilesYAML(f)
	if err != nil {
		return err
	}
	for _, p := range ps {
		replaced := false
		for i := range c.CoefficientProfiles {
			if strings.EqualFold(c.CoefficientProfiles[i].Name, p.Name) {
				c.CoefficientProfiles[i] = p
				replaced = true
			}
		}
		if !replaced {
			c.CoefficientProfiles = append(c.CoefficientProfiles, p)
		}
	}
	if err := c.RegisterProfiles(); err != nil {
		return err
	}
	if err := cfgpkg.Save(c, cfgFile); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d profile(s) from %s\n", len(ps), path)
	return nil
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	profilesCmd.Flags().BoolVar(&profilesYAML, "yaml", false, "print profiles in the coefficient_profiles YAML format")
	profilesCmd.Flags().StringVar(&profilesImport, "import", "", "merge the profiles of a YAML file into the config")
}
