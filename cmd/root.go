package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/energymix-cli/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Dataset and scope flags (override config if set)
	flagData      string
	flagProfile   string
	flagStartYear int
	flagCountry   string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "energymix",
	Short: "energymix: energy-transition statistics for Colombia",
	Long: `energymix turns a per-country, per-product energy dataset into the derived tables
behind the "Factores claves para la transición energética en Colombia" dashboard:
energy-mix composition, CO₂ estimates, renewable shares, a fossil-to-renewable
reallocation scenario and compound-growth projections. Serve the dashboard with
"energymix serve" or query the same tables and charts from the command line.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.energymix/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "dataset: CSV/TSV/XLSX path or postgres:// DSN (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "coefficient profile name (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagStartYear, "start-year", 0, "drop records before this year (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagCountry, "country", "", "focus country (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands that need config report it themselves
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c
	if err := cfg.RegisterProfiles(); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
	}

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("data") && flagData != "" {
		cfg.DataPath = flagData
	}
	if f.Changed("profile") && flagProfile != "" {
		cfg.CoefficientProfile = flagProfile
	}
	if f.Changed("start-year") {
		cfg.StartYear = flagStartYear
	}
	if f.Changed("country") && flagCountry != "" {
		cfg.FocusCountry = flagCountry
	}
}

// requireConfig returns the loaded configuration or the reason it is missing.
func requireConfig() (*cfgpkg.Global, error) {
	if cfg == nil {
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	return cfg, nil
}
