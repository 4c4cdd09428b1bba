package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/energymix-cli/internal/config"
	"github.com/KaramelBytes/energymix-cli/internal/energy"
	"github.com/KaramelBytes/energymix-cli/internal/render"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set energymix configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "data_path: %s\n", maskDSN(cfg.DataPath))
		if cfg.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", cfg.SheetName)
		}
		if cfg.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", cfg.Delimiter)
		}
		fmt.Fprintf(out, "sql_table: %s\n", cfg.SQLTable)
		fmt.Fprintf(out, "start_year: %d\n", cfg.StartYear)
		if cfg.Balance != "" {
			fmt.Fprintf(out, "balance: %s\n", cfg.Balance)
		}
		fmt.Fprintf(out, "focus_country: %s\n", cfg.FocusCountry)
		fmt.Fprintf(out, "coefficient_profile: %s\n", cfg.CoefficientProfile)
		if len(cfg.CoefficientProfiles) > 0 {
			names := make([]string, len(cfg.CoefficientProfiles))
			for i, p := range cfg.CoefficientProfiles {
				names[i] = p.Name
			}
			fmt.Fprintf(out, "coefficient_profiles: %s\n", strings.Join(names, ", "))
		}
		fmt.Fprintf(out, "share_mode: %s\n", cfg.ShareMode)
		fmt.Fprintf(out, "mix_products: %s\n", strings.Join(cfg.MixProducts, ", "))
		fmt.Fprintf(out, "projection_through: %d\n", cfg.ProjectionThrough)
		fmt.Fprintf(out, "simulation_fraction: %.3f\n", cfg.SimulationFraction)
		fmt.Fprintf(out, "listen_addr: %s\n", cfg.ListenAddr)
		fmt.Fprintf(out, "assets_dir: %s\n", cfg.AssetsDir)
		if cfg.NotebookPath != "" {
			fmt.Fprintf(out, "notebook_path: %s\n", cfg.NotebookPath)
		}
		fmt.Fprintf(out, "page_size: %d\n", cfg.PageSize)
		fmt.Fprintf(out, "chart_format: %s\n", cfg.ChartFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := requireConfig()
		if err != nil {
			return err
		}
		switch key {
		case "data_path":
			c.DataPath = val
		case "sheet_name":
			c.SheetName = val
		case "delimiter":
			if _, err := parseDelimiter(val); err != nil {
				return err
			}
			c.Delimiter = val
		case "sql_table":
			c.SQLTable = val
		case "start_year":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for start_year: %v", val)
			}
			c.StartYear = i
		case "balance":
			c.Balance = val
		case "focus_country":
			c.FocusCountry = val
		case "coefficient_profile":
			c.CoefficientProfile = val
		case "share_mode":
			m, err := energy.ParseShareMode(val)
			if err != nil {
				return err
			}
			c.ShareMode = m.String()
		case "mix_products":
			var products []string
			for _, p := range strings.Split(val, ",") {
				if p = strings.TrimSpace(p); p != "" {
					products = append(products, p)
				}
			}
			if len(products) == 0 {
				return fmt.Errorf("mix_products: at least one product is required")
			}
			c.MixProducts = products
		case "projection_through":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for projection_through: %w", err)
			}
			if i < 0 || i > energy.MaxProjectionYear {
				return fmt.Errorf("invalid projection_through: %d (max %d)", i, energy.MaxProjectionYear)
			}
			c.ProjectionThrough = i
		case "simulation_fraction":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 || f > 1 {
				return fmt.Errorf("invalid fraction for simulation_fraction: %v (use 0..1)", val)
			}
			c.SimulationFraction = f
		case "listen_addr":
			c.ListenAddr = val
		case "assets_dir":
			c.AssetsDir = val
		case "notebook_path":
			c.NotebookPath = val
		case "page_size":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for page_size: %v", val)
			}
			c.PageSize = i
		case "chart_format":
			f, err := render.ParseFormat(val)
			if err != nil {
				return err
			}
			c.ChartFormat = string(f)
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

// maskDSN hides the password of a database source.
func maskDSN(s string) string {
	at := strings.Index(s, "@")
	scheme := strings.Index(s, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return s
	}
	userinfo := s[scheme+3 : at]
	colon := strings.Index(userinfo, ":")
	if colon < 0 {
		return s
	}
	return s[:scheme+3] + userinfo[:colon] + ":****" + s[at:]
}
