package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/energymix-cli/internal/emission"
	"github.com/KaramelBytes/energymix-cli/internal/energy"
)

// Global configuration structure.
type Global struct {
	// Dataset source: a CSV/TSV/XLSX path or a postgres:// DSN.
	DataPath  string `mapstructure:"data_path" yaml:"data_path"`
	SheetName string `mapstructure:"sheet_name" yaml:"sheet_name"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	SQLTable  string `mapstructure:"sql_table" yaml:"sql_table"`
	StartYear int    `mapstructure:"start_year" yaml:"start_year"`
	Balance   string `mapstructure:"balance" yaml:"balance"`

	FocusCountry        string             `mapstructure:"focus_country" yaml:"focus_country"`
	CoefficientProfile  string             `mapstructure:"coefficient_profile" yaml:"coefficient_profile"`
	CoefficientProfiles []emission.Profile `mapstructure:"coefficient_profiles" yaml:"coefficient_profiles,omitempty"`
	ShareMode           string             `mapstructure:"share_mode" yaml:"share_mode"`
	MixProducts         []string           `mapstructure:"mix_products" yaml:"mix_products"`
	ProjectionThrough   int                `mapstructure:"projection_through" yaml:"projection_through"`
	SimulationFraction  float64            `mapstructure:"simulation_fraction" yaml:"simulation_fraction"`

	// Dashboard
	ListenAddr   string `mapstructure:"listen_addr" yaml:"listen_addr"`
	AssetsDir    string `mapstructure:"assets_dir" yaml:"assets_dir"`
	NotebookPath string `mapstructure:"notebook_path" yaml:"notebook_path"`
	PageSize     int    `mapstructure:"page_size" yaml:"page_size"`
	ChartFormat  string `mapstructure:"chart_format" yaml:"chart_format"`
}

// Dir returns ~/.energymix.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".energymix"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.energymix/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_path", "")
	v.SetDefault("sheet_name", "")
	v.SetDefault("delimiter", "")
	v.SetDefault("sql_table", "energy_records")
	v.SetDefault("start_year", 2014)
	v.SetDefault("balance", "")
	v.SetDefault("focus_country", "Colombia")
	v.SetDefault("coefficient_profile", emission.EmissionFactor)
	v.SetDefault("share_mode", energy.ShareAuto.String())
	v.SetDefault("mix_products", []string{"Hydro", "Solar", "Wind", "Natural gas", "Oil", "Coal"})
	v.SetDefault("projection_through", 2050)
	v.SetDefault("simulation_fraction", 0.3)
	// Dashboard defaults
	v.SetDefault("listen_addr", ":8050")
	v.SetDefault("assets_dir", "assets")
	v.SetDefault("notebook_path", "")
	v.SetDefault("page_size", 20)
	v.SetDefault("chart_format", "png")
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A .env file in the working
// directory is read into the environment first.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ENERGYMIX")
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks values that would otherwise fail deep inside a command.
func (c *Global) Validate() error {
	if _, err := energy.ParseShareMode(c.ShareMode); err != nil {
		return fmt.Errorf("share_mode: %w", err)
	}
	if c.SimulationFraction < 0 || c.SimulationFraction > 1 {
		return fmt.Errorf("simulation_fraction %v: must be within [0,1]", c.SimulationFraction)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size %d: must be positive", c.PageSize)
	}
	if c.StartYear < 0 {
		return fmt.Errorf("start_year %d: must not be negative", c.StartYear)
	}
	if err := checkThrough(c.ProjectionThrough); err != nil {
		return fmt.Errorf("projection_through %w", err)
	}
	switch c.ChartFormat {
	case "png", "svg":
	default:
		return fmt.Errorf("chart_format %q: use png or svg", c.ChartFormat)
	}
	return nil
}

func checkThrough(y int) error {
	if y < 0 || y > energy.MaxProjectionYear {
		return fmt.Errorf("%d: must be within [0,%d]", y, energy.MaxProjectionYear)
	}
	return nil
}

// CheckThrough validates a projection horizon given on the command line.
func CheckThrough(y int) error {
	if err := checkThrough(y); err != nil {
		return fmt.Errorf("--through %w", err)
	}
	return nil
}

// RegisterProfiles adds the configured custom coefficient profiles to the
// emission registry, validating each one.
func (c *Global) RegisterProfiles() error {
	for _, raw := range c.CoefficientProfiles {
		p, err := emission.NewProfile(raw.Name, raw.Unit, raw.Coefficients...)
		if err != nil {
			return fmt.Errorf("coefficient_profiles: %w", err)
		}
		emission.Register(p)
	}
	return nil
}

// Profile resolves the active coefficient profile.
func (c *Global) Profile() (emission.Profile, error) {
	return emission.Lookup(c.CoefficientProfile)
}
