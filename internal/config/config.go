package config

import (
	"flag"
	"os"

	"github.com/spf13/viper"

	"codeberg.org/mutker/clkctl/internal/errors"
)

const (
	defaultListen      = "localhost:9601"
	defaultProbe       = "measure"
	defaultTelemetryDB = "/var/lib/clkctl/telemetry.db"
)

// ClockConfig defines one clock in the managed tree.
type ClockConfig struct {
	Name string
	Rate uint64
	// Flags selects the authoritative rate path: "min", "max".
	Flags []string
	// MinRate and MaxRate are hardware bounds; zero means unbounded.
	MinRate uint64 `mapstructure:"min_rate"`
	MaxRate uint64 `mapstructure:"max_rate"`
	// Rates lists discrete supported rates, exposed via list_rates.
	Rates []uint64
	Local bool
	// Minimal strips the optional capabilities from the clock.
	Minimal bool
	Enabled bool
	// Mux restricts which clocks this one may be reparented onto; only
	// meaningful for the probe clock.
	Mux []string
}

type Config struct {
	Listen      string
	Probe       string
	Debug       bool
	Verbose     bool
	Telemetry   bool
	TelemetryDB string `mapstructure:"telemetry_db"`
	Clocks      []ClockConfig
}

func Load() (*Config, error) {
	errFactory := errors.New()
	config := &Config{}

	// Define flags on a fresh set so repeated loads stay independent
	fs := flag.NewFlagSet("clkctl", flag.ContinueOnError)
	fs.String("listen", defaultListen, "Control-plane listen address")
	fs.String("probe", defaultProbe, "Name of the measurement probe clock")
	debugFlag := fs.Bool("debug", false, "Enable debugging mode")
	verboseFlag := fs.Bool("verbose", false, "Enable verbose logging")
	telemetryFlag := fs.Bool("telemetry", false, "Enable the sqlite operation journal")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	v := viper.New()
	v.SetDefault("listen", defaultListen)
	v.SetDefault("probe", defaultProbe)
	v.SetDefault("telemetry_db", defaultTelemetryDB)

	// Load configuration from file
	if path := os.Getenv("CLKCTL_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("clkctl.conf")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	// Override config file values with command line flags. Booleans are
	// folded separately so they keep their type through Unmarshal.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "debug", "verbose", "telemetry":
		default:
			v.Set(f.Name, f.Value.String())
		}
	})
	v.Set("debug", *debugFlag || v.GetBool("debug"))
	v.Set("verbose", *verboseFlag || v.GetBool("verbose"))
	v.Set("telemetry", *telemetryFlag || v.GetBool("telemetry"))

	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Listen == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "listen address must not be empty")
	}
	if c.Telemetry && c.TelemetryDB == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "telemetry requires a database path")
	}

	seen := make(map[string]bool, len(c.Clocks))
	for i := range c.Clocks {
		cc := &c.Clocks[i]
		if cc.Name == "" {
			return errFactory.WithMessage(errors.ErrInvalidConfig, "clock without a name")
		}
		if seen[cc.Name] {
			return errFactory.WithData(errors.ErrInvalidConfig, cc.Name)
		}
		seen[cc.Name] = true

		for _, f := range cc.Flags {
			if f != "min" && f != "max" {
				return errFactory.WithData(errors.ErrInvalidConfig, f)
			}
		}
	}

	return nil
}
