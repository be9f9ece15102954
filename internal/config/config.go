package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load, e.g.
// HUF_LOG_LEVEL for log.level.
const EnvPrefix = "HUF"

// Config holds all configuration for the huf tool
type Config struct {
	Log   LogConfig   `mapstructure:"log"`
	Codec CodecConfig `mapstructure:"codec"`
}

// LogConfig holds logging related configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CodecConfig holds file naming and output related configuration
type CodecConfig struct {
	Suffix    string `mapstructure:"suffix"`
	Marker    string `mapstructure:"marker"`
	Overwrite bool   `mapstructure:"overwrite"`
	Trace     bool   `mapstructure:"trace"`
}

// New returns a viper instance with defaults and environment bindings in
// place, ready for flags to be bound before Load is called.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from the optional file at configPath, the
// environment, and whatever else is bound to v.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("codec.suffix", ".huf")
	v.SetDefault("codec.marker", "_unc")
	v.SetDefault("codec.overwrite", false)
	v.SetDefault("codec.trace", false)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format: %q", c.Log.Format)
	}
	if c.Codec.Suffix == "" || !strings.HasPrefix(c.Codec.Suffix, ".") {
		return fmt.Errorf("codec suffix must start with '.': %q", c.Codec.Suffix)
	}
	if c.Codec.Marker == "" {
		return fmt.Errorf("codec marker cannot be empty")
	}
	if strings.ContainsAny(c.Codec.Suffix+c.Codec.Marker, `/\`) {
		return fmt.Errorf("codec suffix and marker cannot contain path separators")
	}
	return nil
}
