// Package config defines the configuration for the mimir façade binary.
// Config is loaded from a YAML file (default: configs/config.yaml) with
// overrides via MIMIR_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level configuration for cmd/mimir.
type Config struct {
	Listen  ListenConfig  `mapstructure:"listen"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ListenConfig controls where the HTTP façade binds.
type ListenConfig struct {
	Address     string `mapstructure:"address"`
	MetricsPort int    `mapstructure:"metrics_port"`
}

// EngineConfig carries the constructor arguments the engine names for
// the V2 engine (with_latency / with_priority). The matching engine
// itself takes these as plain constructor arguments; this is only how
// cmd/mimir assembles them from the environment.
type EngineConfig struct {
	Variant       string `mapstructure:"variant"`        // "topbook" or "depth"
	LatencyPeriod int64  `mapstructure:"latency_period"` // 0 disables latency modeling
	Priority      string `mapstructure:"priority"`       // "always_first" or "trade_through"
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads config from a YAML file with MIMIR_* environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("MIMIR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen.address", ":8080")
	v.SetDefault("listen.metrics_port", 9090)
	v.SetDefault("engine.variant", "depth")
	v.SetDefault("engine.latency_period", 0)
	v.SetDefault("engine.priority", "always_first")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the fields that would otherwise surface as confusing
// panics deep inside engine construction.
func (c *Config) Validate() error {
	switch c.Engine.Variant {
	case "topbook", "depth":
	default:
		return fmt.Errorf("engine.variant must be \"topbook\" or \"depth\", got %q", c.Engine.Variant)
	}
	if c.Engine.LatencyPeriod < 0 {
		return fmt.Errorf("engine.latency_period must be >= 0")
	}
	switch c.Engine.Priority {
	case "always_first", "trade_through":
	default:
		return fmt.Errorf("engine.priority must be \"always_first\" or \"trade_through\", got %q", c.Engine.Priority)
	}
	return nil
}
