// Package config loads fabula's runtime configuration from a YAML file and
// FABULA_* environment variables via viper. Everything has a default; a
// missing config file is not an error.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"fabula/internal/contextbuilder"
)

// Config is the full runtime configuration.
type Config struct {
	// Project is the story project directory loaded by the file store.
	Project string `mapstructure:"project"`

	Server  ServerConfig  `mapstructure:"server"`
	Context ContextConfig `mapstructure:"context"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// ContextConfig overrides the context assembly constants.
type ContextConfig struct {
	TotalBudget    int           `mapstructure:"total_budget"`
	OutputReserve  int           `mapstructure:"output_reserve"`
	PromptReserve  int           `mapstructure:"prompt_reserve"`
	PrevTailLength int           `mapstructure:"prev_tail_length"`
	Weights        WeightsConfig `mapstructure:"weights"`
}

// WeightsConfig sets the five tier priority weights.
type WeightsConfig struct {
	Required  int `mapstructure:"required"`
	Expansion int `mapstructure:"expansion"`
	Plot      int `mapstructure:"plot"`
	World     int `mapstructure:"world"`
	Custom    int `mapstructure:"custom"`
}

// LoggingConfig selects the minimum log level.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads fabula.yaml from path (or from "." and $HOME when path is
// empty), applies environment overrides, and returns the merged config.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("fabula")
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	v.SetEnvPrefix("FABULA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// An explicit path must exist; the search-path case tolerates
		// absence and runs on defaults.
		if path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("context.total_budget", contextbuilder.DefaultTotalBudget)
	v.SetDefault("context.output_reserve", contextbuilder.DefaultOutputReserve)
	v.SetDefault("context.prompt_reserve", contextbuilder.DefaultPromptReserve)
	v.SetDefault("context.prev_tail_length", contextbuilder.DefaultPrevTailLength)
	v.SetDefault("context.weights.required", contextbuilder.PriorityRequired)
	v.SetDefault("context.weights.expansion", contextbuilder.PriorityExpansion)
	v.SetDefault("context.weights.plot", contextbuilder.PriorityPlot)
	v.SetDefault("context.weights.world", contextbuilder.PriorityWorld)
	v.SetDefault("context.weights.custom", contextbuilder.PriorityCustom)
	v.SetDefault("logging.level", "info")
}

// BuilderConfig maps the loaded values onto a contextbuilder.Config,
// keeping the default estimator.
func (c *Config) BuilderConfig() contextbuilder.Config {
	cfg := contextbuilder.DefaultConfig()
	cfg.TotalBudget = c.Context.TotalBudget
	cfg.OutputReserve = c.Context.OutputReserve
	cfg.PromptReserve = c.Context.PromptReserve
	cfg.PrevTailLength = c.Context.PrevTailLength
	cfg.RequiredWeight = c.Context.Weights.Required
	cfg.ExpansionWeight = c.Context.Weights.Expansion
	cfg.PlotWeight = c.Context.Weights.Plot
	cfg.WorldWeight = c.Context.Weights.World
	cfg.CustomWeight = c.Context.Weights.Custom
	return cfg
}
