// Package config loads the service configuration from an optional YAML file
// with STACK_ADVISOR_* environment overrides.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Addr            string        `mapstructure:"addr"`
	Region          string        `mapstructure:"region"`
	ModelID         string        `mapstructure:"model_id"`
	DynamoTable     string        `mapstructure:"dynamo_table"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoadConfig reads the file at path when given; otherwise defaults plus
// environment overrides apply. A missing explicit file is an error, a missing
// default one is not.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("region", "us-east-1")
	v.SetDefault("model_id", "us.amazon.nova-premier-v1:0")
	v.SetDefault("dynamo_table", "stack-advisor-optimizations")
	v.SetDefault("shutdown_timeout", 10*time.Second)

	v.SetEnvPrefix("STACK_ADVISOR")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
