// Package config loads the reclaimer's settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kelseyhightower/envconfig"

	"github.com/chainguard-dev/eip-reclaimer/internal/log"
)

// Prefix is prepended to every variable name, e.g. EIP_RECLAIMER_LOG_LEVEL.
const Prefix = "EIP_RECLAIMER"

// lambdaRuntimeAPIEnv is set by the Lambda runtime in every function sandbox.
const lambdaRuntimeAPIEnv = "AWS_LAMBDA_RUNTIME_API"

type Config struct {
	// Overrides the region resolved by the AWS SDK default chain
	// (AWS_REGION, shared config). Optional.
	Region string `envconfig:"REGION"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT"` // default: json in Lambda, text otherwise

	// Optional path; when set, JSON records are also appended to this file.
	LogFile string `envconfig:"LOG_FILE"`

	// Set when running inside the Lambda runtime.
	InLambda bool `ignored:"true"`
}

// Load reads the configuration from the environment and applies defaults.
func Load() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process(Prefix, c); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	_, c.InLambda = os.LookupEnv(lambdaRuntimeAPIEnv)
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.LogFormat == "" {
		if c.InLambda {
			c.LogFormat = string(log.FormatJSON)
		} else {
			c.LogFormat = string(log.FormatText)
		}
	}
}

func (c *Config) validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch log.Format(c.LogFormat) {
	case log.FormatJSON, log.FormatText:
	default:
		return fmt.Errorf("invalid log format %q: must be %q or %q", c.LogFormat, log.FormatJSON, log.FormatText)
	}
	return nil
}

// LogOptions translates the logging settings for log.New.
func (c *Config) LogOptions() log.Options {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return log.Options{
		Level:  level,
		Format: log.Format(c.LogFormat),
	}
}
