package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ParamsPath  string // parameter file (.hcl, .json, .yaml)
	OutPath     string // emitted document destination; empty means stdout
	Environment string // overrides the environment named in the params file

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ParamsPath == "" {
		return nil, errors.New("ParamsPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
