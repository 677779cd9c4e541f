package usage

import (
	"github.com/arhuaco/ram-is-mine/internal/app/config"
	"github.com/arhuaco/ram-is-mine/internal/ports"
)

// Config re-exports the root configuration struct so downstream projects can
// construct or modify it programmatically.
type Config = config.Config

type (
	// Policy controls how records without memory fields are handled.
	Policy = ports.Policy
	// SourceConfig selects where status records come from.
	SourceConfig = config.SourceConfig
	// MetricsConfig configures the metrics HTTP server.
	MetricsConfig = config.MetricsConfig
	// LogConfig sets the logrus level.
	LogConfig = config.LogConfig
)

const (
	MissingFieldAbsent = ports.MissingFieldAbsent
	MissingFieldFail   = ports.MissingFieldFail
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return config.Default()
}
