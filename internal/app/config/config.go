package config

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/arhuaco/ram-is-mine/internal/adapters/source"
	"github.com/arhuaco/ram-is-mine/internal/ports"
)

// Config has no sampling interval on purpose: one sample per second is fixed.
type Config struct {
	Policy  ports.Policy  `yaml:"policy"`
	Source  SourceConfig  `yaml:"source"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
}

type SourceConfig struct {
	Kind     string `yaml:"kind"`
	ProcRoot string `yaml:"proc_root"`
}

// MetricsConfig leaves the HTTP endpoint disabled when Addr is empty.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default is the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Policy.OnMissingField == "" {
		c.Policy.OnMissingField = ports.MissingFieldAbsent
	}
	if c.Source.Kind == "" {
		c.Source.Kind = source.KindProcFS
	}
	if c.Source.ProcRoot == "" {
		c.Source.ProcRoot = source.DefaultProcRoot
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) Validate() error {
	switch c.Policy.OnMissingField {
	case ports.MissingFieldAbsent, ports.MissingFieldFail:
	default:
		return fmt.Errorf("policy.on_missing_field must be %q or %q, got %q",
			ports.MissingFieldAbsent, ports.MissingFieldFail, c.Policy.OnMissingField)
	}
	switch c.Source.Kind {
	case source.KindProcFS, source.KindPSUtil:
	default:
		return fmt.Errorf("source.kind must be %q or %q, got %q",
			source.KindProcFS, source.KindPSUtil, c.Source.Kind)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}
