// Package ramismine logs the resident and virtual memory of a process once
// per second until the process exits.
package ramismine

import (
	base "github.com/arhuaco/ram-is-mine/pkg/usage"
)

// Re-exported errors for convenience.
var (
	ErrProcessAbsent     = base.ErrProcessAbsent
	ErrMissingField      = base.ErrMissingField
	ErrStatusNotFound    = base.ErrStatusNotFound
	ErrChannelSinkClosed = base.ErrChannelSinkClosed
	ErrNilSampleFunc     = base.ErrNilSampleFunc
)

const (
	Interval            = base.Interval
	ReasonNone          = base.ReasonNone
	ReasonProcessAbsent = base.ReasonProcessAbsent
	ReasonCancelled     = base.ReasonCancelled
	MissingFieldAbsent  = base.MissingFieldAbsent
	MissingFieldFail    = base.MissingFieldFail
)

// Type aliases so consumers can import github.com/arhuaco/ram-is-mine directly.
type (
	Config          = base.Config
	Policy          = base.Policy
	SourceConfig    = base.SourceConfig
	MetricsConfig   = base.MetricsConfig
	LogConfig       = base.LogConfig
	Flow            = base.Flow
	StreamInOption  = base.StreamInOption
	StreamOutOption = base.StreamOutOption
	Runtime         = base.Runtime
	RuntimeOption   = base.RuntimeOption
	Reason          = base.Reason
	Sample          = base.Sample
	SampleFunc      = base.SampleFunc
	StatusRecord    = base.StatusRecord
	StatusSource    = base.StatusSource
	Sink            = base.Sink
	Observability   = base.Observability
	Field           = base.Field
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

func DefaultConfig() *Config {
	return base.DefaultConfig()
}

// Flow builder helpers.
func Conf(path string) (*Flow, error) {
	return base.Conf(path)
}

func ConfFromConfig(cfg *Config) (*Flow, error) {
	return base.ConfFromConfig(cfg)
}

func StreamInSource(src StatusSource) StreamInOption {
	return base.StreamInSource(src)
}

func StreamOutSink(s Sink) StreamOutOption {
	return base.StreamOutSink(s)
}

func StreamOutCallback(name string, fn SampleFunc) StreamOutOption {
	return base.StreamOutCallback(name, fn)
}

// Runtime and options.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	return base.NewRuntime(cfg, opts...)
}

func WithSource(src StatusSource) RuntimeOption {
	return base.WithSource(src)
}

func WithSink(s Sink) RuntimeOption {
	return base.WithSink(s)
}

func WithObservability(obs Observability) RuntimeOption {
	return base.WithObservability(obs)
}

// Sink adapters.
func NewCallbackSink(name string, fn SampleFunc) Sink {
	return base.NewCallbackSink(name, fn)
}

func NewChannelSink(name string, buffer int) (Sink, <-chan Sample, func()) {
	return base.NewChannelSink(name, buffer)
}
