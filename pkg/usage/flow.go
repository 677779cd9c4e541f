package usage

import (
	"context"
	"errors"
)

// Flow reads as Conf -> StreamIN -> StreamOUT and hides the adapter wiring.
type Flow struct {
	cfg       *Config
	overrides []RuntimeOption
}

// StreamInOption picks the status source.
type StreamInOption func(*Flow)

// StreamOutOption picks where samples go.
type StreamOutOption func(*Flow)

// Conf starts a Flow from a YAML file.
func Conf(path string) (*Flow, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return ConfFromConfig(cfg)
}

// ConfFromConfig starts a Flow from an in-memory Config.
func ConfFromConfig(cfg *Config) (*Flow, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	return &Flow{cfg: cfg}, nil
}

// Config exposes the configuration so callers can adjust it before building.
func (f *Flow) Config() *Config {
	return f.cfg
}

func (f *Flow) StreamIN(opts ...StreamInOption) *Flow {
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// StreamOUT applies the sink choice and builds the Runtime.
func (f *Flow) StreamOUT(opts ...StreamOutOption) (*Runtime, error) {
	for _, opt := range opts {
		opt(f)
	}
	return NewRuntime(f.cfg, f.overrides...)
}

// Run builds the Runtime and samples pid until it exits or ctx is done.
func (f *Flow) Run(ctx context.Context, pid string, opts ...StreamOutOption) (Reason, error) {
	rt, err := f.StreamOUT(opts...)
	if err != nil {
		return ReasonNone, err
	}
	return rt.Run(ctx, pid)
}

func StreamInSource(src StatusSource) StreamInOption {
	return func(f *Flow) { f.overrides = append(f.overrides, WithSource(src)) }
}

func StreamOutSink(s Sink) StreamOutOption {
	return func(f *Flow) { f.overrides = append(f.overrides, WithSink(s)) }
}

// StreamOutCallback hands every sample to fn instead of printing it.
func StreamOutCallback(name string, fn SampleFunc) StreamOutOption {
	return StreamOutSink(NewCallbackSink(name, fn))
}
