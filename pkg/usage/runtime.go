package usage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/arhuaco/ram-is-mine/internal/adapters/observability"
	"github.com/arhuaco/ram-is-mine/internal/adapters/sink"
	"github.com/arhuaco/ram-is-mine/internal/adapters/source"
	"github.com/arhuaco/ram-is-mine/internal/app/sampler"
	"github.com/arhuaco/ram-is-mine/internal/ports"
)

// Reason tells why Run returned.
type Reason = sampler.Reason

const (
	ReasonNone          = sampler.ReasonNone
	ReasonProcessAbsent = sampler.ReasonProcessAbsent
	ReasonCancelled     = sampler.ReasonCancelled
)

// Interval is the fixed pause between two samples.
const Interval = sampler.Interval

var (
	ErrProcessAbsent = sampler.ErrProcessAbsent
	ErrMissingField  = sampler.ErrMissingField
)

// RuntimeOption customizes the dependencies used by Runtime.
type RuntimeOption func(*runtimeOverrides)

type runtimeOverrides struct {
	source        StatusSource
	sink          Sink
	observability Observability
	registry      *prometheus.Registry
	logger        log.FieldLogger
}

// WithSource injects a custom status source (fixtures, remote agents, etc.).
func WithSource(src StatusSource) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.source = src
	}
}

// WithSink replaces the stdout line sink.
func WithSink(s Sink) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.sink = s
	}
}

// WithObservability plugs in a custom observability backend.
func WithObservability(obs Observability) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.observability = obs
	}
}

// WithRegistry registers the default Prometheus metrics on reg instead of a
// private registry. The metrics endpoint serves reg.
func WithRegistry(reg *prometheus.Registry) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.registry = reg
	}
}

// WithLogger routes the default observability logs to logger.
func WithLogger(logger log.FieldLogger) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.logger = logger
	}
}

// Runtime wires a status source, the sampler and a sink, and optionally
// serves Prometheus metrics while sampling.
type Runtime struct {
	cfg      *Config
	obs      ports.Observability
	source   ports.StatusSource
	sink     ports.Sink
	sampler  *sampler.Sampler
	registry *prometheus.Registry
	logger   log.FieldLogger

	mu         sync.Mutex
	metricsSrv *http.Server
	metricsLn  net.Listener
}

// NewRuntime bootstraps the default adapters (procfs or gopsutil source,
// stdout line sink, Prometheus observability). RuntimeOption values override
// any of them.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	logger := overrides.logger
	if logger == nil {
		logger = log.StandardLogger()
	}

	reg := overrides.registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	obs := overrides.observability
	if obs == nil {
		obs = observability.NewPromObs(reg, logger)
	}

	var err error
	src := overrides.source
	if src == nil {
		src, err = source.New(context.Background(), cfg.Source.Kind, cfg.Source.ProcRoot)
		if err != nil {
			return nil, err
		}
	}

	snk := overrides.sink
	if snk == nil {
		snk = sink.NewLineSink("stdout", os.Stdout)
	}

	smp, err := sampler.New(src, snk, cfg.Policy, obs)
	if err != nil {
		return nil, err
	}

	return &Runtime{
		cfg:      cfg,
		obs:      obs,
		source:   src,
		sink:     snk,
		sampler:  smp,
		registry: reg,
		logger:   logger,
	}, nil
}

// SampleOnce reads one sample without writing it anywhere.
func (r *Runtime) SampleOnce(pid string) (Sample, error) {
	s, err := r.sampler.SampleOnce(pid)
	if err != nil {
		return Sample{}, err
	}
	return sampleFromDomain(s), nil
}

// Run samples pid once per Interval until the process exits or ctx is
// cancelled. The metrics server, when configured, lives for the duration of Run.
func (r *Runtime) Run(ctx context.Context, pid string) (Reason, error) {
	if r == nil {
		return ReasonNone, fmt.Errorf("runtime is nil")
	}
	if err := r.startMetrics(); err != nil {
		return ReasonNone, err
	}

	reason, runErr := r.sampler.Run(ctx, pid)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return reason, errors.Join(runErr, r.Shutdown(shutdownCtx))
}

// Shutdown stops the metrics server if it is running.
func (r *Runtime) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	srv := r.metricsSrv
	r.metricsSrv = nil
	r.metricsLn = nil
	r.mu.Unlock()

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// MetricsAddr returns the bound metrics address while Run is active.
func (r *Runtime) MetricsAddr() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.metricsLn == nil {
		return ""
	}
	return r.metricsLn.Addr().String()
}

func (r *Runtime) startMetrics() error {
	if r.cfg.Metrics.Addr == "" {
		return nil
	}

	ln, err := net.Listen("tcp", r.cfg.Metrics.Addr)
	if err != nil {
		return fmt.Errorf("metrics listen %s: %w", r.cfg.Metrics.Addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	r.mu.Lock()
	r.metricsSrv = srv
	r.metricsLn = ln
	r.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.WithError(err).Error("metrics server exited")
		}
	}()
	r.obs.LogInfo("metrics_listening", ports.Field{Key: "addr", Value: ln.Addr().String()})
	return nil
}
