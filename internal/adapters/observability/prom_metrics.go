package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/arhuaco/ram-is-mine/internal/domain"
	"github.com/arhuaco/ram-is-mine/internal/ports"
)

const (
	MetricSamples     = "usage_samples_total"
	MetricReadErrors  = "usage_status_read_errors_total"
	MetricResidentKB  = "usage_resident_kb"
	MetricVirtualKB   = "usage_virtual_kb"
	MetricReadLatency = "usage_status_read_latency_seconds"
)

type PromObs struct {
	logger   log.FieldLogger
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

// NewPromObs registers the sampler metrics on reg (the default registerer
// when nil) and logs through logger (the standard logrus logger when nil).
func NewPromObs(reg prometheus.Registerer, logger log.FieldLogger) *PromObs {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if logger == nil {
		logger = log.StandardLogger()
	}

	samples := prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricSamples,
		Help: "Samples written to the output sink.",
	})
	readErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricReadErrors,
		Help: "Status record reads that failed for a reason other than process exit.",
	})
	resident := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: MetricResidentKB,
		Help: "Last observed resident set size (VmRSS) in kB.",
	})
	virtual := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: MetricVirtualKB,
		Help: "Last observed virtual memory size (VmSize) in kB.",
	})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    MetricReadLatency,
		Help:    "Time spent reading and parsing one status record.",
		Buckets: prometheus.ExponentialBuckets(0.00005, 2, 12),
	})

	reg.MustRegister(samples, readErrors, resident, virtual, latency)

	return &PromObs{
		logger: logger,
		counters: map[string]prometheus.Counter{
			MetricSamples:    samples,
			MetricReadErrors: readErrors,
		},
		gauges: map[string]prometheus.Gauge{
			MetricResidentKB: resident,
			MetricVirtualKB:  virtual,
		},
		histos: map[string]prometheus.Observer{
			MetricReadLatency: latency,
		},
	}
}

func (p *PromObs) LogDebug(msg string, fields ...ports.Field) {
	p.entry(fields).Debug(msg)
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	p.entry(fields).Info(msg)
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	if err != nil {
		p.entry(fields).WithError(err).Error(msg)
	}
}

func (p *PromObs) LogCritical(msg string, err error, fields ...ports.Field) {
	if err != nil {
		p.entry(fields).WithError(err).WithField("critical", true).Error(msg)
	}
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

// RecordSample counts the sample and mirrors its values into the gauges.
// Values that are not plain integers leave the gauges untouched.
func (p *PromObs) RecordSample(s *domain.Sample) {
	p.IncCounter(MetricSamples, 1)
	if s == nil {
		return
	}
	if v, err := strconv.ParseFloat(s.Resident, 64); err == nil {
		p.SetGauge(MetricResidentKB, v)
	}
	if v, err := strconv.ParseFloat(s.Virtual, 64); err == nil {
		p.SetGauge(MetricVirtualKB, v)
	}
}

func (p *PromObs) entry(fields []ports.Field) log.FieldLogger {
	if len(fields) == 0 {
		return p.logger
	}
	lf := make(log.Fields, len(fields))
	for _, f := range fields {
		lf[f.Key] = f.Value
	}
	return p.logger.WithFields(lf)
}

var _ ports.Observability = (*PromObs)(nil)
