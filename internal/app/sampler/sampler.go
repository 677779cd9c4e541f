package sampler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arhuaco/ram-is-mine/internal/domain"
	"github.com/arhuaco/ram-is-mine/internal/ports"
)

// Interval is the fixed pause between two samples.
const Interval = time.Second

var (
	// ErrProcessAbsent means the target process no longer exists.
	ErrProcessAbsent = errors.New("process absent")
	// ErrMissingField means the status record lacks VmRSS or VmSize.
	ErrMissingField = errors.New("status record lacks memory fields")
)

// Reason tells why Run returned.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonProcessAbsent
	ReasonCancelled
)

func (r Reason) String() string {
	switch r {
	case ReasonProcessAbsent:
		return "process_absent"
	case ReasonCancelled:
		return "cancelled"
	default:
		return "none"
	}
}

type Sampler struct {
	source   ports.StatusSource
	sink     ports.Sink
	policy   ports.Policy
	obs      ports.Observability
	now      func() time.Time
	interval time.Duration
}

func New(src ports.StatusSource, snk ports.Sink, pol ports.Policy, obs ports.Observability) (*Sampler, error) {
	if src == nil {
		return nil, fmt.Errorf("status source is required")
	}
	if snk == nil {
		return nil, fmt.Errorf("sink is required")
	}
	if obs == nil {
		return nil, fmt.Errorf("observability is required")
	}
	switch pol.OnMissingField {
	case "":
		pol.OnMissingField = ports.MissingFieldAbsent
	case ports.MissingFieldAbsent, ports.MissingFieldFail:
	default:
		return nil, fmt.Errorf("unknown missing field policy %q", pol.OnMissingField)
	}

	return &Sampler{
		source:   src,
		sink:     snk,
		policy:   pol,
		obs:      obs,
		now:      time.Now,
		interval: Interval,
	}, nil
}

// SampleOnce reads the status record of pid and extracts both memory fields.
// It returns ErrProcessAbsent when the record is gone.
func (s *Sampler) SampleOnce(pid string) (*domain.Sample, error) {
	start := time.Now()
	rec, err := s.source.ReadStatus(pid)
	s.obs.ObserveLatency("usage_status_read_latency_seconds", time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, ports.ErrStatusNotFound) {
			return nil, ErrProcessAbsent
		}
		s.obs.IncCounter("usage_status_read_errors_total", 1)
		err = fmt.Errorf("read status of pid %s via %s: %w", pid, s.source.Name(), err)
		s.obs.LogError("status_read_failed", err, ports.Field{Key: "pid", Value: pid})
		return nil, err
	}

	rss, okRSS := rec.Lookup(domain.FieldResident)
	vsz, okVSZ := rec.Lookup(domain.FieldVirtual)
	if !okRSS || !okVSZ {
		missing := missingFields(okRSS, okVSZ)
		if s.policy.OnMissingField == ports.MissingFieldFail {
			err := fmt.Errorf("pid %s: %w: %s", pid, ErrMissingField, missing)
			s.obs.LogError("memory_fields_missing", err, ports.Field{Key: "pid", Value: pid})
			return nil, err
		}
		s.obs.LogDebug("memory_fields_missing",
			ports.Field{Key: "pid", Value: pid},
			ports.Field{Key: "fields", Value: missing})
		return nil, ErrProcessAbsent
	}

	return &domain.Sample{
		PID:       pid,
		Timestamp: s.now(),
		Resident:  rss,
		Virtual:   vsz,
	}, nil
}

// Step performs one sample-and-report tick.
func (s *Sampler) Step(pid string) error {
	sample, err := s.SampleOnce(pid)
	if err != nil {
		return err
	}
	if err := s.sink.Write(sample); err != nil {
		err = fmt.Errorf("write sample to %s: %w", s.sink.Name(), err)
		s.obs.LogCritical("sink_write_failed", err,
			ports.Field{Key: "pid", Value: pid},
			ports.Field{Key: "sink", Value: s.sink.Name()})
		return err
	}
	s.obs.RecordSample(sample)
	return nil
}

// Run steps once per interval until the process is gone, a step fails or
// ctx is cancelled. A vanished process is a normal stop and yields a nil error.
func (s *Sampler) Run(ctx context.Context, pid string) (Reason, error) {
	s.obs.LogDebug("sampling_started",
		ports.Field{Key: "pid", Value: pid},
		ports.Field{Key: "source", Value: s.source.Name()},
		ports.Field{Key: "sink", Value: s.sink.Name()})

	for {
		select {
		case <-ctx.Done():
			return ReasonCancelled, nil
		default:
		}

		if err := s.Step(pid); err != nil {
			if errors.Is(err, ErrProcessAbsent) {
				s.obs.LogDebug("process_gone", ports.Field{Key: "pid", Value: pid})
				return ReasonProcessAbsent, nil
			}
			return ReasonNone, err
		}

		wait := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			wait.Stop()
			return ReasonCancelled, nil
		case <-wait.C:
		}
	}
}

func missingFields(okRSS, okVSZ bool) string {
	var names []string
	if !okRSS {
		names = append(names, domain.FieldResident)
	}
	if !okVSZ {
		names = append(names, domain.FieldVirtual)
	}
	return strings.Join(names, ",")
}
