package usage

import (
	"github.com/arhuaco/ram-is-mine/internal/domain"
	"github.com/arhuaco/ram-is-mine/internal/ports"
)

// PipelineSample is the internal sample handed to Sink implementations.
type PipelineSample = domain.Sample

// StatusRecord is a parsed key-value status record.
type StatusRecord = domain.StatusRecord

// StatusSource yields the status record of a process (procfs, gopsutil, fixtures).
type StatusSource = ports.StatusSource

// Sink receives every emitted sample.
type Sink = ports.Sink

// Observability emits metrics/logs about sampling.
type Observability = ports.Observability

// Field is a structured log/metric field used by Observability implementations.
type Field = ports.Field

// ErrStatusNotFound must be returned (or wrapped) by a StatusSource when the
// process has no status record.
var ErrStatusNotFound = ports.ErrStatusNotFound
