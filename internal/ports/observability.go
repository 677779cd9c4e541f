package ports

import "github.com/arhuaco/ram-is-mine/internal/domain"

type Observability interface {
	LogDebug(msg string, fields ...Field)
	LogInfo(msg string, fields ...Field)
	LogError(msg string, err error, fields ...Field)
	LogCritical(msg string, err error, fields ...Field)

	IncCounter(name string, v float64)
	ObserveLatency(name string, seconds float64)

	SetGauge(name string, v float64)

	RecordSample(s *domain.Sample)
}

type Field struct {
	Key   string
	Value any
}
