package usage

import (
	"time"

	"github.com/arhuaco/ram-is-mine/internal/domain"
)

// Sample mirrors the internal domain.Sample but is safe for external callers.
type Sample struct {
	PID       string
	Timestamp time.Time
	Resident  string
	Virtual   string
}

// Line renders the sample the way the stdout sink prints it.
func (s Sample) Line() string {
	return s.toDomain().Line()
}

func (s Sample) toDomain() *domain.Sample {
	return &domain.Sample{
		PID:       s.PID,
		Timestamp: s.Timestamp,
		Resident:  s.Resident,
		Virtual:   s.Virtual,
	}
}

func sampleFromDomain(s *domain.Sample) Sample {
	return Sample{
		PID:       s.PID,
		Timestamp: s.Timestamp,
		Resident:  s.Resident,
		Virtual:   s.Virtual,
	}
}
