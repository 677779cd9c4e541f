package ports

import "github.com/arhuaco/ram-is-mine/internal/domain"

// Sink receives every emitted sample. Write must not return before the
// sample is visible to downstream readers.
type Sink interface {
	Write(s *domain.Sample) error
	Name() string
}
