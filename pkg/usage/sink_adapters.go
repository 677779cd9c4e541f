package usage

import (
	"errors"
	"sync"

	"github.com/arhuaco/ram-is-mine/internal/domain"
)

var (
	// ErrChannelSinkClosed is returned by a channel sink after its close func ran.
	ErrChannelSinkClosed = errors.New("usage: channel sink closed")
	// ErrNilSampleFunc is returned by a callback sink built without a function.
	ErrNilSampleFunc = errors.New("usage: callback sink has no function")
)

// SampleFunc receives each emitted sample.
type SampleFunc func(Sample) error

type funcSink struct {
	name string
	fn   SampleFunc
}

// NewCallbackSink turns fn into a Sink. An empty name becomes "callback".
func NewCallbackSink(name string, fn SampleFunc) Sink {
	return &funcSink{name: nameOr(name, "callback"), fn: fn}
}

func (s *funcSink) Name() string { return s.name }

func (s *funcSink) Write(sample *domain.Sample) error {
	switch {
	case s.fn == nil:
		return ErrNilSampleFunc
	case sample == nil:
		return nil
	}
	return s.fn(sampleFromDomain(sample))
}

// chanSink publishes samples on out. Writers hold mu for reading while they
// send; stop closes done first so a blocked writer returns before out closes.
type chanSink struct {
	name string
	out  chan Sample
	done chan struct{}
	mu   sync.RWMutex
	stop sync.Once
}

// NewChannelSink returns a Sink, the channel it feeds and a func that closes
// both. Call the func once sampling has ended.
func NewChannelSink(name string, buffer int) (Sink, <-chan Sample, func()) {
	s := &chanSink{
		name: nameOr(name, "channel"),
		out:  make(chan Sample, max(buffer, 0)),
		done: make(chan struct{}),
	}
	return s, s.out, s.close
}

func (s *chanSink) Name() string { return s.name }

func (s *chanSink) Write(sample *domain.Sample) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// out is only closed after done, and never while a writer holds mu.
	if err := s.closedErr(); err != nil || sample == nil {
		return err
	}
	select {
	case <-s.done:
		return ErrChannelSinkClosed
	case s.out <- sampleFromDomain(sample):
		return nil
	}
}

func (s *chanSink) closedErr() error {
	select {
	case <-s.done:
		return ErrChannelSinkClosed
	default:
		return nil
	}
}

func (s *chanSink) close() {
	s.stop.Do(func() {
		close(s.done)
		s.mu.Lock()
		defer s.mu.Unlock()
		close(s.out)
	})
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
