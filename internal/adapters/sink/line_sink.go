package sink

import (
	"bufio"
	"io"
	"sync"

	"github.com/arhuaco/ram-is-mine/internal/domain"
	"github.com/arhuaco/ram-is-mine/internal/ports"
)

// LineSink writes "<timestamp> <resident> <virtual>" lines and flushes after
// each one so pipes and redirects see the sample immediately.
type LineSink struct {
	mu     sync.Mutex
	name   string
	writer *bufio.Writer
}

func NewLineSink(name string, w io.Writer) *LineSink {
	if name == "" {
		name = "stdout"
	}
	return &LineSink{name: name, writer: bufio.NewWriter(w)}
}

func (l *LineSink) Name() string { return l.name }

func (l *LineSink) Write(s *domain.Sample) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.writer.WriteString(s.Line()); err != nil {
		return err
	}
	if err := l.writer.WriteByte('\n'); err != nil {
		return err
	}
	return l.writer.Flush()
}

var _ ports.Sink = (*LineSink)(nil)
