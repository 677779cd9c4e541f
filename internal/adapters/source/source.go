package source

import (
	"context"
	"fmt"

	"github.com/arhuaco/ram-is-mine/internal/ports"
)

const (
	KindProcFS = "procfs"
	KindPSUtil = "psutil"
)

// New picks a status source by kind; root only applies to procfs.
func New(ctx context.Context, kind, root string) (ports.StatusSource, error) {
	switch kind {
	case "", KindProcFS:
		return NewProcFS(root), nil
	case KindPSUtil:
		return NewPSUtil(ctx), nil
	default:
		return nil, fmt.Errorf("unknown status source %q", kind)
	}
}
