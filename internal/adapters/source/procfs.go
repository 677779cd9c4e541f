package source

import (
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"

	"github.com/arhuaco/ram-is-mine/internal/domain"
	"github.com/arhuaco/ram-is-mine/internal/ports"
)

const DefaultProcRoot = "/proc"

// ProcFS reads <root>/<pid>/status.
type ProcFS struct {
	root string
}

func NewProcFS(root string) *ProcFS {
	if root == "" {
		root = DefaultProcRoot
	}
	return &ProcFS{root: root}
}

func (p *ProcFS) Name() string { return "procfs" }

// ReadStatus opens, fully reads and closes the status file on every call.
// The pid is used verbatim as a path element.
func (p *ProcFS) ReadStatus(pid string) (domain.StatusRecord, error) {
	path := filepath.Join(p.root, pid, "status")

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(ports.ErrStatusNotFound, "open %s", path)
		}
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	rec, err := domain.ParseStatus(f)
	if err != nil {
		// The kernel answers ESRCH once the task is reaped mid-read.
		if errors.Is(err, syscall.ESRCH) {
			return nil, errors.Wrapf(ports.ErrStatusNotFound, "read %s", path)
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return rec, nil
}

var _ ports.StatusSource = (*ProcFS)(nil)
