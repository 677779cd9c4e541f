package source

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/arhuaco/ram-is-mine/internal/domain"
	"github.com/arhuaco/ram-is-mine/internal/ports"
)

// PSUtil builds a status record from gopsutil for hosts without a mounted
// procfs. Byte counts are reported in kB like the kernel does.
type PSUtil struct {
	ctx context.Context
}

func NewPSUtil(ctx context.Context) *PSUtil {
	if ctx == nil {
		ctx = context.Background()
	}
	return &PSUtil{ctx: ctx}
}

func (p *PSUtil) Name() string { return "psutil" }

func (p *PSUtil) ReadStatus(pid string) (domain.StatusRecord, error) {
	n, err := strconv.ParseInt(pid, 10, 32)
	if err != nil || n <= 0 {
		return nil, errors.Wrapf(ports.ErrStatusNotFound, "pid %q", pid)
	}

	proc, err := process.NewProcessWithContext(p.ctx, int32(n))
	if err != nil {
		if errors.Is(err, process.ErrorProcessNotRunning) {
			return nil, errors.Wrapf(ports.ErrStatusNotFound, "pid %d", n)
		}
		return nil, errors.Wrapf(err, "pid %d", n)
	}

	mem, err := proc.MemoryInfoWithContext(p.ctx)
	if err != nil {
		if exists, _ := process.PidExistsWithContext(p.ctx, int32(n)); !exists {
			return nil, errors.Wrapf(ports.ErrStatusNotFound, "pid %d", n)
		}
		return nil, errors.Wrapf(err, "memory info for pid %d", n)
	}

	rec := domain.StatusRecord{"Pid": strconv.FormatInt(n, 10)}
	if zombie(p.ctx, proc) {
		rec["State"] = "Z (zombie)"
		return rec, nil
	}
	// A process without an address space has no Vm* lines in its status file.
	if mem.RSS == 0 && mem.VMS == 0 {
		return rec, nil
	}
	rec[domain.FieldResident] = strconv.FormatUint(mem.RSS/1024, 10)
	rec[domain.FieldVirtual] = strconv.FormatUint(mem.VMS/1024, 10)
	if name, err := proc.NameWithContext(p.ctx); err == nil && name != "" {
		rec["Name"] = name
	}
	return rec, nil
}

func zombie(ctx context.Context, proc *process.Process) bool {
	states, err := proc.StatusWithContext(ctx)
	if err != nil {
		return false
	}
	for _, st := range states {
		if st == process.Zombie {
			return true
		}
	}
	return false
}

var _ ports.StatusSource = (*PSUtil)(nil)
