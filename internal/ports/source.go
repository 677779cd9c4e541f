package ports

import (
	"errors"

	"github.com/arhuaco/ram-is-mine/internal/domain"
)

// ErrStatusNotFound reports that no status record exists for the pid.
var ErrStatusNotFound = errors.New("status record not found")

// StatusSource yields the key-value status record of a process.
type StatusSource interface {
	ReadStatus(pid string) (domain.StatusRecord, error)
	Name() string
}
