package engine

import (
	"errors"
	"fmt"
)

// LockMode is the mutation-deferral state of an EntityList
type LockMode uint8

const (
	// LockOpen applies mutations immediately
	LockOpen LockMode = iota
	// LockLocked queues mutations until the next transition to LockOpen
	LockLocked
	// LockError rejects mutations, set during the render phases
	LockError
)

func (m LockMode) String() string {
	switch m {
	case LockOpen:
		return "open"
	case LockLocked:
		return "locked"
	case LockError:
		return "error"
	default:
		return fmt.Sprintf("LockMode(%d)", uint8(m))
	}
}

// Contract violations are reported by panicking with an error wrapping one of these
var (
	ErrMutationForbidden = errors.New("mutation forbidden in error lock mode")
	ErrTagOutOfRange     = errors.New("tag out of range")
	ErrInvalidPrecision  = errors.New("line check precision must be positive")
)
