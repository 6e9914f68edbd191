// Package lock provides the advisory lease lock that keeps concurrent
// processor passes from overlapping. Acquisition never waits: a held lock
// fails immediately with CodeLockUnavailable. Leases expire on their own,
// so a crashed holder never blocks later passes for longer than the lease.
package lock

import (
	"time"

	dErrors "contactledger/pkg/domain-errors"
)

// Name is the processor lock key.
const Name = "contact_tracing_ocw::lock"

// Lease is proof of holding a lock until ExpiresAt.
type Lease struct {
	Name      string
	Token     string
	ExpiresAt time.Time
}

// ErrUnavailable builds the error returned when the lock is held.
func ErrUnavailable(name string) error {
	return dErrors.New(dErrors.CodeLockUnavailable, "lock "+name+" is held by another worker")
}
