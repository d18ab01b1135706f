/*
store.go - Persistence interface for the punch log

PURPOSE:
  Defines the interface between the attendance engine and the database.
  The punch log is APPEND-ONLY: no Update, no Delete. Administrative
  corrections live outside this engine.

CONCURRENCY CONTRACT:
  Append takes the ID of the event the caller believes is the latest for
  the employee ("" when the caller saw an empty log). The store must
  perform the latest-check and the insert atomically and fail with
  ErrPunchConflict when another punch slipped in between. This closes the
  race window on the one-open-segment invariant without application-level
  locking.

ORDERING:
  Per employee, ordering is insertion order. The engine trusts it and
  never re-sorts by timestamp.

IMPLEMENTATIONS:
  - timeclock/store/memory.go: in-memory, for tests and dev
  - store/sqlite: production SQLite (BEGIN IMMEDIATE + clock_state row)
*/
package timeclock

import (
	"context"
	"time"

	"github.com/lazizbekravshanov/shopmule-sub004/geo"
)

// PunchStore handles persistence of punch events.
type PunchStore interface {
	// Append persists an event if and only if the latest event for the
	// employee still has id expectLatestID ("" for an empty log).
	// Returns ErrPunchConflict otherwise. This is the ONLY write operation.
	Append(ctx context.Context, ev PunchEvent, expectLatestID string) error

	// Latest returns the most recent event for the employee, nil when the
	// log is empty.
	Latest(ctx context.Context, employeeID string) (*PunchEvent, error)

	// ListRange returns events with At in [from, to], insertion order.
	ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]PunchEvent, error)

	// ListSince returns events with At >= from, insertion order.
	ListSince(ctx context.Context, employeeID string, from time.Time) ([]PunchEvent, error)
}

// ZoneSource resolves the candidate geofences for an employee: the union of
// shop-level and direct assignments, deduplicated by zone identity, active
// zones only.
type ZoneSource interface {
	ZonesForEmployee(ctx context.Context, employeeID string) ([]geo.Zone, error)
}

// EmployeeDirectory answers whether an employee id resolves to a known
// employee. Punches for unknown ids are rejected before anything is written.
type EmployeeDirectory interface {
	EmployeeExists(ctx context.Context, employeeID string) (bool, error)
}
