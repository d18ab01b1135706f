/*
errors.go - Centralized error types for the attendance engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The API layer maps these onto HTTP statuses; state-machine rejections
  and geofence rejections are client errors, never retried by the engine.

ERROR CATEGORIES:
  1. Transition errors - illegal punch for the current state
  2. Conflict errors   - the one-open-segment invariant raced
  3. Not-found errors  - unknown employee
*/
package timeclock

import (
	"errors"
	"fmt"

	"github.com/lazizbekravshanov/shopmule-sub004/geo"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrAlreadyClockedIn is returned when a clock-in arrives while an open
	// segment exists (state in or on_break).
	ErrAlreadyClockedIn = errors.New("already clocked in")

	// ErrNotClockedIn is returned for break-start or clock-out with no open
	// segment.
	ErrNotClockedIn = errors.New("not clocked in")

	// ErrNotOnBreak is returned for break-end when no break is open.
	ErrNotOnBreak = errors.New("not on break")

	// ErrOnBreak is returned for clock-out while a break is open; the break
	// must end first.
	ErrOnBreak = errors.New("on break: end the break before clocking out")

	// ErrInvalidPunchType is returned for an unrecognized punch type.
	ErrInvalidPunchType = errors.New("invalid punch type")

	// ErrMissingEmployeeID is returned when a punch carries no employee id.
	// A missing identifier is a validation error; ErrEmployeeNotFound is for
	// ids that do not resolve to a known employee.
	ErrMissingEmployeeID = errors.New("employee id is required")

	// ErrPunchConflict is returned by the store when the latest event changed
	// between the state check and the append. The clock retries once, then
	// re-derives the state and surfaces the transition error.
	ErrPunchConflict = errors.New("concurrent punch detected")

	// ErrEmployeeNotFound is returned when the referenced employee does not
	// exist in the caller's scope.
	ErrEmployeeNotFound = errors.New("employee not found")
)

// TransitionError reports an illegal punch for the current state.
type TransitionError struct {
	EmployeeID string
	State      State
	Attempted  PunchType
	Reason     error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s: %v", e.Attempted, e.State, e.Reason)
}

func (e *TransitionError) Unwrap() error { return e.Reason }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input:
// an illegal transition or a geofence rejection.
func IsClientError(err error) bool {
	return errors.Is(err, ErrAlreadyClockedIn) ||
		errors.Is(err, ErrNotClockedIn) ||
		errors.Is(err, ErrNotOnBreak) ||
		errors.Is(err, ErrOnBreak) ||
		errors.Is(err, ErrInvalidPunchType) ||
		errors.Is(err, ErrMissingEmployeeID) ||
		errors.Is(err, geo.ErrLocationRequired) ||
		errors.Is(err, geo.ErrOutsideZone)
}

// IsConflict returns true if the error is a concurrency conflict that
// survived the transparent retry.
func IsConflict(err error) bool {
	return errors.Is(err, ErrPunchConflict)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound)
}
