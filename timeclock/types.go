/*
Package timeclock provides the punch-based attendance engine.

PURPOSE:
  This package contains the types and algorithms for recording attendance
  events (clock-in, break-start, break-end, clock-out), enforcing the
  one-open-segment invariant per employee, and aggregating punch history
  into worked hours.

KEY CONCEPTS IN THIS FILE (types.go):
  - PunchEvent: an immutable attendance event, the unit of the punch log
  - PunchType: the four legal attendance actions
  - State: derived clock state (out / in / on_break)

DESIGN PRINCIPLES:
  1. Append-only: punches are never modified or deleted after creation;
     administrative corrections happen outside this engine
  2. Derived state: the current state is a pure function of the most
     recent stored event, never a separately mutated field
  3. Auditability: every accepted punch records the resolved zone and
     distance that justified it

SEE ALSO:
  - clock.go: the state machine that accepts or rejects punches
  - hours.go: worked-hours aggregation over the punch log
  - store.go: persistence interface with compare-and-swap append
*/
package timeclock

import "time"

// =============================================================================
// PUNCH TYPES
// =============================================================================

type PunchType string

const (
	PunchClockIn    PunchType = "clock_in"
	PunchBreakStart PunchType = "break_start"
	PunchBreakEnd   PunchType = "break_end"
	PunchClockOut   PunchType = "clock_out"
)

// Valid reports whether t is one of the four attendance actions.
func (t PunchType) Valid() bool {
	switch t {
	case PunchClockIn, PunchBreakStart, PunchBreakEnd, PunchClockOut:
		return true
	}
	return false
}

// =============================================================================
// PUNCH EVENT - One immutable attendance action
// =============================================================================

type PunchEvent struct {
	ID         string
	EmployeeID string
	Type       PunchType
	At         time.Time

	// Location as reported by the device, when available.
	Latitude  *float64
	Longitude *float64
	Accuracy  *float64

	// Resolved by geofence validation: the nearest candidate zone and the
	// distance to its center, recorded for audit even when not required.
	ZoneID         string
	DistanceMeters *float64

	// BreakMinutes is set on break_end events: whole minutes since the
	// matching break_start.
	BreakMinutes *int64

	SourceMethod string
	Note         string
	CreatedAt    time.Time
}

// =============================================================================
// STATE - Derived from the most recent stored event
// =============================================================================

type State string

const (
	StateOut     State = "out"
	StateIn      State = "in"
	StateOnBreak State = "on_break"
)

// StateAfter returns the clock state implied by the latest event.
// A nil latest event means the employee has never punched: out.
func StateAfter(latest *PunchEvent) State {
	if latest == nil {
		return StateOut
	}
	switch latest.Type {
	case PunchClockIn, PunchBreakEnd:
		return StateIn
	case PunchBreakStart:
		return StateOnBreak
	default:
		return StateOut
	}
}
