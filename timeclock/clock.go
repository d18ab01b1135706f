/*
clock.go - The punch state machine

PURPOSE:
  Validates and records one attendance event per call. State is derived
  from the most recent stored event; transitions outside the legal graph
  are rejected with a machine-readable reason and nothing is persisted.

TRANSITION GRAPH:
  out      --clock_in-->    in
  in       --break_start--> on_break
  on_break --break_end-->   in
  in       --clock_out-->   out

  Everything else is rejected. Clocking out while on break is rejected:
  the break must end first.

CONCURRENCY:
  Geofence validation runs outside the critical section (no side effects).
  The final state check and the insert are a single atomic unit via the
  store's compare-and-swap append. On conflict the punch is retried once
  transparently; if the conflict persists or the re-derived state no
  longer permits the transition, the transition error surfaces.

SEE ALSO:
  - geo/geo.go: location policy
  - hours.go: aggregation over the recorded log
*/
package timeclock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lazizbekravshanov/shopmule-sub004/geo"
)

// =============================================================================
// CLOCK - Punch recording service
// =============================================================================

// Clock records punches against a store, enforcing the transition graph,
// employee existence, and the employee's geofence policy.
type Clock struct {
	Punches   PunchStore
	Zones     ZoneSource
	Employees EmployeeDirectory

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewClock(punches PunchStore, zones ZoneSource, employees EmployeeDirectory) *Clock {
	return &Clock{Punches: punches, Zones: zones, Employees: employees, Now: time.Now}
}

// PunchRequest carries the client-supplied fields of a punch.
type PunchRequest struct {
	EmployeeID   string
	Type         PunchType
	At           time.Time // zero value: use Clock.Now()
	Latitude     *float64
	Longitude    *float64
	Accuracy     *float64
	SourceMethod string
	Note         string
}

// RecordPunch validates and persists one attendance event.
// Exactly one event is stored on success; none on rejection.
func (c *Clock) RecordPunch(ctx context.Context, req PunchRequest) (*PunchEvent, error) {
	if req.EmployeeID == "" {
		return nil, ErrMissingEmployeeID
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPunchType, req.Type)
	}

	exists, err := c.Employees.EmployeeExists(ctx, req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("check employee: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrEmployeeNotFound, req.EmployeeID)
	}

	at := req.At
	if at.IsZero() {
		at = c.Now()
	}

	// Geofence check has no side effects, so it stays outside the critical
	// section. A validator rejection aborts before anything is written.
	var point *geo.Point
	if req.Latitude != nil && req.Longitude != nil {
		point = &geo.Point{Lat: *req.Latitude, Lon: *req.Longitude}
	}
	zones, err := c.Zones.ZonesForEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("load zones: %w", err)
	}
	loc, err := geo.Validate(point, zones)
	if err != nil {
		return nil, err
	}

	// State check + insert, atomic via compare-and-swap. One transparent
	// retry on conflict.
	ev, err := c.tryAppend(ctx, req, at, loc)
	if errors.Is(err, ErrPunchConflict) {
		ev, err = c.tryAppend(ctx, req, at, loc)
	}
	return ev, err
}

func (c *Clock) tryAppend(ctx context.Context, req PunchRequest, at time.Time, loc geo.Result) (*PunchEvent, error) {
	latest, err := c.Punches.Latest(ctx, req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("load latest punch: %w", err)
	}

	state := StateAfter(latest)
	if err := checkTransition(state, req.Type); err != nil {
		return nil, &TransitionError{
			EmployeeID: req.EmployeeID,
			State:      state,
			Attempted:  req.Type,
			Reason:     err,
		}
	}

	ev := PunchEvent{
		ID:           uuid.NewString(),
		EmployeeID:   req.EmployeeID,
		Type:         req.Type,
		At:           at,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Accuracy:     req.Accuracy,
		SourceMethod: req.SourceMethod,
		Note:         req.Note,
		CreatedAt:    c.Now().UTC(),
	}
	if loc.ZoneID != "" {
		ev.ZoneID = loc.ZoneID
		d := loc.DistanceMeters
		ev.DistanceMeters = &d
	}
	if req.Type == PunchBreakEnd && latest != nil && latest.Type == PunchBreakStart {
		// Client-supplied timestamps can land before the break start; a
		// negative duration is clamped to zero.
		minutes := int64(at.Sub(latest.At).Minutes())
		if minutes < 0 {
			minutes = 0
		}
		ev.BreakMinutes = &minutes
	}

	expect := ""
	if latest != nil {
		expect = latest.ID
	}
	if err := c.Punches.Append(ctx, ev, expect); err != nil {
		return nil, err
	}
	return &ev, nil
}

// checkTransition returns the rejection reason for an illegal punch, nil
// when the transition is legal.
func checkTransition(state State, punch PunchType) error {
	switch punch {
	case PunchClockIn:
		if state != StateOut {
			return ErrAlreadyClockedIn
		}
	case PunchBreakStart:
		if state != StateIn {
			return ErrNotClockedIn
		}
	case PunchBreakEnd:
		if state != StateOnBreak {
			return ErrNotOnBreak
		}
	case PunchClockOut:
		if state == StateOnBreak {
			return ErrOnBreak
		}
		if state != StateIn {
			return ErrNotClockedIn
		}
	default:
		return ErrInvalidPunchType
	}
	return nil
}

// =============================================================================
// QUERIES
// =============================================================================

// CurrentOpenPunch returns the latest event when the employee has an open
// segment (clocked in or on break), nil otherwise.
func (c *Clock) CurrentOpenPunch(ctx context.Context, employeeID string) (*PunchEvent, error) {
	latest, err := c.Punches.Latest(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if StateAfter(latest) == StateOut {
		return nil, nil
	}
	return latest, nil
}

// CurrentState returns the derived clock state for the employee.
func (c *Clock) CurrentState(ctx context.Context, employeeID string) (State, error) {
	latest, err := c.Punches.Latest(ctx, employeeID)
	if err != nil {
		return StateOut, err
	}
	return StateAfter(latest), nil
}

// ComputeHours replays the employee's punch log from windowStart and returns
// worked hours as of now. See hours.go for the aggregation rules.
func (c *Clock) ComputeHours(ctx context.Context, employeeID string, windowStart, now time.Time) (float64, error) {
	events, err := c.Punches.ListRange(ctx, employeeID, windowStart, now)
	if err != nil {
		return 0, err
	}
	return HoursWorked(events, now), nil
}
