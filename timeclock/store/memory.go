// Package store provides PunchStore implementations.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/lazizbekravshanov/shopmule-sub004/timeclock"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	punches map[string][]timeclock.PunchEvent // per employee, insertion order
}

func NewMemory() *Memory {
	return &Memory{punches: make(map[string][]timeclock.PunchEvent)}
}

// Append performs the compare-and-swap append: the insert only happens when
// the latest event id still matches expectLatestID.
func (m *Memory) Append(_ context.Context, ev timeclock.PunchEvent, expectLatestID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := m.punches[ev.EmployeeID]
	latestID := ""
	if len(log) > 0 {
		latestID = log[len(log)-1].ID
	}
	if latestID != expectLatestID {
		return timeclock.ErrPunchConflict
	}

	m.punches[ev.EmployeeID] = append(log, ev)
	return nil
}

func (m *Memory) Latest(_ context.Context, employeeID string) (*timeclock.PunchEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	log := m.punches[employeeID]
	if len(log) == 0 {
		return nil, nil
	}
	ev := log[len(log)-1]
	return &ev, nil
}

func (m *Memory) ListRange(_ context.Context, employeeID string, from, to time.Time) ([]timeclock.PunchEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []timeclock.PunchEvent
	for _, ev := range m.punches[employeeID] {
		if !ev.At.Before(from) && !ev.At.After(to) {
			result = append(result, ev)
		}
	}
	return result, nil
}

func (m *Memory) ListSince(_ context.Context, employeeID string, from time.Time) ([]timeclock.PunchEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []timeclock.PunchEvent
	for _, ev := range m.punches[employeeID] {
		if !ev.At.Before(from) {
			result = append(result, ev)
		}
	}
	return result, nil
}
