/*
hours.go - Worked-hours aggregation over the punch log

PURPOSE:
  Replays an employee's ordered punch sequence and produces a total of
  worked hours. Pure function of the event slice and a reference "now".

RULES:
  - clock_in opens a marker; clock_out closes it and accumulates the
    interval. Unmatched clock_outs are ignored.
  - Break events do NOT subtract time: the clock_in..clock_out interval
    is counted in full regardless of intervening breaks. Breaks are
    structurally validated by the state machine; whether they should be
    unpaid is a policy question this aggregator deliberately does not
    answer.
  - An open marker at the end of the scan accrues up to now, so running
    totals reflect live time for an employee still on the clock.
  - The result is never negative; an empty window yields zero.

ORDER SENSITIVITY:
  The scan trusts per-employee insertion order and does not re-sort by
  timestamp. Replaying the same events in a different order can change
  the result.
*/
package timeclock

import "time"

// HoursWorked scans events in order and returns total worked hours as of now.
func HoursWorked(events []PunchEvent, now time.Time) float64 {
	var total time.Duration
	var open *time.Time

	for i := range events {
		switch events[i].Type {
		case PunchClockIn:
			t := events[i].At
			open = &t
		case PunchClockOut:
			if open != nil {
				if d := events[i].At.Sub(*open); d > 0 {
					total += d
				}
				open = nil
			}
		}
	}

	if open != nil {
		if d := now.Sub(*open); d > 0 {
			total += d
		}
	}

	return total.Hours()
}
