/*
night.go - Night-band overlap detection

PURPOSE:
  Decides whether any portion of a worked interval falls inside the legal
  night band (local time >= 21:00 or < 04:00). Night work commands the
  premium overtime rate under Article 19.

DESIGN:
  The band wraps midnight, so for every calendar date the interval
  touches we model two half-open sub-intervals:

      [21:00 that date, 24:00 that date)
      [00:00 that date, 04:00 that date)

  and test the worked interval against each. Two half-open intervals
  [a,b) and [c,d) overlap iff a < d && c < b. This is closed-form per
  date - O(days spanned) - and survives midnight crossings and shifts
  longer than 24 hours, unlike stepping through the interval hour by
  hour (which is fragile against day-boundary wraparound).
*/
package compliance

import "time"

// =============================================================================
// NIGHT WINDOW DETECTOR
// =============================================================================

// overlapsNightBand reports whether [w.ClockIn, w.ClockOut) intersects the
// night band on any calendar date the interval touches.
func overlapsNightBand(w WorkInterval, rules RuleSet) bool {
	if !w.Recorded() || !w.ClockOut.After(w.ClockIn) {
		return false
	}

	day := startOfDay(w.ClockIn)
	last := startOfDay(w.ClockOut)

	for !day.After(last) {
		// Evening segment: [21:00, 24:00) of this date.
		eveningStart := day.Add(time.Duration(rules.NightStartHour) * time.Hour)
		eveningEnd := day.AddDate(0, 0, 1)
		if overlaps(w.ClockIn, w.ClockOut, eveningStart, eveningEnd) {
			return true
		}

		// Early-morning segment: [00:00, 04:00) of this date.
		morningEnd := day.Add(time.Duration(rules.NightEndHour) * time.Hour)
		if overlaps(w.ClockIn, w.ClockOut, day, morningEnd) {
			return true
		}

		day = day.AddDate(0, 0, 1)
	}
	return false
}

// overlaps tests half-open intervals [a,b) and [c,d).
func overlaps(a, b, c, d time.Time) bool {
	return a.Before(d) && c.Before(b)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
