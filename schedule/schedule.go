/*
Package schedule classifies calendar days for the compliance engine.

PURPOSE:
  The engine consumes a DayContext (normal / off / holiday) and never
  derives it itself. This package is the scheduling collaborator that
  builds that context from an employee's weekly work pattern and the
  company holiday calendar.

KEY CONCEPTS:
  - WorkPattern:     Which weekdays are rest days for a schedule
  - HolidayCalendar: Company holiday lookup (store-backed in production)
  - ClassifyDay:     date + pattern + calendar -> compliance.DayContext

PRECEDENCE:
  A public holiday is flagged IsHoliday; a pattern rest day is flagged
  IsOffDay. A date can carry both flags - the engine's allowance rules
  branch on the off-day flag first, and the pay premium fires on either.
*/
package schedule

import (
	"time"

	"github.com/warp/compliance-engine/compliance"
)

// =============================================================================
// WORK PATTERN - Weekly rest days per schedule
// =============================================================================

// UAE working week: Saturday is the common rest day, with Friday as the
// second rest day on a 5-day schedule.
var restDays = map[compliance.WorkSchedule][]time.Weekday{
	compliance.ScheduleFiveDays: {time.Friday, time.Saturday},
	compliance.ScheduleSixDays:  {time.Saturday},
}

// IsRestDay reports whether the date is a rest day under the schedule.
// Unknown schedules fall back to the 5-day pattern.
func IsRestDay(date time.Time, s compliance.WorkSchedule) bool {
	days, ok := restDays[s]
	if !ok {
		days = restDays[compliance.ScheduleFiveDays]
	}
	for _, d := range days {
		if date.Weekday() == d {
			return true
		}
	}
	return false
}

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// Holiday is a company-observed public holiday.
type Holiday struct {
	ID        string
	Date      time.Time
	Name      string
	Recurring bool // same month/day every year
}

// Matches reports whether the holiday falls on the given date.
func (h Holiday) Matches(date time.Time) bool {
	if h.Recurring {
		return h.Date.Month() == date.Month() && h.Date.Day() == date.Day()
	}
	return h.Date.Year() == date.Year() && h.Date.Month() == date.Month() && h.Date.Day() == date.Day()
}

// HolidayCalendar provides holiday lookup. The sqlite store implements
// this; NopCalendar serves tests and deployments without holiday data.
type HolidayCalendar interface {
	// IsHoliday checks if a date is an observed holiday.
	IsHoliday(date time.Time) bool
}

// NopCalendar is a calendar with no holidays.
type NopCalendar struct{}

func (NopCalendar) IsHoliday(date time.Time) bool { return false }

// =============================================================================
// DAY CLASSIFICATION
// =============================================================================

// ClassifyDay builds the DayContext for a shift date. The shift's
// clock-in date decides the classification even when the shift itself
// crosses midnight.
func ClassifyDay(date time.Time, s compliance.WorkSchedule, calendar HolidayCalendar) compliance.DayContext {
	if calendar == nil {
		calendar = NopCalendar{}
	}

	ctx := compliance.DayContext{
		IsOffDay:  IsRestDay(date, s),
		IsHoliday: calendar.IsHoliday(date),
	}
	ctx.IsNormalWorkingDay = !ctx.IsOffDay && !ctx.IsHoliday
	return ctx
}
