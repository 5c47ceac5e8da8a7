/*
Package compliance implements the UAE labor-law attendance evaluation engine.

PURPOSE:
  This package converts a raw clock-in/clock-out pair plus shift
  classification flags into the outcomes UAE labor law cares about:
  net worked hours, overtime, offset-day accrual, food allowance,
  and overtime pay. It is the only part of the system with real
  rule logic - everything else (HTTP, SQLite, scheduling) is
  plumbing around the result record this package produces.

KEY CONCEPTS IN THIS FILE (types.go):
  - WorkInterval:    A clock-in/clock-out pair with a lunch deduction
  - DayContext:      Whether the shift fell on a normal / off / holiday day
  - EmployeeContext: Managerial flag, hourly rate, work schedule
  - Result:          The complete immutable evaluation outcome

DESIGN PRINCIPLES:
  1. Purity: Evaluate is a function of its inputs; no I/O, no state
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Clamping over failure: missing/inverted timestamps degrade to
     zero hours instead of returning errors
  4. Determinism: identical inputs always produce identical decimals

USAGE:
  engine := compliance.NewEngine(compliance.DefaultRules())
  result := engine.Evaluate(compliance.Input{
      Interval: compliance.WorkInterval{ClockIn: in, ClockOut: out, LunchMinutes: 60},
      Day:      compliance.DayContext{IsNormalWorkingDay: true},
      Employee: compliance.EmployeeContext{HourlyRate: decimal.NewFromInt(20)},
  })

SEE ALSO:
  - rules.go:     Legal constants as an immutable RuleSet
  - engine.go:    The evaluation pipeline and explanation builder
  - interval.go:  Net worked hours resolution
  - night.go:     Night-band overlap detection
*/
package compliance

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// INPUTS - Constructed fresh per evaluation, never retained
// =============================================================================

// WorkInterval is a single attendance span. Timestamps carry date and time;
// a span may cross midnight or run longer than 24 hours.
type WorkInterval struct {
	ClockIn      time.Time
	ClockOut     time.Time
	LunchMinutes int
}

// Recorded reports whether both timestamps are present. An unrecorded
// interval evaluates to zero hours rather than an error.
func (w WorkInterval) Recorded() bool {
	return !w.ClockIn.IsZero() && !w.ClockOut.IsZero()
}

// DayContext classifies the calendar day the shift belongs to. It is
// supplied by the scheduling collaborator, never derived here. Off-day
// and holiday take precedence over "normal" for allowance rules.
type DayContext struct {
	IsNormalWorkingDay bool
	IsOffDay           bool
	IsHoliday          bool
}

// WorkSchedule is the weekly pattern an employee works. It is accepted
// for future rule variation and does not currently alter outputs.
type WorkSchedule string

const (
	ScheduleFiveDays WorkSchedule = "5-day"
	ScheduleSixDays  WorkSchedule = "6-day"
)

// EmployeeContext carries the HR classification relevant to overtime.
type EmployeeContext struct {
	IsManagerial bool
	HourlyRate   decimal.Decimal
	Schedule     WorkSchedule
}

// Input bundles everything Evaluate needs for one calculation.
type Input struct {
	Interval WorkInterval
	Day      DayContext
	Employee EmployeeContext
}

// =============================================================================
// RESULT - Immutable evaluation outcome
// =============================================================================

// Result is the combined outcome of one evaluation. All hour and money
// quantities are rounded to 2 decimal places at the point each was
// finalized, never earlier.
type Result struct {
	NetWorkedHours   decimal.Decimal
	OvertimeHours    decimal.Decimal
	OffsetDaysEarned decimal.Decimal

	Meals           int
	FoodAllowance   decimal.Decimal
	AllowanceReason string

	OvertimePay  decimal.Decimal
	OvertimeRate decimal.Decimal

	NightOvertime     bool
	HolidayOvertime   bool // holiday or off-day shift
	ExceedsLegalLimit bool
	OffsetEligible    bool

	Explanation string
}
