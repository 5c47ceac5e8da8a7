/*
rules.go - Legal parameters as an immutable rule set

PURPOSE:
  Collects every threshold, rate, and amount the engine branches on into
  one structure that is handed to the Engine at construction time. Tests
  (and config) can substitute alternate legal parameters without
  process-wide side effects - there are no mutable package globals.

LEGAL BASIS (Federal Decree-Law No. 33/2021):
  - Article 17: maximum 8 regular working hours per day
  - Article 19: overtime at 125% (regular) or 150% (night/holiday),
    maximum 2 overtime hours per day
  - Article 21: one rest day minimum per week

SEE ALSO:
  - engine.go: Engine construction
  - config package: maps file/env overrides onto this struct
*/
package compliance

import "github.com/shopspring/decimal"

// =============================================================================
// RULE SET
// =============================================================================

// RuleSet holds the legal parameters for one jurisdiction. Treat as
// immutable once constructed.
type RuleSet struct {
	// StandardWorkHours is the regular working day excluding lunch.
	StandardWorkHours decimal.Decimal

	// OffsetHoursPerDay converts overtime hours into banked offset days.
	OffsetHoursPerDay decimal.Decimal

	// LegalOvertimeCap is the statutory daily overtime maximum.
	LegalOvertimeCap decimal.Decimal

	// MealAllowance is the per-meal monetary credit.
	MealAllowance decimal.Decimal

	// NormalDayMealThreshold is the extra hours beyond the standard day
	// required for a meal on a normal working day.
	NormalDayMealThreshold decimal.Decimal

	// OffDaySecondMealHours is the worked-hours boundary at which an
	// off-day shift earns a second meal.
	OffDaySecondMealHours decimal.Decimal

	// RegularOvertimeRate and PremiumOvertimeRate are the Article 19
	// pay multipliers. Premium applies to night and holiday/rest-day work.
	RegularOvertimeRate decimal.Decimal
	PremiumOvertimeRate decimal.Decimal

	// NightStartHour/NightEndHour bound the night band in local time.
	// The band wraps midnight: [NightStartHour, 24h) union [0h, NightEndHour).
	NightStartHour int
	NightEndHour   int

	// DefaultLunchMinutes applies when a caller does not supply a lunch
	// deduction.
	DefaultLunchMinutes int
}

// DefaultRules returns the UAE parameters.
func DefaultRules() RuleSet {
	return RuleSet{
		StandardWorkHours:      decimal.RequireFromString("8.0"),
		OffsetHoursPerDay:      decimal.RequireFromString("8.0"),
		LegalOvertimeCap:       decimal.RequireFromString("2.0"),
		MealAllowance:          decimal.RequireFromString("50.0"),
		NormalDayMealThreshold: decimal.RequireFromString("2.0"),
		OffDaySecondMealHours:  decimal.RequireFromString("8.0"),
		RegularOvertimeRate:    decimal.RequireFromString("1.25"),
		PremiumOvertimeRate:    decimal.RequireFromString("1.50"),
		NightStartHour:         21,
		NightEndHour:           4,
		DefaultLunchMinutes:    60,
	}
}
