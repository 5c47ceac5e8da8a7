/*
allowance.go - Food allowance thresholds

PURPOSE:
  Converts worked hours into a meal count and monetary allowance under
  day-type-dependent thresholds:

    Normal working day:  extra hours beyond the standard 8 must reach
                         2.0 for exactly one meal.
    Off day:             any work under 8 hours earns one meal;
                         8 hours or more earns two.
    Anything else:       no meals (zero hours, or a day flagged neither
                         normal nor off).

  The off-day branch is evaluated first and takes precedence regardless
  of the holiday flag. A holiday not also flagged as an off day does NOT
  receive off-day-style allowance - that mirrors the rule as written,
  ambiguous as it is, rather than inferring symmetry.

  The reason string is a required output: it states the hours worked and
  which threshold fired, for audit and explanation purposes.
*/
package compliance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// FOOD ALLOWANCE CALCULATOR
// =============================================================================

// allowanceOutcome is the calculator's contribution to the final Result.
type allowanceOutcome struct {
	Meals    int
	Amount   decimal.Decimal
	Eligible bool
	Reason   string
}

// calculateFoodAllowance applies the day-type-dependent meal thresholds.
func calculateFoodAllowance(netHours decimal.Decimal, day DayContext, rules RuleSet) allowanceOutcome {
	out := allowanceOutcome{Amount: decimal.Zero.Round(2)}

	switch {
	case day.IsOffDay:
		if !netHours.IsPositive() {
			return out
		}
		if netHours.GreaterThanOrEqual(rules.OffDaySecondMealHours) {
			out.Meals = 2
			out.Reason = fmt.Sprintf("Worked %s hours on off day (%s+ hours = 2 meals)",
				netHours.StringFixed(2), rules.OffDaySecondMealHours.String())
		} else {
			out.Meals = 1
			out.Reason = fmt.Sprintf("Worked %s hours on off day (up to %s hours = 1 meal)",
				netHours.StringFixed(2), rules.OffDaySecondMealHours.String())
		}

	case day.IsNormalWorkingDay:
		if !netHours.GreaterThan(rules.StandardWorkHours) {
			return out
		}
		extra := netHours.Sub(rules.StandardWorkHours)
		if extra.LessThan(rules.NormalDayMealThreshold) {
			return out
		}
		out.Meals = 1
		out.Reason = fmt.Sprintf("Worked %s extra hours on normal working day (%s+ hours = 1 meal)",
			extra.StringFixed(2), rules.NormalDayMealThreshold.String())

	default:
		return out
	}

	out.Eligible = true
	out.Amount = rules.MealAllowance.Mul(decimal.NewFromInt(int64(out.Meals))).Round(2)
	return out
}
