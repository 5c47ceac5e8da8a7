/*
engine.go - Evaluation pipeline and explanation builder

PURPOSE:
  Orchestrates the individual calculators in a fixed, feed-forward order
  and merges their outputs into one Result:

    resolveWorkedHours
        -> overlapsNightBand, classifyOvertime
        -> calculateFoodAllowance
        -> calculateOvertimePay
        -> merge + explanation

  No step calls back into an earlier one, and each step consumes only
  plain values produced upstream.

CONCURRENCY:
  Evaluate is synchronous and touches no state outside its own call
  stack, so an Engine may be shared by any number of goroutines without
  locking. Identical inputs always produce identical decimal outputs.

EXPLANATION:
  The multi-sentence explanation is generated purely from the already
  computed fields. It must never re-derive values independently - that
  guarantees the narrative and the numeric fields can never disagree.
*/
package compliance

import (
	"fmt"
	"strings"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine evaluates attendance spans against a fixed RuleSet.
type Engine struct {
	rules RuleSet
}

// NewEngine creates an engine bound to the given rule set.
func NewEngine(rules RuleSet) *Engine {
	return &Engine{rules: rules}
}

// Rules returns the rule set the engine was constructed with.
func (e *Engine) Rules() RuleSet { return e.rules }

// Evaluate runs the full compliance calculation for one attendance span.
// It never fails: malformed inputs degrade to a zero-hours result.
func (e *Engine) Evaluate(in Input) Result {
	netHours := resolveWorkedHours(in.Interval, e.rules)

	night := overlapsNightBand(in.Interval, e.rules)
	overtime := classifyOvertime(netHours, in.Employee.IsManagerial, e.rules)
	allowance := calculateFoodAllowance(netHours, in.Day, e.rules)

	holidayOrOff := in.Day.IsHoliday || in.Day.IsOffDay
	pay := calculateOvertimePay(overtime.OvertimeHours, in.Employee.HourlyRate, night, holidayOrOff, e.rules)

	result := Result{
		NetWorkedHours:    netHours,
		OvertimeHours:     overtime.OvertimeHours,
		OffsetDaysEarned:  overtime.OffsetDaysEarned,
		Meals:             allowance.Meals,
		FoodAllowance:     allowance.Amount,
		AllowanceReason:   allowance.Reason,
		OvertimePay:       pay.Amount,
		OvertimeRate:      pay.Rate,
		NightOvertime:     night,
		HolidayOvertime:   holidayOrOff,
		ExceedsLegalLimit: overtime.ExceedsLegalLimit,
		OffsetEligible:    overtime.OffsetEligible,
	}
	result.Explanation = e.explain(result, allowance.Eligible, in)
	return result
}

// =============================================================================
// EXPLANATION - Pure formatting over computed fields
// =============================================================================

func (e *Engine) explain(r Result, allowanceEligible bool, in Input) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("You worked %s hours today (excluding lunch break).",
		r.NetWorkedHours.StringFixed(2)))

	if in.Employee.IsManagerial {
		parts = append(parts, "As a managerial employee, overtime hours are not tracked per company policy.")
	} else if r.OvertimeHours.IsPositive() {
		parts = append(parts, fmt.Sprintf("Extra hours worked: %s hours beyond standard %s hours.",
			r.OvertimeHours.StringFixed(2), e.rules.StandardWorkHours.String()))
		parts = append(parts, fmt.Sprintf("Offset days earned: %s days (%s extra hours = 1 offset day).",
			r.OffsetDaysEarned.StringFixed(2), e.rules.OffsetHoursPerDay.String()))

		if r.ExceedsLegalLimit {
			parts = append(parts, fmt.Sprintf(
				"Note: this exceeds the UAE legal limit of %s hours overtime per day (Article 19). Please discuss with your manager.",
				e.rules.LegalOvertimeCap.String()))
		}
	}

	if allowanceEligible {
		parts = append(parts, fmt.Sprintf("Food allowance: %d meal(s) = %s AED. %s",
			r.Meals, r.FoodAllowance.StringFixed(2), r.AllowanceReason))
	}

	if in.Day.IsHoliday {
		parts = append(parts, "Working on a public holiday earns the 150% overtime rate (Article 19).")
	} else if in.Day.IsOffDay {
		parts = append(parts, "Working on your rest day earns the 150% overtime rate and food allowance (Article 21).")
	}

	return strings.Join(parts, " ")
}
