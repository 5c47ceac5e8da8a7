package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/compliance-engine/compliance"
)

// =============================================================================
// ATTENDANCE RECORD STORE
// =============================================================================

// AttendanceRecord is one evaluated shift as persisted. The numeric
// outcomes are exactly what the engine produced; the store never
// recomputes them.
type AttendanceRecord struct {
	ID         int64
	EmployeeID string
	Interval   compliance.WorkInterval
	Day        compliance.DayContext
	Result     compliance.Result
	CreatedAt  time.Time
}

// SaveAttendanceRecord persists one evaluated shift and returns its row ID.
func (s *Store) SaveAttendanceRecord(ctx context.Context, rec AttendanceRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance_records (
			employee_id, clock_in, clock_out, lunch_minutes,
			is_normal_day, is_off_day, is_holiday,
			net_hours, overtime_hours, offset_days,
			meals, food_allowance, allowance_reason,
			overtime_pay, overtime_rate,
			night_overtime, holiday_overtime, exceeds_legal_limit, offset_eligible,
			explanation, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.EmployeeID,
		rec.Interval.ClockIn.Format(time.RFC3339),
		rec.Interval.ClockOut.Format(time.RFC3339),
		rec.Interval.LunchMinutes,
		boolToInt(rec.Day.IsNormalWorkingDay),
		boolToInt(rec.Day.IsOffDay),
		boolToInt(rec.Day.IsHoliday),
		rec.Result.NetWorkedHours.String(),
		rec.Result.OvertimeHours.String(),
		rec.Result.OffsetDaysEarned.String(),
		rec.Result.Meals,
		rec.Result.FoodAllowance.String(),
		rec.Result.AllowanceReason,
		rec.Result.OvertimePay.String(),
		rec.Result.OvertimeRate.String(),
		boolToInt(rec.Result.NightOvertime),
		boolToInt(rec.Result.HolidayOvertime),
		boolToInt(rec.Result.ExceedsLegalLimit),
		boolToInt(rec.Result.OffsetEligible),
		rec.Result.Explanation,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListAttendanceRecords returns an employee's records, newest first.
func (s *Store) ListAttendanceRecords(ctx context.Context, employeeID string) ([]AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, clock_in, clock_out, lunch_minutes,
			is_normal_day, is_off_day, is_holiday,
			net_hours, overtime_hours, offset_days,
			meals, food_allowance, allowance_reason,
			overtime_pay, overtime_rate,
			night_overtime, holiday_overtime, exceeds_legal_limit, offset_eligible,
			explanation, created_at
		FROM attendance_records
		WHERE employee_id = ?
		ORDER BY clock_in DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []AttendanceRecord
	for rows.Next() {
		var rec AttendanceRecord
		var clockIn, clockOut, createdAt string
		var normal, off, holiday, night, holidayOT, exceeds, eligible int
		var netHours, overtime, offsetDays, allowance, pay, rate string

		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &clockIn, &clockOut, &rec.Interval.LunchMinutes,
			&normal, &off, &holiday,
			&netHours, &overtime, &offsetDays,
			&rec.Result.Meals, &allowance, &rec.Result.AllowanceReason,
			&pay, &rate,
			&night, &holidayOT, &exceeds, &eligible,
			&rec.Result.Explanation, &createdAt); err != nil {
			return nil, err
		}

		rec.Interval.ClockIn, _ = time.Parse(time.RFC3339, clockIn)
		rec.Interval.ClockOut, _ = time.Parse(time.RFC3339, clockOut)
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		rec.Day = compliance.DayContext{
			IsNormalWorkingDay: normal != 0,
			IsOffDay:           off != 0,
			IsHoliday:          holiday != 0,
		}
		rec.Result.NightOvertime = night != 0
		rec.Result.HolidayOvertime = holidayOT != 0
		rec.Result.ExceedsLegalLimit = exceeds != 0
		rec.Result.OffsetEligible = eligible != 0

		var err error
		if rec.Result.NetWorkedHours, err = parseStoredDecimal("net_hours", netHours); err != nil {
			return nil, err
		}
		if rec.Result.OvertimeHours, err = parseStoredDecimal("overtime_hours", overtime); err != nil {
			return nil, err
		}
		if rec.Result.OffsetDaysEarned, err = parseStoredDecimal("offset_days", offsetDays); err != nil {
			return nil, err
		}
		if rec.Result.FoodAllowance, err = parseStoredDecimal("food_allowance", allowance); err != nil {
			return nil, err
		}
		if rec.Result.OvertimePay, err = parseStoredDecimal("overtime_pay", pay); err != nil {
			return nil, err
		}
		if rec.Result.OvertimeRate, err = parseStoredDecimal("overtime_rate", rate); err != nil {
			return nil, err
		}

		records = append(records, rec)
	}
	return records, rows.Err()
}

func parseStoredDecimal(column, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt %s value %q: %w", column, raw, err)
	}
	return d, nil
}
