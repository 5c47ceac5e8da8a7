/*
Package sqlite provides SQLite-backed persistence for the compliance system.

PURPOSE:
  Persists the data the engine's collaborators own: employee HR records,
  the company holiday calendar, evaluated attendance records, and
  tracked HR requests. The engine itself never touches this package -
  results are computed first and written here by the API layer.

KEY TABLES:
  employees:          HR records (managerial flag, hourly rate, schedule,
                      visa and Emirates ID expiry dates)
  holidays:           Company holiday calendar backing the schedule package
  attendance_records: One row per evaluated shift, numeric outcomes
                      stored as exact decimal strings
  requests:           Tracked HR requests with REF-YYYY-NNN references

DECIMAL STORAGE:
  Hour and money columns are TEXT holding decimal strings, never REAL.
  The engine's determinism guarantee extends to storage only if the
  round-trip is exact.

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers
  don't block and crash recovery is cleaner.

USAGE:
  store, err := sqlite.New("./data/compliance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/schedule"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Employee HR records
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		hire_date TEXT NOT NULL,
		is_managerial INTEGER NOT NULL DEFAULT 0,
		hourly_rate TEXT NOT NULL DEFAULT '0',
		work_schedule TEXT NOT NULL DEFAULT '5-day',
		visa_expiry TEXT,
		emirates_id_expiry TEXT,
		created_at TEXT NOT NULL
	);

	-- Company holiday calendar
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_date ON holidays(date);

	-- Evaluated attendance records. Numeric outcomes are exact decimal
	-- strings as produced by the engine.
	CREATE TABLE IF NOT EXISTS attendance_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		clock_in TEXT NOT NULL,
		clock_out TEXT NOT NULL,
		lunch_minutes INTEGER NOT NULL,
		is_normal_day INTEGER NOT NULL,
		is_off_day INTEGER NOT NULL,
		is_holiday INTEGER NOT NULL,
		net_hours TEXT NOT NULL,
		overtime_hours TEXT NOT NULL,
		offset_days TEXT NOT NULL,
		meals INTEGER NOT NULL,
		food_allowance TEXT NOT NULL,
		allowance_reason TEXT NOT NULL,
		overtime_pay TEXT NOT NULL,
		overtime_rate TEXT NOT NULL,
		night_overtime INTEGER NOT NULL,
		holiday_overtime INTEGER NOT NULL,
		exceeds_legal_limit INTEGER NOT NULL,
		offset_eligible INTEGER NOT NULL,
		explanation TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_attendance_employee_clock_in
		ON attendance_records(employee_id, clock_in);

	-- Tracked HR requests (document renewals, corrections, letters)
	CREATE TABLE IF NOT EXISTS requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		reference TEXT NOT NULL UNIQUE,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		request_type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'submitted',
		notes TEXT,
		submitted_at TEXT NOT NULL,
		completed_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_requests_reference ON requests(reference);
	CREATE INDEX IF NOT EXISTS idx_requests_employee ON requests(employee_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

// Employee is the stored HR record for one employee.
type Employee struct {
	ID               string
	Name             string
	Email            string
	HireDate         time.Time
	IsManagerial     bool
	HourlyRate       decimal.Decimal
	WorkSchedule     compliance.WorkSchedule
	VisaExpiry       time.Time
	EmiratesIDExpiry time.Time
	CreatedAt        time.Time
}

// Context returns the engine-facing employee classification.
func (e Employee) Context() compliance.EmployeeContext {
	return compliance.EmployeeContext{
		IsManagerial: e.IsManagerial,
		HourlyRate:   e.HourlyRate,
		Schedule:     e.WorkSchedule,
	}
}

// SaveEmployee inserts or updates an employee.
func (s *Store) SaveEmployee(ctx context.Context, emp Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, name, email, hire_date, is_managerial, hourly_rate,
			work_schedule, visa_expiry, emirates_id_expiry, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			hire_date = excluded.hire_date,
			is_managerial = excluded.is_managerial,
			hourly_rate = excluded.hourly_rate,
			work_schedule = excluded.work_schedule,
			visa_expiry = excluded.visa_expiry,
			emirates_id_expiry = excluded.emirates_id_expiry
	`

	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.Name, emp.Email,
		emp.HireDate.Format(time.RFC3339),
		boolToInt(emp.IsManagerial),
		emp.HourlyRate.String(),
		string(emp.WorkSchedule),
		nullableTime(emp.VisaExpiry),
		nullableTime(emp.EmiratesIDExpiry),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetEmployee retrieves an employee by ID. Returns nil when not found.
func (s *Store) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, hire_date, is_managerial, hourly_rate,
			work_schedule, visa_expiry, emirates_id_expiry, created_at
		FROM employees WHERE id = ?`, id)

	emp, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return emp, nil
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, hire_date, is_managerial, hourly_rate,
			work_schedule, visa_expiry, emirates_id_expiry, created_at
		FROM employees ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *emp)
	}
	return employees, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*Employee, error) {
	var emp Employee
	var hireDate, rate, scheduleStr, createdAt string
	var managerial int
	var visa, eid sql.NullString

	if err := row.Scan(&emp.ID, &emp.Name, &emp.Email, &hireDate, &managerial,
		&rate, &scheduleStr, &visa, &eid, &createdAt); err != nil {
		return nil, err
	}

	emp.HireDate, _ = time.Parse(time.RFC3339, hireDate)
	emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	emp.IsManagerial = managerial != 0
	emp.WorkSchedule = compliance.WorkSchedule(scheduleStr)

	var err error
	if emp.HourlyRate, err = decimal.NewFromString(rate); err != nil {
		return nil, fmt.Errorf("corrupt hourly_rate for %s: %w", emp.ID, err)
	}
	if visa.Valid {
		emp.VisaExpiry, _ = time.Parse(time.RFC3339, visa.String)
	}
	if eid.Valid {
		emp.EmiratesIDExpiry, _ = time.Parse(time.RFC3339, eid.String)
	}
	return &emp, nil
}

// =============================================================================
// HOLIDAY STORE (implements schedule.HolidayCalendar)
// =============================================================================

// SaveHoliday inserts or updates a holiday.
func (s *Store) SaveHoliday(ctx context.Context, h schedule.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (id, date, name, recurring)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			name = excluded.name,
			recurring = excluded.recurring`,
		h.ID, h.Date.Format("2006-01-02"), h.Name, boolToInt(h.Recurring))
	return err
}

// ListHolidays returns all holidays ordered by date.
func (s *Store) ListHolidays(ctx context.Context) ([]schedule.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, date, name, recurring FROM holidays ORDER BY date")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []schedule.Holiday
	for rows.Next() {
		var h schedule.Holiday
		var date string
		var recurring int
		if err := rows.Scan(&h.ID, &date, &h.Name, &recurring); err != nil {
			return nil, err
		}
		h.Date, _ = time.Parse("2006-01-02", date)
		h.Recurring = recurring != 0
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// DeleteHoliday removes a holiday.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	return err
}

// IsHoliday implements schedule.HolidayCalendar against the holidays
// table. Lookup failures degrade to "not a holiday" - calendar data is
// advisory, never a reason to reject an evaluation.
func (s *Store) IsHoliday(date time.Time) bool {
	holidays, err := s.ListHolidays(context.Background())
	if err != nil {
		return false
	}
	for _, h := range holidays {
		if h.Matches(date) {
			return true
		}
	}
	return false
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339)
}
