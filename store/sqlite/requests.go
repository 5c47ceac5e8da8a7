package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// =============================================================================
// REQUEST STORE - Tracked HR requests with public references
// =============================================================================

// Request is a tracked HR request (document renewal, attendance
// correction, salary letter). The reference is the public tracking key.
type Request struct {
	ID          int64
	Reference   string
	EmployeeID  string
	RequestType string
	Status      string
	Notes       string
	SubmittedAt time.Time
	CompletedAt time.Time
}

// Request statuses.
const (
	RequestSubmitted  = "submitted"
	RequestInProgress = "in_progress"
	RequestCompleted  = "completed"
	RequestRejected   = "rejected"
)

// NextReference generates the next REF-YYYY-NNN reference for the given
// year. The sequence is derived from a count query under the write lock,
// so concurrent submissions cannot collide; it resets each year.
func (s *Store) NextReference(ctx context.Context, year int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextReferenceLocked(ctx, year)
}

func (s *Store) nextReferenceLocked(ctx context.Context, year int) (string, error) {
	var count int
	prefix := fmt.Sprintf("REF-%d-%%", year)
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM requests WHERE reference LIKE ?", prefix).Scan(&count); err != nil {
		return "", err
	}
	return fmt.Sprintf("REF-%d-%03d", year, count+1), nil
}

// CreateRequest stores a new request, generating its reference.
func (s *Store) CreateRequest(ctx context.Context, req Request) (Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	reference, err := s.nextReferenceLocked(ctx, now.Year())
	if err != nil {
		return Request{}, err
	}

	req.Reference = reference
	req.SubmittedAt = now
	if req.Status == "" {
		req.Status = RequestSubmitted
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO requests (reference, employee_id, request_type, status, notes, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		req.Reference, req.EmployeeID, req.RequestType, req.Status, req.Notes,
		req.SubmittedAt.Format(time.RFC3339))
	if err != nil {
		return Request{}, err
	}
	req.ID, _ = res.LastInsertId()
	return req, nil
}

// GetRequestByReference looks up a request by its public reference.
// Returns nil when not found.
func (s *Store) GetRequestByReference(ctx context.Context, reference string) (*Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, reference, employee_id, request_type, status, notes, submitted_at, completed_at
		FROM requests WHERE reference = ?`, reference)

	var req Request
	var notes, completedAt sql.NullString
	var submittedAt string
	err := row.Scan(&req.ID, &req.Reference, &req.EmployeeID, &req.RequestType,
		&req.Status, &notes, &submittedAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	req.Notes = notes.String
	req.SubmittedAt, _ = time.Parse(time.RFC3339, submittedAt)
	if completedAt.Valid {
		req.CompletedAt, _ = time.Parse(time.RFC3339, completedAt.String)
	}
	return &req, nil
}

// UpdateRequestStatus moves a request through its lifecycle. Completion
// stamps completed_at.
func (s *Store) UpdateRequestStatus(ctx context.Context, reference, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var completedAt any
	if status == RequestCompleted {
		completedAt = time.Now().UTC().Format(time.RFC3339)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE requests SET status = ?, completed_at = ? WHERE reference = ?",
		status, completedAt, reference)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("request %s not found", reference)
	}
	return nil
}

// CountOpenRequests counts requests that are not yet completed or
// rejected. Used by the dashboard.
func (s *Store) CountOpenRequests(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM requests WHERE status IN (?, ?)",
		RequestSubmitted, RequestInProgress).Scan(&n)
	return n, err
}
