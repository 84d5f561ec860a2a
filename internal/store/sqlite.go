package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	status TEXT NOT NULL,
	phase TEXT NOT NULL DEFAULT '',
	contract_value REAL
);
CREATE TABLE IF NOT EXISTS leads (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	company TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT '',
	tier TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	status TEXT NOT NULL,
	priority TEXT NOT NULL DEFAULT '',
	project_id TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS revenue_entries (
	id TEXT PRIMARY KEY,
	amount REAL NOT NULL,
	collected INTEGER NOT NULL DEFAULT 0,
	source TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	date TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS expense_entries (
	id TEXT PRIMARY KEY,
	amount REAL NOT NULL,
	vendor TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	date TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS approval_requests (
	id TEXT PRIMARY KEY,
	action_type TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	risk_level TEXT NOT NULL DEFAULT 'low',
	status TEXT NOT NULL DEFAULT 'pending',
	reviewed_by TEXT NOT NULL DEFAULT '',
	reviewed_at TEXT,
	payload TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
`

// SQLite is the Store implementation backed by a local SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) the database at dsn.
func OpenSQLite(dsn string) (*SQLite, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("store dsn is required")
	}
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", dsn))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate store schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func statusPlaceholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func (s *SQLite) ProjectsByStatus(ctx context.Context, statuses ...ProjectStatus) ([]Project, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(statuses))
	for _, st := range statuses {
		args = append(args, string(st))
	}
	q := fmt.Sprintf(`SELECT id, name, status, phase, contract_value FROM projects WHERE status IN (%s) ORDER BY status`, statusPlaceholders(len(statuses)))
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Project
	for rows.Next() {
		var p Project
		var value sql.NullFloat64
		if err := rows.Scan(&p.ID, &p.Name, &p.Status, &p.Phase, &value); err != nil {
			return nil, err
		}
		if value.Valid {
			v := value.Float64
			p.ContractValue = &v
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLite) RecentLeads(ctx context.Context, limit int) ([]Lead, error) {
	q := `SELECT id, name, company, status, tier, source, created_at FROM leads ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Lead
	for rows.Next() {
		var l Lead
		var createdAt string
		if err := rows.Scan(&l.ID, &l.Name, &l.Company, &l.Status, &l.Tier, &l.Source, &createdAt); err != nil {
			return nil, err
		}
		l.CreatedAt = parseStoredTime(createdAt)
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *SQLite) OpenTasks(ctx context.Context, statuses []TaskStatus, limit int) ([]Task, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(statuses)+1)
	for _, st := range statuses {
		args = append(args, string(st))
	}
	q := fmt.Sprintf(`SELECT id, title, status, priority, project_id FROM tasks WHERE status IN (%s)
		ORDER BY CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 WHEN 'low' THEN 3 ELSE 4 END`,
		statusPlaceholders(len(statuses)))
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Status, &t.Priority, &t.ProjectID); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLite) PendingApprovals(ctx context.Context) ([]ApprovalRequest, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, action_type, description, risk_level, status, reviewed_by, reviewed_at, payload, created_at
		FROM approval_requests WHERE status = 'pending' ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ApprovalRequest
	for rows.Next() {
		a, err := scanApproval(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLite) RevenueEntries(ctx context.Context, collectedOnly bool, limit int) ([]RevenueEntry, error) {
	q := `SELECT id, amount, collected, source, description, date FROM revenue_entries`
	if collectedOnly {
		q += ` WHERE collected = 1`
	}
	q += ` ORDER BY date DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RevenueEntry
	for rows.Next() {
		var r RevenueEntry
		var collected int
		var date string
		if err := rows.Scan(&r.ID, &r.Amount, &collected, &r.Source, &r.Description, &date); err != nil {
			return nil, err
		}
		r.Collected = collected != 0
		r.Date = parseStoredTime(date)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) ExpenseEntries(ctx context.Context, limit int) ([]ExpenseEntry, error) {
	q := `SELECT id, amount, vendor, category, description, date FROM expense_entries ORDER BY date DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ExpenseEntry
	for rows.Next() {
		var e ExpenseEntry
		var date string
		if err := rows.Scan(&e.ID, &e.Amount, &e.Vendor, &e.Category, &e.Description, &date); err != nil {
			return nil, err
		}
		e.Date = parseStoredTime(date)
		out = append(out, e)
	}
	return out, rows.Err()
}

// DecideApproval guards the transition on status = 'pending' inside the UPDATE
// itself, so a second click on the same request cannot double-apply.
func (s *SQLite) DecideApproval(ctx context.Context, id string, status ApprovalStatus, reviewer string, at time.Time) (ApprovalRequest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ApprovalRequest{}, fmt.Errorf("approval id is required")
	}
	if status != ApprovalApproved && status != ApprovalRejected {
		return ApprovalRequest{}, fmt.Errorf("approval status %q is not a terminal decision", status)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE approval_requests SET status = ?, reviewed_by = ?, reviewed_at = ? WHERE id = ? AND status = 'pending'`,
		string(status), reviewer, at.UTC().Format(time.RFC3339), id)
	if err != nil {
		return ApprovalRequest{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return ApprovalRequest{}, err
	}
	if affected == 0 {
		var existing string
		err := s.db.QueryRowContext(ctx, `SELECT status FROM approval_requests WHERE id = ?`, id).Scan(&existing)
		if err == sql.ErrNoRows {
			return ApprovalRequest{}, ErrNotFound
		}
		if err != nil {
			return ApprovalRequest{}, err
		}
		return ApprovalRequest{}, ErrAlreadyDecided
	}
	row := s.db.QueryRowContext(ctx, `SELECT id, action_type, description, risk_level, status, reviewed_by, reviewed_at, payload, created_at
		FROM approval_requests WHERE id = ?`, id)
	return scanApproval(row)
}

func (s *SQLite) PutProject(ctx context.Context, p Project) error {
	var value sql.NullFloat64
	if p.ContractValue != nil {
		value = sql.NullFloat64{Float64: *p.ContractValue, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO projects (id, name, status, phase, contract_value) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, status = excluded.status, phase = excluded.phase, contract_value = excluded.contract_value`,
		p.ID, p.Name, string(p.Status), p.Phase, value)
	return err
}

func (s *SQLite) PutLead(ctx context.Context, l Lead) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO leads (id, name, company, status, tier, source, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, company = excluded.company, status = excluded.status, tier = excluded.tier, source = excluded.source, created_at = excluded.created_at`,
		l.ID, l.Name, l.Company, l.Status, string(l.Tier), l.Source, l.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

func (s *SQLite) PutTask(ctx context.Context, t Task) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO tasks (id, title, status, priority, project_id) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, status = excluded.status, priority = excluded.priority, project_id = excluded.project_id`,
		t.ID, t.Title, string(t.Status), string(t.Priority), t.ProjectID)
	return err
}

func (s *SQLite) PutRevenue(ctx context.Context, r RevenueEntry) error {
	collected := 0
	if r.Collected {
		collected = 1
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO revenue_entries (id, amount, collected, source, description, date) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET amount = excluded.amount, collected = excluded.collected, source = excluded.source, description = excluded.description, date = excluded.date`,
		r.ID, r.Amount, collected, r.Source, r.Description, r.Date.UTC().Format(time.RFC3339))
	return err
}

func (s *SQLite) PutExpense(ctx context.Context, e ExpenseEntry) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO expense_entries (id, amount, vendor, category, description, date) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET amount = excluded.amount, vendor = excluded.vendor, category = excluded.category, description = excluded.description, date = excluded.date`,
		e.ID, e.Amount, e.Vendor, e.Category, e.Description, e.Date.UTC().Format(time.RFC3339))
	return err
}

func (s *SQLite) PutApproval(ctx context.Context, a ApprovalRequest) error {
	var reviewedAt sql.NullString
	if a.ReviewedAt != nil {
		reviewedAt = sql.NullString{String: a.ReviewedAt.UTC().Format(time.RFC3339), Valid: true}
	}
	status := a.Status
	if status == "" {
		status = ApprovalPending
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO approval_requests (id, action_type, description, risk_level, status, reviewed_by, reviewed_at, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET action_type = excluded.action_type, description = excluded.description, risk_level = excluded.risk_level,
			status = excluded.status, reviewed_by = excluded.reviewed_by, reviewed_at = excluded.reviewed_at, payload = excluded.payload, created_at = excluded.created_at`,
		a.ID, a.ActionType, a.Description, string(a.RiskLevel), string(status), a.ReviewedBy, reviewedAt, a.Payload, a.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApproval(row rowScanner) (ApprovalRequest, error) {
	var a ApprovalRequest
	var reviewedAt sql.NullString
	var createdAt string
	if err := row.Scan(&a.ID, &a.ActionType, &a.Description, &a.RiskLevel, &a.Status, &a.ReviewedBy, &reviewedAt, &a.Payload, &createdAt); err != nil {
		return ApprovalRequest{}, err
	}
	if reviewedAt.Valid {
		t := parseStoredTime(reviewedAt.String)
		a.ReviewedAt = &t
	}
	a.CreatedAt = parseStoredTime(createdAt)
	return a, nil
}

func parseStoredTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
