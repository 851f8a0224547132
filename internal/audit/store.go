// Package audit persists verification decisions, session lifecycle records,
// and extracted document fields for later review. Nothing in this package
// ever stores raw frames or embeddings.
package audit

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"verid/internal/config"
	"verid/internal/docextract"
	"verid/internal/services"
)

//go:embed schema.sql
var schemaSQL string

// Session lifecycle statuses.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
)

// DocumentPending is the verification status assigned to freshly extracted
// documents awaiting manual review.
const DocumentPending = "pending"

// Decision is one audited verification outcome.
type Decision struct {
	ID         string
	SessionID  string
	UserID     string
	Outcome    string
	Confidence float64
	CreatedAt  time.Time
}

// SessionRecord mirrors one session's lifecycle in durable storage.
type SessionRecord struct {
	ID        string
	UserID    string
	Status    string
	StartedAt time.Time
	EndedAt   *time.Time
}

// DocumentRecord is one extracted document awaiting review.
type DocumentRecord struct {
	ID        string
	UserID    string
	Type      docextract.DocumentType
	Number    string
	Name      string
	DOB       string
	Address   string
	Status    string
	CreatedAt time.Time
}

// Store manages audit persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the verification database and ensures the
// audit tables exist.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create audit schema: %w", err)
	}
	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordDecision saves one verification outcome with a generated identifier
// and timestamp and returns the stored row.
func (s *Store) RecordDecision(ctx context.Context, sessionID, userID, outcome string, confidence float64) (*Decision, error) {
	decision := &Decision{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		UserID:     userID,
		Outcome:    outcome,
		Confidence: confidence,
		CreatedAt:  time.Now().UTC(),
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO verification_audit (id, session_id, user_id, outcome, confidence, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		decision.ID,
		decision.SessionID,
		decision.UserID,
		decision.Outcome,
		decision.Confidence,
		decision.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, services.Wrap(services.ErrStore, "audit", "record", "insert decision", err)
	}
	return decision, nil
}

// Decisions returns audited outcomes newest first, optionally filtered by
// session. A limit <= 0 returns everything.
func (s *Store) Decisions(ctx context.Context, sessionID string, limit int) ([]*Decision, error) {
	query := `SELECT id, session_id, user_id, outcome, confidence, created_at FROM verification_audit`
	args := []any{}
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, services.Wrap(services.ErrStore, "audit", "list", "list decisions", err)
	}
	defer rows.Close()

	var decisions []*Decision
	for rows.Next() {
		var (
			d          Decision
			createdRaw string
		)
		if err := rows.Scan(&d.ID, &d.SessionID, &d.UserID, &d.Outcome, &d.Confidence, &createdRaw); err != nil {
			return nil, err
		}
		if created, parseErr := time.Parse(time.RFC3339Nano, createdRaw); parseErr == nil {
			d.CreatedAt = created
		}
		decisions = append(decisions, &d)
	}
	return decisions, rows.Err()
}

// StartSession records a new active session.
func (s *Store) StartSession(ctx context.Context, id, userID string) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO sessions (id, user_id, status, started_at) VALUES (?, ?, ?, ?)`,
		id,
		userID,
		SessionActive,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return services.Wrap(services.ErrStore, "audit", "start-session", "insert session", err)
	}
	return nil
}

// EndSession marks a session completed. Ending an unknown session is a no-op.
func (s *Store) EndSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE sessions SET status = ?, ended_at = ? WHERE id = ? AND status = ?`,
		SessionCompleted,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
		SessionActive,
	)
	if err != nil {
		return services.Wrap(services.ErrStore, "audit", "end-session", "update session", err)
	}
	return nil
}

// Sessions returns session records newest first.
func (s *Store) Sessions(ctx context.Context) ([]*SessionRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, user_id, status, started_at, ended_at FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, services.Wrap(services.ErrStore, "audit", "list-sessions", "list sessions", err)
	}
	defer rows.Close()

	var records []*SessionRecord
	for rows.Next() {
		var (
			r          SessionRecord
			startedRaw string
			endedRaw   sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.UserID, &r.Status, &startedRaw, &endedRaw); err != nil {
			return nil, err
		}
		if started, parseErr := time.Parse(time.RFC3339Nano, startedRaw); parseErr == nil {
			r.StartedAt = started
		}
		if endedRaw.Valid {
			if ended, parseErr := time.Parse(time.RFC3339Nano, endedRaw.String); parseErr == nil {
				r.EndedAt = &ended
			}
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}

// GetSession fetches one session record, or nil when unknown.
func (s *Store) GetSession(ctx context.Context, id string) (*SessionRecord, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, user_id, status, started_at, ended_at FROM sessions WHERE id = ?`,
		id,
	)
	var (
		r          SessionRecord
		startedRaw string
		endedRaw   sql.NullString
	)
	err := row.Scan(&r.ID, &r.UserID, &r.Status, &startedRaw, &endedRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, services.Wrap(services.ErrStore, "audit", "get-session", "get session", err)
	}
	if started, parseErr := time.Parse(time.RFC3339Nano, startedRaw); parseErr == nil {
		r.StartedAt = started
	}
	if endedRaw.Valid {
		if ended, parseErr := time.Parse(time.RFC3339Nano, endedRaw.String); parseErr == nil {
			r.EndedAt = &ended
		}
	}
	return &r, nil
}

// SaveDocument persists one extracted document with pending review status and
// returns the stored row. Absent fields become NULL, never empty strings.
func (s *Store) SaveDocument(ctx context.Context, userID string, extracted docextract.Result) (*DocumentRecord, error) {
	record := &DocumentRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      extracted.Type,
		Number:    extracted.Fields.Number.Value,
		Name:      extracted.Fields.Name.Value,
		DOB:       extracted.Fields.DOB.Value,
		Address:   extracted.Fields.Address.Value,
		Status:    DocumentPending,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO documents (
            id, user_id, document_type, document_number, holder_name,
            date_of_birth, address, verification_status, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.UserID,
		string(record.Type),
		nullableField(extracted.Fields.Number),
		nullableField(extracted.Fields.Name),
		nullableField(extracted.Fields.DOB),
		nullableField(extracted.Fields.Address),
		record.Status,
		record.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, services.Wrap(services.ErrStore, "audit", "save-document", "insert document", err)
	}
	return record, nil
}

// Documents returns extracted documents newest first, optionally filtered by
// user.
func (s *Store) Documents(ctx context.Context, userID string) ([]*DocumentRecord, error) {
	query := `SELECT id, user_id, document_type, document_number, holder_name,
        date_of_birth, address, verification_status, created_at FROM documents`
	args := []any{}
	if userID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, services.Wrap(services.ErrStore, "audit", "list-documents", "list documents", err)
	}
	defer rows.Close()

	var records []*DocumentRecord
	for rows.Next() {
		var (
			r          DocumentRecord
			docType    string
			number     sql.NullString
			name       sql.NullString
			dob        sql.NullString
			address    sql.NullString
			createdRaw string
		)
		if err := rows.Scan(&r.ID, &r.UserID, &docType, &number, &name, &dob, &address, &r.Status, &createdRaw); err != nil {
			return nil, err
		}
		r.Type = docextract.DocumentType(docType)
		r.Number = number.String
		r.Name = name.String
		r.DOB = dob.String
		r.Address = address.String
		if created, parseErr := time.Parse(time.RFC3339Nano, createdRaw); parseErr == nil {
			r.CreatedAt = created
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}

func nullableField(f docextract.Field) any {
	if !f.Present {
		return nil
	}
	return f.Value
}
