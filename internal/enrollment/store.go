// Package enrollment persists one reference face embedding per user.
package enrollment

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"verid/internal/config"
	"verid/internal/facematch"
	"verid/internal/services"
)

//go:embed schema.sql
var schemaSQL string

// Record is one persisted enrollment.
type Record struct {
	UserID    string
	Embedding facematch.Embedding
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store manages enrollment persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the verification database and ensures the
// enrollments table exists.
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
		return nil, fmt.Errorf("create enrollments schema: %w", err)
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

// Put inserts or replaces the enrollment for a user. Re-enrolling overwrites
// the previous embedding but keeps the original creation time.
func (s *Store) Put(ctx context.Context, userID string, embedding facematch.Embedding) error {
	if userID == "" {
		return services.Wrap(services.ErrValidation, "enrollment", "put", "user id is required", nil)
	}
	if len(embedding) == 0 {
		return services.Wrap(services.ErrValidation, "enrollment", "put", "embedding is empty", nil)
	}

	payload, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("marshal embedding: %w", err)
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO enrollments (user_id, embedding_json, created_at, updated_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(user_id) DO UPDATE SET embedding_json = excluded.embedding_json, updated_at = excluded.updated_at`,
		userID,
		string(payload),
		timestamp,
		timestamp,
	)
	if err != nil {
		return services.Wrap(services.ErrStore, "enrollment", "put", "insert enrollment", err)
	}
	return nil
}

// Get fetches a user's enrollment. A missing enrollment returns nil without
// error; the caller decides whether that is a failure.
func (s *Store) Get(ctx context.Context, userID string) (*Record, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT user_id, embedding_json, created_at, updated_at FROM enrollments WHERE user_id = ?`,
		userID,
	)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, services.Wrap(services.ErrStore, "enrollment", "get", "get enrollment", err)
	}
	return record, nil
}

// List returns all enrollments ordered by user id.
func (s *Store) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT user_id, embedding_json, created_at, updated_at FROM enrollments ORDER BY user_id`,
	)
	if err != nil {
		return nil, services.Wrap(services.ErrStore, "enrollment", "list", "list enrollments", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Delete removes a user's enrollment and reports whether one existed.
func (s *Store) Delete(ctx context.Context, userID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM enrollments WHERE user_id = ?`, userID)
	if err != nil {
		return false, services.Wrap(services.ErrStore, "enrollment", "delete", "delete enrollment", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		userID     string
		payload    string
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(&userID, &payload, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	var embedding facematch.Embedding
	if err := json.Unmarshal([]byte(payload), &embedding); err != nil {
		return nil, fmt.Errorf("unmarshal embedding for %s: %w", userID, err)
	}

	record := &Record{UserID: userID, Embedding: embedding}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		record.CreatedAt = created
	}
	if updated, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		record.UpdatedAt = updated
	}
	return record, nil
}
