package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added flow column to purchase_events
const currentSchemaVersion = 1

// Kind identifies a purchase lifecycle event.
type Kind string

const (
	KindSubmitted      Kind = "submitted"
	KindApproved       Kind = "approved"
	KindRejected       Kind = "rejected"
	KindProductAdded   Kind = "product_added"
	KindProductDeleted Kind = "product_deleted"
	KindBuyerRemoved   Kind = "buyer_removed"
	KindBuyersCleared  Kind = "buyers_cleared"
)

// Entry is one journal row.
type Entry struct {
	Seq       int64     `json:"seq"`
	Kind      Kind      `json:"kind"`
	ProductID string    `json:"product_id"`
	UserID    int64     `json:"user_id,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Flow      string    `json:"flow,omitempty"`
	At        time.Time `json:"at"`
}

// Journal stores purchase events in SQLite.
type Journal struct {
	db *sql.DB
}

// Open creates or opens a journal database at the given path.
// Applies pragmas and migrations; safe to call on an existing file.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to journal: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record appends an entry. Seq is assigned by the database; a zero At is
// replaced by the current time.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO purchase_events (kind, product_id, user_id, request_id, flow, at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		string(e.Kind),
		e.ProductID,
		e.UserID,
		e.RequestID,
		e.Flow,
		e.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record %s: %w", e.Kind, err)
	}
	return nil
}

// History returns the most recent entries for a product, oldest first.
// A non-positive limit defaults to 20.
func (j *Journal) History(ctx context.Context, productID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, kind, product_id, user_id, request_id, flow, at FROM (
			SELECT seq, kind, product_id, user_id, request_id, flow, at
			FROM purchase_events
			WHERE product_id = ?
			ORDER BY seq DESC
			LIMIT ?
		) ORDER BY seq ASC
	`, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e    Entry
			kind string
			at   string
		)
		if err := rows.Scan(&e.Seq, &kind, &e.ProductID, &e.UserID, &e.RequestID, &e.Flow, &at); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.Kind = Kind(kind)
		e.At, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("parse history time %q: %w", at, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and stamps the schema
// version.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}
