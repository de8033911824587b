package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/garrettladley/linebot/internal/migrations/sqlite"
)

var _ EventLog = (*SQLiteEventLog)(nil)

type SQLiteEventLog struct {
	db *sql.DB
}

// OpenSQLiteEventLog opens (creating if needed) the database at path and
// applies pending migrations.
func OpenSQLiteEventLog(ctx context.Context, path string) (*SQLiteEventLog, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer keeps WAL mode free of SQLITE_BUSY under concurrent webhooks
	db.SetMaxOpenConns(1)

	if err := sqlite.Apply(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLiteEventLog{db: db}, nil
}

func (s *SQLiteEventLog) Record(ctx context.Context, rec EventRecord) (bool, error) {
	if rec.EventID == "" {
		return false, ErrEmptyEventID
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO webhook_events (event_id, event_type, from_mid, content_type, op_type, payload, received_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.EventID, rec.EventType, rec.From, rec.ContentType, rec.OpType, payloadText(rec.Payload), rec.ReceivedAt.UTC())
	if err != nil {
		return false, fmt.Errorf("insert webhook event: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert webhook event: %w", err)
	}
	return n == 1, nil
}

func (s *SQLiteEventLog) Recent(ctx context.Context, limit int) ([]EventRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_id, event_type, from_mid, content_type, op_type, payload, received_at
		FROM webhook_events
		ORDER BY received_at DESC, id DESC
		LIMIT ?
	`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query webhook events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []EventRecord
	for rows.Next() {
		var (
			rec        EventRecord
			payload    string
			receivedAt time.Time
		)
		if err := rows.Scan(&rec.ID, &rec.EventID, &rec.EventType, &rec.From, &rec.ContentType, &rec.OpType, &payload, &receivedAt); err != nil {
			return nil, fmt.Errorf("scan webhook event: %w", err)
		}
		rec.Payload = []byte(payload)
		rec.ReceivedAt = receivedAt
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate webhook events: %w", err)
	}
	return records, nil
}

func (s *SQLiteEventLog) Close() error {
	return s.db.Close()
}
