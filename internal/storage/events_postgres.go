package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ EventLog = (*PostgresEventLog)(nil)

type PostgresEventLog struct {
	pool *pgxpool.Pool
}

func NewPostgresEventLog(pool *pgxpool.Pool) *PostgresEventLog {
	return &PostgresEventLog{pool: pool}
}

func (s *PostgresEventLog) Record(ctx context.Context, rec EventRecord) (bool, error) {
	if rec.EventID == "" {
		return false, ErrEmptyEventID
	}

	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO webhook_events (event_id, event_type, from_mid, content_type, op_type, payload, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (event_id) DO NOTHING
		RETURNING id
	`, rec.EventID, rec.EventType, rec.From, rec.ContentType, rec.OpType, payloadText(rec.Payload), rec.ReceivedAt).Scan(&id)
	// no row comes back when ON CONFLICT DO NOTHING triggers
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert webhook event: %w", err)
	}
	return true, nil
}

func (s *PostgresEventLog) Recent(ctx context.Context, limit int) ([]EventRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, event_id, event_type, from_mid, content_type, op_type, payload::text, received_at
		FROM webhook_events
		ORDER BY received_at DESC, id DESC
		LIMIT $1
	`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query webhook events: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (EventRecord, error) {
		var (
			rec     EventRecord
			payload string
		)
		err := row.Scan(&rec.ID, &rec.EventID, &rec.EventType, &rec.From, &rec.ContentType, &rec.OpType, &payload, &rec.ReceivedAt)
		rec.Payload = []byte(payload)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan webhook events: %w", err)
	}
	return records, nil
}

func (s *PostgresEventLog) Close() error {
	s.pool.Close()
	return nil
}
