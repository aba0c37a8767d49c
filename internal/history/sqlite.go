package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/models"
)

const defaultListLimit = 100

type SQLiteStore struct {
	sql *sql.DB
}

func Open(path string) (*SQLiteStore, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS injection_events (
  id          INTEGER PRIMARY KEY,
  kind        TEXT NOT NULL,
  receiver    TEXT NOT NULL DEFAULT '',
  amount      TEXT NOT NULL DEFAULT '',
  period      INTEGER NOT NULL DEFAULT 0,
  detail      TEXT NOT NULL DEFAULT '',
  occurred_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_receiver ON injection_events(receiver, id);
    `); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &SQLiteStore{sql: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.sql == nil {
		return nil
	}
	return s.sql.Close()
}

func (s *SQLiteStore) Record(ctx context.Context, e models.Event) error {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	_, err := s.sql.ExecContext(ctx,
		`INSERT INTO injection_events (kind, receiver, amount, period, detail, occurred_at) VALUES (?, ?, ?, ?, ?, ?)`,
		string(e.Kind), e.Receiver.String(), e.Amount, e.Period, e.Detail, e.OccurredAt.UnixNano())
	return err
}

func (s *SQLiteStore) List(ctx context.Context, receiver models.Address, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var (
		rows *sql.Rows
		err  error
	)
	if receiver == "" {
		rows, err = s.sql.QueryContext(ctx,
			`SELECT id, kind, receiver, amount, period, detail, occurred_at FROM injection_events ORDER BY id DESC LIMIT ?`, limit)
	} else {
		rows, err = s.sql.QueryContext(ctx,
			`SELECT id, kind, receiver, amount, period, detail, occurred_at FROM injection_events WHERE receiver = ? ORDER BY id DESC LIMIT ?`,
			receiver.String(), limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		var (
			e          models.Event
			kind       string
			receiver   string
			occurredAt int64
		)
		if err := rows.Scan(&e.ID, &kind, &receiver, &e.Amount, &e.Period, &e.Detail, &occurredAt); err != nil {
			return nil, err
		}
		e.OccurredAt = time.Unix(0, occurredAt).UTC()
		e.Kind = models.EventKind(kind)
		e.Receiver = models.Address(receiver)
		events = append(events, e)
	}
	return events, rows.Err()
}
