package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteStore struct {
	DB *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{DB: db}
}

func (s *SQLiteStore) Insert(ctx context.Context, event Event) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `
    INSERT INTO audit_events (actor, action, entity_type, entity_id, request_id, before_json, after_json, created_at)
    VALUES (?,?,?,?,?,?,?,?)
  `, event.Actor, event.Action, event.EntityType, event.EntityID, event.RequestID,
		nullText(event.Before), nullText(event.After), event.CreatedAt.UTC().Format(sqliteTimeLayout))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) Count(ctx context.Context, filter Filter) (int, error) {
	query, args := buildQuery("SELECT COUNT(1)", filter, sqlitePlaceholder)
	var total int
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *SQLiteStore) List(ctx context.Context, filter Filter, includeDetails bool, limit, offset int) ([]Event, error) {
	query, args := buildQuery("SELECT "+selectColumns(includeDetails), filter, sqlitePlaceholder)
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var evt Event
		var createdAt string
		var before, after sql.NullString
		dest := []any{&evt.ID, &evt.Actor, &evt.Action, &evt.EntityType, &evt.EntityID, &evt.RequestID, &createdAt}
		if includeDetails {
			dest = append(dest, &before, &after)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if evt.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("audit event %d: %w", evt.ID, err)
		}
		if before.Valid {
			evt.Before = []byte(before.String)
		}
		if after.Valid {
			evt.After = []byte(after.String)
		}
		out = append(out, evt)
	}
	return out, rows.Err()
}

func sqlitePlaceholder(int) string {
	return "?"
}

func nullText(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
