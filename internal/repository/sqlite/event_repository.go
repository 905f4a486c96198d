package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"event-tracker/internal/domain"
	"event-tracker/internal/repository"
)

// Names stay unique across deleted rows as well, so a soft-deleted name cannot be reused.
const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	event_name TEXT NOT NULL UNIQUE,
	event_day INTEGER NOT NULL,
	event_month INTEGER NOT NULL,
	event_year INTEGER NOT NULL,
	is_religious BOOLEAN NOT NULL DEFAULT 0,
	deleted BOOLEAN NOT NULL DEFAULT 0
);
`

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createEventsTable); err != nil {
		return fmt.Errorf("create events table: %w", err)
	}
	return nil
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO events (event_name, event_day, event_month, event_year, is_religious)
VALUES (?, ?, ?, ?, ?)`,
		event.Name,
		event.Day,
		event.Month,
		event.Year,
		event.IsReligious,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert event %q: %w", event.Name, domain.ErrDuplicateEventName)
		}
		return 0, storageErr("insert event", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("event last insert id", err)
	}
	event.ID = id
	event.Deleted = false
	return id, nil
}

// Get returns the row regardless of its deleted flag.
func (r *EventRepository) Get(ctx context.Context, id int64) (*domain.Event, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, event_name, event_day, event_month, event_year, is_religious, deleted
FROM events
WHERE id = ?`,
		id,
	)
	return scanEvent(row)
}

func (r *EventRepository) ListActive(ctx context.Context) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, event_name, event_day, event_month, event_year, is_religious, deleted
FROM events
WHERE deleted = 0
ORDER BY id ASC`)
	if err != nil {
		return nil, storageErr("query events", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate events", err)
	}
	return events, nil
}

// SoftDelete flips deleted with a conditional update so that only one caller can win.
// When nothing changed, the row is inspected in the same transaction to tell a missing
// event from one that was already deleted.
func (r *EventRepository) SoftDelete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin tx", err)
	}
	defer tx.Rollback() // safe no-op on commit

	res, err := tx.ExecContext(ctx, `UPDATE events SET deleted = 1 WHERE id = ? AND deleted = 0`, id)
	if err != nil {
		return storageErr("soft delete event", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return storageErr("soft delete rows affected", err)
	}

	if aff == 0 {
		if _, err := lookupDeleted(ctx, tx, id); err != nil {
			return err
		}
		return fmt.Errorf("event %d: %w", id, domain.ErrAlreadyDeleted)
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit soft delete", err)
	}
	return nil
}

func (r *EventRepository) UpdateDate(ctx context.Context, id int64, day, month, year int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin tx", err)
	}
	defer tx.Rollback()

	deleted, err := lookupDeleted(ctx, tx, id)
	if err != nil {
		return err
	}
	if deleted {
		return fmt.Errorf("event %d: %w", id, domain.ErrEventDeleted)
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE events
SET event_day = ?, event_month = ?, event_year = ?
WHERE id = ?`,
		day,
		month,
		year,
		id,
	); err != nil {
		return storageErr("update event date", err)
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit event date", err)
	}
	return nil
}

func lookupDeleted(ctx context.Context, tx *sql.Tx, id int64) (bool, error) {
	var deleted bool
	err := tx.QueryRowContext(ctx, `SELECT deleted FROM events WHERE id = ?`, id).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("event %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return false, storageErr("read event state", err)
	}
	return deleted, nil
}

func scanEvent(scanner interface {
	Scan(dest ...any) error
}) (*domain.Event, error) {
	var event domain.Event
	if err := scanner.Scan(
		&event.ID,
		&event.Name,
		&event.Day,
		&event.Month,
		&event.Year,
		&event.IsReligious,
		&event.Deleted,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storageErr("scan event", err)
	}
	return &event, nil
}
