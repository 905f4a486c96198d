package repository

import (
	"context"

	"event-tracker/internal/domain"
)

// EventRepository exposes persistence operations for calendar events.
type EventRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, event *domain.Event) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Event, error)
	ListActive(ctx context.Context) ([]domain.Event, error)
	SoftDelete(ctx context.Context, id int64) error
	UpdateDate(ctx context.Context, id int64, day, month, year int) error
}
