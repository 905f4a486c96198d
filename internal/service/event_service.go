package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"event-tracker/internal/domain"
	"event-tracker/internal/repository"
)

// EventService coordinates calendar event operations backed by the event repository.
type EventService interface {
	AddEvent(ctx context.Context, in domain.NewEvent) (*domain.Event, error)
	SoftDeleteEvent(ctx context.Context, id int64) error
	GetEvent(ctx context.Context, id int64) (*domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	UpdateEventDate(ctx context.Context, id int64, day, month, year int) (*domain.Event, error)
	// DaysUntil counts calendar days from today to the event date. Past dates are negative.
	DaysUntil(ctx context.Context, id int64) (int, error)
}

// EventOption customizes the event service.
type EventOption func(*eventService)

// WithClock overrides the source of the current date.
func WithClock(now func() time.Time) EventOption {
	return func(s *eventService) {
		if now != nil {
			s.now = now
		}
	}
}

type eventService struct {
	events repository.EventRepository
	logger *logrus.Logger
	now    func() time.Time
}

func NewEventService(events repository.EventRepository, logger *logrus.Logger, opts ...EventOption) EventService {
	if logger == nil {
		logger = logrus.New()
	}
	s := &eventService{
		events: events,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *eventService) AddEvent(ctx context.Context, in domain.NewEvent) (*domain.Event, error) {
	name := in.Name
	if name == "" {
		return nil, fmt.Errorf("event name is required: %w", domain.ErrInvalidInput)
	}
	if err := validateDate(in.Day, in.Month, in.Year); err != nil {
		return nil, err
	}

	event := &domain.Event{
		Name:        name,
		Day:         in.Day,
		Month:       in.Month,
		Year:        in.Year,
		IsReligious: in.IsReligious,
	}
	if _, err := s.events.Create(ctx, event); err != nil {
		if errors.Is(err, domain.ErrDuplicateEventName) {
			s.logger.WithField("event_name", name).Warn("duplicate event name")
		} else {
			s.logger.WithField("event_name", name).Errorf("add event: %v", err)
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"event_id": event.ID, "event_name": name}).Info("event added")
	return event, nil
}

func (s *eventService) SoftDeleteEvent(ctx context.Context, id int64) error {
	logger := s.logger.WithField("event_id", id)
	if err := s.events.SoftDelete(ctx, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			logger.Info("event not found")
		case errors.Is(err, domain.ErrAlreadyDeleted):
			logger.Info("event already deleted")
		default:
			logger.Errorf("soft delete event: %v", err)
		}
		return err
	}
	logger.Info("event marked as deleted")
	return nil
}

func (s *eventService) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	event, err := s.events.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("event %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	if event.Deleted {
		return nil, fmt.Errorf("event %d: %w", id, domain.ErrEventDeleted)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.events.ListActive(ctx)
	if err != nil {
		s.logger.Errorf("list events: %v", err)
		return nil, err
	}
	if events == nil {
		events = []domain.Event{}
	}
	return events, nil
}

func (s *eventService) UpdateEventDate(ctx context.Context, id int64, day, month, year int) (*domain.Event, error) {
	if err := validateDate(day, month, year); err != nil {
		return nil, err
	}
	if err := s.events.UpdateDate(ctx, id, day, month, year); err != nil {
		return nil, err
	}
	s.logger.WithField("event_id", id).Infof("event date set to %d/%d/%d", day, month, year)
	return s.GetEvent(ctx, id)
}

func (s *eventService) DaysUntil(ctx context.Context, id int64) (int, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return 0, err
	}

	target := time.Date(event.Year, time.Month(event.Month), event.Day, 0, 0, 0, 0, time.UTC)
	if target.Year() != event.Year || int(target.Month()) != event.Month || target.Day() != event.Day {
		return 0, fmt.Errorf("event %d: %d/%d/%d is not a calendar date: %w",
			id, event.Day, event.Month, event.Year, domain.ErrInvalidDate)
	}

	y, m, d := s.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int((target.Unix() - today.Unix()) / secondsPerDay), nil
}

const secondsPerDay = 24 * 60 * 60

func validateDate(day, month, year int) error {
	if day <= 0 {
		return fmt.Errorf("day %d must be positive: %w", day, domain.ErrInvalidDate)
	}
	if month <= 0 {
		return fmt.Errorf("month %d must be positive: %w", month, domain.ErrInvalidDate)
	}
	if year <= 0 {
		return fmt.Errorf("year %d must be positive: %w", year, domain.ErrInvalidDate)
	}
	return nil
}
