package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"event-tracker/internal/domain"
	"event-tracker/internal/storage"
)

// ExportService writes snapshots of the active events to object storage.
type ExportService interface {
	ExportEvents(ctx context.Context) (string, error)
}

type ExportOptions struct {
	Bucket    string
	KeyPrefix string
	Now       func() time.Time
}

type exportService struct {
	events  EventService
	storage storage.Service
	opts    ExportOptions
	logger  *logrus.Logger
}

func NewExportService(events EventService, store storage.Service, opts ExportOptions, logger *logrus.Logger) ExportService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &exportService{
		events:  events,
		storage: store,
		opts:    opts,
		logger:  logger,
	}
}

type eventSnapshot struct {
	ExportedAt string          `json:"exported_at"`
	Count      int             `json:"count"`
	Events     []snapshotEvent `json:"events"`
}

type snapshotEvent struct {
	ID          int64  `json:"id"`
	Name        string `json:"event_name"`
	Day         int    `json:"event_day"`
	Month       int    `json:"event_month"`
	Year        int    `json:"event_year"`
	IsReligious bool   `json:"is_religious"`
}

func (s *exportService) ExportEvents(ctx context.Context) (string, error) {
	events, err := s.events.ListEvents(ctx)
	if err != nil {
		return "", err
	}

	now := s.opts.Now().UTC()
	snap := eventSnapshot{
		ExportedAt: now.Format(time.RFC3339),
		Count:      len(events),
		Events:     make([]snapshotEvent, len(events)),
	}
	for i, e := range events {
		snap.Events[i] = toSnapshotEvent(e)
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	key := fmt.Sprintf("events-%s.json", now.Format("20060102T150405Z"))
	if prefix := strings.Trim(s.opts.KeyPrefix, "/"); prefix != "" {
		key = prefix + "/" + key
	}

	location, err := s.storage.PutObject(ctx, bytes.NewReader(payload), storage.PutOptions{
		Bucket:      s.opts.Bucket,
		Key:         key,
		ContentType: "application/json",
	})
	if err != nil {
		s.logger.Errorf("export events: %v", err)
		return "", err
	}

	s.logger.WithField("count", len(events)).Infof("events exported to %s", location)
	return location, nil
}

func toSnapshotEvent(e domain.Event) snapshotEvent {
	return snapshotEvent{
		ID:          e.ID,
		Name:        e.Name,
		Day:         e.Day,
		Month:       e.Month,
		Year:        e.Year,
		IsReligious: e.IsReligious,
	}
}
