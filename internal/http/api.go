package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"event-tracker/internal/domain"
	"event-tracker/internal/holiday"
	"event-tracker/internal/service"
)

// HolidayChecker reports whether today is a public holiday.
type HolidayChecker interface {
	IsTodayHoliday(ctx context.Context) (bool, error)
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	accounts service.AccountService
	events   service.EventService
	holidays HolidayChecker
	exports  service.ExportService
	dbCheck  func(ctx context.Context) error
	tokens   *TokenIssuer
	logger   *logrus.Logger
}

// NewHandler builds the API handler. exports and tokens may be nil: export then answers
// 503 and event mutations are left unauthenticated.
func NewHandler(
	accounts service.AccountService,
	events service.EventService,
	holidays HolidayChecker,
	exports service.ExportService,
	dbCheck func(ctx context.Context) error,
	tokens *TokenIssuer,
	logger *logrus.Logger,
) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		accounts: accounts,
		events:   events,
		holidays: holidays,
		exports:  exports,
		dbCheck:  dbCheck,
		tokens:   tokens,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger), corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", h.health)
		api.GET("/db-check", h.checkDatabase)

		api.POST("/create-account", h.createAccount)
		api.POST("/login", h.login)
		api.POST("/update-password", h.updatePassword)

		api.GET("/events", h.listEvents)
		api.GET("/events/:id", h.getEvent)
		api.GET("/events/:id/days-until", h.daysUntil)
		api.GET("/holiday/today", h.holidayToday)

		protected := api.Group("", requireToken(h.tokens))
		protected.POST("/events", h.createEvent)
		protected.POST("/events/export", h.exportEvents)
		protected.DELETE("/events/:id", h.deleteEvent)
		protected.PUT("/events/:id/date", h.updateEventDate)
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type updatePasswordRequest struct {
	Username    string `json:"username"`
	NewPassword string `json:"new_password"`
}

type createEventRequest struct {
	Name        string `json:"event_name"`
	Day         int    `json:"event_day"`
	Month       int    `json:"event_month"`
	Year        int    `json:"event_year"`
	IsReligious bool   `json:"is_religious"`
}

type updateDateRequest struct {
	Day   int `json:"event_day"`
	Month int `json:"event_month"`
	Year  int `json:"event_year"`
}

type EventResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"event_name"`
	Day         int    `json:"event_day"`
	Month       int    `json:"event_month"`
	Year        int    `json:"event_year"`
	IsReligious bool   `json:"is_religious"`
	Deleted     bool   `json:"deleted"`
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *Handler) checkDatabase(c *gin.Context) {
	if h.dbCheck == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database check not configured"})
		return
	}
	if err := h.dbCheck(c.Request.Context()); err != nil {
		h.logger.Errorf("database check: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"database_status": "healthy"})
}

func (h *Handler) createAccount(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accounts.CreateAccount(c.Request.Context(), req.Username, req.Password); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "user": req.Username})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, err := h.accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Invalid username or password"})
		return
	}

	resp := gin.H{"status": "success", "message": "Login successful"}
	if h.tokens != nil {
		token, expiresAt, err := h.tokens.Issue(req.Username)
		if err != nil {
			writeError(c, err)
			return
		}
		resp["token"] = token
		resp["expires_at"] = expiresAt.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) updatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accounts.RotateCredential(c.Request.Context(), req.Username, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Password updated"})
}

func (h *Handler) createEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.events.AddEvent(c.Request.Context(), domain.NewEvent{
		Name:        req.Name,
		Day:         req.Day,
		Month:       req.Month,
		Year:        req.Year,
		IsReligious: req.IsReligious,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, eventToResponse(*event))
}

func (h *Handler) listEvents(c *gin.Context) {
	events, err := h.events.ListEvents(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]EventResponse, len(events))
	for i := range events {
		resp[i] = eventToResponse(events[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getEvent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	event, err := h.events.GetEvent(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, eventToResponse(*event))
}

func (h *Handler) daysUntil(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	days, err := h.events.DaysUntil(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "days_until": days})
}

func (h *Handler) deleteEvent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.events.SoftDeleteEvent(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) updateEventDate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.events.UpdateEventDate(c.Request.Context(), id, req.Day, req.Month, req.Year)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, eventToResponse(*event))
}

func (h *Handler) holidayToday(c *gin.Context) {
	if h.holidays == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "holiday lookup not configured"})
		return
	}

	isHoliday, err := h.holidays.IsTodayHoliday(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_holiday": isHoliday})
}

func (h *Handler) exportEvents(c *gin.Context) {
	if h.exports == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage service not configured"})
		return
	}

	location, err := h.exports.ExportEvents(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": location})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return 0, false
	}
	return id, true
}

// writeError is the single place where errors become status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidDate):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateUsername),
		errors.Is(err, domain.ErrDuplicateEventName),
		errors.Is(err, domain.ErrAlreadyDeleted):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrEventDeleted):
		status = http.StatusGone
	case errors.Is(err, holiday.ErrTimeout):
		status = http.StatusGatewayTimeout
	case errors.Is(err, holiday.ErrUpstream):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func eventToResponse(event domain.Event) EventResponse {
	return EventResponse{
		ID:          event.ID,
		Name:        event.Name,
		Day:         event.Day,
		Month:       event.Month,
		Year:        event.Year,
		IsReligious: event.IsReligious,
		Deleted:     event.Deleted,
	}
}
