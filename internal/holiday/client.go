package holiday

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// ErrTimeout is returned when the holiday service does not answer in time.
	ErrTimeout = errors.New("holiday service timed out")
	// ErrUpstream covers transport failures and unexpected statuses.
	ErrUpstream = errors.New("holiday service failed")
)

const (
	DefaultBaseURL = "https://date.nager.at"
	DefaultCountry = "US"
	DefaultTimeout = 5 * time.Second
)

type Config struct {
	BaseURL string
	Country string
	Timeout time.Duration
	Logger  *logrus.Logger
}

// Client asks the Nager.Date API whether today is a public holiday.
type Client struct {
	baseURL string
	country string
	http    *http.Client
	logger  *logrus.Logger
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Country == "" {
		cfg.Country = DefaultCountry
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		country: strings.ToUpper(cfg.Country),
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  cfg.Logger,
	}
}

// IsTodayHoliday maps 200 to true and 204 to false. No retries.
func (c *Client) IsTodayHoliday(ctx context.Context) (bool, error) {
	url := fmt.Sprintf("%s/api/v3/IsTodayPublicHoliday/%s", c.baseURL, c.country)
	logger := c.logger.WithField("country", c.country)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w: %w", ErrUpstream, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			logger.Error("holiday lookup timed out")
			return false, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		logger.Errorf("holiday lookup failed: %v", err)
		return false, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNoContent:
		return false, nil
	default:
		logger.Errorf("holiday lookup returned status %d", resp.StatusCode)
		return false, fmt.Errorf("%w: unexpected status %d", ErrUpstream, resp.StatusCode)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
