package stats

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/outbound"
)

// Config holds statistics client configuration.
type Config struct {
	// Endpoint is the service base URL. Empty disables refreshes.
	Endpoint         string
	Timeout          time.Duration
	FailureThreshold uint32
	BreakerTimeout   time.Duration
}

// Client asks the event-statistics service to recompute an event's numbers.
// Calls go through a circuit breaker so a failing service is not hammered
// once per reconcile tick.
type Client struct {
	endpoint string
	timeout  time.Duration
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker[struct{}]
	logger   *zap.Logger
}

// NewClient creates a new statistics client.
func NewClient(cfg Config, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = 30 * time.Second
	}
	logger = logger.Named("stats")

	settings := gobreaker.Settings{
		Name:        "event-stats",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		timeout:  cfg.Timeout,
		http:     httpClient,
		breaker:  gobreaker.NewCircuitBreaker[struct{}](settings),
		logger:   logger,
	}
}

// RefreshEventStats implements outbound.EventStatsPort.
func (c *Client) RefreshEventStats(ctx context.Context, eventID uuid.UUID) error {
	if c.endpoint == "" {
		return nil
	}
	_, err := c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, c.refresh(ctx, eventID)
	})
	return err
}

// State returns the current breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

func (c *Client) refresh(ctx context.Context, eventID uuid.UUID) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	url := fmt.Sprintf("%s/events/%s/stats/refresh", c.endpoint, eventID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("refresh event stats: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 300 {
		return fmt.Errorf("refresh event stats: unexpected status %d", resp.StatusCode)
	}
	return nil
}

var _ outbound.EventStatsPort = (*Client)(nil)
