// Package astrology fetches the current moon phase and planetary positions
// from the astrology API.
package astrology

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/rewired-gh/astrocal/internal/logger"
	"github.com/rewired-gh/astrocal/internal/models"
)

var (
	// ErrIncompleteSnapshot is returned when a response lacks the moon phase or planets.
	ErrIncompleteSnapshot = errors.New("incomplete astrology payload")
	// ErrStatus is returned for non-2xx responses.
	ErrStatus = errors.New("unexpected status")
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 10 * time.Second

// Client provides access to the astrology API
type Client struct {
	apiBaseURL string
	apiKey     string
	httpClient *http.Client
	config     ClientConfig
	now        func() time.Time
}

// ClientConfig holds HTTP client configuration
type ClientConfig struct {
	MaxRetries          int
	RetryDelayBase      time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
}

// MoonPhaseResponse is the /moonphase payload. Illumination is a percentage.
type MoonPhaseResponse struct {
	PhaseName    string  `json:"phaseName"`
	SignName     string  `json:"signName"`
	Illumination float64 `json:"illumination"`
	PhaseEmoji   string  `json:"phaseEmoji"`
	NextPhaseDt  string  `json:"nextPhaseDt"`
}

// PlanetPosition is one body in the /planets/positions payload.
type PlanetPosition struct {
	SignName     string  `json:"signName"`
	Position     float64 `json:"position"`
	IsRetrograde bool    `json:"isRetrograde"`
	Longitude    float64 `json:"longitude,omitempty"`
}

// PlanetsResponse is the /planets/positions payload, keyed by capitalized body name.
type PlanetsResponse struct {
	Planets map[string]PlanetPosition `json:"planets"`
}

// NewClient creates a new astrology API client
func NewClient(apiBaseURL, apiKey string, timeout time.Duration, config ClientConfig) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	if config.RetryDelayBase <= 0 {
		config.RetryDelayBase = time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
	}

	return &Client{
		apiBaseURL: strings.TrimRight(apiBaseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		config: config,
		now:    time.Now,
	}
}

// FetchCurrentMoonState retrieves the current moon phase, sign and illumination
func (c *Client) FetchCurrentMoonState(ctx context.Context) (*models.MoonState, error) {
	var resp MoonPhaseResponse
	if err := c.getJSON(ctx, "/moonphase", &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch moon phase: %w", err)
	}
	if resp.PhaseName == "" {
		return nil, fmt.Errorf("%w: moon phase has no phaseName", ErrIncompleteSnapshot)
	}

	phase, ok := models.ParsePhase(resp.PhaseName)
	if !ok {
		logger.Warn("Unknown moon phase %q from provider, reading as %s", resp.PhaseName, phase)
	}
	sign, ok := models.ParseSign(resp.SignName)
	if !ok {
		logger.Warn("Unknown moon sign %q from provider, reading as %s", resp.SignName, sign)
	}

	emoji := resp.PhaseEmoji
	if emoji == "" {
		emoji = phase.Emoji()
	}

	return &models.MoonState{
		Phase:        phase,
		Sign:         sign,
		Illumination: resp.Illumination / 100,
		PhaseEmoji:   emoji,
		Date:         c.now(),
	}, nil
}

// FetchPlanetaryPositions retrieves the current sign and degree of each body.
// Bodies are keyed by lower-cased name; bodies with an unknown sign are skipped.
func (c *Client) FetchPlanetaryPositions(ctx context.Context) (models.PlanetarySnapshot, error) {
	var resp PlanetsResponse
	if err := c.getJSON(ctx, "/planets/positions", &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch planetary positions: %w", err)
	}

	snapshot := make(models.PlanetarySnapshot, len(resp.Planets))
	for name, pos := range resp.Planets {
		sign, ok := models.ParseSign(pos.SignName)
		if !ok {
			logger.Warn("Skipping %s: unknown sign %q", name, pos.SignName)
			continue
		}
		snapshot[models.Planet(strings.ToLower(name))] = models.PlanetState{
			Sign:         sign,
			Degree:       pos.Position,
			IsRetrograde: pos.IsRetrograde,
		}
	}

	if len(snapshot) == 0 {
		return nil, fmt.Errorf("%w: no planetary positions", ErrIncompleteSnapshot)
	}
	return snapshot, nil
}

// getJSON performs a GET with retry and decodes the body into out.
// Transport errors and 5xx responses are retried with exponential backoff;
// other non-2xx responses fail immediately.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	url := c.apiBaseURL + path

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.config.RetryDelayBase
	b.MaxInterval = 30 * c.config.RetryDelayBase

	attempt := 0
	operation := func() (*http.Response, error) {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("x-api-key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			logger.Debug("Request %s failed (attempt %d/%d): %v", path, attempt, c.config.MaxRetries, err)
			return nil, err
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			logger.Debug("Request %s returned %d (attempt %d/%d)", path, resp.StatusCode, attempt, c.config.MaxRetries)
			return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, backoff.Permanent(fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode))
		}
		return resp, nil
	}

	resp, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(c.config.MaxRetries)))
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
