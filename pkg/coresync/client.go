package coresync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const workoutLogEndpoint = "/v1/workouts/log"

// maxErrorBody caps how much of a failure response is kept for diagnostics.
const maxErrorBody = 4 << 10

// Config holds the connection settings for a Client.
type Config struct {
	// ServiceURL is the base URL of the CoreSync service, without a
	// trailing slash.
	ServiceURL string

	// APIToken is the pre-issued static token presented in X-API-Token.
	APIToken string

	// DefaultExercise is used for workouts that do not name an exercise.
	// Empty means DefaultExercise ("Push-ups").
	DefaultExercise string
}

// Client posts workout log entries to the CoreSync service.
type Client struct {
	cfg      Config
	client   HTTPClient
	logger   zerolog.Logger
	hostname string
	onLogged func(Workout, *LogResult)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
// Default is an *http.Client with a 15 second timeout.
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) { c.client = hc }
}

// WithLogger sets the logger for request diagnostics. Default is no output.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithResultHook registers a callback invoked after every accepted workout.
// The hook receives the workout as sent and the parsed service response.
func WithResultHook(hook func(Workout, *LogResult)) Option {
	return func(c *Client) { c.onLogged = hook }
}

// NewClient creates a Client for the given service.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.APIToken == "" {
		return nil, ErrMissingToken
	}
	if cfg.ServiceURL == "" {
		return nil, ErrMissingServiceURL
	}
	cfg.ServiceURL = strings.TrimRight(cfg.ServiceURL, "/")
	if cfg.DefaultExercise == "" {
		cfg.DefaultExercise = DefaultExercise
	}

	hostname, _ := os.Hostname()

	c := &Client{
		cfg:      cfg,
		client:   &http.Client{Timeout: 15 * time.Second},
		logger:   zerolog.Nop(),
		hostname: hostname,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// LogWorkout reports one workout session to the service.
//
// It fills in defaults for missing fields, issues a single POST, and
// returns the parsed response on HTTP 200. Any non-200 status yields a
// *StatusError; transport failures are returned wrapped. There are no
// retries.
func (c *Client) LogWorkout(ctx context.Context, w Workout) (*LogResult, error) {
	if w.ExerciseName == "" {
		w.ExerciseName = c.cfg.DefaultExercise
	}
	if w.Sets < 1 {
		w.Sets = 1
	}
	if w.Notes == "" {
		w.Notes = fmt.Sprintf("Auto-logged from pushlog - %s tracker", w.ExerciseName)
	}

	payload := logRequest{
		ExerciseName: w.ExerciseName,
		Reps:         w.Reps,
		Sets:         w.Sets,
		Notes:        w.Notes,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal workout: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ServiceURL+workoutLogEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("X-API-Token", c.cfg.APIToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-Hostname", c.hostname)
	req.Header.Set("X-Client-OSArch", runtime.GOOS+"/"+runtime.GOARCH)
	req.Header.Set("X-Request-Id", uuid.NewString())

	c.logger.Debug().
		Str("exercise", w.ExerciseName).
		Int("reps", w.Reps).
		Int("sets", w.Sets).
		Msg("sending workout")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	var result LogResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	c.logger.Info().
		Str("workout_id", result.WorkoutID).
		Float64("calories", result.Calories).
		Msg("workout logged: " + result.Message)

	if c.onLogged != nil {
		c.onLogged(w, &result)
	}
	return &result, nil
}
