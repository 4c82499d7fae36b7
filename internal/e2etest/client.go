// Package e2etest drives a running API server over HTTP.
package e2etest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jsech3/GameIQ/internal/errors"
	"github.com/jsech3/GameIQ/internal/models"
)

var ErrUnexpectedStatus = errors.NewSentinel("unexpected status code")

type Client struct {
	client     *http.Client
	url        string
	adminToken string
}

// NewClient creates a JSON client for the API at url. adminToken may be empty when the admin routes are not used.
func NewClient(url, adminToken string) *Client {
	return &Client{
		client:     &http.Client{}, //nolint:exhaustruct // defaults are fine
		url:        url,
		adminToken: adminToken,
	}
}

// URL returns the base URL of the API.
func (c *Client) URL() string {
	return c.url
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	for {
		resp, err := c.Get(ctx, urlPath)
		if err == nil {
			status := resp.StatusCode
			if err = resp.Body.Close(); err != nil {
				return errors.Wrap(err, "close response body")
			}
			if status == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "context cancelled")
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// Get fetches a URL and returns the response.
func (c *Client) Get(ctx context.Context, urlPath string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, urlPath, nil)
}

// Post sends body as JSON and returns the response.
func (c *Client) Post(ctx context.Context, urlPath string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "marshal request body")
		}
		reader = bytes.NewReader(data)
	}
	return c.do(ctx, http.MethodPost, urlPath, reader)
}

func (c *Client) do(ctx context.Context, method, urlPath string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url+urlPath, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.adminToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.adminToken)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request", slog.String("method", method), slog.String("path", urlPath))
	}
	return resp, nil
}

// decode reads a JSON response into v after checking its status.
func decode(resp *http.Response, wantStatus int, v any) error {
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != wantStatus {
		return errors.Wrap(ErrUnexpectedStatus, "check status",
			slog.Int("status", resp.StatusCode), slog.Int("want", wantStatus))
	}
	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

// Games lists the served games.
func (c *Client) Games(ctx context.Context) ([]models.GameSummary, error) {
	resp, err := c.Get(ctx, "/api/games")
	if err != nil {
		return nil, err
	}
	var games []models.GameSummary
	if err = decode(resp, http.StatusOK, &games); err != nil {
		return nil, errors.Wrap(err, "list games")
	}
	return games, nil
}

// Today fetches the puzzle game serves today.
func (c *Client) Today(ctx context.Context, game models.GameType) (models.DailyPuzzle, error) {
	return c.daily(ctx, fmt.Sprintf("/api/games/%s/today", game))
}

// Day fetches the puzzle game serves on day.
func (c *Client) Day(ctx context.Context, game models.GameType, day int) (models.DailyPuzzle, error) {
	return c.daily(ctx, fmt.Sprintf("/api/games/%s/days/%d", game, day))
}

func (c *Client) daily(ctx context.Context, urlPath string) (models.DailyPuzzle, error) {
	resp, err := c.Get(ctx, urlPath)
	if err != nil {
		return models.DailyPuzzle{}, err
	}
	var puzzle models.DailyPuzzle
	if err = decode(resp, http.StatusOK, &puzzle); err != nil {
		return models.DailyPuzzle{}, errors.Wrap(err, "fetch puzzle", slog.String("path", urlPath))
	}
	return puzzle, nil
}

// Score submits guesses for the puzzle of day.
func (c *Client) Score(
	ctx context.Context,
	game models.GameType,
	day int,
	guesses []string,
) (models.ScoreResponse, error) {
	resp, err := c.Post(ctx, fmt.Sprintf("/api/games/%s/score", game), models.ScoreRequest{Day: day, Guesses: guesses})
	if err != nil {
		return models.ScoreResponse{}, err
	}
	var score models.ScoreResponse
	if err = decode(resp, http.StatusOK, &score); err != nil {
		return models.ScoreResponse{}, errors.Wrap(err, "score guesses")
	}
	return score, nil
}

// StartRefresh asks the server to refresh the bank of game.
func (c *Client) StartRefresh(ctx context.Context, game models.GameType) error {
	resp, err := c.Post(ctx, fmt.Sprintf("/api/admin/refresh/%s", game), nil)
	if err != nil {
		return err
	}
	return errors.Wrap(decode(resp, http.StatusAccepted, nil), "start refresh")
}

// RefreshEvents reads the event stream of a running refresh until the server closes it.
// It returns the data lines of all events in order.
func (c *Client) RefreshEvents(ctx context.Context, game models.GameType) ([]string, error) {
	resp, err := c.Get(ctx, fmt.Sprintf("/api/admin/refresh/%s/events", game))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrap(ErrUnexpectedStatus, "open event stream", slog.Int("status", resp.StatusCode))
	}
	var events []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if data, ok := strings.CutPrefix(scanner.Text(), "data: "); ok {
			events = append(events, data)
		}
	}
	if err = scanner.Err(); err != nil {
		return events, errors.Wrap(err, "read event stream")
	}
	return events, nil
}
