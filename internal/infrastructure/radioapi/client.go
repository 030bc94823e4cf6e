// Package radioapi talks to the radio server's REST API.
package radioapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"radioBot/internal/domain"
)

const DefaultTimeout = 10 * time.Second

const (
	EndpointCurrent = "songs/current"
	EndpointQueue   = "songs/queue"
	EndpointSkip    = "songs/skip"
	EndpointAdd     = "songs/add"
	EndpointRemove  = "songs/remove/%d"
	EndpointBlock   = "songs/block"
	EndpointUnblock = "songs/block/%s"
)

// Error is returned for every failed call: transport failure, non-200 status,
// malformed JSON or a body that reports failure.
type Error struct {
	Method     string
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("radioapi: %s %s: status %d: %v", e.Method, e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("radioapi: %s %s: %v", e.Method, e.Endpoint, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("radioapi: invalid base URL %q", cfg.BaseURL)
	}

	httpc := cfg.HTTPClient
	if httpc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpc = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL: base,
		http:    httpc,
		log:     logger.Named("radioapi"),
	}, nil
}

// Request performs a single call and returns the JSON body of a 200 response.
// Any other outcome is logged and returned as *Error; there are no retries.
func (c *Client) Request(ctx context.Context, endpoint, method string, body any) (json.RawMessage, error) {
	endpoint = strings.TrimLeft(endpoint, "/")

	raw, status, err := c.do(ctx, endpoint, method, body)
	if err != nil {
		apiErr := &Error{Method: method, Endpoint: endpoint, StatusCode: status, Err: err}
		c.log.Warn("radio API request failed",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Int("status", status),
			zap.Error(err),
		)
		return nil, apiErr
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, endpoint, method string, body any) (json.RawMessage, int, error) {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodDelete:
	default:
		return nil, 0, fmt.Errorf("unsupported method %q", method)
	}

	var br io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		br = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+endpoint, br)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if br != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, res.StatusCode, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, res.StatusCode, fmt.Errorf("want 200, got %d: %s", res.StatusCode, bytes.TrimSpace(b))
	}

	if !json.Valid(b) {
		return nil, res.StatusCode, fmt.Errorf("malformed JSON response")
	}

	return json.RawMessage(b), res.StatusCode, nil
}

type currentResponse struct {
	Song *domain.Song `json:"song"`
}

func (c *Client) CurrentSong(ctx context.Context) (domain.Song, error) {
	raw, err := c.Request(ctx, EndpointCurrent, http.MethodGet, nil)
	if err != nil {
		return domain.Song{}, err
	}

	var resp currentResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return domain.Song{}, c.decodeError(http.MethodGet, EndpointCurrent, err)
	}
	if resp.Song == nil {
		return domain.Song{}.Normalized(), nil
	}
	return resp.Song.Normalized(), nil
}

func (c *Client) Queue(ctx context.Context) ([]domain.QueueEntry, error) {
	raw, err := c.Request(ctx, EndpointQueue, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}

	var entries []domain.QueueEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, c.decodeError(http.MethodGet, EndpointQueue, err)
	}
	if entries == nil {
		return nil, c.decodeError(http.MethodGet, EndpointQueue, fmt.Errorf("queue is not a list"))
	}
	return entries, nil
}

func (c *Client) Skip(ctx context.Context) error {
	return c.mutate(ctx, EndpointSkip, http.MethodPost, nil)
}

type addRequest struct {
	Song        string `json:"song"`
	RequestedBy string `json:"requestedBy"`
}

func (c *Client) AddSong(ctx context.Context, song, requestedBy string) error {
	return c.mutate(ctx, EndpointAdd, http.MethodPost, addRequest{Song: song, RequestedBy: requestedBy})
}

// RemoveSong deletes the queue entry at the given 0-based index.
func (c *Client) RemoveSong(ctx context.Context, index int) error {
	return c.mutate(ctx, fmt.Sprintf(EndpointRemove, index), http.MethodDelete, nil)
}

func (c *Client) BlockSong(ctx context.Context, song string) error {
	return c.mutate(ctx, EndpointBlock, http.MethodPost, map[string]string{"song": song})
}

func (c *Client) UnblockSong(ctx context.Context, song string) error {
	return c.mutate(ctx, fmt.Sprintf(EndpointUnblock, url.PathEscape(song)), http.MethodDelete, nil)
}

// mutationResult captures the optional fields a server may use to report a
// failed mutation inside a 200 response.
type mutationResult struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

func (c *Client) mutate(ctx context.Context, endpoint, method string, body any) error {
	raw, err := c.Request(ctx, endpoint, method, body)
	if err != nil {
		return err
	}

	var res mutationResult
	if err := json.Unmarshal(raw, &res); err != nil {
		// Arrays, strings and other shapes are opaque success bodies.
		return nil
	}
	if res.Error != "" {
		return c.decodeError(method, endpoint, fmt.Errorf("server reported: %s", res.Error))
	}
	if res.Success != nil && !*res.Success {
		return c.decodeError(method, endpoint, fmt.Errorf("server reported failure"))
	}
	return nil
}

func (c *Client) decodeError(method, endpoint string, err error) error {
	c.log.Warn("radio API response rejected",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Error(err),
	)
	return &Error{Method: method, Endpoint: endpoint, StatusCode: http.StatusOK, Err: err}
}

var _ domain.RadioService = (*Client)(nil)
