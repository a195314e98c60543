// Package client talks to the BrickShot HTTP API. Shot rows it reads are
// kept in a projection cache so status and pin edits show up before the
// server answers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"brickshot/internal/board"
	"brickshot/internal/domain/numbering"
	ds "brickshot/internal/domain/shotlist"
	"brickshot/internal/projection"

	"go.uber.org/zap"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Client struct {
	base  *url.URL
	token string
	http  *http.Client
	log   *zap.Logger

	shots *projection.Cache[string, board.ShotRow]
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

func WithLogger(log *zap.Logger) Option { return func(c *Client) { c.log = log } }

func WithToken(token string) Option { return func(c *Client) { c.token = token } }

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("server url %q needs a scheme and host", baseURL)
	}
	c := &Client{
		base:  u,
		http:  &http.Client{Timeout: 30 * time.Second},
		log:   zap.NewNop(),
		shots: projection.New[string, board.ShotRow](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Token() string { return c.token }

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, out interface{}) (http.Header, error) {
	u := *c.base
	u.Path = u.Path + "/api" + path
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.log.Debug("api call", zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode))

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	switch dst := out.(type) {
	case nil:
	case *[]byte:
		if *dst, err = io.ReadAll(resp.Body); err != nil {
			return nil, err
		}
	default:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return resp.Header, nil
}

func jsonBody(v interface{}) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := jsonBody(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}
	var out struct {
		Token string `json:"token"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/login", nil, body, &out); err != nil {
		return "", err
	}
	c.token = out.Token
	return out.Token, nil
}

func (c *Client) Projects(ctx context.Context, search string) ([]ds.Project, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	var out struct {
		Projects []ds.Project `json:"projects"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/projects", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

// Export downloads a project file and the file name the server suggests.
func (c *Client) Export(ctx context.Context, projectID string) ([]byte, string, error) {
	var data []byte
	h, err := c.do(ctx, http.MethodGet, "/projects/"+url.PathEscape(projectID)+"/export", nil, nil, &data)
	if err != nil {
		return nil, "", err
	}
	name := ""
	if _, params, err := mime.ParseMediaType(h.Get("Content-Disposition")); err == nil {
		name = params["filename"]
	}
	return data, name, nil
}

func (c *Client) Import(ctx context.Context, data []byte) (*ds.Project, error) {
	var p ds.Project
	if _, err := c.do(ctx, http.MethodPost, "/projects/import", nil, bytes.NewReader(data), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Board reads a scene's shot table and refreshes the cache with every row.
func (c *Client) Board(ctx context.Context, sceneID string, statuses ...ds.Status) (*board.Board, error) {
	q := url.Values{}
	for _, st := range statuses {
		q.Add("status", string(st))
	}
	var b board.Board
	if _, err := c.do(ctx, http.MethodGet, "/scenes/"+url.PathEscape(sceneID)+"/shots", q, nil, &b); err != nil {
		return nil, err
	}
	for _, r := range b.Shots {
		c.shots.Put(r.ID, r)
	}
	return &b, nil
}

// Shot returns the cached row for a shot, predictions applied.
func (c *Client) Shot(shotID string) (board.ShotRow, bool) {
	return c.shots.Get(shotID)
}

// CycleStatus advances a shot's status. If the row is cached the predicted
// status (and auto pin) is visible through Shot until the call returns.
func (c *Client) CycleStatus(ctx context.Context, shotID string) (*board.ShotRow, error) {
	return c.mutateRow(ctx, shotID, "/cycle", http.MethodPost, nil, func(r board.ShotRow) board.ShotRow {
		t := ds.Cycle(r.Status, r.LockedNumber, r.Number)
		r.Status = t.Status
		if t.Pin != nil {
			pin := *t.Pin
			r.LockedNumber = &pin
		}
		return r
	})
}

func (c *Client) ToggleUnsure(ctx context.Context, shotID string) (*board.ShotRow, error) {
	return c.mutateRow(ctx, shotID, "/toggle-unsure", http.MethodPost, nil, func(r board.ShotRow) board.ShotRow {
		r.Status = r.Status.ToggleUnsure()
		return r
	})
}

// EditCode sets or clears a shot's pinned number. Blank input unpins.
func (c *Client) EditCode(ctx context.Context, shotID, input string) (*board.ShotRow, error) {
	pin, err := numbering.ParsePinnedNumber(input)
	if err != nil {
		return nil, err
	}
	body, err := jsonBody(map[string]string{"code": input})
	if err != nil {
		return nil, err
	}
	return c.mutateRow(ctx, shotID, "/code", http.MethodPut, body, func(r board.ShotRow) board.ShotRow {
		if r.LockedNumber == nil {
			return r
		}
		r.LockedNumber = pin
		if pin != nil {
			r.Number = *pin
			if parent, _, ok := strings.Cut(r.Code, "-"); ok {
				r.Code = parent + "-" + strconv.Itoa(*pin)
			}
		}
		return r
	})
}

// mutateRow runs one row-returning write with a prediction layered over the
// cached row. Only scalar fields are predicted; the server's row replaces
// the cached one wholesale.
func (c *Client) mutateRow(ctx context.Context, shotID, suffix, method string, body io.Reader, predict func(board.ShotRow) board.ShotRow) (*board.ShotRow, error) {
	pending := c.shots.Predict(shotID, predict)

	var row board.ShotRow
	_, err := c.do(ctx, method, "/shots/"+url.PathEscape(shotID)+suffix, nil, body, &row)
	if err != nil {
		pending.Discard()
		return nil, err
	}
	pending.Confirm(row)
	return &row, nil
}
