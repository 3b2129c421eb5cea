package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/omrozmn/x-ear-sub010/internal/model"
)

// Client talks to the remote inventory service:
//
//	GET    /inventory?q&category&page&per_page
//	POST   /inventory
//	PUT    /inventory/{id}
//	DELETE /inventory/{id}
//
// Transport-level errors (the client is offline, the host is unreachable) are
// reported as model.ErrQueued so the mutation pipeline treats them as the
// soft-success pending state. HTTP error statuses are model.ErrRemoteFailure.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type envelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Meta    *responseMeta    `json:"meta"`
	Error   *json.RawMessage `json:"error"`
}

type responseMeta struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// FetchPage requests one page. The backend exposes a single free-text search
// parameter, so brand and feature facets are collapsed into q. This loses
// filter fidelity on the remote path; the local fallback matches per-field.
func (c *Client) FetchPage(
	ctx context.Context,
	filter model.RecordFilter,
	page, perPage int,
) ([]map[string]any, model.PageInfo, error) {
	const op = "remote.FetchPage"

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	if search := collapseFilter(filter); search != "" {
		q.Set("q", search)
	}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}

	env, err := c.do(ctx, http.MethodGet, "/inventory?"+q.Encode(), nil)
	if err != nil {
		return nil, model.PageInfo{}, fmt.Errorf("%s: %w", op, err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		return nil, model.PageInfo{}, fmt.Errorf("%s: decode rows: %w", op, err)
	}

	info := model.PageInfo{Page: page, PerPage: perPage, Total: len(rows), TotalPages: 1}
	if env.Meta != nil {
		info = model.PageInfo{
			Page:        env.Meta.Page,
			PerPage:     env.Meta.PerPage,
			Total:       env.Meta.Total,
			TotalPages:  env.Meta.TotalPages,
			HasNext:     env.Meta.Page < env.Meta.TotalPages,
			HasPrevious: env.Meta.Page > 1,
		}
	}

	return rows, info, nil
}

// Create posts a new record and returns the server's payload for it.
func (c *Client) Create(ctx context.Context, payload map[string]any) (map[string]any, error) {
	const op = "remote.Create"

	env, err := c.do(ctx, http.MethodPost, "/inventory", payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return decodeRecord(op, env)
}

// Update puts changed fields for an existing record.
func (c *Client) Update(ctx context.Context, id string, payload map[string]any) (map[string]any, error) {
	const op = "remote.Update"

	env, err := c.do(ctx, http.MethodPut, "/inventory/"+url.PathEscape(id), payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return decodeRecord(op, env)
}

// Delete removes a record. 200/204 both count as success.
func (c *Client) Delete(ctx context.Context, id string) error {
	const op = "remote.Delete"

	if _, err := c.do(ctx, http.MethodDelete, "/inventory/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload map[string]any) (*envelope, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Dispatch failed before reaching the service: offline territory.
		return nil, errors.Join(model.ErrQueued, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNoContent {
		return &envelope{Success: true}, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Join(model.ErrRemoteFailure, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: status %d: %s", model.ErrRemoteFailure, resp.StatusCode, truncate(data, 256))
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Join(model.ErrRemoteFailure, err)
	}

	return &env, nil
}

func decodeRecord(op string, env *envelope) (map[string]any, error) {
	if len(env.Data) == 0 {
		return nil, fmt.Errorf("%s: %w: empty response body", op, model.ErrRemoteFailure)
	}

	var record map[string]any
	if err := json.Unmarshal(env.Data, &record); err != nil {
		return nil, fmt.Errorf("%s: decode record: %w", op, err)
	}
	return record, nil
}

// collapseFilter concatenates the facets the backend cannot filter natively
// into the one search string it does expose.
func collapseFilter(filter model.RecordFilter) string {
	parts := make([]string, 0, 2+len(filter.Features))
	if filter.Search != "" {
		parts = append(parts, filter.Search)
	}
	if filter.Brand != "" {
		parts = append(parts, filter.Brand)
	}
	for _, f := range filter.Features {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " ")
}

func truncate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return string(data[:n]) + "..."
}
