package records

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/community-records-api/internal/config"
	"github.com/rs/zerolog"
)

// httpClient talks JSON to a record platform over HTTP
type httpClient struct {
	baseURL   string
	apiKey    string
	projectID string
	http      *http.Client
	log       zerolog.Logger
}

// Ensure httpClient implements Client
var _ Client = (*httpClient)(nil)

// NewHTTPClient creates a record client for the platform at cfg.BaseURL
func NewHTTPClient(cfg *config.RecordsConfig, log zerolog.Logger) (Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("records base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid records base URL: %w", err)
	}

	return &httpClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		projectID: cfg.ProjectID,
		http:      &http.Client{Timeout: cfg.Timeout},
		log:       log.With().Str("component", "records-http").Logger(),
	}, nil
}

func (c *httpClient) FetchRecords(ctx context.Context, table string, params *Params) (*ListResponse, error) {
	var resp ListResponse
	if err := c.post(ctx, "fetchRecords", c.tableURL(table, "fetch"), params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *httpClient) GetRecordByID(ctx context.Context, table string, id int64, params *Params) (*RecordResponse, error) {
	var resp RecordResponse
	endpoint := c.tableURL(table, "records", strconv.FormatInt(id, 10))
	if err := c.post(ctx, "getRecordById", endpoint, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *httpClient) CreateRecord(ctx context.Context, table string, params *Params) (*MutationResponse, error) {
	return c.mutate(ctx, "createRecord", table, "create", params)
}

func (c *httpClient) UpdateRecord(ctx context.Context, table string, params *Params) (*MutationResponse, error) {
	return c.mutate(ctx, "updateRecord", table, "update", params)
}

func (c *httpClient) DeleteRecord(ctx context.Context, table string, params *Params) (*MutationResponse, error) {
	return c.mutate(ctx, "deleteRecord", table, "delete", params)
}

func (c *httpClient) mutate(ctx context.Context, op, table, action string, params *Params) (*MutationResponse, error) {
	var resp MutationResponse
	if err := c.post(ctx, op, c.tableURL(table, action), params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *httpClient) tableURL(table string, parts ...string) string {
	escaped := make([]string, 0, len(parts)+2)
	escaped = append(escaped, "tables", url.PathEscape(table))
	for _, p := range parts {
		escaped = append(escaped, url.PathEscape(p))
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}

func (c *httpClient) post(ctx context.Context, op, endpoint string, params *Params, out any) error {
	if params == nil {
		params = &Params{}
	}
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("%s: encode params: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if c.projectID != "" {
		req.Header.Set("X-Project-Id", c.projectID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s failed: %w", op, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode >= 400 {
		c.log.Debug().
			Str("op", op).
			Int("status", resp.StatusCode).
			Msg("Record platform returned error status")
		return wrapStatusError(op, resp.StatusCode, payload)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// wrapStatusError maps HTTP status codes to the typed errors so callers can use errors.Is
func wrapStatusError(op string, status int, payload []byte) error {
	msg := statusMessage(payload)
	switch status {
	case http.StatusBadRequest:
		return fmt.Errorf("%s: %w: %s", op, ErrBadRequest, msg)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w: %s", op, ErrUnauthorized, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w: %s", op, ErrNotFound, msg)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w: %s", op, ErrRateLimited, msg)
	}
	return fmt.Errorf("%s failed: status %d: %s", op, status, msg)
}

func statusMessage(payload []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return strings.TrimSpace(string(payload))
}
