package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"workspacemcp/internal/docs"
	"workspacemcp/internal/egress"
	"workspacemcp/internal/logging"
)

const maxErrorBodyBytes = 2048

// TokenSource supplies the bearer token attached to every request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client is the snapshot/submission gateway plus the thin pass-through
// surface for spreadsheets, presentations and file storage. It classifies
// every failure onto the docs sentinel errors so callers can decide
// between retrying and surfacing.
type Client struct {
	baseURL string
	tokens  TokenSource
	client  *http.Client
	logger  *slog.Logger
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the transport wholesale; tests use it to bypass
// the egress allowlist.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

func New(baseURL string, tokens TokenSource, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid backend base url %q", baseURL)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := egress.NewAllowlistRoundTripper(http.DefaultTransport, []string{parsed.Hostname()})
	client := &Client{
		baseURL: baseURL,
		tokens:  tokens,
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// GetDocument fetches a fresh structural snapshot.
func (c *Client) GetDocument(ctx context.Context, documentID string) (*docs.Document, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, fmt.Errorf("document id must not be empty: %w", docs.ErrValidation)
	}
	endpoint := c.baseURL + "/v1/documents/" + url.PathEscape(documentID)
	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", documentID, err)
	}
	var doc docs.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("get document %s: decode snapshot: %w", documentID, err)
	}
	if doc.DocumentID == "" {
		doc.DocumentID = documentID
	}
	return &doc, nil
}

// BatchUpdate submits one ordered batch of edit operations. The backend
// applies the batch transactionally; operations are encoded in order.
func (c *Client) BatchUpdate(ctx context.Context, documentID string, ops []docs.Op) error {
	if strings.TrimSpace(documentID) == "" {
		return fmt.Errorf("document id must not be empty: %w", docs.ErrValidation)
	}
	if len(ops) == 0 {
		return nil
	}
	requests, err := encodeOps(ops)
	if err != nil {
		return fmt.Errorf("batch update %s: %w", documentID, err)
	}
	payload, err := json.Marshal(map[string]any{"requests": requests})
	if err != nil {
		return fmt.Errorf("batch update %s: encode: %w", documentID, err)
	}
	endpoint := c.baseURL + "/v1/documents/" + url.PathEscape(documentID) + ":batchUpdate"
	if _, err := c.do(ctx, http.MethodPost, endpoint, payload); err != nil {
		return fmt.Errorf("batch update %s (%d ops): %w", documentID, len(ops), err)
	}
	c.logger.Debug("backend.batch_applied", "document_id", documentID, "ops", len(ops))
	return nil
}

// do performs one authenticated round trip and returns the response body,
// classifying transport and status failures onto the docs sentinels.
func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire access token: %v: %w", err, docs.ErrAuth)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, docs.ErrTransient)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %v: %w", err, docs.ErrTransient)
	}
	if err := classifyStatus(resp.StatusCode, data); err != nil {
		return nil, err
	}
	return data, nil
}

func classifyStatus(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	detail := errorDetail(body)
	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("%s: %w", detail, docs.ErrNotFound)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%s: %w", detail, docs.ErrAuth)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return fmt.Errorf("%s: %w", detail, docs.ErrValidation)
	case status == http.StatusTooManyRequests || status >= 500:
		return fmt.Errorf("status %d: %s: %w", status, detail, docs.ErrTransient)
	default:
		return fmt.Errorf("unexpected status %d: %s", status, detail)
	}
}

func errorDetail(body []byte) string {
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes]
	}
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return strings.TrimSpace(string(body))
}
