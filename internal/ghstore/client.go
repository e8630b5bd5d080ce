// Package ghstore implements the fallback persistence mode: entity
// collections stored as JSON blobs through the GitHub contents API, with the
// file sha acting as an optimistic-concurrency version token.
package ghstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"thunder-recargas/internal/metrics"
	"thunder-recargas/internal/repo"
)

const defaultBaseURL = "https://api.github.com"

// Config holds the parameters of the fallback repository.
type Config struct {
	BaseURL string
	Token   string
	Repo    string // "owner/name"
	Branch  string
	Timeout time.Duration
}

// Client is a thin typed wrapper over the two contents-API endpoints the
// store needs.
type Client struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	baseURL string
	token   string
	repo    string
	branch  string
	http    *http.Client
}

// NewClient builds a contents-API client.
func NewClient(cfg Config, logger *slog.Logger, m *metrics.Metrics) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		logger:  logger.With("component", "ghstore"),
		metrics: m,
		baseURL: base,
		token:   cfg.Token,
		repo:    cfg.Repo,
		branch:  cfg.Branch,
		http:    &http.Client{Timeout: timeout},
	}
}

type contentsResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	SHA      string `json:"sha"`
}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch,omitempty"`
	SHA     string `json:"sha,omitempty"`
}

type putResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

func (c *Client) url(path string) string {
	return fmt.Sprintf("%s/repos/%s/contents/%s", c.baseURL, c.repo, path)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	return c.http.Do(req)
}

// GetFile fetches a blob and its version token. A missing file is not an
// error: it returns nil content and an empty sha.
func (c *Client) GetFile(ctx context.Context, path string) ([]byte, string, error) {
	u := c.url(path)
	if c.branch != "" {
		u += "?ref=" + c.branch
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build get request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		c.track("error")
		return nil, "", fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.track("ok")
		return nil, "", nil
	}
	if resp.StatusCode != http.StatusOK {
		c.track("error")
		return nil, "", fmt.Errorf("get %s: unexpected status %d", path, resp.StatusCode)
	}

	var parsed contentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.track("error")
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(parsed.Content, "\n", ""))
	if err != nil {
		c.track("error")
		return nil, "", fmt.Errorf("decode content of %s: %w", path, err)
	}
	c.track("ok")
	return raw, parsed.SHA, nil
}

// PutFile writes a blob. The sha must match the current file version ("" for
// a new file); a mismatch surfaces as repo.ErrConflict.
func (c *Client) PutFile(ctx context.Context, path string, content []byte, sha, message string) (string, error) {
	body, err := json.Marshal(putRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  c.branch,
		SHA:     sha,
	})
	if err != nil {
		return "", fmt.Errorf("encode put request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.url(path), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build put request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		c.track("error")
		return "", fmt.Errorf("put %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusConflict, http.StatusUnprocessableEntity:
		io.Copy(io.Discard, resp.Body)
		c.track("conflict")
		return "", repo.ErrConflict
	default:
		c.track("error")
		return "", fmt.Errorf("put %s: unexpected status %d", path, resp.StatusCode)
	}

	var parsed putResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.track("error")
		return "", fmt.Errorf("decode put response for %s: %w", path, err)
	}
	c.track("ok")
	return parsed.Content.SHA, nil
}

func (c *Client) track(status string) {
	if c.metrics != nil {
		c.metrics.StoreQueries.WithLabelValues("github", status).Inc()
	}
}
