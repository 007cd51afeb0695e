package coops

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/tide-data-collector/internal/domain"
)

// RequestOptions are the pass-through query parameters sent with every
// fetch. They come straight from configuration; the client computes none
// of them.
type RequestOptions struct {
	Datum       string // MLLW or NAVD
	Units       string // english or metric
	TimeZone    string // gmt, lst, or lst_ldt
	Application string // client tag reported upstream
}

// Client fetches water-level CSV data from the CO-OPS API. One Fetch per
// month window; no caching, no retry. The pass-through options are bound
// at construction because they are constant for a collection run.
type Client struct {
	baseURL    string
	opts       RequestOptions
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a CO-OPS client with the given per-request timeout.
func NewClient(baseURL string, timeout time.Duration, opts RequestOptions, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		opts:    opts,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch performs one water_level request for a station and window and
// returns the raw CSV body. Network failures, exceeded deadlines, and
// unexpected statuses surface as *domain.TransportError; a 2xx body
// matching the service's plain-text error signature surfaces as
// *domain.ServiceError.
func (c *Client) Fetch(ctx context.Context, remoteID string, window domain.MonthWindow) (string, error) {
	params := url.Values{
		"product":     {"water_level"},
		"format":      {"csv"},
		"datum":       {c.opts.Datum},
		"units":       {c.opts.Units},
		"time_zone":   {c.opts.TimeZone},
		"application": {c.opts.Application},
		"station":     {remoteID},
		"begin_date":  {domain.Dashless(window.Start)},
		"end_date":    {domain.Dashless(window.End)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode == http.StatusMovedPermanently || resp.StatusCode == http.StatusFound:
		// Tolerated: log and use whatever body came back. The client
		// follows redirects itself, so hitting this means the chain was
		// cut short; the body is usually still the data.
		c.logger.Warn("service redirected request",
			"station", remoteID,
			"status", resp.StatusCode,
			"location", resp.Header.Get("Location"),
		)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &domain.TransportError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.TransportError{Err: fmt.Errorf("read body: %w", err)}
	}

	raw := string(body)
	if msg, isErr := serviceErrorMessage(raw); isErr {
		return "", &domain.ServiceError{Station: remoteID, Message: msg}
	}

	return raw, nil
}

// serviceErrorMessage detects the CO-OPS error signature: the service
// reports application-level errors as plain text separated by blank lines
// instead of a structured envelope, so a body with two consecutive newline
// separators is treated as an error. This can misfire if a legitimate body
// ever contains a double blank line; CSV responses never do.
func serviceErrorMessage(body string) (string, bool) {
	normalized := strings.ReplaceAll(body, "\r\n", "\n")
	if !strings.Contains(normalized, "\n\n") {
		return "", false
	}
	for _, line := range strings.Split(normalized, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line, true
		}
	}
	return "empty error body", true
}
