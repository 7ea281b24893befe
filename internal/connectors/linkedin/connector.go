// Package linkedin fetches LinkedIn profiles through the Proxycurl API.
package linkedin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/icebreaker-labs/icebreaker-cli/internal/core/domain"
	"github.com/icebreaker-labs/icebreaker-cli/internal/core/ports/driven"
	"github.com/icebreaker-labs/icebreaker-cli/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

const (
	// DefaultEndpoint is the Proxycurl person profile endpoint.
	DefaultEndpoint = "https://nubela.co/proxycurl/api/v2/linkedin"

	// DefaultTimeout bounds a single profile fetch.
	DefaultTimeout = 10 * time.Second

	// MaxBodySize caps how much JSON is read from a response (5 MiB).
	MaxBodySize = 5 << 20
)

// Connector fetches profile JSON from Proxycurl, or from a local mock
// file when no paid API call is wanted.
type Connector struct {
	endpoint string
	apiKey   string
	client   *http.Client
	limiter  *RateLimiter
}

// Option configures the connector.
type Option func(*Connector)

// WithEndpoint overrides the Proxycurl endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Connector) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Connector) {
		c.client = client
	}
}

// New creates a new LinkedIn connector. The API key may be empty if only
// mock files will be fetched.
func New(apiKey string, opts ...Option) *Connector {
	c := &Connector{
		endpoint: DefaultEndpoint,
		apiKey:   apiKey,
		limiter:  NewRateLimiter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: DefaultTimeout}
	}
	return c
}

// SourceType returns the source type this connector serves.
func (c *Connector) SourceType() domain.SourceType {
	return domain.SourceTypeLinkedIn
}

// Fetch resolves a profile to raw JSON. Raw bytes take priority over a
// mock file path, which takes priority over a live API call.
func (c *Connector) Fetch(ctx context.Context, req domain.FetchRequest) (*domain.RawProfile, error) {
	switch {
	case len(req.Raw) > 0:
		return &domain.RawProfile{
			Source:     domain.SourceUploaded,
			SourceType: domain.SourceTypeLinkedIn,
			Content:    req.Raw,
		}, nil

	case req.MockPath != "":
		return c.fetchFile(req.MockPath)

	case req.URL != "":
		return c.fetchProfile(ctx, req.URL)

	default:
		return nil, fmt.Errorf("%w: no URL, mock path, or raw content", domain.ErrInvalidInput)
	}
}

func (c *Connector) fetchFile(path string) (*domain.RawProfile, error) {
	logger.Debug("linkedin: reading mock profile from %s", path)

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrFetchFailed, path, err)
	}

	return &domain.RawProfile{
		Source:     path,
		SourceType: domain.SourceTypeLinkedIn,
		Content:    content,
	}, nil
}

func (c *Connector) fetchProfile(ctx context.Context, profileURL string) (*domain.RawProfile, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: Proxycurl API key not configured", domain.ErrInvalidInput)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}

	logger.Debug("linkedin: fetching %s", profileURL)

	endpoint, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}

	query := endpoint.Query()
	query.Set("url", profileURL)
	query.Set("fallback_to_cache", "on-error")
	query.Set("use_cache", "if-present")
	query.Set("skills", "include")
	query.Set("inferred_salary", "include")
	query.Set("personal_email", "include")
	query.Set("personal_contact_number", "include")
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := c.limiter.CheckRateLimit(resp); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: proxycurl returned status %d", domain.ErrFetchFailed, resp.StatusCode)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", domain.ErrFetchFailed, err)
	}

	logger.Debug("linkedin: fetched %d bytes for %s", len(content), profileURL)

	return &domain.RawProfile{
		Source:     profileURL,
		SourceType: domain.SourceTypeLinkedIn,
		Content:    content,
	}, nil
}
