// Package wiki fetches character pages from Fandom-style wikis.
package wiki

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/icebreaker-labs/icebreaker-cli/internal/core/domain"
	"github.com/icebreaker-labs/icebreaker-cli/internal/core/ports/driven"
	"github.com/icebreaker-labs/icebreaker-cli/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

const (
	// DefaultTimeout bounds a single page fetch.
	DefaultTimeout = 30 * time.Second

	// MaxBodySize caps how much HTML is read from a page (10 MiB).
	MaxBodySize = 10 << 20

	// Fandom serves a bot-detection page to unknown clients, so requests
	// carry ordinary browser headers.
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptHeader   = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptLanguage = "en-US,en;q=0.9"
)

// Connector fetches wiki page HTML from a URL, a local mock file, or
// pre-supplied raw bytes.
type Connector struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures the connector.
type Option func(*Connector)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Connector) {
		c.client = client
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Connector) {
		c.timeout = timeout
	}
}

// New creates a new wiki connector.
func New(opts ...Option) *Connector {
	c := &Connector{
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}
	return c
}

// SourceType returns the source type this connector serves.
func (c *Connector) SourceType() domain.SourceType {
	return domain.SourceTypeWiki
}

// Fetch resolves a page to raw HTML. Raw bytes take priority over a mock
// file path, which takes priority over a live URL.
func (c *Connector) Fetch(ctx context.Context, req domain.FetchRequest) (*domain.RawProfile, error) {
	switch {
	case len(req.Raw) > 0:
		logger.Debug("wiki: using uploaded HTML (%d bytes)", len(req.Raw))
		return &domain.RawProfile{
			Source:     domain.SourceUploaded,
			SourceType: domain.SourceTypeWiki,
			Content:    req.Raw,
		}, nil

	case req.MockPath != "":
		return c.fetchFile(req.MockPath)

	case req.URL != "":
		return c.fetchURL(ctx, req.URL)

	default:
		return nil, fmt.Errorf("%w: no URL, mock path, or raw content", domain.ErrInvalidInput)
	}
}

func (c *Connector) fetchFile(path string) (*domain.RawProfile, error) {
	logger.Debug("wiki: reading mock page from %s", path)

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrFetchFailed, path, err)
	}

	return &domain.RawProfile{
		Source:     path,
		SourceType: domain.SourceTypeWiki,
		Content:    content,
	}, nil
}

func (c *Connector) fetchURL(ctx context.Context, pageURL string) (*domain.RawProfile, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || !strings.HasPrefix(parsed.Scheme, "http") {
		return nil, fmt.Errorf("%w: invalid URL %q", domain.ErrInvalidInput, pageURL)
	}

	logger.Debug("wiki: fetching %s", pageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrFetchFailed, pageURL, resp.StatusCode)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", domain.ErrFetchFailed, err)
	}

	logger.Debug("wiki: fetched %d bytes from %s", len(content), pageURL)

	return &domain.RawProfile{
		Source:     pageURL,
		SourceType: domain.SourceTypeWiki,
		Content:    content,
	}, nil
}
