package wiki

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icebreaker-labs/icebreaker-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("creates connector with defaults", func(t *testing.T) {
		connector := New()

		require.NotNil(t, connector)
		assert.Equal(t, domain.SourceTypeWiki, connector.SourceType())
		assert.Equal(t, DefaultTimeout, connector.timeout)
	})

	t.Run("applies options", func(t *testing.T) {
		client := &http.Client{}
		connector := New(WithHTTPClient(client), WithTimeout(time.Second))

		assert.Same(t, client, connector.client)
		assert.Equal(t, time.Second, connector.timeout)
	})
}

func TestConnector_Fetch_Raw(t *testing.T) {
	connector := New()
	html := []byte("<html><body>page</body></html>")

	raw, err := connector.Fetch(context.Background(), domain.FetchRequest{Raw: html})

	require.NoError(t, err)
	assert.Equal(t, domain.SourceUploaded, raw.Source)
	assert.Equal(t, domain.SourceTypeWiki, raw.SourceType)
	assert.Equal(t, html, raw.Content)
}

func TestConnector_Fetch_RawTakesPriority(t *testing.T) {
	connector := New()
	html := []byte("<html>uploaded</html>")

	raw, err := connector.Fetch(context.Background(), domain.FetchRequest{
		URL:      "https://example.fandom.com/wiki/Jon_Snow",
		MockPath: "does-not-exist.html",
		Raw:      html,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.SourceUploaded, raw.Source)
	assert.Equal(t, html, raw.Content)
}

func TestConnector_Fetch_MockFile(t *testing.T) {
	t.Run("reads existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "page.html")
		require.NoError(t, os.WriteFile(path, []byte("<html>mock</html>"), 0o644))

		connector := New()
		raw, err := connector.Fetch(context.Background(), domain.FetchRequest{MockPath: path})

		require.NoError(t, err)
		assert.Equal(t, path, raw.Source)
		assert.Equal(t, []byte("<html>mock</html>"), raw.Content)
	})

	t.Run("missing file returns fetch error", func(t *testing.T) {
		connector := New()

		_, err := connector.Fetch(context.Background(), domain.FetchRequest{MockPath: "no/such/file.html"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrFetchFailed)
	})
}

func TestConnector_Fetch_URL(t *testing.T) {
	t.Run("fetches page with browser headers", func(t *testing.T) {
		var gotUA, gotAccept string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			gotAccept = r.Header.Get("Accept")
			_, _ = w.Write([]byte("<html>live</html>"))
		}))
		defer server.Close()

		connector := New(WithHTTPClient(server.Client()))
		raw, err := connector.Fetch(context.Background(), domain.FetchRequest{URL: server.URL})

		require.NoError(t, err)
		assert.Equal(t, server.URL, raw.Source)
		assert.Equal(t, []byte("<html>live</html>"), raw.Content)
		assert.Contains(t, gotUA, "Mozilla/5.0")
		assert.Contains(t, gotAccept, "text/html")
	})

	t.Run("non-200 status returns fetch error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		connector := New(WithHTTPClient(server.Client()))
		_, err := connector.Fetch(context.Background(), domain.FetchRequest{URL: server.URL})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrFetchFailed)
	})

	t.Run("unreachable server returns fetch error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		server.Close()

		connector := New()
		_, err := connector.Fetch(context.Background(), domain.FetchRequest{URL: server.URL})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrFetchFailed)
	})

	t.Run("invalid URL returns invalid input", func(t *testing.T) {
		connector := New()

		_, err := connector.Fetch(context.Background(), domain.FetchRequest{URL: "ftp://example.com/page"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("cancelled context aborts fetch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			time.Sleep(time.Second)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		connector := New(WithHTTPClient(server.Client()))
		_, err := connector.Fetch(ctx, domain.FetchRequest{URL: server.URL})

		require.Error(t, err)
	})
}

func TestConnector_Fetch_EmptyRequest(t *testing.T) {
	connector := New()

	_, err := connector.Fetch(context.Background(), domain.FetchRequest{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
