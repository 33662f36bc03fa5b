package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "text/html", result.ContentType)
}

func TestURL_InvalidURL(t *testing.T) {
	for _, u := range []string{"not-a-valid-url", "ftp://example.com/job", ""} {
		_, err := URL(context.Background(), u, nil)
		var fetchErr *Error
		require.ErrorAs(t, err, &fetchErr, u)
		assert.Contains(t, err.Error(), "invalid URL")
	}
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
	assert.Contains(t, err.Error(), "404")
}

func TestExtractMainText(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		contains  []string
		forbidden []string
	}{
		{
			name:      "main element",
			html:      `<html><body><nav>Navigation</nav><main><h1>Main Content</h1><p>This is the important text.</p></main><footer>Footer</footer></body></html>`,
			contains:  []string{"Main Content", "important text"},
			forbidden: []string{"Navigation", "Footer"},
		},
		{
			name:     "fallback to body",
			html:     `<html><body><div>Some content here.</div></body></html>`,
			contains: []string{"Some content here"},
		},
		{
			name:      "job posting selector",
			html:      `<html><body><div class="sidebar">Sidebar junk</div><div class="job-description"><h2>Requirements</h2><p>5 years experience in Go</p></div></body></html>`,
			contains:  []string{"Requirements", "5 years experience"},
			forbidden: []string{"Sidebar junk"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := ExtractMainText(tt.html, JobPostingSelectors())
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, text, s)
			}
			for _, s := range tt.forbidden {
				assert.NotContains(t, text, s)
			}
		})
	}
}

func TestExtractMainText_ListItemsOnSeparateLines(t *testing.T) {
	html := `<main><ul><li>Python</li><li>AWS</li></ul><p>Remote   friendly</p></main>`
	text, err := ExtractMainText(html, JobPostingSelectors(), "form")
	require.NoError(t, err)
	assert.Equal(t, "Python\nAWS\nRemote friendly", text)
}

func longPosting() string {
	return "<main><p>" + strings.Repeat("Build reliable Go services. ", 40) + "</p></main>"
}

func TestJobFetcher_HTTPOnly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(longPosting()))
	}))
	defer server.Close()

	rendered := false
	fetcher := NewJobFetcher(WithRenderer(func(context.Context, string) (string, error) {
		rendered = true
		return "", nil
	}))

	page, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, page.Text, "Build reliable Go services.")
	assert.False(t, page.Rendered)
	assert.False(t, rendered, "long pages are not re-rendered")
	assert.Equal(t, PlatformUnknown, page.Platform)
}

func TestJobFetcher_BrowserFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div id="root">Loading...</div></body></html>`))
	}))
	defer server.Close()

	fetcher := NewJobFetcher(WithRenderer(func(_ context.Context, url string) (string, error) {
		assert.Equal(t, server.URL, url)
		return longPosting(), nil
	}))

	page, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.True(t, page.Rendered)
	assert.Contains(t, page.Text, "Build reliable Go services.")
}

func TestJobFetcher_BrowserFailureKeepsHTTPText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<main>Short posting: Go engineer</main>`))
	}))
	defer server.Close()

	fetcher := NewJobFetcher(WithRenderer(func(context.Context, string) (string, error) {
		return "", errors.New("chrome not installed")
	}))

	page, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Short posting: Go engineer", page.Text)
	assert.False(t, page.Rendered)
}

func TestJobFetcher_HTTPErrorWithoutBrowser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewJobFetcher().Fetch(context.Background(), server.URL)
	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "403")
}
