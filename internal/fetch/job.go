package fetch

import (
	"context"

	"github.com/rs/zerolog"
)

// JobPage is the readable text of a fetched job posting.
type JobPage struct {
	URL      string
	Platform Platform
	Text     string
	Rendered bool // true when the text came from the headless browser
}

// JobFetcher fetches job postings over HTTP, re-rendering thin pages in a browser when one is configured.
type JobFetcher struct {
	opts   *Options
	render RenderFunc
	logger zerolog.Logger
}

// JobOption configures a JobFetcher.
type JobOption func(*JobFetcher)

// WithOptions sets the HTTP options.
func WithOptions(opts *Options) JobOption {
	return func(f *JobFetcher) { f.opts = opts }
}

// WithRenderer enables the browser fallback.
func WithRenderer(render RenderFunc) JobOption {
	return func(f *JobFetcher) { f.render = render }
}

// WithLogger sets the fetcher logger.
func WithLogger(logger zerolog.Logger) JobOption {
	return func(f *JobFetcher) { f.logger = logger }
}

// NewJobFetcher creates a JobFetcher. Without WithRenderer it never starts a browser.
func NewJobFetcher(opts ...JobOption) *JobFetcher {
	f := &JobFetcher{opts: DefaultOptions(), logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads a posting and extracts its main text using platform-aware selectors.
func (f *JobFetcher) Fetch(ctx context.Context, url string) (*JobPage, error) {
	platform := DetectPlatform(url)
	content := PlatformContentSelectors(platform)
	noise := PlatformNoiseSelectors(platform)

	page := &JobPage{URL: url, Platform: platform}

	result, fetchErr := URL(ctx, url, f.opts)
	if fetchErr == nil {
		text, err := ExtractMainText(result.HTML, content, noise...)
		if err != nil {
			return nil, &Error{URL: url, Message: "failed to extract page text", Cause: err}
		}
		page.Text = text
		if !ShouldUseBrowser(text) || f.render == nil {
			return page, nil
		}
		f.logger.Debug().Str("url", url).Int("chars", len(text)).Msg("page text too short, rendering in browser")
	} else if f.render == nil {
		return nil, fetchErr
	} else if ValidateURL(url) != nil {
		return nil, fetchErr
	}

	html, err := f.render(ctx, url)
	if err != nil {
		if page.Text != "" {
			f.logger.Warn().Err(err).Str("url", url).Str("reason", "browser").Msg("browser fallback failed, using HTTP text")
			return page, nil
		}
		if fetchErr != nil {
			return nil, fetchErr
		}
		return nil, &Error{URL: url, Message: "browser rendering failed", Cause: err}
	}

	text, err := ExtractMainText(html, content, noise...)
	if err != nil {
		return nil, &Error{URL: url, Message: "failed to extract rendered text", Cause: err}
	}
	if len(text) >= len(page.Text) {
		page.Text = text
		page.Rendered = true
	}
	return page, nil
}
