// Package fetch - browser.go renders JavaScript-heavy job boards in headless Chrome.
package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// MinContentLength is the minimum extracted text length to consider an HTTP fetch successful.
// Shorter pages are re-rendered in the browser.
const MinContentLength = 500

// BrowserTimeout bounds a single headless render.
const BrowserTimeout = 45 * time.Second

// RenderFunc renders a page and returns its final HTML.
type RenderFunc func(ctx context.Context, url string) (string, error)

// ShouldUseBrowser returns true if the extracted text is too short,
// indicating the page is likely a JavaScript-rendered SPA.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// ChromeRenderer returns a RenderFunc backed by a local Chrome/Chromium install.
func ChromeRenderer(timeout time.Duration, logger zerolog.Logger) RenderFunc {
	return func(ctx context.Context, url string) (string, error) {
		return WithBrowser(ctx, url, timeout, logger)
	}
}

// WithBrowser renders a page in a headless browser and returns the rendered HTML.
func WithBrowser(ctx context.Context, url string, timeout time.Duration, logger zerolog.Logger) (string, error) {
	logger.Debug().Str("url", url).Msg("starting headless browser")

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// Give client-side rendering time to fill in the posting
		chromedp.Sleep(3*time.Second),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// Cookie banners are optional; a missing button is not an error
			_ = chromedp.Click(`button[id*="accept"], button[class*="accept"]`, chromedp.NodeVisible, chromedp.AtLeast(0)).Do(ctx)
			return nil
		}),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	logger.Debug().Str("url", url).Int("bytes", len(html)).Msg("browser rendered page")
	return html, nil
}
