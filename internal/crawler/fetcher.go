package crawler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
)

// htmlContentType is compared byte for byte against the response header.
// "text/html; charset=utf-8" does not match and is skipped like any other
// non-HTML document.
const htmlContentType = "text/html"

const (
	ctxContentType = "content_type"
	ctxBody        = "body"
)

// Fetcher retrieves HTML documents over HTTP
type Fetcher struct {
	collector *colly.Collector
}

// NewFetcher creates a fetcher whose requests time out after timeout
func NewFetcher(userAgent string, timeout time.Duration) *Fetcher {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		// every job keeps its own visited set
		colly.AllowURLRevisit(),
		// a 404 page is still a document
		colly.ParseHTTPErrorResponse(),
		// bodies are read in full, anchors can sit past any fixed limit
		colly.MaxBodySize(0),
	)
	c.SetRequestTimeout(timeout)

	c.OnResponse(func(r *colly.Response) {
		r.Ctx.Put(ctxContentType, r.Headers.Get("Content-Type"))
		r.Ctx.Put(ctxBody, string(r.Body))
	})

	return &Fetcher{collector: c}
}

// Fetch issues a GET for rawURL. It returns the body and true when the
// response is exactly text/html, false when it is anything else, and an
// error when the request itself fails.
func (f *Fetcher) Fetch(rawURL string) (string, bool, error) {
	ctx := colly.NewContext()

	if err := f.collector.Request(http.MethodGet, rawURL, nil, ctx, nil); err != nil {
		return "", false, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}

	if ctx.Get(ctxContentType) != htmlContentType {
		return "", false, nil
	}
	return ctx.Get(ctxBody), true, nil
}
