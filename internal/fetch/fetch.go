// Package fetch resolves share links through their redirect chain and returns
// the rendered page, reusing per-host cookies from an injected jar.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"vidresolve/internal/httputil"
)

// ErrInvalidURL is wrapped by FetchError when the URL is rejected before any
// request is made.
var ErrInvalidURL = errors.New("invalid URL")

// Page is the final response of a redirect chain. It is never modified after
// Fetch returns it.
type Page struct {
	FinalURL string
	Body     []byte
}

// Text decodes the body as UTF-8, replacing invalid sequences.
func (p *Page) Text() string {
	return strings.ToValidUTF8(string(p.Body), "�")
}

// FetchError reports an unsuccessful response or a transport failure.
// StatusCode is 0 when no response was received.
type FetchError struct {
	StatusCode int
	URL        string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Aborted reports whether the caller's context ended the request. A client
// timeout is not an abort even though it also matches context.DeadlineExceeded.
func (e *FetchError) Aborted() bool {
	return e.Err == context.Canceled || e.Err == context.DeadlineExceeded
}

// Options configures a Fetcher. Zero values select defaults.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	Logger    logrus.FieldLogger
	Transport http.RoundTripper // replaces the hardened default transport
}

// Fetcher issues page requests with a mobile user agent.
type Fetcher struct {
	client *resty.Client
	log    logrus.FieldLogger
}

// New creates a Fetcher whose requests read and update jar on every hop.
func New(jar http.CookieJar, opts Options) *Fetcher {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	hc := httputil.NewClient(opts.Timeout, jar)
	if opts.Transport != nil {
		hc.Transport = opts.Transport
	}

	client := resty.NewWithClient(hc).
		SetHeaders(httputil.BrowserHeaders(opts.UserAgent)).
		SetLogger(log)

	return &Fetcher{client: client, log: log}
}

// Client exposes the underlying resty client so other components (downloads)
// share its transport, headers and cookies.
func (f *Fetcher) Client() *resty.Client {
	return f.client
}

// Fetch follows rawURL through its redirects and reads the final body fully
// into memory.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if err := httputil.ValidateURL(rawURL); err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("%w: %v", ErrInvalidURL, err)}
	}

	resp, err := f.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &FetchError{URL: rawURL, Err: ctxErr}
		}
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	finalURL := rawURL
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		finalURL = raw.Request.URL.String()
	}

	body := resp.Body()
	if !resp.IsSuccess() || len(body) == 0 {
		return nil, &FetchError{StatusCode: resp.StatusCode(), URL: finalURL}
	}

	f.log.WithFields(logrus.Fields{
		"url":    rawURL,
		"final":  finalURL,
		"status": resp.StatusCode(),
		"bytes":  len(body),
	}).Debug("fetched page")

	return &Page{FinalURL: finalURL, Body: body}, nil
}
