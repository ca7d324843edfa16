// Package extract resolves share text into a direct, unwatermarked media URL:
// it finds the short link, fetches the rendered page, pulls the router data
// block out of the markup and walks it to the first play address.
package extract

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"vidresolve/internal/fetch"
	"vidresolve/internal/media"
)

// Extractor resolves share text into a media URL.
type Extractor interface {
	Extract(ctx context.Context, shareText string) (*media.Result, error)
}

// PageFetcher retrieves the final page behind a short link.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetch.Page, error)
}

// Config holds the site-specific data the pipeline depends on. Empty fields
// take the package defaults.
type Config struct {
	Marker   string
	Prefix   string
	RouteKey string
	Path     Path // overrides RouteKey when set
}

// Pipeline is the sequential Extractor: no stage runs in parallel and
// nothing is retried.
type Pipeline struct {
	fetcher PageFetcher
	scanner Scanner
	path    Path
	log     logrus.FieldLogger
}

// New returns a Pipeline fetching pages through fetcher.
func New(fetcher PageFetcher, cfg Config, log logrus.FieldLogger) *Pipeline {
	if log == nil {
		log = logrus.StandardLogger()
	}
	path := cfg.Path
	if len(path) == 0 {
		path = DefaultPath(cfg.RouteKey)
	}
	return &Pipeline{
		fetcher: fetcher,
		scanner: NewScanner(cfg.Marker, cfg.Prefix),
		path:    path,
		log:     log,
	}
}

// Extract runs the whole pipeline. It either returns a complete Result or a
// *Failure naming the last stage reached.
func (p *Pipeline) Extract(ctx context.Context, shareText string) (*media.Result, error) {
	log := p.log.WithField("id", uuid.NewString())
	stage := StageStart

	fail := func(err error) (*media.Result, error) {
		log.WithError(err).WithField("stage", stage).Debug("extraction failed")
		return nil, &Failure{Stage: stage, Err: err}
	}

	shareURL, err := FindShareURL(shareText)
	if err != nil {
		return fail(err)
	}
	stage = StageURLExtracted
	log = log.WithField("url", shareURL)
	log.Debug("share URL extracted")

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	page, err := p.fetcher.Fetch(ctx, shareURL)
	if err != nil {
		return fail(err)
	}
	stage = StagePageFetched
	log.WithField("final", page.FinalURL).Debug("page fetched")

	raw, err := p.scanner.FindDataBlock(page.Text())
	if err != nil {
		return fail(err)
	}
	stage = StageJSONBlockFound

	root, err := ParseBlock(raw)
	if err != nil {
		return fail(err)
	}
	stage = StageJSONParsed

	mediaURL, err := Walk(root, p.path)
	if err != nil {
		return fail(err)
	}
	stage = StagePathNavigated
	log.WithField("stage", stage).Debug("path navigated")

	stage = StageDone
	log.WithFields(logrus.Fields{"stage": stage, "media": mediaURL}).Debug("media URL resolved")

	return &media.Result{
		ShareURL: shareURL,
		PageURL:  page.FinalURL,
		MediaURL: mediaURL,
	}, nil
}

var _ Extractor = (*Pipeline)(nil)
