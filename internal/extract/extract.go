// Package extract reduces the trusted-sites page to a deduplicated set of
// normalized URLs. The heavy lifting of fetching is delegated to the fetch
// engine; this package owns parsing and normalization.
package extract

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sgtrust/trusted-sites-allowlist/internal/fetcher"
	"github.com/sgtrust/trusted-sites-allowlist/internal/metrics"
)

// Dispatcher is the fetch engine surface the extractor needs.
type Dispatcher interface {
	DispatchAll(ctx context.Context, endpoints []string) map[string][]byte
}

// Extractor fetches the configured page and extracts unique normalized URLs.
type Extractor struct {
	dispatcher Dispatcher
	endpoint   string
	logger     *zap.Logger
}

// New constructs an Extractor targeting a single endpoint.
func New(dispatcher Dispatcher, endpoint string, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		dispatcher: dispatcher,
		endpoint:   endpoint,
		logger:     logger,
	}
}

// URLs fetches the page and returns the set of normalized URLs found in it.
// It never fails outward: an unreachable page or a parse fault is logged and
// degrades to the empty set. The caller decides whether empty is fatal.
func (e *Extractor) URLs(ctx context.Context) map[string]struct{} {
	payloads := e.dispatcher.DispatchAll(ctx, []string{e.endpoint})
	payload := payloads[e.endpoint]
	if fetcher.IsFailure(payload) {
		e.logger.Error("trusted sites page not accessible", zap.String("endpoint", e.endpoint))
		return map[string]struct{}{}
	}

	hrefs, err := AnchorHrefs(payload)
	if err != nil {
		e.logger.Error("anchor extraction failed",
			zap.String("endpoint", e.endpoint),
			zap.Error(err),
		)
		return map[string]struct{}{}
	}

	urls := make(map[string]struct{}, len(hrefs))
	for _, href := range hrefs {
		if cleaned := CleanURL(href); cleaned != "" {
			urls[cleaned] = struct{}{}
		}
	}
	metrics.SetURLsExtracted(len(urls))
	return urls
}

// AnchorHrefs returns the href attribute of every anchor nested in a
// paragraph or table body. The trusted-sites page has shipped both layouts.
func AnchorHrefs(body []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	var hrefs []string
	doc.Find("p a, tbody a").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs, nil
}
