package extract

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sgtrust/trusted-sites-allowlist/internal/fetcher"
)

func TestAnchorHrefs(t *testing.T) {
	t.Parallel()

	body := []byte(`<html><body>
		<p><a href="https://one.example/">one</a></p>
		<p>text <a target="_blank" href="https://two.example/">two</a></p>
		<table><tbody><tr><td><a href="https://three.example/">three</a></td></tr></tbody></table>
		<div><a href="https://ignored.example/">outside</a></div>
		<p><a name="no-href">anchor without href</a></p>
	</body></html>`)

	hrefs, err := AnchorHrefs(body)
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://one.example/",
		"https://two.example/",
		"https://three.example/",
	}, hrefs)
}

func TestAnchorHrefsEmptyBody(t *testing.T) {
	t.Parallel()

	hrefs, err := AnchorHrefs(nil)
	require.NoError(t, err)
	require.Empty(t, hrefs)
}

// flakyTripper fails a fixed number of round trips before succeeding.
type flakyTripper struct {
	mu    sync.Mutex
	fails int
	calls int
	body  string
}

func (f *flakyTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.fails {
		return nil, errors.New("connection refused")
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(f.body)),
		Header:     http.Header{},
		Request:    req,
	}, nil
}

func newTestClient(t *testing.T, tripper http.RoundTripper) *fetcher.Client {
	t.Helper()
	return fetcher.New(fetcher.Config{
		MaxRetries:    5,
		BackoffFactor: 0.0001,
		SettleDelay:   -1,
		Transport:     tripper,
	}, zap.NewNop())
}

func TestExtractorRecoversFromTransientFailures(t *testing.T) {
	t.Parallel()

	tripper := &flakyTripper{
		fails: 2,
		body:  `<p><a target="_self" href="https://Example.com/">x</a></p>`,
	}
	extractor := New(newTestClient(t, tripper), "https://a.example/", zap.NewNop())

	urls := extractor.URLs(context.Background())

	require.Equal(t, map[string]struct{}{"example.com": {}}, urls)
	require.Equal(t, 3, tripper.calls)
}

func TestExtractorInaccessiblePageYieldsEmptySet(t *testing.T) {
	t.Parallel()

	tripper := &flakyTripper{fails: 1 << 30}
	extractor := New(newTestClient(t, tripper), "https://a.example/", zap.NewNop())

	urls := extractor.URLs(context.Background())

	require.Empty(t, urls)
	require.Equal(t, 5, tripper.calls)
}

func TestExtractorDropsUnusableHrefs(t *testing.T) {
	t.Parallel()

	tripper := &flakyTripper{
		body: `<p>
			<a href="https://www.example.gov.sg/">kept</a>
			<a href="/relative/path">dropped</a>
			<a href="#section">dropped</a>
			<a href="https://example.gov.sg">duplicate after cleaning</a>
		</p>`,
	}
	extractor := New(newTestClient(t, tripper), "https://a.example/", zap.NewNop())

	urls := extractor.URLs(context.Background())

	require.Equal(t, map[string]struct{}{"example.gov.sg": {}}, urls)
}

// staticDispatcher returns a canned result map.
type staticDispatcher struct {
	payloads map[string][]byte
}

func (d staticDispatcher) DispatchAll(_ context.Context, _ []string) map[string][]byte {
	return d.payloads
}

func TestExtractorZeroAnchorsYieldsEmptySet(t *testing.T) {
	t.Parallel()

	dispatcher := staticDispatcher{payloads: map[string][]byte{
		"https://a.example/": []byte("<html><body><div>no anchors here</div></body></html>"),
	}}
	extractor := New(dispatcher, "https://a.example/", zap.NewNop())

	urls := extractor.URLs(context.Background())

	require.Empty(t, urls)
}
