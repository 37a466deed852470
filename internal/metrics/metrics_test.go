package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestInitIdempotent ensures repeated Init calls do not re-register collectors.
func TestInitIdempotent(t *testing.T) {
	Init()
	require.NotPanics(t, Init)
}

// TestHelpersDoNotPanic exercises every recording helper.
func TestHelpersDoNotPanic(t *testing.T) {
	require.NotPanics(t, func() {
		ObserveAttempt(true)
		ObserveAttempt(false)
		ObserveOutcome(true)
		ObserveOutcome(false)
		IncInFlight()
		DecInFlight()
		SetURLsExtracted(42)
	})
}

// TestHandlerServesMetrics confirms the scrape endpoint includes our collectors.
func TestHandlerServesMetrics(t *testing.T) {
	ObserveAttempt(true)
	SetURLsExtracted(7)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "allowlist_fetch_attempts_total")
	require.Contains(t, body, "allowlist_urls_extracted")
}
