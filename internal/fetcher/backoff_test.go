package fetcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestBackoffDoubles verifies the delay doubles on every retry.
func TestBackoffDoubles(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1*time.Second, Backoff(1.0, 1))
	require.Equal(t, 2*time.Second, Backoff(1.0, 2))
	require.Equal(t, 4*time.Second, Backoff(1.0, 3))
	require.Equal(t, 8*time.Second, Backoff(1.0, 4))
}

// TestBackoffFactorScales verifies the base multiplier scales the delay.
func TestBackoffFactorScales(t *testing.T) {
	t.Parallel()

	require.Equal(t, 2*time.Second, Backoff(0.5, 3))
	require.Equal(t, 250*time.Millisecond, Backoff(0.25, 1))
}

// TestBackoffZeroRetries covers the degenerate lower edge: half the factor.
func TestBackoffZeroRetries(t *testing.T) {
	t.Parallel()

	require.Equal(t, 500*time.Millisecond, Backoff(1.0, 0))
}
