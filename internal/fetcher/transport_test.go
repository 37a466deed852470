package fetcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestNewTransportPoolSettings checks the shared pool is tuned for reuse.
func TestNewTransportPoolSettings(t *testing.T) {
	t.Parallel()

	transport := NewTransport()

	require.NotNil(t, transport.DialContext)
	require.True(t, transport.ForceAttemptHTTP2)
	require.Equal(t, 100, transport.MaxIdleConns)
	require.Equal(t, 10, transport.MaxIdleConnsPerHost)
	require.Equal(t, 90*time.Second, transport.IdleConnTimeout)
}

// TestKeepAliveProbeConstants pins the probe schedule applied per connection.
func TestKeepAliveProbeConstants(t *testing.T) {
	t.Parallel()

	require.Equal(t, 60*time.Second, keepAliveIdle)
	require.Equal(t, 2*time.Second, keepAliveInterval)
	require.Equal(t, 5, keepAliveCount)
}
