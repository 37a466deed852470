package fetcher

import (
	"net"
	"net/http"
	"time"
)

// Keep-alive probe settings applied to every pooled connection. Idle
// connections in a shared pool are prone to silent half-close; probing
// surfaces a dead peer as a retriable error instead of an indefinite hang.
const (
	keepAliveIdle     = 60 * time.Second
	keepAliveInterval = 2 * time.Second
	keepAliveCount    = 5
)

// NewTransport builds the pooled HTTP transport shared by one dispatch.
// TCP keep-alive probing is configured on the dialer, so every physical
// connection is set up before the first byte is sent.
func NewTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: 10 * time.Second,
			KeepAliveConfig: net.KeepAliveConfig{
				Enable:   true,
				Idle:     keepAliveIdle,
				Interval: keepAliveInterval,
				Count:    keepAliveCount,
			},
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
