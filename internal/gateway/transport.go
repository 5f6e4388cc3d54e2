package gateway

import (
	"net"
	"net/http"
	"time"
)

// newTransport returns a transport tuned for long-lived reuse against a
// single vendor host. Every request goes to the same endpoint, so the
// per-host idle pool is sized to the account concurrency limit.
func newTransport(concurrencyLimit int) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   concurrencyLimit,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 65 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
