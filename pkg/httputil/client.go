package httputil

import (
	"context"
	"net"
	"net/http"
	"time"
)

const DefaultTimeout = 180 * time.Second

type Options struct {
	PreferIPv4 bool
	// Timeout bounds a whole exchange including retries. Zero means DefaultTimeout.
	Timeout time.Duration
	// Retry enables RetryTransport when non-nil.
	Retry *RetryConfig
}

func NewClient(opts Options) *http.Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var rt http.RoundTripper = NewTransport(opts.PreferIPv4)
	if opts.Retry != nil {
		rt = NewRetryTransport(rt, *opts.Retry)
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: rt,
	}
}

func NewTransport(preferIPv4 bool) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   15 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if preferIPv4 {
				return dialer.DialContext(ctx, "tcp4", addr)
			}
			return dialer.DialContext(ctx, network, addr)
		},
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   15 * time.Second,
		ResponseHeaderTimeout: 120 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
