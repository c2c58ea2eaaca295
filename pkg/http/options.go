package http

import "time"

// HttpOpts tunes the client built by NewClient.
type HttpOpts func(*httpConfig)

func WithConnClientTimeout(timeout time.Duration) HttpOpts {
	return func(c *httpConfig) { c.connClientTimeout = timeout }
}

// WithRequestTimeout bounds a whole exchange. Zero disables the bound,
// which long model generations rely on.
func WithRequestTimeout(timeout time.Duration) HttpOpts {
	return func(c *httpConfig) { c.requestTimeout = timeout }
}

func WithClientKeepAlive(keepAlive time.Duration) HttpOpts {
	return func(c *httpConfig) { c.clientKeepAlive = keepAlive }
}

// WithResponseHeaderTimeout caps the wait for the first response byte; zero waits forever.
func WithResponseHeaderTimeout(timeout time.Duration) HttpOpts {
	return func(c *httpConfig) { c.responseHeaderTimeout = timeout }
}

func WithIdleConnTimeout(timeout time.Duration) HttpOpts {
	return func(c *httpConfig) { c.idleConnTimeout = timeout }
}

// WithTransport wraps the base transport. Later wrappers end up outermost.
func WithTransport(transport TransportFunc) HttpOpts {
	return func(c *httpConfig) { c.transports = append(c.transports, transport) }
}
