package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// sensitiveHeaders are never written to logs verbatim.
var sensitiveHeaders = map[string]bool{
	"authorization":  true,
	"x-goog-api-key": true,
	"cookie":         true,
}

// sensitiveParams are query parameters that carry credentials.
var sensitiveParams = []string{"key", "access_token"}

type logTransport struct {
	transport http.RoundTripper
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	start := time.Now()

	ctxzap.Debug(ctx, "HTTP outbound request",
		zap.String("method", req.Method),
		zap.String("url", redactURL(req)),
		zap.Any("headers", redactHeaders(req.Header)),
		zap.Int64("content_length", req.ContentLength),
	)

	resp, err := t.transport.RoundTrip(req)
	if err != nil {
		ctxzap.Debug(ctx, "HTTP outbound request failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, err
	}

	ctxzap.Debug(ctx, "HTTP outbound response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	return resp, nil
}

// WithRequestLogging wraps the HTTP transport with debug logging of method, URL, headers and timing.
// Credentials in headers and query parameters are redacted.
func WithRequestLogging() HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &logTransport{
			transport: rt,
		}
	})
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if sensitiveHeaders[strings.ToLower(name)] {
			out[name] = "[REDACTED]"
			continue
		}
		out[name] = strings.Join(values, ",")
	}
	return out
}

func redactURL(req *http.Request) string {
	if req.URL == nil {
		return ""
	}
	u := *req.URL
	q := u.Query()
	for _, p := range sensitiveParams {
		if q.Has(p) {
			q.Set(p, "[REDACTED]")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
