package common

import (
	"net/http"

	"github.com/princehaifan/quran-memory-system/internal/config"
	pkgHTTP "github.com/princehaifan/quran-memory-system/pkg/http"
)

// NewHTTPClient builds the outbound client shared by provider SDKs.
// A zero RequestTimeout leaves calls unbounded.
func NewHTTPClient(cfg config.HTTPClientConfig) *http.Client {
	opts := []pkgHTTP.HttpOpts{
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
	}
	if cfg.LogRequests {
		opts = append(opts, pkgHTTP.WithRequestLogging())
	}

	return pkgHTTP.NewClient(opts...)
}
