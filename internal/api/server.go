package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/princehaifan/quran-memory-system/internal/api/docs"
	"github.com/princehaifan/quran-memory-system/internal/api/middleware"
	studyplanapi "github.com/princehaifan/quran-memory-system/internal/api/studyplan"
	"github.com/princehaifan/quran-memory-system/internal/api/web"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router. requestTimeout bounds
// synchronous API generations; browser generations run in the background.
func SetupRouter(
	webHandler *web.Handler,
	studyPlanHandler *studyplanapi.Handler,
	requestTimeout time.Duration,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	docs.RegisterRoutes(r)

	web.RegisterRoutes(r, webHandler)
	studyplanapi.RegisterRoutes(r, studyPlanHandler)

	return r
}
