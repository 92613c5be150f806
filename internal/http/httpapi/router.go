package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Tsubaki01/slimoro/internal/http/handlers"
	"github.com/Tsubaki01/slimoro/internal/infra/geoip"
	"github.com/Tsubaki01/slimoro/internal/middleware"
)

// NewRouter assembles the HTTP surface around the handler container.
func NewRouter(app *handlers.App, geo geoip.LocationResolver) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP, chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(app.Logger))
	r.Use(middleware.CORS(app.Config.AllowedOrigins))
	r.Use(middleware.Locale)
	r.Use(middleware.Geo(geo))

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/transformations", func(r chi.Router) {
		r.Use(middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute))
		r.Post("/", app.GenerateTransformations)
	})

	return r
}
