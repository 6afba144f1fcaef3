package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/hwtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/hwtrack/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/hwtrack/internal/httpserver/mw"
)

func init() { Register(registerAssets) }

func registerAssets(r chi.Router, d deps.Deps) {
	writes := rateLimit(d)

	r.Route("/assets", func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))

		r.Get("/", handlers.ListAssets(d))
		r.With(writes).Post("/", handlers.CreateAsset(d))
		r.Get("/{id}", handlers.GetAsset(d))
		r.With(writes).Patch("/{id}", handlers.UpdateAsset(d))
		r.With(writes).Delete("/{id}", handlers.DeleteAsset(d))
	})

	r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	).Get("/stats", handlers.Stats(d))
}

// rateLimit builds the limiter applied to mutating endpoints.
func rateLimit(d deps.Deps) Middleware {
	return mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.RateLimitBurst,
		RefillPerIPPerMin: d.RateLimitPerMinute,
		MaxEntries:        10000,
		TrustProxy:        d.TrustProxy,
	})
}
