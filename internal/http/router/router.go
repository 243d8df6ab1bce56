// Package router define las rutas HTTP del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/clubauth/internal/auth"
	"github.com/dropDatabas3/clubauth/internal/http/handlers"
	mw "github.com/dropDatabas3/clubauth/internal/http/middlewares"
	"github.com/dropDatabas3/clubauth/internal/metrics"
	"github.com/dropDatabas3/clubauth/internal/rate"
	"github.com/dropDatabas3/clubauth/internal/token"
)

// Deps contiene las dependencias del router.
type Deps struct {
	Auth    *auth.Service
	AuthCfg auth.Config
	Clock   token.Clock
	Limiter rate.Limiter // opcional: rate limit por IP en el endpoint de auth
}

// New arma el router con middlewares globales y las tres rutas del servicio.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.WithRequestID())
	r.Use(mw.WithLogging())
	r.Use(mw.WithSecurityHeaders())

	// El handler resuelve método y acción él mismo (405 del wire contract),
	// por eso se monta con Handle y no con Post.
	r.Handle("/v1/admin/auth", mw.ChainFunc(
		handlers.NewAdminAuthHandler(deps.Auth),
		mw.WithRateLimit(deps.Limiter),
	))

	r.Get("/readyz", handlers.NewReadyzHandler(deps.AuthCfg, deps.Clock))
	r.Handle("/metrics", metrics.Handler())

	return r
}
