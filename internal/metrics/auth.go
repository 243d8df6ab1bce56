package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Métricas Prometheus del subsistema de auth. Package standalone para evitar
// ciclos de import entre auth y HTTP.

var (
	LoginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_login_attempts_total",
		Help: "Intentos de login admin por resultado",
	}, []string{"result"}) // result: ok|rejected|config_error|bad_request

	TokenValidations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_token_validations_total",
		Help: "Validaciones de session token por resultado",
	}, []string{"result"}) // result: valid|invalid|config_error

	RateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "admin_auth_rate_limited_total",
		Help: "Requests al endpoint de auth rechazadas por rate limit",
	})
)

// RegisterAuth registra las métricas en el registry dado (o el default si nil).
func RegisterAuth(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{LoginAttempts, TokenValidations, RateLimited} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

// Handler expone /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
