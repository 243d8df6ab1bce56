package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/dropDatabas3/clubauth/internal/auth"
	"github.com/dropDatabas3/clubauth/internal/token"
)

// NewReadyzHandler expone el readiness probe.
// Self-check: firma y verifica un token efímero en memoria con el secret
// configurado, así detectamos una config rota antes de que el admin lo sufra.
func NewReadyzHandler(cfg auth.Config, clk token.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if v := os.Getenv("SERVICE_VERSION"); v != "" {
			w.Header().Set("X-Service-Version", v)
		}

		if !cfg.Complete() {
			writeFailure(w, http.StatusServiceUnavailable, msgNotConfigured)
			return
		}

		secret := []byte(cfg.SigningSecret)
		m := &token.Minter{Secret: secret, TTL: 5 * time.Minute, Clock: clk}
		v := &token.Verifier{Secret: secret, Clock: clk}

		signed, _, err := m.Mint("selfcheck")
		if err != nil {
			writeFailure(w, http.StatusServiceUnavailable, "self-check sign failed")
			return
		}
		claims, err := v.Verify(signed)
		if err != nil || claims.Sub != "selfcheck" {
			writeFailure(w, http.StatusServiceUnavailable, "self-check verify failed")
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}
}
