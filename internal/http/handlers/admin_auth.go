// Package handlers contiene los handlers HTTP del servicio.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dropDatabas3/clubauth/internal/auth"
	"github.com/dropDatabas3/clubauth/internal/metrics"
	"github.com/dropDatabas3/clubauth/internal/observability/logger"
)

// Mensajes del wire contract. El cliente (Session Manager) clasifica errores
// por status code, no por texto, pero los textos son parte del contrato.
const (
	msgMissingFields  = "Username and password are required"
	msgInvalidCreds   = "Invalid credentials"
	msgNotConfigured  = "Admin authentication is not configured"
	msgInvalidToken   = "Invalid or expired token"
	msgInvalidJSON    = "Invalid JSON body"
	msgInvalidAction  = "Invalid action"
	msgMethodNotAllow = "Method not allowed"
)

// adminAuthRequest es la unión discriminada de los tres request shapes.
// El discriminante es Action; cada rama usa solo sus campos.
type adminAuthRequest struct {
	Action   string `json:"action"` // "login" | "validate" | "logout"
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Token    string `json:"token,omitempty"`
}

type loginResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"` // ms epoch
}

type validateResponse struct {
	Success   bool  `json:"success"`
	Valid     bool  `json:"valid"`
	ExpiresAt int64 `json:"expiresAt"` // ms epoch
}

type logoutResponse struct {
	Success bool `json:"success"`
}

// NewAdminAuthHandler es el único endpoint del Token Service:
// POST JSON con action login|validate|logout.
func NewAdminAuthHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeFailure(w, http.StatusMethodNotAllowed, msgMethodNotAllow)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		defer r.Body.Close()

		var req adminAuthRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeFailure(w, http.StatusBadRequest, msgInvalidJSON)
			return
		}

		// Matching exhaustivo sobre el discriminante: una acción nueva que no
		// se agregue acá cae en el default y es un 400, nunca un no-op mudo.
		switch req.Action {
		case "login":
			handleLogin(w, r, svc, req)
		case "validate":
			handleValidate(w, r, svc, req)
		case "logout":
			svc.Logout(r.Context(), req.Token)
			writeJSON(w, http.StatusOK, logoutResponse{Success: true})
		default:
			writeFailure(w, http.StatusBadRequest, msgInvalidAction)
		}
	}
}

func handleLogin(w http.ResponseWriter, r *http.Request, svc *auth.Service, req adminAuthRequest) {
	sess, err := svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			metrics.LoginAttempts.WithLabelValues("bad_request").Inc()
			writeFailure(w, http.StatusBadRequest, msgMissingFields)
		case errors.Is(err, auth.ErrInvalidCredentials):
			metrics.LoginAttempts.WithLabelValues("rejected").Inc()
			writeFailure(w, http.StatusUnauthorized, msgInvalidCreds)
		case errors.Is(err, auth.ErrNotConfigured):
			metrics.LoginAttempts.WithLabelValues("config_error").Inc()
			writeFailure(w, http.StatusInternalServerError, msgNotConfigured)
		default:
			logger.From(r.Context()).Error("login failed", logger.Err(err))
			metrics.LoginAttempts.WithLabelValues("config_error").Inc()
			writeFailure(w, http.StatusInternalServerError, "Internal error")
		}
		return
	}

	metrics.LoginAttempts.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, loginResponse{
		Success:   true,
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
	})
}

func handleValidate(w http.ResponseWriter, r *http.Request, svc *auth.Service, req adminAuthRequest) {
	res, err := svc.Validate(r.Context(), req.Token)
	if err != nil {
		// solo configuración incompleta llega acá
		metrics.TokenValidations.WithLabelValues("config_error").Inc()
		writeFailure(w, http.StatusInternalServerError, msgNotConfigured)
		return
	}

	if !res.Valid {
		// la razón específica se loguea server-side; el wire no la filtra
		metrics.TokenValidations.WithLabelValues("invalid").Inc()
		writeFailure(w, http.StatusUnauthorized, msgInvalidToken)
		return
	}

	metrics.TokenValidations.WithLabelValues("valid").Inc()
	writeJSON(w, http.StatusOK, validateResponse{
		Success:   true,
		Valid:     true,
		ExpiresAt: res.ExpiresAt,
	})
}
