package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/clubauth/internal/auth"
	"github.com/dropDatabas3/clubauth/internal/http/handlers"
	"github.com/dropDatabas3/clubauth/internal/security/credential"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }

func newHandler(t *testing.T, cfg auth.Config) http.Handler {
	t.Helper()
	return handlers.NewAdminAuthHandler(auth.NewService(cfg, &fakeClock{t: time.Unix(1_700_000_000, 0)}))
}

func validConfig() auth.Config {
	return auth.Config{
		Username:      "admin",
		PasswordHash:  credential.SHA256Hex("correct-pw"),
		SigningSecret: "handler-test-secret",
		TokenTTL:      time.Hour,
	}
}

func post(t *testing.T, h http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/auth", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestAdminAuth_LoginSuccess(t *testing.T) {
	h := newHandler(t, validConfig())

	rec := post(t, h, map[string]string{"action": "login", "username": "Admin", "password": "correct-pw"})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	require.Equal(t, true, body["success"])
	require.NotEmpty(t, body["token"])
	require.NotZero(t, body["expiresAt"])
}

func TestAdminAuth_LoginBadInput(t *testing.T) {
	h := newHandler(t, validConfig())

	rec := post(t, h, map[string]string{"action": "login", "username": "", "password": ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Username and password are required", decode(t, rec)["error"])
}

func TestAdminAuth_LoginBadCredentials(t *testing.T) {
	h := newHandler(t, validConfig())

	// user mal, pass mal, ambos mal: mismo status y mensaje
	for _, creds := range [][2]string{
		{"intruder", "correct-pw"},
		{"admin", "wrong"},
		{"intruder", "wrong"},
	} {
		rec := post(t, h, map[string]string{"action": "login", "username": creds[0], "password": creds[1]})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Invalid credentials", decode(t, rec)["error"])
	}
}

func TestAdminAuth_NotConfigured(t *testing.T) {
	cfg := validConfig()
	cfg.SigningSecret = ""
	h := newHandler(t, cfg)

	rec := post(t, h, map[string]string{"action": "login", "username": "admin", "password": "correct-pw"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Admin authentication is not configured", decode(t, rec)["error"])

	rec = post(t, h, map[string]string{"action": "validate", "token": "whatever"})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Admin authentication is not configured", decode(t, rec)["error"])
}

func TestAdminAuth_ValidateRoundTrip(t *testing.T) {
	h := newHandler(t, validConfig())

	rec := post(t, h, map[string]string{"action": "login", "username": "admin", "password": "correct-pw"})
	require.Equal(t, http.StatusOK, rec.Code)
	tok, _ := decode(t, rec)["token"].(string)
	require.NotEmpty(t, tok)

	rec = post(t, h, map[string]string{"action": "validate", "token": tok})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Equal(t, true, body["success"])
	require.Equal(t, true, body["valid"])
	require.NotZero(t, body["expiresAt"])
}

func TestAdminAuth_ValidateRejects(t *testing.T) {
	h := newHandler(t, validConfig())

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		rec := post(t, h, map[string]string{"action": "validate", "token": tok})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		// el wire no filtra cuál sub-chequeo falló
		require.Equal(t, "Invalid or expired token", decode(t, rec)["error"])
	}
}

func TestAdminAuth_Logout(t *testing.T) {
	h := newHandler(t, validConfig())

	// con y sin token: siempre success
	rec := post(t, h, map[string]string{"action": "logout", "token": "anything"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decode(t, rec)["success"])

	rec = post(t, h, map[string]string{"action": "logout"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, decode(t, rec)["success"])
}

func TestAdminAuth_MethodNotAllowed(t *testing.T) {
	h := newHandler(t, validConfig())

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/v1/admin/auth", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	}
}

func TestAdminAuth_MalformedJSON(t *testing.T) {
	h := newHandler(t, validConfig())

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/auth", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminAuth_UnknownAction(t *testing.T) {
	h := newHandler(t, validConfig())

	rec := post(t, h, map[string]string{"action": "refresh"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid action", decode(t, rec)["error"])
}
