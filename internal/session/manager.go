package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dropDatabas3/clubauth/internal/observability/logger"
	"github.com/dropDatabas3/clubauth/internal/token"
)

// Endpoint del Token Service en el data platform.
const authEndpoint = "admin-auth"

// State es el flag de autorización visible para la UI.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticating  State = "authenticating"
	StateAuthorized      State = "authorized"
)

// Manager es el dueño del ciclo de vida de la sesión admin del lado cliente.
//
// Concurrencia: login y validate pueden solaparse (bootstrap + login
// interactivo). Cada uno escribe SIEMPRE un par {token, expiresAt} completo
// al Store, así el último write gana sin dejar registros parciales. El estado
// va detrás de un mutex. Un resultado in-flight cuyo contexto fue cancelado
// se descarta antes de commitear (ni estado ni storage).
type Manager struct {
	invoker Invoker
	store   Store
	clock   token.Clock

	mu    sync.Mutex
	state State
}

func NewManager(inv Invoker, store Store, clk token.Clock) *Manager {
	if clk == nil {
		clk = token.SystemClock()
	}
	return &Manager{
		invoker: inv,
		store:   store,
		clock:   clk,
		state:   StateUnauthenticated,
	}
}

// State retorna el estado de autorización actual.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// CurrentSession lee la sesión persistida (nil si no hay o está corrupta).
func (m *Manager) CurrentSession(ctx context.Context) (*StoredSession, error) {
	return m.store.Load(ctx)
}

// LoginAsAdmin llama al Token Service y persiste la sesión resultante.
// Toda falla sale como *AuthError con uno de los cuatro codes.
func (m *Manager) LoginAsAdmin(ctx context.Context, username, password string) (*StoredSession, error) {
	m.setState(StateAuthenticating)

	data, err := m.invoker.Invoke(ctx, authEndpoint, map[string]string{
		"action":   "login",
		"username": username,
		"password": password,
	})
	if err != nil {
		m.setState(StateUnauthenticated)
		aerr := classify(err)
		logger.From(ctx).Info("admin login failed",
			logger.Endpoint(authEndpoint), logger.String("code", string(aerr.Code)))
		return nil, aerr
	}

	var resp struct {
		Success   bool   `json:"success"`
		Token     string `json:"token"`
		ExpiresAt int64  `json:"expiresAt"`
	}
	if err := json.Unmarshal(data, &resp); err != nil || !resp.Success || resp.Token == "" || resp.ExpiresAt <= 0 {
		m.setState(StateUnauthenticated)
		return nil, &AuthError{Code: CodeUnknown, Message: "unexpected login response"}
	}

	// resultado in-flight con contexto cancelado: descartar, no commitear
	if ctx.Err() != nil {
		m.setState(StateUnauthenticated)
		return nil, &AuthError{Code: CodeUnknown, Message: "login cancelled", cause: ctx.Err()}
	}

	sess := &StoredSession{Token: resp.Token, ExpiresAt: resp.ExpiresAt}
	if err := m.store.Save(ctx, sess); err != nil {
		m.setState(StateUnauthenticated)
		return nil, &AuthError{Code: CodeUnknown, Message: "could not persist session", cause: err}
	}

	m.setState(StateAuthorized)
	return sess, nil
}

// ValidateAdminSession revalida una sesión persistida contra el servicio.
//
//   - Expirada localmente: false sin round trip (el server la rechazaría igual).
//   - Resultado válido: re-persiste con el expiresAt confirmado por el server
//     (el token no cambia) y promueve el estado a Authorized.
//   - Falla de cualquier tipo: false. NO limpia el storage: separar "chequear"
//     de "evictar" es responsabilidad del caller (silencioso en bootstrap).
func (m *Manager) ValidateAdminSession(ctx context.Context, s *StoredSession) bool {
	if s == nil || s.Token == "" {
		return false
	}
	if s.Expired(m.clock.Now()) {
		m.setState(StateUnauthenticated)
		return false
	}

	data, err := m.invoker.Invoke(ctx, authEndpoint, map[string]string{
		"action": "validate",
		"token":  s.Token,
	})
	if err != nil {
		logger.From(ctx).Debug("session validation failed", logger.Err(err))
		m.setState(StateUnauthenticated)
		return false
	}

	var resp struct {
		Success   bool  `json:"success"`
		Valid     bool  `json:"valid"`
		ExpiresAt int64 `json:"expiresAt"`
	}
	if err := json.Unmarshal(data, &resp); err != nil || !resp.Success || !resp.Valid {
		m.setState(StateUnauthenticated)
		return false
	}

	// validación in-flight tras cancelación: descartar sin aplicar
	if ctx.Err() != nil {
		return false
	}

	refreshed := &StoredSession{Token: s.Token, ExpiresAt: s.ExpiresAt}
	if resp.ExpiresAt > 0 {
		refreshed.ExpiresAt = resp.ExpiresAt
	}
	if err := m.store.Save(ctx, refreshed); err != nil {
		logger.From(ctx).Warn("could not refresh stored session", logger.Err(err))
	}

	m.setState(StateAuthorized)
	return true
}

// LogoutAdminSession siempre limpia la sesión local primero (incondicional);
// después notifica al servicio best-effort. Una falla de red acá se loguea y
// se traga: la sesión client-side ya no existe, que es lo que importa.
func (m *Manager) LogoutAdminSession(ctx context.Context, tok string) error {
	if err := m.store.Clear(ctx); err != nil {
		logger.From(ctx).Warn("could not clear stored session", logger.Err(err))
	}
	m.setState(StateUnauthenticated)

	body := map[string]string{"action": "logout"}
	if tok != "" {
		body["token"] = tok
	}
	if _, err := m.invoker.Invoke(ctx, authEndpoint, body); err != nil {
		logger.From(ctx).Debug("best-effort logout notification failed", logger.Err(err))
	}
	return nil
}
