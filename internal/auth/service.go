// Package auth implementa el Token Service del panel admin: emisión y
// verificación stateless de session tokens firmados.
//
// Cada llamada es función pura de (request, configuración, reloj). No hay
// estado por sesión del lado servidor: el token firmado ES la sesión. Eso
// permite escalar horizontalmente sin afinidad ni storage compartido, y
// también significa que logout es un no-op del lado servidor (limitación
// conocida, ver DESIGN.md).
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/dropDatabas3/clubauth/internal/observability/logger"
	"github.com/dropDatabas3/clubauth/internal/security/credential"
	"github.com/dropDatabas3/clubauth/internal/token"
)

// Config es la credencial de referencia del proceso, inmutable una vez
// construido el Service.
type Config struct {
	Username      string        // username esperado (se normaliza al comparar)
	PasswordHash  string        // sha256 hex o PHC $argon2id$
	SigningSecret string        // secret HMAC
	TokenTTL      time.Duration // TTL pedido; token.MinTTL es el piso
}

// Complete indica si la configuración alcanza para operar.
func (c Config) Complete() bool {
	return strings.TrimSpace(c.Username) != "" &&
		strings.TrimSpace(c.PasswordHash) != "" &&
		c.SigningSecret != ""
}

// Session es el resultado de un login exitoso.
type Session struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"` // ms epoch, para display/comparación del cliente
}

// Razones de rechazo propias de Validate, además de las de token.Verifier.
const (
	ReasonMissingToken   = "missing_token"
	ReasonInvalidSubject = "invalid_subject"
)

// ValidationResult es la respuesta estructurada de Validate.
// Un token inválido NO es un error: Valid=false con la razón interna.
type ValidationResult struct {
	Valid     bool
	ExpiresAt int64  // ms epoch; solo con Valid=true
	Reason    string // interno, solo para logs; no viaja en el wire
}

// Service es el Token Service. Sin estado mutable: seguro bajo concurrencia
// por construcción.
type Service struct {
	cfg      Config
	clock    token.Clock
	minter   *token.Minter
	verifier *token.Verifier
}

func NewService(cfg Config, clk token.Clock) *Service {
	if clk == nil {
		clk = token.SystemClock()
	}
	secret := []byte(cfg.SigningSecret)
	return &Service{
		cfg:      cfg,
		clock:    clk,
		minter:   &token.Minter{Secret: secret, TTL: cfg.TokenTTL, Clock: clk},
		verifier: &token.Verifier{Secret: secret, Clock: clk},
	}
}

// Login verifica credenciales y emite un token.
//
// Ambas comparaciones (username y password) se ejecutan siempre, aunque la
// primera ya haya fallado: la latencia observable no debe distinguir cuál
// campo estuvo mal. Por eso no hay returns tempranos entre las dos.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil, ErrMissingFields
	}
	if !s.cfg.Complete() {
		logger.From(ctx).Error("login rejected: incomplete configuration", logger.Action("login"))
		return nil, ErrNotConfigured
	}

	userOK := credential.UsernameMatches(username, s.cfg.Username)
	passOK := credential.VerifyPassword(password, s.cfg.PasswordHash)
	if !userOK || !passOK {
		logger.From(ctx).Info("login rejected", logger.Action("login"), logger.Result("rejected"))
		return nil, ErrInvalidCredentials
	}

	subject := credential.NormalizeUsername(username)
	signed, exp, err := s.minter.Mint(subject)
	if err != nil {
		return nil, err
	}

	logger.From(ctx).Info("admin session issued",
		logger.Action("login"),
		logger.Result("ok"),
		logger.Int("ttl_seconds", int(exp.Sub(s.clock.Now()).Seconds())),
	)
	return &Session{Token: signed, ExpiresAt: exp.UnixMilli()}, nil
}

// Validate verifica un token emitido por Login.
//
// Además de firma/payload/expiración (token.Verifier), chequea que el subject
// siga correspondiendo al username configurado: rotar la credencial invalida
// los tokens emitidos para la identidad anterior.
//
// Solo retorna error con configuración incompleta; todo lo demás es
// ValidationResult{Valid:false}.
func (s *Service) Validate(ctx context.Context, tokenStr string) (*ValidationResult, error) {
	if !s.cfg.Complete() {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(tokenStr) == "" {
		return &ValidationResult{Valid: false, Reason: ReasonMissingToken}, nil
	}

	claims, err := s.verifier.Verify(tokenStr)
	if err != nil {
		reason := "verify_error"
		if verr, ok := err.(*token.VerifyError); ok {
			reason = string(verr.Reason)
		}
		logger.From(ctx).Info("token rejected", logger.Action("validate"), logger.Reason(reason))
		return &ValidationResult{Valid: false, Reason: reason}, nil
	}

	if !credential.UsernameMatches(claims.Sub, s.cfg.Username) {
		logger.From(ctx).Info("token rejected", logger.Action("validate"), logger.Reason(ReasonInvalidSubject))
		return &ValidationResult{Valid: false, Reason: ReasonInvalidSubject}, nil
	}

	return &ValidationResult{Valid: true, ExpiresAt: claims.ExpiresAtMs()}, nil
}

// Logout no tiene estado que invalidar: los tokens son auto-verificables y no
// se trackean. Existe para que el cliente tenga una llamada simétrica, y para
// que un futuro denylist (por jti) pueda agregarse sin cambiar el contrato.
func (s *Service) Logout(ctx context.Context, tokenStr string) {
	logger.From(ctx).Debug("logout acknowledged", logger.Action("logout"))
}
