// Package token emite y verifica los session tokens del panel admin.
//
// Formato wire: JWT compacto HS256 (header.payload.signature, base64url sin
// padding). La emisión usa golang-jwt para garantizar compatibilidad bit a bit
// con el formato estándar; la verificación es propia porque el contrato exige
// un orden fijo (firma ANTES de parsear el payload) y una taxonomía de razones
// que jwt.Parse no expone.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// MinTTL es el piso duro de vida de un token: 5 minutos,
	// sin importar lo que pida la configuración.
	MinTTL = 300 * time.Second

	// DefaultTTL aplica cuando la configuración no define un TTL.
	DefaultTTL = 3600 * time.Second
)

// Reason clasifica internamente por qué un token fue rechazado.
// En el wire todas colapsan a valid:false; la razón solo se loguea.
type Reason string

const (
	ReasonMalformed        Reason = "malformed_token"
	ReasonInvalidSignature Reason = "invalid_signature"
	ReasonMalformedPayload Reason = "malformed_payload"
	ReasonExpired          Reason = "expired"
)

// VerifyError envuelve la razón de rechazo de un token.
type VerifyError struct {
	Reason Reason
}

func (e *VerifyError) Error() string { return string(e.Reason) }

// Claims es el payload decodificado de un token válido.
type Claims struct {
	Sub string `json:"sub"`
	Iat int64  `json:"iat"`
	Exp int64  `json:"exp"`
	Jti string `json:"jti,omitempty"`
}

// ExpiresAtMs retorna exp en milisegundos epoch (formato del wire contract).
func (c *Claims) ExpiresAtMs() int64 { return c.Exp * 1000 }

// ─────────────────────────────────────────────────────────────────
// Minter
// ─────────────────────────────────────────────────────────────────

// Minter emite tokens firmados con HMAC-SHA256.
type Minter struct {
	Secret []byte
	TTL    time.Duration // TTL pedido; el piso MinTTL se aplica al emitir
	Clock  Clock
}

// Mint emite un token para el subject dado.
// exp = iat + max(TTL, MinTTL). Incluye jti para un futuro denylist.
func (m *Minter) Mint(subject string) (string, time.Time, error) {
	ttl := m.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if ttl < MinTTL {
		ttl = MinTTL
	}
	clk := m.Clock
	if clk == nil {
		clk = SystemClock()
	}

	now := clk.Now()
	exp := now.Add(ttl)

	claims := jwtv5.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": exp.Unix(),
		"jti": uuid.NewString(),
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	tk.Header["typ"] = "JWT"

	signed, err := tk.SignedString(m.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	// exp en segundos enteros: es lo que viaja en el claim
	return signed, time.Unix(exp.Unix(), 0).UTC(), nil
}

// ─────────────────────────────────────────────────────────────────
// Verifier
// ─────────────────────────────────────────────────────────────────

// Verifier valida tokens emitidos por Minter (o por cualquier librería JWT
// estándar con HS256 y el mismo secret).
type Verifier struct {
	Secret []byte
	Clock  Clock
}

// Verify valida el token y retorna sus claims.
// Orden estricto:
//  1. estructura de tres segmentos no vacíos
//  2. firma HMAC-SHA256 sobre header.payload, comparación en tiempo constante
//  3. decodificación del payload (exp debe ser numérico)
//  4. expiración: exp <= now rechaza (sin tolerancia)
//
// El payload no se parsea antes de verificar la firma: nunca interpretamos
// bytes que no estén autenticados.
func (v *Verifier) Verify(tokenStr string) (*Claims, error) {
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return nil, &VerifyError{Reason: ReasonMalformed}
	}

	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, &VerifyError{Reason: ReasonMalformed}
	}

	mac := hmac.New(sha256.New, v.Secret)
	mac.Write([]byte(parts[0] + "." + parts[1]))
	if !hmac.Equal(mac.Sum(nil), sig) {
		return nil, &VerifyError{Reason: ReasonInvalidSignature}
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, &VerifyError{Reason: ReasonMalformedPayload}
	}

	var raw struct {
		Sub string      `json:"sub"`
		Iat json.Number `json:"iat"`
		Exp json.Number `json:"exp"`
		Jti string      `json:"jti"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, &VerifyError{Reason: ReasonMalformedPayload}
	}
	exp, err := raw.Exp.Int64()
	if err != nil {
		return nil, &VerifyError{Reason: ReasonMalformedPayload}
	}
	iat, _ := raw.Iat.Int64()

	clk := v.Clock
	if clk == nil {
		clk = SystemClock()
	}
	if exp <= clk.Now().Unix() {
		return nil, &VerifyError{Reason: ReasonExpired}
	}

	return &Claims{Sub: raw.Sub, Iat: iat, Exp: exp, Jti: raw.Jti}, nil
}
