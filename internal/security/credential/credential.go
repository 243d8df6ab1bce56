// Package credential contiene los primitivos de comparación de credenciales
// del panel admin: normalización de username, hashing sha256 y comparación
// en tiempo constante.
package credential

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/dropDatabas3/clubauth/internal/security/password"
)

// NormalizeUsername aplica trim + lowercase. Login y validate usan la misma
// normalización para que la comparación de subject sea estable.
func NormalizeUsername(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}

// SHA256 retorna el digest sha256 del input.
func SHA256(s string) []byte {
	sum := sha256.Sum256([]byte(s))
	return sum[:]
}

// SHA256Hex retorna sha256(input) en hexadecimal (formato del password hash
// de referencia en configuración).
func SHA256Hex(s string) string {
	return hex.EncodeToString(SHA256(s))
}

// Equal compara dos byte slices en tiempo constante.
// Retorna true sii tienen igual longitud y contenido idéntico.
// Para longitudes distintas retorna false sin pánico; el chequeo de longitud
// es inherentemente observable, por eso ambos lados se hashean antes de
// comparar (digests de longitud fija).
func Equal(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// UsernameMatches compara el username suministrado contra el esperado.
// Ambos se normalizan y hashean antes de la comparación en tiempo constante,
// así la latencia no depende de dónde difieren.
func UsernameMatches(supplied, expected string) bool {
	return Equal(SHA256(NormalizeUsername(supplied)), SHA256(NormalizeUsername(expected)))
}

// VerifyPassword verifica el password contra el hash de referencia.
// Soporta dos formatos:
//   - PHC $argon2id$... (instalaciones que migran desde el identity server)
//   - sha256 hex (formato por defecto del panel admin)
func VerifyPassword(plain, ref string) bool {
	if strings.HasPrefix(ref, "$argon2id$") {
		return password.Verify(plain, ref)
	}
	// Siempre computamos el digest del candidato antes de decidir,
	// aunque el hash de referencia sea inválido.
	sum := SHA256(plain)
	refBytes, err := hex.DecodeString(strings.TrimSpace(ref))
	if err != nil {
		return false
	}
	return Equal(sum, refBytes)
}
