package session

import "errors"

// Code clasifica una falla de auth en una categoría accionable por la UI.
// El manager garantiza que el code es SIEMPRE uno de estos cuatro: nunca
// llega un error crudo sin clasificar a la capa de presentación.
type Code string

const (
	// CodeConfig: el servicio respondió 500-class; con un servicio de un
	// solo propósito el 500 esperable es "auth no configurada" (de cualquiera
	// de los dos lados del boundary).
	CodeConfig Code = "CONFIG"

	// CodeInvalidCredentials: el servicio rechazó las credenciales (401),
	// o el input no pasó la precondición (400).
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"

	// CodeNetwork: falla de transporte, el servicio no se pudo alcanzar.
	CodeNetwork Code = "NETWORK"

	// CodeUnknown: catch-all. Nunca debe pisar una clasificación más
	// específica cuando hay una determinable.
	CodeUnknown Code = "UNKNOWN"
)

// AuthError es el error tipado que el manager expone a la UI.
type AuthError struct {
	Code    Code
	Message string
	cause   error
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return string(e.Code) + ": " + e.Message
	}
	return string(e.Code)
}

func (e *AuthError) Unwrap() error { return e.cause }

// classify convierte cualquier error del Invoker en un AuthError.
func classify(err error) *AuthError {
	var terr *TransportError
	if errors.As(err, &terr) {
		return &AuthError{Code: CodeNetwork, Message: "service unreachable", cause: err}
	}

	var serr *StatusError
	if errors.As(err, &serr) {
		msg := serr.Message()
		switch {
		case serr.Status == 401 || serr.Status == 400:
			if msg == "" {
				msg = "invalid credentials"
			}
			return &AuthError{Code: CodeInvalidCredentials, Message: msg, cause: err}
		case serr.Status >= 500:
			if msg == "" {
				msg = "service misconfigured"
			}
			return &AuthError{Code: CodeConfig, Message: msg, cause: err}
		default:
			return &AuthError{Code: CodeUnknown, Message: msg, cause: err}
		}
	}

	return &AuthError{Code: CodeUnknown, Message: err.Error(), cause: err}
}
