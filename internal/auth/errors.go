package auth

import "errors"

// Errores que cruzan el boundary público del Token Service.
// Condiciones esperadas (token inválido) NO son errores: se reportan como
// ValidationResult{Valid:false}; esto solo cubre precondiciones y config.
var (
	// ErrNotConfigured: falta signing secret, username esperado o password
	// hash en la configuración. El servicio rechaza todo (fail closed); se
	// reporta distinto de un fallo de credenciales para que un deploy roto
	// no parezca un password olvidado.
	ErrNotConfigured = errors.New("admin authentication is not configured")

	// ErrMissingFields: username o password vacíos tras trim.
	ErrMissingFields = errors.New("username and password are required")

	// ErrInvalidCredentials: username o password incorrectos. Mensaje único
	// sin distinguir cuál campo falló (anti user-enumeration).
	ErrInvalidCredentials = errors.New("invalid credentials")
)
