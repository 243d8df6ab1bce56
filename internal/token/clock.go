package token

import "time"

// Clock abstrae el reloj de pared para poder simular expiración en tests
// sin sleeps reales. Mint y Verify reciben el mismo Clock en producción.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock retorna el reloj real del sistema (UTC).
func SystemClock() Clock { return systemClock{} }
