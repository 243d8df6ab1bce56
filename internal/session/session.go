// Package session implementa el Session Manager del panel admin: el ciclo de
// vida client-side de "hay una sesión admin válida".
//
// El manager nunca habla HTTP directo: consume el Token Service a través de
// un Invoker inyectado (la abstracción RPC del data platform) y persiste la
// sesión en un Store local. Toda falla se clasifica en un AuthError tipado
// con uno de cuatro codes, para que la UI muestre mensajes distintos.
package session

import (
	"context"
	"time"
)

// StoredSession es el registro persistido client-side.
// Siempre se escribe completo: nunca un token sin expiresAt ni viceversa.
type StoredSession struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"` // ms epoch
}

// Expired indica si la sesión ya venció según el reloj dado.
func (s *StoredSession) Expired(now time.Time) bool {
	return s == nil || s.ExpiresAt <= now.UnixMilli()
}

// Store abstrae el storage local de la sesión (browser localStorage en la
// SPA; un archivo en el CLI).
//
// Contrato: Load retorna (nil, nil) si no hay sesión o si el contenido
// persistido está corrupto; un registro ilegible se trata como ausente,
// jamás como error.
type Store interface {
	Load(ctx context.Context) (*StoredSession, error)
	Save(ctx context.Context, s *StoredSession) error
	Clear(ctx context.Context) error
}
