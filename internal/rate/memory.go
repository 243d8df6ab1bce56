package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLimiter: fixed window in-process sobre go-cache.
// El janitor de go-cache evicta las ventanas viejas solo; no hay map global
// que crezca sin límite.
type MemoryLimiter struct {
	c      *gocache.Cache
	Max    int64
	Window time.Duration
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		c:      gocache.New(window, window),
		Max:    int64(max),
		Window: window,
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now().UTC()
	winStart := now.Truncate(l.Window)
	k := fmt.Sprintf("%s:%d", strings.ReplaceAll(key, " ", "_"), winStart.Unix())

	var hits int64
	if err := l.c.Add(k, int64(1), l.Window); err == nil {
		hits = 1
	} else {
		n, err := l.c.IncrementInt64(k, 1)
		if err != nil {
			// la key expiró entre Add e Increment: arrancamos ventana nueva
			l.c.Set(k, int64(1), l.Window)
			n = 1
		}
		hits = n
	}

	allowed := hits <= l.Max
	remaining := l.Max - hits
	if remaining < 0 {
		remaining = 0
	}

	windowEnd := winStart.Add(l.Window)
	res := Result{
		Allowed:     allowed,
		Remaining:   remaining,
		CurrentHits: hits,
		WindowTTL:   windowEnd.Sub(now),
	}
	if !allowed {
		res.RetryAfter = windowEnd.Sub(now)
	}
	return res, nil
}
