package security

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// TokenBlacklist is an in-memory denylist of session tokens with expiry
// timestamps (epoch seconds). An entry whose expiry has passed is treated as
// absent even before the sweeper physically removes it. Constructed once per
// process and injected into the auth middleware.
type TokenBlacklist struct {
	revoked       sync.Map // token string -> expiry int64
	sweepInterval time.Duration
	stop          chan struct{}
	stopOnce      sync.Once
	logger        *zap.Logger
}

// NewTokenBlacklist creates a blacklist that sweeps expired entries every
// sweepInterval. Call Start to launch the sweeper and Stop on shutdown.
func NewTokenBlacklist(sweepInterval time.Duration, logger *zap.Logger) *TokenBlacklist {
	if sweepInterval <= 0 {
		sweepInterval = 5 * time.Minute
	}
	return &TokenBlacklist{
		sweepInterval: sweepInterval,
		stop:          make(chan struct{}),
		logger:        logger,
	}
}

// Revoke marks a token as denied until the given time. Re-revoking updates
// the expiry.
func (b *TokenBlacklist) Revoke(token string, expiresAtEpochSeconds int64) {
	b.revoked.Store(token, expiresAtEpochSeconds)
}

// IsRevoked reports whether the token is currently denied. Expired entries
// are evicted lazily on read.
func (b *TokenBlacklist) IsRevoked(token string) bool {
	val, ok := b.revoked.Load(token)
	if !ok {
		return false
	}
	if time.Now().Unix() >= val.(int64) {
		b.revoked.Delete(token)
		return false
	}
	return true
}

// Start launches the periodic sweeper. The sweep only bounds memory; losing
// a race with a concurrent Revoke on an already-expired entry is harmless.
func (b *TokenBlacklist) Start() {
	go func() {
		ticker := time.NewTicker(b.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				b.sweep()
			case <-b.stop:
				return
			}
		}
	}()
}

// Stop terminates the sweeper. Safe to call more than once.
func (b *TokenBlacklist) Stop() {
	b.stopOnce.Do(func() { close(b.stop) })
}

func (b *TokenBlacklist) sweep() {
	now := time.Now().Unix()
	removed := 0
	b.revoked.Range(func(key, value interface{}) bool {
		if value.(int64) <= now {
			b.revoked.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 && b.logger != nil {
		b.logger.Debug("Swept expired revoked tokens", zap.Int("removed", removed))
	}
}
