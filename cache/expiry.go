package cache

import (
	"time"

	"github.com/dlshle/nscache/storage"
)

// computeExpiry returns the absolute expiry in unix milliseconds for a write at now. A nil ttl
// falls back to stdTTL; a non positive effective ttl means the entry never expires (0). A
// positive ttl below one millisecond counts as one millisecond.
func computeExpiry(now int64, ttl *time.Duration, stdTTL time.Duration) int64 {
	effective := stdTTL
	if ttl != nil {
		effective = *ttl
	}
	if effective <= 0 {
		return 0
	}
	return now + max(effective.Milliseconds(), 1)
}

func isValid[V any](e storage.Entry[V], now int64) bool {
	return e.ExpiresAt == 0 || e.ExpiresAt > now
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// fromMillis maps 0 to the zero time.
func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// TTL returns a pointer to d for Item.TTL.
func TTL(d time.Duration) *time.Duration {
	return &d
}
