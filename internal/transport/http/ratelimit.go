package http

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleLimiterTTL is how long an unused per-client limiter is kept
const idleLimiterTTL = 5 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter keeps one token bucket per client address
type ipLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*limiterEntry
	swept   time.Time
	now     func() time.Time
}

func newIPLimiter(perSecond float64, burst int) *ipLimiter {
	return &ipLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		clients: make(map[string]*limiterEntry),
		now:     time.Now,
	}
}

// Allow reports whether a request from key may proceed now
func (l *ipLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	entry, ok := l.clients[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// sweep drops idle limiters at most once per TTL
func (l *ipLimiter) sweep(now time.Time) {
	if now.Sub(l.swept) < idleLimiterTTL {
		return
	}
	l.swept = now
	for key, entry := range l.clients {
		if now.Sub(entry.lastSeen) > idleLimiterTTL {
			delete(l.clients, key)
		}
	}
}
