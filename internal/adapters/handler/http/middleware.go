package http

import (
	"crypto/subtle"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RequireAPIKey gates every mutating route behind a single shared secret,
// taken from the X-API-Key header or an Authorization bearer token. Both
// sides are trimmed; an empty value on either side always rejects.
func RequireAPIKey(key string) func(http.Handler) http.Handler {
	expected := strings.TrimSpace(key)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := strings.TrimSpace(r.Header.Get("X-API-Key"))
			if presented == "" {
				if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
					presented = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
				}
			}

			if expected == "" || presented == "" ||
				subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) != 1 {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// limiterIdleTTL is how long a client bucket may sit unused before it is
// evicted, keeping the per-client map bounded over the process lifetime.
const limiterIdleTTL = time.Hour

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterPool struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	clients   map[string]*clientLimiter
	lastPrune time.Time
	now       func() time.Time
}

func newLimiterPool(limit rate.Limit, burst int) *limiterPool {
	return &limiterPool{
		limit:     limit,
		burst:     burst,
		clients:   make(map[string]*clientLimiter),
		lastPrune: time.Now(),
		now:       time.Now,
	}
}

func (p *limiterPool) get(addr string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if now.Sub(p.lastPrune) >= limiterIdleTTL {
		for a, c := range p.clients {
			if now.Sub(c.lastSeen) >= limiterIdleTTL {
				delete(p.clients, a)
			}
		}
		p.lastPrune = now
	}

	c, ok := p.clients[addr]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(p.limit, p.burst)}
		p.clients[addr] = c
	}
	c.lastSeen = now
	return c.limiter
}

// RateLimit applies a token bucket per client address, evicting buckets
// that have been idle for limiterIdleTTL.
func RateLimit(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	pool := newLimiterPool(limit, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if !pool.get(host).Allow() {
				writeError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
