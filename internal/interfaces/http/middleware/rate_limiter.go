package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	maxTrackedClients = 10_000
	clientIdleTTL     = 10 * time.Minute
)

type clientBucket struct {
	*rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client plus a shared one that caps
// the whole instance. A client over its own limit never consumes shared tokens.
type IPRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientBucket
	shared  *rate.Limiter

	clientRate  rate.Limit
	clientBurst int
}

// NewIPRateLimiter creates a limiter allowing rps/burst per client and
// globalRPS/globalBurst across all clients.
func NewIPRateLimiter(rps float64, burst int, globalRPS float64, globalBurst int) *IPRateLimiter {
	return &IPRateLimiter{
		clients:     make(map[string]*clientBucket),
		shared:      rate.NewLimiter(rate.Limit(globalRPS), globalBurst),
		clientRate:  rate.Limit(rps),
		clientBurst: burst,
	}
}

// Allow reports whether a request from client may proceed. The client's token
// is reserved first and handed back if the shared bucket is empty.
func (l *IPRateLimiter) Allow(client string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	bucket := l.bucketLocked(client, now)

	reservation := bucket.ReserveN(now, 1)
	if !reservation.OK() || reservation.DelayFrom(now) > 0 {
		reservation.CancelAt(now)
		return false
	}
	if !l.shared.AllowN(now, 1) {
		reservation.CancelAt(now)
		return false
	}
	return true
}

func (l *IPRateLimiter) bucketLocked(client string, now time.Time) *clientBucket {
	if bucket, ok := l.clients[client]; ok {
		bucket.lastSeen = now
		return bucket
	}

	if len(l.clients) >= maxTrackedClients {
		idleSince := now.Add(-clientIdleTTL)
		for key, bucket := range l.clients {
			if bucket.lastSeen.Before(idleSince) {
				delete(l.clients, key)
			}
		}
	}

	bucket := &clientBucket{
		Limiter:  rate.NewLimiter(l.clientRate, l.clientBurst),
		lastSeen: now,
	}
	l.clients[client] = bucket
	return bucket
}

// RateLimit rejects requests over the limit with 429. Requests to exemptPaths
// (liveness checks) are never limited. onReject may be nil.
func RateLimit(limiter *IPRateLimiter, onReject func(), exemptPaths ...string) func(http.Handler) http.Handler {
	exempt := make(map[string]struct{}, len(exemptPaths))
	for _, p := range exemptPaths {
		exempt[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exempt[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(clientIP(r)) {
				if onReject != nil {
					onReject()
				}
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP keys a request by the first hop named in the proxy headers, or by
// the peer address when there are none.
func clientIP(r *http.Request) string {
	for _, header := range []string{"X-Forwarded-For", "X-Real-IP"} {
		first, _, _ := strings.Cut(r.Header.Get(header), ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
