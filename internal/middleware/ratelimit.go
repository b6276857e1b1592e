package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"beyondnp-backend/internal/response"
)

const (
	visitorIdle     = 5 * time.Minute
	cleanupInterval = time.Minute
)

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	visitors sync.Map
	rps      rate.Limit
	burst    int
	log      *slog.Logger
	now      func() time.Time
}

type visitor struct {
	limiter *rate.Limiter

	mu       sync.Mutex
	lastSeen time.Time
}

func (v *visitor) touch(now time.Time) {
	v.mu.Lock()
	v.lastSeen = now
	v.mu.Unlock()
}

func (v *visitor) idleSince(cutoff time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastSeen.Before(cutoff)
}

// NewIPRateLimiter allows perMinute requests per IP with the given burst.
// Idle visitors are dropped until ctx is done.
func NewIPRateLimiter(ctx context.Context, perMinute, burst int, logger *slog.Logger) *IPRateLimiter {
	l := &IPRateLimiter{
		rps:   rate.Limit(float64(perMinute) / 60.0),
		burst: burst,
		log:   logger,
		now:   time.Now,
	}
	go l.cleanupVisitors(ctx)
	return l
}

func (l *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	now := l.now()
	if v, ok := l.visitors.Load(ip); ok {
		vi := v.(*visitor)
		vi.touch(now)
		return vi.limiter
	}
	v, _ := l.visitors.LoadOrStore(ip, &visitor{limiter: rate.NewLimiter(l.rps, l.burst), lastSeen: now})
	return v.(*visitor).limiter
}

func (l *IPRateLimiter) cleanupVisitors(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.prune(l.now().Add(-visitorIdle))
		}
	}
}

func (l *IPRateLimiter) prune(cutoff time.Time) {
	l.visitors.Range(func(k, v any) bool {
		if v.(*visitor).idleSince(cutoff) {
			l.visitors.Delete(k)
		}
		return true
	})
}

// Handler rejects requests over the limit with 429.
func (l *IPRateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.getLimiter(ip).Allow() {
			l.log.Warn("rate limit exceeded", slog.String("ip", ip), slog.String("path", r.URL.Path))
			response.Fail(w, http.StatusTooManyRequests, "Too many requests, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP reads RemoteAddr, which chi's RealIP middleware has already
// replaced with the forwarded address when present.
func clientIP(r *http.Request) string {
	ip := r.RemoteAddr
	if ip == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(ip); err == nil {
		return host
	}
	return ip
}
