package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"pet-manager-api/internal/httpjson"
)

// Limiter decides whether one more request from key may go through.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// KeyFunc names the client a request is counted against.
type KeyFunc func(*http.Request) string

// ClientKey keys on the socket peer. With trustProxy it takes the first
// X-Forwarded-For hop instead, which any client can forge unless a proxy in
// front overwrites the header.
func ClientKey(trustProxy bool) KeyFunc {
	return func(r *http.Request) string {
		if trustProxy {
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if first = strings.TrimSpace(first); first != "" {
					return first
				}
			}
		}
		return hostOnly(r.RemoteAddr)
	}
}

// Limit answers 429 once l refuses a client. If l itself fails the request
// goes through when failOpen is set and gets 503 otherwise.
func Limit(l Limiter, key KeyFunc, log *zap.Logger, failOpen bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := l.Allow(r.Context(), key(r))
			if err != nil {
				log.Warn("rate limiter unavailable", zap.Error(err))
				if !failOpen {
					httpjson.Error(w, http.StatusServiceUnavailable, "Rate limiter unavailable")
					return
				}
				ok = true
			}
			if !ok {
				httpjson.Error(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter is a token bucket per client, held in process memory.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	r       rate.Limit
	burst   int
	stop    chan struct{}
	once    sync.Once
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*client),
		r:       rate.Limit(rps),
		burst:   burst,
		stop:    make(chan struct{}),
	}
	go rl.janitor(time.Minute, 3*time.Minute)
	return rl
}

// Stop ends the cleanup goroutine.
func (rl *RateLimiter) Stop() { rl.once.Do(func() { close(rl.stop) }) }

// drop entries idle for longer than ttl
func (rl *RateLimiter) janitor(every, ttl time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-t.C:
			rl.mu.Lock()
			for k, c := range rl.clients {
				if time.Since(c.seen) > ttl {
					delete(rl.clients, k)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if c, ok := rl.clients[key]; ok {
		c.seen = time.Now()
		return c.lim
	}
	l := rate.NewLimiter(rl.r, rl.burst)
	rl.clients[key] = &client{lim: l, seen: time.Now()}
	return l
}

func (rl *RateLimiter) Allow(_ context.Context, key string) (bool, error) {
	return rl.get(key).Allow(), nil
}

// UnaryInterceptor limits gRPC calls per peer address. Give it a limiter of
// its own so these calls never spend an HTTP client's budget.
func (rl *RateLimiter) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		key := "unknown"
		if p, ok := peer.FromContext(ctx); ok {
			key = hostOnly(p.Addr.String())
		}
		if !rl.get("grpc:" + key).Allow() {
			return nil, status.Error(codes.ResourceExhausted, "too many requests")
		}
		return next(ctx, req)
	}
}

func hostOnly(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
