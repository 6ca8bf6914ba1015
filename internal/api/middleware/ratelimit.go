package middleware

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers"
)

const (
	defaultBurst       = 5
	msgTooManyRequests = "слишком много запросов, повторите позже"
)

// RateLimiter token bucket на пользователя, для анонимных запросов на IP
type RateLimiter struct {
	limiters sync.Map
	rps      rate.Limit
	burst    int
	logger   Logger
}

// NewRateLimiter создает ограничитель частоты запросов
func NewRateLimiter(rps float64, burst int, logger Logger) *RateLimiter {
	if burst <= 0 {
		burst = defaultBurst
	}
	return &RateLimiter{rps: rate.Limit(rps), burst: burst, logger: logger}
}

// Middleware отвечает 429, когда ключ запроса исчерпал лимит
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := l.keyOf(r)
		if !l.getLimiter(key).Allow() {
			l.logger.Warn("%s %s - rate limit exceeded for %s", r.Method, r.URL.Path, key)
			handlers.RespondError(w, http.StatusTooManyRequests, handlers.CodeTooManyRequests, msgTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) keyOf(r *http.Request) string {
	if userID, ok := GetUserID(r.Context()); ok {
		return "user:" + userID.String()
	}
	if userID := r.Header.Get(HeaderUserID); userID != "" {
		return "user:" + userID
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

func (l *RateLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	lim := rate.NewLimiter(l.rps, l.burst)
	actual, _ := l.limiters.LoadOrStore(key, lim)
	return actual.(*rate.Limiter)
}
