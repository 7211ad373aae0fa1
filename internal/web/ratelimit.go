package web

import (
	"net"
	"net/http"
	"time"

	"github.com/appealtrack/portal/internal/hashmap"
	"golang.org/x/time/rate"
)

var (
	loginLimiterRate     = rate.Every(time.Second)
	loginLimiterBurst    = 10
	loginLimiterLifetime = 15 * time.Minute
)

// loginLimiter throttles the login entry points per remote IP to slow down
// brute-forced authorization codes and tracking numbers
type loginLimiter struct {
	limiters *hashmap.ExpiringMap[string, *rate.Limiter]
}

func newLoginLimiter() *loginLimiter {
	limiters := hashmap.NewExpiring[string, *rate.Limiter](loginLimiterLifetime)
	limiters.ScheduleCleanupTask(time.Minute)
	return &loginLimiter{
		limiters: limiters,
	}
}

func (limiter *loginLimiter) allow(ip string) bool {
	lim, ok := limiter.limiters.Lookup(ip)
	if !ok {
		lim = rate.NewLimiter(loginLimiterRate, loginLimiterBurst)
	}
	// Re-set on every hit so active clients keep their bucket
	limiter.limiters.Set(ip, lim)
	return lim.Allow()
}

func (limiter *loginLimiter) stop() {
	limiter.limiters.StopCleanupTask()
}

// MiddlewareRateLimitLogin rejects login requests exceeding the per-IP rate
func (service *Service) MiddlewareRateLimitLogin(next http.HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		ip, _, err := net.SplitHostPort(request.RemoteAddr)
		if err != nil {
			ip = request.RemoteAddr
		}
		if !service.loginLimiter.allow(ip) {
			service.renderer.Render(writer, http.StatusTooManyRequests, "error.html", nil)
			return
		}
		next(writer, request)
	}
}
