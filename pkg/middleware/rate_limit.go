package middleware

import (
	"net/http"
	"sync"
	"time"

	"clubhouse/pkg/logger"
)

type MemberExtractor func(r *http.Request) string

// DefaultMemberExtractor reads the caller's member id from the header the
// surrounding service layer injects after authentication.
func DefaultMemberExtractor(r *http.Request) string {
	return r.Header.Get("X-Member-ID")
}

type MemberRateLimiter struct {
	mu              sync.RWMutex
	requests        map[string][]time.Time
	limit           int
	window          time.Duration
	memberExtractor MemberExtractor
	log             *logger.Logger
	stopCh          chan struct{}
}

func NewMemberRateLimiter(limit int, window time.Duration, extractor MemberExtractor, log *logger.Logger) *MemberRateLimiter {
	limiter := &MemberRateLimiter{
		requests:        make(map[string][]time.Time),
		limit:           limit,
		window:          window,
		memberExtractor: extractor,
		log:             log,
		stopCh:          make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

func (rl *MemberRateLimiter) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for member, timestamps := range rl.requests {
				if len(timestamps) == 0 || time.Since(timestamps[len(timestamps)-1]) > rl.window {
					delete(rl.requests, member)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *MemberRateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *MemberRateLimiter) Allow(memberID string) bool {
	if memberID == "" {
		return true
	}

	now := time.Now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	timestamps := rl.requests[memberID]
	recent := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= rl.limit {
		rl.requests[memberID] = recent
		return false
	}

	rl.requests[memberID] = append(recent, now)
	return true
}

func MemberRateLimit(limiter *MemberRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			memberID := limiter.memberExtractor(r)

			if !limiter.Allow(memberID) {
				limiter.log.Warn("Rate limit exceeded",
					"member_id", memberID,
					"path", r.URL.Path,
					"method", r.Method,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"Too many requests"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
