package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tarotnautica/backend/internal/auth"
	"github.com/tarotnautica/backend/internal/cache"
)

// Plan names for rate limiting purposes. Authenticated users get a higher
// allowance than anonymous visitors.
const (
	PlanAnonymous     = "anonymous"
	PlanAuthenticated = "authenticated"
)

// Limit defines rate limits for a plan
type Limit struct {
	RequestsPerMinute int `json:"requests_per_minute"`
	RequestsPerDay    int `json:"requests_per_day"` // -1 means unlimited
}

// DefaultLimits defines the default rate limits per plan
var DefaultLimits = map[string]Limit{
	PlanAnonymous:     {RequestsPerMinute: 20, RequestsPerDay: 1000},
	PlanAuthenticated: {RequestsPerMinute: 100, RequestsPerDay: -1},
}

// RateLimitInfo contains rate limit information for a response
type RateLimitInfo struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"` // Unix timestamp
}

// RateLimiter handles rate limiting using Redis
type RateLimiter struct {
	cache  *cache.Redis
	limits map[string]Limit
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(cache *cache.Redis) *RateLimiter {
	return &RateLimiter{
		cache:  cache,
		limits: DefaultLimits,
	}
}

// NewRateLimiterWithLimits creates a rate limiter with custom limits
func NewRateLimiterWithLimits(cache *cache.Redis, limits map[string]Limit) *RateLimiter {
	return &RateLimiter{
		cache:  cache,
		limits: limits,
	}
}

// LimitsWithAuthenticatedPerMinute returns the default limits with the
// authenticated per-minute allowance overridden. Non-positive values keep the
// default.
func LimitsWithAuthenticatedPerMinute(perMinute int) map[string]Limit {
	limits := make(map[string]Limit, len(DefaultLimits))
	for plan, limit := range DefaultLimits {
		limits[plan] = limit
	}
	if perMinute > 0 {
		authenticated := limits[PlanAuthenticated]
		authenticated.RequestsPerMinute = perMinute
		limits[PlanAuthenticated] = authenticated
	}
	return limits
}

// Allow checks if a request should be allowed based on rate limits
func (r *RateLimiter) Allow(ctx context.Context, identifier string, plan string) (bool, error) {
	limit, ok := r.limits[plan]
	if !ok {
		limit = r.limits[PlanAnonymous]
	}

	minuteKey := fmt.Sprintf("ratelimit:minute:%s", identifier)
	allowed, _, err := r.checkSlidingWindowLimit(ctx, minuteKey, limit.RequestsPerMinute, time.Minute)
	if err != nil {
		return false, err
	}
	if !allowed {
		return false, nil
	}

	if limit.RequestsPerDay > 0 {
		dayKey := fmt.Sprintf("ratelimit:day:%s", identifier)
		allowed, _, err = r.checkSlidingWindowLimit(ctx, dayKey, limit.RequestsPerDay, 24*time.Hour)
		if err != nil {
			return false, err
		}
		if !allowed {
			return false, nil
		}
	}

	return true, nil
}

// GetRemaining returns the remaining requests for an identifier
func (r *RateLimiter) GetRemaining(ctx context.Context, identifier string, plan string) (*RateLimitInfo, error) {
	limit, ok := r.limits[plan]
	if !ok {
		limit = r.limits[PlanAnonymous]
	}

	minuteKey := fmt.Sprintf("ratelimit:minute:%s", identifier)
	_, remaining, err := r.getSlidingWindowRemaining(ctx, minuteKey, limit.RequestsPerMinute, time.Minute)
	if err != nil {
		return nil, err
	}

	// Reset at the end of the current minute
	now := time.Now()
	reset := now.Truncate(time.Minute).Add(time.Minute).Unix()

	return &RateLimitInfo{
		Limit:     limit.RequestsPerMinute,
		Remaining: remaining,
		Reset:     reset,
	}, nil
}

// Middleware returns HTTP middleware that enforces rate limits
func (r *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()

		identifier, plan := r.getIdentifierAndPlan(req)

		allowed, err := r.Allow(ctx, identifier, plan)
		if err != nil {
			// Allow the request on rate limiter failure so a Redis outage
			// does not take the API down with it.
			next.ServeHTTP(w, req)
			return
		}

		info, err := r.GetRemaining(ctx, identifier, plan)
		if err == nil {
			r.setRateLimitHeaders(w, info)
		}

		if !allowed {
			r.writeRateLimitExceeded(w, info)
			return
		}

		next.ServeHTTP(w, req)
	})
}

// getIdentifierAndPlan extracts the identifier and plan from the request
func (r *RateLimiter) getIdentifierAndPlan(req *http.Request) (string, string) {
	if userID := auth.GetUserID(req.Context()); userID != "" {
		return userID, PlanAuthenticated
	}

	// Fall back to IP address for anonymous users
	return getClientIP(req), PlanAnonymous
}

// setRateLimitHeaders sets rate limit headers on the response
func (r *RateLimiter) setRateLimitHeaders(w http.ResponseWriter, info *RateLimitInfo) {
	if info == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.Reset, 10))
}

// writeRateLimitExceeded writes a rate limit exceeded response
func (r *RateLimiter) writeRateLimitExceeded(w http.ResponseWriter, info *RateLimitInfo) {
	retryAfter := int64(60)
	if info != nil {
		retryAfter = info.Reset - time.Now().Unix()
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
	w.WriteHeader(http.StatusTooManyRequests)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":       "rate_limit_exceeded",
		"message":     "You have exceeded your rate limit. Please try again later.",
		"retry_after": retryAfter,
	})
}

// getClientIP extracts the client IP from the request
func getClientIP(req *http.Request) string {
	// Check X-Forwarded-For header (common for proxies/load balancers)
	xff := req.Header.Get("X-Forwarded-For")
	if xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	xri := req.Header.Get("X-Real-IP")
	if xri != "" {
		return xri
	}

	// Fall back to RemoteAddr, stripping the port
	ip := req.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
		if ip[i] == ']' {
			// IPv6 address
			break
		}
	}
	return ip
}

// GetLimitForPlan returns the limit for a specific plan
func (r *RateLimiter) GetLimitForPlan(plan string) Limit {
	limit, ok := r.limits[plan]
	if !ok {
		return r.limits[PlanAnonymous]
	}
	return limit
}
