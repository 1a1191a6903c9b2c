package httpx

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/tenantauth/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the rate limiting parameters of one profile.
type RateLimitConfig struct {
	// Name labels the profile in logs and metrics.
	Name string
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int
	// Window is the time window for rate limiting
	Window time.Duration
	// Burst allows for temporary bursts above the rate limit
	Burst int
}

// Rate limit profiles. Each can be overridden with
// RATELIMIT_{NAME}_REQUESTS, RATELIMIT_{NAME}_WINDOW_SEC and RATELIMIT_{NAME}_BURST.
var (
	// StrictLimit guards credential checks on the token endpoint.
	StrictLimit = RateLimitConfig{Name: "strict", RequestsPerWindow: 30, Window: time.Minute, Burst: 10}

	// ModerateLimit guards authenticated management calls.
	ModerateLimit = RateLimitConfig{Name: "moderate", RequestsPerWindow: 60, Window: time.Minute, Burst: 20}

	// PublicLimit guards introspection and discovery documents.
	PublicLimit = RateLimitConfig{Name: "public", RequestsPerWindow: 1000, Window: time.Minute, Burst: 200}
)

func init() {
	StrictLimit = ParseRateLimitFromEnv(StrictLimit)
	ModerateLimit = ParseRateLimitFromEnv(ModerateLimit)
	PublicLimit = ParseRateLimitFromEnv(PublicLimit)
}

// ParseRateLimitFromEnv overlays RATELIMIT_{NAME}_* variables on def.
// Invalid or non-positive values are ignored.
func ParseRateLimitFromEnv(def RateLimitConfig) RateLimitConfig {
	prefix := "RATELIMIT_" + strings.ToUpper(def.Name) + "_"
	out := def

	if n, ok := positiveEnv(prefix + "REQUESTS"); ok {
		out.RequestsPerWindow = n
	}
	if n, ok := positiveEnv(prefix + "WINDOW_SEC"); ok {
		out.Window = time.Duration(n) * time.Second
	}
	if n, ok := positiveEnv(prefix + "BURST"); ok {
		out.Burst = n
	}
	return out
}

func positiveEnv(key string) (int, bool) {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// RejectHook is invoked with the profile name whenever a request is throttled.
// It is set once during startup, typically to bump a metrics counter.
var RejectHook func(profile string)

// KeyExtractor groups requests for rate limiting (IP, client id, ...).
type KeyExtractor func(*http.Request) string

// TrustProxyHeaders makes IPKeyExtractor prefer X-Forwarded-For and
// X-Real-IP over the peer address. Only enable it behind a proxy that
// overwrites those headers, otherwise callers pick their own bucket.
var TrustProxyHeaders bool

// IPKeyExtractor extracts the client IP address from the request.
func IPKeyExtractor(r *http.Request) string {
	if TrustProxyHeaders {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			return strings.TrimSpace(first)
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// CallerKeyExtractor returns the authenticated caller's client id, or "".
func CallerKeyExtractor(r *http.Request) string {
	if id, ok := r.Context().Value(CtxKeyClientID).(string); ok {
		return id
	}
	return ""
}

// ClientIDKeyExtractor returns the client id presented on a token request,
// either through HTTP Basic auth or the client_id form field.
func ClientIDKeyExtractor(r *http.Request) string {
	if id, _, ok := r.BasicAuth(); ok && id != "" {
		return id
	}
	return FormFieldKeyExtractor("client_id")(r)
}

// CompositeKeyExtractor joins the non-empty keys of several extractors.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(extractors))
		for _, extract := range extractors {
			if key := extract(r); key != "" {
				parts = append(parts, key)
			}
		}
		return strings.Join(parts, sep)
	}
}

// FormFieldKeyExtractor extracts a key from a query or form field.
func FormFieldKeyExtractor(fieldName string) KeyExtractor {
	return func(r *http.Request) string {
		if err := r.ParseForm(); err == nil {
			return r.FormValue(fieldName)
		}
		return ""
	}
}

const limiterSweepInterval = 5 * time.Minute

type limiterSet struct {
	limiters sync.Map // key -> *rate.Limiter
	rate     rate.Limit
	burst    int

	mu        sync.Mutex
	lastSweep time.Time
}

func newLimiterSet(cfg RateLimitConfig) *limiterSet {
	return &limiterSet{
		rate:      rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
		burst:     cfg.Burst,
		lastSweep: time.Now(),
	}
}

func (s *limiterSet) get(key string) *rate.Limiter {
	if l, ok := s.limiters.Load(key); ok {
		return l.(*rate.Limiter)
	}
	l, _ := s.limiters.LoadOrStore(key, rate.NewLimiter(s.rate, s.burst))
	s.sweep()
	return l.(*rate.Limiter)
}

// sweep drops limiters whose bucket has refilled, which means the key is idle.
func (s *limiterSet) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if time.Since(s.lastSweep) < limiterSweepInterval {
		return
	}
	s.lastSweep = time.Now()

	s.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(s.burst) {
			s.limiters.Delete(key)
		}
		return true
	})
}

// RateLimitMiddleware throttles requests grouped by keyExtractor. Requests for
// which no key can be extracted are let through.
func RateLimitMiddleware(cfg RateLimitConfig, keyExtractor KeyExtractor) Middleware {
	set := newLimiterSet(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := keyExtractor(r)
			if key == "" {
				log.Warn("rate limit: unable to extract key, allowing request", "profile", cfg.Name)
				next.ServeHTTP(w, r)
				return
			}

			limiter := set.get(key)
			if limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			res := limiter.Reserve()
			retryAfter := max(int(res.Delay().Seconds()), 1)
			res.Cancel()

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Window", cfg.Window.String())

			log.Warn("rate limit exceeded",
				"profile", cfg.Name,
				"key", key,
				"endpoint", r.URL.Path,
				"retry_after", retryAfter,
			)
			if RejectHook != nil {
				RejectHook(cfg.Name)
			}

			WriteJSON(w, http.StatusTooManyRequests, map[string]string{
				"error":             "rate_limit_exceeded",
				"error_description": "Too many requests. Please try again later.",
			})
		})
	}
}

// RateLimitByIP limits by client IP address only.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	return RateLimitMiddleware(cfg, IPKeyExtractor)
}

// RateLimitByCaller limits by authenticated client id, falling back to IP.
func RateLimitByCaller(cfg RateLimitConfig) Middleware {
	return RateLimitMiddleware(cfg, CompositeKeyExtractor(":", CallerKeyExtractor, IPKeyExtractor))
}

// RateLimitByIPAndClient limits token requests by IP plus presented client id.
func RateLimitByIPAndClient(cfg RateLimitConfig) Middleware {
	return RateLimitMiddleware(cfg, CompositeKeyExtractor(":", IPKeyExtractor, ClientIDKeyExtractor))
}
