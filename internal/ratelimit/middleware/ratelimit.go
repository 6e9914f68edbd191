// Package middleware throttles signed commands per signing account.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"contactledger/internal/ratelimit/metrics"
	"contactledger/internal/ratelimit/models"
	"contactledger/internal/ratelimit/store"
	dErrors "contactledger/pkg/domain-errors"
	"contactledger/pkg/platform/circuit"
	"contactledger/pkg/platform/httputil"
	"contactledger/pkg/requestcontext"
)

// Store admits or denies one request against a sliding window.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error)
}

// Middleware limits commands per signer. While the primary store is failing
// the breaker routes checks to a process-local fallback.
type Middleware struct {
	primary  Store
	fallback Store
	breaker  *circuit.Breaker
	policy   models.Policy
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Middleware)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Middleware) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = mt
	}
}

// WithFallback replaces the in-memory fallback store.
func WithFallback(s Store) Option {
	return func(m *Middleware) {
		if s != nil {
			m.fallback = s
		}
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(m *Middleware) {
		if b != nil {
			m.breaker = b
		}
	}
}

func New(primary Store, policy models.Policy, opts ...Option) *Middleware {
	m := &Middleware{
		primary:  primary,
		fallback: store.NewMemory(),
		breaker:  circuit.New("ratelimit"),
		policy:   policy,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LimitSigner must run after the signer has been authenticated. Requests
// without a signer pass through untouched.
func (m *Middleware) LimitSigner() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil || !m.policy.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			signer := requestcontext.Signer(ctx)
			if signer == "" {
				next.ServeHTTP(w, r)
				return
			}

			result := m.check(ctx, models.SignerKey(signer))
			if result == nil {
				next.ServeHTTP(w, r)
				return
			}
			addRateLimitHeaders(w, result)
			if !result.Allowed {
				if m.metrics != nil {
					m.metrics.IncDenied()
				}
				m.logger.WarnContext(ctx, "command rate limited",
					"signer", signer,
					"request_id", requestcontext.RequestID(ctx),
					"retry_after", result.RetryAfter,
				)
				w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many commands, try again later"))
				return
			}
			if m.metrics != nil {
				m.metrics.IncAllowed()
			}
			next.ServeHTTP(w, r)
		})
	}
}

// check returns nil when neither store could answer; the request then fails open.
func (m *Middleware) check(ctx context.Context, key string) *models.Result {
	if m.breaker.Allow() {
		result, err := m.primary.Allow(ctx, key, m.policy.Limit, m.policy.Window)
		if err == nil {
			if _, change := m.breaker.RecordSuccess(); change.Closed {
				m.logger.InfoContext(ctx, "rate limit store recovered")
				m.setFallback(false)
			}
			return result
		}
		if m.metrics != nil {
			m.metrics.IncStoreFailures()
		}
		_, change := m.breaker.RecordFailure()
		if change.Opened {
			m.setFallback(true)
		}
		m.logger.ErrorContext(ctx, "rate limit store failed",
			"error", err,
			"circuit", m.breaker.State(),
		)
	}

	result, err := m.fallback.Allow(ctx, key, m.policy.Limit, m.policy.Window)
	if err != nil {
		m.logger.ErrorContext(ctx, "rate limit fallback failed", "error", err)
		return nil
	}
	return result
}

func (m *Middleware) setFallback(on bool) {
	if m.metrics != nil {
		m.metrics.SetFallback(on)
	}
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}
