package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/spinwin/prizewheel-backend/api/responses"
	"github.com/spinwin/prizewheel-backend/pkg/config"
	pkgerrors "github.com/spinwin/prizewheel-backend/pkg/errors"
	"github.com/spinwin/prizewheel-backend/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

// SpinRateLimit throttles spin submissions per client IP and per player email.
// The wheel is a physical-event surface; the IP limit absorbs shared venue
// NAT while the email limit stops a single player draining stock.
func SpinRateLimit(cfg config.SpinRateLimitConfig, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || cfg.Window <= 0 || (cfg.IPLimit <= 0 && cfg.EmailLimit <= 0) {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := clientIP(r)
			if cfg.IPLimit > 0 && ip != "" {
				key := store.RateLimitKey(fmt.Sprintf("spin:ip:%s", ip))
				if allowed, count, err := allow(ctx, store, key, cfg.Window, int64(cfg.IPLimit)); err != nil {
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				} else if !allowed {
					respondRateLimited(ctx, logg, w, cfg, "ip", ip, "", count, cfg.IPLimit)
					return
				}
			}

			if cfg.EmailLimit > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				email := normalizeEmail(extractEmail(body))
				if email != "" {
					hash := hashValue(email)
					key := store.RateLimitKey(fmt.Sprintf("spin:email:%s", hash))
					if allowed, count, err := allow(ctx, store, key, cfg.Window, int64(cfg.EmailLimit)); err != nil {
						responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
						return
					} else if !allowed {
						respondRateLimited(ctx, logg, w, cfg, "email", "", hash, count, cfg.EmailLimit)
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func allow(ctx context.Context, store rateLimiterStore, key string, window time.Duration, limit int64) (bool, int64, error) {
	count, err := store.IncrWithTTL(ctx, key, window)
	if err != nil {
		return false, 0, err
	}
	return count <= limit, count, nil
}

func respondRateLimited(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, cfg config.SpinRateLimitConfig, scope, ip, emailHash string, count int64, limit int) {
	if logg != nil {
		fields := map[string]any{
			"scope":          scope,
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(cfg.Window.Seconds()),
		}
		if ip != "" {
			fields["ip"] = ip
		}
		if emailHash != "" {
			fields["email_hash"] = emailHash
		}
		logCtx := logg.WithFields(ctx, fields)
		logg.Warn(logCtx, "spin.rate_limit.blocked")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func extractEmail(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return body.Email
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
