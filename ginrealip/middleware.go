// Package ginrealip exposes realip resolution as gin middleware.
//
// The middleware annotates every request with the Resolution of its
// forwarding headers so handlers and access loggers can show the likely
// client address. Forwarding headers are client-controlled; do not use the
// result for access control.
package ginrealip

import (
	"log/slog"

	"github.com/abczzz13/realip"
	"github.com/gin-gonic/gin"
)

// ContextKey is the gin context key holding the request's realip.Resolution.
const ContextKey = "realip.resolution"

// Option configures Middleware.
type Option func(*middlewareConfig)

type middlewareConfig struct {
	logger *slog.Logger
}

// WithLogger makes Middleware emit a debug line for every request whose
// address was resolved from a forwarding header. Without it Middleware does
// not log.
func WithLogger(logger *slog.Logger) Option {
	return func(c *middlewareConfig) {
		c.logger = logger
	}
}

// Middleware resolves the client address of each request with resolver and
// stores the result under ContextKey. A nil resolver uses the default trust
// priority table.
func Middleware(resolver *realip.Resolver, opts ...Option) gin.HandlerFunc {
	var cfg middlewareConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	resolve := realip.Resolve
	if resolver != nil {
		resolve = resolver.Resolve
	}

	return func(c *gin.Context) {
		rec := realip.RecordFromRequest(c.Request)
		res := resolve(rec)
		c.Set(ContextKey, res)

		if cfg.logger != nil && !res.Direct() {
			cfg.logger.DebugContext(c.Request.Context(), "resolved client address",
				slog.String("real_ip", res.RealIP),
				slog.String("source", res.Source),
				slog.String("client_addr", rec.ClientAddr),
				slog.Bool("private", res.IsPrivate),
			)
		}

		c.Next()
	}
}

// FromContext returns the Resolution stored by Middleware.
func FromContext(c *gin.Context) (realip.Resolution, bool) {
	v, ok := c.Get(ContextKey)
	if !ok {
		return realip.Resolution{}, false
	}

	res, ok := v.(realip.Resolution)
	return res, ok
}

// Logger returns gin middleware that writes one structured access log line
// per request, using the resolved client address in place of gin's
// ClientIP. It must run after Middleware.
func Logger(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		c.Next()

		attrs := []slog.Attr{
			slog.Int("status", c.Writer.Status()),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("size", c.Writer.Size()),
		}

		if res, ok := FromContext(c); ok {
			display := realip.FormatDisplay(res, c.Request.RemoteAddr)
			attrs = append(attrs,
				slog.String("ip", display.MainIP),
				slog.String("ip_source", res.Source),
			)
			if display.Subtitle != "" {
				attrs = append(attrs, slog.String("ip_via", c.Request.RemoteAddr))
			}
		} else {
			attrs = append(attrs, slog.String("ip", c.ClientIP()))
		}

		logger.LogAttrs(c.Request.Context(), slog.LevelInfo, "HTTP Request", attrs...)
	}
}
