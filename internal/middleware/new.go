package middleware

import (
	"nutrition-assistant/config"
	"nutrition-assistant/pkg/log"
)

type Middleware struct {
	l           log.Logger
	limiter     *rateLimiter
	corsOrigins []string
}

// New creates the shared middleware set. A disabled rate limit leaves
// RateLimit as a pass-through.
func New(l log.Logger, rl config.RateLimitConfig, cors config.CORSConfig) Middleware {
	mw := Middleware{
		l:           l,
		corsOrigins: cors.AllowedOrigins,
	}
	if rl.Enabled && rl.RequestsPerMin > 0 {
		mw.limiter = newRateLimiter(rl.RequestsPerMin, rl.MaxClients)
	}
	return mw
}
