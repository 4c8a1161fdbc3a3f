package middlewares

import (
	"crypto/subtle"

	"github.com/dmitrymomot/waypoint/internal"
)

// tokenGuardKey is the context key for storing the authenticated guard.
type tokenGuardKey struct{}

// TokenConfig configures the token middleware.
type TokenConfig struct {
	Extractor    internal.Extractor
	extractorSet bool
}

// TokenOption configures TokenConfig.
type TokenOption func(*TokenConfig)

// WithTokenExtractor sets a custom token extractor chain.
func WithTokenExtractor(ext internal.Extractor) TokenOption {
	return func(cfg *TokenConfig) {
		cfg.Extractor = ext
		cfg.extractorSet = true
	}
}

// Token returns middleware that compares a request token with the token of
// a named guard. The guard comes from the directive argument ("token:api"),
// so one alias can protect several route groups with different secrets.
// A bare "token" directive uses internal.DefaultGuard. Guards with an empty
// token reject every request.
func Token(guards map[string]string, opts ...TokenOption) internal.Middleware {
	cfg := &TokenConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	// Default extractor: Bearer token from Authorization header
	if !cfg.extractorSet {
		cfg.Extractor = internal.NewExtractor(
			internal.FromBearerToken(),
		)
	}

	return internal.MiddlewareFunc(func(c internal.Context, next internal.Next, args ...string) (any, error) {
		guard := internal.GuardFromArgs(args)

		want := guards[guard]
		got, ok := cfg.Extractor.Extract(c)
		if !ok {
			return nil, internal.ErrUnauthorized("missing authentication token")
		}
		if want == "" || subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
			c.LogWarn("invalid token", "guard", guard)
			return nil, internal.ErrUnauthorized("invalid token")
		}

		c.Set(tokenGuardKey{}, guard)
		return next(c)
	})
}

// GetTokenGuard returns the guard that authenticated the request.
// Returns an empty string if the token middleware did not run.
func GetTokenGuard(c internal.Context) string {
	if v, ok := c.Get(tokenGuardKey{}).(string); ok {
		return v
	}
	return ""
}
