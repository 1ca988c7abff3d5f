package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	apihttp "well-analysis/internal/api/http"
)

// IdentityResolver loads the current username and role of a token subject.
// It returns ErrUnauthorized when the account no longer exists.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID string) (string, Role, error)
}

// Authenticator checks bearer tokens on protected routes and stores the
// caller identity in the request context.
type Authenticator struct {
	secret   []byte
	policy   Policy
	resolver IdentityResolver
	logger   logrus.FieldLogger
}

// AuthenticatorOption configures an Authenticator.
type AuthenticatorOption func(*Authenticator)

// WithIdentityResolver makes the stored account, not the token claims, the
// source of username and role, so role changes and deleted accounts take
// effect before the token expires.
func WithIdentityResolver(resolver IdentityResolver) AuthenticatorOption {
	return func(a *Authenticator) {
		a.resolver = resolver
	}
}

// WithAuthLogger sets the logger for rejected and failed requests.
func WithAuthLogger(logger logrus.FieldLogger) AuthenticatorOption {
	return func(a *Authenticator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAuthenticator builds the middleware. An empty secret rejects every token.
func NewAuthenticator(secret []byte, policy Policy, opts ...AuthenticatorOption) *Authenticator {
	a := &Authenticator{secret: secret, policy: policy, logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Middleware wraps next with authentication and role checks.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.policy.IsExempt(r) {
			next.ServeHTTP(w, r)
			return
		}
		required, protected := a.policy.RequiredRole(r)
		if !protected {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			apihttp.WriteError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := ParseJWT(token, a.secret)
		if err != nil {
			a.logger.WithError(err).WithField("path", r.URL.Path).Debug("token rejected")
			apihttp.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		username, role, err := a.identity(r.Context(), claims)
		switch {
		case errors.Is(err, ErrUnauthorized):
			apihttp.WriteError(w, http.StatusUnauthorized, "account no longer exists")
			return
		case err != nil:
			a.logger.WithError(err).WithField("user_id", claims.Subject).Error("identity lookup failed")
			apihttp.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !role.AtLeast(required) {
			apihttp.WriteError(w, http.StatusForbidden, "requires "+string(required)+" role")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), claims.Subject, username, role)))
	})
}

func (a *Authenticator) identity(ctx context.Context, claims *Claims) (string, Role, error) {
	if a.resolver == nil {
		role, _ := ParseRole(claims.Role)
		return claims.Username, role, nil
	}
	return a.resolver.ResolveIdentity(ctx, claims.Subject)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
