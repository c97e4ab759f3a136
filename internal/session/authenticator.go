package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrRoleNotFound = errors.New("role not found")

type RoleProvider interface {
	GetRole(ctx context.Context, id uuid.UUID) (Role, error)
}

// Authenticator verifies identity provider tokens and resolves the actor role
type Authenticator struct {
	secret []byte
	roles  RoleProvider
	cache  *roleCache
}

func NewAuthenticator(secret string, rp RoleProvider, cacheTTL time.Duration) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		roles:  rp,
		cache:  newRoleCache(cacheTTL),
	}
}

func (a *Authenticator) Authenticate(ctx context.Context, token string) (Actor, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Actor{}, fmt.Errorf("parse token: %v: %w", err, ErrUnauthenticated)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Actor{}, fmt.Errorf("invalid subject: %w", ErrUnauthenticated)
	}

	if role, ok := a.cache.get(id); ok {
		return Actor{ID: id, Role: role}, nil
	}

	role, err := a.roles.GetRole(ctx, id)
	if errors.Is(err, ErrRoleNotFound) {
		// profile is not registered yet
		return Actor{ID: id, Role: RoleUnknown}, nil
	}
	if err != nil {
		return Actor{}, fmt.Errorf("get role: %w", err)
	}

	a.cache.set(id, role)

	return Actor{ID: id, Role: role}, nil
}

// Forget drops cached role, used after a profile is registered
func (a *Authenticator) Forget(id uuid.UUID) {
	a.cache.remove(id)
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)

			return
		}

		actor, err := a.Authenticate(r.Context(), token)
		if errors.Is(err, ErrUnauthenticated) {
			http.Error(w, "invalid token", http.StatusUnauthorized)

			return
		}
		if err != nil {
			log.Error().Err(err).Msg("authenticate request")
			http.Error(w, "internal error", http.StatusInternalServerError)

			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}
