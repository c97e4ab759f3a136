package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

type countingRoles struct {
	roles map[uuid.UUID]Role
	calls int
}

func (c *countingRoles) GetRole(_ context.Context, id uuid.UUID) (Role, error) {
	c.calls++
	role, ok := c.roles[id]
	if !ok {
		return RoleUnknown, ErrRoleNotFound
	}

	return role, nil
}

func signToken(t *testing.T, secret, subject string, expiresIn time.Duration) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	return token
}

func TestUnitAuthenticate(t *testing.T) {
	id := uuid.New()
	roles := &countingRoles{roles: map[uuid.UUID]Role{id: RoleCompany}}
	a := NewAuthenticator(testSecret, roles, time.Minute)

	t.Run("valid token resolves role once", func(t *testing.T) {
		token := signToken(t, testSecret, id.String(), time.Hour)

		actor, err := a.Authenticate(context.Background(), token)
		require.NoError(t, err)
		require.Equal(t, Actor{ID: id, Role: RoleCompany}, actor)

		_, err = a.Authenticate(context.Background(), token)
		require.NoError(t, err)
		require.Equal(t, 1, roles.calls)
	})

	t.Run("forget drops cached role", func(t *testing.T) {
		a.Forget(id)
		_, err := a.Authenticate(context.Background(), signToken(t, testSecret, id.String(), time.Hour))
		require.NoError(t, err)
		require.Equal(t, 2, roles.calls)
	})

	t.Run("unregistered identity", func(t *testing.T) {
		other := uuid.New()
		actor, err := a.Authenticate(context.Background(), signToken(t, testSecret, other.String(), time.Hour))
		require.NoError(t, err)
		require.Equal(t, RoleUnknown, actor.Role)
		require.Equal(t, other, actor.ID)
	})

	for name, token := range map[string]string{
		"wrong secret":    signToken(t, "another-secret", id.String(), time.Hour),
		"expired":         signToken(t, testSecret, id.String(), -time.Hour),
		"subject not uid": signToken(t, testSecret, "mario.rossi", time.Hour),
		"garbage":         "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := a.Authenticate(context.Background(), token)
			require.ErrorIs(t, err, ErrUnauthenticated)
		})
	}
}

func TestUnitMiddleware(t *testing.T) {
	id := uuid.New()
	a := NewAuthenticator(testSecret, &countingRoles{roles: map[uuid.UUID]Role{id: RoleInvestor}}, time.Minute)

	var seen Actor
	handler := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("no header", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid format", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Token abc")
		handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, id.String(), time.Hour))
		handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, Actor{ID: id, Role: RoleInvestor}, seen)
	})
}
