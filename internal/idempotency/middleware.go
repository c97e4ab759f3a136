// Package idempotency rejects repeated mutating requests carrying the same Idempotency-Key.
package idempotency

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/connecthub-labs/connecthub-storage/internal/session"
	"github.com/connecthub-labs/connecthub-storage/pkg/httpsrv"
)

const (
	HeaderName = "Idempotency-Key"

	keyPrefix    = "connecthub:idempotency"
	maxKeyLength = 128
)

type store interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type Guard struct {
	store store
	ttl   time.Duration
}

func NewGuard(s store, ttl time.Duration) *Guard {
	return &Guard{
		store: s,
		ttl:   ttl,
	}
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware reserves the key of the actor for the ttl. A failed request releases it so
// the client is able to retry.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		value := r.Header.Get(HeaderName)
		if value == "" || r.Method == http.MethodGet || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)

			return
		}

		if len(value) > maxKeyLength {
			httpsrv.WriteError(w, http.StatusBadRequest, "idempotency key is too long")

			return
		}

		actor, _ := session.FromContext(r.Context())
		key := fmt.Sprintf("%s:%s:%s", keyPrefix, actor.ID, value)

		reserved, err := g.store.SetNX(r.Context(), key, r.Method+" "+r.URL.Path, g.ttl).Result()
		if err != nil {
			log.Error().Err(err).Msg("reserve idempotency key")
			httpsrv.WriteError(w, http.StatusInternalServerError, "internal error")

			return
		}

		if !reserved {
			httpsrv.WriteError(w, http.StatusConflict, "duplicate request")

			return
		}

		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)

		if rec.code >= http.StatusInternalServerError {
			if err := g.store.Del(context.WithoutCancel(r.Context()), key).Err(); err != nil {
				log.Warn().Err(err).Msg("release idempotency key")
			}
		}
	})
}
