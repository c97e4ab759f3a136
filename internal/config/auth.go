package config

import "time"

type Auth struct {
	// JWTSecret is the HS256 key of the identity provider. Resolved from Vault when empty.
	JWTSecret    string        `env:"AUTH_JWT_SECRET"`
	RoleCacheTTL time.Duration `env:"AUTH_ROLE_CACHE_TTL" envDefault:"5m"`
}
