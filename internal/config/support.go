package config

import (
	"time"

	"github.com/google/uuid"
)

type Support struct {
	// UserID is the identity the assistant answers as
	UserID     uuid.UUID     `env:"SUPPORT_USER_ID" envDefault:"00000000-0000-0000-0000-00000000c0de"`
	ReplyDelay time.Duration `env:"SUPPORT_REPLY_DELAY" envDefault:"1s"`
}
