package profile

import (
	"time"

	"github.com/google/uuid"

	"github.com/connecthub-labs/connecthub-storage/internal/session"
)

type Profile struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Role        session.Role `gorm:"type:varchar(32);not null"`
	DisplayName string
}

func (Profile) TableName() string {
	return "profiles"
}
