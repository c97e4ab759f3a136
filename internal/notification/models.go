package notification

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindProposal    Kind = "proposal"
	KindPitch       Kind = "pitch"
	KindSponsorship Kind = "sponsorship"
)

type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time

	UserID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	Kind        Kind       `gorm:"type:varchar(16);not null"`
	Title       string     `gorm:"not null"`
	Body        *string    `gorm:"type:text"`
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	Read        bool       `gorm:"column:is_read;not null;default:false"`
}

func (Notification) TableName() string {
	return "notifications"
}

type List struct {
	Notifications []Notification
	TotalCount    int64
}
