package notification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Filter interface {
	Apply(*gorm.DB) *gorm.DB
}

type PageFilter struct {
	Offset int
	Limit  int
}

func (f PageFilter) Apply(db *gorm.DB) *gorm.DB {
	return db.Offset(f.Offset).Limit(f.Limit)
}

type UserFilter struct {
	ID uuid.UUID
}

func (f UserFilter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", f.ID)
}

type UnreadFilter struct{}

func (f UnreadFilter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_read = false")
}
