package wallet

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

type UserIDFilter struct {
	ID uuid.UUID
}

func (f UserIDFilter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", f.ID)
}

type TypeFilter struct {
	Type TransactionType
}

func (f TypeFilter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("type = ?", f.Type)
}
