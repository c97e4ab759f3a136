package investment

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

type StatusFilter struct {
	Status Status
}

func (f StatusFilter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", f.Status)
}

type OwnerFilter struct {
	ID uuid.UUID
}

func (f OwnerFilter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("owner_id = ?", f.ID)
}

type InvestorFilter struct {
	ID uuid.UUID
}

func (f InvestorFilter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("investor_id = ?", f.ID)
}
