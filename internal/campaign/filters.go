package campaign

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

type OwnerFilter struct {
	ID uuid.UUID
}

func (f OwnerFilter) Apply(db *gorm.DB) *gorm.DB {
	var (
		dummy Campaign
		_     = dummy.OwnerID
	)

	return db.Where("owner_id = ?", f.ID)
}

type IDsFilter struct {
	IDs []uuid.UUID
}

func (f IDsFilter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id IN ?", f.IDs)
}
