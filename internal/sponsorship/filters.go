package sponsorship

import (
	"strings"

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

// CityFilter matches the city ignoring case
type CityFilter struct {
	City string
}

func (f CityFilter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("lower(city) = ?", strings.ToLower(strings.TrimSpace(f.City)))
}

type PostalCodeFilter struct {
	PostalCode string
}

func (f PostalCodeFilter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("postal_code = ?", strings.TrimSpace(f.PostalCode))
}

type RegionFilter struct {
	Region string
}

func (f RegionFilter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("lower(region) = ?", strings.ToLower(strings.TrimSpace(f.Region)))
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
