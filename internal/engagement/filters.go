package engagement

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

type CampaignFilter struct {
	ID uuid.UUID
}

func (f CampaignFilter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("campaign_id = ?", f.ID)
}

// CampaignsFilter matches proposals attached to any of the campaigns
type CampaignsFilter struct {
	IDs []uuid.UUID
}

func (f CampaignsFilter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("campaign_id IN ?", f.IDs)
}

type InfluencerFilter struct {
	ID uuid.UUID
}

func (f InfluencerFilter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("influencer_id = ?", f.ID)
}

type StatusFilter struct {
	Statuses []Status
}

func (f StatusFilter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status IN ?", f.Statuses)
}
