package campaign

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/connecthub-labs/connecthub-storage/internal/dbtx"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, c *Campaign) error {
	return dbtx.Conn(ctx, r.db).Create(c).Error
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*Campaign, error) {
	c := Campaign{ID: id}
	request := dbtx.Conn(ctx, r.db).Take(&c)
	if err := request.Error; err != nil {
		return nil, fmt.Errorf("get campaign by id #%s: %w", id, err)
	}

	return &c, nil
}

func (r *Repo) GetByFilters(ctx context.Context, filters []Filter) (List, error) {
	db := dbtx.Conn(ctx, r.db).Model(&Campaign{})
	for _, f := range filters {
		if _, ok := f.(PageFilter); ok {
			continue
		}
		db = f.Apply(db)
	}

	var cnt int64
	if err := db.Count(&cnt).Error; err != nil {
		return List{}, fmt.Errorf("count campaigns: %w", err)
	}

	for _, f := range filters {
		if _, ok := f.(PageFilter); ok {
			db = f.Apply(db)
		}
	}

	var list []Campaign
	if err := db.Order("created_at desc").Find(&list).Error; err != nil {
		return List{}, fmt.Errorf("find campaigns: %w", err)
	}

	return List{
		Campaigns:  list,
		TotalCount: cnt,
	}, nil
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	return dbtx.Conn(ctx, r.db).Delete(&Campaign{ID: id}).Error
}

func (r *Repo) Count(ctx context.Context, filters []Filter) (int64, error) {
	db := dbtx.Conn(ctx, r.db).Model(&Campaign{})
	for _, f := range filters {
		db = f.Apply(db)
	}

	var cnt int64
	if err := db.Count(&cnt).Error; err != nil {
		return 0, fmt.Errorf("count campaigns: %w", err)
	}

	return cnt, nil
}
