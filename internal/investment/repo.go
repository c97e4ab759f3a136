package investment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/connecthub-labs/connecthub-storage/internal/dbtx"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Create(ctx context.Context, p *Pitch) error {
	return dbtx.Conn(ctx, r.db).Create(p).Error
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*Pitch, error) {
	p := Pitch{ID: id}
	request := dbtx.Conn(ctx, r.db).Take(&p)
	if err := request.Error; err != nil {
		return nil, fmt.Errorf("get pitch by id #%s: %w", id, err)
	}

	return &p, nil
}

func (r *Repo) GetByFilters(ctx context.Context, filters []Filter) (List, error) {
	db := dbtx.Conn(ctx, r.db).Model(&Pitch{})
	for _, f := range filters {
		if _, ok := f.(PageFilter); ok {
			continue
		}
		db = f.Apply(db)
	}

	var cnt int64
	if err := db.Count(&cnt).Error; err != nil {
		return List{}, fmt.Errorf("count pitches: %w", err)
	}

	for _, f := range filters {
		if _, ok := f.(PageFilter); ok {
			db = f.Apply(db)
		}
	}

	var list []Pitch
	if err := db.Order("created_at desc").Find(&list).Error; err != nil {
		return List{}, fmt.Errorf("find pitches: %w", err)
	}

	return List{
		Pitches:    list,
		TotalCount: cnt,
	}, nil
}

// UpdateStatus moves the pitch to the status only if it is still in the expected one.
// It reports whether the row was changed.
func (r *Repo) UpdateStatus(ctx context.Context, p *Pitch, from Status) (bool, error) {
	p.UpdatedAt = time.Now()
	request := dbtx.Conn(ctx, r.db).
		Model(&Pitch{}).
		Where("id = @id and status = @status",
			sql.Named("id", p.ID),
			sql.Named("status", from),
		).
		Updates(map[string]any{
			"updated_at":  p.UpdatedAt,
			"status":      p.Status,
			"investor_id": p.InvestorID,
		})
	if err := request.Error; err != nil {
		return false, fmt.Errorf("update pitch #%s: %w", p.ID, err)
	}

	return request.RowsAffected > 0, nil
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	return dbtx.Conn(ctx, r.db).Delete(&Pitch{ID: id}).Error
}

func (r *Repo) Count(ctx context.Context, filters []Filter) (int64, error) {
	db := dbtx.Conn(ctx, r.db).Model(&Pitch{})
	for _, f := range filters {
		db = f.Apply(db)
	}

	var cnt int64
	if err := db.Count(&cnt).Error; err != nil {
		return 0, fmt.Errorf("count pitches: %w", err)
	}

	return cnt, nil
}
