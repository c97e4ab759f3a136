package engagement

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

func (r *Repo) Create(ctx context.Context, p *Proposal) error {
	return dbtx.Conn(ctx, r.db).Create(p).Error
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*Proposal, error) {
	p := Proposal{ID: id}
	request := dbtx.Conn(ctx, r.db).Take(&p)
	if err := request.Error; err != nil {
		return nil, fmt.Errorf("get proposal by id #%s: %w", id, err)
	}

	return &p, nil
}

func (r *Repo) GetByFilters(ctx context.Context, filters []Filter) (List, error) {
	db := dbtx.Conn(ctx, r.db).Model(&Proposal{})
	for _, f := range filters {
		if _, ok := f.(PageFilter); ok {
			continue
		}
		db = f.Apply(db)
	}

	var cnt int64
	if err := db.Count(&cnt).Error; err != nil {
		return List{}, fmt.Errorf("count proposals: %w", err)
	}

	for _, f := range filters {
		if _, ok := f.(PageFilter); ok {
			db = f.Apply(db)
		}
	}

	var list []Proposal
	if err := db.Order("created_at desc").Find(&list).Error; err != nil {
		return List{}, fmt.Errorf("find proposals: %w", err)
	}

	return List{
		Proposals:  list,
		TotalCount: cnt,
	}, nil
}

// Update writes the mutable lifecycle columns only when the stored version equals
// p.Version. On success p.Version is advanced.
func (r *Repo) Update(ctx context.Context, p *Proposal) error {
	now := time.Now()
	request := dbtx.Conn(ctx, r.db).
		Model(&Proposal{}).
		Where("id = @id and version = @version",
			sql.Named("id", p.ID),
			sql.Named("version", p.Version),
		).
		Updates(map[string]any{
			"updated_at":     now,
			"status":         p.Status,
			"payment_status": p.PaymentStatus,
			"contract_terms": p.ContractTerms,
			"video_url":      p.VideoURL,
			"tracking_code":  p.TrackingCode,
			"feedback":       p.Feedback,
			"version":        p.Version + 1,
		})
	if err := request.Error; err != nil {
		return fmt.Errorf("update proposal #%s: %w", p.ID, err)
	}

	if request.RowsAffected == 0 {
		return fmt.Errorf("update proposal #%s at version %d: %w", p.ID, p.Version, ErrConcurrentUpdate)
	}

	p.Version++
	p.UpdatedAt = now

	return nil
}

// DeleteByCampaign removes every proposal of the campaign and returns their count
func (r *Repo) DeleteByCampaign(ctx context.Context, campaignID uuid.UUID) (int64, error) {
	request := dbtx.Conn(ctx, r.db).
		Where("campaign_id = ?", campaignID).
		Delete(&Proposal{})
	if err := request.Error; err != nil {
		return 0, fmt.Errorf("delete proposals of campaign #%s: %w", campaignID, err)
	}

	return request.RowsAffected, nil
}

func (r *Repo) Count(ctx context.Context, filters []Filter) (int64, error) {
	db := dbtx.Conn(ctx, r.db).Model(&Proposal{})
	for _, f := range filters {
		db = f.Apply(db)
	}

	var cnt int64
	if err := db.Count(&cnt).Error; err != nil {
		return 0, fmt.Errorf("count proposals: %w", err)
	}

	return cnt, nil
}
