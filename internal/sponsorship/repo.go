package sponsorship

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

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

func (r *Repo) Create(ctx context.Context, req *Request) error {
	return dbtx.Conn(ctx, r.db).Create(req).Error
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	req := Request{ID: id}
	request := dbtx.Conn(ctx, r.db).Take(&req)
	if err := request.Error; err != nil {
		return nil, fmt.Errorf("get sponsorship request by id #%s: %w", id, err)
	}

	return &req, nil
}

// GetForUpdate reads the row locking it until the surrounding transaction ends
func (r *Repo) GetForUpdate(ctx context.Context, id uuid.UUID) (*Request, error) {
	req := Request{ID: id}
	request := dbtx.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&req)
	if err := request.Error; err != nil {
		return nil, fmt.Errorf("get sponsorship request for update #%s: %w", id, err)
	}

	return &req, nil
}

func (r *Repo) GetByFilters(ctx context.Context, filters []Filter) (List, error) {
	db := dbtx.Conn(ctx, r.db).Model(&Request{})
	for _, f := range filters {
		if _, ok := f.(PageFilter); ok {
			continue
		}
		db = f.Apply(db)
	}

	var cnt int64
	if err := db.Count(&cnt).Error; err != nil {
		return List{}, fmt.Errorf("count sponsorship requests: %w", err)
	}

	for _, f := range filters {
		if _, ok := f.(PageFilter); ok {
			db = f.Apply(db)
		}
	}

	var list []Request
	if err := db.Order("created_at desc").Find(&list).Error; err != nil {
		return List{}, fmt.Errorf("find sponsorship requests: %w", err)
	}

	return List{
		Requests:   list,
		TotalCount: cnt,
	}, nil
}

func (r *Repo) Save(ctx context.Context, req *Request) error {
	err := dbtx.Conn(ctx, r.db).
		Model(&Request{ID: req.ID}).
		Updates(map[string]any{
			"updated_at":    req.UpdatedAt,
			"amount_funded": req.AmountFunded,
			"status":        req.Status,
		}).
		Error
	if err != nil {
		return fmt.Errorf("save sponsorship request #%s: %w", req.ID, err)
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	return dbtx.Conn(ctx, r.db).Delete(&Request{ID: id}).Error
}

func (r *Repo) Count(ctx context.Context, filters []Filter) (int64, error) {
	db := dbtx.Conn(ctx, r.db).Model(&Request{})
	for _, f := range filters {
		db = f.Apply(db)
	}

	var cnt int64
	if err := db.Count(&cnt).Error; err != nil {
		return 0, fmt.Errorf("count sponsorship requests: %w", err)
	}

	return cnt, nil
}
