package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, p *Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	p := Profile{ID: id}
	request := r.db.WithContext(ctx).Take(&p)
	if err := request.Error; err != nil {
		return nil, fmt.Errorf("get profile by id #%s: %w", id, err)
	}

	return &p, nil
}
