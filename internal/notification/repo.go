package notification

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
	return &Repo{
		db: db,
	}
}

func (r *Repo) Create(ctx context.Context, n *Notification) error {
	return dbtx.Conn(ctx, r.db).Create(n).Error
}

func (r *Repo) GetByFilters(ctx context.Context, filters []Filter) (List, error) {
	db := dbtx.Conn(ctx, r.db).Model(&Notification{})
	for _, f := range filters {
		if _, ok := f.(PageFilter); ok {
			continue
		}
		db = f.Apply(db)
	}

	var cnt int64
	if err := db.Count(&cnt).Error; err != nil {
		return List{}, fmt.Errorf("count notifications: %w", err)
	}

	for _, f := range filters {
		if _, ok := f.(PageFilter); ok {
			db = f.Apply(db)
		}
	}

	var list []Notification
	if err := db.Order("created_at desc").Find(&list).Error; err != nil {
		return List{}, fmt.Errorf("find notifications: %w", err)
	}

	return List{
		Notifications: list,
		TotalCount:    cnt,
	}, nil
}

// MarkRead flags the notification of the user as read and reports whether it exists
func (r *Repo) MarkRead(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	request := dbtx.Conn(ctx, r.db).
		Model(&Notification{}).
		Where("id = ? and user_id = ?", id, userID).
		Update("is_read", true)
	if err := request.Error; err != nil {
		return false, fmt.Errorf("mark notification #%s read: %w", id, err)
	}

	return request.RowsAffected > 0, nil
}
