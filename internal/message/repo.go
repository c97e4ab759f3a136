package message

import (
	"context"
	"database/sql"
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

func (r *Repo) Create(ctx context.Context, m *Message) error {
	return dbtx.Conn(ctx, r.db).Create(m).Error
}

// GetConversation returns messages between two users, oldest first
func (r *Repo) GetConversation(ctx context.Context, userID, partnerID uuid.UUID, limit, offset int) ([]Message, error) {
	var list []Message
	err := dbtx.Conn(ctx, r.db).
		Where("(sender_id = @user and receiver_id = @partner) or (sender_id = @partner and receiver_id = @user)",
			sql.Named("user", userID),
			sql.Named("partner", partnerID),
		).
		Order("created_at asc").
		Offset(offset).
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	return list, nil
}

// GetLastPerPartner returns the newest message exchanged with every partner of the user
func (r *Repo) GetLastPerPartner(ctx context.Context, userID uuid.UUID) ([]Message, error) {
	var list []Message
	err := dbtx.Conn(ctx, r.db).
		Raw(`select distinct on (m.partner_id) m.*
			from (
				select *, case when sender_id = @user then receiver_id else sender_id end as partner_id
				from messages
				where sender_id = @user or receiver_id = @user
			) m
			order by m.partner_id, m.created_at desc`,
			sql.Named("user", userID),
		).
		Scan(&list).
		Error
	if err != nil {
		return nil, fmt.Errorf("get last messages per partner: %w", err)
	}

	return list, nil
}

type unreadRow struct {
	SenderID uuid.UUID
	Cnt      int64
}

// CountUnreadByPartner returns unread counts of the user grouped by sender
func (r *Repo) CountUnreadByPartner(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]int64, error) {
	var rows []unreadRow
	err := dbtx.Conn(ctx, r.db).
		Model(&Message{}).
		Select("sender_id, count(*) as cnt").
		Where("receiver_id = ? and is_read = false", userID).
		Group("sender_id").
		Scan(&rows).
		Error
	if err != nil {
		return nil, fmt.Errorf("count unread per partner: %w", err)
	}

	res := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		res[row.SenderID] = row.Cnt
	}

	return res, nil
}

// MarkRead marks unread messages from the partner to the reader and returns their count
func (r *Repo) MarkRead(ctx context.Context, readerID, partnerID uuid.UUID) (int64, error) {
	request := dbtx.Conn(ctx, r.db).
		Model(&Message{}).
		Where("sender_id = ? and receiver_id = ? and is_read = false", partnerID, readerID).
		Update("is_read", true)
	if err := request.Error; err != nil {
		return 0, fmt.Errorf("mark read: %w", err)
	}

	return request.RowsAffected, nil
}

// DeleteConversation removes the messages exchanged in both directions
func (r *Repo) DeleteConversation(ctx context.Context, userID, partnerID uuid.UUID) (int64, error) {
	request := dbtx.Conn(ctx, r.db).
		Where("(sender_id = @user and receiver_id = @partner) or (sender_id = @partner and receiver_id = @user)",
			sql.Named("user", userID),
			sql.Named("partner", partnerID),
		).
		Delete(&Message{})
	if err := request.Error; err != nil {
		return 0, fmt.Errorf("delete conversation: %w", err)
	}

	return request.RowsAffected, nil
}

func (r *Repo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var cnt int64
	err := dbtx.Conn(ctx, r.db).
		Model(&Message{}).
		Where("receiver_id = ? and is_read = false", userID).
		Count(&cnt).
		Error
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}

	return cnt, nil
}
