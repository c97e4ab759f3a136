package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/connecthub-labs/connecthub-storage/internal/dbtx"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// GetForUpdate reads the wallet row locking it until the surrounding transaction ends
func (r *Repo) GetForUpdate(ctx context.Context, userID uuid.UUID) (*Wallet, error) {
	var w Wallet
	err := dbtx.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Take(&w).
		Error
	if err != nil {
		return nil, fmt.Errorf("get wallet #%s: %w", userID, err)
	}

	return &w, nil
}

// CreateIfAbsent inserts a zero wallet, concurrent creators are ignored
func (r *Repo) CreateIfAbsent(ctx context.Context, w *Wallet) error {
	return dbtx.Conn(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(w).
		Error
}

func (r *Repo) Save(ctx context.Context, w *Wallet) error {
	return dbtx.Conn(ctx, r.db).
		Model(&Wallet{}).
		Where("user_id = ?", w.UserID).
		Updates(map[string]any{
			"updated_at":        time.Now(),
			"total_earned":      w.TotalEarned,
			"pending_balance":   w.PendingBalance,
			"available_balance": w.AvailableBalance,
		}).
		Error
}

func (r *Repo) AddTransaction(ctx context.Context, t *Transaction) error {
	return dbtx.Conn(ctx, r.db).Create(t).Error
}

func (r *Repo) GetTransactions(ctx context.Context, filters []Filter) (TransactionList, error) {
	db := dbtx.Conn(ctx, r.db).Model(&Transaction{})
	for _, f := range filters {
		if _, ok := f.(PageFilter); ok {
			continue
		}
		db = f.Apply(db)
	}

	var cnt int64
	if err := db.Count(&cnt).Error; err != nil {
		return TransactionList{}, fmt.Errorf("count transactions: %w", err)
	}

	for _, f := range filters {
		if _, ok := f.(PageFilter); ok {
			db = f.Apply(db)
		}
	}

	var list []Transaction
	if err := db.Order("created_at desc").Find(&list).Error; err != nil {
		return TransactionList{}, fmt.Errorf("find transactions: %w", err)
	}

	return TransactionList{
		Transactions: list,
		TotalCount:   cnt,
	}, nil
}
