package wallet

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeEscrowHold    TransactionType = "escrow_hold"
	TransactionTypeEscrowRelease TransactionType = "escrow_release"
	TransactionTypeWithdrawal    TransactionType = "withdrawal"
)

// Wallet keeps one row per actor. Pending balance is the escrow part: promised funds
// of in-progress engagements.
type Wallet struct {
	UserID    uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time
	UpdatedAt time.Time

	TotalEarned      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	PendingBalance   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	AvailableBalance decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
}

func (Wallet) TableName() string {
	return "wallets"
}

func newWallet(userID uuid.UUID) *Wallet {
	now := time.Now()

	return &Wallet{
		UserID:           userID,
		CreatedAt:        now,
		UpdatedAt:        now,
		TotalEarned:      decimal.Zero,
		PendingBalance:   decimal.Zero,
		AvailableBalance: decimal.Zero,
	}
}

// Transaction is an append-only log row describing a single wallet movement
type Transaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time

	UserID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	Type           TransactionType `gorm:"type:varchar(20);not null"`
	Amount         decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	ProposalID     *uuid.UUID      `gorm:"type:uuid"`
	Description    string
	PendingAfter   decimal.Decimal `gorm:"type:numeric(14,2)"`
	AvailableAfter decimal.Decimal `gorm:"type:numeric(14,2)"`
}

func (Transaction) TableName() string {
	return "transactions"
}

type TransactionList struct {
	Transactions []Transaction
	TotalCount   int64
}
