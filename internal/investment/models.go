package investment

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/connecthub-labs/connecthub-storage/pkg/money"
)

type Status string

const (
	StatusAvailable   Status = "Disponibile"
	StatusNegotiation Status = "In trattativa"
	StatusFunded      Status = "Finanziata"
)

var maxEquity = decimal.NewFromInt(100)

// Pitch is a startup looking for capital in exchange of equity
type Pitch struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name             string          `gorm:"not null"`
	Sector           string          `gorm:"not null"`
	Description      string          `gorm:"type:text"`
	CapitalRequested decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	EquityPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	Status           Status          `gorm:"type:varchar(16);not null;index"`
	OwnerID          uuid.UUID       `gorm:"type:uuid;index;not null"`
	InvestorID       *uuid.UUID      `gorm:"type:uuid"`
}

func (Pitch) TableName() string {
	return "investments"
}

type CreateRequest struct {
	Name             string
	Sector           string
	Description      string
	CapitalRequested decimal.Decimal
	EquityPercentage decimal.Decimal
}

func (r CreateRequest) Validate() bool {
	return strings.TrimSpace(r.Name) != "" &&
		strings.TrimSpace(r.Sector) != "" &&
		money.IsAmount(r.CapitalRequested) &&
		r.EquityPercentage.IsPositive() &&
		money.HasScale(r.EquityPercentage) &&
		r.EquityPercentage.LessThanOrEqual(maxEquity)
}

type List struct {
	Pitches    []Pitch
	TotalCount int64
}
