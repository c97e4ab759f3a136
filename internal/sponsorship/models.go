package sponsorship

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/connecthub-labs/connecthub-storage/pkg/money"
)

type Status string

const (
	StatusActive Status = "Attiva"
	StatusFunded Status = "Finanziata"
)

type FundMode string

const (
	FundModeTotal   FundMode = "total"
	FundModePartial FundMode = "partial"
)

// Request is a team or shop asking sponsors to fund a social-impact project
type Request struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Title        string          `gorm:"not null"`
	Description  string          `gorm:"type:text"`
	AmountNeeded decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	AmountFunded decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Purpose      string
	City         string `gorm:"index"`
	PostalCode   string `gorm:"index"`
	Region       string
	OwnerID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Status       Status    `gorm:"type:varchar(16);not null"`
}

func (Request) TableName() string {
	return "sponsorship_requests"
}

// Remaining is the amount still missing to reach the goal
func (r *Request) Remaining() decimal.Decimal {
	left := r.AmountNeeded.Sub(r.AmountFunded)
	if left.IsNegative() {
		return decimal.Zero
	}

	return left
}

type CreateRequest struct {
	Title        string
	Description  string
	AmountNeeded decimal.Decimal
	Purpose      string
	City         string
	PostalCode   string
	Region       string
}

func (r CreateRequest) Validate() bool {
	return strings.TrimSpace(r.Title) != "" &&
		money.IsAmount(r.AmountNeeded) &&
		strings.TrimSpace(r.City) != "" &&
		strings.TrimSpace(r.PostalCode) != ""
}

type List struct {
	Requests   []Request
	TotalCount int64
}

// FundResult holds the updated request and the donation receipt issued to the sponsor
type FundResult struct {
	Request *Request
	Amount  decimal.Decimal
	Receipt string
}
