package campaign

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/connecthub-labs/connecthub-storage/pkg/money"
)

const DeadlineLayout = "2006-01-02"

// Campaign is a company's video job listing
type Campaign struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time

	Title       string          `gorm:"not null"`
	Description string          `gorm:"type:text"`
	Budget      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Deadline    time.Time       `gorm:"type:date"`
	CompanyName string
	OwnerID     uuid.UUID `gorm:"type:uuid;index;not null"`
}

func (Campaign) TableName() string {
	return "campaigns"
}

type CreateRequest struct {
	Title       string
	Description string
	Budget      decimal.Decimal
	Deadline    time.Time
	CompanyName string
}

func (r CreateRequest) Validate() bool {
	return strings.TrimSpace(r.Title) != "" &&
		strings.TrimSpace(r.Description) != "" &&
		money.IsAmount(r.Budget) &&
		!r.Deadline.IsZero()
}

type List struct {
	Campaigns  []Campaign
	TotalCount int64
}
