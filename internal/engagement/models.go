package engagement

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusSubmitted         Status = "Inviata"
	StatusAccepted          Status = "Accettata"
	StatusAwaitingVideo     Status = "In attesa di video"
	StatusInReview          Status = "In revisione"
	StatusRevisionRequested Status = "Revisione richiesta"
	StatusCompleted         Status = "Completata"

	// StatusRejected is a stored value only, nothing transitions into it
	StatusRejected Status = "Rifiutata"
)

type PaymentStatus string

const (
	PaymentUnpaid       PaymentStatus = "unpaid"
	PaymentEscrowFunded PaymentStatus = "escrow_funded"
	PaymentReleased     PaymentStatus = "released"
)

// Proposal is an influencer application to a campaign. It carries the engagement
// lifecycle and the payment state of the escrow.
type Proposal struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time
	UpdatedAt time.Time

	CampaignID    uuid.UUID     `gorm:"type:uuid;index;not null"`
	InfluencerID  uuid.UUID     `gorm:"type:uuid;index;not null"`
	SocialLink    string        `gorm:"not null"`
	Status        Status        `gorm:"type:varchar(32);not null"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(16);not null;default:unpaid"`
	ContractTerms *string       `gorm:"type:text"`
	VideoURL      *string
	TrackingCode  *string
	Feedback      *string `gorm:"type:text"`

	Version int64 `gorm:"not null;default:1"`
}

func (Proposal) TableName() string {
	return "proposals"
}

type List struct {
	Proposals  []Proposal
	TotalCount int64
}

// ApprovalResult is returned by approve action. Receipt is printable text which is not stored.
type ApprovalResult struct {
	Proposal *Proposal
	Receipt  string
}
