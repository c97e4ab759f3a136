package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	SubjectProposalStatusChanged = "connecthub.proposal.status_changed"
	SubjectPitchLOISent          = "connecthub.pitch.loi_sent"
	SubjectSponsorshipFunded     = "connecthub.sponsorship.funded"

	subjectMessagesPrefix = "connecthub.messages"
)

// MessagesSubject is the realtime channel of a receiver
func MessagesSubject(receiverID uuid.UUID) string {
	return fmt.Sprintf("%s.%s", subjectMessagesPrefix, receiverID)
}

type ProposalStatusChanged struct {
	ProposalID    uuid.UUID `json:"proposal_id"`
	CampaignID    uuid.UUID `json:"campaign_id"`
	CampaignTitle string    `json:"campaign_title"`
	ActorID       uuid.UUID `json:"actor_id"`
	RecipientID   uuid.UUID `json:"recipient_id"`
	Action        string    `json:"action"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type PitchLOISent struct {
	PitchID    uuid.UUID `json:"pitch_id"`
	PitchName  string    `json:"pitch_name"`
	OwnerID    uuid.UUID `json:"owner_id"`
	InvestorID uuid.UUID `json:"investor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type SponsorshipFunded struct {
	RequestID  uuid.UUID `json:"request_id"`
	Title      string    `json:"title"`
	OwnerID    uuid.UUID `json:"owner_id"`
	SponsorID  uuid.UUID `json:"sponsor_id"`
	Amount     string    `json:"amount"`
	Completed  bool      `json:"completed"`
	OccurredAt time.Time `json:"occurred_at"`
}

type MessageInserted struct {
	ID         uuid.UUID `json:"id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

type jsonPublisher interface {
	PublishJSON(ctx context.Context, subject string, obj any) error
}

// Publisher sends json encoded events to the broker. Publishing is best effort:
// errors are logged and never fail the operation that produced the event.
type Publisher struct {
	pb jsonPublisher
}

func NewPublisher(pb jsonPublisher) *Publisher {
	return &Publisher{pb: pb}
}

func (p *Publisher) PublishJSON(ctx context.Context, subject string, payload any) {
	if err := p.pb.PublishJSON(ctx, subject, payload); err != nil {
		log.Warn().Err(err).Str("subject", subject).Msg("publish event")
	}
}
