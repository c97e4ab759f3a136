package engagement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.openly.dev/pointy"
	"gorm.io/gorm"

	"github.com/connecthub-labs/connecthub-storage/internal/campaign"
	"github.com/connecthub-labs/connecthub-storage/internal/events"
	"github.com/connecthub-labs/connecthub-storage/internal/metrics"
	"github.com/connecthub-labs/connecthub-storage/internal/session"
)

var (
	ErrInvalidProposal   = errors.New("invalid proposal")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrConcurrentUpdate  = errors.New("proposal was changed concurrently")
	ErrNotFound          = errors.New("proposal not found")
)

type DataProvider interface {
	Create(ctx context.Context, p *Proposal) error
	GetByID(ctx context.Context, id uuid.UUID) (*Proposal, error)
	GetByFilters(ctx context.Context, filters []Filter) (List, error)
	Update(ctx context.Context, p *Proposal) error
	Count(ctx context.Context, filters []Filter) (int64, error)
}

type CampaignProvider interface {
	GetByID(ctx context.Context, id uuid.UUID) (*campaign.Campaign, error)
	GetByFilters(ctx context.Context, filters []campaign.Filter) (campaign.List, error)
}

// Escrow moves the campaign budget through the influencer wallet
type Escrow interface {
	Hold(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, proposalID uuid.UUID) error
	Release(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, proposalID uuid.UUID) error
}

type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	PublishJSON(ctx context.Context, subject string, payload any)
}

type Service struct {
	repo      DataProvider
	campaigns CampaignProvider
	escrow    Escrow
	tx        Transactor
	events    Publisher
}

func NewService(r DataProvider, cp CampaignProvider, e Escrow, tx Transactor, p Publisher) *Service {
	return &Service{
		repo:      r,
		campaigns: cp,
		escrow:    e,
		tx:        tx,
		events:    p,
	}
}

// Submit creates a proposal of the influencer for the campaign
func (s *Service) Submit(ctx context.Context, actor session.Actor, campaignID uuid.UUID, socialLink string) (*Proposal, error) {
	if err := session.RequireRole(actor, session.RoleInfluencer); err != nil {
		return nil, err
	}

	socialLink = strings.TrimSpace(socialLink)
	if socialLink == "" {
		return nil, fmt.Errorf("empty social link: %w", ErrInvalidProposal)
	}

	c, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := &Proposal{
		ID:            uuid.New(),
		CreatedAt:     now,
		UpdatedAt:     now,
		CampaignID:    c.ID,
		InfluencerID:  actor.ID,
		SocialLink:    socialLink,
		Status:        StatusSubmitted,
		PaymentStatus: PaymentUnpaid,
		Version:       1,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		metrics.CollectTransition(string(ActionSubmit), err)

		return nil, fmt.Errorf("create proposal: %w", err)
	}

	metrics.CollectTransition(string(ActionSubmit), nil)
	s.publish(ctx, actor, c, p, ActionSubmit)

	return p, nil
}

// Accept attaches the contract terms. Accepting twice fails because the proposal
// already left the submitted status.
func (s *Service) Accept(ctx context.Context, actor session.Actor, id uuid.UUID) (*Proposal, error) {
	p, _, err := s.transit(ctx, actor, id, ActionAccept, ownerOfCampaign, func(_ context.Context, p *Proposal, c *campaign.Campaign) error {
		p.ContractTerms = pointy.String(contractTerms(c.Title, c.CompanyName, c.Budget, c.Deadline.Format(campaign.DeadlineLayout)))

		return nil
	})

	return p, err
}

func (s *Service) AcceptContract(ctx context.Context, actor session.Actor, id uuid.UUID) (*Proposal, error) {
	p, _, err := s.transit(ctx, actor, id, ActionAcceptContract, ownInfluencer, nil)

	return p, err
}

// FundEscrow holds the campaign budget, read at call time, on the influencer wallet
func (s *Service) FundEscrow(ctx context.Context, actor session.Actor, id uuid.UUID) (*Proposal, error) {
	p, _, err := s.transit(ctx, actor, id, ActionFundEscrow, ownerOfCampaign, func(ctx context.Context, p *Proposal, c *campaign.Campaign) error {
		if err := s.escrow.Hold(ctx, p.InfluencerID, c.Budget, p.ID); err != nil {
			return fmt.Errorf("hold escrow: %w", err)
		}
		p.PaymentStatus = PaymentEscrowFunded

		return nil
	})

	return p, err
}

func (s *Service) SubmitVideo(ctx context.Context, actor session.Actor, id uuid.UUID, videoURL string) (*Proposal, error) {
	videoURL = strings.TrimSpace(videoURL)
	if videoURL == "" {
		return nil, fmt.Errorf("empty video url: %w", ErrInvalidProposal)
	}

	p, _, err := s.transit(ctx, actor, id, ActionSubmitVideo, ownInfluencer, func(_ context.Context, p *Proposal, _ *campaign.Campaign) error {
		p.VideoURL = pointy.String(videoURL)
		p.TrackingCode = pointy.String(newTrackingCode(p.ID))

		return nil
	})

	return p, err
}

// Approve completes the engagement and releases the escrow to the available balance
func (s *Service) Approve(ctx context.Context, actor session.Actor, id uuid.UUID) (*ApprovalResult, error) {
	p, c, err := s.transit(ctx, actor, id, ActionApprove, ownerOfCampaign, func(ctx context.Context, p *Proposal, c *campaign.Campaign) error {
		if err := s.escrow.Release(ctx, p.InfluencerID, c.Budget, p.ID); err != nil {
			return fmt.Errorf("release escrow: %w", err)
		}
		p.PaymentStatus = PaymentReleased

		return nil
	})
	if err != nil {
		return nil, err
	}

	text := receipt(p, c.Title, c.Budget, p.UpdatedAt)
	log.Info().
		Str("proposal", p.ID.String()).
		Str("receipt", text).
		Msg("payment released")

	return &ApprovalResult{
		Proposal: p,
		Receipt:  text,
	}, nil
}

func (s *Service) RequestRevision(ctx context.Context, actor session.Actor, id uuid.UUID, feedback string) (*Proposal, error) {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return nil, fmt.Errorf("empty feedback: %w", ErrInvalidProposal)
	}

	p, _, err := s.transit(ctx, actor, id, ActionRequestRevision, ownerOfCampaign, func(_ context.Context, p *Proposal, _ *campaign.Campaign) error {
		p.Feedback = pointy.String(feedback)

		return nil
	})

	return p, err
}

// Get returns the proposal to its influencer or to the campaign owner
func (s *Service) Get(ctx context.Context, actor session.Actor, id uuid.UUID) (*Proposal, error) {
	p, c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := participant(actor, p, c); err != nil {
		return nil, err
	}

	return p, nil
}

// List returns own proposals for influencers and proposals of own campaigns for companies
func (s *Service) List(ctx context.Context, actor session.Actor, limit, offset int) (List, error) {
	if err := session.RequireRole(actor, session.RoleInfluencer, session.RoleCompany); err != nil {
		return List{}, err
	}

	filters := []Filter{PageFilter{Limit: limit, Offset: offset}}
	if actor.Role == session.RoleInfluencer {
		filters = append(filters, InfluencerFilter{ID: actor.ID})
	} else {
		ids, err := s.ownCampaigns(ctx, actor.ID)
		if err != nil {
			return List{}, err
		}
		if len(ids) == 0 {
			return List{}, nil
		}
		filters = append(filters, CampaignsFilter{IDs: ids})
	}

	list, err := s.repo.GetByFilters(ctx, filters)
	if err != nil {
		return List{}, fmt.Errorf("get by filters: %w", err)
	}

	return list, nil
}

// ListByCampaign returns every proposal to the campaign owner and only own ones to others
func (s *Service) ListByCampaign(ctx context.Context, actor session.Actor, campaignID uuid.UUID, limit, offset int) (List, error) {
	if actor.Anonymous() {
		return List{}, session.ErrUnauthenticated
	}

	c, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return List{}, err
	}

	filters := []Filter{
		CampaignFilter{ID: c.ID},
		PageFilter{Limit: limit, Offset: offset},
	}
	if c.OwnerID != actor.ID {
		filters = append(filters, InfluencerFilter{ID: actor.ID})
	}

	list, err := s.repo.GetByFilters(ctx, filters)
	if err != nil {
		return List{}, fmt.Errorf("get by filters: %w", err)
	}

	return list, nil
}

// CountForInfluencer returns the number of proposals submitted by the influencer
func (s *Service) CountForInfluencer(ctx context.Context, influencerID uuid.UUID) (int64, error) {
	return s.repo.Count(ctx, []Filter{InfluencerFilter{ID: influencerID}})
}

// CountForOwner returns the number of proposals received on the campaigns of the owner
func (s *Service) CountForOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	ids, err := s.ownCampaigns(ctx, ownerID)
	if err != nil {
		return 0, err
	}

	if len(ids) == 0 {
		return 0, nil
	}

	return s.repo.Count(ctx, []Filter{CampaignsFilter{IDs: ids}})
}

type guard func(actor session.Actor, p *Proposal, c *campaign.Campaign) error

type mutation func(ctx context.Context, p *Proposal, c *campaign.Campaign) error

// transit runs a lifecycle action in one transaction: the guard, the status change, the
// side effects of the action and the version checked write. Any failure rolls back all of them.
func (s *Service) transit(ctx context.Context, actor session.Actor, id uuid.UUID, action Action, check guard, apply mutation) (*Proposal, *campaign.Campaign, error) {
	var (
		p *Proposal
		c *campaign.Campaign
	)

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		p, c, err = s.load(ctx, id)
		if err != nil {
			return err
		}

		if err := check(actor, p, c); err != nil {
			return err
		}

		to, err := next(p, action)
		if err != nil {
			return err
		}
		p.Status = to

		if apply != nil {
			if err := apply(ctx, p, c); err != nil {
				return err
			}
		}

		return s.repo.Update(ctx, p)
	})
	metrics.CollectTransition(string(action), err)
	if err != nil {
		return nil, nil, err
	}

	log.Info().
		Str("proposal", p.ID.String()).
		Str("action", string(action)).
		Str("status", string(p.Status)).
		Str("payment", string(p.PaymentStatus)).
		Msg("proposal transition")

	s.publish(ctx, actor, c, p, action)

	return p, c, nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*Proposal, *campaign.Campaign, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrNotFound
	}

	if err != nil {
		return nil, nil, err
	}

	c, err := s.campaigns.GetByID(ctx, p.CampaignID)
	if err != nil {
		return nil, nil, fmt.Errorf("get campaign of proposal %s: %w", id, err)
	}

	return p, c, nil
}

func (s *Service) ownCampaigns(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	list, err := s.campaigns.GetByFilters(ctx, []campaign.Filter{campaign.OwnerFilter{ID: ownerID}})
	if err != nil {
		return nil, fmt.Errorf("get own campaigns: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(list.Campaigns))
	for _, c := range list.Campaigns {
		ids = append(ids, c.ID)
	}

	return ids, nil
}

func (s *Service) publish(ctx context.Context, actor session.Actor, c *campaign.Campaign, p *Proposal, action Action) {
	recipient := c.OwnerID
	if actor.ID == c.OwnerID {
		recipient = p.InfluencerID
	}

	s.events.PublishJSON(ctx, events.SubjectProposalStatusChanged, events.ProposalStatusChanged{
		ProposalID:    p.ID,
		CampaignID:    c.ID,
		CampaignTitle: c.Title,
		ActorID:       actor.ID,
		RecipientID:   recipient,
		Action:        string(action),
		Status:        string(p.Status),
		PaymentStatus: string(p.PaymentStatus),
		OccurredAt:    p.UpdatedAt,
	})
}

func ownerOfCampaign(actor session.Actor, _ *Proposal, c *campaign.Campaign) error {
	return session.RequireOwner(actor, c.OwnerID)
}

func ownInfluencer(actor session.Actor, p *Proposal, _ *campaign.Campaign) error {
	return session.RequireOwner(actor, p.InfluencerID)
}

func participant(actor session.Actor, p *Proposal, c *campaign.Campaign) error {
	if actor.Anonymous() {
		return session.ErrUnauthenticated
	}

	if actor.ID != p.InfluencerID && actor.ID != c.OwnerID {
		return fmt.Errorf("actor %s is not a participant: %w", actor.ID, session.ErrForbidden)
	}

	return nil
}
