// Package dashboard builds the per-role counters of the home page.
package dashboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/connecthub-labs/connecthub-storage/internal/campaign"
	"github.com/connecthub-labs/connecthub-storage/internal/investment"
	"github.com/connecthub-labs/connecthub-storage/internal/session"
	"github.com/connecthub-labs/connecthub-storage/internal/sponsorship"
)

const (
	CounterCampaigns          = "campaigns"
	CounterProposals          = "proposals"
	CounterPitches            = "pitches"
	CounterSponsorships       = "sponsorships"
	CounterFundedSponsorships = "funded_sponsorships"
	CounterUnreadMessages     = "unread_messages"
)

type CampaignCounter interface {
	Count(ctx context.Context, filters []campaign.Filter) (int64, error)
}

type ProposalCounter interface {
	CountForInfluencer(ctx context.Context, influencerID uuid.UUID) (int64, error)
	CountForOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

type PitchCounter interface {
	Count(ctx context.Context, filters []investment.Filter) (int64, error)
}

type SponsorshipCounter interface {
	Count(ctx context.Context, filters []sponsorship.Filter) (int64, error)
}

type MessageCounter interface {
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type Summary struct {
	Role     session.Role
	Counters map[string]int64
}

type Service struct {
	campaigns    CampaignCounter
	proposals    ProposalCounter
	pitches      PitchCounter
	sponsorships SponsorshipCounter
	messages     MessageCounter
}

func NewService(c CampaignCounter, p ProposalCounter, pc PitchCounter, sc SponsorshipCounter, mc MessageCounter) *Service {
	return &Service{
		campaigns:    c,
		proposals:    p,
		pitches:      pc,
		sponsorships: sc,
		messages:     mc,
	}
}

type counter struct {
	name  string
	count func(ctx context.Context) (int64, error)
}

func (s *Service) Summary(ctx context.Context, actor session.Actor) (*Summary, error) {
	if actor.Anonymous() {
		return nil, session.ErrUnauthenticated
	}

	counters := append(s.roleCounters(actor), counter{
		name: CounterUnreadMessages,
		count: func(ctx context.Context) (int64, error) {
			return s.messages.CountUnread(ctx, actor.ID)
		},
	})

	summary := &Summary{
		Role:     actor.Role,
		Counters: make(map[string]int64, len(counters)),
	}
	for _, c := range counters {
		value, err := c.count(ctx)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", c.name, err)
		}
		summary.Counters[c.name] = value
	}

	return summary, nil
}

func (s *Service) roleCounters(actor session.Actor) []counter {
	switch actor.Role {
	case session.RoleCompany:
		return []counter{
			{name: CounterCampaigns, count: func(ctx context.Context) (int64, error) {
				return s.campaigns.Count(ctx, []campaign.Filter{campaign.OwnerFilter{ID: actor.ID}})
			}},
			{name: CounterProposals, count: func(ctx context.Context) (int64, error) {
				return s.proposals.CountForOwner(ctx, actor.ID)
			}},
			{name: CounterPitches, count: func(ctx context.Context) (int64, error) {
				return s.pitches.Count(ctx, []investment.Filter{investment.OwnerFilter{ID: actor.ID}})
			}},
		}
	case session.RoleTeam:
		return []counter{
			{name: CounterSponsorships, count: func(ctx context.Context) (int64, error) {
				return s.sponsorships.Count(ctx, []sponsorship.Filter{sponsorship.OwnerFilter{ID: actor.ID}})
			}},
			{name: CounterFundedSponsorships, count: func(ctx context.Context) (int64, error) {
				return s.sponsorships.Count(ctx, []sponsorship.Filter{
					sponsorship.OwnerFilter{ID: actor.ID},
					sponsorship.StatusFilter{Status: sponsorship.StatusFunded},
				})
			}},
		}
	case session.RoleInfluencer:
		return []counter{
			{name: CounterProposals, count: func(ctx context.Context) (int64, error) {
				return s.proposals.CountForInfluencer(ctx, actor.ID)
			}},
			{name: CounterCampaigns, count: func(ctx context.Context) (int64, error) {
				return s.campaigns.Count(ctx, nil)
			}},
		}
	case session.RoleInvestor:
		return []counter{
			{name: CounterPitches, count: func(ctx context.Context) (int64, error) {
				return s.pitches.Count(ctx, nil)
			}},
			{name: CounterSponsorships, count: func(ctx context.Context) (int64, error) {
				return s.sponsorships.Count(ctx, nil)
			}},
		}
	default:
		return nil
	}
}
