package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/connecthub-labs/connecthub-storage/internal/campaign"
	"github.com/connecthub-labs/connecthub-storage/internal/investment"
	"github.com/connecthub-labs/connecthub-storage/internal/session"
	"github.com/connecthub-labs/connecthub-storage/internal/sponsorship"
)

type campaigns struct {
	err error
}

func (c campaigns) Count(_ context.Context, filters []campaign.Filter) (int64, error) {
	if len(filters) == 0 {
		return 10, c.err
	}

	return 2, c.err
}

type proposals struct{}

func (proposals) CountForInfluencer(context.Context, uuid.UUID) (int64, error) { return 3, nil }
func (proposals) CountForOwner(context.Context, uuid.UUID) (int64, error)      { return 7, nil }

type pitches struct{}

func (pitches) Count(_ context.Context, filters []investment.Filter) (int64, error) {
	if len(filters) == 0 {
		return 20, nil
	}

	return 1, nil
}

type sponsorships struct{}

func (sponsorships) Count(_ context.Context, filters []sponsorship.Filter) (int64, error) {
	return int64(30 - 10*len(filters)), nil
}

type messages struct{}

func (messages) CountUnread(context.Context, uuid.UUID) (int64, error) { return 4, nil }

func TestUnitSummaryByRole(t *testing.T) {
	service := NewService(campaigns{}, proposals{}, pitches{}, sponsorships{}, messages{})

	for name, tc := range map[string]struct {
		role     session.Role
		expected map[string]int64
	}{
		"company": {
			role: session.RoleCompany,
			expected: map[string]int64{
				CounterCampaigns:      2,
				CounterProposals:      7,
				CounterPitches:        1,
				CounterUnreadMessages: 4,
			},
		},
		"team": {
			role: session.RoleTeam,
			expected: map[string]int64{
				CounterSponsorships:       20,
				CounterFundedSponsorships: 10,
				CounterUnreadMessages:     4,
			},
		},
		"influencer": {
			role: session.RoleInfluencer,
			expected: map[string]int64{
				CounterProposals:      3,
				CounterCampaigns:      10,
				CounterUnreadMessages: 4,
			},
		},
		"investor": {
			role: session.RoleInvestor,
			expected: map[string]int64{
				CounterPitches:        20,
				CounterSponsorships:   30,
				CounterUnreadMessages: 4,
			},
		},
		"without profile": {
			role: session.RoleUnknown,
			expected: map[string]int64{
				CounterUnreadMessages: 4,
			},
		},
	} {
		t.Run(name, func(t *testing.T) {
			summary, err := service.Summary(context.Background(), session.Actor{ID: uuid.New(), Role: tc.role})
			require.NoError(t, err)
			require.Equal(t, tc.expected, summary.Counters)
		})
	}
}

func TestUnitSummaryErrors(t *testing.T) {
	service := NewService(campaigns{err: errors.New("db down")}, proposals{}, pitches{}, sponsorships{}, messages{})

	_, err := service.Summary(context.Background(), session.Actor{ID: uuid.New(), Role: session.RoleCompany})
	require.Error(t, err)

	_, err = service.Summary(context.Background(), session.Actor{})
	require.ErrorIs(t, err, session.ErrUnauthenticated)
}
