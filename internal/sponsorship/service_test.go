package sponsorship

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/connecthub-labs/connecthub-storage/internal/events"
	"github.com/connecthub-labs/connecthub-storage/internal/session"
)

type memRepo struct {
	items map[uuid.UUID]Request
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[uuid.UUID]Request)}
}

func (m *memRepo) Create(_ context.Context, r *Request) error {
	m.items[r.ID] = *r

	return nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Request, error) {
	r, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("get sponsorship request by id #%s: %w", id, gorm.ErrRecordNotFound)
	}

	return &r, nil
}

func (m *memRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*Request, error) {
	return m.GetByID(ctx, id)
}

func (m *memRepo) GetByFilters(_ context.Context, _ []Filter) (List, error) {
	list := List{}
	for _, r := range m.items {
		list.Requests = append(list.Requests, r)
	}
	list.TotalCount = int64(len(list.Requests))

	return list, nil
}

func (m *memRepo) Save(_ context.Context, r *Request) error {
	m.items[r.ID] = *r

	return nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)

	return nil
}

func (m *memRepo) Count(_ context.Context, _ []Filter) (int64, error) {
	return int64(len(m.items)), nil
}

type passTx struct{}

func (passTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingPublisher struct {
	payloads []events.SponsorshipFunded
}

func (r *recordingPublisher) PublishJSON(_ context.Context, _ string, payload any) {
	r.payloads = append(r.payloads, payload.(events.SponsorshipFunded))
}

func setup(t *testing.T) (*Service, *recordingPublisher, session.Actor, *Request) {
	t.Helper()

	pub := &recordingPublisher{}
	service := NewService(newMemRepo(), passTx{}, pub)
	team := session.Actor{ID: uuid.New(), Role: session.RoleTeam}

	r, err := service.Create(context.Background(), team, CreateRequest{
		Title:        "Nuove divise",
		Description:  "Divise per la squadra giovanile",
		AmountNeeded: decimal.NewFromInt(500),
		Purpose:      "Sport giovanile",
		City:         "Bologna",
		PostalCode:   "40121",
		Region:       "Emilia-Romagna",
	})
	require.NoError(t, err)

	return service, pub, team, r
}

func TestUnitFundPartialThenTotal(t *testing.T) {
	service, pub, _, r := setup(t)
	ctx := context.Background()
	sponsor := session.Actor{ID: uuid.New(), Role: session.RoleInvestor}

	res, err := service.Fund(ctx, sponsor, r.ID, FundModePartial, decimal.NewFromInt(200))
	require.NoError(t, err)
	require.Equal(t, StatusActive, res.Request.Status)
	require.True(t, res.Request.AmountFunded.Equal(decimal.NewFromInt(200)))
	require.Contains(t, res.Receipt, "EUR 200.00")

	res, err = service.Fund(ctx, sponsor, r.ID, FundModeTotal, decimal.Zero)
	require.NoError(t, err)
	require.True(t, res.Amount.Equal(decimal.NewFromInt(300)))
	require.Equal(t, StatusFunded, res.Request.Status)
	require.True(t, res.Request.AmountFunded.Equal(res.Request.AmountNeeded))

	require.Len(t, pub.payloads, 2)
	require.False(t, pub.payloads[0].Completed)
	require.True(t, pub.payloads[1].Completed)

	_, err = service.Fund(ctx, sponsor, r.ID, FundModePartial, decimal.NewFromInt(1))
	require.ErrorIs(t, err, ErrAlreadyFunded)
}

func TestUnitFundRules(t *testing.T) {
	for name, tc := range map[string]struct {
		sponsor  func(owner session.Actor) session.Actor
		mode     FundMode
		amount   decimal.Decimal
		expected error
	}{
		"owner cannot fund": {
			sponsor:  func(owner session.Actor) session.Actor { return owner },
			mode:     FundModeTotal,
			expected: session.ErrForbidden,
		},
		"team cannot fund": {
			sponsor: func(session.Actor) session.Actor {
				return session.Actor{ID: uuid.New(), Role: session.RoleTeam}
			},
			mode:     FundModeTotal,
			expected: session.ErrForbidden,
		},
		"over remaining": {
			sponsor: func(session.Actor) session.Actor {
				return session.Actor{ID: uuid.New(), Role: session.RoleCompany}
			},
			mode:     FundModePartial,
			amount:   decimal.NewFromInt(501),
			expected: ErrInvalidAmount,
		},
		"zero partial": {
			sponsor: func(session.Actor) session.Actor {
				return session.Actor{ID: uuid.New(), Role: session.RoleInfluencer}
			},
			mode:     FundModePartial,
			amount:   decimal.Zero,
			expected: ErrInvalidAmount,
		},
		"below one cent": {
			sponsor: func(session.Actor) session.Actor {
				return session.Actor{ID: uuid.New(), Role: session.RoleInvestor}
			},
			mode:     FundModePartial,
			amount:   decimal.RequireFromString("0.004"),
			expected: ErrInvalidAmount,
		},
		"fraction of a cent": {
			sponsor: func(session.Actor) session.Actor {
				return session.Actor{ID: uuid.New(), Role: session.RoleCompany}
			},
			mode:     FundModePartial,
			amount:   decimal.RequireFromString("99.995"),
			expected: ErrInvalidAmount,
		},
		"unknown mode": {
			sponsor: func(session.Actor) session.Actor {
				return session.Actor{ID: uuid.New(), Role: session.RoleInvestor}
			},
			mode:     "half",
			expected: ErrInvalidAmount,
		},
		"exact remaining": {
			sponsor: func(session.Actor) session.Actor {
				return session.Actor{ID: uuid.New(), Role: session.RoleInvestor}
			},
			mode:   FundModePartial,
			amount: decimal.NewFromInt(500),
		},
	} {
		t.Run(name, func(t *testing.T) {
			service, _, team, r := setup(t)

			_, err := service.Fund(context.Background(), tc.sponsor(team), r.ID, tc.mode, tc.amount)
			if tc.expected != nil {
				require.ErrorIs(t, err, tc.expected)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestUnitRejectedAmountLeavesRequestUntouched(t *testing.T) {
	service, pub, _, r := setup(t)
	ctx := context.Background()
	sponsor := session.Actor{ID: uuid.New(), Role: session.RoleInvestor}

	_, err := service.Fund(ctx, sponsor, r.ID, FundModePartial, decimal.RequireFromString("0.004"))
	require.ErrorIs(t, err, ErrInvalidAmount)

	got, err := service.GetByID(ctx, r.ID)
	require.NoError(t, err)
	require.True(t, got.AmountFunded.IsZero())
	require.Equal(t, StatusActive, got.Status)
	require.Empty(t, pub.payloads)
}

func TestUnitDeleteWhileActive(t *testing.T) {
	service, _, team, r := setup(t)
	ctx := context.Background()

	require.NoError(t, service.Delete(ctx, team, r.ID))

	_, err := service.GetByID(ctx, r.ID)
	require.ErrorIs(t, err, ErrNotFound)

	service, _, team, r = setup(t)
	_, err = service.Fund(ctx, session.Actor{ID: uuid.New(), Role: session.RoleInvestor}, r.ID, FundModeTotal, decimal.Zero)
	require.NoError(t, err)
	require.ErrorIs(t, service.Delete(ctx, team, r.ID), ErrAlreadyFunded)
}
