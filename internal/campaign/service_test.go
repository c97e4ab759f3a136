package campaign

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/connecthub-labs/connecthub-storage/internal/session"
)

type memRepo struct {
	items map[uuid.UUID]Campaign
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[uuid.UUID]Campaign)}
}

func (m *memRepo) Create(_ context.Context, c *Campaign) error {
	m.items[c.ID] = *c

	return nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Campaign, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("get campaign by id #%s: %w", id, gorm.ErrRecordNotFound)
	}

	return &c, nil
}

func (m *memRepo) GetByFilters(_ context.Context, _ []Filter) (List, error) {
	list := List{}
	for _, c := range m.items {
		list.Campaigns = append(list.Campaigns, c)
	}
	list.TotalCount = int64(len(list.Campaigns))

	return list, nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)

	return nil
}

func (m *memRepo) Count(_ context.Context, _ []Filter) (int64, error) {
	return int64(len(m.items)), nil
}

type stubRemover struct {
	calls []uuid.UUID
	err   error
}

func (s *stubRemover) DeleteByCampaign(_ context.Context, id uuid.UUID) (int64, error) {
	s.calls = append(s.calls, id)

	return 1, s.err
}

type passTx struct{}

func (passTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func validRequest() CreateRequest {
	return CreateRequest{
		Title:       "Lancio Prodotto",
		Description: "Video di 30 secondi",
		Budget:      decimal.NewFromInt(1000),
		Deadline:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		CompanyName: "Azienda Beta",
	}
}

func TestUnitCreate(t *testing.T) {
	company := session.Actor{ID: uuid.New(), Role: session.RoleCompany}
	s := NewService(newMemRepo(), &stubRemover{}, passTx{})

	c, err := s.Create(context.Background(), company, validRequest())
	require.NoError(t, err)
	require.Equal(t, company.ID, c.OwnerID)
	require.True(t, c.Budget.Equal(decimal.NewFromInt(1000)))

	got, err := s.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	require.Equal(t, "Lancio Prodotto", got.Title)
}

func TestUnitCreateValidation(t *testing.T) {
	company := session.Actor{ID: uuid.New(), Role: session.RoleCompany}

	for name, tc := range map[string]struct {
		actor    session.Actor
		mutate   func(r *CreateRequest)
		expected error
	}{
		"influencer cannot publish": {
			actor:    session.Actor{ID: uuid.New(), Role: session.RoleInfluencer},
			mutate:   func(*CreateRequest) {},
			expected: session.ErrForbidden,
		},
		"empty title": {
			actor:    company,
			mutate:   func(r *CreateRequest) { r.Title = "  " },
			expected: ErrInvalidCampaign,
		},
		"zero budget": {
			actor:    company,
			mutate:   func(r *CreateRequest) { r.Budget = decimal.Zero },
			expected: ErrInvalidCampaign,
		},
		"negative budget": {
			actor:    company,
			mutate:   func(r *CreateRequest) { r.Budget = decimal.NewFromInt(-5) },
			expected: ErrInvalidCampaign,
		},
		"budget with fraction of a cent": {
			actor:    company,
			mutate:   func(r *CreateRequest) { r.Budget = decimal.RequireFromString("999.999") },
			expected: ErrInvalidCampaign,
		},
		"budget over column capacity": {
			actor:    company,
			mutate:   func(r *CreateRequest) { r.Budget = decimal.New(1, 12) },
			expected: ErrInvalidCampaign,
		},
		"missing deadline": {
			actor:    company,
			mutate:   func(r *CreateRequest) { r.Deadline = time.Time{} },
			expected: ErrInvalidCampaign,
		},
	} {
		t.Run(name, func(t *testing.T) {
			s := NewService(newMemRepo(), &stubRemover{}, passTx{})
			req := validRequest()
			tc.mutate(&req)

			_, err := s.Create(context.Background(), tc.actor, req)
			require.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestUnitDelete(t *testing.T) {
	ctx := context.Background()
	company := session.Actor{ID: uuid.New(), Role: session.RoleCompany}

	t.Run("owner deletes with proposals", func(t *testing.T) {
		repo := newMemRepo()
		remover := &stubRemover{}
		s := NewService(repo, remover, passTx{})

		c, err := s.Create(ctx, company, validRequest())
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, company, c.ID))
		require.Equal(t, []uuid.UUID{c.ID}, remover.calls)

		_, err = s.GetByID(ctx, c.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		remover := &stubRemover{}
		s := NewService(newMemRepo(), remover, passTx{})

		c, err := s.Create(ctx, company, validRequest())
		require.NoError(t, err)

		other := session.Actor{ID: uuid.New(), Role: session.RoleCompany}
		require.ErrorIs(t, s.Delete(ctx, other, c.ID), session.ErrForbidden)
		require.Empty(t, remover.calls)
	})

	t.Run("proposal removal failure keeps campaign", func(t *testing.T) {
		repo := newMemRepo()
		s := NewService(repo, &stubRemover{err: errors.New("db down")}, passTx{})

		c, err := s.Create(ctx, company, validRequest())
		require.NoError(t, err)

		require.Error(t, s.Delete(ctx, company, c.ID))
		require.Contains(t, repo.items, c.ID)
	})

	t.Run("unknown campaign", func(t *testing.T) {
		s := NewService(newMemRepo(), &stubRemover{}, passTx{})
		require.ErrorIs(t, s.Delete(ctx, company, uuid.New()), ErrNotFound)
	})
}
