package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/connecthub-labs/connecthub-storage/internal/config"
	"github.com/connecthub-labs/connecthub-storage/internal/events"
	"github.com/connecthub-labs/connecthub-storage/internal/session"
)

type memRepo struct {
	mu    sync.Mutex
	items []Notification
	err   error
}

func (m *memRepo) Create(_ context.Context, n *Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.items = append(m.items, *n)

	return nil
}

func (m *memRepo) GetByFilters(_ context.Context, filters []Filter) (List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := List{}
	for _, n := range m.items {
		keep := true
		for _, f := range filters {
			switch v := f.(type) {
			case UserFilter:
				keep = keep && n.UserID == v.ID
			case UnreadFilter:
				keep = keep && !n.Read
			}
		}
		if keep {
			list.Notifications = append(list.Notifications, n)
		}
	}
	list.TotalCount = int64(len(list.Notifications))

	return list, nil
}

func (m *memRepo) MarkRead(_ context.Context, userID, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, n := range m.items {
		if n.ID == id && n.UserID == userID {
			m.items[i].Read = true

			return true, nil
		}
	}

	return false, nil
}

func TestUnitConsumerCreatesNotifications(t *testing.T) {
	repo := &memRepo{}
	consumer := NewConsumer(nil, NewService(repo))

	influencer := uuid.New()
	owner := uuid.New()

	require.NoError(t, consumer.proposalStatusChanged()(events.ProposalStatusChanged{
		ProposalID:    uuid.New(),
		CampaignTitle: "Lancio Prodotto",
		RecipientID:   influencer,
		Status:        "Accettata",
		PaymentStatus: "unpaid",
	}))
	require.NoError(t, consumer.pitchLOISent()(events.PitchLOISent{
		PitchID:   uuid.New(),
		PitchName: "GreenTech",
		OwnerID:   owner,
	}))
	require.NoError(t, consumer.sponsorshipFunded()(events.SponsorshipFunded{
		RequestID: uuid.New(),
		Title:     "Nuove divise",
		OwnerID:   owner,
		Amount:    "500.00",
		Completed: true,
	}))

	service := consumer.service
	list, err := service.List(context.Background(), session.Actor{ID: owner}, false, 10, 0)
	require.NoError(t, err)
	require.EqualValues(t, 2, list.TotalCount)

	list, err = service.List(context.Background(), session.Actor{ID: influencer}, true, 10, 0)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	require.Equal(t, KindProposal, list.Notifications[0].Kind)
	require.Contains(t, list.Notifications[0].Title, "Accettata")
}

func TestUnitConsumerReturnsStoreErrorsForRedelivery(t *testing.T) {
	repo := &memRepo{err: errors.New("connection refused")}
	consumer := NewConsumer(nil, NewService(repo))

	tests := map[string]func() error{
		"proposal status changed": func() error {
			return consumer.proposalStatusChanged()(events.ProposalStatusChanged{RecipientID: uuid.New()})
		},
		"pitch loi sent": func() error {
			return consumer.pitchLOISent()(events.PitchLOISent{OwnerID: uuid.New()})
		},
		"sponsorship funded": func() error {
			return consumer.sponsorshipFunded()(events.SponsorshipFunded{OwnerID: uuid.New()})
		},
	}

	for name, handle := range tests {
		t.Run(name, func(t *testing.T) {
			require.Error(t, handle())
		})
	}
	require.Empty(t, repo.items)
}

func TestUnitConsumerGroupName(t *testing.T) {
	require.Equal(t, "connecthub_storage_notifications", config.GenerateGroupName(groupName))
}

func TestUnitMarkRead(t *testing.T) {
	repo := &memRepo{}
	service := NewService(repo)
	ctx := context.Background()
	user := session.Actor{ID: uuid.New(), Role: session.RoleTeam}

	require.NoError(t, service.handlePitchLOISent(ctx, events.PitchLOISent{PitchID: uuid.New(), OwnerID: user.ID}))
	id := repo.items[0].ID

	require.ErrorIs(t, service.MarkRead(ctx, session.Actor{ID: uuid.New()}, id), ErrNotFound)
	require.NoError(t, service.MarkRead(ctx, user, id))

	list, err := service.List(ctx, user, true, 10, 0)
	require.NoError(t, err)
	require.Zero(t, list.TotalCount)

	require.ErrorIs(t, service.MarkRead(ctx, session.Actor{}, id), session.ErrUnauthenticated)
}

func TestUnitSkipEventsWithoutRecipient(t *testing.T) {
	repo := &memRepo{}
	service := NewService(repo)

	require.NoError(t, service.handleProposalStatusChanged(context.Background(), events.ProposalStatusChanged{}))
	require.Empty(t, repo.items)
}
