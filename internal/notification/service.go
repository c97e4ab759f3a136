package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.openly.dev/pointy"

	"github.com/connecthub-labs/connecthub-storage/internal/events"
	"github.com/connecthub-labs/connecthub-storage/internal/session"
)

var ErrNotFound = errors.New("notification not found")

type DataProvider interface {
	Create(ctx context.Context, n *Notification) error
	GetByFilters(ctx context.Context, filters []Filter) (List, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) (bool, error)
}

type Service struct {
	repo DataProvider
}

func NewService(r DataProvider) *Service {
	return &Service{
		repo: r,
	}
}

func (s *Service) List(ctx context.Context, actor session.Actor, unreadOnly bool, limit, offset int) (List, error) {
	if actor.Anonymous() {
		return List{}, session.ErrUnauthenticated
	}

	filters := []Filter{
		UserFilter{ID: actor.ID},
		PageFilter{Limit: limit, Offset: offset},
	}
	if unreadOnly {
		filters = append(filters, UnreadFilter{})
	}

	list, err := s.repo.GetByFilters(ctx, filters)
	if err != nil {
		return List{}, fmt.Errorf("get by filters: %w", err)
	}

	return list, nil
}

func (s *Service) MarkRead(ctx context.Context, actor session.Actor, id uuid.UUID) error {
	if actor.Anonymous() {
		return session.ErrUnauthenticated
	}

	found, err := s.repo.MarkRead(ctx, actor.ID, id)
	if err != nil {
		return err
	}

	if !found {
		return ErrNotFound
	}

	return nil
}

func (s *Service) handleProposalStatusChanged(ctx context.Context, e events.ProposalStatusChanged) error {
	return s.create(ctx, &Notification{
		UserID:      e.RecipientID,
		Kind:        KindProposal,
		Title:       fmt.Sprintf("Campagna %q: %s", e.CampaignTitle, e.Status),
		Body:        pointy.String(fmt.Sprintf("Stato pagamento: %s", e.PaymentStatus)),
		ReferenceID: ref(e.ProposalID),
	})
}

func (s *Service) handlePitchLOISent(ctx context.Context, e events.PitchLOISent) error {
	return s.create(ctx, &Notification{
		UserID:      e.OwnerID,
		Kind:        KindPitch,
		Title:       fmt.Sprintf("Nuova lettera di intenti per %q", e.PitchName),
		ReferenceID: ref(e.PitchID),
	})
}

func (s *Service) handleSponsorshipFunded(ctx context.Context, e events.SponsorshipFunded) error {
	title := fmt.Sprintf("Nuova donazione di EUR %s per %q", e.Amount, e.Title)
	if e.Completed {
		title = fmt.Sprintf("Obiettivo raggiunto per %q", e.Title)
	}

	return s.create(ctx, &Notification{
		UserID:      e.OwnerID,
		Kind:        KindSponsorship,
		Title:       title,
		ReferenceID: ref(e.RequestID),
	})
}

func (s *Service) create(ctx context.Context, n *Notification) error {
	if n.UserID == uuid.Nil {
		return nil
	}

	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

func ref(id uuid.UUID) *uuid.UUID {
	return &id
}
