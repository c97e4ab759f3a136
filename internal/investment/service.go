package investment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/connecthub-labs/connecthub-storage/internal/events"
	"github.com/connecthub-labs/connecthub-storage/internal/session"
)

var (
	ErrInvalidPitch      = errors.New("invalid pitch")
	ErrInvalidTransition = errors.New("pitch is not in the required status")
	ErrNotFound          = errors.New("pitch not found")
)

type DataProvider interface {
	Create(ctx context.Context, p *Pitch) error
	GetByID(ctx context.Context, id uuid.UUID) (*Pitch, error)
	GetByFilters(ctx context.Context, filters []Filter) (List, error)
	UpdateStatus(ctx context.Context, p *Pitch, from Status) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filters []Filter) (int64, error)
}

type Publisher interface {
	PublishJSON(ctx context.Context, subject string, payload any)
}

type Service struct {
	repo   DataProvider
	events Publisher
}

func NewService(r DataProvider, p Publisher) *Service {
	return &Service{
		repo:   r,
		events: p,
	}
}

func (s *Service) Create(ctx context.Context, actor session.Actor, req CreateRequest) (*Pitch, error) {
	if err := session.RequireRole(actor, session.RoleCompany); err != nil {
		return nil, err
	}

	if !req.Validate() {
		return nil, ErrInvalidPitch
	}

	now := time.Now()
	p := &Pitch{
		ID:               uuid.New(),
		CreatedAt:        now,
		UpdatedAt:        now,
		Name:             strings.TrimSpace(req.Name),
		Sector:           strings.TrimSpace(req.Sector),
		Description:      strings.TrimSpace(req.Description),
		CapitalRequested: req.CapitalRequested,
		EquityPercentage: req.EquityPercentage,
		Status:           StatusAvailable,
		OwnerID:          actor.ID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create pitch: %w", err)
	}

	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Pitch, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) GetByFilters(ctx context.Context, filters []Filter) (List, error) {
	list, err := s.repo.GetByFilters(ctx, filters)
	if err != nil {
		return List{}, fmt.Errorf("get by filters: %w", err)
	}

	return list, nil
}

func (s *Service) Count(ctx context.Context, filters []Filter) (int64, error) {
	return s.repo.Count(ctx, filters)
}

// SendLOI registers the letter of intent of an investor. No money moves.
func (s *Service) SendLOI(ctx context.Context, actor session.Actor, id uuid.UUID) (*Pitch, error) {
	if err := session.RequireRole(actor, session.RoleInvestor); err != nil {
		return nil, err
	}

	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.OwnerID == actor.ID {
		return nil, fmt.Errorf("own pitch: %w", session.ErrForbidden)
	}

	investorID := actor.ID
	p.Status = StatusNegotiation
	p.InvestorID = &investorID
	if err := s.move(ctx, p, StatusAvailable); err != nil {
		return nil, err
	}

	s.events.PublishJSON(ctx, events.SubjectPitchLOISent, events.PitchLOISent{
		PitchID:    p.ID,
		PitchName:  p.Name,
		OwnerID:    p.OwnerID,
		InvestorID: actor.ID,
		OccurredAt: p.UpdatedAt,
	})

	return p, nil
}

// MarkFunded closes the negotiation
func (s *Service) MarkFunded(ctx context.Context, actor session.Actor, id uuid.UUID) (*Pitch, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := session.RequireOwner(actor, p.OwnerID); err != nil {
		return nil, err
	}

	p.Status = StatusFunded
	if err := s.move(ctx, p, StatusNegotiation); err != nil {
		return nil, err
	}

	return p, nil
}

// Delete removes the pitch while no investor has shown interest
func (s *Service) Delete(ctx context.Context, actor session.Actor, id uuid.UUID) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := session.RequireOwner(actor, p.OwnerID); err != nil {
		return err
	}

	if p.Status != StatusAvailable {
		return fmt.Errorf("delete pitch in status %q: %w", p.Status, ErrInvalidTransition)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete pitch %s: %w", id, err)
	}

	return nil
}

func (s *Service) move(ctx context.Context, p *Pitch, from Status) error {
	updated, err := s.repo.UpdateStatus(ctx, p, from)
	if err != nil {
		return err
	}

	if !updated {
		return fmt.Errorf("move pitch %s from %q: %w", p.ID, from, ErrInvalidTransition)
	}

	log.Info().
		Str("pitch", p.ID.String()).
		Str("status", string(p.Status)).
		Msg("pitch status changed")

	return nil
}
