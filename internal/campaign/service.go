package campaign

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/connecthub-labs/connecthub-storage/internal/session"
)

var (
	ErrInvalidCampaign = errors.New("invalid campaign")
	ErrNotFound        = errors.New("campaign not found")
)

type DataProvider interface {
	Create(ctx context.Context, c *Campaign) error
	GetByID(ctx context.Context, id uuid.UUID) (*Campaign, error)
	GetByFilters(ctx context.Context, filters []Filter) (List, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filters []Filter) (int64, error)
}

// ProposalRemover removes proposals attached to a campaign
type ProposalRemover interface {
	DeleteByCampaign(ctx context.Context, campaignID uuid.UUID) (int64, error)
}

type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Service struct {
	repo      DataProvider
	proposals ProposalRemover
	tx        Transactor
}

func NewService(r DataProvider, pr ProposalRemover, tx Transactor) *Service {
	return &Service{
		repo:      r,
		proposals: pr,
		tx:        tx,
	}
}

func (s *Service) Create(ctx context.Context, actor session.Actor, req CreateRequest) (*Campaign, error) {
	if err := session.RequireRole(actor, session.RoleCompany); err != nil {
		return nil, err
	}

	if !req.Validate() {
		return nil, ErrInvalidCampaign
	}

	c := &Campaign{
		ID:          uuid.New(),
		CreatedAt:   time.Now(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Budget:      req.Budget,
		Deadline:    req.Deadline,
		CompanyName: strings.TrimSpace(req.CompanyName),
		OwnerID:     actor.ID,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}

	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Campaign, error) {
	c, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return c, nil
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

// Delete removes the campaign together with every proposal referencing it
func (s *Service) Delete(ctx context.Context, actor session.Actor, id uuid.UUID) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		c, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := session.RequireOwner(actor, c.OwnerID); err != nil {
			return err
		}

		removed, err := s.proposals.DeleteByCampaign(ctx, id)
		if err != nil {
			return fmt.Errorf("delete proposals of %s: %w", id, err)
		}

		if err := s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete campaign %s: %w", id, err)
		}

		log.Info().
			Str("campaign", id.String()).
			Int64("proposals", removed).
			Msg("campaign deleted")

		return nil
	})
}
