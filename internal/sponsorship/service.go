package sponsorship

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/connecthub-labs/connecthub-storage/internal/events"
	"github.com/connecthub-labs/connecthub-storage/internal/session"
	"github.com/connecthub-labs/connecthub-storage/pkg/money"
)

var (
	ErrInvalidRequest = errors.New("invalid sponsorship request")
	ErrInvalidAmount  = errors.New("invalid funding amount")
	ErrAlreadyFunded  = errors.New("sponsorship request already funded")
	ErrNotFound       = errors.New("sponsorship request not found")
)

type DataProvider interface {
	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*Request, error)
	GetByFilters(ctx context.Context, filters []Filter) (List, error)
	Save(ctx context.Context, req *Request) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filters []Filter) (int64, error)
}

type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	PublishJSON(ctx context.Context, subject string, payload any)
}

type Service struct {
	repo   DataProvider
	tx     Transactor
	events Publisher
}

func NewService(r DataProvider, tx Transactor, p Publisher) *Service {
	return &Service{
		repo:   r,
		tx:     tx,
		events: p,
	}
}

func (s *Service) Create(ctx context.Context, actor session.Actor, req CreateRequest) (*Request, error) {
	if err := session.RequireRole(actor, session.RoleTeam); err != nil {
		return nil, err
	}

	if !req.Validate() {
		return nil, ErrInvalidRequest
	}

	now := time.Now()
	r := &Request{
		ID:           uuid.New(),
		CreatedAt:    now,
		UpdatedAt:    now,
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		AmountNeeded: req.AmountNeeded,
		AmountFunded: decimal.Zero,
		Purpose:      strings.TrimSpace(req.Purpose),
		City:         strings.TrimSpace(req.City),
		PostalCode:   strings.TrimSpace(req.PostalCode),
		Region:       strings.TrimSpace(req.Region),
		OwnerID:      actor.ID,
		Status:       StatusActive,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create sponsorship request: %w", err)
	}

	return r, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	r, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return r, nil
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

// Fund registers a donation. Total mode covers the whole remaining amount, partial mode
// the given one. Wallet balances are not touched.
func (s *Service) Fund(ctx context.Context, actor session.Actor, id uuid.UUID, mode FundMode, amount decimal.Decimal) (*FundResult, error) {
	if err := session.RequireRole(actor, session.RoleInvestor, session.RoleCompany, session.RoleInfluencer); err != nil {
		return nil, err
	}

	if mode != FundModeTotal && mode != FundModePartial {
		return nil, fmt.Errorf("unknown mode %q: %w", mode, ErrInvalidAmount)
	}

	var (
		r      *Request
		donate decimal.Decimal
	)
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		r, err = s.repo.GetForUpdate(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if r.OwnerID == actor.ID {
			return fmt.Errorf("own sponsorship request: %w", session.ErrForbidden)
		}

		if r.Status == StatusFunded {
			return ErrAlreadyFunded
		}

		remaining := r.Remaining()
		donate = remaining
		if mode == FundModePartial {
			if !money.IsAmount(amount) || amount.GreaterThan(remaining) {
				return fmt.Errorf("amount %s of remaining %s: %w", amount, remaining, ErrInvalidAmount)
			}
			donate = amount
		}

		r.AmountFunded = r.AmountFunded.Add(donate)
		r.UpdatedAt = time.Now()
		if r.AmountFunded.GreaterThanOrEqual(r.AmountNeeded) {
			r.Status = StatusFunded
		}

		return s.repo.Save(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	text := donationReceipt(r, actor.ID, donate, r.UpdatedAt)
	log.Info().
		Str("request", r.ID.String()).
		Str("amount", donate.String()).
		Str("status", string(r.Status)).
		Msg("sponsorship funded")

	s.events.PublishJSON(ctx, events.SubjectSponsorshipFunded, events.SponsorshipFunded{
		RequestID:  r.ID,
		Title:      r.Title,
		OwnerID:    r.OwnerID,
		SponsorID:  actor.ID,
		Amount:     donate.StringFixed(2),
		Completed:  r.Status == StatusFunded,
		OccurredAt: r.UpdatedAt,
	})

	return &FundResult{
		Request: r,
		Amount:  donate,
		Receipt: text,
	}, nil
}

// Delete removes the request of the owner while it is still collecting funds
func (s *Service) Delete(ctx context.Context, actor session.Actor, id uuid.UUID) error {
	r, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := session.RequireOwner(actor, r.OwnerID); err != nil {
		return err
	}

	if r.Status != StatusActive {
		return ErrAlreadyFunded
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete sponsorship request %s: %w", id, err)
	}

	return nil
}

func donationReceipt(r *Request, sponsorID uuid.UUID, amount decimal.Decimal, at time.Time) string {
	var sb strings.Builder
	sb.WriteString("RICEVUTA DI EROGAZIONE LIBERALE\n")
	fmt.Fprintf(&sb, "Progetto: %s\n", r.Title)
	fmt.Fprintf(&sb, "Beneficiario: %s (%s %s)\n", r.OwnerID, r.PostalCode, r.City)
	fmt.Fprintf(&sb, "Donatore: %s\n", sponsorID)
	fmt.Fprintf(&sb, "Importo: EUR %s\n", amount.StringFixed(2))
	fmt.Fprintf(&sb, "Data: %s\n", at.Format("02/01/2006"))
	sb.WriteString("Documento valido ai fini della detrazione fiscale.")

	return sb.String()
}
