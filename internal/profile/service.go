package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/connecthub-labs/connecthub-storage/internal/session"
)

var (
	ErrAlreadyRegistered = errors.New("profile already registered")
	ErrInvalidRole       = errors.New("invalid role")
	ErrNotFound          = errors.New("profile not found")
)

type DataProvider interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
}

type Service struct {
	repo DataProvider
}

func NewService(r DataProvider) *Service {
	return &Service{
		repo: r,
	}
}

// Register stores the role chosen by a freshly signed-up identity
func (s *Service) Register(ctx context.Context, actor session.Actor, role session.Role, displayName string) (*Profile, error) {
	if actor.Anonymous() {
		return nil, session.ErrUnauthenticated
	}

	if !role.Valid() {
		return nil, fmt.Errorf("%q: %w", role, ErrInvalidRole)
	}

	_, err := s.repo.GetByID(ctx, actor.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	if err == nil {
		return nil, ErrAlreadyRegistered
	}

	p := &Profile{
		ID:          actor.ID,
		CreatedAt:   time.Now(),
		Role:        role,
		DisplayName: strings.TrimSpace(displayName),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}

	return p, err
}

// GetRole implements session.RoleProvider
func (s *Service) GetRole(ctx context.Context, id uuid.UUID) (session.Role, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return session.RoleUnknown, session.ErrRoleNotFound
	}

	if err != nil {
		return session.RoleUnknown, err
	}

	return p.Role, nil
}
