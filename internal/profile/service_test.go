package profile

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/connecthub-labs/connecthub-storage/internal/session"
)

type memRepo struct {
	items map[uuid.UUID]Profile
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[uuid.UUID]Profile)}
}

func (m *memRepo) Create(_ context.Context, p *Profile) error {
	m.items[p.ID] = *p

	return nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Profile, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("get profile by id #%s: %w", id, gorm.ErrRecordNotFound)
	}

	return &p, nil
}

func TestUnitRegister(t *testing.T) {
	ctx := context.Background()
	s := NewService(newMemRepo())
	actor := session.Actor{ID: uuid.New()}

	p, err := s.Register(ctx, actor, session.RoleInfluencer, "  Alpha  ")
	require.NoError(t, err)
	require.Equal(t, "Alpha", p.DisplayName)

	role, err := s.GetRole(ctx, actor.ID)
	require.NoError(t, err)
	require.Equal(t, session.RoleInfluencer, role)

	t.Run("second registration is rejected", func(t *testing.T) {
		_, err := s.Register(ctx, actor, session.RoleCompany, "Beta")
		require.ErrorIs(t, err, ErrAlreadyRegistered)
	})
}

func TestUnitRegisterValidation(t *testing.T) {
	s := NewService(newMemRepo())

	_, err := s.Register(context.Background(), session.Actor{ID: uuid.New()}, "Admin", "x")
	require.ErrorIs(t, err, ErrInvalidRole)

	_, err = s.Register(context.Background(), session.Actor{}, session.RoleTeam, "x")
	require.ErrorIs(t, err, session.ErrUnauthenticated)
}

func TestUnitGetRoleUnknownProfile(t *testing.T) {
	s := NewService(newMemRepo())

	role, err := s.GetRole(context.Background(), uuid.New())
	require.ErrorIs(t, err, session.ErrRoleNotFound)
	require.Equal(t, session.RoleUnknown, role)
}
