package session

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUnknown    Role = ""
	RoleCompany    Role = "Azienda"
	RoleInfluencer Role = "Influencer"
	RoleTeam       Role = "Squadra/Negozio"
	RoleInvestor   Role = "Investitore"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

func (r Role) Valid() bool {
	switch r {
	case RoleCompany, RoleInfluencer, RoleTeam, RoleInvestor:
		return true
	default:
		return false
	}
}

// Actor is the identity performing an operation. It is passed explicitly to every
// service call instead of being looked up from ambient state.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a Actor) Anonymous() bool {
	return a.ID == uuid.Nil
}

type actorKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func FromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	if !ok || a.Anonymous() {
		return Actor{}, false
	}

	return a, true
}

// RequireRole checks that the actor holds one of the roles
func RequireRole(a Actor, roles ...Role) error {
	if a.Anonymous() {
		return ErrUnauthenticated
	}

	if !slices.Contains(roles, a.Role) {
		return fmt.Errorf("role %q is not allowed: %w", a.Role, ErrForbidden)
	}

	return nil
}

// RequireOwner checks that the actor is the owner of the row
func RequireOwner(a Actor, ownerID uuid.UUID) error {
	if a.Anonymous() {
		return ErrUnauthenticated
	}

	if a.ID != ownerID {
		return fmt.Errorf("actor %s is not the owner: %w", a.ID, ErrForbidden)
	}

	return nil
}
