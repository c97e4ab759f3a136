package wallet

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/connecthub-labs/connecthub-storage/internal/session"
)

type memRepo struct {
	wallets      map[uuid.UUID]Wallet
	transactions []Transaction
	failAdd      bool
}

func newMemRepo() *memRepo {
	return &memRepo{wallets: make(map[uuid.UUID]Wallet)}
}

func (m *memRepo) GetForUpdate(_ context.Context, userID uuid.UUID) (*Wallet, error) {
	w, ok := m.wallets[userID]
	if !ok {
		return nil, fmt.Errorf("get wallet %s: %w", userID, gorm.ErrRecordNotFound)
	}

	return &w, nil
}

func (m *memRepo) CreateIfAbsent(_ context.Context, w *Wallet) error {
	if _, ok := m.wallets[w.UserID]; !ok {
		m.wallets[w.UserID] = *w
	}

	return nil
}

func (m *memRepo) Save(_ context.Context, w *Wallet) error {
	m.wallets[w.UserID] = *w

	return nil
}

func (m *memRepo) AddTransaction(_ context.Context, t *Transaction) error {
	if m.failAdd {
		return fmt.Errorf("insert failed")
	}
	m.transactions = append(m.transactions, *t)

	return nil
}

func (m *memRepo) GetTransactions(_ context.Context, _ []Filter) (TransactionList, error) {
	return TransactionList{Transactions: m.transactions, TotalCount: int64(len(m.transactions))}, nil
}

// snapshotTx restores repo state when the callback fails
type snapshotTx struct {
	repo *memRepo
}

func (s snapshotTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	wallets := make(map[uuid.UUID]Wallet, len(s.repo.wallets))
	for k, v := range s.repo.wallets {
		wallets[k] = v
	}
	transactions := append([]Transaction(nil), s.repo.transactions...)

	if err := fn(ctx); err != nil {
		s.repo.wallets = wallets
		s.repo.transactions = transactions

		return err
	}

	return nil
}

func TestUnitReleaseConservesFunds(t *testing.T) {
	repo := newMemRepo()
	service := NewService(repo, snapshotTx{repo: repo})
	ctx := context.Background()
	influencer := session.Actor{ID: uuid.New(), Role: session.RoleInfluencer}
	proposalID := uuid.New()
	budget := decimal.NewFromInt(1000)

	require.NoError(t, service.Hold(ctx, influencer.ID, budget, proposalID))

	before, err := service.Get(ctx, influencer)
	require.NoError(t, err)
	require.True(t, before.PendingBalance.Equal(budget))
	require.True(t, before.AvailableBalance.IsZero())

	require.NoError(t, service.Release(ctx, influencer.ID, budget, proposalID))

	after, err := service.Get(ctx, influencer)
	require.NoError(t, err)
	require.True(t, after.PendingBalance.Equal(before.PendingBalance.Sub(budget)))
	require.True(t, after.AvailableBalance.Equal(before.AvailableBalance.Add(budget)))
	require.True(t, after.TotalEarned.Equal(before.TotalEarned.Add(budget)))

	require.Len(t, repo.transactions, 2)
	require.Equal(t, TransactionTypeEscrowHold, repo.transactions[0].Type)
	require.Equal(t, TransactionTypeEscrowRelease, repo.transactions[1].Type)
	require.Equal(t, proposalID, *repo.transactions[1].ProposalID)
}

func TestUnitReleaseRequiresPending(t *testing.T) {
	repo := newMemRepo()
	service := NewService(repo, snapshotTx{repo: repo})
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, service.Hold(ctx, userID, decimal.NewFromInt(300), uuid.New()))

	err := service.Release(ctx, userID, decimal.NewFromInt(500), uuid.New())
	require.ErrorIs(t, err, ErrInsufficientPending)

	w := repo.wallets[userID]
	require.True(t, w.PendingBalance.Equal(decimal.NewFromInt(300)))
	require.True(t, w.AvailableBalance.IsZero())
	require.Len(t, repo.transactions, 1)
}

func TestUnitHoldRollsBackOnLogFailure(t *testing.T) {
	repo := newMemRepo()
	service := NewService(repo, snapshotTx{repo: repo})
	userID := uuid.New()
	repo.failAdd = true

	err := service.Hold(context.Background(), userID, decimal.NewFromInt(100), uuid.New())
	require.Error(t, err)

	_, ok := repo.wallets[userID]
	require.False(t, ok)
}

func TestUnitAmountValidation(t *testing.T) {
	repo := newMemRepo()
	service := NewService(repo, snapshotTx{repo: repo})
	ctx := context.Background()

	for name, amount := range map[string]decimal.Decimal{
		"zero":               decimal.Zero,
		"negative":           decimal.NewFromInt(-5),
		"below one cent":     decimal.RequireFromString("0.004"),
		"fraction of a cent": decimal.RequireFromString("10.125"),
	} {
		t.Run(name, func(t *testing.T) {
			actor := session.Actor{ID: uuid.New(), Role: session.RoleInfluencer}
			require.ErrorIs(t, service.Hold(ctx, actor.ID, amount, uuid.New()), ErrInvalidAmount)
			require.ErrorIs(t, service.Release(ctx, actor.ID, amount, uuid.New()), ErrInvalidAmount)

			_, err := service.Withdraw(ctx, actor, amount)
			require.ErrorIs(t, err, ErrInvalidAmount)
		})
	}
}

func TestUnitWithdraw(t *testing.T) {
	repo := newMemRepo()
	service := NewService(repo, snapshotTx{repo: repo})
	ctx := context.Background()
	actor := session.Actor{ID: uuid.New(), Role: session.RoleInfluencer}
	proposalID := uuid.New()

	require.NoError(t, service.Hold(ctx, actor.ID, decimal.NewFromInt(200), proposalID))
	require.NoError(t, service.Release(ctx, actor.ID, decimal.NewFromInt(200), proposalID))

	_, err := service.Withdraw(ctx, actor, decimal.NewFromInt(250))
	require.ErrorIs(t, err, ErrInsufficientAvailable)

	w, err := service.Withdraw(ctx, actor, decimal.NewFromInt(150))
	require.NoError(t, err)
	require.True(t, w.AvailableBalance.Equal(decimal.NewFromInt(50)))
	require.True(t, w.TotalEarned.Equal(decimal.NewFromInt(200)))

	_, err = service.Withdraw(ctx, session.Actor{}, decimal.NewFromInt(1))
	require.ErrorIs(t, err, session.ErrUnauthenticated)
}
