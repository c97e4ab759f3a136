package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/connecthub-labs/connecthub-storage/internal/metrics"
	"github.com/connecthub-labs/connecthub-storage/internal/session"
	"github.com/connecthub-labs/connecthub-storage/pkg/money"
)

var (
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInsufficientPending   = errors.New("insufficient pending balance")
	ErrInsufficientAvailable = errors.New("insufficient available balance")
)

type DataProvider interface {
	GetForUpdate(ctx context.Context, userID uuid.UUID) (*Wallet, error)
	CreateIfAbsent(ctx context.Context, w *Wallet) error
	Save(ctx context.Context, w *Wallet) error
	AddTransaction(ctx context.Context, t *Transaction) error
	GetTransactions(ctx context.Context, filters []Filter) (TransactionList, error)
}

type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Service struct {
	repo DataProvider
	tx   Transactor
}

func NewService(r DataProvider, tx Transactor) *Service {
	return &Service{
		repo: r,
		tx:   tx,
	}
}

// Get returns the actor wallet, creating an empty one on first access
func (s *Service) Get(ctx context.Context, actor session.Actor) (*Wallet, error) {
	if actor.Anonymous() {
		return nil, session.ErrUnauthenticated
	}

	var w *Wallet
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		w, err = s.getOrCreate(ctx, actor.ID)

		return err
	})
	if err != nil {
		return nil, err
	}

	return w, nil
}

// Hold moves promised funds into the pending balance of the user
func (s *Service) Hold(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, proposalID uuid.UUID) error {
	if !money.IsAmount(amount) {
		return ErrInvalidAmount
	}

	return s.tx.InTx(ctx, func(ctx context.Context) error {
		w, err := s.getOrCreate(ctx, userID)
		if err != nil {
			return err
		}

		w.PendingBalance = w.PendingBalance.Add(amount)

		if err := s.apply(ctx, w, TransactionTypeEscrowHold, amount, &proposalID, "escrow funded"); err != nil {
			return err
		}

		metrics.CollectEscrowAmount(string(TransactionTypeEscrowHold), amount)

		return nil
	})
}

// Release moves funds from pending to available and counts them as earned.
// The debit and the two credits have the same magnitude.
func (s *Service) Release(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, proposalID uuid.UUID) error {
	if !money.IsAmount(amount) {
		return ErrInvalidAmount
	}

	return s.tx.InTx(ctx, func(ctx context.Context) error {
		w, err := s.getOrCreate(ctx, userID)
		if err != nil {
			return err
		}

		if w.PendingBalance.LessThan(amount) {
			return fmt.Errorf("release %s of %s: %w", amount, w.PendingBalance, ErrInsufficientPending)
		}

		w.PendingBalance = w.PendingBalance.Sub(amount)
		w.AvailableBalance = w.AvailableBalance.Add(amount)
		w.TotalEarned = w.TotalEarned.Add(amount)

		if err := s.apply(ctx, w, TransactionTypeEscrowRelease, amount, &proposalID, "escrow released"); err != nil {
			return err
		}

		metrics.CollectEscrowAmount(string(TransactionTypeEscrowRelease), amount)

		return nil
	})
}

func (s *Service) Withdraw(ctx context.Context, actor session.Actor, amount decimal.Decimal) (*Wallet, error) {
	if actor.Anonymous() {
		return nil, session.ErrUnauthenticated
	}

	if !money.IsAmount(amount) {
		return nil, ErrInvalidAmount
	}

	var w *Wallet
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		w, err = s.getOrCreate(ctx, actor.ID)
		if err != nil {
			return err
		}

		if w.AvailableBalance.LessThan(amount) {
			return ErrInsufficientAvailable
		}

		w.AvailableBalance = w.AvailableBalance.Sub(amount)

		return s.apply(ctx, w, TransactionTypeWithdrawal, amount, nil, "withdrawal")
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user", actor.ID.String()).
		Str("amount", amount.String()).
		Msg("withdrawal registered")

	return w, nil
}

func (s *Service) Transactions(ctx context.Context, actor session.Actor, limit, offset int) (TransactionList, error) {
	if actor.Anonymous() {
		return TransactionList{}, session.ErrUnauthenticated
	}

	list, err := s.repo.GetTransactions(ctx, []Filter{
		UserIDFilter{ID: actor.ID},
		PageFilter{Limit: limit, Offset: offset},
	})
	if err != nil {
		return TransactionList{}, fmt.Errorf("get transactions: %w", err)
	}

	return list, nil
}

func (s *Service) getOrCreate(ctx context.Context, userID uuid.UUID) (*Wallet, error) {
	w, err := s.repo.GetForUpdate(ctx, userID)
	if err == nil {
		return w, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get wallet: %w", err)
	}

	if err := s.repo.CreateIfAbsent(ctx, newWallet(userID)); err != nil {
		return nil, fmt.Errorf("create wallet: %w", err)
	}

	w, err = s.repo.GetForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get created wallet: %w", err)
	}

	return w, nil
}

func (s *Service) apply(ctx context.Context, w *Wallet, tt TransactionType, amount decimal.Decimal, proposalID *uuid.UUID, description string) error {
	if err := s.repo.Save(ctx, w); err != nil {
		return fmt.Errorf("save wallet %s: %w", w.UserID, err)
	}

	err := s.repo.AddTransaction(ctx, &Transaction{
		ID:             uuid.New(),
		CreatedAt:      time.Now(),
		UserID:         w.UserID,
		Type:           tt,
		Amount:         amount,
		ProposalID:     proposalID,
		Description:    description,
		PendingAfter:   w.PendingBalance,
		AvailableAfter: w.AvailableBalance,
	})
	if err != nil {
		return fmt.Errorf("add %s transaction: %w", tt, err)
	}

	return nil
}
