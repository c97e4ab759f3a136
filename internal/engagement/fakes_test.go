package engagement

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/connecthub-labs/connecthub-storage/internal/campaign"
	"github.com/connecthub-labs/connecthub-storage/internal/wallet"
)

type memProposals struct {
	items map[uuid.UUID]Proposal

	// beforeUpdate runs ahead of the version check, it simulates a concurrent writer
	beforeUpdate func(id uuid.UUID)
}

func (m *memProposals) Create(_ context.Context, p *Proposal) error {
	m.items[p.ID] = *p

	return nil
}

func (m *memProposals) GetByID(_ context.Context, id uuid.UUID) (*Proposal, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("get proposal by id #%s: %w", id, gorm.ErrRecordNotFound)
	}

	return &p, nil
}

func (m *memProposals) GetByFilters(ctx context.Context, filters []Filter) (List, error) {
	list := List{}
	for _, p := range m.items {
		if matches(p, filters) {
			list.Proposals = append(list.Proposals, p)
		}
	}
	sort.Slice(list.Proposals, func(i, j int) bool {
		return list.Proposals[i].CreatedAt.After(list.Proposals[j].CreatedAt)
	})
	list.TotalCount = int64(len(list.Proposals))

	return list, nil
}

func (m *memProposals) Update(_ context.Context, p *Proposal) error {
	if m.beforeUpdate != nil {
		m.beforeUpdate(p.ID)
	}

	stored, ok := m.items[p.ID]
	if !ok || stored.Version != p.Version {
		return fmt.Errorf("update proposal #%s: %w", p.ID, ErrConcurrentUpdate)
	}

	p.Version++
	p.UpdatedAt = time.Now()
	m.items[p.ID] = *p

	return nil
}

func (m *memProposals) Count(ctx context.Context, filters []Filter) (int64, error) {
	list, err := m.GetByFilters(ctx, filters)

	return list.TotalCount, err
}

func (m *memProposals) DeleteByCampaign(_ context.Context, campaignID uuid.UUID) (int64, error) {
	var removed int64
	for id, p := range m.items {
		if p.CampaignID == campaignID {
			delete(m.items, id)
			removed++
		}
	}

	return removed, nil
}

func matches(p Proposal, filters []Filter) bool {
	for _, f := range filters {
		switch v := f.(type) {
		case InfluencerFilter:
			if p.InfluencerID != v.ID {
				return false
			}
		case CampaignFilter:
			if p.CampaignID != v.ID {
				return false
			}
		case CampaignsFilter:
			found := false
			for _, id := range v.IDs {
				found = found || id == p.CampaignID
			}
			if !found {
				return false
			}
		}
	}

	return true
}

type memCampaigns struct {
	items map[uuid.UUID]campaign.Campaign
}

func (m *memCampaigns) Create(_ context.Context, c *campaign.Campaign) error {
	m.items[c.ID] = *c

	return nil
}

func (m *memCampaigns) GetByID(_ context.Context, id uuid.UUID) (*campaign.Campaign, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("get campaign by id #%s: %w", id, gorm.ErrRecordNotFound)
	}

	return &c, nil
}

func (m *memCampaigns) GetByFilters(_ context.Context, filters []campaign.Filter) (campaign.List, error) {
	list := campaign.List{}
	for _, c := range m.items {
		keep := true
		for _, f := range filters {
			if of, ok := f.(campaign.OwnerFilter); ok && c.OwnerID != of.ID {
				keep = false
			}
		}
		if keep {
			list.Campaigns = append(list.Campaigns, c)
		}
	}
	list.TotalCount = int64(len(list.Campaigns))

	return list, nil
}

func (m *memCampaigns) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)

	return nil
}

func (m *memCampaigns) Count(ctx context.Context, filters []campaign.Filter) (int64, error) {
	list, err := m.GetByFilters(ctx, filters)

	return list.TotalCount, err
}

type memWallets struct {
	wallets      map[uuid.UUID]wallet.Wallet
	transactions []wallet.Transaction
	failSave     bool
}

func (m *memWallets) GetForUpdate(_ context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	w, ok := m.wallets[userID]
	if !ok {
		return nil, fmt.Errorf("get wallet %s: %w", userID, gorm.ErrRecordNotFound)
	}

	return &w, nil
}

func (m *memWallets) CreateIfAbsent(_ context.Context, w *wallet.Wallet) error {
	if _, ok := m.wallets[w.UserID]; !ok {
		m.wallets[w.UserID] = *w
	}

	return nil
}

func (m *memWallets) Save(_ context.Context, w *wallet.Wallet) error {
	if m.failSave {
		return errors.New("connection reset")
	}
	m.wallets[w.UserID] = *w

	return nil
}

func (m *memWallets) AddTransaction(_ context.Context, t *wallet.Transaction) error {
	m.transactions = append(m.transactions, *t)

	return nil
}

func (m *memWallets) GetTransactions(_ context.Context, _ []wallet.Filter) (wallet.TransactionList, error) {
	return wallet.TransactionList{Transactions: m.transactions, TotalCount: int64(len(m.transactions))}, nil
}

// store holds every fake table. Its InTx snapshots them and restores the snapshot on error,
// the same way a database transaction rollback would.
type store struct {
	proposals *memProposals
	campaigns *memCampaigns
	wallets   *memWallets
}

func newStore() *store {
	return &store{
		proposals: &memProposals{items: make(map[uuid.UUID]Proposal)},
		campaigns: &memCampaigns{items: make(map[uuid.UUID]campaign.Campaign)},
		wallets:   &memWallets{wallets: make(map[uuid.UUID]wallet.Wallet)},
	}
}

func (s *store) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	proposals := make(map[uuid.UUID]Proposal, len(s.proposals.items))
	for k, v := range s.proposals.items {
		proposals[k] = v
	}
	campaigns := make(map[uuid.UUID]campaign.Campaign, len(s.campaigns.items))
	for k, v := range s.campaigns.items {
		campaigns[k] = v
	}
	wallets := make(map[uuid.UUID]wallet.Wallet, len(s.wallets.wallets))
	for k, v := range s.wallets.wallets {
		wallets[k] = v
	}
	transactions := append([]wallet.Transaction(nil), s.wallets.transactions...)

	if err := fn(ctx); err != nil {
		s.proposals.items = proposals
		s.campaigns.items = campaigns
		s.wallets.wallets = wallets
		s.wallets.transactions = transactions

		return err
	}

	return nil
}

type published struct {
	subject string
	payload any
}

type recordingPublisher struct {
	events []published
}

func (r *recordingPublisher) PublishJSON(_ context.Context, subject string, payload any) {
	r.events = append(r.events, published{subject: subject, payload: payload})
}
