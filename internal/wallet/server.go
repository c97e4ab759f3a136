package wallet

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/connecthub-labs/connecthub-storage/internal/session"
	"github.com/connecthub-labs/connecthub-storage/pkg/httpsrv"
)

const defaultLimit = 100

type Server struct {
	sp *Service
}

func NewServer(s *Service) *Server {
	return &Server{
		sp: s,
	}
}

func (s *Server) Register(r *mux.Router) {
	r.HandleFunc("/wallet", s.get).Methods(http.MethodGet)
	r.HandleFunc("/wallet/transactions", s.transactions).Methods(http.MethodGet)
	r.HandleFunc("/wallet/withdraw", s.withdraw).Methods(http.MethodPost)
}

type WalletInfo struct {
	UserID           string          `json:"user_id"`
	TotalEarned      decimal.Decimal `json:"total_earned"`
	PendingBalance   decimal.Decimal `json:"pending_balance"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
}

type transactionInfo struct {
	ID             string          `json:"id"`
	Type           TransactionType `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	ProposalID     *string         `json:"proposal_id,omitempty"`
	Description    string          `json:"description"`
	PendingAfter   decimal.Decimal `json:"pending_after"`
	AvailableAfter decimal.Decimal `json:"available_after"`
	CreatedAt      time.Time       `json:"created_at"`
}

type transactionsResponse struct {
	Items      []transactionInfo `json:"items"`
	TotalCount int64             `json:"total_count"`
}

type withdrawRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())

	wl, err := s.sp.Get(r.Context(), actor)
	if err != nil {
		writeError(w, err)

		return
	}

	httpsrv.WriteJSON(w, http.StatusOK, ConvertWallet(wl))
}

func (s *Server) transactions(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())
	page := httpsrv.ReadPage(r, defaultLimit)

	list, err := s.sp.Transactions(r.Context(), actor, page.Limit, page.Offset)
	if err != nil {
		writeError(w, err)

		return
	}

	resp := transactionsResponse{
		Items:      make([]transactionInfo, len(list.Transactions)),
		TotalCount: list.TotalCount,
	}
	for i, t := range list.Transactions {
		info := transactionInfo{
			ID:             t.ID.String(),
			Type:           t.Type,
			Amount:         t.Amount,
			Description:    t.Description,
			PendingAfter:   t.PendingAfter,
			AvailableAfter: t.AvailableAfter,
			CreatedAt:      t.CreatedAt,
		}
		if t.ProposalID != nil {
			id := t.ProposalID.String()
			info.ProposalID = &id
		}
		resp.Items[i] = info
	}

	httpsrv.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())

	var req withdrawRequest
	if err := httpsrv.DecodeJSON(r, &req); err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

		return
	}

	wl, err := s.sp.Withdraw(r.Context(), actor, req.Amount)
	if err != nil {
		writeError(w, err)

		return
	}

	httpsrv.WriteJSON(w, http.StatusOK, ConvertWallet(wl))
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrUnauthenticated):
		httpsrv.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrInsufficientAvailable), errors.Is(err, ErrInsufficientPending):
		httpsrv.WriteError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Msg("wallet request")
		httpsrv.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func ConvertWallet(w *Wallet) WalletInfo {
	return WalletInfo{
		UserID:           w.UserID.String(),
		TotalEarned:      w.TotalEarned,
		PendingBalance:   w.PendingBalance,
		AvailableBalance: w.AvailableBalance,
	}
}
