package investment

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/connecthub-labs/connecthub-storage/internal/session"
	"github.com/connecthub-labs/connecthub-storage/pkg/httpsrv"
)

const defaultLimit = 50

type Server struct {
	sp *Service
}

func NewServer(s *Service) *Server {
	return &Server{
		sp: s,
	}
}

func (s *Server) Register(r *mux.Router) {
	r.HandleFunc("/pitches", s.create).Methods(http.MethodPost)
	r.HandleFunc("/pitches", s.list).Methods(http.MethodGet)
	r.HandleFunc("/pitches/{id}", s.get).Methods(http.MethodGet)
	r.HandleFunc("/pitches/{id}", s.delete).Methods(http.MethodDelete)
	r.HandleFunc("/pitches/{id}/loi", s.action(s.sp.SendLOI)).Methods(http.MethodPost)
	r.HandleFunc("/pitches/{id}/funded", s.action(s.sp.MarkFunded)).Methods(http.MethodPost)
}

type createRequest struct {
	Name             string          `json:"name"`
	Sector           string          `json:"sector"`
	Description      string          `json:"description"`
	CapitalRequested decimal.Decimal `json:"capital_requested"`
	EquityPercentage decimal.Decimal `json:"equity_percentage"`
}

type PitchInfo struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Sector           string          `json:"sector"`
	Description      string          `json:"description"`
	CapitalRequested decimal.Decimal `json:"capital_requested"`
	EquityPercentage decimal.Decimal `json:"equity_percentage"`
	Status           Status          `json:"status"`
	OwnerID          string          `json:"owner_id"`
	InvestorID       *string         `json:"investor_id"`
	CreatedAt        time.Time       `json:"created_at"`
}

type listResponse struct {
	Items      []PitchInfo `json:"items"`
	TotalCount int64       `json:"total_count"`
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())

	var req createRequest
	if err := httpsrv.DecodeJSON(r, &req); err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

		return
	}

	p, err := s.sp.Create(r.Context(), actor, CreateRequest(req))
	if err != nil {
		writeError(w, err)

		return
	}

	httpsrv.WriteJSON(w, http.StatusCreated, ConvertPitch(p))
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())
	page := httpsrv.ReadPage(r, defaultLimit)
	query := r.URL.Query()

	filters := []Filter{
		PageFilter{Limit: page.Limit, Offset: page.Offset},
	}
	if status := query.Get("status"); status != "" {
		filters = append(filters, StatusFilter{Status: Status(status)})
	}
	if query.Get("mine") == "true" {
		filters = append(filters, OwnerFilter{ID: actor.ID})
	}

	list, err := s.sp.GetByFilters(r.Context(), filters)
	if err != nil {
		writeError(w, err)

		return
	}

	resp := listResponse{
		Items:      make([]PitchInfo, len(list.Pitches)),
		TotalCount: list.TotalCount,
	}
	for i := range list.Pitches {
		resp.Items[i] = ConvertPitch(&list.Pitches[i])
	}

	httpsrv.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpsrv.PathUUID(r, "id")
	if err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

		return
	}

	p, err := s.sp.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)

		return
	}

	httpsrv.WriteJSON(w, http.StatusOK, ConvertPitch(p))
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())

	id, err := httpsrv.PathUUID(r, "id")
	if err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

		return
	}

	if err := s.sp.Delete(r.Context(), actor, id); err != nil {
		writeError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) action(fn func(ctx context.Context, actor session.Actor, id uuid.UUID) (*Pitch, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := session.FromContext(r.Context())

		id, err := httpsrv.PathUUID(r, "id")
		if err != nil {
			httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

			return
		}

		p, err := fn(r.Context(), actor, id)
		if err != nil {
			writeError(w, err)

			return
		}

		httpsrv.WriteJSON(w, http.StatusOK, ConvertPitch(p))
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidPitch):
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrUnauthenticated):
		httpsrv.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, session.ErrForbidden):
		httpsrv.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotFound):
		httpsrv.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidTransition):
		httpsrv.WriteError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Msg("pitch request")
		httpsrv.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func ConvertPitch(p *Pitch) PitchInfo {
	info := PitchInfo{
		ID:               p.ID.String(),
		Name:             p.Name,
		Sector:           p.Sector,
		Description:      p.Description,
		CapitalRequested: p.CapitalRequested,
		EquityPercentage: p.EquityPercentage,
		Status:           p.Status,
		OwnerID:          p.OwnerID.String(),
		CreatedAt:        p.CreatedAt,
	}
	if p.InvestorID != nil {
		id := p.InvestorID.String()
		info.InvestorID = &id
	}

	return info
}
