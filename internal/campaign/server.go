package campaign

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
	r.HandleFunc("/campaigns", s.create).Methods(http.MethodPost)
	r.HandleFunc("/campaigns", s.list).Methods(http.MethodGet)
	r.HandleFunc("/campaigns/{id}", s.get).Methods(http.MethodGet)
	r.HandleFunc("/campaigns/{id}", s.delete).Methods(http.MethodDelete)
}

type createRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Budget      decimal.Decimal `json:"budget"`
	Deadline    string          `json:"deadline"`
	CompanyName string          `json:"company_name"`
}

type CampaignInfo struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Budget      decimal.Decimal `json:"budget"`
	Deadline    string          `json:"deadline"`
	CompanyName string          `json:"company_name"`
	OwnerID     string          `json:"owner_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

type listResponse struct {
	Items      []CampaignInfo `json:"items"`
	TotalCount int64          `json:"total_count"`
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())

	var req createRequest
	if err := httpsrv.DecodeJSON(r, &req); err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

		return
	}

	deadline, err := time.Parse(DeadlineLayout, req.Deadline)
	if err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, "invalid deadline")

		return
	}

	c, err := s.sp.Create(r.Context(), actor, CreateRequest{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		Deadline:    deadline,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		writeError(w, err)

		return
	}

	httpsrv.WriteJSON(w, http.StatusCreated, ConvertCampaign(c))
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())
	page := httpsrv.ReadPage(r, defaultLimit)

	filters := []Filter{
		PageFilter{Limit: page.Limit, Offset: page.Offset},
	}
	if r.URL.Query().Get("mine") == "true" {
		filters = append(filters, OwnerFilter{ID: actor.ID})
	}

	list, err := s.sp.GetByFilters(r.Context(), filters)
	if err != nil {
		writeError(w, err)

		return
	}

	resp := listResponse{
		Items:      make([]CampaignInfo, len(list.Campaigns)),
		TotalCount: list.TotalCount,
	}
	for i := range list.Campaigns {
		resp.Items[i] = ConvertCampaign(&list.Campaigns[i])
	}

	httpsrv.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpsrv.PathUUID(r, "id")
	if err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

		return
	}

	c, err := s.sp.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)

		return
	}

	httpsrv.WriteJSON(w, http.StatusOK, ConvertCampaign(c))
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

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidCampaign):
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrUnauthenticated):
		httpsrv.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, session.ErrForbidden):
		httpsrv.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotFound):
		httpsrv.WriteError(w, http.StatusNotFound, err.Error())
	default:
		log.Error().Err(err).Msg("campaign request")
		httpsrv.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func ConvertCampaign(c *Campaign) CampaignInfo {
	return CampaignInfo{
		ID:          c.ID.String(),
		Title:       c.Title,
		Description: c.Description,
		Budget:      c.Budget,
		Deadline:    c.Deadline.Format(DeadlineLayout),
		CompanyName: c.CompanyName,
		OwnerID:     c.OwnerID.String(),
		CreatedAt:   c.CreatedAt,
	}
}
