package sponsorship

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
	r.HandleFunc("/sponsorships", s.create).Methods(http.MethodPost)
	r.HandleFunc("/sponsorships", s.list).Methods(http.MethodGet)
	r.HandleFunc("/sponsorships/{id}", s.get).Methods(http.MethodGet)
	r.HandleFunc("/sponsorships/{id}", s.delete).Methods(http.MethodDelete)
	r.HandleFunc("/sponsorships/{id}/fund", s.fund).Methods(http.MethodPost)
}

type createRequest struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	AmountNeeded decimal.Decimal `json:"amount_needed"`
	Purpose      string          `json:"purpose"`
	City         string          `json:"city"`
	PostalCode   string          `json:"postal_code"`
	Region       string          `json:"region"`
}

type fundRequest struct {
	Mode   FundMode        `json:"mode"`
	Amount decimal.Decimal `json:"amount"`
}

type RequestInfo struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	AmountNeeded decimal.Decimal `json:"amount_needed"`
	AmountFunded decimal.Decimal `json:"amount_funded"`
	Purpose      string          `json:"purpose"`
	City         string          `json:"city"`
	PostalCode   string          `json:"postal_code"`
	Region       string          `json:"region"`
	OwnerID      string          `json:"owner_id"`
	Status       Status          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

type listResponse struct {
	Items      []RequestInfo `json:"items"`
	TotalCount int64         `json:"total_count"`
}

type fundResponse struct {
	Request RequestInfo     `json:"request"`
	Amount  decimal.Decimal `json:"amount"`
	Receipt string          `json:"receipt"`
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())

	var req createRequest
	if err := httpsrv.DecodeJSON(r, &req); err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

		return
	}

	sr, err := s.sp.Create(r.Context(), actor, CreateRequest(req))
	if err != nil {
		writeError(w, err)

		return
	}

	httpsrv.WriteJSON(w, http.StatusCreated, ConvertRequest(sr))
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())
	page := httpsrv.ReadPage(r, defaultLimit)
	query := r.URL.Query()

	filters := []Filter{
		PageFilter{Limit: page.Limit, Offset: page.Offset},
	}
	if city := query.Get("city"); city != "" {
		filters = append(filters, CityFilter{City: city})
	}
	if code := query.Get("postal_code"); code != "" {
		filters = append(filters, PostalCodeFilter{PostalCode: code})
	}
	if region := query.Get("region"); region != "" {
		filters = append(filters, RegionFilter{Region: region})
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
		Items:      make([]RequestInfo, len(list.Requests)),
		TotalCount: list.TotalCount,
	}
	for i := range list.Requests {
		resp.Items[i] = ConvertRequest(&list.Requests[i])
	}

	httpsrv.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpsrv.PathUUID(r, "id")
	if err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

		return
	}

	sr, err := s.sp.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)

		return
	}

	httpsrv.WriteJSON(w, http.StatusOK, ConvertRequest(sr))
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

func (s *Server) fund(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())

	id, err := httpsrv.PathUUID(r, "id")
	if err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

		return
	}

	var req fundRequest
	if err := httpsrv.DecodeJSON(r, &req); err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

		return
	}

	res, err := s.sp.Fund(r.Context(), actor, id, req.Mode, req.Amount)
	if err != nil {
		writeError(w, err)

		return
	}

	httpsrv.WriteJSON(w, http.StatusOK, fundResponse{
		Request: ConvertRequest(res.Request),
		Amount:  res.Amount,
		Receipt: res.Receipt,
	})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrInvalidAmount):
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrUnauthenticated):
		httpsrv.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, session.ErrForbidden):
		httpsrv.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotFound):
		httpsrv.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlreadyFunded):
		httpsrv.WriteError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Msg("sponsorship request")
		httpsrv.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func ConvertRequest(r *Request) RequestInfo {
	return RequestInfo{
		ID:           r.ID.String(),
		Title:        r.Title,
		Description:  r.Description,
		AmountNeeded: r.AmountNeeded,
		AmountFunded: r.AmountFunded,
		Purpose:      r.Purpose,
		City:         r.City,
		PostalCode:   r.PostalCode,
		Region:       r.Region,
		OwnerID:      r.OwnerID.String(),
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
	}
}
