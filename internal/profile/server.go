package profile

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/connecthub-labs/connecthub-storage/internal/session"
	"github.com/connecthub-labs/connecthub-storage/pkg/httpsrv"
)

type cacheInvalidator interface {
	Forget(id uuid.UUID)
}

type Server struct {
	sp    *Service
	cache cacheInvalidator
}

func NewServer(s *Service, ci cacheInvalidator) *Server {
	return &Server{
		sp:    s,
		cache: ci,
	}
}

func (s *Server) Register(r *mux.Router) {
	r.HandleFunc("/profiles", s.create).Methods(http.MethodPost)
	r.HandleFunc("/profiles/me", s.me).Methods(http.MethodGet)
}

type createRequest struct {
	Role        session.Role `json:"role"`
	DisplayName string       `json:"display_name"`
}

type profileResponse struct {
	ID          string       `json:"id"`
	Role        session.Role `json:"role"`
	DisplayName string       `json:"display_name"`
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())

	var req createRequest
	if err := httpsrv.DecodeJSON(r, &req); err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

		return
	}

	p, err := s.sp.Register(r.Context(), actor, req.Role, req.DisplayName)
	if err != nil {
		writeError(w, err)

		return
	}

	s.cache.Forget(p.ID)

	httpsrv.WriteJSON(w, http.StatusCreated, convertProfile(p))
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())

	p, err := s.sp.GetByID(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err)

		return
	}

	httpsrv.WriteJSON(w, http.StatusOK, convertProfile(p))
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidRole):
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrUnauthenticated):
		httpsrv.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrNotFound):
		httpsrv.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlreadyRegistered):
		httpsrv.WriteError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Msg("profile request")
		httpsrv.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func convertProfile(p *Profile) profileResponse {
	return profileResponse{
		ID:          p.ID.String(),
		Role:        p.Role,
		DisplayName: p.DisplayName,
	}
}
