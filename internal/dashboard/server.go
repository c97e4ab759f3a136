package dashboard

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/connecthub-labs/connecthub-storage/internal/session"
	"github.com/connecthub-labs/connecthub-storage/pkg/httpsrv"
)

type Server struct {
	sp *Service
}

func NewServer(s *Service) *Server {
	return &Server{
		sp: s,
	}
}

func (s *Server) Register(r *mux.Router) {
	r.HandleFunc("/dashboard", s.get).Methods(http.MethodGet)
}

type summaryResponse struct {
	Role     session.Role     `json:"role"`
	Counters map[string]int64 `json:"counters"`
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())

	summary, err := s.sp.Summary(r.Context(), actor)
	if err != nil {
		if errors.Is(err, session.ErrUnauthenticated) {
			httpsrv.WriteError(w, http.StatusUnauthorized, err.Error())

			return
		}

		log.Error().Err(err).Msg("dashboard request")
		httpsrv.WriteError(w, http.StatusInternalServerError, "internal error")

		return
	}

	httpsrv.WriteJSON(w, http.StatusOK, summaryResponse{
		Role:     summary.Role,
		Counters: summary.Counters,
	})
}
