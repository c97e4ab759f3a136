package notification

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

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
	r.HandleFunc("/notifications", s.list).Methods(http.MethodGet)
	r.HandleFunc("/notifications/{id}/read", s.markRead).Methods(http.MethodPost)
}

type NotificationInfo struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Title       string    `json:"title"`
	Body        *string   `json:"body,omitempty"`
	ReferenceID *string   `json:"reference_id,omitempty"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

type listResponse struct {
	Items      []NotificationInfo `json:"items"`
	TotalCount int64              `json:"total_count"`
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())
	page := httpsrv.ReadPage(r, defaultLimit)

	list, err := s.sp.List(r.Context(), actor, r.URL.Query().Get("unread") == "true", page.Limit, page.Offset)
	if err != nil {
		writeError(w, err)

		return
	}

	resp := listResponse{
		Items:      make([]NotificationInfo, len(list.Notifications)),
		TotalCount: list.TotalCount,
	}
	for i := range list.Notifications {
		resp.Items[i] = ConvertNotification(&list.Notifications[i])
	}

	httpsrv.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) markRead(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())

	id, err := httpsrv.PathUUID(r, "id")
	if err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

		return
	}

	if err := s.sp.MarkRead(r.Context(), actor, id); err != nil {
		writeError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrUnauthenticated):
		httpsrv.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrNotFound):
		httpsrv.WriteError(w, http.StatusNotFound, err.Error())
	default:
		log.Error().Err(err).Msg("notification request")
		httpsrv.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func ConvertNotification(n *Notification) NotificationInfo {
	info := NotificationInfo{
		ID:        n.ID.String(),
		Kind:      n.Kind,
		Title:     n.Title,
		Body:      n.Body,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	if n.ReferenceID != nil {
		id := n.ReferenceID.String()
		info.ReferenceID = &id
	}

	return info
}
