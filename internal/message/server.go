package message

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

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
	r.HandleFunc("/messages", s.send).Methods(http.MethodPost)
	r.HandleFunc("/messages/conversations", s.conversations).Methods(http.MethodGet)
	r.HandleFunc("/messages/{partner}", s.conversation).Methods(http.MethodGet)
	r.HandleFunc("/messages/{partner}", s.clear).Methods(http.MethodDelete)
	r.HandleFunc("/messages/{partner}/read", s.markRead).Methods(http.MethodPost)
}

type sendRequest struct {
	ReceiverID uuid.UUID `json:"receiver_id"`
	Text       string    `json:"text"`
}

type MessageInfo struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Text       string    `json:"text"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

type conversationInfo struct {
	PartnerID   string      `json:"partner_id"`
	LastMessage MessageInfo `json:"last_message"`
	UnreadCount int64       `json:"unread_count"`
}

type affectedResponse struct {
	Affected int64 `json:"affected"`
}

func (s *Server) send(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())

	var req sendRequest
	if err := httpsrv.DecodeJSON(r, &req); err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

		return
	}

	m, err := s.sp.Send(r.Context(), actor, req.ReceiverID, req.Text)
	if err != nil {
		writeError(w, err)

		return
	}

	httpsrv.WriteJSON(w, http.StatusCreated, ConvertMessage(m))
}

func (s *Server) conversations(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())

	list, err := s.sp.Conversations(r.Context(), actor)
	if err != nil {
		writeError(w, err)

		return
	}

	resp := make([]conversationInfo, len(list))
	for i, c := range list {
		resp[i] = conversationInfo{
			PartnerID:   c.PartnerID.String(),
			LastMessage: ConvertMessage(&c.LastMessage),
			UnreadCount: c.UnreadCount,
		}
	}

	httpsrv.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) conversation(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())
	page := httpsrv.ReadPage(r, defaultLimit)

	partner, err := httpsrv.PathUUID(r, "partner")
	if err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

		return
	}

	list, err := s.sp.Conversation(r.Context(), actor, partner, page.Limit, page.Offset)
	if err != nil {
		writeError(w, err)

		return
	}

	resp := make([]MessageInfo, len(list))
	for i := range list {
		resp[i] = ConvertMessage(&list[i])
	}

	httpsrv.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) markRead(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())

	partner, err := httpsrv.PathUUID(r, "partner")
	if err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

		return
	}

	cnt, err := s.sp.MarkRead(r.Context(), actor, partner)
	if err != nil {
		writeError(w, err)

		return
	}

	httpsrv.WriteJSON(w, http.StatusOK, affectedResponse{Affected: cnt})
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())

	partner, err := httpsrv.PathUUID(r, "partner")
	if err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

		return
	}

	cnt, err := s.sp.Clear(r.Context(), actor, partner)
	if err != nil {
		writeError(w, err)

		return
	}

	httpsrv.WriteJSON(w, http.StatusOK, affectedResponse{Affected: cnt})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidMessage):
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrUnauthenticated):
		httpsrv.WriteError(w, http.StatusUnauthorized, err.Error())
	default:
		log.Error().Err(err).Msg("message request")
		httpsrv.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func ConvertMessage(m *Message) MessageInfo {
	return MessageInfo{
		ID:         m.ID.String(),
		SenderID:   m.SenderID.String(),
		ReceiverID: m.ReceiverID.String(),
		Text:       m.Text,
		Read:       m.Read,
		CreatedAt:  m.CreatedAt,
	}
}
