package engagement

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/connecthub-labs/connecthub-storage/internal/campaign"
	"github.com/connecthub-labs/connecthub-storage/internal/session"
	"github.com/connecthub-labs/connecthub-storage/internal/wallet"
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
	r.HandleFunc("/campaigns/{id}/proposals", s.submit).Methods(http.MethodPost)
	r.HandleFunc("/campaigns/{id}/proposals", s.listByCampaign).Methods(http.MethodGet)
	r.HandleFunc("/proposals", s.list).Methods(http.MethodGet)
	r.HandleFunc("/proposals/{id}", s.simple(s.sp.Get)).Methods(http.MethodGet)
	r.HandleFunc("/proposals/{id}/accept", s.simple(s.sp.Accept)).Methods(http.MethodPost)
	r.HandleFunc("/proposals/{id}/contract/accept", s.simple(s.sp.AcceptContract)).Methods(http.MethodPost)
	r.HandleFunc("/proposals/{id}/escrow", s.simple(s.sp.FundEscrow)).Methods(http.MethodPost)
	r.HandleFunc("/proposals/{id}/video", s.submitVideo).Methods(http.MethodPost)
	r.HandleFunc("/proposals/{id}/approve", s.approve).Methods(http.MethodPost)
	r.HandleFunc("/proposals/{id}/revision", s.requestRevision).Methods(http.MethodPost)
}

type submitRequest struct {
	SocialLink string `json:"social_link"`
}

type videoRequest struct {
	VideoURL string `json:"video_url"`
}

type revisionRequest struct {
	Feedback string `json:"feedback"`
}

type ProposalInfo struct {
	ID            string        `json:"id"`
	CampaignID    string        `json:"campaign_id"`
	InfluencerID  string        `json:"influencer_id"`
	SocialLink    string        `json:"social_link"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	ContractTerms *string       `json:"contract_terms"`
	VideoURL      *string       `json:"video_url"`
	TrackingCode  *string       `json:"tracking_code"`
	Feedback      *string       `json:"feedback"`
	Version       int64         `json:"version"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type listResponse struct {
	Items      []ProposalInfo `json:"items"`
	TotalCount int64          `json:"total_count"`
}

type approveResponse struct {
	Proposal ProposalInfo `json:"proposal"`
	Receipt  string       `json:"receipt"`
}

type action func(ctx context.Context, actor session.Actor, id uuid.UUID) (*Proposal, error)

// simple wraps lifecycle actions which need no request body
func (s *Server) simple(fn action) http.HandlerFunc {
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

		httpsrv.WriteJSON(w, http.StatusOK, ConvertProposal(p))
	}
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())

	campaignID, err := httpsrv.PathUUID(r, "id")
	if err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

		return
	}

	var req submitRequest
	if err := httpsrv.DecodeJSON(r, &req); err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

		return
	}

	p, err := s.sp.Submit(r.Context(), actor, campaignID, req.SocialLink)
	if err != nil {
		writeError(w, err)

		return
	}

	httpsrv.WriteJSON(w, http.StatusCreated, ConvertProposal(p))
}

func (s *Server) listByCampaign(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())
	page := httpsrv.ReadPage(r, defaultLimit)

	campaignID, err := httpsrv.PathUUID(r, "id")
	if err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

		return
	}

	list, err := s.sp.ListByCampaign(r.Context(), actor, campaignID, page.Limit, page.Offset)
	if err != nil {
		writeError(w, err)

		return
	}

	httpsrv.WriteJSON(w, http.StatusOK, convertList(list))
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())
	page := httpsrv.ReadPage(r, defaultLimit)

	list, err := s.sp.List(r.Context(), actor, page.Limit, page.Offset)
	if err != nil {
		writeError(w, err)

		return
	}

	httpsrv.WriteJSON(w, http.StatusOK, convertList(list))
}

func (s *Server) submitVideo(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())

	id, err := httpsrv.PathUUID(r, "id")
	if err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

		return
	}

	var req videoRequest
	if err := httpsrv.DecodeJSON(r, &req); err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

		return
	}

	p, err := s.sp.SubmitVideo(r.Context(), actor, id, req.VideoURL)
	if err != nil {
		writeError(w, err)

		return
	}

	httpsrv.WriteJSON(w, http.StatusOK, ConvertProposal(p))
}

func (s *Server) approve(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())

	id, err := httpsrv.PathUUID(r, "id")
	if err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

		return
	}

	res, err := s.sp.Approve(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)

		return
	}

	httpsrv.WriteJSON(w, http.StatusOK, approveResponse{
		Proposal: ConvertProposal(res.Proposal),
		Receipt:  res.Receipt,
	})
}

func (s *Server) requestRevision(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.FromContext(r.Context())

	id, err := httpsrv.PathUUID(r, "id")
	if err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

		return
	}

	var req revisionRequest
	if err := httpsrv.DecodeJSON(r, &req); err != nil {
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())

		return
	}

	p, err := s.sp.RequestRevision(r.Context(), actor, id, req.Feedback)
	if err != nil {
		writeError(w, err)

		return
	}

	httpsrv.WriteJSON(w, http.StatusOK, ConvertProposal(p))
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidProposal), errors.Is(err, wallet.ErrInvalidAmount):
		httpsrv.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrUnauthenticated):
		httpsrv.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, session.ErrForbidden):
		httpsrv.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, campaign.ErrNotFound):
		httpsrv.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrConcurrentUpdate),
		errors.Is(err, wallet.ErrInsufficientPending), errors.Is(err, wallet.ErrInsufficientAvailable):
		httpsrv.WriteError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Msg("proposal request")
		httpsrv.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func convertList(list List) listResponse {
	resp := listResponse{
		Items:      make([]ProposalInfo, len(list.Proposals)),
		TotalCount: list.TotalCount,
	}
	for i := range list.Proposals {
		resp.Items[i] = ConvertProposal(&list.Proposals[i])
	}

	return resp
}

func ConvertProposal(p *Proposal) ProposalInfo {
	return ProposalInfo{
		ID:            p.ID.String(),
		CampaignID:    p.CampaignID.String(),
		InfluencerID:  p.InfluencerID.String(),
		SocialLink:    p.SocialLink,
		Status:        p.Status,
		PaymentStatus: p.PaymentStatus,
		ContractTerms: p.ContractTerms,
		VideoURL:      p.VideoURL,
		TrackingCode:  p.TrackingCode,
		Feedback:      p.Feedback,
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
