package campaign

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/connecthub-labs/connecthub-storage/internal/session"
)

func setupTestRouter(s *Server, actor session.Actor) *mux.Router {
	router := mux.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(session.WithActor(r.Context(), actor)))
		})
	})
	s.Register(router)

	return router
}

func TestServerCreateCampaign(t *testing.T) {
	company := session.Actor{ID: uuid.New(), Role: session.RoleCompany}
	router := setupTestRouter(NewServer(NewService(newMemRepo(), &stubRemover{}, passTx{})), company)

	for name, tc := range map[string]struct {
		body     string
		expected int
	}{
		"created": {
			body:     `{"title":"Lancio Prodotto","description":"Video","budget":1000,"deadline":"2025-01-01","company_name":"Beta"}`,
			expected: http.StatusCreated,
		},
		"bad deadline": {
			body:     `{"title":"Lancio Prodotto","description":"Video","budget":1000,"deadline":"01/01/2025"}`,
			expected: http.StatusBadRequest,
		},
		"unknown field": {
			body:     `{"title":"x","budjet":1}`,
			expected: http.StatusBadRequest,
		},
		"zero budget": {
			body:     `{"title":"Lancio Prodotto","description":"Video","budget":"0","deadline":"2025-01-01"}`,
			expected: http.StatusBadRequest,
		},
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/campaigns", bytes.NewBufferString(tc.body))
			router.ServeHTTP(w, req)

			require.Equal(t, tc.expected, w.Code)
		})
	}
}

func TestServerCreateCampaignResponse(t *testing.T) {
	company := session.Actor{ID: uuid.New(), Role: session.RoleCompany}
	router := setupTestRouter(NewServer(NewService(newMemRepo(), &stubRemover{}, passTx{})), company)

	w := httptest.NewRecorder()
	body := `{"title":"Lancio Prodotto","description":"Video","budget":1000,"deadline":"2025-01-01"}`
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/campaigns", bytes.NewBufferString(body)))
	require.Equal(t, http.StatusCreated, w.Code)

	var info CampaignInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	require.Equal(t, "2025-01-01", info.Deadline)
	require.Equal(t, company.ID.String(), info.OwnerID)
	require.Equal(t, "1000", info.Budget.String())
}

func TestServerDeleteForbidden(t *testing.T) {
	svc := NewService(newMemRepo(), &stubRemover{}, passTx{})
	owner := session.Actor{ID: uuid.New(), Role: session.RoleCompany}
	c, err := svc.Create(context.Background(), owner, validRequest())
	require.NoError(t, err)

	other := session.Actor{ID: uuid.New(), Role: session.RoleCompany}
	router := setupTestRouter(NewServer(svc), other)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/campaigns/"+c.ID.String(), nil))
	require.Equal(t, http.StatusForbidden, w.Code)
}
