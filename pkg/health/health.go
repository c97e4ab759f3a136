package health

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/connecthub-labs/connecthub-storage/pkg/httpsrv"
)

type runningChecker interface {
	IsRunning() bool
}

func DefaultHandler(checker runningChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if !checker.IsRunning() {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

func NewHealthCheckServer(listen, path string, handler http.Handler) *http.Server {
	router := mux.NewRouter()
	router.Handle(path, handler).Methods(http.MethodGet)

	return httpsrv.NewServer(listen, router)
}
