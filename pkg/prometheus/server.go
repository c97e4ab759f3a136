package prometheus

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/connecthub-labs/connecthub-storage/pkg/httpsrv"
)

func NewServer(listen, path string) *http.Server {
	router := mux.NewRouter()
	router.Handle(path, promhttp.Handler()).Methods(http.MethodGet)

	return httpsrv.NewServer(listen, router)
}
