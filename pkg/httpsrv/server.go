package httpsrv

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

const (
	readHeaderTimeout = 5 * time.Second
	maxBodySize       = 1 << 20

	// MaxLimit bounds the page size a client may request
	MaxLimit = 100
)

var ErrBadRequest = errors.New("bad request")

func NewServer(bind string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              bind,
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func WriteError(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, errorResponse{Error: msg})
}

func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %v: %w", err, ErrBadRequest)
	}

	return nil
}

// PathUUID reads uuid route variable
func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, ErrBadRequest)
	}

	return id, nil
}

type Page struct {
	Limit  int
	Offset int
}

// ReadPage parses limit/offset query params with defaults. The limit never exceeds MaxLimit.
func ReadPage(r *http.Request, defaultLimit int) Page {
	p := Page{Limit: min(defaultLimit, MaxLimit)}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		p.Limit = min(v, MaxLimit)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		p.Offset = v
	}

	return p
}
