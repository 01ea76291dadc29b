package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/IIBendyII/ProjectWork2025/internal/checkin/service"
	"github.com/IIBendyII/ProjectWork2025/internal/checkin/types"
)

type Dependencies struct {
	Logger  *logrus.Logger
	Addr    string
	CheckIn *service.CheckInService
}

type Server struct {
	httpServer *http.Server
	logger     *logrus.Logger
	mux        *http.ServeMux
	checkIn    *service.CheckInService
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger:  d.Logger,
		mux:     mux,
		checkIn: d.CheckIn,
	}

	// The check-in endpoint is the root path: deployed readers POST to "/".
	mux.HandleFunc("POST /{$}", s.handleCheckIn)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	handler := loggingMiddleware(d.Logger, mux)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	var req types.CheckInRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))

	if err := dec.Decode(&req); err != nil {
		// Undecodable JSON is a transport-level error; application-level
		// rejections (bad card ID, stale timestamp, ...) still get 200
		// with valido=false per the reader contract.
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	resp := s.checkIn.CheckIn(r.Context(), req)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
