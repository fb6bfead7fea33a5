package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"episodic/internal/config"
	"episodic/internal/journal"
	"episodic/internal/logging"
)

type saveResponse struct {
	Status string `json:"status"`
	File   string `json:"file"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type apiServer struct {
	bind         string
	maxBodyBytes int64
	logger       *slog.Logger
	daemon       *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, errors.New("api server requires config and daemon")
	}

	srv := &apiServer{
		bind:         cfg.Paths.APIBind,
		maxBodyBytes: cfg.Ingest.MaxBodyBytes,
		logger:       logger,
		daemon:       d,
	}

	// A single root handler keeps the routing contract exact: POST /save is
	// the only endpoint, everything else is 404.
	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.handleRoot)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("capture endpoint listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) boundAddr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.bind
}

func (s *apiServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/save" || r.Method != http.MethodPost {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Status: "error", Message: "not found"})
		return
	}
	s.handleSave(w, r)
}

func (s *apiServer) handleSave(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	logger := s.log().With(logging.String(logging.FieldRequestID, requestID))

	if r.ContentLength < 0 {
		s.writeFailure(w, logger, "request must declare Content-Length")
		return
	}
	if s.maxBodyBytes > 0 && r.ContentLength > s.maxBodyBytes {
		s.writeFailure(w, logger, fmt.Sprintf("body of %d bytes exceeds limit of %d", r.ContentLength, s.maxBodyBytes))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, r.ContentLength))
	if err != nil {
		s.writeFailure(w, logger, fmt.Sprintf("read request body: %v", err))
		return
	}

	result, err := s.daemon.store.Save(r.Context(), body)
	if err != nil {
		s.writeFailure(w, logger, err.Error())
		return
	}

	if s.daemon.journal != nil {
		entry := journal.Entry{
			Filename:   result.Filename,
			Bytes:      result.Bytes,
			RequestID:  requestID,
			RemoteAddr: r.RemoteAddr,
			ReceivedAt: time.Now().UTC(),
		}
		// Journal trouble never fails a save that already hit disk.
		if err := s.daemon.journal.Record(r.Context(), entry); err != nil {
			logger.Warn("journal record failed", logging.Error(err))
		}
	}

	s.writeJSON(w, http.StatusOK, saveResponse{Status: "success", File: result.Filename})
}

func (s *apiServer) writeFailure(w http.ResponseWriter, logger *slog.Logger, message string) {
	logger.Error("episode save failed", logging.String("reason", message))
	s.writeJSON(w, http.StatusInternalServerError, errorResponse{Status: "error", Message: message})
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String(logging.FieldComponent, "api-server"))
	}
	return logging.NewNop()
}
