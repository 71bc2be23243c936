// Package server exposes the advisor over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/comigor/advisor-go/internal/advisor"
	"github.com/comigor/advisor-go/internal/logger"
)

// maxMessageBytes bounds the request body of POST /.
const maxMessageBytes = 64 << 10

// Server serves one advisor session. Only one message is answered at a time.
type Server struct {
	advisor  *advisor.Advisor
	inFlight sync.Mutex
}

func New(a *advisor.Advisor) *Server {
	return &Server{advisor: a}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	// main inference endpoint
	mux.HandleFunc("POST /{$}", s.handleMessage)
	mux.HandleFunc("GET /messages", s.handleMessages)
	mux.HandleFunc("DELETE /messages", s.handleReset)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("POST /cancel", s.handleCancel)
	return mux
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxMessageBytes))
	if err != nil {
		if errors.As(err, new(*http.MaxBytesError)) {
			http.Error(w, "message too large", http.StatusRequestEntityTooLarge)
			return
		}
		logger.L.Error("read body error", "err", err)
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		http.Error(w, "empty message", http.StatusBadRequest)
		return
	}
	if !s.inFlight.TryLock() {
		http.Error(w, "a message is already being answered", http.StatusConflict)
		return
	}
	defer s.inFlight.Unlock()

	logger.L.Info("inference request", "body", string(body))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	flusher, _ := w.(http.Flusher)

	res := s.advisor.Send(r.Context(), string(body), func(fragment string) {
		if _, err := io.WriteString(w, fragment); err != nil {
			logger.L.Warn("write fragment failed", "err", err)
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	})
	if res.Failed() {
		// Fragments may already be on the wire; the error text follows them.
		_, _ = io.WriteString(w, "\n"+res.Reply.Text())
	}
	logger.L.Info("inference response", "category", res.Category.String(), "state", string(res.State))
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.advisor.Session().Log)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.advisor.Session().Reset()
	w.WriteHeader(http.StatusNoContent)
}

type status struct {
	Loading   bool   `json:"loading"`
	SessionID string `json:"session_id"`
	Turns     int    `json:"turns"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	sess := s.advisor.Session()
	writeJSON(w, http.StatusOK, status{
		Loading:   s.advisor.Loading(),
		SessionID: sess.ID,
		Turns:     sess.Log.Len(),
	})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.advisor.Cancel()
	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L.Error("encode response failed", "err", err)
	}
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	errCh := make(chan error, 1)
	go func() {
		logger.L.Info("starting server", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.advisor.Cancel()
	if err := srv.Shutdown(context.Background()); err != nil {
		return err
	}
	if err := <-errCh; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
