// Package web serves the test case generator and ContextQA over HTTP, as an
// HTML form front-end and a JSON API.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rejot-dev/qakit/internal/buildinfo"
	"github.com/rejot-dev/qakit/internal/qa"
	"github.com/rejot-dev/qakit/internal/testcases"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP front-end.
type Server struct {
	address   string
	testCases *testcases.Service
	qa        *qa.Service
	mux       *http.ServeMux
}

func NewServer(address string, testCases *testcases.Service, qaService *qa.Service) *Server {
	s := &Server{
		address:   address,
		testCases: testCases,
		qa:        qaService,
		mux:       http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /testcases", s.handleTestCasesForm)
	s.mux.HandleFunc("POST /testcases.csv", s.handleTestCasesCSV)
	s.mux.HandleFunc("POST /ask", s.handleAskForm)

	s.mux.HandleFunc("POST /api/testcases", s.handleAPITestCases)
	s.mux.HandleFunc("POST /api/ask", s.handleAPIAsk)
	s.mux.HandleFunc("POST /api/solve", s.handleAPISolve)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

// Handler returns the routed handler wrapped with request logging.
func (s *Server) Handler() http.Handler {
	return withRequestID(s.mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Web server started", "address", s.address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web server shutdown failed: %w", err)
	}
	<-errCh
	log.Info("Web server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}
