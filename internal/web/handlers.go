package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/rejot-dev/qakit/internal/export"
	"github.com/rejot-dev/qakit/internal/mathsolver"
	"github.com/rejot-dev/qakit/internal/parser"
	"github.com/rejot-dev/qakit/internal/qa"
	"github.com/rejot-dev/qakit/internal/testcases"
)

// Request body limit for forms and JSON payloads.
const maxBodyBytes = 1 << 20

type testCasesRequest struct {
	Story string `json:"story"`
	Mode  string `json:"mode"`
}

type testCasesResponse struct {
	Mode    parser.Mode `json:"mode"`
	Header  []string    `json:"header"`
	Rows    [][]string  `json:"rows"`
	Raw     string      `json:"raw"`
	Warning string      `json:"warning,omitempty"`
}

type askRequest struct {
	Context  string `json:"context"`
	Question string `json:"question"`
}

type solveResponse struct {
	Solved bool   `json:"solved"`
	Symbol string `json:"symbol,omitempty"`
	Answer string `json:"answer,omitempty"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id"`
}

func (s *Server) newPage(r *http.Request) *pageData {
	return &pageData{
		RequestID: requestID(r.Context()),
		Modes:     parser.GetAllModes(),
		Mode:      parser.ModeCategorized,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, s.newPage(r))
}

func (s *Server) handleTestCasesForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	data := s.newPage(r)
	data.Story = r.FormValue("story")

	mode, err := parser.ToMode(r.FormValue("mode"))
	if err != nil {
		data.TestCaseError = err.Error()
		s.renderPage(w, r, http.StatusBadRequest, data)
		return
	}
	data.Mode = mode

	result, err := s.testCases.Generate(r.Context(), data.Story, mode)
	if err != nil {
		status := statusFor(err)
		data.TestCaseError = err.Error()
		s.logFailure(r, status, err)
		s.renderPage(w, r, status, data)
		return
	}

	data.Result = result
	if warning := result.Warning(); warning != nil {
		data.Warning = warning.Error()
	}
	if data.RawHTML, err = renderMarkdown(result.Raw); err != nil {
		log.Warn("Failed to render raw output", "request_id", data.RequestID, "err", err)
	}
	s.renderPage(w, r, http.StatusOK, data)
}

// handleTestCasesCSV re-parses the raw output posted back by the results
// page through the same path the page used, so the download matches the
// table. Without raw output it generates from the story instead.
func (s *Server) handleTestCasesCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mode, err := parser.ToMode(r.FormValue("mode"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var result *testcases.Result
	if raw := r.FormValue("raw"); raw != "" {
		result = s.testCases.Parse(raw, mode)
	} else {
		result, err = s.testCases.Generate(r.Context(), r.FormValue("story"), mode)
		if err != nil {
			status := statusFor(err)
			s.logFailure(r, status, err)
			http.Error(w, err.Error(), status)
			return
		}
	}

	if warning := result.Warning(); warning != nil {
		http.Error(w, warning.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	if err := export.WriteCSV(w, result.Header, result.Rows); err != nil {
		log.Error("Failed to write CSV", "request_id", requestID(r.Context()), "err", err)
	}
}

func (s *Server) handleAskForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	data := s.newPage(r)
	data.Context = r.FormValue("context")
	data.Question = r.FormValue("question")

	answer, err := s.qa.Answer(r.Context(), data.Context, data.Question)
	if err != nil {
		status := statusFor(err)
		data.AskError = err.Error()
		s.logFailure(r, status, err)
		s.renderPage(w, r, status, data)
		return
	}

	data.Answer = answer
	s.renderPage(w, r, http.StatusOK, data)
}

func (s *Server) handleAPITestCases(w http.ResponseWriter, r *http.Request) {
	var req testCasesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	mode, err := parser.ToMode(req.Mode)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	result, err := s.testCases.Generate(r.Context(), req.Story, mode)
	if err != nil {
		status := statusFor(err)
		s.logFailure(r, status, err)
		writeError(w, r, status, err)
		return
	}

	resp := testCasesResponse{
		Mode:   result.Mode,
		Header: result.Header,
		Rows:   result.Records(),
		Raw:    result.Raw,
	}
	if warning := result.Warning(); warning != nil {
		resp.Warning = warning.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAPIAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	answer, err := s.qa.Answer(r.Context(), req.Context, req.Question)
	if err != nil {
		status := statusFor(err)
		s.logFailure(r, status, err)
		writeError(w, r, status, err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

// handleAPISolve runs only the arithmetic solver. A deferral is a normal
// response with solved=false.
func (s *Server) handleAPISolve(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	symbol, answer, ok := mathsolver.TrySolve(req.Context, req.Question)
	writeJSON(w, http.StatusOK, solveResponse{Solved: ok, Symbol: symbol, Answer: answer})
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, data *pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Execute(w, data); err != nil {
		log.Error("Failed to render page", "request_id", requestID(r.Context()), "err", err)
	}
}

func (s *Server) logFailure(r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "request_id", requestID(r.Context()), "err", err)
		return
	}
	log.Warn("Rejected request", "request_id", requestID(r.Context()), "err", err)
}

// statusFor maps service errors onto HTTP status codes: missing input is the
// caller's fault, anything else is an upstream model failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, testcases.ErrInputMissing), errors.Is(err, qa.ErrInputMissing):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error(), RequestID: requestID(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "err", err)
	}
}
