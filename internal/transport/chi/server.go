package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ddadvisor/internal/agent"
	"ddadvisor/internal/domain"
	"ddadvisor/internal/logger"
	"ddadvisor/internal/service"
)

// maxAskBody bounds the /v1/ask request body.
const maxAskBody = 64 << 10

// Asker answers questions through the orchestrator.
type Asker interface {
	Ask(ctx context.Context, question, rolePrompt string) (agent.Outcome, error)
}

// Searcher runs direct local searches.
type Searcher interface {
	Search(ctx context.Context, query string, top int) (*service.LocalSearchResponse, error)
}

// Server serves the advisor HTTP API.
type Server struct {
	asker    Asker
	searcher Searcher
	logger   *zap.Logger
}

// NewServer creates the API server. A nil asker makes /v1/ask answer 503.
func NewServer(asker Asker, searcher Searcher, l *zap.Logger) *Server {
	return &Server{asker: asker, searcher: searcher, logger: logger.OrNop(l)}
}

// Routes mounts the API endpoints on r.
func (s *Server) Routes(r gochi.Router) {
	r.Post("/v1/ask", s.Ask)
	r.Get("/v1/search", s.Search)
	r.Get("/healthz", s.Health)
	r.Handle("/metrics", promhttp.Handler())
}

type askRequest struct {
	Question   string `json:"question"`
	RolePrompt string `json:"role_prompt,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status string `json:"status"`
	Agent  string `json:"agent"`
}

// Ask handles POST /v1/ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAskBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "question is required")
		return
	}
	if s.asker == nil {
		writeError(w, http.StatusServiceUnavailable, "agent_unavailable", agent.AgentUnavailableMessage)
		return
	}

	out, err := s.asker.Ask(r.Context(), req.Question, req.RolePrompt)
	if err != nil {
		if errors.Is(err, domain.ErrAgentUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "agent_unavailable", agent.AgentUnavailableMessage)
			return
		}
		logger.FromContext(r.Context(), s.logger).Error("ask failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	out.Answer = out.AsText()
	writeJSON(w, http.StatusOK, out)
}

// Search handles GET /v1/search?q=&top=.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "q is required")
		return
	}
	top := 0
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "validation_failed", "top must be a non-negative integer")
			return
		}
		top = n
	}

	resp, err := s.searcher.Search(r.Context(), q, top)
	if err != nil {
		logger.FromContext(r.Context(), s.logger).Error("search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Health handles GET /healthz. Local search works without the agent, so
// an unavailable agent is reported but does not fail the check.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	status := "ready"
	if s.asker == nil {
		status = "unavailable"
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Agent: status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
