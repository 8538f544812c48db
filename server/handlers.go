package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/richinex/codechat/assistant"
	"github.com/richinex/codechat/config"
	"github.com/richinex/codechat/llm"
	"github.com/richinex/codechat/projects"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

type handler struct {
	svc     Assistant
	catalog projects.Catalog
	logger  *slog.Logger
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error          string `json:"error"`
	UpstreamStatus int    `json:"upstreamStatus,omitempty"`
}

func (h *handler) chat(w http.ResponseWriter, r *http.Request) {
	var req assistant.ChatRequest
	if !h.decode(w, r, &req) {
		return
	}

	answer, err := h.svc.Chat(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

func (h *handler) overview(w http.ResponseWriter, r *http.Request) {
	var req assistant.OverviewRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.ProjectName = chi.URLParam(r, "projectName")

	overview, err := h.svc.GenerateOverview(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (h *handler) configStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ConfigStatus())
}

func (h *handler) providers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"providers": h.svc.Providers()})
}

func (h *handler) listProjects(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []projects.Project{}
	}
	writeJSON(w, http.StatusOK, map[string][]projects.Project{"projects": list})
}

// decode parses the JSON body into v, writing a 400 on failure.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// writeError maps err to a status code and writes it as JSON.
func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"status", status,
			"error", err,
		)
	}
	writeJSON(w, status, body)
}

func statusFor(err error) (int, errorResponse) {
	var validation *assistant.ValidationError
	var cfgErr *config.ConfigurationError
	var unknown *llm.UnknownProviderError
	var upstream *llm.UpstreamError

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.As(err, &cfgErr), errors.As(err, &unknown):
		return http.StatusInternalServerError, errorResponse{Error: err.Error()}
	case errors.As(err, &upstream):
		return http.StatusBadGateway, errorResponse{Error: err.Error(), UpstreamStatus: upstream.StatusCode}
	default:
		return http.StatusInternalServerError, errorResponse{Error: err.Error()}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
