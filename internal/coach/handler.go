package coach

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sensei-learn/backend/internal/models"
)

// FallbackHeader is set on responses served from canned replies.
const FallbackHeader = "X-Coach-Fallback"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Advice(w http.ResponseWriter, r *http.Request) {
	var stats models.LearnerStats
	if err := json.NewDecoder(r.Body).Decode(&stats); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	res := h.service.Advice(r.Context(), stats)
	markFallback(w, res.Fallback)
	writeJSON(w, http.StatusOK, res.Value)
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "message is required"})
		return
	}

	res := h.service.Chat(r.Context(), req)
	markFallback(w, res.Fallback)
	writeJSON(w, http.StatusOK, models.ChatResponse{Response: res.Value})
}

func (h *Handler) Explain(w http.ResponseWriter, r *http.Request) {
	var req models.ExplainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.Character) == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "character is required"})
		return
	}

	res := h.service.Explain(r.Context(), req)
	markFallback(w, res.Fallback)
	writeJSON(w, http.StatusOK, models.ExplainResponse{Explanation: res.Value})
}

func markFallback(w http.ResponseWriter, fallback bool) {
	if fallback {
		w.Header().Set(FallbackHeader, "true")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
