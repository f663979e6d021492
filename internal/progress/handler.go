package progress

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/sensei-learn/backend/internal/content"
	"github.com/sensei-learn/backend/internal/middleware"
	"github.com/sensei-learn/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ── Progress ────────────────────────────────────────────

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.Summary(r.Context(), userID)
	if err != nil {
		log.Printf("[progress] get progress for user %d: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load progress"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) RecordCharacter(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CharacterAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if msg := validateCharacter(req.Character, req.Type); msg != "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: msg})
		return
	}

	resp, err := h.service.RecordCharacter(r.Context(), userID, req)
	if err != nil {
		log.Printf("[progress] record character for user %d: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to record attempt"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) RecordGrammar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.GrammarAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if _, ok := content.GrammarTopicByID(req.TopicID); !ok {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Unknown grammar topic"})
		return
	}

	resp, err := h.service.RecordGrammar(r.Context(), userID, req)
	if err != nil {
		log.Printf("[progress] record grammar for user %d: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to record attempt"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) MarkCharacter(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.MarkCharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if msg := validateCharacter(req.Character, req.Type); msg != "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: msg})
		return
	}
	if req.Weak == nil && !req.Mastered {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Nothing to mark"})
		return
	}

	resp, err := h.service.MarkCharacter(r.Context(), userID, req)
	if errors.Is(err, ErrCharacterNotPracticed) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		log.Printf("[progress] mark character for user %d: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update character"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) WeakCharacters(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	script := models.ScriptType(r.URL.Query().Get("type"))
	if !models.ValidScripts[script] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "type must be hiragana, katakana or kanji"})
		return
	}

	p, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load progress"})
		return
	}

	weak := WeakCharacters(p, script)
	if weak == nil {
		weak = []models.CharacterProgress{}
	}
	writeJSON(w, http.StatusOK, weak)
}

// ── Settings ────────────────────────────────────────────

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var patch models.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if patch.QuizInterval != nil && (*patch.QuizInterval < 0.5 || *patch.QuizInterval > 60) {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "quiz_interval must be between 0.5 and 60 seconds"})
		return
	}
	if patch.Theme != nil && *patch.Theme != "light" && *patch.Theme != "dark" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "theme must be light or dark"})
		return
	}

	p, err := h.service.UpdateSettings(r.Context(), userID, patch)
	if err != nil {
		log.Printf("[progress] update settings for user %d: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update settings"})
		return
	}

	writeJSON(w, http.StatusOK, p.Settings)
}

func (h *Handler) SetUsername(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.SetUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	name := strings.TrimSpace(req.Username)
	if name == "" || utf8.RuneCountInString(name) > 30 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "username must be 1 to 30 characters"})
		return
	}

	p, err := h.service.SetUsername(r.Context(), userID, name)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update username"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"username": p.Username})
}

// ── Reset & Sync ────────────────────────────────────────

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	p, err := h.service.Reset(r.Context(), userID)
	if err != nil {
		log.Printf("[progress] reset for user %d: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to reset progress"})
		return
	}

	writeJSON(w, http.StatusOK, h.service.summarize(p, nil))
}

func (h *Handler) SyncNow(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	err := h.service.SyncNow(r.Context(), userID)
	if errors.Is(err, ErrCloudDisabled) {
		writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: "Cloud sync is not configured"})
		return
	}
	if err != nil {
		log.Printf("[progress] sync for user %d: %v", userID, err)
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Cloud sync failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"synced": true})
}

// ── Helpers ─────────────────────────────────────────────

func validateCharacter(character string, script models.ScriptType) string {
	if strings.TrimSpace(character) == "" {
		return "character is required"
	}
	if !models.ValidScripts[script] {
		return "type must be hiragana, katakana or kanji"
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
