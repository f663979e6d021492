package quiz

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/sensei-learn/backend/internal/middleware"
	"github.com/sensei-learn/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) StartQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.StartQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.Start(r.Context(), userID, req)
	if err != nil {
		writeError(w, userID, "start quiz", err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) CurrentQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.Current(userID)
	if err != nil {
		writeError(w, userID, "current quiz", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.TimeSpent < 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "time_spent must not be negative"})
		return
	}

	resp, err := h.service.Answer(r.Context(), userID, req)
	if err != nil {
		writeError(w, userID, "answer", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) NextQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.Next(r.Context(), userID)
	if err != nil {
		writeError(w, userID, "next question", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) EndQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	summary, err := h.service.End(r.Context(), userID)
	if err != nil {
		writeError(w, userID, "end quiz", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) DiscardQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	if err := h.service.Discard(userID); err != nil {
		writeError(w, userID, "discard quiz", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeError maps quiz errors to status codes.
func writeError(w http.ResponseWriter, userID int64, op string, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: verr.Msg})
	case errors.Is(err, ErrNoSession):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrNoQuestions):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "No questions available for this selection"})
	case errors.Is(err, ErrAlreadyActive), errors.Is(err, ErrNotActive),
		errors.Is(err, ErrNotAnswered), errors.Is(err, ErrDailyDone):
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: err.Error()})
	default:
		log.Printf("[quiz] %s for user %d: %v", op, userID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to " + op})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
