package cloudsync

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/sensei-learn/backend/internal/models"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// Leaderboarder ranks learners.
type Leaderboarder interface {
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type Handler struct {
	board Leaderboarder
}

func NewHandler(board Leaderboarder) *Handler {
	return &Handler{board: board}
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := defaultLeaderboardLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = min(n, maxLeaderboardLimit)
	}

	entries, err := h.board.Leaderboard(r.Context(), limit)
	if errors.Is(err, ErrCloudDisabled) {
		writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: "Leaderboard requires cloud sync"})
		return
	}
	if err != nil {
		log.Printf("[cloudsync] leaderboard: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load leaderboard"})
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
