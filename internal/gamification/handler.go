package gamification

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"slices"

	"github.com/sensei-learn/backend/internal/middleware"
	"github.com/sensei-learn/backend/internal/models"
)

// Profiles loads a learner's profile.
type Profiles interface {
	Profile(ctx context.Context, userID int64) (*models.UserProfile, error)
}

type Handler struct {
	profiles Profiles
}

func NewHandler(profiles Profiles) *Handler {
	return &Handler{profiles: profiles}
}

// AchievementStatus is one catalogue entry as seen by a learner.
type AchievementStatus struct {
	AchievementDef
	Unlocked bool `json:"unlocked"`
}

type achievementsResponse struct {
	Achievements []AchievementStatus `json:"achievements"`
	Unlocked     int                 `json:"unlocked"`
	Total        int                 `json:"total"`
}

// ListAchievements returns the full catalogue with nothing unlocked.
func (h *Handler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildStatus(nil))
}

// MyAchievements marks the entries the signed-in learner has earned.
func (h *Handler) MyAchievements(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	p, err := h.profiles.Profile(r.Context(), userID)
	if err != nil {
		log.Printf("[gamification] load profile for user %d: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load achievements"})
		return
	}
	writeJSON(w, http.StatusOK, buildStatus(p.UnlockedAchievements))
}

func buildStatus(unlocked []string) achievementsResponse {
	resp := achievementsResponse{
		Achievements: make([]AchievementStatus, len(Achievements)),
		Total:        len(Achievements),
	}
	for i, a := range Achievements {
		got := slices.Contains(unlocked, a.ID)
		resp.Achievements[i] = AchievementStatus{AchievementDef: a, Unlocked: got}
		if got {
			resp.Unlocked++
		}
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
