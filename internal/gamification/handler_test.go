package gamification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sensei-learn/backend/internal/middleware"
	"github.com/sensei-learn/backend/internal/models"
)

type fakeProfiles struct {
	profile *models.UserProfile
	err     error
}

func (f fakeProfiles) Profile(context.Context, int64) (*models.UserProfile, error) {
	return f.profile, f.err
}

func TestListAchievements(t *testing.T) {
	h := NewHandler(fakeProfiles{})
	rec := httptest.NewRecorder()
	h.ListAchievements(rec, httptest.NewRequest(http.MethodGet, "/api/v1/achievements", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp achievementsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != len(Achievements) || resp.Unlocked != 0 {
		t.Errorf("total=%d unlocked=%d", resp.Total, resp.Unlocked)
	}
	if resp.Achievements[0].ID != "first-steps" || resp.Achievements[0].XPReward != 50 {
		t.Errorf("first entry = %+v", resp.Achievements[0])
	}
}

func TestMyAchievements(t *testing.T) {
	p := models.NewUserProfile(3)
	p.UnlockedAchievements = []string{"first-steps", "speed-demon"}

	tests := []struct {
		name         string
		profiles     fakeProfiles
		auth         bool
		wantStatus   int
		wantUnlocked int
	}{
		{"signed in", fakeProfiles{profile: p}, true, http.StatusOK, 2},
		{"anonymous", fakeProfiles{profile: p}, false, http.StatusUnauthorized, 0},
		{"store error", fakeProfiles{err: errors.New("disk")}, true, http.StatusInternalServerError, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/achievements/me", nil)
			if tt.auth {
				req = req.WithContext(middleware.WithUserID(req.Context(), 3))
			}
			rec := httptest.NewRecorder()
			NewHandler(tt.profiles).MyAchievements(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp achievementsResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Unlocked != tt.wantUnlocked {
				t.Errorf("unlocked = %d, want %d", resp.Unlocked, tt.wantUnlocked)
			}
		})
	}
}
