package main

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sensei-learn/backend/internal/auth"
	"github.com/sensei-learn/backend/internal/cloudsync"
	"github.com/sensei-learn/backend/internal/coach"
	"github.com/sensei-learn/backend/internal/content"
	"github.com/sensei-learn/backend/internal/gamification"
	"github.com/sensei-learn/backend/internal/progress"
	"github.com/sensei-learn/backend/internal/quiz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(t *testing.T) (http.Handler, []byte) {
	t.Helper()
	local, err := progress.OpenLocalStore(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	t.Cleanup(func() { local.Close() })

	secret := []byte("router-test")
	progressSvc := progress.NewService(local, nil, nil)
	quizSvc := quiz.NewService(quiz.NewGenerator(), quiz.NewManager(0), progressSvc)

	return newRouter(routes{
		secret:       secret,
		origins:      []string{"*"},
		auth:         auth.NewHandler(nil, secret, progressSvc),
		progress:     progress.NewHandler(progressSvc),
		quiz:         quiz.NewHandler(quizSvc),
		content:      content.NewHandler(),
		coach:        coach.NewHandler(coach.NewService(nil, 0)),
		leaderboard:  cloudsync.NewHandler(cloudsync.Disabled{}),
		achievements: gamification.NewHandler(progressSvc),
	}), secret
}

func TestRouter(t *testing.T) {
	router, secret := testRouter(t)
	token, err := auth.GenerateToken(42, secret)
	require.NoError(t, err)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		token      string
		wantStatus int
	}{
		{"health", "GET", "/health", "", "", http.StatusOK},
		{"content", "GET", "/api/v1/content/hiragana", "", "", http.StatusOK},
		{"achievements", "GET", "/api/v1/achievements", "", "", http.StatusOK},
		{"leaderboard without cloud", "GET", "/api/v1/leaderboard", "", "", http.StatusServiceUnavailable},
		{"coach advice", "POST", "/api/coach/advice", `{"level":1}`, "", http.StatusOK},
		{"progress needs token", "GET", "/api/v1/progress", "", "", http.StatusUnauthorized},
		{"progress with token", "GET", "/api/v1/progress", "", token, http.StatusOK},
		{"my achievements", "GET", "/api/v1/achievements/me", "", token, http.StatusOK},
		{"sync without cloud", "POST", "/api/v1/progress/sync", "", token, http.StatusServiceUnavailable},
		{"quiz start", "POST", "/api/v1/quiz/start", `{"type":"hiragana","count":5,"timer_seconds":-1}`, token, http.StatusCreated},
		{"quiz current", "GET", "/api/v1/quiz/current", "", token, http.StatusOK},
		{"quiz discard", "DELETE", "/api/v1/quiz", "", token, http.StatusNoContent},
		{"bad token", "GET", "/api/v1/quiz/current", "", "nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}
