package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sensei-learn/backend/internal/auth"
	"github.com/sensei-learn/backend/internal/cloudsync"
	"github.com/sensei-learn/backend/internal/coach"
	"github.com/sensei-learn/backend/internal/content"
	"github.com/sensei-learn/backend/internal/gamification"
	"github.com/sensei-learn/backend/internal/middleware"
	"github.com/sensei-learn/backend/internal/progress"
	"github.com/sensei-learn/backend/internal/quiz"
)

type routes struct {
	secret  []byte
	origins []string

	auth         *auth.Handler
	progress     *progress.Handler
	quiz         *quiz.Handler
	content      *content.Handler
	coach        *coach.Handler
	leaderboard  *cloudsync.Handler
	achievements *gamification.Handler
}

func newRouter(h routes) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Logging)

	// Coach endpoints keep the paths the web client already calls.
	coachAPI := r.PathPrefix("/api/coach").Subrouter()
	coachAPI.HandleFunc("/advice", h.coach.Advice).Methods("POST")
	coachAPI.HandleFunc("/chat", h.coach.Chat).Methods("POST")
	coachAPI.HandleFunc("/explain", h.coach.Explain).Methods("POST")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", h.auth.Register).Methods("POST")
	api.HandleFunc("/auth/login", h.auth.Login).Methods("POST")
	api.HandleFunc("/content/{kind}", h.content.GetContent).Methods("GET")
	api.HandleFunc("/leaderboard", h.leaderboard.GetLeaderboard).Methods("GET")
	api.HandleFunc("/achievements", h.achievements.ListAchievements).Methods("GET")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(h.secret))
	protected.HandleFunc("/auth/me", h.auth.GetCurrentUser).Methods("GET")
	protected.HandleFunc("/auth/logout", h.auth.Logout).Methods("POST")
	protected.HandleFunc("/achievements/me", h.achievements.MyAchievements).Methods("GET")

	protected.HandleFunc("/progress", h.progress.GetProgress).Methods("GET")
	protected.HandleFunc("/progress/characters", h.progress.RecordCharacter).Methods("POST")
	protected.HandleFunc("/progress/characters/mark", h.progress.MarkCharacter).Methods("POST")
	protected.HandleFunc("/progress/grammar", h.progress.RecordGrammar).Methods("POST")
	protected.HandleFunc("/progress/weak", h.progress.WeakCharacters).Methods("GET")
	protected.HandleFunc("/progress/settings", h.progress.UpdateSettings).Methods("PUT")
	protected.HandleFunc("/progress/username", h.progress.SetUsername).Methods("PUT")
	protected.HandleFunc("/progress/reset", h.progress.Reset).Methods("POST")
	protected.HandleFunc("/progress/sync", h.progress.SyncNow).Methods("POST")

	protected.HandleFunc("/quiz/start", h.quiz.StartQuiz).Methods("POST")
	protected.HandleFunc("/quiz/current", h.quiz.CurrentQuiz).Methods("GET")
	protected.HandleFunc("/quiz/answer", h.quiz.SubmitAnswer).Methods("POST")
	protected.HandleFunc("/quiz/next", h.quiz.NextQuestion).Methods("POST")
	protected.HandleFunc("/quiz/end", h.quiz.EndQuiz).Methods("POST")
	protected.HandleFunc("/quiz", h.quiz.DiscardQuiz).Methods("DELETE")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins:   h.origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{coach.FallbackHeader},
		AllowCredentials: true,
	})
	return c.Handler(r)
}
