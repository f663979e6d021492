package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sensei-learn/backend/internal/auth"
	"github.com/sensei-learn/backend/internal/cloudsync"
	"github.com/sensei-learn/backend/internal/coach"
	"github.com/sensei-learn/backend/internal/config"
	"github.com/sensei-learn/backend/internal/content"
	"github.com/sensei-learn/backend/internal/database"
	"github.com/sensei-learn/backend/internal/gamification"
	"github.com/sensei-learn/backend/internal/progress"
	"github.com/sensei-learn/backend/internal/quiz"
	"github.com/sensei-learn/backend/internal/scheduler"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Accounts live in Postgres whether or not progress is mirrored there.
	db, err := database.Connect(cfg.DB)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		return err
	}

	local, err := progress.OpenLocalStore(cfg.LocalDBPath)
	if err != nil {
		return err
	}
	defer local.Close()

	var (
		cloud  progress.CloudStore
		pusher progress.Syncer
		syncer *cloudsync.Syncer
		board  cloudsync.Leaderboarder = cloudsync.Disabled{}
	)
	if cfg.CloudSync {
		store := cloudsync.NewStore(db)
		syncer = cloudsync.NewSyncer(store, cfg.SyncDelay)
		cloud, pusher, board = store, syncer, store
		log.Printf("[server] cloud sync on (delay %v)", cfg.SyncDelay)
	} else {
		log.Println("[server] cloud sync off; progress stays local")
	}

	progressSvc := progress.NewService(local, cloud, pusher)
	quizSvc := quiz.NewService(quiz.NewGenerator(), quiz.NewManager(cfg.QuizSessionTTL), progressSvc)

	llm, err := coach.NewClient(ctx, cfg.Coach)
	switch {
	case errors.Is(err, coach.ErrNotConfigured):
		log.Printf("[server] no API key for coach provider %q; coach serves default replies", cfg.Coach.Provider)
		llm = nil
	case err != nil:
		return err
	}

	sched := scheduler.New(quizSvc, progressSvc, cfg.SweepInterval, cfg.ProfileIdleTTL)
	if err := sched.Start(); err != nil {
		return err
	}

	handler := newRouter(routes{
		secret:       []byte(cfg.JWTSecret),
		origins:      cfg.AllowedOrigins,
		auth:         auth.NewHandler(db, []byte(cfg.JWTSecret), progressSvc),
		progress:     progress.NewHandler(progressSvc),
		quiz:         quiz.NewHandler(quizSvc),
		content:      content.NewHandler(),
		coach:        coach.NewHandler(coach.NewService(llm, cfg.Coach.Timeout)),
		leaderboard:  cloudsync.NewHandler(board),
		achievements: gamification.NewHandler(progressSvc),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			sched.Stop()
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Println("[server] shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[server] http shutdown: %v", err)
	}
	sched.Stop()
	if n := progressSvc.EvictIdle(shutdownCtx, 0); n > 0 {
		log.Printf("[server] flushed %d cached profiles", n)
	}
	if syncer != nil {
		if err := syncer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[server] cloud sync drain: %v", err)
		}
	}
	return nil
}
