package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// QuizSweeper drops quiz sessions nobody has touched within their TTL.
type QuizSweeper interface {
	Sweep() int
}

// ProfileEvicter unloads cached profiles that have been idle too long.
type ProfileEvicter interface {
	EvictIdle(ctx context.Context, maxIdle time.Duration) int
}

// Scheduler runs the periodic housekeeping jobs.
type Scheduler struct {
	scheduler *gocron.Scheduler
	quizzes   QuizSweeper
	profiles  ProfileEvicter
	interval  time.Duration
	idleTTL   time.Duration
}

func New(quizzes QuizSweeper, profiles ProfileEvicter, interval, idleTTL time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		quizzes:   quizzes,
		profiles:  profiles,
		interval:  interval,
		idleTTL:   idleTTL,
	}
}

// Start registers the jobs and runs them in the background.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %v", s.interval)
	}
	if _, err := s.scheduler.Every(s.interval).Do(s.sweepQuizzes); err != nil {
		return fmt.Errorf("schedule quiz sweep: %w", err)
	}
	if _, err := s.scheduler.Every(s.interval).Do(s.evictProfiles); err != nil {
		return fmt.Errorf("schedule profile eviction: %w", err)
	}
	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) sweepQuizzes() {
	if n := s.quizzes.Sweep(); n > 0 {
		log.Printf("[scheduler] swept %d idle quiz sessions", n)
	}
}

func (s *Scheduler) evictProfiles() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if n := s.profiles.EvictIdle(ctx, s.idleTTL); n > 0 {
		log.Printf("[scheduler] evicted %d idle profiles", n)
	}
}
