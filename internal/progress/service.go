package progress

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/sensei-learn/backend/internal/gamification"
	"github.com/sensei-learn/backend/internal/models"
)

// ProfileStore is the durable local copy of each profile.
type ProfileStore interface {
	Load(ctx context.Context, userID int64) (*models.UserProfile, bool, error)
	Save(ctx context.Context, p *models.UserProfile) error
	Delete(ctx context.Context, userID int64) error
}

// CloudStore is the remote mirror consulted on login.
type CloudStore interface {
	Load(ctx context.Context, userID int64) (*models.CloudRecord, bool, error)
	Save(ctx context.Context, rec *models.CloudRecord) error
}

// Syncer debounces snapshots to the cloud.
type Syncer interface {
	Schedule(userID int64, rec *models.CloudRecord)
	Flush(ctx context.Context, userID int64, rec *models.CloudRecord) error
}

type entry struct {
	mu       sync.Mutex
	profile  *models.UserProfile
	lastUsed time.Time
}

// Service owns the in-memory profile of every active learner. Every
// mutation is saved locally before it returns and then scheduled for
// the cloud.
type Service struct {
	local  ProfileStore
	cloud  CloudStore
	syncer Syncer
	now    func() time.Time

	mu      sync.Mutex
	entries map[int64]*entry
}

// NewService wires the stores. cloud and syncer may be nil when cloud sync is off.
func NewService(local ProfileStore, cloud CloudStore, syncer Syncer) *Service {
	return &Service{
		local:   local,
		cloud:   cloud,
		syncer:  syncer,
		now:     time.Now,
		entries: make(map[int64]*entry),
	}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) entry(userID int64) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok {
		e = &entry{}
		s.entries[userID] = e
	}
	return e
}

// load fills e.profile from the local store on first access. Caller holds e.mu.
func (s *Service) load(ctx context.Context, userID int64, e *entry) error {
	e.lastUsed = s.now()
	if e.profile != nil {
		return nil
	}
	p, found, err := s.local.Load(ctx, userID)
	if err != nil {
		return err
	}
	if !found {
		p = models.NewUserProfile(userID)
	}
	e.profile = p
	return nil
}

// ── Reads ───────────────────────────────────────────────

// Profile returns a copy of the learner's current profile.
func (s *Service) Profile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := s.load(ctx, userID, e); err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return e.profile.Clone(), nil
}

// Summary returns the profile with its derived figures.
func (s *Service) Summary(ctx context.Context, userID int64) (*models.ProgressResponse, error) {
	p, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.summarize(p, nil), nil
}

func (s *Service) summarize(p *models.UserProfile, unlocked []string) *models.ProgressResponse {
	return &models.ProgressResponse{
		Profile:              p,
		XPForNextLevel:       gamification.XPForNextLevel(p.Level),
		XPProgress:           gamification.XPProgress(p.XP, p.Level),
		HiraganaMastered:     MasteredCount(p, models.ScriptHiragana),
		KatakanaMastered:     MasteredCount(p, models.ScriptKatakana),
		KanjiMastered:        MasteredCount(p, models.ScriptKanji),
		GrammarMastered:      GrammarMasteredCount(p),
		DailyChallengeDone:   DailyChallengeDone(p, s.now()),
		AchievementsUnlocked: unlocked,
	}
}

// ── Mutations ───────────────────────────────────────────

// Update applies fn to the learner's profile under the learner's lock,
// awards any newly qualified achievements, saves locally and schedules a
// cloud sync. It returns a copy of the result and the unlocked achievement ids.
// If fn returns an error nothing is saved.
func (s *Service) Update(ctx context.Context, userID int64, fn func(p *models.UserProfile, now time.Time) error) (*models.UserProfile, []string, error) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := s.load(ctx, userID, e); err != nil {
		return nil, nil, fmt.Errorf("load profile: %w", err)
	}

	working := e.profile.Clone()
	if err := fn(working, s.now()); err != nil {
		return nil, nil, err
	}
	unlocked := AwardAchievements(working)
	for _, id := range unlocked {
		log.Printf("[progress] user %d unlocked %s", userID, id)
	}

	if err := s.local.Save(ctx, working); err != nil {
		return nil, nil, fmt.Errorf("save profile: %w", err)
	}
	e.profile = working
	s.scheduleSync(working)

	return working.Clone(), unlocked, nil
}

func (s *Service) scheduleSync(p *models.UserProfile) {
	if s.syncer == nil {
		return
	}
	s.syncer.Schedule(p.UserID, p.ToCloudRecord())
}

func (s *Service) RecordCharacter(ctx context.Context, userID int64, req models.CharacterAttemptRequest) (*models.ProgressResponse, error) {
	p, unlocked, err := s.Update(ctx, userID, func(p *models.UserProfile, now time.Time) error {
		RecordCharacterAttempt(p, req.Character, req.Type, req.Correct, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.summarize(p, unlocked), nil
}

func (s *Service) RecordGrammar(ctx context.Context, userID int64, req models.GrammarAttemptRequest) (*models.ProgressResponse, error) {
	p, unlocked, err := s.Update(ctx, userID, func(p *models.UserProfile, now time.Time) error {
		RecordGrammarAttempt(p, req.TopicID, req.Correct, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.summarize(p, unlocked), nil
}

// MarkCharacter applies a manual weak or mastered override.
func (s *Service) MarkCharacter(ctx context.Context, userID int64, req models.MarkCharacterRequest) (*models.ProgressResponse, error) {
	p, unlocked, err := s.Update(ctx, userID, func(p *models.UserProfile, now time.Time) error {
		if req.Mastered {
			MarkCharacterMastered(p, req.Character, req.Type, now)
		}
		if req.Weak != nil && !MarkCharacterWeak(p, req.Character, req.Type, *req.Weak) {
			return ErrCharacterNotPracticed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.summarize(p, unlocked), nil
}

func (s *Service) UpdateSettings(ctx context.Context, userID int64, patch models.SettingsPatch) (*models.UserProfile, error) {
	p, _, err := s.Update(ctx, userID, func(p *models.UserProfile, _ time.Time) error {
		UpdateSettings(p, patch)
		return nil
	})
	return p, err
}

func (s *Service) SetUsername(ctx context.Context, userID int64, username string) (*models.UserProfile, error) {
	p, _, err := s.Update(ctx, userID, func(p *models.UserProfile, _ time.Time) error {
		SetUsername(p, username)
		return nil
	})
	return p, err
}

// Reset wipes the learner's progress. The local blob is deleted whether or
// not a cached profile exists; username and settings survive.
func (s *Service) Reset(ctx context.Context, userID int64) (*models.UserProfile, error) {
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := s.load(ctx, userID, e); err != nil {
		log.Printf("[progress] reset: load user %d: %v", userID, err)
	}

	fresh := models.NewUserProfile(userID)
	if e.profile != nil {
		fresh.Username = e.profile.Username
		fresh.Settings = e.profile.Settings
	}

	if err := s.local.Delete(ctx, userID); err != nil {
		return nil, fmt.Errorf("reset profile: %w", err)
	}
	if err := s.local.Save(ctx, fresh); err != nil {
		return nil, fmt.Errorf("save reset profile: %w", err)
	}
	e.profile = fresh
	s.scheduleSync(fresh)

	log.Printf("[progress] user %d progress reset", userID)
	return fresh.Clone(), nil
}

// ── Session lifecycle ───────────────────────────────────

// Login merges the cloud record into the local profile. A missing cloud
// record is not an error; a failing cloud is logged and the local
// profile is used as is.
func (s *Service) Login(ctx context.Context, userID int64, username string) (*models.UserProfile, error) {
	var rec *models.CloudRecord
	if s.cloud != nil {
		r, found, err := s.cloud.Load(ctx, userID)
		switch {
		case err != nil:
			log.Printf("[progress] cloud load for user %d failed: %v", userID, err)
		case found:
			rec = r
		}
	}

	p, _, err := s.Update(ctx, userID, func(p *models.UserProfile, _ time.Time) error {
		if username != "" && (p.Username == "" || p.Username == "Guest") {
			p.Username = username
		}
		MergeCloud(p, rec)
		return nil
	})
	return p, err
}

// Logout pushes a final snapshot, waits for it and forgets the cached profile.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	s.mu.Lock()
	e, ok := s.entries[userID]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var err error
	if e.profile != nil && s.syncer != nil {
		err = s.syncer.Flush(ctx, userID, e.profile.ToCloudRecord())
	}

	s.mu.Lock()
	delete(s.entries, userID)
	s.mu.Unlock()
	return err
}

// SyncNow saves the current profile to the cloud immediately.
func (s *Service) SyncNow(ctx context.Context, userID int64) error {
	if s.cloud == nil {
		return ErrCloudDisabled
	}
	p, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	return s.cloud.Save(ctx, p.ToCloudRecord())
}

// EvictIdle flushes and drops profiles unused for longer than maxIdle.
// It returns the number evicted.
func (s *Service) EvictIdle(ctx context.Context, maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	var idle []int64
	for id, e := range s.entries {
		if e.mu.TryLock() {
			if e.lastUsed.Before(cutoff) {
				idle = append(idle, id)
			}
			e.mu.Unlock()
		}
	}
	s.mu.Unlock()

	evicted := 0
	for _, id := range idle {
		if err := s.Logout(ctx, id); err != nil {
			log.Printf("[progress] evict user %d: flush failed: %v", id, err)
		}
		evicted++
	}
	return evicted
}

// Active returns how many profiles are cached.
func (s *Service) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
