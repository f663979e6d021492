package cloudsync

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sensei-learn/backend/internal/models"
)

var (
	ErrCloudDisabled = errors.New("cloud sync is disabled")
	ErrSyncerStopped = errors.New("syncer has been shut down")
)

// Store mirrors learner progress into the user_progress table.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save upserts the record. Progress maps and settings are stored as JSONB.
func (s *Store) Save(ctx context.Context, rec *models.CloudRecord) error {
	chars, err := json.Marshal(rec.CharacterProgress)
	if err != nil {
		return fmt.Errorf("encode character progress: %w", err)
	}
	grammar, err := json.Marshal(rec.GrammarProgress)
	if err != nil {
		return fmt.Errorf("encode grammar progress: %w", err)
	}
	settings, err := json.Marshal(rec.Settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	achievements := rec.UnlockedAchievements
	if achievements == nil {
		achievements = []string{}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO user_progress (
		    user_id, xp, level, streak, last_active_date, username,
		    character_progress, grammar_progress, unlocked_achievements,
		    daily_challenge_completed, daily_challenge_date,
		    total_quizzes, perfect_quizzes, speed_answers, settings, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET
		    xp = EXCLUDED.xp, level = EXCLUDED.level, streak = EXCLUDED.streak,
		    last_active_date = EXCLUDED.last_active_date, username = EXCLUDED.username,
		    character_progress = EXCLUDED.character_progress,
		    grammar_progress = EXCLUDED.grammar_progress,
		    unlocked_achievements = EXCLUDED.unlocked_achievements,
		    daily_challenge_completed = EXCLUDED.daily_challenge_completed,
		    daily_challenge_date = EXCLUDED.daily_challenge_date,
		    total_quizzes = EXCLUDED.total_quizzes,
		    perfect_quizzes = EXCLUDED.perfect_quizzes,
		    speed_answers = EXCLUDED.speed_answers,
		    settings = EXCLUDED.settings,
		    updated_at = NOW()`,
		rec.UserID, rec.XP, rec.Level, rec.Streak, rec.LastActiveDate, rec.Username,
		chars, grammar, pq.Array(achievements),
		rec.DailyChallengeCompleted, rec.DailyChallengeDate,
		rec.TotalQuizzes, rec.PerfectQuizzes, rec.SpeedAnswers, settings,
	)
	if err != nil {
		return fmt.Errorf("upsert user progress: %w", err)
	}
	return nil
}

// Load returns the user's record. A missing row is reported as not found,
// not as an error.
func (s *Store) Load(ctx context.Context, userID int64) (*models.CloudRecord, bool, error) {
	var (
		rec                      models.CloudRecord
		chars, grammar, settings []byte
		achievements             pq.StringArray
		updatedAt                time.Time
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, xp, level, streak, last_active_date, username,
		        character_progress, grammar_progress, unlocked_achievements,
		        daily_challenge_completed, daily_challenge_date,
		        total_quizzes, perfect_quizzes, speed_answers, settings, updated_at
		 FROM user_progress WHERE user_id = $1`,
		userID,
	).Scan(&rec.UserID, &rec.XP, &rec.Level, &rec.Streak, &rec.LastActiveDate, &rec.Username,
		&chars, &grammar, &achievements,
		&rec.DailyChallengeCompleted, &rec.DailyChallengeDate,
		&rec.TotalQuizzes, &rec.PerfectQuizzes, &rec.SpeedAnswers, &settings, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load user progress: %w", err)
	}

	if err := decodeRecord(&rec, chars, grammar, settings); err != nil {
		return nil, false, err
	}
	rec.UnlockedAchievements = []string(achievements)
	rec.UpdatedAt = updatedAt
	return &rec, true, nil
}

func decodeRecord(rec *models.CloudRecord, chars, grammar, settings []byte) error {
	rec.CharacterProgress = make(map[string]models.CharacterProgress)
	rec.GrammarProgress = make(map[string]models.GrammarTopicProgress)
	rec.Settings = models.DefaultSettings()

	if len(chars) > 0 {
		if err := json.Unmarshal(chars, &rec.CharacterProgress); err != nil {
			return fmt.Errorf("decode character progress: %w", err)
		}
	}
	if len(grammar) > 0 {
		if err := json.Unmarshal(grammar, &rec.GrammarProgress); err != nil {
			return fmt.Errorf("decode grammar progress: %w", err)
		}
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &rec.Settings); err != nil {
			return fmt.Errorf("decode settings: %w", err)
		}
	}
	return nil
}

// Leaderboard ranks learners by total XP.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ROW_NUMBER() OVER (ORDER BY xp DESC, user_id) AS rank,
		        username, xp, level, streak
		 FROM user_progress
		 WHERE xp > 0
		 ORDER BY xp DESC, user_id
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []models.LeaderboardEntry{}
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.Rank, &e.Username, &e.XP, &e.Level, &e.Streak); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Disabled stands in for the remote store when cloud sync is off.
type Disabled struct{}

func (Disabled) Save(context.Context, *models.CloudRecord) error { return ErrCloudDisabled }

func (Disabled) Load(context.Context, int64) (*models.CloudRecord, bool, error) {
	return nil, false, nil
}

func (Disabled) Leaderboard(context.Context, int) ([]models.LeaderboardEntry, error) {
	return nil, ErrCloudDisabled
}
