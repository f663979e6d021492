package models

import "time"

// ── Scripts ───────────────────────────────────────────────

type ScriptType string

const (
	ScriptHiragana ScriptType = "hiragana"
	ScriptKatakana ScriptType = "katakana"
	ScriptKanji    ScriptType = "kanji"
)

var ValidScripts = map[ScriptType]bool{
	ScriptHiragana: true,
	ScriptKatakana: true,
	ScriptKanji:    true,
}

// ── Profile ───────────────────────────────────────────────

type UserSettings struct {
	QuizInterval float64 `json:"quiz_interval"` // seconds per question
	SoundEnabled bool    `json:"sound_enabled"`
	ShowRomaji   bool    `json:"show_romaji"`
	Theme        string  `json:"theme"`
}

func DefaultSettings() UserSettings {
	return UserSettings{
		QuizInterval: 3,
		SoundEnabled: true,
		ShowRomaji:   true,
		Theme:        "dark",
	}
}

type CharacterProgress struct {
	Character     string     `json:"character"`
	Type          ScriptType `json:"type"`
	TimesSeen     int        `json:"times_seen"`
	TimesCorrect  int        `json:"times_correct"`
	Accuracy      int        `json:"accuracy"`
	Mastered      bool       `json:"mastered"`
	IsWeak        bool       `json:"is_weak"`
	LastPracticed time.Time  `json:"last_practiced"`
}

type GrammarTopicProgress struct {
	TopicID        string    `json:"topic_id"`
	TimesPracticed int       `json:"times_practiced"`
	TimesCorrect   int       `json:"times_correct"`
	Accuracy       int       `json:"accuracy"`
	Mastered       bool      `json:"mastered"`
	LastPracticed  time.Time `json:"last_practiced"`
}

// UserProfile is the full learner state. Level is derived from XP and is
// rewritten whenever XP changes.
type UserProfile struct {
	UserID                  int64                           `json:"user_id"`
	Username                string                          `json:"username"`
	XP                      int                             `json:"xp"`
	Level                   int                             `json:"level"`
	Streak                  int                             `json:"streak"`
	LastActiveDate          string                          `json:"last_active_date,omitempty"`
	Settings                UserSettings                    `json:"settings"`
	CharacterProgress       map[string]CharacterProgress    `json:"character_progress"`
	GrammarProgress         map[string]GrammarTopicProgress `json:"grammar_progress"`
	UnlockedAchievements    []string                        `json:"unlocked_achievements"`
	DailyChallengeCompleted bool                            `json:"daily_challenge_completed"`
	DailyChallengeDate      string                          `json:"daily_challenge_date,omitempty"`
	TotalQuizzes            int                             `json:"total_quizzes"`
	PerfectQuizzes          int                             `json:"perfect_quizzes"`
	SpeedAnswers            int                             `json:"speed_answers"`
}

// NewUserProfile returns the state of a first-time learner.
func NewUserProfile(userID int64) *UserProfile {
	return &UserProfile{
		UserID:               userID,
		Username:             "Guest",
		Level:                1,
		Settings:             DefaultSettings(),
		CharacterProgress:    make(map[string]CharacterProgress),
		GrammarProgress:      make(map[string]GrammarTopicProgress),
		UnlockedAchievements: []string{},
	}
}

// Clone returns a deep copy safe to hand to another goroutine.
func (p *UserProfile) Clone() *UserProfile {
	c := *p
	c.CharacterProgress = make(map[string]CharacterProgress, len(p.CharacterProgress))
	for k, v := range p.CharacterProgress {
		c.CharacterProgress[k] = v
	}
	c.GrammarProgress = make(map[string]GrammarTopicProgress, len(p.GrammarProgress))
	for k, v := range p.GrammarProgress {
		c.GrammarProgress[k] = v
	}
	c.UnlockedAchievements = append([]string{}, p.UnlockedAchievements...)
	return &c
}

// CloudRecord is the flat row mirrored to the remote progress store.
type CloudRecord struct {
	UserID                  int64                           `json:"user_id"`
	XP                      int                             `json:"xp"`
	Level                   int                             `json:"level"`
	Streak                  int                             `json:"streak"`
	LastActiveDate          string                          `json:"last_active_date,omitempty"`
	Username                string                          `json:"username"`
	CharacterProgress       map[string]CharacterProgress    `json:"character_progress"`
	GrammarProgress         map[string]GrammarTopicProgress `json:"grammar_progress"`
	UnlockedAchievements    []string                        `json:"unlocked_achievements"`
	DailyChallengeCompleted bool                            `json:"daily_challenge_completed"`
	DailyChallengeDate      string                          `json:"daily_challenge_date,omitempty"`
	TotalQuizzes            int                             `json:"total_quizzes"`
	PerfectQuizzes          int                             `json:"perfect_quizzes"`
	SpeedAnswers            int                             `json:"speed_answers"`
	Settings                UserSettings                    `json:"settings"`
	UpdatedAt               time.Time                       `json:"updated_at"`
}

// ToCloudRecord snapshots the syncable fields of the profile.
func (p *UserProfile) ToCloudRecord() *CloudRecord {
	c := p.Clone()
	return &CloudRecord{
		UserID:                  c.UserID,
		XP:                      c.XP,
		Level:                   c.Level,
		Streak:                  c.Streak,
		LastActiveDate:          c.LastActiveDate,
		Username:                c.Username,
		CharacterProgress:       c.CharacterProgress,
		GrammarProgress:         c.GrammarProgress,
		UnlockedAchievements:    c.UnlockedAchievements,
		DailyChallengeCompleted: c.DailyChallengeCompleted,
		DailyChallengeDate:      c.DailyChallengeDate,
		TotalQuizzes:            c.TotalQuizzes,
		PerfectQuizzes:          c.PerfectQuizzes,
		SpeedAnswers:            c.SpeedAnswers,
		Settings:                c.Settings,
	}
}

// ── Request Types ─────────────────────────────────────────

type CharacterAttemptRequest struct {
	Character string     `json:"character"`
	Type      ScriptType `json:"type"`
	Correct   bool       `json:"correct"`
}

type GrammarAttemptRequest struct {
	TopicID string `json:"topic_id"`
	Correct bool   `json:"correct"`
}

type MarkCharacterRequest struct {
	Character string     `json:"character"`
	Type      ScriptType `json:"type"`
	Weak      *bool      `json:"weak,omitempty"`
	Mastered  bool       `json:"mastered,omitempty"`
}

// SettingsPatch carries a partial settings update; nil fields are left alone.
type SettingsPatch struct {
	QuizInterval *float64 `json:"quiz_interval,omitempty"`
	SoundEnabled *bool    `json:"sound_enabled,omitempty"`
	ShowRomaji   *bool    `json:"show_romaji,omitempty"`
	Theme        *string  `json:"theme,omitempty"`
}

type SetUsernameRequest struct {
	Username string `json:"username"`
}

// ── Response Types ────────────────────────────────────────

type ProgressResponse struct {
	Profile              *UserProfile `json:"profile"`
	XPForNextLevel       int          `json:"xp_for_next_level"`
	XPProgress           float64      `json:"xp_progress"`
	HiraganaMastered     int          `json:"hiragana_mastered"`
	KatakanaMastered     int          `json:"katakana_mastered"`
	KanjiMastered        int          `json:"kanji_mastered"`
	GrammarMastered      int          `json:"grammar_mastered"`
	DailyChallengeDone   bool         `json:"daily_challenge_done"`
	AchievementsUnlocked []string     `json:"achievements_unlocked,omitempty"`
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	XP       int    `json:"xp"`
	Level    int    `json:"level"`
	Streak   int    `json:"streak"`
}
