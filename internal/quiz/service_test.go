package quiz

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sensei-learn/backend/internal/models"
	"github.com/sensei-learn/backend/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var serviceNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *progress.Service) {
	t.Helper()
	store, err := progress.OpenLocalStore(filepath.Join(t.TempDir(), "sensei.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	profiles := progress.NewService(store, nil, nil)
	profiles.SetClock(func() time.Time { return serviceNow })

	svc := NewService(NewSeededGenerator(42), NewManager(time.Hour), profiles)
	svc.SetClock(func() time.Time { return serviceNow })
	return svc, profiles
}

// currentAnswer peeks at the answer of the question in play.
func currentAnswer(t *testing.T, svc *Service, userID int64) string {
	t.Helper()
	var answer string
	require.NoError(t, svc.sessions.With(userID, false, func(s *Session) error {
		q := s.Current()
		require.NotNil(t, q)
		answer = q.CorrectAnswer
		return nil
	}))
	return answer
}

func TestStartValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	tests := []struct {
		name string
		req  models.StartQuizRequest
	}{
		{"unknown type", models.StartQuizRequest{Type: "music"}},
		{"too few characters", models.StartQuizRequest{Type: models.QuizHiragana, Characters: []string{"あ", "い", "う"}}},
		{"unknown kana", models.StartQuizRequest{Type: models.QuizKatakana, Characters: []string{"ア", "イ", "ウ", "あ"}}},
		{"unknown kanji", models.StartQuizRequest{Type: models.QuizKanji, Characters: []string{"日", "月", "火", "龍"}}},
		{"unknown topic", models.StartQuizRequest{Type: models.QuizGrammar, Topics: []string{"keigo"}}},
		{"bad jlpt", models.StartQuizRequest{Type: models.QuizVocabulary, JLPT: "N6"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Start(ctx, 1, tt.req)
			var verr *ValidationError
			assert.True(t, errors.As(err, &verr), "got %v", err)
		})
	}

	_, err := svc.Start(ctx, 1, models.StartQuizRequest{Type: models.QuizHiragana, Characters: []string{"あ"}})
	assert.EqualError(t, err, "select at least 4 characters to quiz")
}

func TestStartCountsDistinctCharacters(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	tests := []struct {
		name    string
		req     models.StartQuizRequest
		wantErr bool
	}{
		{"repeated kana", models.StartQuizRequest{Type: models.QuizHiragana, Characters: []string{"あ", "あ", "あ", "あ"}}, true},
		{"repeated kanji", models.StartQuizRequest{Type: models.QuizKanji, Characters: []string{"日", "月", "日", "月", "火"}}, true},
		{"four distinct with repeats", models.StartQuizRequest{Type: models.QuizHiragana, Characters: []string{"あ", "い", "あ", "う", "え"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Start(ctx, 1, tt.req)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrTooFewCharacters)
				return
			}
			require.NoError(t, err)
			require.NoError(t, svc.Discard(1))
		})
	}
}

func TestPerfectQuizUpdatesProfile(t *testing.T) {
	ctx := context.Background()
	svc, profiles := newTestService(t)

	view, err := svc.Start(ctx, 1, models.StartQuizRequest{
		Type:         models.QuizHiragana,
		Characters:   []string{"あ", "い", "う", "え"},
		Count:        4,
		TimerSeconds: -1,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, view.TotalQuestions)
	assert.Equal(t, float64(0), view.TimerSeconds)

	_, err = svc.Start(ctx, 1, models.StartQuizRequest{Type: models.QuizKanji})
	assert.ErrorIs(t, err, ErrAlreadyActive)

	var summary *models.QuizSummary
	for i := 0; i < 4; i++ {
		resp, err := svc.Answer(ctx, 1, models.AnswerRequest{Answer: currentAnswer(t, svc, 1), TimeSpent: 5})
		require.NoError(t, err)
		assert.True(t, resp.Correct)
		assert.Equal(t, 10, resp.XPAwarded)
		assert.False(t, resp.SpeedAnswer)

		next, err := svc.Next(ctx, 1)
		require.NoError(t, err)
		if i < 3 {
			require.False(t, next.Complete)
			continue
		}
		require.True(t, next.Complete)
		summary = next.Summary
	}

	require.NotNil(t, summary)
	assert.True(t, summary.Perfect)
	assert.Equal(t, 40, summary.XPEarned)
	assert.ElementsMatch(t, []string{"first-steps", "perfect-quiz"}, summary.AchievementsUnlocked)

	p, err := profiles.Profile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, p.TotalQuizzes)
	assert.Equal(t, 1, p.PerfectQuizzes)
	assert.Equal(t, 1, p.Streak)
	assert.Equal(t, 40+50+100, p.XP)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 1, p.CharacterProgress["hiragana-あ"].TimesCorrect)
	assert.Len(t, p.CharacterProgress, 4)

	// a finished quiz can be replaced
	_, err = svc.Start(ctx, 1, models.StartQuizRequest{Type: models.QuizKanji, TimerSeconds: -1})
	assert.NoError(t, err)
}

func TestWrongAndSpeedAnswers(t *testing.T) {
	ctx := context.Background()
	svc, profiles := newTestService(t)

	_, err := svc.Start(ctx, 2, models.StartQuizRequest{Type: models.QuizGrammar, Count: 2, TimerSeconds: -1})
	require.NoError(t, err)

	resp, err := svc.Answer(ctx, 2, models.AnswerRequest{Answer: currentAnswer(t, svc, 2), TimeSpent: 1.2})
	require.NoError(t, err)
	assert.True(t, resp.SpeedAnswer)

	_, err = svc.Next(ctx, 2)
	require.NoError(t, err)
	resp, err = svc.Answer(ctx, 2, models.AnswerRequest{Answer: "nope", TimeSpent: 1})
	require.NoError(t, err)
	assert.False(t, resp.Correct)
	assert.False(t, resp.SpeedAnswer)

	p, err := profiles.Profile(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, p.SpeedAnswers)
	assert.Equal(t, 10, p.XP)
	practiced := 0
	for _, g := range p.GrammarProgress {
		practiced += g.TimesPracticed
	}
	assert.Equal(t, 2, practiced)
	assert.Empty(t, p.CharacterProgress)
}

func TestDiscardKeepsXP(t *testing.T) {
	ctx := context.Background()
	svc, profiles := newTestService(t)

	_, err := svc.Start(ctx, 3, models.StartQuizRequest{Type: models.QuizKanji, Count: 3, TimerSeconds: -1})
	require.NoError(t, err)
	_, err = svc.Answer(ctx, 3, models.AnswerRequest{Answer: currentAnswer(t, svc, 3), TimeSpent: 4})
	require.NoError(t, err)

	require.NoError(t, svc.Discard(3))
	_, err = svc.Current(3)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.ErrorIs(t, svc.Discard(3), ErrNoSession)

	p, err := profiles.Profile(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 10, p.XP)
	assert.Equal(t, 0, p.TotalQuizzes)
}

func TestDailyChallengeOncePerDay(t *testing.T) {
	ctx := context.Background()
	svc, profiles := newTestService(t)

	view, err := svc.Start(ctx, 4, models.StartQuizRequest{Type: models.QuizDaily, TimerSeconds: -1})
	require.NoError(t, err)
	assert.Equal(t, 20, view.TotalQuestions)

	resp, err := svc.Answer(ctx, 4, models.AnswerRequest{Answer: currentAnswer(t, svc, 4), TimeSpent: 3})
	require.NoError(t, err)
	assert.Equal(t, 15, resp.XPAwarded)

	summary, err := svc.End(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Score)

	p, err := profiles.Profile(ctx, 4)
	require.NoError(t, err)
	assert.True(t, progress.DailyChallengeDone(p, serviceNow))

	_, err = svc.Start(ctx, 4, models.StartQuizRequest{Type: models.QuizDaily})
	assert.ErrorIs(t, err, ErrDailyDone)
}

func TestTimerDefaultsToQuizInterval(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	view, err := svc.Start(ctx, 5, models.StartQuizRequest{Type: models.QuizGrammar})
	require.NoError(t, err)
	assert.Equal(t, float64(5), view.TimerSeconds)
	require.NoError(t, svc.Discard(5))

	view, err = svc.Start(ctx, 5, models.StartQuizRequest{Type: models.QuizHiragana, TimerSeconds: 8})
	require.NoError(t, err)
	assert.Equal(t, float64(8), view.TimerSeconds)
	require.NoError(t, svc.Discard(5))
}
