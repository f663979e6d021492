package quiz

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sensei-learn/backend/internal/gamification"
	"github.com/sensei-learn/backend/internal/models"
)

type State string

const (
	StateInactive State = "inactive"
	StateActive   State = "active"
	StateAnswered State = "answered"
	StateComplete State = "complete"
)

var (
	ErrNoQuestions   = errors.New("quiz has no questions")
	ErrAlreadyActive = errors.New("a quiz is already in progress")
	ErrNotActive     = errors.New("no question is waiting for an answer")
	ErrNotAnswered   = errors.New("current question has not been answered")
	ErrNoSession     = errors.New("no quiz in progress")
)

// AnswerResult describes one graded answer.
type AnswerResult struct {
	Question models.QuizQuestion
	Correct  bool
	XP       int
}

// Session is one quiz run. It moves Inactive → Active(i) → Answered(i) →
// Active(i+1) or Complete. It does no locking of its own.
type Session struct {
	ID           string
	UserID       int64
	QuizType     models.QuizType
	State        State
	Questions    []models.QuizQuestion
	Index        int
	Score        int
	XPEarned     int
	TimerSeconds float64
	Answered     []models.QuizQuestion
	Unlocked     []string // achievement ids earned during the run

	StartedAt       time.Time
	QuestionStarted time.Time
	LastActivity    time.Time
}

func NewSession(userID int64) *Session {
	return &Session{ID: uuid.NewString(), UserID: userID, State: StateInactive}
}

// Start moves Inactive → Active(0).
func (s *Session) Start(quizType models.QuizType, questions []models.QuizQuestion, timerSeconds float64, now time.Time) error {
	if s.State != StateInactive {
		return ErrAlreadyActive
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	s.QuizType = quizType
	s.Questions = questions
	s.Index = 0
	s.Score = 0
	s.XPEarned = 0
	s.TimerSeconds = timerSeconds
	s.Answered = nil
	s.Unlocked = nil
	s.State = StateActive
	s.StartedAt = now
	s.QuestionStarted = now
	s.LastActivity = now
	return nil
}

// Answer grades the current question (case-insensitive) and moves
// Active → Answered. XP is awarded only for a correct answer.
func (s *Session) Answer(answer string, timeSpent float64, now time.Time) (AnswerResult, error) {
	if s.State != StateActive {
		return AnswerResult{}, ErrNotActive
	}
	q := s.Questions[s.Index]

	correct := strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(q.CorrectAnswer))
	xp := 0
	if correct {
		xp = gamification.QuestionXP(s.QuizType == models.QuizDaily)
		s.Score++
		s.XPEarned += xp
	}

	q.UserAnswer = &answer
	q.IsCorrect = &correct
	q.TimeSpent = &timeSpent
	s.Questions[s.Index] = q
	s.Answered = append(s.Answered, q)
	s.State = StateAnswered
	s.LastActivity = now

	return AnswerResult{Question: q, Correct: correct, XP: xp}, nil
}

// Next moves Answered → Active(i+1), or → Complete after the last question.
// It reports whether the quiz is complete.
func (s *Session) Next(now time.Time) (bool, error) {
	if s.State != StateAnswered {
		return false, ErrNotAnswered
	}
	s.LastActivity = now
	if s.Index+1 >= len(s.Questions) {
		s.State = StateComplete
		return true, nil
	}
	s.Index++
	s.State = StateActive
	s.QuestionStarted = now
	return false, nil
}

// End forces Complete from any running state.
func (s *Session) End(now time.Time) error {
	if s.State == StateInactive {
		return ErrNoSession
	}
	s.State = StateComplete
	s.LastActivity = now
	return nil
}

// Reset discards the run and returns to Inactive.
func (s *Session) Reset() {
	*s = Session{ID: s.ID, UserID: s.UserID, State: StateInactive}
}

// Current returns the question in play, or nil.
func (s *Session) Current() *models.QuizQuestion {
	if s.State != StateActive && s.State != StateAnswered {
		return nil
	}
	q := s.Questions[s.Index]
	return &q
}

// Accuracy is the rounded percentage of answered questions that were correct.
func (s *Session) Accuracy() int {
	correct := 0
	for _, q := range s.Answered {
		if q.IsCorrect != nil && *q.IsCorrect {
			correct++
		}
	}
	return gamification.Percent(correct, len(s.Answered))
}

// WeakCharacters lists the prompts of incorrectly answered character questions.
func (s *Session) WeakCharacters() []string {
	out := []string{}
	for _, q := range s.Answered {
		if q.IsCorrect != nil && !*q.IsCorrect && q.Character != "" && q.Type != models.QuestionGrammar {
			out = append(out, q.Character)
		}
	}
	return out
}

// Summary reports the finished run.
func (s *Session) Summary() *models.QuizSummary {
	accuracy := s.Accuracy()
	return &models.QuizSummary{
		QuizType:             s.QuizType,
		Score:                s.Score,
		TotalQuestions:       len(s.Questions),
		Accuracy:             accuracy,
		XPEarned:             s.XPEarned,
		Perfect:              len(s.Answered) > 0 && accuracy == 100,
		WeakCharacters:       s.WeakCharacters(),
		Answered:             append([]models.QuizQuestion{}, s.Answered...),
		AchievementsUnlocked: append([]string{}, s.Unlocked...),
	}
}

// View returns the client-facing state.
func (s *Session) View() *models.QuizStateResponse {
	resp := &models.QuizStateResponse{
		SessionID:      s.ID,
		QuizType:       s.QuizType,
		State:          string(s.State),
		CurrentIndex:   s.Index,
		TotalQuestions: len(s.Questions),
		Score:          s.Score,
		XPEarned:       s.XPEarned,
		TimerSeconds:   s.TimerSeconds,
	}
	if q := s.Current(); q != nil {
		resp.Question = &models.QuestionView{
			ID:        q.ID,
			Type:      q.Type,
			Character: q.Character,
			Options:   q.Options,
		}
		if q.Type == models.QuestionReading {
			resp.Question.Meaning = q.Meaning
		}
	}
	return resp
}
