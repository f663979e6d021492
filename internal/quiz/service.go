package quiz

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sensei-learn/backend/internal/content"
	"github.com/sensei-learn/backend/internal/gamification"
	"github.com/sensei-learn/backend/internal/models"
	"github.com/sensei-learn/backend/internal/progress"
)

const (
	DefaultCount        = 10
	MaxCount            = 50
	MinCustomCharacters = 4
	// GrammarExtraSeconds is added to the learner's interval for grammar questions.
	GrammarExtraSeconds = 2
)

// ValidationError is a request the learner can fix.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

var (
	ErrTooFewCharacters = &ValidationError{Msg: "select at least 4 characters to quiz"}
	ErrDailyDone        = errors.New("today's daily challenge is already complete")
)

// Progress is the slice of the progress service a quiz needs.
type Progress interface {
	Profile(ctx context.Context, userID int64) (*models.UserProfile, error)
	Update(ctx context.Context, userID int64, fn func(p *models.UserProfile, now time.Time) error) (*models.UserProfile, []string, error)
}

// Service runs quizzes and feeds their results into the learner's profile.
// XP for a correct answer is credited as soon as it is graded and is never
// taken back, even if the quiz is abandoned.
type Service struct {
	gen      *Generator
	sessions *Manager
	progress Progress
	now      func() time.Time
}

func NewService(gen *Generator, sessions *Manager, profiles Progress) *Service {
	s := &Service{gen: gen, sessions: sessions, progress: profiles, now: time.Now}
	sessions.OnExpire(s.expire)
	return s
}

// SetClock replaces the time source used for grading and streaks.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// ── Start ───────────────────────────────────────────────

func (s *Service) Start(ctx context.Context, userID int64, req models.StartQuizRequest) (*models.QuizStateResponse, error) {
	if !models.ValidQuizTypes[req.Type] {
		return nil, invalid("unknown quiz type %q", req.Type)
	}

	profile, err := s.progress.Profile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if req.Type == models.QuizDaily && progress.DailyChallengeDone(profile, s.now()) {
		return nil, ErrDailyDone
	}

	questions, err := s.buildQuestions(req)
	if err != nil {
		return nil, err
	}

	timer := req.TimerSeconds
	switch {
	case timer < 0:
		timer = 0
	case timer == 0:
		timer = profile.Settings.QuizInterval
		if req.Type == models.QuizGrammar {
			timer += GrammarExtraSeconds
		}
	}

	var view *models.QuizStateResponse
	err = s.sessions.With(userID, true, func(sess *Session) error {
		if sess.State == StateComplete {
			sess.Reset()
		}
		if err := sess.Start(req.Type, questions, timer, s.now()); err != nil {
			return err
		}
		view = sess.View()
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[quiz] user %d started %s quiz (%d questions)", userID, req.Type, len(questions))
	return view, nil
}

func (s *Service) buildQuestions(req models.StartQuizRequest) ([]models.QuizQuestion, error) {
	count := req.Count
	if count <= 0 {
		count = DefaultCount
	}
	count = min(count, MaxCount)

	var questions []models.QuizQuestion
	switch req.Type {
	case models.QuizHiragana, models.QuizKatakana:
		script := models.ScriptType(req.Type)
		pool := content.KanaByScript(script, true)
		if len(req.Characters) > 0 {
			chars := uniqueCharacters(req.Characters)
			if len(chars) < MinCustomCharacters {
				return nil, ErrTooFewCharacters
			}
			pool = pool[:0:0]
			for _, c := range chars {
				k, ok := content.FindKana(script, c)
				if !ok {
					return nil, invalid("unknown %s character %q", script, c)
				}
				pool = append(pool, k)
			}
		}
		questions = s.gen.KanaQuestions(pool, script, count, req.QuestionType)

	case models.QuizKanji:
		pool := content.Kanjis
		if len(req.Characters) > 0 {
			chars := uniqueCharacters(req.Characters)
			if len(chars) < MinCustomCharacters {
				return nil, ErrTooFewCharacters
			}
			pool = nil
			for _, c := range chars {
				k, ok := content.FindKanji(c)
				if !ok {
					return nil, invalid("unknown kanji %q", c)
				}
				pool = append(pool, k)
			}
		}
		questions = s.gen.KanjiQuestions(pool, count, req.QuestionType)

	case models.QuizGrammar:
		for _, id := range req.Topics {
			if _, ok := content.GrammarTopicByID(id); !ok {
				return nil, invalid("unknown grammar topic %q", id)
			}
		}
		questions = s.gen.GrammarQuestions(content.GrammarQuestions(req.Topics...), count)

	case models.QuizVocabulary:
		if req.JLPT != "" && !content.ValidJLPT(req.JLPT) {
			return nil, invalid("jlpt must be one of N5, N4, N3, N2, N1")
		}
		questions = s.gen.VocabularyQuestions(content.VocabularyByLevel(req.JLPT), count)

	case models.QuizDaily:
		questions = s.gen.DailyChallenge()
	}

	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return questions, nil
}

// uniqueCharacters drops repeats, keeping first-seen order.
func uniqueCharacters(chars []string) []string {
	seen := make(map[string]bool, len(chars))
	out := make([]string, 0, len(chars))
	for _, c := range chars {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// ── Play ────────────────────────────────────────────────

func (s *Service) Current(userID int64) (*models.QuizStateResponse, error) {
	var view *models.QuizStateResponse
	err := s.sessions.With(userID, false, func(sess *Session) error {
		if sess.State == StateInactive {
			return ErrNoSession
		}
		view = sess.View()
		return nil
	})
	return view, err
}

// Answer grades the current question and records the attempt.
func (s *Service) Answer(ctx context.Context, userID int64, req models.AnswerRequest) (*models.AnswerResponse, error) {
	var resp *models.AnswerResponse
	err := s.sessions.With(userID, false, func(sess *Session) error {
		res, err := sess.Answer(req.Answer, req.TimeSpent, s.now())
		if err != nil {
			return err
		}
		speed := gamification.IsSpeedAnswer(res.Correct, req.TimeSpent)
		s.record(ctx, sess, res, speed)

		resp = &models.AnswerResponse{
			Correct:       res.Correct,
			CorrectAnswer: res.Question.CorrectAnswer,
			XPAwarded:     res.XP,
			Score:         sess.Score,
			TimeSpent:     req.TimeSpent,
			SpeedAnswer:   speed,
		}
		return nil
	})
	return resp, err
}

// expire grades a timed-out question as an empty answer.
func (s *Service) expire(sess *Session) {
	res, err := sess.Answer("", sess.TimerSeconds, s.now())
	if err != nil {
		log.Printf("[quiz] user %d: timeout answer: %v", sess.UserID, err)
		return
	}
	s.record(context.Background(), sess, res, false)
}

// record applies one graded answer to the profile. Failures are logged;
// the session has already moved on.
func (s *Service) record(ctx context.Context, sess *Session, res AnswerResult, speed bool) {
	q := res.Question
	_, unlocked, err := s.progress.Update(ctx, sess.UserID, func(p *models.UserProfile, now time.Time) error {
		progress.AddXP(p, res.XP)
		switch {
		case q.Type == models.QuestionGrammar && q.TopicID != "":
			progress.RecordGrammarAttempt(p, q.TopicID, res.Correct, now)
		case q.Script != "" && q.Character != "":
			progress.RecordCharacterAttempt(p, q.Character, q.Script, res.Correct, now)
		}
		if speed {
			progress.IncrementSpeedAnswers(p)
		}
		return nil
	})
	if err != nil {
		log.Printf("[quiz] user %d: record answer: %v", sess.UserID, err)
		return
	}
	sess.Unlocked = append(sess.Unlocked, unlocked...)
}

// Next advances the quiz. When the last question has been answered the
// quiz is completed and its summary returned.
func (s *Service) Next(ctx context.Context, userID int64) (*models.NextResponse, error) {
	var resp *models.NextResponse
	err := s.sessions.With(userID, false, func(sess *Session) error {
		done, err := sess.Next(s.now())
		if err != nil {
			return err
		}
		if !done {
			resp = &models.NextResponse{State: sess.View()}
			return nil
		}
		resp = &models.NextResponse{Complete: true, Summary: s.finish(ctx, sess)}
		return nil
	})
	return resp, err
}

// End stops the quiz early and completes it with what was answered.
func (s *Service) End(ctx context.Context, userID int64) (*models.QuizSummary, error) {
	var summary *models.QuizSummary
	err := s.sessions.With(userID, false, func(sess *Session) error {
		if sess.State == StateComplete {
			summary = sess.Summary()
			return nil
		}
		if err := sess.End(s.now()); err != nil {
			return err
		}
		summary = s.finish(ctx, sess)
		return nil
	})
	return summary, err
}

// finish credits the completed quiz: quiz count, streak and, for the
// daily challenge, today's completion.
func (s *Service) finish(ctx context.Context, sess *Session) *models.QuizSummary {
	summary := sess.Summary()

	_, unlocked, err := s.progress.Update(ctx, sess.UserID, func(p *models.UserProfile, now time.Time) error {
		progress.IncrementQuizCount(p, summary.Perfect)
		progress.UpdateStreak(p, now)
		if sess.QuizType == models.QuizDaily {
			progress.CompleteDailyChallenge(p, 0, now)
		}
		return nil
	})
	if err != nil {
		log.Printf("[quiz] user %d: finish quiz: %v", sess.UserID, err)
	} else {
		sess.Unlocked = append(sess.Unlocked, unlocked...)
		summary.AchievementsUnlocked = append([]string{}, sess.Unlocked...)
	}

	log.Printf("[quiz] user %d finished %s quiz: %d/%d, %d XP", sess.UserID, sess.QuizType, summary.Score, summary.TotalQuestions, summary.XPEarned)
	return summary
}

// Discard drops the learner's quiz. XP already credited stays.
func (s *Service) Discard(userID int64) error {
	err := s.sessions.With(userID, false, func(sess *Session) error {
		if sess.State == StateInactive {
			return ErrNoSession
		}
		sess.Reset()
		return nil
	})
	if err != nil {
		return err
	}
	s.sessions.Remove(userID)
	return nil
}

// Sweep drops quiz sessions idle for longer than the manager's ttl.
func (s *Service) Sweep() int {
	return s.sessions.Sweep(time.Now())
}
