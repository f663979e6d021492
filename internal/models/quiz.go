package models

type QuizType string

const (
	QuizHiragana   QuizType = "hiragana"
	QuizKatakana   QuizType = "katakana"
	QuizKanji      QuizType = "kanji"
	QuizGrammar    QuizType = "grammar"
	QuizVocabulary QuizType = "vocabulary"
	QuizDaily      QuizType = "daily"
)

var ValidQuizTypes = map[QuizType]bool{
	QuizHiragana:   true,
	QuizKatakana:   true,
	QuizKanji:      true,
	QuizGrammar:    true,
	QuizVocabulary: true,
	QuizDaily:      true,
}

type QuestionType string

const (
	QuestionRecognition QuestionType = "recognition"
	QuestionTyping      QuestionType = "typing"
	QuestionMeaning     QuestionType = "meaning"
	QuestionReading     QuestionType = "reading"
	QuestionGrammar     QuestionType = "grammar"
	QuestionVocabulary  QuestionType = "vocabulary"
)

// QuizQuestion is immutable once generated, apart from the answer
// annotation which is filled exactly once.
type QuizQuestion struct {
	ID            string       `json:"id"`
	Type          QuestionType `json:"type"`
	Script        ScriptType   `json:"script,omitempty"`
	TopicID       string       `json:"topic_id,omitempty"`
	Character     string       `json:"character,omitempty"`
	Romaji        string       `json:"romaji,omitempty"`
	Meaning       string       `json:"meaning,omitempty"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correct_answer"`
	UserAnswer    *string      `json:"user_answer,omitempty"`
	IsCorrect     *bool        `json:"is_correct,omitempty"`
	TimeSpent     *float64     `json:"time_spent,omitempty"`
}

// ── Request Types ─────────────────────────────────────────

// StartQuizRequest selects the question pool. Characters narrows a kana or
// kanji quiz, Topics a grammar quiz and JLPT a vocabulary quiz. A zero
// TimerSeconds falls back to the learner's quiz interval; a negative one
// disables the countdown.
type StartQuizRequest struct {
	Type         QuizType     `json:"type"`
	QuestionType QuestionType `json:"question_type,omitempty"`
	Count        int          `json:"count"`
	Characters   []string     `json:"characters,omitempty"`
	Topics       []string     `json:"topics,omitempty"`
	JLPT         string       `json:"jlpt,omitempty"`
	TimerSeconds float64      `json:"timer_seconds,omitempty"`
}

type AnswerRequest struct {
	Answer    string  `json:"answer"`
	TimeSpent float64 `json:"time_spent"`
}

// ── Response Types ────────────────────────────────────────

// QuestionView is a question as shown before it is answered.
type QuestionView struct {
	ID        string       `json:"id"`
	Type      QuestionType `json:"type"`
	Character string       `json:"character,omitempty"`
	Meaning   string       `json:"meaning,omitempty"`
	Options   []string     `json:"options"`
}

type QuizStateResponse struct {
	SessionID      string        `json:"session_id"`
	QuizType       QuizType      `json:"quiz_type"`
	State          string        `json:"state"`
	CurrentIndex   int           `json:"current_index"`
	TotalQuestions int           `json:"total_questions"`
	Score          int           `json:"score"`
	XPEarned       int           `json:"xp_earned"`
	TimerSeconds   float64       `json:"timer_seconds"`
	Question       *QuestionView `json:"question,omitempty"`
}

type AnswerResponse struct {
	Correct       bool    `json:"correct"`
	CorrectAnswer string  `json:"correct_answer"`
	XPAwarded     int     `json:"xp_awarded"`
	Score         int     `json:"score"`
	TimeSpent     float64 `json:"time_spent"`
	SpeedAnswer   bool    `json:"speed_answer"`
}

type QuizSummary struct {
	QuizType             QuizType       `json:"quiz_type"`
	Score                int            `json:"score"`
	TotalQuestions       int            `json:"total_questions"`
	Accuracy             int            `json:"accuracy"`
	XPEarned             int            `json:"xp_earned"`
	Perfect              bool           `json:"perfect"`
	WeakCharacters       []string       `json:"weak_characters"`
	Answered             []QuizQuestion `json:"answered"`
	AchievementsUnlocked []string       `json:"achievements_unlocked"`
}

type NextResponse struct {
	Complete bool               `json:"complete"`
	State    *QuizStateResponse `json:"state,omitempty"`
	Summary  *QuizSummary       `json:"summary,omitempty"`
}
