package coach

import (
	"fmt"
	"strings"

	"github.com/sensei-learn/backend/internal/models"
)

// Result is what every coach call hands back. The value is always usable;
// Fallback reports that it came from the canned replies, and Cause says
// why when an upstream call failed.
type Result[T any] struct {
	Value    T
	Fallback bool
	Cause    error
}

func fresh[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func fallback[T any](v T, cause error) Result[T] {
	return Result[T]{Value: v, Fallback: true, Cause: cause}
}

const defaultQuote = "七転び八起き (Nana korobi ya oki) - Fall seven times, stand up eight."

// DefaultAdvice builds rule-based advice from the learner's numbers.
func DefaultAdvice(stats models.LearnerStats) models.CoachAdvice {
	level := stats.Level
	if level < 1 {
		level = 1
	}

	var recs []string
	if stats.HiraganaProgress < hiraganaTotal {
		recs = append(recs, "Continue practicing Hiragana - you're making great progress!")
	}
	if stats.KatakanaProgress < 20 {
		recs = append(recs, "Start learning Katakana to expand your reading ability.")
	}
	if len(stats.WeakCharacters) > 0 {
		weak := stats.WeakCharacters
		if len(weak) > 5 {
			weak = weak[:5]
		}
		recs = append(recs, "Focus on your weak characters: "+strings.Join(weak, ", "))
	}
	if len(recs) < 3 {
		recs = append(recs, "Complete the Daily Challenge for bonus XP!")
	}
	if len(recs) > 3 {
		recs = recs[:3]
	}

	greeting := "Welcome back to your Japanese learning journey!"
	if stats.Streak >= 3 {
		greeting = fmt.Sprintf("Great job maintaining your %d day streak!", stats.Streak)
	}

	tail := "Keep up the excellent work!"
	if len(stats.WeakCharacters) > 0 {
		tail = "Some characters need extra practice."
	}

	return models.CoachAdvice{
		Greeting: greeting,
		Analysis: fmt.Sprintf("You're at Level %d with %d/%d Hiragana and %d/%d Katakana mastered. %s",
			level, stats.HiraganaProgress, hiraganaTotal, stats.KatakanaProgress, katakanaTotal, tail),
		Recommendations:   recs,
		MotivationalQuote: defaultQuote,
	}
}

func DefaultChatReply() string {
	return "Sorry, I'm having trouble connecting to my AI brain right now. Please try again in a moment!"
}

func UnconfiguredChatReply() string {
	return "AI is not configured. Please set up the GEMINI_API_KEY environment variable."
}

func DefaultExplanation() string {
	return "Unable to explain this character right now. Please try again later."
}

func UnconfiguredExplanation() string {
	return "AI explanation not available. Please configure the Gemini API key."
}

const emptyExplanation = "Unable to explain this character right now."
