package coach

import (
	"fmt"
	"strings"

	"github.com/sensei-learn/backend/internal/content"
	"github.com/sensei-learn/backend/internal/models"
)

// Content sizes quoted to the model, taken from the learnable tables.
var (
	hiraganaTotal = len(content.KanaByScript(models.ScriptHiragana, false))
	katakanaTotal = len(content.KanaByScript(models.ScriptKatakana, false))
	kanjiTotal    = len(content.Kanjis)
	grammarTotal  = len(content.GrammarTopics)
)

var (
	adviceTuning  = Tuning{MaxTokens: 500, Temperature: 0.7}
	chatTuning    = Tuning{MaxTokens: 500, Temperature: 0.7}
	explainTuning = Tuning{MaxTokens: 200, Temperature: 0.7}
)

func AdviceSystemPrompt() string {
	return `You are a friendly Japanese language learning coach (Sensei). Based on the student's progress, provide personalized advice in JSON format.

Respond ONLY with valid JSON in this exact format:
{
  "greeting": "A warm, personalized greeting based on their progress (1 sentence)",
  "analysis": "Brief analysis of their current learning status (2-3 sentences)",
  "recommendations": ["recommendation 1", "recommendation 2", "recommendation 3"],
  "motivationalQuote": "A short motivational Japanese proverb or saying with English translation"
}`
}

func BuildAdviceUserPrompt(stats models.LearnerStats) string {
	weak := "None"
	if len(stats.WeakCharacters) > 0 {
		weak = strings.Join(stats.WeakCharacters, ", ")
	}

	var b strings.Builder
	b.WriteString("Student's current stats:\n")
	fmt.Fprintf(&b, "- Level: %d\n", stats.Level)
	fmt.Fprintf(&b, "- XP: %d\n", stats.XP)
	fmt.Fprintf(&b, "- Current streak: %d days\n", stats.Streak)
	fmt.Fprintf(&b, "- Hiragana mastered: %d/%d\n", stats.HiraganaProgress, hiraganaTotal)
	fmt.Fprintf(&b, "- Katakana mastered: %d/%d\n", stats.KatakanaProgress, katakanaTotal)
	fmt.Fprintf(&b, "- Kanji learned: %d/%d\n", stats.KanjiProgress, kanjiTotal)
	fmt.Fprintf(&b, "- Grammar topics mastered: %d/%d\n", stats.GrammarProgress, grammarTotal)
	fmt.Fprintf(&b, "- Characters struggling with: %s\n", weak)
	fmt.Fprintf(&b, "- Recent quiz accuracy: %d%%", stats.RecentAccuracy)
	return b.String()
}

func ChatSystemPrompt() string {
	return `You are Sensei, a friendly and knowledgeable Japanese language tutor. Your job is to DIRECTLY answer any question the student asks about Japanese.

RULES:
1. ALWAYS answer the question directly. Never deflect or redirect.
2. If they ask "what is [word] in Japanese" - immediately give them: the Japanese word in kanji/hiragana, the romaji pronunciation, and a brief explanation.
3. If they ask about grammar - explain it with clear examples using Japanese text and romaji.
4. If they ask about a character - tell them the pronunciation and a memorable way to remember it.
5. Be conversational and helpful. Keep responses 2-4 sentences.
6. Always include Japanese characters with romaji readings.

Examples of good responses:
- Q: "What is car in Japanese?" A: "Car in Japanese is 車 (kuruma). It's written with the kanji 車 which literally means 'vehicle'. You'll hear this word a lot in everyday Japanese!"
- Q: "How do I say hello?" A: "Hello in Japanese is こんにちは (konnichiwa). It's used during daytime. In the morning, use おはようございます (ohayou gozaimasu), and in the evening, use こんばんは (konbanwa)."`
}

// BuildChatUserPrompt wraps the learner's question. When the client sends
// its progress the reply can be pitched at the right level.
func BuildChatUserPrompt(message string, ctx *models.ChatContext) string {
	var b strings.Builder
	if ctx != nil {
		fmt.Fprintf(&b, "(Student is level %d with %d/%d hiragana, %d/%d katakana and %d/%d kanji.)\n\n",
			ctx.Level, ctx.HiraganaProgress, hiraganaTotal, ctx.KatakanaProgress, katakanaTotal,
			ctx.KanjiProgress, kanjiTotal)
	}
	fmt.Fprintf(&b, "Student asks: %q\n\nNow answer the student's question:", message)
	return b.String()
}

func BuildExplainPrompt(character string, kind models.ScriptType) string {
	if kind == "" {
		kind = "kana"
	}
	return fmt.Sprintf(`Explain the Japanese %s character "%s" in a friendly, educational way. Include:
1. Its pronunciation/reading
2. A memorable way to remember it
3. Common words that use it (if applicable)
Keep the response under 100 words.`, kind, character)
}
