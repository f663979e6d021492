package models

// LearnerStats is what the client sends to ask for coach advice.
type LearnerStats struct {
	Level            int      `json:"level"`
	XP               int      `json:"xp"`
	Streak           int      `json:"streak"`
	HiraganaProgress int      `json:"hiraganaProgress"`
	KatakanaProgress int      `json:"katakanaProgress"`
	KanjiProgress    int      `json:"kanjiProgress"`
	GrammarProgress  int      `json:"grammarProgress"`
	WeakCharacters   []string `json:"weakCharacters"`
	RecentAccuracy   int      `json:"recentAccuracy"`
}

type CoachAdvice struct {
	Greeting          string   `json:"greeting"`
	Analysis          string   `json:"analysis"`
	Recommendations   []string `json:"recommendations"`
	MotivationalQuote string   `json:"motivationalQuote"`
}

type ChatContext struct {
	Level            int `json:"level"`
	HiraganaProgress int `json:"hiraganaProgress"`
	KatakanaProgress int `json:"katakanaProgress"`
	KanjiProgress    int `json:"kanjiProgress"`
}

type ChatRequest struct {
	Message string       `json:"message"`
	Context *ChatContext `json:"context,omitempty"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

type ExplainRequest struct {
	Character string     `json:"character"`
	Type      ScriptType `json:"type"`
}

type ExplainResponse struct {
	Explanation string `json:"explanation"`
}
