package quiz

import (
	"strings"
	"testing"

	"github.com/sensei-learn/backend/internal/content"
	"github.com/sensei-learn/backend/internal/models"
)

func hasDuplicates(options []string) bool {
	seen := map[string]bool{}
	for _, o := range options {
		key := strings.ToLower(o)
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}

func contains(options []string, want string) bool {
	for _, o := range options {
		if o == want {
			return true
		}
	}
	return false
}

func TestGenerateCountAndOptions(t *testing.T) {
	g := NewSeededGenerator(1)
	pool := KanaCandidates(content.Hiragana, models.ScriptHiragana)

	tests := []struct {
		count int
		want  int
	}{
		{0, 0},
		{5, 5},
		{46, 46},
		{100, 46},
	}
	for _, tt := range tests {
		qs := g.Generate(pool, tt.count, models.QuestionRecognition, nil)
		if len(qs) != tt.want {
			t.Errorf("Generate(count=%d) returned %d questions, want %d", tt.count, len(qs), tt.want)
		}
		ids := map[string]bool{}
		prompts := map[string]bool{}
		for _, q := range qs {
			if ids[q.ID] {
				t.Errorf("duplicate question id %s", q.ID)
			}
			ids[q.ID] = true
			if prompts[q.Character] {
				t.Errorf("character %s asked twice", q.Character)
			}
			prompts[q.Character] = true
			if len(q.Options) != OptionCount {
				t.Errorf("%s has %d options, want %d", q.Character, len(q.Options), OptionCount)
			}
			if !contains(q.Options, q.CorrectAnswer) {
				t.Errorf("%s options %v miss answer %s", q.Character, q.Options, q.CorrectAnswer)
			}
			if hasDuplicates(q.Options) {
				t.Errorf("%s options %v repeat", q.Character, q.Options)
			}
		}
	}
}

func TestGenerateSmallPoolUsesFallback(t *testing.T) {
	g := NewSeededGenerator(2)
	kana := content.Hiragana[:2]

	qs := g.KanaQuestions(kana, models.ScriptHiragana, 10, "")
	if len(qs) != 2 {
		t.Fatalf("got %d questions, want 2", len(qs))
	}
	for _, q := range qs {
		if q.Type != models.QuestionRecognition {
			t.Errorf("type = %s, want recognition", q.Type)
		}
		if len(q.Options) != OptionCount {
			t.Errorf("options = %v, want %d from the fallback table", q.Options, OptionCount)
		}
	}
}

func TestGenerateNeverRepeatsOptions(t *testing.T) {
	g := NewSeededGenerator(3)
	pool := []Candidate{
		{Prompt: "a", Answer: "x"},
		{Prompt: "b", Answer: "X"},
		{Prompt: "c", Answer: "y"},
	}
	qs := g.Generate(pool, 3, models.QuestionRecognition, nil)
	for _, q := range qs {
		if hasDuplicates(q.Options) {
			t.Errorf("%s options %v repeat", q.Character, q.Options)
		}
		if len(q.Options) != 2 {
			t.Errorf("%s has %d options, want 2", q.Character, len(q.Options))
		}
	}
}

func TestKanjiQuestions(t *testing.T) {
	g := NewSeededGenerator(4)

	for _, q := range g.KanjiQuestions(content.Kanjis, 10, models.QuestionReading) {
		k, ok := content.FindKanji(q.Character)
		if !ok {
			t.Fatalf("unknown kanji %s", q.Character)
		}
		if q.CorrectAnswer != k.Reading() {
			t.Errorf("%s answer = %s, want %s", q.Character, q.CorrectAnswer, k.Reading())
		}
		if q.Script != models.ScriptKanji {
			t.Errorf("%s script = %s", q.Character, q.Script)
		}
	}

	for _, q := range g.KanjiQuestions(content.Kanjis, 10, "") {
		if q.Type != models.QuestionMeaning {
			t.Errorf("default type = %s, want meaning", q.Type)
		}
		k, _ := content.FindKanji(q.Character)
		if q.CorrectAnswer != k.Meaning {
			t.Errorf("%s answer = %s, want %s", q.Character, q.CorrectAnswer, k.Meaning)
		}
	}
}

func TestGrammarQuestions(t *testing.T) {
	g := NewSeededGenerator(5)
	qs := g.GrammarQuestions(content.GrammarQuestions(), 50)
	if len(qs) != 18 {
		t.Fatalf("got %d questions, want 18", len(qs))
	}
	for _, q := range qs {
		if q.TopicID == "" {
			t.Errorf("%s has no topic", q.Character)
		}
		if !contains(q.Options, q.CorrectAnswer) {
			t.Errorf("%s options %v miss answer %s", q.Character, q.Options, q.CorrectAnswer)
		}
	}
}

func TestDailyChallenge(t *testing.T) {
	g := NewSeededGenerator(6)
	qs := g.DailyChallenge()
	if len(qs) != 4*DailyPerSection {
		t.Fatalf("got %d questions, want %d", len(qs), 4*DailyPerSection)
	}

	counts := map[string]int{}
	for _, q := range qs {
		if q.Type == models.QuestionGrammar {
			counts["grammar"]++
			continue
		}
		counts[string(q.Script)]++
	}
	for _, section := range []string{"hiragana", "katakana", "kanji", "grammar"} {
		if counts[section] != DailyPerSection {
			t.Errorf("%s questions = %d, want %d", section, counts[section], DailyPerSection)
		}
	}
}
