package content

import (
	"testing"

	"github.com/sensei-learn/backend/internal/models"
)

func TestKanaTables(t *testing.T) {
	tests := []struct {
		name string
		got  []Kana
		want int
	}{
		{"hiragana", Hiragana, 46},
		{"hiragana dakuten", HiraganaDakuten, 25},
		{"katakana", Katakana, 46},
		{"katakana dakuten", KatakanaDakuten, 25},
	}
	for _, tt := range tests {
		if len(tt.got) != tt.want {
			t.Errorf("len(%s) = %d, want %d", tt.name, len(tt.got), tt.want)
		}
	}
}

func TestKatakanaMirrorsHiragana(t *testing.T) {
	pairs := map[string]string{"あ": "ア", "し": "シ", "を": "ヲ", "ん": "ン", "ぽ": "ポ", "ぢ": "ヂ"}
	for hira, kata := range pairs {
		h, ok := FindKana(models.ScriptHiragana, hira)
		if !ok {
			t.Fatalf("FindKana(hiragana, %s) not found", hira)
		}
		k, ok := FindKana(models.ScriptKatakana, kata)
		if !ok {
			t.Fatalf("FindKana(katakana, %s) not found", kata)
		}
		if h.Romaji != k.Romaji {
			t.Errorf("%s=%s but %s=%s", hira, h.Romaji, kata, k.Romaji)
		}
	}
}

func TestKanaByScript(t *testing.T) {
	if n := len(KanaByScript(models.ScriptHiragana, true)); n != 71 {
		t.Errorf("hiragana with dakuten = %d, want 71", n)
	}
	if KanaByScript(models.ScriptKanji, true) != nil {
		t.Error("kanji is not a kana script")
	}
}

func TestKanji(t *testing.T) {
	if len(Kanjis) < 30 {
		t.Errorf("len(Kanjis) = %d, want at least 30", len(Kanjis))
	}
	meanings := map[string]bool{}
	for _, k := range Kanjis {
		if k.Reading() == "" {
			t.Errorf("%s has no reading", k.Character)
		}
		if meanings[k.Meaning] {
			t.Errorf("duplicate meaning %q", k.Meaning)
		}
		meanings[k.Meaning] = true
	}
	if k, _ := FindKanji("百"); k.Reading() != "ひゃく" {
		t.Errorf("百 reading = %q, want on'yomi fallback", k.Reading())
	}
}

func TestGrammarTopics(t *testing.T) {
	if len(GrammarTopics) != 9 {
		t.Fatalf("len(GrammarTopics) = %d, want 9", len(GrammarTopics))
	}
	for _, topic := range GrammarTopics {
		if len(topic.Questions) != 2 {
			t.Errorf("%s has %d questions, want 2", topic.ID, len(topic.Questions))
		}
		for _, q := range topic.Questions {
			if q.TopicID != topic.ID {
				t.Errorf("%s topic id = %q", q.ID, q.TopicID)
			}
			if q.CorrectAnswer == "" {
				t.Errorf("%s has no answer", q.ID)
			}
		}
	}
	if _, ok := GrammarTopicByID("particle-wa"); !ok {
		t.Error("particle-wa missing")
	}
	if n := len(GrammarQuestions("particle-wa", "negative")); n != 4 {
		t.Errorf("GrammarQuestions(2 topics) = %d, want 4", n)
	}
	if n := len(GrammarQuestions()); n != 18 {
		t.Errorf("GrammarQuestions() = %d, want 18", n)
	}
}

func TestVocabulary(t *testing.T) {
	n5 := VocabularyByLevel("N5")
	if len(n5) == 0 {
		t.Fatal("no N5 vocabulary")
	}
	for _, w := range n5 {
		if w.JLPT != "N5" {
			t.Fatalf("%s tagged %s", w.ID, w.JLPT)
		}
	}
	if len(VocabularyByLevel("")) != len(Vocabulary) {
		t.Error("empty level should return everything")
	}
	cats := Categories("N5")
	if len(cats) == 0 || cats[0] > cats[len(cats)-1] {
		t.Errorf("Categories(N5) = %v", cats)
	}
}
