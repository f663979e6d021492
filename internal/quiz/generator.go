package quiz

import (
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sensei-learn/backend/internal/content"
	"github.com/sensei-learn/backend/internal/models"
)

// OptionCount is the number of options a full question carries.
const OptionCount = 4

// Candidate is one learnable item a question can be built from.
type Candidate struct {
	Prompt  string // shown to the learner
	Answer  string
	Script  models.ScriptType
	TopicID string
	Romaji  string
	Meaning string
	Options []string // fixed options; distractors are drawn when empty
}

// Generator builds multiple-choice questions. Safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewGenerator() *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededGenerator returns a deterministic generator for tests.
func NewSeededGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed))}
}

func (g *Generator) shuffle(n int, swap func(i, j int)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rng.Shuffle(n, swap)
}

// Generate returns min(count, len(pool)) questions over distinct pool items.
// Distractors come from pool items whose answer differs from the correct one,
// distinct by answer; fallback tops them up when the pool runs short. A
// question never repeats an option, so a tiny pool yields fewer options.
func (g *Generator) Generate(pool []Candidate, count int, qtype models.QuestionType, fallback []Candidate) []models.QuizQuestion {
	if count <= 0 || len(pool) == 0 {
		return []models.QuizQuestion{}
	}

	picked := append([]Candidate{}, pool...)
	g.shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	picked = picked[:min(count, len(picked))]

	out := make([]models.QuizQuestion, 0, len(picked))
	for _, c := range picked {
		var options []string
		if len(c.Options) > 0 {
			options = dedupe(append(append([]string{}, c.Options...), c.Answer))
		} else {
			options = append(g.distractors(c.Answer, pool, fallback), c.Answer)
		}
		g.shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

		out = append(out, models.QuizQuestion{
			ID:            uuid.NewString(),
			Type:          qtype,
			Script:        c.Script,
			TopicID:       c.TopicID,
			Character:     c.Prompt,
			Romaji:        c.Romaji,
			Meaning:       c.Meaning,
			Options:       options,
			CorrectAnswer: c.Answer,
		})
	}
	return out
}

func (g *Generator) distractors(answer string, pool, fallback []Candidate) []string {
	seen := map[string]bool{strings.ToLower(answer): true}
	var out []string

	draw := func(from []Candidate) {
		candidates := uniqueAnswers(from)
		g.shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
		for _, a := range candidates {
			if len(out) == OptionCount-1 {
				return
			}
			key := strings.ToLower(a)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, a)
		}
	}

	draw(pool)
	if len(out) < OptionCount-1 {
		draw(fallback)
	}
	return out
}

func uniqueAnswers(cs []Candidate) []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range cs {
		if c.Answer == "" || seen[c.Answer] {
			continue
		}
		seen[c.Answer] = true
		out = append(out, c.Answer)
	}
	return out
}

func dedupe(options []string) []string {
	seen := map[string]bool{}
	out := options[:0]
	for _, o := range options {
		if seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	return out
}

// ── Builders ────────────────────────────────────────────

// KanaCandidates turns kana into recognition candidates (character → romaji).
func KanaCandidates(kana []content.Kana, script models.ScriptType) []Candidate {
	out := make([]Candidate, 0, len(kana))
	for _, k := range kana {
		out = append(out, Candidate{Prompt: k.Character, Answer: k.Romaji, Script: script, Romaji: k.Romaji})
	}
	return out
}

// KanaQuestions draws count questions from kana; the full script table is
// the distractor fallback.
func (g *Generator) KanaQuestions(kana []content.Kana, script models.ScriptType, count int, qtype models.QuestionType) []models.QuizQuestion {
	if qtype == "" {
		qtype = models.QuestionRecognition
	}
	fallback := KanaCandidates(content.KanaByScript(script, true), script)
	return g.Generate(KanaCandidates(kana, script), count, qtype, fallback)
}

// KanjiQuestions asks for the meaning or the reading of each kanji.
func (g *Generator) KanjiQuestions(kanji []content.Kanji, count int, qtype models.QuestionType) []models.QuizQuestion {
	if qtype != models.QuestionReading {
		qtype = models.QuestionMeaning
	}
	toCandidates := func(ks []content.Kanji) []Candidate {
		out := make([]Candidate, 0, len(ks))
		for _, k := range ks {
			c := Candidate{Prompt: k.Character, Script: models.ScriptKanji, Meaning: k.Meaning}
			if qtype == models.QuestionReading {
				c.Answer = k.Reading()
				c.Romaji = k.Reading()
			} else {
				c.Answer = k.Meaning
			}
			out = append(out, c)
		}
		return out
	}
	return g.Generate(toCandidates(kanji), count, qtype, toCandidates(content.Kanjis))
}

// GrammarQuestions keeps each question's own options. Fill-in-the-blank
// questions draw distractors from the other grammar answers.
func (g *Generator) GrammarQuestions(questions []content.GrammarQuestion, count int) []models.QuizQuestion {
	toCandidates := func(qs []content.GrammarQuestion) []Candidate {
		out := make([]Candidate, 0, len(qs))
		for _, q := range qs {
			out = append(out, Candidate{
				Prompt:  q.Question,
				Answer:  q.CorrectAnswer,
				TopicID: q.TopicID,
				Meaning: q.Explanation,
				Options: q.Options,
			})
		}
		return out
	}
	return g.Generate(toCandidates(questions), count, models.QuestionGrammar, toCandidates(content.GrammarQuestions()))
}

// VocabularyQuestions asks for the meaning of each word.
func (g *Generator) VocabularyQuestions(words []content.VocabularyWord, count int) []models.QuizQuestion {
	toCandidates := func(ws []content.VocabularyWord) []Candidate {
		out := make([]Candidate, 0, len(ws))
		for _, w := range ws {
			out = append(out, Candidate{Prompt: w.Word, Answer: w.Meaning, Romaji: w.Romaji, Meaning: w.Meaning})
		}
		return out
	}
	return g.Generate(toCandidates(words), count, models.QuestionVocabulary, toCandidates(content.Vocabulary))
}

// Daily challenge composition.
const DailyPerSection = 5

// DailyChallenge mixes 5 hiragana, 5 katakana, 5 kanji meaning and 5
// grammar questions in random order.
func (g *Generator) DailyChallenge() []models.QuizQuestion {
	var qs []models.QuizQuestion
	qs = append(qs, g.KanaQuestions(content.Hiragana, models.ScriptHiragana, DailyPerSection, models.QuestionRecognition)...)
	qs = append(qs, g.KanaQuestions(content.Katakana, models.ScriptKatakana, DailyPerSection, models.QuestionRecognition)...)
	qs = append(qs, g.KanjiQuestions(content.Kanjis, DailyPerSection, models.QuestionMeaning)...)
	qs = append(qs, g.GrammarQuestions(content.GrammarQuestions(), DailyPerSection)...)
	g.shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
	return qs
}
