package content

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
)

var JLPTLevels = []string{"N5", "N4", "N3", "N2", "N1"}

type VocabularyExample struct {
	Japanese string `json:"japanese"`
	Reading  string `json:"reading"`
	English  string `json:"english"`
}

type VocabularyWord struct {
	ID           string             `json:"id"`
	Word         string             `json:"word"`
	Reading      string             `json:"reading"`
	Romaji       string             `json:"romaji"`
	Meaning      string             `json:"meaning"`
	PartOfSpeech string             `json:"part_of_speech"`
	JLPT         string             `json:"jlpt"`
	Category     string             `json:"category,omitempty"`
	Example      *VocabularyExample `json:"example,omitempty"`
}

//go:embed data/vocabulary.json
var vocabularyJSON []byte

var Vocabulary = mustLoadVocabulary(vocabularyJSON)

func mustLoadVocabulary(data []byte) []VocabularyWord {
	var words []VocabularyWord
	if err := json.Unmarshal(data, &words); err != nil {
		panic(fmt.Sprintf("content: decode vocabulary.json: %v", err))
	}
	return words
}

// VocabularyByLevel returns the words tagged with a JLPT level ("" for all).
func VocabularyByLevel(level string) []VocabularyWord {
	if level == "" {
		return Vocabulary
	}
	var out []VocabularyWord
	for _, w := range Vocabulary {
		if w.JLPT == level {
			out = append(out, w)
		}
	}
	return out
}

// Categories lists the distinct categories of a level, sorted.
func Categories(level string) []string {
	seen := map[string]bool{}
	var out []string
	for _, w := range VocabularyByLevel(level) {
		if w.Category != "" && !seen[w.Category] {
			seen[w.Category] = true
			out = append(out, w.Category)
		}
	}
	sort.Strings(out)
	return out
}

func ValidJLPT(level string) bool {
	for _, l := range JLPTLevels {
		if l == level {
			return true
		}
	}
	return false
}
