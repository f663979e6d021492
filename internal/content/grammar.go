package content

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

type GrammarExample struct {
	Japanese string `json:"japanese"`
	Romaji   string `json:"romaji"`
	English  string `json:"english"`
}

type GrammarQuestion struct {
	ID            string   `json:"id"`
	TopicID       string   `json:"topic_id"`
	Type          string   `json:"type"` // multiple-choice or fill-blank
	Question      string   `json:"question"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

type GrammarTopic struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	TitleJP     string            `json:"title_jp"`
	Explanation string            `json:"explanation"`
	Examples    []GrammarExample  `json:"examples"`
	Questions   []GrammarQuestion `json:"questions"`
}

//go:embed data/grammar.json
var grammarJSON []byte

var GrammarTopics = mustLoadGrammar(grammarJSON)

func mustLoadGrammar(data []byte) []GrammarTopic {
	var topics []GrammarTopic
	if err := json.Unmarshal(data, &topics); err != nil {
		panic(fmt.Sprintf("content: decode grammar.json: %v", err))
	}
	for i := range topics {
		for j := range topics[i].Questions {
			topics[i].Questions[j].TopicID = topics[i].ID
		}
	}
	return topics
}

// GrammarTopicByID looks up a topic.
func GrammarTopicByID(id string) (GrammarTopic, bool) {
	for _, t := range GrammarTopics {
		if t.ID == id {
			return t, true
		}
	}
	return GrammarTopic{}, false
}

// GrammarQuestions returns the questions of the given topics, or of every
// topic when no ids are given.
func GrammarQuestions(topicIDs ...string) []GrammarQuestion {
	want := make(map[string]bool, len(topicIDs))
	for _, id := range topicIDs {
		want[id] = true
	}
	var out []GrammarQuestion
	for _, t := range GrammarTopics {
		if len(want) > 0 && !want[t.ID] {
			continue
		}
		out = append(out, t.Questions...)
	}
	return out
}
