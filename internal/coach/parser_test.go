package coach

import (
	"errors"
	"testing"
)

const validAdvice = `{"greeting":"Hi!","analysis":"Solid kana work.","recommendations":["a","b","c"],"motivationalQuote":"q"}`

func TestParseAdvice_ValidJSON(t *testing.T) {
	advice, err := ParseAdvice(validAdvice)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if advice.Greeting != "Hi!" {
		t.Errorf("greeting = %q", advice.Greeting)
	}
	if len(advice.Recommendations) != 3 {
		t.Errorf("expected 3 recommendations, got %d", len(advice.Recommendations))
	}
}

func TestParseAdvice_CodeFences(t *testing.T) {
	for _, input := range []string{
		"```json\n" + validAdvice + "\n```",
		"```\n" + validAdvice + "\n```",
		"Here is your advice:\n" + validAdvice + "\nGood luck!",
	} {
		if _, err := ParseAdvice(input); err != nil {
			t.Errorf("ParseAdvice(%q): %v", input, err)
		}
	}
}

func TestParseAdvice_TrimsRecommendations(t *testing.T) {
	input := `{"greeting":"g","analysis":"a","recommendations":["1","2","3","4","5"],"motivationalQuote":""}`
	advice, err := ParseAdvice(input)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(advice.Recommendations) != 3 {
		t.Errorf("expected 3 recommendations, got %d", len(advice.Recommendations))
	}
}

func TestParseAdvice_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no object", "I think you are doing great."},
		{"broken JSON", `{"greeting": "hi",}`},
		{"missing field", `{"greeting":"g","analysis":"a","motivationalQuote":"q"}`},
		{"wrong type", `{"greeting":"g","analysis":"a","recommendations":"study","motivationalQuote":"q"}`},
		{"empty recommendations", `{"greeting":"g","analysis":"a","recommendations":[],"motivationalQuote":"q"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAdvice(tt.input)
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Errorf("expected ErrInvalidResponse, got %v", err)
			}
		})
	}
}
