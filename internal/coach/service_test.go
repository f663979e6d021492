package coach

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sensei-learn/backend/internal/config"
	"github.com/sensei-learn/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Unconfigured(t *testing.T) {
	svc := NewService(nil, 0)
	ctx := context.Background()

	advice := svc.Advice(ctx, models.LearnerStats{Level: 2, Streak: 5})
	assert.True(t, advice.Fallback)
	assert.ErrorIs(t, advice.Cause, ErrNotConfigured)
	assert.Equal(t, "Great job maintaining your 5 day streak!", advice.Value.Greeting)

	chat := svc.Chat(ctx, models.ChatRequest{Message: "hello"})
	assert.True(t, chat.Fallback)
	assert.Equal(t, UnconfiguredChatReply(), chat.Value)

	explain := svc.Explain(ctx, models.ExplainRequest{Character: "あ", Type: models.ScriptHiragana})
	assert.Equal(t, UnconfiguredExplanation(), explain.Value)
}

func TestService_Advice(t *testing.T) {
	mock := NewMockClient().Respond("```json\n" + validAdvice + "\n```")
	svc := NewService(mock, 0)

	res := svc.Advice(context.Background(), models.LearnerStats{Level: 3, HiraganaProgress: 12})
	require.False(t, res.Fallback)
	assert.Equal(t, "Hi!", res.Value.Greeting)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, adviceTuning, calls[0].Tuning)
	assert.Contains(t, calls[0].Messages[0].Content, "12/46")
}

func TestService_AdviceFallsBackOnBadReply(t *testing.T) {
	svc := NewService(NewMockClient().Respond("no json here"), 0)

	stats := models.LearnerStats{Level: 1, WeakCharacters: []string{"ね"}}
	res := svc.Advice(context.Background(), stats)
	assert.True(t, res.Fallback)
	assert.Equal(t, DefaultAdvice(stats), res.Value)
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, res.Cause, &inv)
}

func TestService_ChatAndExplainFailures(t *testing.T) {
	boom := &ErrProviderUnavailable{Err: errors.New("down")}
	svc := NewService(NewMockClient().Fail(boom).Fail(boom), 0)
	ctx := context.Background()

	chat := svc.Chat(ctx, models.ChatRequest{Message: "hi"})
	assert.True(t, chat.Fallback)
	assert.Equal(t, DefaultChatReply(), chat.Value)

	explain := svc.Explain(ctx, models.ExplainRequest{Character: "カ"})
	assert.True(t, explain.Fallback)
	assert.Equal(t, DefaultExplanation(), explain.Value)
}

func TestService_ChatAndExplain(t *testing.T) {
	mock := NewMockClient().Respond("  Cat is 猫 (neko).  ").Respond("   ")
	svc := NewService(mock, 0)
	ctx := context.Background()

	chat := svc.Chat(ctx, models.ChatRequest{Message: "What is cat?"})
	assert.False(t, chat.Fallback)
	assert.Equal(t, "Cat is 猫 (neko).", chat.Value)

	explain := svc.Explain(ctx, models.ExplainRequest{Character: "猫", Type: models.ScriptKanji})
	assert.True(t, explain.Fallback)
	assert.Equal(t, emptyExplanation, explain.Value)

	calls := mock.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, explainTuning, calls[1].Tuning)
}

func TestDefaultAdvice(t *testing.T) {
	tests := []struct {
		name      string
		stats     models.LearnerStats
		wantRecs  []string
		wantTail  string
		wantLevel string
	}{
		{
			name:      "beginner",
			stats:     models.LearnerStats{},
			wantRecs:  []string{"Continue practicing Hiragana - you're making great progress!", "Start learning Katakana to expand your reading ability.", "Complete the Daily Challenge for bonus XP!"},
			wantTail:  "Keep up the excellent work!",
			wantLevel: "Level 1",
		},
		{
			name:  "weak characters",
			stats: models.LearnerStats{Level: 6, HiraganaProgress: 46, KatakanaProgress: 10, WeakCharacters: []string{"a", "b", "c", "d", "e", "f"}},
			wantRecs: []string{"Start learning Katakana to expand your reading ability.",
				"Focus on your weak characters: a, b, c, d, e",
				"Complete the Daily Challenge for bonus XP!"},
			wantTail:  "Some characters need extra practice.",
			wantLevel: "Level 6",
		},
		{
			name:      "advanced",
			stats:     models.LearnerStats{Level: 12, HiraganaProgress: 46, KatakanaProgress: 46},
			wantRecs:  []string{"Complete the Daily Challenge for bonus XP!"},
			wantTail:  "Keep up the excellent work!",
			wantLevel: "Level 12",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			advice := DefaultAdvice(tt.stats)
			assert.Equal(t, tt.wantRecs, advice.Recommendations)
			assert.True(t, strings.HasSuffix(advice.Analysis, tt.wantTail), advice.Analysis)
			assert.Contains(t, advice.Analysis, tt.wantLevel)
			assert.Equal(t, "Welcome back to your Japanese learning journey!", advice.Greeting)
			assert.Equal(t, defaultQuote, advice.MotivationalQuote)
		})
	}
}

func TestNewClient(t *testing.T) {
	ctx := context.Background()

	_, err := NewClient(ctx, config.CoachConfig{Provider: "gemini"})
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = NewClient(ctx, config.CoachConfig{Provider: "anthropic"})
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = NewClient(ctx, config.CoachConfig{Provider: "openai"})
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = NewClient(ctx, config.CoachConfig{Provider: "eliza"})
	assert.Error(t, err)

	c, err := NewClient(ctx, config.CoachConfig{Provider: "mock"})
	require.NoError(t, err)
	assert.IsType(t, &MockClient{}, c)

	c, err = NewClient(ctx, config.CoachConfig{Provider: "openai", OpenAIAPIKey: "k", OpenAIModel: "m", MaxAttempts: 2})
	require.NoError(t, err)
	rc, ok := c.(*RetryClient)
	require.True(t, ok)
	assert.Equal(t, 2, rc.config.MaxAttempts)
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		call       func(h *Handler) http.HandlerFunc
		body       string
		wantStatus int
		wantBody   string
		fallback   bool
	}{
		{"advice fallback", func(h *Handler) http.HandlerFunc { return h.Advice }, `{"level":2}`, http.StatusOK, `"motivationalQuote"`, true},
		{"advice bad body", func(h *Handler) http.HandlerFunc { return h.Advice }, `{`, http.StatusBadRequest, "Invalid request body", false},
		{"chat fallback", func(h *Handler) http.HandlerFunc { return h.Chat }, `{"message":"hi"}`, http.StatusOK, "AI is not configured", true},
		{"chat empty", func(h *Handler) http.HandlerFunc { return h.Chat }, `{"message":"  "}`, http.StatusBadRequest, "message is required", false},
		{"explain fallback", func(h *Handler) http.HandlerFunc { return h.Explain }, `{"character":"あ","type":"hiragana"}`, http.StatusOK, `"explanation"`, true},
		{"explain missing character", func(h *Handler) http.HandlerFunc { return h.Explain }, `{}`, http.StatusBadRequest, "character is required", false},
	}
	h := NewHandler(NewService(nil, 0))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/coach", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			tt.call(h)(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.Equal(t, tt.fallback, rec.Header().Get(FallbackHeader) == "true")
		})
	}
}
