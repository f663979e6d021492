package coach

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/sensei-learn/backend/internal/models"
)

// Service answers coach requests. A nil client means no provider is
// configured and every call returns its canned reply without going
// upstream.
type Service struct {
	llm     LLMClient
	timeout time.Duration
}

func NewService(llm LLMClient, timeout time.Duration) *Service {
	return &Service{llm: llm, timeout: timeout}
}

func (s *Service) Configured() bool {
	return s.llm != nil
}

func (s *Service) generate(ctx context.Context, system string, messages []Message, tuning Tuning) (*LLMResponse, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.llm.Generate(ctx, system, messages, tuning)
}

func (s *Service) Advice(ctx context.Context, stats models.LearnerStats) Result[models.CoachAdvice] {
	if s.llm == nil {
		return fallback(DefaultAdvice(stats), ErrNotConfigured)
	}

	resp, err := s.generate(ctx, AdviceSystemPrompt(), UserMessage(BuildAdviceUserPrompt(stats)), adviceTuning)
	if err != nil {
		log.Printf("[coach] advice: %v", err)
		return fallback(DefaultAdvice(stats), err)
	}

	advice, err := ParseAdvice(resp.Content)
	if err != nil {
		log.Printf("[coach] advice parse: %v", err)
		return fallback(DefaultAdvice(stats), err)
	}
	return fresh(*advice)
}

func (s *Service) Chat(ctx context.Context, req models.ChatRequest) Result[string] {
	if s.llm == nil {
		return fallback(UnconfiguredChatReply(), ErrNotConfigured)
	}

	resp, err := s.generate(ctx, ChatSystemPrompt(), UserMessage(BuildChatUserPrompt(req.Message, req.Context)), chatTuning)
	if err == nil && strings.TrimSpace(resp.Content) == "" {
		err = &ErrInvalidResponse{Err: errors.New("empty chat reply")}
	}
	if err != nil {
		log.Printf("[coach] chat: %v", err)
		return fallback(DefaultChatReply(), err)
	}
	return fresh(strings.TrimSpace(resp.Content))
}

func (s *Service) Explain(ctx context.Context, req models.ExplainRequest) Result[string] {
	if s.llm == nil {
		return fallback(UnconfiguredExplanation(), ErrNotConfigured)
	}

	resp, err := s.generate(ctx, "", UserMessage(BuildExplainPrompt(req.Character, req.Type)), explainTuning)
	if err != nil {
		log.Printf("[coach] explain %q: %v", req.Character, err)
		return fallback(DefaultExplanation(), err)
	}
	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return fallback(emptyExplanation, &ErrInvalidResponse{Err: errors.New("empty explanation")})
	}
	return fresh(text)
}
