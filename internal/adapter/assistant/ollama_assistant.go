package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dysscreen/internal/domain"
	"dysscreen/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

const basePrompt = `You are a supportive learning assistant inside a learning-difficulty self-screening app.
You are not a clinician. Never diagnose. When asked about a diagnosis, explain that only a qualified professional can make one and suggest how to find one.
Answer in plain, encouraging language, in at most 150 words, with concrete practice ideas.`

var disabilityPrompts = map[domain.QuizType]string{
	domain.QuizTypeDyslexia: `The learner is exploring dyslexia: difficulty with accurate or fluent word reading, decoding and spelling.
Prefer multisensory reading strategies, phonics games, audiobooks and text-to-speech tools.`,
	domain.QuizTypeDysgraphia: `The learner is exploring dysgraphia: difficulty with handwriting, spelling and putting thoughts on paper.
Prefer fine-motor warm-ups, graph paper, speech-to-text and breaking writing into small steps.`,
	domain.QuizTypeDyscalculia: `The learner is exploring dyscalculia: difficulty with number sense, arithmetic facts and calculation.
Prefer concrete manipulatives, number lines, visual models and short daily practice.`,
}

// contentGenerator is the part of llms.Model the assistant needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// OllamaAssistant answers learners through an Ollama hosted chat model.
type OllamaAssistant struct {
	llm         contentGenerator
	temperature float64
}

// NewOllamaAssistant connects to the Ollama server at serverURL.
func NewOllamaAssistant(serverURL, model string) (*OllamaAssistant, error) {
	if serverURL == "" {
		return nil, errors.New("ollama server URL cannot be empty")
	}
	if model == "" {
		return nil, errors.New("ollama model name cannot be empty")
	}
	llm, err := ollama.New(ollama.WithServerURL(serverURL), ollama.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	return &OllamaAssistant{llm: llm, temperature: 0.4}, nil
}

// SystemPrompt returns the instructions used for disability. An empty
// disability gives the general prompt.
func SystemPrompt(disability domain.QuizType) string {
	if p, ok := disabilityPrompts[disability]; ok {
		return basePrompt + "\n\n" + p
	}
	return basePrompt
}

// Reply implements domain.Assistant.
func (a *OllamaAssistant) Reply(ctx context.Context, disability domain.QuizType, history []domain.ChatMessage) (string, error) {
	messages := make([]llms.MessageContent, 0, len(history)+1)
	messages = append(messages, llms.TextParts(schema.ChatMessageTypeSystem, SystemPrompt(disability)))
	for _, m := range history {
		role := schema.ChatMessageTypeHuman
		if m.Role == domain.ChatRoleAssistant {
			role = schema.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, m.Content))
	}

	resp, err := a.llm.GenerateContent(ctx, messages, llms.WithTemperature(a.temperature))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Get().Error("LLM request timed out", zap.Error(err))
			return "", domain.NewLLMServiceError(fmt.Errorf("LLM request timed out: %w", err))
		}
		logger.Get().Error("Failed to get response from LLM", zap.Error(err))
		return "", domain.NewLLMServiceError(fmt.Errorf("LLM call failed: %w", err))
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", domain.NewLLMServiceError(errors.New("LLM returned no choices"))
	}

	content := stripThinking(resp.Choices[0].Content)
	if content == "" {
		return "", domain.NewLLMServiceError(errors.New("LLM returned an empty reply"))
	}
	return content, nil
}

// stripThinking removes a leading <think>...</think> block some models emit.
func stripThinking(s string) string {
	s = strings.TrimSpace(s)
	if start := strings.Index(s, "<think>"); start != -1 {
		if end := strings.Index(s, "</think>"); end > start {
			s = s[:start] + s[end+len("</think>"):]
		}
	}
	return strings.TrimSpace(s)
}
