package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dysscreen/internal/domain"
	"dysscreen/internal/dto"
	"dysscreen/internal/logger"

	"go.uber.org/zap"
)

const (
	maxChatMessages      = 30
	maxChatMessageLength = 2000
)

// ChatService relays a conversation to the learning assistant.
type ChatService interface {
	Reply(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatService struct {
	assistant domain.Assistant
	timeout   time.Duration
}

// NewChatService creates a chat service. A nil assistant makes every call
// fail with LLM_SERVICE_ERROR.
func NewChatService(assistant domain.Assistant, timeout time.Duration) ChatService {
	return &chatService{assistant: assistant, timeout: timeout}
}

func (s *chatService) Reply(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error) {
	var disability domain.QuizType
	if req.Disability != "" {
		d, err := domain.ParseDisabilityType(req.Disability)
		if err != nil {
			return nil, err
		}
		disability = d
	}
	if err := validateHistory(req.Messages); err != nil {
		return nil, err
	}
	if s.assistant == nil {
		return nil, domain.NewLLMServiceError(errors.New("assistant is not configured"))
	}

	ctx, cancel := bounded(ctx, s.timeout)
	defer cancel()
	start := time.Now()
	content, err := s.assistant.Reply(ctx, disability, req.Messages)
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		logger.Get().Error("assistant reply failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, domain.NewLLMServiceError(err)
	}
	return &dto.ChatResponse{
		Message: domain.ChatMessage{Role: domain.ChatRoleAssistant, Content: strings.TrimSpace(content)},
	}, nil
}

func validateHistory(messages []domain.ChatMessage) error {
	var errs domain.ValidationErrors
	if len(messages) == 0 {
		return domain.ValidationErrors{domain.NewMissingFieldError("messages")}
	}
	if len(messages) > maxChatMessages {
		errs = append(errs, domain.NewOutOfRangeError("messages.length", len(messages), 1, maxChatMessages))
	}
	for i, m := range messages {
		field := fmt.Sprintf("messages[%d]", i)
		if m.Role != domain.ChatRoleUser && m.Role != domain.ChatRoleAssistant {
			errs = append(errs, domain.NewInvalidFormatError(field+".role", string(m.Role)))
		}
		if strings.TrimSpace(m.Content) == "" {
			errs = append(errs, domain.NewMissingFieldError(field+".content"))
		} else if len(m.Content) > maxChatMessageLength {
			errs = append(errs, domain.NewOutOfRangeError(field+".content.length", len(m.Content), 1, maxChatMessageLength))
		}
	}
	if last := messages[len(messages)-1]; last.Role != domain.ChatRoleUser {
		errs = append(errs, domain.NewValidationError("messages", "the last message must come from the user"))
	}
	return errs.OrNil()
}
