package dto

import (
	"time"

	"dysscreen/internal/domain"
)

// DisabilityContentResponse is the learning material of one disability.
type DisabilityContentResponse struct {
	DisabilityType string            `json:"disability_type"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Signs          []string          `json:"signs"`
	Strategies     []string          `json:"strategies"`
	Resources      []domain.Resource `json:"resources"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ChatRequest is a conversation so far; the last message is the learner's.
// @Description Request body for the learning assistant
type ChatRequest struct {
	Disability string               `json:"disability,omitempty"`
	Messages   []domain.ChatMessage `json:"messages"`
}

type ChatResponse struct {
	Message domain.ChatMessage `json:"message"`
}

// AdminOverviewResponse summarises stored data for the admin dashboard.
type AdminOverviewResponse struct {
	Users             int            `json:"users"`
	Attempts          int            `json:"attempts"`
	QuestionsPerType  map[string]int `json:"questions_per_type"`
	SecondScreeningOK bool           `json:"second_screening_ok"`
	// SecondScreeningIssue explains why the configured set cannot be resolved.
	SecondScreeningIssue string `json:"second_screening_issue,omitempty"`
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// DisabilityContentRequest replaces the learning material of one disability.
// @Description Request body for updating disability content
type DisabilityContentRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Signs       []string          `json:"signs"`
	Strategies  []string          `json:"strategies"`
	Resources   []domain.Resource `json:"resources"`
}
