package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/interview-agent/internal/logger"
	"alfredoptarigan/interview-agent/internal/models"
)

type groqService struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	modelName   string
	temperature float32
	log         *zap.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewGroqService talks to an OpenAI-compatible chat completions endpoint.
func NewGroqService(baseURL, apiKey, modelName string, temperature float32, log *zap.Logger) LLMService {
	return &groqService{
		httpClient:  &http.Client{Timeout: 120 * time.Second},
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		modelName:   modelName,
		temperature: temperature,
		log:         logger.OrNop(log).With(logger.LLMFields("groq", modelName)...),
	}
}

func (s *groqService) Provider() string { return "groq" }

func (s *groqService) Model() string { return s.modelName }

// Complete implements LLMService.
func (s *groqService) Complete(ctx context.Context, systemPrompt string, history []models.Message, prompt string) (string, error) {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	messages := make([]chatMessage, 0, len(history)+2)
	messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	for _, msg := range history {
		messages = append(messages, chatMessage{Role: string(msg.Role), Content: msg.Content})
	}
	if strings.TrimSpace(prompt) != "" {
		messages = append(messages, chatMessage{Role: "user", Content: prompt})
	}

	body, err := json.Marshal(chatRequest{
		Model:       s.modelName,
		Messages:    messages,
		Temperature: s.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error calling Groq API: %w", err)
	}
	defer resp.Body.Close()

	s.log.Debug("Groq request finished", zap.Duration("elapsed", time.Since(startTime)), zap.Int("status", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read Groq response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Groq API error: %d %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var result chatResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("failed to decode Groq response: %w", err)
	}
	if result.Error != nil && result.Error.Message != "" {
		return "", fmt.Errorf("Groq API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("Groq API returned no choices")
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}
