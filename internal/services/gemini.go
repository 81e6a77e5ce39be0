package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/interview-agent/internal/logger"
	"alfredoptarigan/interview-agent/internal/models"
)

// NewGeminiClient creates the shared GenAI client used for completion and speech.
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return client, nil
}

// contentGenerator is the subset of *genai.Models used by the Gemini services.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiService struct {
	generator   contentGenerator
	modelName   string
	temperature float32
	log         *zap.Logger
}

func NewGeminiService(client *genai.Client, modelName string, temperature float32, log *zap.Logger) LLMService {
	return newGeminiService(client.Models, modelName, temperature, log)
}

func newGeminiService(generator contentGenerator, modelName string, temperature float32, log *zap.Logger) *geminiService {
	return &geminiService{
		generator:   generator,
		modelName:   modelName,
		temperature: temperature,
		log:         logger.OrNop(log).With(logger.LLMFields("gemini", modelName)...),
	}
}

func (g *geminiService) Provider() string { return "gemini" }

func (g *geminiService) Model() string { return g.modelName }

// Complete implements LLMService.
func (g *geminiService) Complete(ctx context.Context, systemPrompt string, history []models.Message, prompt string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, msg := range history {
		var role genai.Role = genai.RoleUser
		if msg.Role == models.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}
	if strings.TrimSpace(prompt) != "" {
		contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))
	}
	if len(contents) == 0 {
		return "", fmt.Errorf("nothing to send: empty prompt and history")
	}

	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}
	if systemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	resp, err := g.generator.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		g.log.Error("❌ Gemini API error", zap.Error(err))
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	g.log.Debug("📊 Gemini response received", zap.String("text", logger.Truncate(text, 200)))

	return text, nil
}
