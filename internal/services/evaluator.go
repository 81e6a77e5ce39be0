package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"alfredoptarigan/interview-agent/internal/logger"
	"alfredoptarigan/interview-agent/internal/models"
	"alfredoptarigan/interview-agent/internal/repositories"
)

type EvaluatorService interface {
	Evaluate(ctx context.Context, userID string) (models.Analysis, error)
}

type evaluatorService struct {
	interviewRepo repositories.InterviewRepository
	llm           LLMService
	promptBuilder *PromptBuilder
	log           *zap.Logger
}

func NewEvaluatorService(
	interviewRepo repositories.InterviewRepository,
	llm LLMService,
	log *zap.Logger,
) EvaluatorService {
	return &evaluatorService{
		interviewRepo: interviewRepo,
		llm:           llm,
		promptBuilder: NewPromptBuilder(),
		log:           logger.OrNop(log),
	}
}

// Evaluate scores the latest answer in every rubric category. The analysis is
// persisted only when all categories succeed.
func (e *evaluatorService) Evaluate(ctx context.Context, userID string) (models.Analysis, error) {
	log := logger.ForUser(e.log, userID)

	interview, err := e.interviewRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInterviewNotFound
		}
		return nil, err
	}

	if len(interview.Conversation) == 0 {
		return nil, ErrNoConversation
	}

	answer := lastTurn(interview.Conversation, models.RoleUser)
	question := lastTurn(interview.Conversation, models.RoleAssistant)

	log.Info("🔄 Starting evaluation", zap.Int("turns", len(interview.Conversation)))

	analysis := make(models.Analysis, len(Rubric))
	for _, category := range Rubric {
		prompt := e.promptBuilder.BuildEvaluationPrompt(answer, interview.JobDescription, question, category)

		response, err := e.llm.Complete(ctx, e.promptBuilder.EvaluatorSystemPrompt(), nil, prompt)
		if err != nil {
			log.Error("❌ Evaluation failed", zap.String("category", category.Name), zap.Error(err))
			return nil, fmt.Errorf("%w for %s: %w", ErrEvaluation, category.Name, err)
		}

		score, err := ParseCategoryScore(response)
		if err != nil {
			log.Error("❌ Failed to parse evaluation response",
				zap.String("category", category.Name),
				zap.String("response", logger.Truncate(response, 200)),
			)
			return nil, fmt.Errorf("%w for %s: %w", ErrEvaluation, category.Name, err)
		}

		analysis[category.Name] = score
	}

	if err := e.interviewRepo.UpdateAnalysis(ctx, userID, analysis); err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}

	log.Info("✅ Evaluation completed")

	return analysis, nil
}

// lastTurn returns the content of the most recent turn by role, or "".
func lastTurn(conversation []models.Message, role models.Role) string {
	for i := len(conversation) - 1; i >= 0; i-- {
		if conversation[i].Role == role {
			return conversation[i].Content
		}
	}
	return ""
}
