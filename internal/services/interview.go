package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/interview-agent/internal/logger"
	"alfredoptarigan/interview-agent/internal/models"
	"alfredoptarigan/interview-agent/internal/repositories"
)

type QuestionResult struct {
	Question    string
	InterviewID string
}

type InterviewService interface {
	// GenerateQuestion starts a new interview cycle when userInput is nil,
	// otherwise records userInput as the candidate's answer first.
	GenerateQuestion(ctx context.Context, userID string, userInput *string) (*QuestionResult, error)
	GetInterview(ctx context.Context, userID string) (*models.Interview, error)
}

type interviewService struct {
	sessions      SessionService
	conversation  ConversationService
	interviewRepo repositories.InterviewRepository
	llm           LLMService
	promptBuilder *PromptBuilder
	log           *zap.Logger
	now           func() time.Time
}

func NewInterviewService(
	sessions SessionService,
	conversation ConversationService,
	interviewRepo repositories.InterviewRepository,
	llm LLMService,
	log *zap.Logger,
) InterviewService {
	return &interviewService{
		sessions:      sessions,
		conversation:  conversation,
		interviewRepo: interviewRepo,
		llm:           llm,
		promptBuilder: NewPromptBuilder(),
		log:           logger.OrNop(log),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *interviewService) GenerateQuestion(ctx context.Context, userID string, userInput *string) (*QuestionResult, error) {
	log := logger.ForUser(s.log, userID)

	session, err := s.sessions.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if session.JobDescription == "" || session.CompanyDetails == "" || session.ResumeText == "" {
		return nil, ErrMissingSessionData
	}

	var (
		messages  []models.Message
		startTime *time.Time
	)

	if userInput == nil {
		log.Info("🔄 Starting new interview cycle")
		if err := s.conversation.Reset(ctx, userID); err != nil {
			return nil, err
		}
		messages = []models.Message{}
		now := s.now()
		startTime = &now
	} else {
		if strings.TrimSpace(*userInput) == "" {
			return nil, fmt.Errorf("%w: user_input must not be blank", ErrInvalidInput)
		}
		// committed before the LLM call and not rolled back if it fails
		messages, err = s.conversation.AppendTurn(ctx, userID, models.RoleUser, *userInput)
		if err != nil {
			return nil, err
		}
	}

	prompt := s.promptBuilder.BuildQuestionPrompt(session.JobDescription, session.CompanyDetails, session.ResumeText, messages)

	log.Info("🤖 Generating question", zap.Int("turns", len(messages)), zap.Int("prompt_chars", len(prompt)))

	question, err := s.llm.Complete(ctx, DefaultSystemPrompt, messages, prompt)
	if err != nil {
		log.Error("❌ Question generation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	messages, err = s.conversation.AppendTurn(ctx, userID, models.RoleAssistant, question)
	if err != nil {
		return nil, err
	}

	if err := s.interviewRepo.Upsert(ctx, &models.InterviewSnapshot{
		UserID:         userID,
		JobDescription: session.JobDescription,
		CompanyDetails: session.CompanyDetails,
		ResumeText:     session.ResumeText,
		Conversation:   messages,
		StartTime:      startTime,
	}); err != nil {
		return nil, fmt.Errorf("failed to save interview: %w", err)
	}

	log.Info("✅ Question generated", zap.String("question", logger.Truncate(question, 120)))

	return &QuestionResult{Question: question, InterviewID: userID}, nil
}

func (s *interviewService) GetInterview(ctx context.Context, userID string) (*models.Interview, error) {
	interview, err := s.interviewRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInterviewNotFound
		}
		return nil, err
	}
	return interview, nil
}
