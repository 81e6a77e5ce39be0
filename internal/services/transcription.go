package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"alfredoptarigan/interview-agent/internal/logger"
	"alfredoptarigan/interview-agent/internal/models"
)

type TranscriptionService interface {
	// Transcribe recognizes the uploaded recording and appends it as a user turn.
	Transcribe(ctx context.Context, userID, filename string, data []byte) (string, error)
}

type transcriptionService struct {
	sessions     SessionService
	conversation ConversationService
	storage      StorageService
	converter    AudioConverter
	recognizer   SpeechRecognizer
	log          *zap.Logger
}

func NewTranscriptionService(
	sessions SessionService,
	conversation ConversationService,
	storage StorageService,
	converter AudioConverter,
	recognizer SpeechRecognizer,
	log *zap.Logger,
) TranscriptionService {
	return &transcriptionService{
		sessions:     sessions,
		conversation: conversation,
		storage:      storage,
		converter:    converter,
		recognizer:   recognizer,
		log:          logger.OrNop(log),
	}
}

func (t *transcriptionService) Transcribe(ctx context.Context, userID, filename string, data []byte) (string, error) {
	log := logger.ForUser(t.log, userID)

	if _, err := t.sessions.GetOrCreate(ctx, userID); err != nil {
		return "", err
	}

	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty audio upload", ErrInvalidInput)
	}

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".webm"
	}

	srcPath, err := t.storage.SaveTemp(data, "audio", ext)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranscription, err)
	}
	defer t.cleanup(log, srcPath)

	wavPath := srcPath + ".wav"
	defer t.cleanup(log, wavPath)

	if err := t.converter.ConvertToWav(ctx, srcPath, wavPath); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranscription, err)
	}

	wav, err := os.ReadFile(wavPath)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read converted audio: %w", ErrTranscription, err)
	}

	text, err := t.recognizer.Recognize(ctx, wav)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranscription, err)
	}
	if text == "" {
		return "", ErrNoSpeech
	}

	if _, err := t.conversation.AppendTurn(ctx, userID, models.RoleUser, text); err != nil {
		return "", err
	}

	log.Info("🎙️ Transcription successful", zap.Int("chars", len(text)))

	return text, nil
}

// cleanup is best effort; failures are only logged.
func (t *transcriptionService) cleanup(log *zap.Logger, path string) {
	if err := t.storage.DeleteFile(path); err != nil {
		log.Warn("⚠️ Failed to remove temp file", zap.String("path", path), zap.Error(err))
	}
}
