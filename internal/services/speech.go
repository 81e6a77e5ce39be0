package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/interview-agent/internal/logger"
)

// noSpeechMarker is what the recognizer is asked to answer when the audio has no speech.
const noSpeechMarker = "NO_SPEECH"

// SpeechRecognizer turns wav audio into text. An empty result means no speech was recognized.
type SpeechRecognizer interface {
	Recognize(ctx context.Context, wav []byte) (string, error)
}

type geminiSpeechRecognizer struct {
	generator contentGenerator
	modelName string
	language  string
	log       *zap.Logger
}

func NewGeminiSpeechRecognizer(client *genai.Client, modelName, language string, log *zap.Logger) SpeechRecognizer {
	return newGeminiSpeechRecognizer(client.Models, modelName, language, log)
}

func newGeminiSpeechRecognizer(generator contentGenerator, modelName, language string, log *zap.Logger) *geminiSpeechRecognizer {
	return &geminiSpeechRecognizer{
		generator: generator,
		modelName: modelName,
		language:  language,
		log:       logger.OrNop(log).With(logger.LLMFields("gemini", modelName)...),
	}
}

func (g *geminiSpeechRecognizer) Recognize(ctx context.Context, wav []byte) (string, error) {
	prompt := fmt.Sprintf(
		"Transcribe the spoken %s audio verbatim. Return only the transcript text. "+
			"If the recording contains no intelligible speech, return exactly %s.",
		g.language, noSpeechMarker,
	)

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(wav, "audio/wav"),
	}

	var temperature float32
	resp, err := g.generator.GenerateContent(ctx, g.modelName,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{Temperature: &temperature},
	)
	if err != nil {
		return "", fmt.Errorf("speech recognition failed: %w", err)
	}
	if resp == nil {
		return "", nil
	}

	text := strings.TrimSpace(resp.Text())
	if isNoSpeech(text) {
		return "", nil
	}

	g.log.Debug("speech recognized", zap.Int("chars", len(text)))

	return text, nil
}

// isNoSpeech reports whether text is the no-speech marker, ignoring case and
// the quoting or punctuation models tend to wrap it in.
func isNoSpeech(text string) bool {
	return strings.EqualFold(strings.Trim(text, " \t\r\n.!`'\"*"), noSpeechMarker)
}
