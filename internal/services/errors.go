package services

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrMissingSessionData = errors.New("missing required session data (job details, company info, or resume)")
	ErrInterviewNotFound  = errors.New("interview not found")
	ErrNoConversation     = errors.New("no conversation data found for evaluation")
	ErrNoSpeech           = errors.New("no speech could be recognized")
	ErrExtraction         = errors.New("resume processing failed")
	ErrGeneration         = errors.New("failed to generate question")
	ErrTranscription      = errors.New("error processing audio")
	ErrEvaluation         = errors.New("LLM evaluation failed")
	ErrMalformedResponse  = errors.New("malformed LLM response")
)
