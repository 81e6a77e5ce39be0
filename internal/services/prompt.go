package services

import (
	"fmt"
	"strconv"
	"strings"

	"alfredoptarigan/interview-agent/internal/models"
)

// RubricCategory is one evaluation dimension with the criteria sent to the LLM.
type RubricCategory struct {
	Name     string
	Criteria string
}

// Rubric lists the evaluation categories in the order they are scored.
var Rubric = []RubricCategory{
	{
		Name:     "communication_clarity",
		Criteria: "Analyze the candidate's communication and clarity. Score from 1-10. Summarize in 2 sentences: Sentence structure, clarity, filler words, fluency, answer length, coherence, logical flow.",
	},
	{
		Name:     "role_specific_knowledge",
		Criteria: "Analyze the candidate's role-specific knowledge and technical depth. Score from 1-10. Summarize in 2 sentences: How well they address technical/domain-specific questions, use of correct terminology and methods, logical explanations of concepts or processes.",
	},
	{
		Name:     "problem_solving_critical_thinking",
		Criteria: "Analyze the candidate's problem-solving and critical thinking. Score from 1-10. Summarize in 2 sentences: Whether the answer follows a logical framework (e.g., STAR, cause-effect), creativity in solutions or handling ambiguity, structured thinking.",
	},
	{
		Name:     "soft_skills_behavioral_competency",
		Criteria: "Analyze the candidate's soft skills and behavioral competency. Score from 1-10. Summarize in 2 sentences: Emotional tone (e.g., empathy, ownership, humility), teamwork, leadership, handling feedback or conflict, use of personal examples and reflection.",
	},
	{
		Name:     "engagement_motivation",
		Criteria: "Analyze the candidate's engagement and motivation. Score from 1-10. Summarize in 2 sentences: Energy and enthusiasm for the role, relevance of their questions or curiosity shown, clear understanding of the company/mission.",
	},
}

const evaluatorSystemPrompt = "You are an AI interview evaluator. Your task is to assess a candidate's answer " +
	"to an interview question based on a specific category and criteria. " +
	"Provide a score from 1 to 10 and a 2-sentence summary explaining the score. " +
	"The output MUST be in the format: 'Score: [score]\nSummary: [summary]'."

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// RenderConversation renders turns as "role: content" lines.
func RenderConversation(messages []models.Message) string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Role, msg.Content))
	}
	return strings.Join(lines, "\n")
}

// BuildQuestionPrompt creates the interviewer prompt for the next question.
func (pb *PromptBuilder) BuildQuestionPrompt(jobDescription, companyDetails, resumeText string, conversation []models.Message) string {
	return fmt.Sprintf(`
You are an AI interviewer conducting a natural, friendly, and progressive job interview.

Your task is to generate ONE concise interview question (1–2 sentences max) using:
- Job Description: %s
- Company Info: %s
- Resume: %s
- Conversation History: %s

GOAL:
Simulate a real interview — start warm and easy, then gradually go deeper into relevant experience and skills.

RULES:

1. **If no prior message:**
   - Greet the candidate.
   - Ask a soft opener like: "Tell me about yourself" or "What drew you to this role?"

2. **If prior response exists:**
   - Briefly acknowledge it (1 sentence max).
   - Ask a related follow-up that digs deeper.

3. **Tone:**
   - Warm, conversational, and human — like a real interviewer.
   - Avoid robotic or overly formal language.

4. **Content:**
   - Personalize using resume and job info.
   - Ask only one question.
   - Avoid yes/no questions — aim for stories or examples.

5. **Output:**
   - Return only the question (no notes or instructions).
   - Keep it concise (1–2 sentences max).
`, jobDescription, companyDetails, resumeText, RenderConversation(conversation))
}

// BuildEvaluationPrompt creates the scoring prompt for one rubric category.
func (pb *PromptBuilder) BuildEvaluationPrompt(answer, jobDescription, question string, category RubricCategory) string {
	return fmt.Sprintf(`Candidate's Answer: %s

Job Description: %s

Interview Question: %s

Evaluation Category: %s
Analysis Criteria: %s

Please provide a score (1-10) and a 2-sentence summary based on the criteria.`,
		answer, jobDescription, question, category.Name, category.Criteria)
}

// EvaluatorSystemPrompt returns the system context used for every scoring call.
func (pb *PromptBuilder) EvaluatorSystemPrompt() string {
	return evaluatorSystemPrompt
}

const (
	minScore = 1
	maxScore = 10
)

// ParseCategoryScore parses the exact two-line "Score: <int>" / "Summary: <text>"
// response with a score from 1 to 10 and a non-empty summary. Anything else is
// ErrMalformedResponse.
func ParseCategoryScore(response string) (models.CategoryScore, error) {
	lines := strings.Split(strings.TrimSpace(strings.ReplaceAll(response, "\r\n", "\n")), "\n")
	if len(lines) != 2 {
		return models.CategoryScore{}, fmt.Errorf("%w: expected 2 lines, got %d", ErrMalformedResponse, len(lines))
	}

	scoreText, ok := fieldValue(lines[0], "Score")
	if !ok {
		return models.CategoryScore{}, fmt.Errorf("%w: missing score line: %q", ErrMalformedResponse, lines[0])
	}

	score, err := strconv.Atoi(scoreText)
	if err != nil {
		return models.CategoryScore{}, fmt.Errorf("%w: score is not an integer: %q", ErrMalformedResponse, scoreText)
	}
	if score < minScore || score > maxScore {
		return models.CategoryScore{}, fmt.Errorf("%w: score %d outside %d-%d", ErrMalformedResponse, score, minScore, maxScore)
	}

	summary, ok := fieldValue(lines[1], "Summary")
	if !ok || summary == "" {
		return models.CategoryScore{}, fmt.Errorf("%w: missing summary line: %q", ErrMalformedResponse, lines[1])
	}

	return models.CategoryScore{Score: score, Summary: summary}, nil
}

func fieldValue(line, key string) (string, bool) {
	name, value, found := strings.Cut(line, ":")
	if !found || strings.TrimSpace(name) != key {
		return "", false
	}
	return strings.TrimSpace(value), true
}
