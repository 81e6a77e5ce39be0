package services

import (
	"errors"
	"strings"
	"testing"

	"alfredoptarigan/interview-agent/internal/models"
)

func TestParseCategoryScore(t *testing.T) {
	got, err := ParseCategoryScore("Score: 7\nSummary: Clear and concise.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Score != 7 || got.Summary != "Clear and concise." {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestParseCategoryScoreAcceptsRangeBounds(t *testing.T) {
	for _, in := range []string{"Score: 1\nSummary: Weak.", "Score: 10\nSummary: Excellent."} {
		if _, err := ParseCategoryScore(in); err != nil {
			t.Fatalf("%q: unexpected error: %v", in, err)
		}
	}
}

func TestParseCategoryScoreToleratesSurroundingWhitespace(t *testing.T) {
	got, err := ParseCategoryScore("\n Score: 10 \r\nSummary:   Strong answer. \n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Score != 10 || got.Summary != "Strong answer." {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestParseCategoryScoreRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"non-integer score": "Score: seven\nSummary: Good.",
		"single line":       "Score: 7",
		"missing colon":     "Score 7\nSummary: Good.",
		"wrong first key":   "Rating: 7\nSummary: Good.",
		"wrong second key":  "Score: 7\nNotes: Good.",
		"extra lines":       "Score: 7\nSummary: Good.\nAlso: more",
		"decimal score":     "Score: 7.5\nSummary: Good.",
		"score above range": "Score: 42\nSummary: Good.",
		"negative score":    "Score: -3\nSummary: Good.",
		"zero score":        "Score: 0\nSummary: Good.",
		"empty summary":     "Score: 7\nSummary:",
		"empty":             "",
	}

	for name, in := range cases {
		if _, err := ParseCategoryScore(in); !errors.Is(err, ErrMalformedResponse) {
			t.Fatalf("%s: expected ErrMalformedResponse, got %v", name, err)
		}
	}
}

func TestRenderConversation(t *testing.T) {
	got := RenderConversation([]models.Message{
		{Role: models.RoleAssistant, Content: "Hi, tell me about yourself."},
		{Role: models.RoleUser, Content: "I build APIs."},
	})
	want := "assistant: Hi, tell me about yourself.\nuser: I build APIs."
	if got != want {
		t.Fatalf("RenderConversation() = %q, want %q", got, want)
	}
}

func TestBuildQuestionPromptIncludesInputs(t *testing.T) {
	prompt := NewPromptBuilder().BuildQuestionPrompt("JD-TEXT", "COMPANY-TEXT", "RESUME-TEXT", []models.Message{
		{Role: models.RoleUser, Content: "ANSWER-TEXT"},
	})

	for _, want := range []string{"JD-TEXT", "COMPANY-TEXT", "RESUME-TEXT", "user: ANSWER-TEXT", "Ask only one question."} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestRubricHasFiveCategories(t *testing.T) {
	if len(Rubric) != 5 {
		t.Fatalf("expected 5 categories, got %d", len(Rubric))
	}
	seen := map[string]bool{}
	for _, c := range Rubric {
		if seen[c.Name] {
			t.Fatalf("duplicate category %s", c.Name)
		}
		seen[c.Name] = true
	}
}
