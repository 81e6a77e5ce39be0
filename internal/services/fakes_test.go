package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/interview-agent/internal/config"
	"alfredoptarigan/interview-agent/internal/models"
	"alfredoptarigan/interview-agent/internal/repositories"
)

type testRepos struct {
	sessions   repositories.SessionRepository
	interviews repositories.InterviewRepository
	resumes    repositories.ResumeRepository
	db         *gorm.DB
}

func newTestRepos(t *testing.T) testRepos {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return testRepos{
		sessions:   repositories.NewSessionRepository(db),
		interviews: repositories.NewInterviewRepository(db),
		resumes:    repositories.NewResumeRepository(db),
		db:         db,
	}
}

type llmCall struct {
	system  string
	history []models.Message
	prompt  string
}

// fakeLLM returns queued responses in order, then fallback.
type fakeLLM struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	fallback  string
	calls     []llmCall
}

func (f *fakeLLM) Complete(_ context.Context, system string, history []models.Message, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	snapshot := make([]models.Message, len(history))
	copy(snapshot, history)
	f.calls = append(f.calls, llmCall{system: system, history: snapshot, prompt: prompt})

	idx := len(f.calls) - 1
	if idx < len(f.errs) && f.errs[idx] != nil {
		return "", f.errs[idx]
	}
	if idx < len(f.responses) {
		return f.responses[idx], nil
	}
	return f.fallback, nil
}

func (f *fakeLLM) Provider() string { return "fake" }

func (f *fakeLLM) Model() string { return "fake-model" }

type fakePDF struct {
	pages []string
	err   error
}

func (f *fakePDF) ExtractPages([]byte) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages, nil
}

type fakeConverter struct {
	err      error
	lastSrc  string
	lastDst  string
	srcExist bool
}

func (f *fakeConverter) ConvertToWav(_ context.Context, src, dst string) error {
	f.lastSrc, f.lastDst = src, dst
	_, statErr := os.Stat(src)
	f.srcExist = statErr == nil
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(dst, []byte("RIFFwav"), 0600)
}

type fakeRecognizer struct {
	text string
	err  error
}

func (f *fakeRecognizer) Recognize(context.Context, []byte) (string, error) {
	return f.text, f.err
}

var errUpstream = errors.New("upstream exploded")

func strPtr(s string) *string { return &s }

// seedSession stores complete interview inputs for userID.
func seedSession(t *testing.T, repo repositories.SessionRepository, userID string) {
	t.Helper()
	err := repo.Upsert(context.Background(), userID, models.SessionFields{
		ResumeText:     strPtr("Go developer, 5 years"),
		JobDescription: strPtr("Backend engineer"),
		CompanyDetails: strPtr("Acme builds rockets"),
	})
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
}
