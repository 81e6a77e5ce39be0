package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/interview-agent/internal/config"
	"alfredoptarigan/interview-agent/internal/models"
	"alfredoptarigan/interview-agent/internal/repositories"
	"alfredoptarigan/interview-agent/internal/services"
)

const testHeader = "X-User-ID"

type scriptedLLM struct {
	questions []string
	calls     int
}

func (s *scriptedLLM) Complete(_ context.Context, system string, _ []models.Message, _ string) (string, error) {
	if system != services.DefaultSystemPrompt {
		return "Score: 7\nSummary: Solid answer.", nil
	}
	q := "Tell me about yourself."
	if s.calls < len(s.questions) {
		q = s.questions[s.calls]
	}
	s.calls++
	return q, nil
}

func (s *scriptedLLM) Provider() string { return "fake" }
func (s *scriptedLLM) Model() string    { return "fake-model" }

type stubPDF struct{}

func (stubPDF) ExtractPages(data []byte) ([]string, error) {
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return nil, errors.New("not a pdf")
	}
	return []string{"Jane Doe\n\n\n  Go developer  ", "Skills: Go, SQL"}, nil
}

type copyConverter struct{}

func (copyConverter) ConvertToWav(_ context.Context, src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0600)
}

type echoRecognizer struct{}

func (echoRecognizer) Recognize(_ context.Context, wav []byte) (string, error) {
	return strings.TrimSpace(string(wav)), nil
}

func newTestApp(t *testing.T) *fiber.App {
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

	sessionRepo := repositories.NewSessionRepository(db)
	interviewRepo := repositories.NewInterviewRepository(db)
	resumeRepo := repositories.NewResumeRepository(db)

	llm := &scriptedLLM{questions: []string{"Why Go?", "Describe a hard bug."}}
	sessions := services.NewSessionService(sessionRepo, nil)
	conversation := services.NewConversationService(sessionRepo)

	svc := Services{
		Sessions:   sessions,
		Resumes:    services.NewResumeService(sessions, sessionRepo, resumeRepo, stubPDF{}, nil),
		Interviews: services.NewInterviewService(sessions, conversation, interviewRepo, llm, nil),
		Transcription: services.NewTranscriptionService(
			sessions, conversation, services.NewStorageService(t.TempDir()), copyConverter{}, echoRecognizer{}, nil,
		),
		Evaluator: services.NewEvaluatorService(interviewRepo, llm, nil),
	}

	return NewRouter(RouterConfig{
		AllowOrigins: []string{"http://localhost:5173"},
		UserIDHeader: testHeader,
		MaxFileSize:  1024,
	}, svc, nil)
}

func multipartRequest(t *testing.T, target, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func do(t *testing.T, app *fiber.App, req *http.Request, userID string, out any) *http.Response {
	t.Helper()

	if userID != "" {
		req.Header.Set(testHeader, userID)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			t.Fatalf("decode %s %s (%d): %v: %s", req.Method, req.URL.Path, resp.StatusCode, err, body)
		}
	}
	return resp
}

type errorBody struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func TestRootAndIdentityHeader(t *testing.T) {
	app := newTestApp(t)

	var body map[string]string
	resp := do(t, app, httptest.NewRequest(http.MethodGet, "/", nil), "", &body)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["message"] != "Interview API is running" {
		t.Fatalf("message = %q", body["message"])
	}
	if resp.Header.Get(testHeader) == "" {
		t.Fatalf("expected minted %s header", testHeader)
	}

	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/health", nil), "abc", nil)
	if got := resp.Header.Get(testHeader); got != "abc" {
		t.Fatalf("echoed header = %q", got)
	}
}

func TestInterviewFlow(t *testing.T) {
	app := newTestApp(t)
	const user = "user-flow"

	var upload models.UploadResponse
	resp := do(t, app, multipartRequest(t, "/resume/upload", "cv.pdf", []byte("%PDF-1.4 fake")), user, &upload)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("upload status = %d", resp.StatusCode)
	}
	if !upload.Success || upload.ParsedData.PageCount != 2 || upload.ParsedData.Filename != "cv.pdf" {
		t.Fatalf("unexpected upload response: %+v", upload)
	}

	var job models.JobDetailsResponse
	resp = do(t, app, formRequest("/job/update_details", url.Values{
		"job_description": {"Backend engineer building Go services for a payments platform with strict latency goals"},
		"company_details": {"Fintech"},
	}), user, &job)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("job status = %d", resp.StatusCode)
	}
	if job.JobDescription != "Backend engineer building Go services for a payments platform with" {
		t.Fatalf("job preview = %q", job.JobDescription)
	}

	var question models.QuestionResponse
	resp = do(t, app, httptest.NewRequest(http.MethodPost, "/question/generate", nil), user, &question)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("generate status = %d", resp.StatusCode)
	}
	if question.Question != "Why Go?" || question.InterviewID != user {
		t.Fatalf("unexpected question: %+v", question)
	}

	var transcript models.TranscriptionResponse
	resp = do(t, app, multipartRequest(t, "/transcribe", "answer.webm", []byte("Because of goroutines")), user, &transcript)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("transcribe status = %d", resp.StatusCode)
	}
	if transcript.Text != "Because of goroutines" {
		t.Fatalf("transcript = %q", transcript.Text)
	}

	resp = do(t, app, httptest.NewRequest(http.MethodPost, "/question/generate?user_input="+url.QueryEscape("Because of goroutines"), nil), user, &question)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("follow-up status = %d", resp.StatusCode)
	}
	if question.Question != "Describe a hard bug." {
		t.Fatalf("follow-up question = %q", question.Question)
	}

	var analysis models.Analysis
	resp = do(t, app, httptest.NewRequest(http.MethodPost, "/evaluate", nil), user, &analysis)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("evaluate status = %d", resp.StatusCode)
	}
	if len(analysis) != len(services.Rubric) {
		t.Fatalf("analysis has %d categories, want %d", len(analysis), len(services.Rubric))
	}
	for _, category := range services.Rubric {
		if got := analysis[category.Name]; got.Score != 7 || got.Summary != "Solid answer." {
			t.Fatalf("%s = %+v", category.Name, got)
		}
	}

	var interview models.InterviewResponse
	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/interview", nil), user, &interview)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("interview status = %d", resp.StatusCode)
	}
	if len(interview.Conversation) != 4 {
		t.Fatalf("conversation length = %d, want 4", len(interview.Conversation))
	}
	if len(interview.Analysis) != len(services.Rubric) {
		t.Fatalf("stored analysis has %d categories", len(interview.Analysis))
	}
}

func TestGenerateWithoutSessionData(t *testing.T) {
	app := newTestApp(t)

	var body errorBody
	resp := do(t, app, httptest.NewRequest(http.MethodPost, "/question/generate", nil), "fresh", &body)
	if resp.StatusCode != fiber.StatusBadRequest || body.Code != fiber.StatusBadRequest {
		t.Fatalf("status = %d body = %+v", resp.StatusCode, body)
	}
}

func TestEvaluateUnknownInterview(t *testing.T) {
	app := newTestApp(t)

	var body errorBody
	resp := do(t, app, httptest.NewRequest(http.MethodPost, "/evaluate", nil), "nobody", &body)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body.Error == "" {
		t.Fatalf("expected error message")
	}

	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/interview", nil), "nobody", &body)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("interview status = %d", resp.StatusCode)
	}
}

func TestUploadRejectsInvalidFiles(t *testing.T) {
	app := newTestApp(t)

	var body errorBody
	resp := do(t, app, multipartRequest(t, "/resume/upload", "cv.docx", []byte("%PDF")), "u", &body)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("extension status = %d", resp.StatusCode)
	}

	resp = do(t, app, multipartRequest(t, "/resume/upload", "cv.pdf", bytes.Repeat([]byte("a"), 2048)), "u", &body)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("size status = %d", resp.StatusCode)
	}

	resp = do(t, app, httptest.NewRequest(http.MethodPost, "/resume/upload", nil), "u", &body)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("missing file status = %d", resp.StatusCode)
	}
}

func TestUpdateDetailsRequiresBothFields(t *testing.T) {
	app := newTestApp(t)

	var body errorBody
	resp := do(t, app, formRequest("/job/update_details", url.Values{"job_description": {"Go"}}), "u", &body)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.ErrInterviewNotFound, fiber.StatusNotFound},
		{services.ErrNoSpeech, fiber.StatusBadRequest},
		{services.ErrNoConversation, fiber.StatusBadRequest},
		{fiber.NewError(fiber.StatusRequestEntityTooLarge, "too big"), fiber.StatusRequestEntityTooLarge},
		{services.ErrGeneration, fiber.StatusInternalServerError},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Errorf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

type silentRecognizer struct{}

func (silentRecognizer) Recognize(context.Context, []byte) (string, error) { return "", nil }

func TestTranscribeNoSpeech(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	sessionRepo := repositories.NewSessionRepository(db)
	sessions := services.NewSessionService(sessionRepo, nil)
	app := NewRouter(RouterConfig{UserIDHeader: testHeader, MaxFileSize: 1024}, Services{
		Sessions: sessions,
		Transcription: services.NewTranscriptionService(
			sessions,
			services.NewConversationService(sessionRepo),
			services.NewStorageService(t.TempDir()),
			copyConverter{},
			silentRecognizer{},
			nil,
		),
	}, nil)

	var body errorBody
	resp := do(t, app, multipartRequest(t, "/transcribe", "answer.webm", []byte("...")), "quiet", &body)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body.Error != "No speech could be recognized." {
		t.Fatalf("error = %q", body.Error)
	}
}
