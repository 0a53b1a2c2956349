package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ppiankov/revizor/internal/config"
	"github.com/ppiankov/revizor/internal/review"
)

// fakeAI returns canned responses and records the prompts it saw.
type fakeAI struct {
	mu        sync.Mutex
	pingErr   error
	genErr    error
	response  string
	generated int
	prompts   []string
}

func (f *fakeAI) Generate(_ context.Context, model, prompt string) (string, error) {
	f.mu.Lock()
	f.generated++
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.genErr != nil {
		return "", f.genErr
	}
	if f.response != "" {
		return f.response, nil
	}
	return "[]", nil
}

func (f *fakeAI) Ping(context.Context) error { return f.pingErr }

func (f *fakeAI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generated
}

func (f *fakeAI) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestReviewStaticOnly(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"auth.py": "password = \"12345\"\n",
		"app.js":  "var x = 1;\nconsole.log(x);\n",
	})

	cfg := config.Defaults()
	cfg.Analysis.AI.Enabled = false

	report, err := New(cfg, nil).Review(context.Background(), dir)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if report.FilesReviewed != 2 {
		t.Errorf("files_reviewed = %d, want 2", report.FilesReviewed)
	}
	if report.SecurityIssues == 0 {
		t.Error("expected a security issue from the hardcoded password")
	}
	if report.IssuesFound == 0 {
		t.Error("expected issues")
	}
}

func TestReviewEmptyDir(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.Analysis.AI.Enabled = false

	report, err := New(cfg, nil).Review(context.Background(), dir)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if report.FilesReviewed != 0 || report.IssuesFound != 0 {
		t.Errorf("empty dir report: %+v", report)
	}
}

func TestReviewMissingPath(t *testing.T) {
	cfg := config.Defaults()
	cfg.Analysis.AI.Enabled = false
	if _, err := New(cfg, nil).Review(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestReviewModelIssuesMerged(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.py": "x = 1\n"})

	ai := &fakeAI{response: `[{"line": 1, "severity": "medium", "message": "name x is meaningless"}]`}
	cfg := config.Defaults()

	report, err := New(cfg, ai).Review(context.Background(), dir)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}

	var found bool
	for _, fr := range report.Files {
		for _, is := range fr.Issues {
			if is.Source == review.SourceAI {
				found = true
			}
		}
	}
	if !found {
		t.Error("no model-sourced issues in report")
	}
	// quality and security prompt per file
	if ai.calls() != 2 {
		t.Errorf("generate calls = %d, want 2", ai.calls())
	}
}

func TestReviewModelUnreachableDegrades(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.py": "password = \"12345\"\n"})

	ai := &fakeAI{pingErr: errors.New("connection refused")}
	cfg := config.Defaults()

	report, err := New(cfg, ai).Review(context.Background(), dir)
	if err != nil {
		t.Fatalf("Review should degrade, got %v", err)
	}
	if len(report.Warnings) == 0 {
		t.Fatal("expected a warning about the model endpoint")
	}
	if report.SecurityIssues == 0 {
		t.Error("static findings lost in degraded run")
	}
	if ai.calls() != 0 {
		t.Errorf("generate called %d times after failed ping", ai.calls())
	}
}

func TestReviewModelRequired(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.py": "x = 1\n"})

	ai := &fakeAI{pingErr: errors.New("connection refused")}
	cfg := config.Defaults()
	cfg.Analysis.AI.Required = true

	_, err := New(cfg, ai).Review(context.Background(), dir)
	var mu *ModelUnavailableError
	if !errors.As(err, &mu) {
		t.Fatalf("err = %v, want ModelUnavailableError", err)
	}
	if mu.Host != cfg.Models.Host {
		t.Errorf("host = %q", mu.Host)
	}
}

func TestReviewPerFileModelFailureWarns(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.py": "x = 1\n"})

	ai := &fakeAI{genErr: errors.New("model busy")}
	cfg := config.Defaults()

	report, err := New(cfg, ai).Review(context.Background(), dir)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if len(report.Warnings) == 0 {
		t.Error("expected warnings for failed generations")
	}
	if report.FilesReviewed != 1 {
		t.Errorf("files_reviewed = %d", report.FilesReviewed)
	}
}

func TestReviewLanguageFilter(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"a.py": "x = 1\n",
		"b.go": "package b\n",
	})

	cfg := config.Defaults()
	cfg.Analysis.AI.Enabled = false
	cfg.Analysis.Languages = []string{"python"}

	report, err := New(cfg, nil).Review(context.Background(), dir)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if report.FilesReviewed != 1 {
		t.Fatalf("files_reviewed = %d, want 1", report.FilesReviewed)
	}
	if report.Files[0].Path != "a.py" {
		t.Errorf("reviewed %q, want a.py", report.Files[0].Path)
	}
}

func TestReviewSkipsBinary(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "blob.py"), []byte{0xff, 0xfe, 0x00}, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ok.py"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Defaults()
	cfg.Analysis.AI.Enabled = false

	report, err := New(cfg, nil).Review(context.Background(), dir)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if report.FilesReviewed != 1 {
		t.Errorf("files_reviewed = %d, want 1", report.FilesReviewed)
	}
	var warned bool
	for _, w := range report.Warnings {
		if strings.Contains(w, "blob.py") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("no warning for skipped binary, warnings = %v", report.Warnings)
	}
}

func TestReviewConcurrencyBound(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < 12; i++ {
		files[fmt.Sprintf("f%02d.py", i)] = "x = 1\n"
	}
	dir := writeTree(t, files)

	ai := &fakeAI{}
	cfg := config.Defaults()
	cfg.Analysis.AI.Concurrency = 3

	report, err := New(cfg, ai).Review(context.Background(), dir)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if report.FilesReviewed != 12 {
		t.Errorf("files_reviewed = %d", report.FilesReviewed)
	}
	if ai.calls() != 24 {
		t.Errorf("generate calls = %d, want 24", ai.calls())
	}
}

// cancelAI cancels the run from inside the first model call, as a user
// hitting ctrl-c mid pass would.
type cancelAI struct {
	cancel context.CancelFunc
}

func (c *cancelAI) Ping(context.Context) error { return nil }

func (c *cancelAI) Generate(ctx context.Context, model, prompt string) (string, error) {
	c.cancel()
	return "", ctx.Err()
}

func TestReviewCancellationKeepsStaticIssues(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"auth.py": "password = \"12345\"\n",
		"app.py":  "x = 1\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Defaults()
	cfg.Analysis.AI.Concurrency = 1

	report, err := New(cfg, &cancelAI{cancel: cancel}).Review(ctx, dir)
	if err != nil {
		t.Fatalf("cancellation should not discard the run: %v", err)
	}
	if report.FilesReviewed != 2 {
		t.Errorf("files_reviewed = %d, want 2", report.FilesReviewed)
	}
	if report.SecurityIssues == 0 {
		t.Error("static security issue lost on cancellation")
	}
	found := false
	for _, w := range report.Warnings {
		if strings.Contains(w, "interrupted") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an interruption warning, got %v", report.Warnings)
	}
}

func TestReviewModelSeesTruncatedPrefix(t *testing.T) {
	content := "head = 1\n" + strings.Repeat("tail = 2\n", 50)
	dir := writeTree(t, map[string]string{"big.py": content})

	ai := &fakeAI{}
	cfg := config.Defaults()
	cfg.Models.MaxContentBytes = len("head = 1\n")
	cfg.Analysis.Security.Enabled = false

	report, err := New(cfg, ai).Review(context.Background(), dir)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if report.FilesReviewed != 1 {
		t.Fatalf("files_reviewed = %d, want 1", report.FilesReviewed)
	}

	prompts := ai.seen()
	if len(prompts) != 1 {
		t.Fatalf("generate calls = %d, want 1", len(prompts))
	}
	if !strings.Contains(prompts[0], "head = 1") {
		t.Error("prompt should contain the file prefix")
	}
	if strings.Contains(prompts[0], "tail = 2") {
		t.Error("prompt should not contain content past the byte limit")
	}
}
