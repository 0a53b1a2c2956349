package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ppiankov/revizor/internal/review"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleReport(path string, issues int) *review.Report {
	agg := review.NewAggregator(path)
	fr := &review.FileReport{Path: "a.py", Language: "python"}
	for i := 0; i < issues; i++ {
		fr.Issues = append(fr.Issues, review.Issue{
			File:     "a.py",
			Line:     i + 1,
			Category: review.CategorySecurity,
			Severity: review.SeverityHigh,
			Message:  "hardcoded password or credentials",
			Source:   review.SourceStatic,
		})
	}
	agg.AddFile(fr)
	return agg.Report()
}

func TestSaveAndGet(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	want := sampleReport("/repo", 2)
	id, err := s.Save(ctx, want)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == 0 {
		t.Fatal("zero run id")
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Path != "/repo" || got.IssuesFound != 2 || got.SecurityIssues != 2 {
		t.Errorf("got %+v", got)
	}
	if len(got.Files) != 1 || got.Files[0].Path != "a.py" {
		t.Errorf("files = %+v", got.Files)
	}
}

func TestGetNotFound(t *testing.T) {
	s := openStore(t)
	_, err := s.Get(context.Background(), 9999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := s.Save(ctx, sampleReport("/repo", i)); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	entries, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].ID <= entries[1].ID || entries[1].ID <= entries[2].ID {
		t.Errorf("not newest first: %+v", entries)
	}
	if entries[0].IssuesFound != 2 {
		t.Errorf("newest entry issues = %d, want 2", entries[0].IssuesFound)
	}
	if entries[0].CreatedAt.IsZero() {
		t.Error("zero created_at")
	}
}

func TestListLimit(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := s.Save(ctx, sampleReport("/repo", 0)); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	id, err := s.Save(context.Background(), sampleReport("/repo", 1))
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	got, err := s2.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got.IssuesFound != 1 {
		t.Errorf("issues = %d", got.IssuesFound)
	}
}
