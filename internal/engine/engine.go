package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ppiankov/revizor/internal/config"
	"github.com/ppiankov/revizor/internal/ollama"
	"github.com/ppiankov/revizor/internal/review"
	"github.com/ppiankov/revizor/internal/rules"
	"github.com/ppiankov/revizor/internal/scanner"
)

// AIClient is what the engine needs from the model backend. Satisfied by
// *ollama.Client; tests substitute fakes.
type AIClient interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
	Ping(ctx context.Context) error
}

// ModelUnavailableError reports that the model endpoint could not be reached
// while the run was configured to require it. Mapped to a dedicated exit
// code at the CLI boundary.
type ModelUnavailableError struct {
	Host string
	Err  error
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("model endpoint %s unavailable: %v", e.Host, e.Err)
}

func (e *ModelUnavailableError) Unwrap() error { return e.Err }

// Engine runs the static catalog and the optional model pass over a path.
type Engine struct {
	cfg     *config.Settings
	catalog *rules.Catalog
	ai      AIClient
	langSet map[rules.Language]bool
}

// New builds an engine from settings. ai may be nil to disable the model
// pass regardless of configuration.
func New(cfg *config.Settings, ai AIClient) *Engine {
	e := &Engine{
		cfg: cfg,
		catalog: rules.NewCatalog(rules.Options{
			SecurityChecks:      cfg.Analysis.Security.Enabled,
			SecretChecks:        cfg.Analysis.Security.Secrets,
			MaxLineLength:       cfg.Analysis.MaxLineLength,
			MaxFileLines:        cfg.Analysis.MaxFileLines,
			MaxFunctionLines:    cfg.Analysis.MaxFunctionLines,
			ComplexityThreshold: cfg.Analysis.ComplexityThreshold,
		}),
		ai: ai,
	}
	if len(cfg.Analysis.Languages) > 0 {
		e.langSet = make(map[rules.Language]bool, len(cfg.Analysis.Languages))
		for _, name := range cfg.Analysis.Languages {
			if lang := rules.ParseLanguage(name); lang != rules.LangUnknown {
				e.langSet[lang] = true
			}
		}
	}
	return e
}

// aiJob carries one file through the model pass.
type aiJob struct {
	rel     string
	lang    rules.Language
	content string
}

// Review analyzes path and returns the aggregated report. The static pass
// always runs; the model pass runs when enabled and the endpoint answers.
// A nil error with warnings in the report means a degraded but usable run.
// Cancellation stops further work but keeps everything gathered so far.
func (e *Engine) Review(ctx context.Context, path string) (*review.Report, error) {
	files, err := scanner.Collect(path, scanner.Options{ExcludePatterns: e.cfg.Exclude})
	if err != nil {
		return nil, err
	}

	agg := review.NewAggregator(path)
	var jobs []aiJob
	interrupted := false

	for _, f := range files {
		if e.langSet != nil && !e.langSet[f.Language] {
			continue
		}
		if ctx.Err() != nil {
			interrupted = true
			break
		}

		content, err := scanner.Read(f.Path)
		if err != nil {
			if errors.Is(err, scanner.ErrNotText) {
				agg.AddWarning(fmt.Sprintf("skipped %s: not a text file", f.Rel))
			} else {
				agg.AddWarning(fmt.Sprintf("skipped %s: %v", f.Rel, err))
			}
			slog.Debug("file skipped", "file", f.Rel, "err", err)
			continue
		}

		issues, metrics := e.catalog.Scan(f.Language, f.Rel, content)
		agg.AddFile(&review.FileReport{
			Path:     f.Rel,
			Language: f.Language.String(),
			Metrics:  metrics,
			Issues:   issues,
		})

		jobs = append(jobs, aiJob{rel: f.Rel, lang: f.Language, content: content})
	}

	if interrupted {
		agg.AddWarning(fmt.Sprintf("review interrupted: %v", ctx.Err()))
	} else if err := e.runModelPass(ctx, agg, jobs); err != nil {
		return nil, err
	}

	report := agg.Report()
	slog.Info("review complete",
		"path", path,
		"files", report.FilesReviewed,
		"issues", report.IssuesFound,
		"duration", report.Duration)
	return report, nil
}

// runModelPass fans the collected files out to the model with bounded
// concurrency. Per-file failures degrade to warnings; only an unreachable
// endpoint under analysis.ai.required aborts the run. Cancellation drops
// the outstanding calls and keeps the issues gathered so far.
func (e *Engine) runModelPass(ctx context.Context, agg *review.Aggregator, jobs []aiJob) error {
	if e.ai == nil || !e.cfg.Analysis.AI.Enabled || len(jobs) == 0 {
		return nil
	}

	if err := e.ai.Ping(ctx); err != nil {
		if e.cfg.Analysis.AI.Required {
			return &ModelUnavailableError{Host: e.cfg.Models.Host, Err: err}
		}
		agg.AddWarning(fmt.Sprintf("model review skipped: %v", err))
		slog.Warn("model endpoint unreachable, static results only", "host", e.cfg.Models.Host, "err", err)
		return nil
	}

	work := make(chan aiJob, len(jobs))
	var wg sync.WaitGroup

	for i := 0; i < e.cfg.Analysis.AI.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range work {
				if ctx.Err() != nil {
					return
				}
				e.reviewWithModel(ctx, agg, job)
			}
		}()
	}

	for _, job := range jobs {
		work <- job
	}
	close(work)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		agg.AddWarning(fmt.Sprintf("model review interrupted: %v", err))
	}
	return nil
}

func (e *Engine) reviewWithModel(ctx context.Context, agg *review.Aggregator, job aiJob) {
	content, truncated := scanner.Truncate(job.content, e.cfg.Models.MaxContentBytes)
	if truncated {
		slog.Debug("content truncated for prompt", "file", job.rel)
	}
	lang := job.lang.String()

	raw, err := e.ai.Generate(ctx, e.cfg.PrimaryModel(), ollama.QualityPrompt(lang, job.rel, content))
	if err != nil {
		agg.AddWarning(fmt.Sprintf("model review failed for %s: %v", job.rel, err))
		slog.Warn("quality review failed", "file", job.rel, "err", err)
	} else {
		agg.AddIssues(job.rel, ollama.ParseIssues(raw, job.rel, review.CategoryQuality))
	}

	if !e.cfg.Analysis.Security.Enabled {
		return
	}

	raw, err = e.ai.Generate(ctx, e.cfg.CodeModel(), ollama.SecurityPrompt(lang, job.rel, content))
	if err != nil {
		agg.AddWarning(fmt.Sprintf("security review failed for %s: %v", job.rel, err))
		slog.Warn("security review failed", "file", job.rel, "err", err)
		return
	}
	agg.AddIssues(job.rel, ollama.ParseIssues(raw, job.rel, review.CategorySecurity))
}
