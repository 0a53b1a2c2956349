// Package web exposes the review engine over HTTP for the browser frontend
// and for CI hooks that prefer an API over the CLI.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/revizor/internal/config"
	"github.com/ppiankov/revizor/internal/gitinfo"
	"github.com/ppiankov/revizor/internal/history"
	"github.com/ppiankov/revizor/internal/review"
)

// Reviewer runs one review. Satisfied by *engine.Engine.
type Reviewer interface {
	Review(ctx context.Context, path string) (*review.Report, error)
}

// Pinger checks the model endpoint. Satisfied by *ollama.Client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Job tracks one asynchronous scan.
type Job struct {
	ID     int64  `json:"id"`
	Path   string `json:"path"`
	Status string `json:"status"` // running, done, failed
	RunID  int64  `json:"run_id,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Server wires the HTTP API together.
type Server struct {
	cfg      *config.Settings
	reviewer Reviewer
	store    *history.Store
	pinger   Pinger
	router   *gin.Engine

	mu     sync.Mutex
	nextID int64
	jobs   map[int64]*Job
}

// New builds the server and its routes. pinger may be nil when the model
// pass is disabled.
func New(cfg *config.Settings, reviewer Reviewer, store *history.Store, pinger Pinger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:      cfg,
		reviewer: reviewer,
		store:    store,
		pinger:   pinger,
		router:   gin.New(),
		jobs:     make(map[int64]*Job),
	}
	s.router.Use(gin.Recovery())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/api/health", s.handleHealth)
	s.router.GET("/api/config", s.handleConfig)

	s.router.POST("/api/scan", s.handleScan)
	s.router.GET("/api/scan/:id", s.handleScanStatus)

	s.router.GET("/api/results", s.handleResults)
	s.router.GET("/api/results/:id", s.handleResult)

	s.router.POST("/api/git/info", s.handleGitInfo)
	s.router.POST("/api/git/commits", s.handleGitCommits)
}

// Handler returns the http handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until the listener fails. Blocking.
func (s *Server) Run(addr string) error {
	slog.Info("web server listening", "addr", addr)
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	resp := gin.H{"status": "ok", "model_host": s.cfg.Models.Host}
	if s.pinger != nil {
		if err := s.pinger.Ping(c.Request.Context()); err != nil {
			resp["model"] = "unreachable"
		} else {
			resp["model"] = "ok"
		}
	} else {
		resp["model"] = "disabled"
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleConfig(c *gin.Context) {
	// settings carry no secrets, safe to echo fully
	c.JSON(http.StatusOK, gin.H{
		"models":   s.cfg.Models,
		"analysis": s.cfg.Analysis,
		"git":      s.cfg.Git,
		"output":   s.cfg.Output,
		"exclude":  s.cfg.Exclude,
	})
}

type scanRequest struct {
	Path string `json:"path" binding:"required"`
}

func (s *Server) handleScan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	s.mu.Lock()
	s.nextID++
	job := &Job{ID: s.nextID, Path: req.Path, Status: "running"}
	s.jobs[job.ID] = job
	s.mu.Unlock()

	// the request context dies with the response; scans outlive it
	go s.runScan(context.Background(), job)

	c.JSON(http.StatusAccepted, job)
}

func (s *Server) runScan(ctx context.Context, job *Job) {
	report, err := s.reviewer.Review(ctx, job.Path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		job.Status = "failed"
		job.Error = err.Error()
		slog.Error("scan failed", "job", job.ID, "path", job.Path, "err", err)
		return
	}

	if s.store != nil {
		runID, err := s.store.Save(ctx, report)
		if err != nil {
			job.Status = "failed"
			job.Error = fmt.Sprintf("save report: %v", err)
			return
		}
		job.RunID = runID
	}
	job.Status = "done"
	slog.Info("scan finished", "job", job.ID, "path", job.Path, "issues", report.IssuesFound)
}

func (s *Server) handleScanStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	s.mu.Lock()
	job, ok := s.jobs[id]
	var cp Job
	if ok {
		cp = *job
	}
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, cp)
}

func (s *Server) handleResults(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusOK, gin.H{"runs": []history.Entry{}})
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	entries, err := s.store.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": entries})
}

func (s *Server) handleResult(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history disabled"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	report, err := s.store.Get(c.Request.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

type gitInfoRequest struct {
	Path string `json:"path" binding:"required"`
}

func (s *Server) handleGitInfo(c *gin.Context) {
	var req gitInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	info, err := gitinfo.Detect(c.Request.Context(), req.Path)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if info == nil {
		c.JSON(http.StatusOK, gin.H{"git": false})
		return
	}

	changed, err := gitinfo.ChangedFiles(c.Request.Context(), req.Path)
	if err != nil {
		slog.Debug("changed files unavailable", "path", req.Path, "err", err)
	}
	if changed == nil {
		changed = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"git": true, "info": info, "changed_files": changed})
}

type gitCommitsRequest struct {
	Path  string `json:"path" binding:"required"`
	Limit int    `json:"limit"`
}

func (s *Server) handleGitCommits(c *gin.Context) {
	var req gitCommitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	if !gitinfo.IsRepository(c.Request.Context(), req.Path) {
		c.JSON(http.StatusOK, gin.H{"git": false, "commits": []gitinfo.Commit{}})
		return
	}

	commits, err := gitinfo.Log(c.Request.Context(), req.Path, req.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if commits == nil {
		commits = []gitinfo.Commit{}
	}
	c.JSON(http.StatusOK, gin.H{"git": true, "commits": commits})
}
