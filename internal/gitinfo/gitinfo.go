// Package gitinfo collects repository metadata for reviewed paths by
// shelling out to git. Every function degrades cleanly when the path is
// not a repository or git is not installed.
package gitinfo

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Info is the repository summary attached to reports.
type Info struct {
	Root      string   `json:"root"`
	Branch    string   `json:"branch"`
	RemoteURL string   `json:"remote_url,omitempty"`
	Commit    *Commit  `json:"last_commit,omitempty"`
	Commits   int      `json:"commit_count"`
	Authors   []string `json:"authors,omitempty"`
}

// Commit describes one commit from the log.
type Commit struct {
	Hash    string    `json:"hash"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
	Message string    `json:"message"`
}

// IsRepository reports whether path is inside a git work tree.
func IsRepository(ctx context.Context, path string) bool {
	out, err := runGit(ctx, path, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// Detect gathers repository metadata for path. Returns nil, nil when path
// is not inside a repository.
func Detect(ctx context.Context, path string) (*Info, error) {
	dir, err := workDir(path)
	if err != nil {
		return nil, err
	}
	if !IsRepository(ctx, dir) {
		return nil, nil
	}

	info := &Info{}

	if out, err := runGit(ctx, dir, "rev-parse", "--show-toplevel"); err == nil {
		info.Root = strings.TrimSpace(out)
	}
	if out, err := runGit(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD"); err == nil {
		info.Branch = strings.TrimSpace(out)
	}
	if out, err := runGit(ctx, dir, "remote", "get-url", "origin"); err == nil {
		info.RemoteURL = strings.TrimSpace(out)
	}
	if out, err := runGit(ctx, dir, "rev-list", "--count", "HEAD"); err == nil {
		info.Commits, _ = strconv.Atoi(strings.TrimSpace(out))
	}
	if out, err := runGit(ctx, dir, "shortlog", "-sn", "--no-merges", "HEAD"); err == nil {
		for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
			parts := strings.SplitN(strings.TrimSpace(line), "\t", 2)
			if len(parts) == 2 {
				info.Authors = append(info.Authors, parts[1])
			}
		}
	}
	if commits, err := Log(ctx, dir, 1); err == nil && len(commits) > 0 {
		info.Commit = &commits[0]
	}

	return info, nil
}

// Log returns the most recent commits, newest first. limit <= 0 means 10.
func Log(ctx context.Context, path string, limit int) ([]Commit, error) {
	dir, err := workDir(path)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	// unit separator keeps subjects with tabs intact
	out, err := runGit(ctx, dir, "log", fmt.Sprintf("-%d", limit), "--pretty=format:%H%x1f%an%x1f%aI%x1f%s")
	if err != nil {
		return nil, fmt.Errorf("git log: %w", err)
	}

	var commits []Commit
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		parts := strings.Split(line, "\x1f")
		if len(parts) != 4 {
			continue
		}
		c := Commit{Hash: parts[0], Author: parts[1], Message: parts[3]}
		c.Date, _ = time.Parse(time.RFC3339, parts[2])
		commits = append(commits, c)
	}
	return commits, nil
}

// ChangedFiles returns paths with uncommitted changes, relative to the
// repository root.
func ChangedFiles(ctx context.Context, path string) ([]string, error) {
	dir, err := workDir(path)
	if err != nil {
		return nil, err
	}

	out, err := runGit(ctx, dir, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("git status: %w", err)
	}

	var files []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if len(line) < 4 {
			continue
		}
		// porcelain format: XY <space> filename
		file := strings.TrimSpace(line[2:])
		if idx := strings.Index(file, " -> "); idx >= 0 {
			file = file[idx+4:]
		}
		if file != "" {
			files = append(files, file)
		}
	}
	return files, nil
}

func workDir(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat path: %w", err)
	}
	if info.IsDir() {
		return path, nil
	}
	return filepath.Dir(path), nil
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
