package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds persistent defaults loaded from a .revizor.yml file.
type Settings struct {
	Models   ModelConfig    `yaml:"models"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Git      GitConfig      `yaml:"git"`
	Output   OutputConfig   `yaml:"output"`
	History  HistoryConfig  `yaml:"history"`

	// Files matched against these globs are never reviewed
	Exclude []string `yaml:"exclude,omitempty"`
}

// ModelConfig points at the local Ollama endpoint and the models to use.
type ModelConfig struct {
	Host    string        `yaml:"host"`
	Primary string        `yaml:"primary"` // general review model
	Code    string        `yaml:"code"`    // code-specialized model, falls back to Primary
	Timeout time.Duration `yaml:"timeout"`

	// Cap on file content sent in a single prompt
	MaxContentBytes int `yaml:"max_content_bytes"`
}

// AnalysisConfig controls which checks run and their thresholds.
type AnalysisConfig struct {
	Languages []string `yaml:"languages,omitempty"` // empty = every supported language

	MaxLineLength       int `yaml:"max_line_length"`
	MaxFileLines        int `yaml:"max_file_lines"`
	MaxFunctionLines    int `yaml:"max_function_lines"`
	ComplexityThreshold int `yaml:"complexity_threshold"`

	Security SecurityConfig `yaml:"security"`
	AI       AIConfig       `yaml:"ai"`
}

// SecurityConfig toggles the security rule groups.
type SecurityConfig struct {
	Enabled bool `yaml:"enabled"`
	Secrets bool `yaml:"secrets"`
}

// AIConfig controls the model-backed review pass.
type AIConfig struct {
	Enabled     bool `yaml:"enabled"`
	Required    bool `yaml:"required"` // fail the run when the endpoint is unreachable
	Concurrency int  `yaml:"concurrency"`
}

// GitConfig controls repository metadata collection.
type GitConfig struct {
	Enabled bool `yaml:"enabled"`
}

// OutputConfig selects report formats and destinations.
type OutputConfig struct {
	Console bool   `yaml:"console"`
	JSON    bool   `yaml:"json"`
	HTML    bool   `yaml:"html"`
	SARIF   bool   `yaml:"sarif"`
	Dir     string `yaml:"dir"`
	WebPort int    `yaml:"web_port"`
}

// HistoryConfig locates the run history database.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// Defaults returns the settings used when no config file is present.
func Defaults() *Settings {
	return &Settings{
		Models: ModelConfig{
			Host:            "http://localhost:11434",
			Primary:         "llama3.2",
			Code:            "codellama",
			Timeout:         120 * time.Second,
			MaxContentBytes: 16384,
		},
		Analysis: AnalysisConfig{
			MaxLineLength:       120,
			MaxFileLines:        500,
			MaxFunctionLines:    50,
			ComplexityThreshold: 10,
			Security:            SecurityConfig{Enabled: true, Secrets: true},
			AI:                  AIConfig{Enabled: true, Concurrency: 2},
		},
		Git: GitConfig{Enabled: true},
		Output: OutputConfig{
			Console: true,
			Dir:     "reports",
			WebPort: 8080,
		},
		History: HistoryConfig{Path: ".revizor/history.db"},
	}
}

// LoadSettings reads a YAML config file over the defaults.
// If the file does not exist, it returns the defaults and nil error.
func LoadSettings(path string) (*Settings, error) {
	s := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return s, nil
}

// Validate rejects values that would make a run misbehave in confusing ways.
func (s *Settings) Validate() error {
	if s.Models.Host == "" {
		return fmt.Errorf("models.host must not be empty")
	}
	if s.Models.Timeout <= 0 {
		return fmt.Errorf("models.timeout must be positive")
	}
	if s.Analysis.AI.Concurrency < 1 {
		return fmt.Errorf("analysis.ai.concurrency must be at least 1")
	}
	if s.Analysis.MaxLineLength < 0 || s.Analysis.MaxFileLines < 0 {
		return fmt.Errorf("analysis thresholds must not be negative")
	}
	if s.Output.WebPort < 1 || s.Output.WebPort > 65535 {
		return fmt.Errorf("output.web_port %d out of range", s.Output.WebPort)
	}
	return nil
}

// PrimaryModel returns the model to use for quality prompts.
func (s *Settings) PrimaryModel() string { return s.Models.Primary }

// CodeModel returns the code-specialized model, or the primary model when
// none is configured.
func (s *Settings) CodeModel() string {
	if s.Models.Code != "" {
		return s.Models.Code
	}
	return s.Models.Primary
}
