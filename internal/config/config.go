// Package config loads chapterfix settings from YAML, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "chapterfix.yaml"

// Config holds every tunable of the pipeline.
type Config struct {
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`
	Pattern   string `yaml:"pattern"`
	Strict    bool   `yaml:"strict"`

	Bullets struct {
		SpacesPerLevel int      `yaml:"spaces_per_level"`
		Markers        []string `yaml:"markers"`
		MaxDepth       int      `yaml:"max_depth"`
		InputIndent    int      `yaml:"input_indent"` // 0 infers it per list
	} `yaml:"bullets"`

	Xref struct {
		Mode string `yaml:"mode"` // compat or strict
	} `yaml:"xref"`

	Rules struct {
		Files   []string      `yaml:"files"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"rules"`

	LLM struct {
		Provider          string  `yaml:"provider"` // gemini, anthropic, openai, extractive
		Model             string  `yaml:"model"`
		SummaryModel      string  `yaml:"summary_model"`
		BaseURL           string  `yaml:"base_url"`
		GeminiAPIKey      string  `yaml:"gemini_api_key"`
		AnthropicAPIKey   string  `yaml:"anthropic_api_key"`
		OpenAIAPIKey      string  `yaml:"openai_api_key"`
		Temperature       float64 `yaml:"temperature"`
		MaxOutputTokens   int     `yaml:"max_output_tokens"`
		MaxWorkers        int     `yaml:"max_workers"`
		RequestsPerMinute int     `yaml:"requests_per_minute"`
	} `yaml:"llm"`

	Embed struct {
		Provider  string `yaml:"provider"` // gemini or tfidf
		Model     string `yaml:"model"`
		Dimension int    `yaml:"dimension"`
		BatchSize int    `yaml:"batch_size"`
	} `yaml:"embed"`

	Render struct {
		Engine    string `yaml:"engine"` // pandoc or native
		PDFEngine string `yaml:"pdf_engine"`
		TOC       bool   `yaml:"toc"`
		Margin    string `yaml:"margin"`
	} `yaml:"render"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	cfg := &Config{
		InputDir:  ".",
		OutputDir: "output",
		Pattern:   "chapter_*.md",
	}
	cfg.Bullets.SpacesPerLevel = 2
	cfg.Bullets.Markers = []string{"-", "*", "+", "-", "*", "+"}
	cfg.Bullets.MaxDepth = 4
	cfg.Xref.Mode = "compat"
	cfg.Rules.Timeout = 5 * time.Second

	cfg.LLM.Provider = "gemini"
	cfg.LLM.Model = "gemini-2.5-pro"
	cfg.LLM.SummaryModel = "claude-3-5-sonnet-20241022"
	cfg.LLM.Temperature = 0.2
	cfg.LLM.MaxOutputTokens = 50000
	cfg.LLM.MaxWorkers = 8

	cfg.Embed.Provider = "gemini"
	cfg.Embed.Model = "gemini-embedding-001"
	cfg.Embed.Dimension = 768
	cfg.Embed.BatchSize = 50

	cfg.Render.Engine = "pandoc"
	cfg.Render.PDFEngine = "xelatex"
	cfg.Render.TOC = true
	cfg.Render.Margin = "1in"
	return cfg
}

// Load reads .env (if present), then path over the defaults, then
// environment overrides. A missing file at DefaultPath is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString(&c.InputDir, "CHAPTERFIX_INPUT_DIR")
	setString(&c.OutputDir, "CHAPTERFIX_OUTPUT_DIR")
	setString(&c.Pattern, "CHAPTERFIX_PATTERN")
	setString(&c.LLM.Provider, "CHAPTERFIX_LLM_PROVIDER")
	setString(&c.LLM.Model, "CHAPTERFIX_LLM_MODEL")
	setInt(&c.LLM.MaxWorkers, "CHAPTERFIX_MAX_WORKERS")
	setString(&c.Embed.Provider, "CHAPTERFIX_EMBED_PROVIDER")
	setString(&c.Render.Engine, "CHAPTERFIX_RENDER_ENGINE")
	setString(&c.LLM.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.LLM.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	setString(&c.LLM.OpenAIAPIKey, "OPENAI_API_KEY")
	if v := os.Getenv("CHAPTERFIX_STRICT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Strict = b
		}
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Bullets.SpacesPerLevel < 1 {
		errs = append(errs, fmt.Errorf("bullets.spaces_per_level must be at least 1, got %d", c.Bullets.SpacesPerLevel))
	}
	if c.Bullets.MaxDepth < 0 || c.Bullets.MaxDepth > 6 {
		errs = append(errs, fmt.Errorf("bullets.max_depth must be between 0 and 6, got %d", c.Bullets.MaxDepth))
	}
	if c.Bullets.InputIndent < 0 {
		errs = append(errs, fmt.Errorf("bullets.input_indent must not be negative, got %d", c.Bullets.InputIndent))
	}
	if !oneOf(c.Xref.Mode, "compat", "strict") {
		errs = append(errs, fmt.Errorf("xref.mode must be compat or strict, got %q", c.Xref.Mode))
	}
	if !oneOf(c.LLM.Provider, "gemini", "anthropic", "openai", "extractive") {
		errs = append(errs, fmt.Errorf("llm.provider %q is not supported", c.LLM.Provider))
	}
	if c.LLM.MaxWorkers < 1 {
		errs = append(errs, fmt.Errorf("llm.max_workers must be at least 1, got %d", c.LLM.MaxWorkers))
	}
	if c.LLM.RequestsPerMinute < 0 {
		errs = append(errs, fmt.Errorf("llm.requests_per_minute must not be negative"))
	}
	if !oneOf(c.Embed.Provider, "gemini", "tfidf") {
		errs = append(errs, fmt.Errorf("embed.provider %q is not supported", c.Embed.Provider))
	}
	if !oneOf(c.Render.Engine, "pandoc", "native") {
		errs = append(errs, fmt.Errorf("render.engine %q is not supported", c.Render.Engine))
	}
	return errors.Join(errs...)
}

// APIKey returns the key for the configured LLM provider.
func (c *Config) APIKey() string {
	switch c.LLM.Provider {
	case "anthropic":
		return c.LLM.AnthropicAPIKey
	case "openai":
		return c.LLM.OpenAIAPIKey
	}
	return c.LLM.GeminiAPIKey
}

func oneOf(v string, allowed ...string) bool {
	v = strings.ToLower(v)
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
