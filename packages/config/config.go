package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when no config path is provided.
const DefaultConfigPath = "config/development.yaml"

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	GitHub   GitHubConfig   `yaml:"github"`
	AI       AIConfig       `yaml:"ai"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Cache    CacheConfig    `yaml:"cache"`
	Debug    DebugConfig    `yaml:"debug"`
}

// ServerConfig contains HTTP listener and CORS configuration
type ServerConfig struct {
	Port        int    `yaml:"port"`
	FrontendURL string `yaml:"frontend_url"`
	// Hosted is set on managed hosting; it selects HostedOrigins and disables TLS.
	Hosted            bool     `yaml:"hosted"`
	ExternalURL       string   `yaml:"external_url"`
	DevOrigins        []string `yaml:"dev_origins"`
	HostedOrigins     []string `yaml:"hosted_origins"`
	TLSCertFile       string   `yaml:"tls_cert_file"`
	TLSKeyFile        string   `yaml:"tls_key_file"`
	StrictStatusCodes bool     `yaml:"strict_status_codes"`
}

// GitHubConfig contains source-control API configuration
type GitHubConfig struct {
	Token   string        `yaml:"-"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// AIConfig contains LLM-related configuration
type AIConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Provider        string        `yaml:"provider"`
	Model           string        `yaml:"model"`
	BaseURL         string        `yaml:"base_url"`
	Timeout         time.Duration `yaml:"timeout"`
	Temperature     float32       `yaml:"temperature"`
	MaxOutputTokens int           `yaml:"max_output_tokens"`
	APIKey          string        `yaml:"-"`
}

// AnalysisConfig contains traversal limits and report sizes
type AnalysisConfig struct {
	MaxDepth           int    `yaml:"max_depth"`
	MaxFiles           int    `yaml:"max_files"`
	SampleSize         int    `yaml:"sample_size"`
	ContributorLimit   int    `yaml:"contributor_limit"`
	IssueLimit         int    `yaml:"issue_limit"`
	IncludeCommunity   bool   `yaml:"include_community"`
	ComplexityStrategy string `yaml:"complexity_strategy"`
}

// LevelThreshold labels every score strictly below Below.
type LevelThreshold struct {
	Below float64 `yaml:"below"`
	Label string  `yaml:"label"`
}

// ScoringConfig contains the heuristic tables
type ScoringConfig struct {
	LanguageWeights       map[string]float64  `yaml:"language_weights"`
	DefaultLanguageWeight float64             `yaml:"default_language_weight"`
	Levels                []LevelThreshold    `yaml:"levels"`
	TopLevel              string              `yaml:"top_level"`
	StartingPoints        map[string][]string `yaml:"starting_points"`
	DefaultStartingPoint  string              `yaml:"default_starting_point"`
}

// CacheConfig contains result cache configuration. A zero TTL disables the cache.
type CacheConfig struct {
	Size int           `yaml:"size"`
	TTL  time.Duration `yaml:"ttl"`
}

// DebugConfig contains debug-related configuration
type DebugConfig struct {
	Enabled  bool   `yaml:"enabled"`
	LogLevel string `yaml:"log_level"`
	JSONLogs bool   `yaml:"json_logs"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8000,
			FrontendURL: "https://code-sensei-seven.vercel.app/",
			DevOrigins: []string{
				"https://localhost:3000",
				"https://192.168.56.1:3000",
				"http://localhost:3000",
			},
			HostedOrigins: []string{
				"http://localhost:3000",
				"https://localhost:3000",
			},
			TLSCertFile: "cert.pem",
			TLSKeyFile:  "key.pem",
		},
		GitHub: GitHubConfig{
			Timeout: 30 * time.Second,
		},
		AI: AIConfig{
			Enabled:         true,
			Provider:        "openrouter",
			Model:           "meta-llama/llama-3.3-70b-instruct:free",
			BaseURL:         "https://openrouter.ai/api/v1",
			Timeout:         30 * time.Second,
			Temperature:     0.7,
			MaxOutputTokens: 1500,
		},
		Analysis: AnalysisConfig{
			MaxDepth:           3,
			MaxFiles:           100,
			SampleSize:         10,
			ContributorLimit:   10,
			IssueLimit:         10,
			IncludeCommunity:   true,
			ComplexityStrategy: "weighted",
		},
		Scoring: ScoringConfig{
			LanguageWeights: map[string]float64{
				"Assembly":   3.0,
				"C":          2.5,
				"C++":        2.5,
				"Rust":       2.5,
				"Haskell":    2.5,
				"Scala":      2.0,
				"Go":         2.0,
				"Java":       2.0,
				"C#":         2.0,
				"Kotlin":     1.8,
				"Swift":      1.8,
				"TypeScript": 1.5,
				"Python":     1.2,
				"JavaScript": 1.2,
				"Ruby":       1.2,
				"PHP":        1.2,
				"Shell":      1.0,
				"Dockerfile": 0.5,
				"Makefile":   0.5,
				"HTML":       0.5,
				"CSS":        0.5,
				"SCSS":       0.5,
				"Markdown":   0.3,
			},
			DefaultLanguageWeight: 1.0,
			Levels: []LevelThreshold{
				{Below: 3, Label: "Beginner"},
				{Below: 6, Label: "Intermediate"},
				{Below: 8, Label: "Advanced"},
			},
			TopLevel: "Expert",
			StartingPoints: map[string][]string{
				"Python":     {"README.md", "requirements.txt", "app.py", "main.py"},
				"JavaScript": {"README.md", "package.json", "src/index.js", "src/App.js"},
				"TypeScript": {"README.md", "package.json", "src/index.ts", "src/App.tsx"},
				"Go":         {"README.md", "go.mod", "main.go", "cmd/"},
				"Rust":       {"README.md", "Cargo.toml", "src/main.rs", "src/lib.rs"},
				"Java":       {"README.md", "pom.xml", "build.gradle", "src/main/java"},
			},
			DefaultStartingPoint: "README.md",
		},
		Cache: CacheConfig{
			Size: 128,
		},
		Debug: DebugConfig{
			LogLevel: "info",
		},
	}
}

// LoadConfig loads configuration from the specified file on top of Default
// and applies environment overrides. A missing file is an error unless the
// default path was requested.
func LoadConfig(configPath string) (*Config, error) {
	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigPath
	}

	config := Default()

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// built-in defaults only
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("config file not found: %s", configPath)
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	c.GitHub.Token = strings.TrimSpace(os.Getenv("GITHUB_TOKEN"))

	switch strings.ToLower(c.AI.Provider) {
	case "gemini":
		c.AI.APIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	default:
		c.AI.APIKey = strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY"))
	}

	if v := strings.TrimSpace(os.Getenv("FRONTEND_URL")); v != "" {
		c.Server.FrontendURL = v
	}
	// Render sets RENDER on every service it hosts.
	if _, ok := os.LookupEnv("RENDER"); ok {
		c.Server.Hosted = true
	}
	if v := strings.TrimSpace(os.Getenv("RENDER_EXTERNAL_URL")); v != "" {
		c.Server.ExternalURL = v
	}
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Server.Port = port
		}
	}
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Analysis.MaxDepth < 0 {
		return fmt.Errorf("analysis.max_depth must not be negative")
	}
	if c.Analysis.MaxFiles < 0 {
		return fmt.Errorf("analysis.max_files must not be negative")
	}
	switch strings.ToLower(c.AI.Provider) {
	case "openrouter", "gemini":
	default:
		return fmt.Errorf("unknown ai.provider: %q", c.AI.Provider)
	}
	for i := 1; i < len(c.Scoring.Levels); i++ {
		if c.Scoring.Levels[i].Below < c.Scoring.Levels[i-1].Below {
			return fmt.Errorf("scoring.levels must be sorted by ascending threshold")
		}
	}
	return nil
}

// AllowedOrigins returns the CORS allow-list for the current environment.
func (c *Config) AllowedOrigins() []string {
	if !c.Server.Hosted || c.Server.ExternalURL == "" {
		return append([]string(nil), c.Server.DevOrigins...)
	}
	origins := []string{
		strings.TrimSuffix(c.Server.FrontendURL, "/"),
		strings.TrimSuffix(c.Server.ExternalURL, "/"),
	}
	return append(origins, c.Server.HostedOrigins...)
}

// HasGitHubToken reports whether the source-control credential is present.
func (c *Config) HasGitHubToken() bool {
	return c.GitHub.Token != ""
}

// HasLLMKey reports whether the language-model credential is present.
func (c *Config) HasLLMKey() bool {
	return c.AI.APIKey != ""
}

// UseTLS reports whether the server should terminate TLS itself.
func (c *Config) UseTLS() bool {
	if c.Server.Hosted {
		return false
	}
	return fileExists(c.Server.TLSCertFile) && fileExists(c.Server.TLSKeyFile)
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
