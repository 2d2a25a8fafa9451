package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "config.yaml"

	defaultRequestTimeout = 180
	defaultMaxRetries     = 3
	defaultInitialDelayMS = 500
	defaultMaxDelayMS     = 5000
	defaultMultiplier     = 2.0
	defaultTier           = "FREE"
	defaultOutputDir      = "./output"
	defaultMaxVariations  = 4
	defaultMode           = "SUN"
	defaultStyle          = "Default"
)

type Config struct {
	GeminiAPIKey string `yaml:"-"`

	Gemini GeminiConfig `yaml:"gemini"`
	Studio StudioConfig `yaml:"studio"`
}

type GeminiConfig struct {
	BaseURL               string         `yaml:"base_url"`
	Models                ModelsConfig   `yaml:"models"`
	Thinking              ThinkingConfig `yaml:"thinking"`
	RequestTimeoutSeconds int            `yaml:"request_timeout_seconds"`
	PreferIPv4            bool           `yaml:"prefer_ipv4"`
	Retry                 RetryConfig    `yaml:"retry"`
}

// ModelsConfig and ThinkingConfig override the tier policy; empty or zero values keep its defaults.
type ModelsConfig struct {
	Fast     string `yaml:"fast,omitempty"`
	Pro      string `yaml:"pro,omitempty"`
	Image    string `yaml:"image,omitempty"`
	ProImage string `yaml:"pro_image,omitempty"`
}

type ThinkingConfig struct {
	ContentPlanBudget int32 `yaml:"content_plan_budget,omitempty"`
	VideoPromptBudget int32 `yaml:"video_prompt_budget,omitempty"`
}

type RetryConfig struct {
	MaxRetries     int     `yaml:"max_retries"`
	InitialDelayMS int     `yaml:"initial_delay_ms"`
	MaxDelayMS     int     `yaml:"max_delay_ms"`
	Multiplier     float64 `yaml:"multiplier"`
}

type StudioConfig struct {
	Tier           string `yaml:"tier"`
	OutputDir      string `yaml:"output_dir"`
	PromptsPath    string `yaml:"prompts_path"`
	ReferenceImage string `yaml:"reference_image"`
	MaxVariations  int    `yaml:"max_variations"`
	DefaultMode    string `yaml:"default_mode"`
	DefaultStyle   string `yaml:"default_style"`
}

// Load reads .env, then the YAML file at path (DefaultConfigPath when empty), then environment overrides.
// A missing YAML file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	if path == "" {
		path = DefaultConfigPath
	}

	cfg := &Config{}
	if err := loadYAMLConfig(cfg, path); err != nil {
		return nil, err
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

// Default returns a configuration holding only built-in defaults.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Save writes cfg as YAML. The API key is never written.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Gemini.RequestTimeoutSeconds) * time.Second
}

func (r RetryConfig) InitialDelay() time.Duration {
	return time.Duration(r.InitialDelayMS) * time.Millisecond
}

func (r RetryConfig) MaxDelay() time.Duration {
	return time.Duration(r.MaxDelayMS) * time.Millisecond
}

func loadYAMLConfig(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("No config file found, using defaults", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	cfg.Studio.Tier = getEnvOrDefault("CILA_TIER", cfg.Studio.Tier)
	cfg.Gemini.BaseURL = getEnvOrDefault("GEMINI_BASE_URL", cfg.Gemini.BaseURL)
}

func applyDefaults(cfg *Config) {
	applyRetryDefaults(cfg)
	applyStudioDefaults(cfg)

	if cfg.Gemini.RequestTimeoutSeconds <= 0 {
		cfg.Gemini.RequestTimeoutSeconds = defaultRequestTimeout
	}
}

func applyRetryDefaults(cfg *Config) {
	r := &cfg.Gemini.Retry
	if r.MaxRetries == 0 {
		r.MaxRetries = defaultMaxRetries
	}
	if r.InitialDelayMS == 0 {
		r.InitialDelayMS = defaultInitialDelayMS
	}
	if r.MaxDelayMS == 0 {
		r.MaxDelayMS = defaultMaxDelayMS
	}
	if r.Multiplier == 0 {
		r.Multiplier = defaultMultiplier
	}
}

func applyStudioDefaults(cfg *Config) {
	s := &cfg.Studio
	if s.Tier == "" {
		s.Tier = defaultTier
	}
	if s.OutputDir == "" {
		s.OutputDir = defaultOutputDir
	}
	if s.MaxVariations <= 0 {
		s.MaxVariations = defaultMaxVariations
	}
	if s.DefaultMode == "" {
		s.DefaultMode = defaultMode
	}
	if s.DefaultStyle == "" {
		s.DefaultStyle = defaultStyle
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
