// Package config assembles runtime settings from an optional YAML file and
// the environment. Environment values win.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"budget-agent/internal/infrastructure/env"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDBPath   = "data/budget.db"
	DefaultModel    = "openai/gpt-4o-mini"
	DefaultMaxSteps = 25
	DefaultHTTPAddr = ":8080"
)

type Config struct {
	DBPath   string `yaml:"db_path"`
	Model    string `yaml:"model"`
	MaxSteps int    `yaml:"max_steps"`

	OpenAIAPIKey     string `yaml:"openai_api_key"`
	OpenRouterAPIKey string `yaml:"openrouter_api_key"`
	AnthropicAPIKey  string `yaml:"anthropic_api_key"`
	OllamaURL        string `yaml:"ollama_url"`

	LogLevel   string `yaml:"log_level"`
	LogDir     string `yaml:"log_dir"`
	LogConsole bool   `yaml:"log_console"`

	HTTPAddr string `yaml:"http_addr"`
}

func Default() Config {
	return Config{
		DBPath:   DefaultDBPath,
		Model:    DefaultModel,
		MaxSteps: DefaultMaxSteps,
		LogLevel: "info",
		LogDir:   "log",
		HTTPAddr: DefaultHTTPAddr,
	}
}

// Load reads path (if non-empty) over the defaults, then applies environment
// overrides from envService. The result is not validated; callers apply their
// own overrides first and then call Validate.
func Load(path string, envService *env.EnvService) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if envService != nil {
		applyEnv(&cfg, envService)
	}
	return cfg, nil
}

func applyEnv(cfg *Config, e *env.EnvService) {
	override := func(dst *string, key string) {
		if v, ok := e.Lookup(key); ok {
			*dst = v
		}
	}
	override(&cfg.DBPath, "BUDGET_DB_PATH")
	override(&cfg.Model, "MODEL")
	override(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	override(&cfg.OpenRouterAPIKey, "OPENROUTER_API_KEY")
	override(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	override(&cfg.OllamaURL, "OLLAMA_URL")
	override(&cfg.LogLevel, "LOG_LEVEL")
	override(&cfg.LogDir, "LOG_DIR")
	override(&cfg.HTTPAddr, "HTTP_ADDR")
	cfg.MaxSteps = e.GetInt("MAX_STEPS", cfg.MaxSteps)
	cfg.LogConsole = e.GetBool("LOG_CONSOLE", cfg.LogConsole)
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("db_path is required"))
	}
	if _, err := ParseModelSpec(c.Model); err != nil {
		errs = append(errs, err)
	}
	if c.MaxSteps < 1 {
		errs = append(errs, fmt.Errorf("max_steps must be positive, got %d", c.MaxSteps))
	}
	return errors.Join(errs...)
}

// ModelSpec is a "provider/model" pair.
type ModelSpec struct {
	Provider string
	Model    string
}

func (m ModelSpec) String() string {
	return m.Provider + "/" + m.Model
}

// ParseModelSpec splits on the first slash only, so model names may contain
// slashes themselves.
func ParseModelSpec(spec string) (ModelSpec, error) {
	provider, model, ok := strings.Cut(spec, "/")
	if !ok || provider == "" || model == "" {
		return ModelSpec{}, fmt.Errorf("model %q must be in the form provider/model", spec)
	}
	return ModelSpec{Provider: provider, Model: model}, nil
}
