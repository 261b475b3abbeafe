package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"heroforge/internal/logger"
)

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = "heroforge.yaml"

type ProjectConfig struct {
	Project    string           `yaml:"project"`
	Version    int              `yaml:"version"`
	Motifs     MotifsConfig     `yaml:"motifs"`
	Database   DatabaseConfig   `yaml:"database"`
	Generation GenerationConfig `yaml:"generation"`
	Prose      ProseConfig      `yaml:"prose"`
	Web        WebConfig        `yaml:"web"`
	Logging    logger.Config    `yaml:"logging"`
}

type MotifsConfig struct {
	Path string `yaml:"path" env:"HEROFORGE_MOTIFS"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"HEROFORGE_DSN"`
}

// GenerationConfig.Seed of 0 seeds from the clock.
type GenerationConfig struct {
	Seed int64 `yaml:"seed" env:"HEROFORGE_SEED"`
}

type ProseConfig struct {
	BaseURL     string  `yaml:"base_url" env:"HEROFORGE_PROSE_BASE_URL"`
	Model       string  `yaml:"model" env:"HEROFORGE_PROSE_MODEL"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
}

type WebConfig struct {
	Addr string `yaml:"addr" env:"HEROFORGE_WEB_ADDR"`
}

// Default returns the config written by heroforge init.
func Default(project string) ProjectConfig {
	return ProjectConfig{
		Project:  project,
		Version:  1,
		Motifs:   MotifsConfig{Path: "motifs.json"},
		Database: DatabaseConfig{DSN: "sqlite://heroforge.db"},
		Prose: ProseConfig{
			Model:       "gpt-4o-mini",
			APIKeyEnv:   "OPENAI_API_KEY",
			MaxTokens:   2048,
			Temperature: 0.8,
		},
		Web:     WebConfig{Addr: "127.0.0.1:8080"},
		Logging: logger.DefaultConfig(),
	}
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	cfg.applyDefaults()
	cfg.resolvePaths(filepath.Dir(path))

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: parse env: %w", err)
	}

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg ProjectConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// APIKey reads the prose API key from the configured variable.
func (c *ProjectConfig) APIKey() string {
	if c.Prose.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Prose.APIKeyEnv)
}

func (c *ProjectConfig) applyDefaults() {
	def := Default(c.Project)
	if c.Motifs.Path == "" {
		c.Motifs.Path = def.Motifs.Path
	}
	if c.Database.DSN == "" {
		c.Database.DSN = def.Database.DSN
	}
	if c.Prose.Model == "" {
		c.Prose.Model = def.Prose.Model
	}
	if c.Prose.APIKeyEnv == "" {
		c.Prose.APIKeyEnv = def.Prose.APIKeyEnv
	}
	if c.Prose.MaxTokens == 0 {
		c.Prose.MaxTokens = def.Prose.MaxTokens
	}
	if c.Web.Addr == "" {
		c.Web.Addr = def.Web.Addr
	}
	c.Logging = c.Logging.WithDefaults()
}

// resolvePaths makes file paths from the config relative to its directory.
func (c *ProjectConfig) resolvePaths(dir string) {
	if c.Motifs.Path != "" && !filepath.IsAbs(c.Motifs.Path) {
		c.Motifs.Path = filepath.Join(dir, c.Motifs.Path)
	}
	const scheme = "sqlite://"
	if rest, ok := strings.CutPrefix(c.Database.DSN, scheme); ok {
		if rest != "" && rest != ":memory:" && !filepath.IsAbs(rest) {
			c.Database.DSN = scheme + filepath.Join(dir, rest)
		}
	}
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if strings.TrimSpace(cfg.Motifs.Path) == "" {
		return fmt.Errorf("motifs path is required")
	}
	dsn := cfg.Database.DSN
	if !strings.HasPrefix(dsn, "sqlite://") &&
		!strings.HasPrefix(dsn, "postgres://") &&
		!strings.HasPrefix(dsn, "postgresql://") {
		return fmt.Errorf("unsupported database dsn: %q", dsn)
	}
	if cfg.Prose.MaxTokens < 0 {
		return fmt.Errorf("prose max_tokens must not be negative")
	}
	if cfg.Prose.Temperature < 0 || cfg.Prose.Temperature > 2 {
		return fmt.Errorf("prose temperature must be between 0 and 2")
	}
	return nil
}
