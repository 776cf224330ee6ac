// Package config provides configuration loading and structs for scholar.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Index     IndexConfig     `yaml:"index"`
	Segmenter SegmenterConfig `yaml:"segmenter"`
	Build     BuildConfig     `yaml:"build"`
	Search    SearchConfig    `yaml:"search"`
	Feedback  FeedbackConfig  `yaml:"feedback"`
	Server    ServerConfig    `yaml:"server"`
}

// CorpusConfig locates the paper corpus.
type CorpusConfig struct {
	Path string `yaml:"path"`
}

// IndexConfig holds paths of the build artifacts.
// ScoresPath and BoltPath are optional; empty disables that output.
type IndexConfig struct {
	Path       string `yaml:"path"`
	ScoresPath string `yaml:"scores_path"`
	BoltPath   string `yaml:"bolt_path"`
}

// SegmenterConfig holds segmentation data files.
// Dictionary may list several files separated by commas.
type SegmenterConfig struct {
	Dictionary string `yaml:"dictionary"`
	Stopwords  string `yaml:"stopwords"`
}

// BuildConfig holds index build settings.
type BuildConfig struct {
	Workers int `yaml:"workers"`
}

// SearchConfig holds ranking and result settings.
type SearchConfig struct {
	TopK           int     `yaml:"top_k"`
	MaxLimit       int     `yaml:"max_limit"`
	TitleWeight    float64 `yaml:"title_weight"`
	AbstractWeight float64 `yaml:"abstract_weight"`
	AuthorWeight   float64 `yaml:"author_weight"`
	KeywordWeight  float64 `yaml:"keyword_weight"`
	HighlightOpen  string  `yaml:"highlight_open"`
	HighlightClose string  `yaml:"highlight_close"`
}

// FeedbackConfig holds feedback sinks. DatabasePath is optional.
type FeedbackConfig struct {
	LogPath      string `yaml:"log_path"`
	DatabasePath string `yaml:"database_path"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Load reads and parses the config file at path, applies defaults, and expands paths
// relative to the config file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	cfg.expandPaths(filepath.Dir(path))
	return &cfg, nil
}

// LoadOrDefault loads path, or returns the defaults resolved against the
// working directory when path does not exist and optional is true.
func LoadOrDefault(path string, optional bool) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !optional || !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return Default("."), nil
}

// Default returns the built-in configuration with paths resolved against baseDir.
func Default(baseDir string) *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.expandPaths(baseDir)
	return cfg
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) expandPaths(configDir string) {
	for _, p := range []*string{
		&c.Corpus.Path,
		&c.Index.Path,
		&c.Index.ScoresPath,
		&c.Index.BoltPath,
		&c.Segmenter.Stopwords,
		&c.Feedback.LogPath,
		&c.Feedback.DatabasePath,
	} {
		*p = expandPath(*p, configDir)
	}
	if c.Segmenter.Dictionary != "" {
		parts := strings.Split(c.Segmenter.Dictionary, ",")
		for i := range parts {
			parts[i] = expandPath(strings.TrimSpace(parts[i]), configDir)
		}
		c.Segmenter.Dictionary = strings.Join(parts, ",")
	}
}

// expandPath converts a path to absolute. Paths starting with "~/" are relative to the
// home directory; other relative paths are relative to configDir. Empty paths stay empty.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) || path == ":memory:" {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
		return path
	}
	if abs, err := filepath.Abs(filepath.Join(configDir, path)); err == nil {
		return abs
	}
	return filepath.Join(configDir, path)
}
