package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for jsonpeek
type Config struct {
	RootBinding string         `yaml:"root_binding"`
	Output      OutputConfig   `yaml:"output"`
	Repair      RepairConfig   `yaml:"repair"`
	Search      SearchConfig   `yaml:"search"`
	Classify    ClassifyConfig `yaml:"classify"`
	Snippets    SnippetsConfig `yaml:"snippets"`
	Tree        TreeConfig     `yaml:"tree"`
	Graph       GraphConfig    `yaml:"graph"`
	Table       TableConfig    `yaml:"table"`
	Markdown    MarkdownConfig `yaml:"markdown"`
	Log         LogConfig      `yaml:"log"`
}

// OutputConfig controls document formatting
type OutputConfig struct {
	Indent int    `yaml:"indent"`
	Color  string `yaml:"color"` // "auto", "always", "never"
}

// RepairConfig controls the repair engine
type RepairConfig struct {
	MaxIterations int `yaml:"max_iterations"`
}

// SearchConfig controls search and the input debounce
type SearchConfig struct {
	DebounceMs    int  `yaml:"debounce_ms"`
	MaxResults    int  `yaml:"max_results"`
	CaseSensitive bool `yaml:"case_sensitive"`
}

// ClassifyConfig controls string-kind classification
type ClassifyConfig struct {
	Enabled bool           `yaml:"enabled"`
	Rules   []ClassifyRule `yaml:"rules"`
}

// ClassifyRule defines a pattern-based string kind
type ClassifyRule struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`

	// compiled regex (not serialized)
	regex *regexp.Regexp
}

// SnippetsConfig controls the code helper
type SnippetsConfig struct {
	Language  string `yaml:"language"` // "javascript" or "go"
	Clipboard bool   `yaml:"clipboard"`
}

// TreeConfig controls the tree view
type TreeConfig struct {
	EagerDepth int  `yaml:"eager_depth"`
	MaxNodes   int  `yaml:"max_nodes"`
	ShowKinds  bool `yaml:"show_kinds"`
}

// GraphConfig controls the graph view
type GraphConfig struct {
	EagerDepth int `yaml:"eager_depth"`
	MaxNodes   int `yaml:"max_nodes"`
}

// TableConfig controls the table view
type TableConfig struct {
	MaxDepth int `yaml:"max_depth"`
	MaxRows  int `yaml:"max_rows"`
}

// MarkdownConfig controls the goldmark renderer
type MarkdownConfig struct {
	HardWraps bool `yaml:"hard_wraps"`
	XHTML     bool `yaml:"xhtml"`
	Unsafe    bool `yaml:"unsafe"`
}

// LogConfig controls the rotating file logger
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		RootBinding: "data",
		Output: OutputConfig{
			Indent: 2,
			Color:  "auto",
		},
		Repair: RepairConfig{
			MaxIterations: 10,
		},
		Search: SearchConfig{
			DebounceMs:    300,
			MaxResults:    100,
			CaseSensitive: false,
		},
		Classify: ClassifyConfig{
			Enabled: true,
			Rules: []ClassifyRule{
				{Name: "email", Pattern: `^[^\s@]+@[^\s@]+\.[^\s@]+$`},
				{Name: "url", Pattern: `^https?://\S+$`},
			},
		},
		Snippets: SnippetsConfig{
			Language:  "javascript",
			Clipboard: true,
		},
		Tree: TreeConfig{
			EagerDepth: 2,
			MaxNodes:   5000,
			ShowKinds:  true,
		},
		Graph: GraphConfig{
			EagerDepth: 0,
			MaxNodes:   5000,
		},
		Table: TableConfig{
			MaxDepth: 10,
			MaxRows:  5000,
		},
		Markdown: MarkdownConfig{
			HardWraps: false,
			XHTML:     false,
			Unsafe:    false,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Compress:   false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Compile regex patterns
	if err := cfg.compilePatterns(); err != nil {
		return nil, fmt.Errorf("failed to compile patterns: %w", err)
	}

	return cfg, nil
}

// Load resolves the effective configuration: an explicit path, else a
// discovered file, else defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadConfig(path)
	}
	if found := FindConfigFile(); found != "" {
		return LoadConfig(found)
	}
	return NewConfig(), nil
}

// FindConfigFile searches for a config file in the current directory and
// parents, then in the user config directory
func FindConfigFile() string {
	configNames := []string{".jsonpeek.yml", ".jsonpeek.yaml", "jsonpeek.yml", "jsonpeek.yaml"}

	// Start from current directory
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		// Move up one directory
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	// Fall back to $XDG_CONFIG_HOME/jsonpeek/config.yaml
	if configDir, err := os.UserConfigDir(); err == nil {
		configPath := filepath.Join(configDir, "jsonpeek", "config.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}

	return ""
}

// compilePatterns compiles all regex patterns in the config
func (c *Config) compilePatterns() error {
	for i := range c.Classify.Rules {
		rule := &c.Classify.Rules[i]
		regex, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return fmt.Errorf("invalid classify pattern '%s': %w", rule.Pattern, err)
		}
		rule.regex = regex
	}
	return nil
}

// Matches checks if this classify rule matches the given string value
func (cr *ClassifyRule) Matches(s string) bool {
	if cr.regex == nil {
		// Try to compile if not already compiled (fallback)
		regex, err := regexp.Compile(cr.Pattern)
		if err != nil {
			return false
		}
		cr.regex = regex
	}
	return cr.regex.MatchString(s)
}

// IndentString returns the output indent as a literal run of spaces
func (c *Config) IndentString() string {
	n := c.Output.Indent
	if n <= 0 {
		n = 2
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = ' '
	}
	return string(buf)
}
