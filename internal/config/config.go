package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for repoaudit.
// Every field is a pointer so merging can tell "unset" from "zero".
type FileConfig struct {
	Include      *string `yaml:"include"`
	Exclude      *string `yaml:"exclude"`
	MaxFileSize  *int64  `yaml:"max_file_size"`
	MaxDepth     *int    `yaml:"max_depth"`
	Threads      *int    `yaml:"threads"`
	NoColor      *bool   `yaml:"no_color"`
	LocalOnly    *bool   `yaml:"local_only"`
	OutDir       *string `yaml:"out_dir"`
	LogLevel     *string `yaml:"log_level"`
	LogFile      *string `yaml:"log_file"`
	Timeout      *string `yaml:"timeout"`
	MaxFiles     *int    `yaml:"max_files"`
	MaxChars     *int    `yaml:"max_chars"`
	SnippetChars *int    `yaml:"snippet_chars"`

	// Profile selects the default provider profile by name.
	Profile *string `yaml:"profile"`

	// Profiles maps profile names to LLM provider settings.
	Profiles map[string]Profile `yaml:"profiles"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a repo-local config file in the given root.
// It supports .repoaudit.yml/.yaml and repoaudit.yml/.yaml.
func LoadLocal(repoRoot string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".repoaudit.yml", ".repoaudit.yaml", "repoaudit.yml", "repoaudit.yaml"} {
		p := filepath.Join(repoRoot, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(base, "repoaudit", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}
