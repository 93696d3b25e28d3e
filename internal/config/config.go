// Package config loads, merges and validates cleanup configuration.
// Precedence is: project-type defaults, then a config file when given,
// then patterns passed on the command line.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptySpec is returned when neither folder nor file patterns are
// configured: there is nothing to search for.
var ErrEmptySpec = errors.New("at least one folder or file pattern must be configured")

// Config is the full cleanup configuration handed to the scanner.
type Config struct {
	Clean   CleanSpec `yaml:"clean" json:"clean"`
	Exclude []string  `yaml:"exclude" json:"exclude"`
	Options Options   `yaml:"options" json:"options"`
}

// CleanSpec defines what to clean. Both lists are evaluated in order,
// first match wins.
type CleanSpec struct {
	// Folder base names to remove, configured with a trailing "/"
	// on the command line (node_modules/, dist/).
	Folders []string `yaml:"folders" json:"folders"`
	// File glob patterns over the base name (*.log, *.tmp).
	Files []string `yaml:"files" json:"files"`
}

// Options controls traversal and filtering.
type Options struct {
	Recursive      bool   `yaml:"recursive" json:"recursive"`
	FollowSymlinks bool   `yaml:"follow_symlinks" json:"follow_symlinks"`
	MaxDepth       *int   `yaml:"max_depth,omitempty" json:"max_depth,omitempty"`
	MinSize        *int64 `yaml:"min_size,omitempty" json:"min_size,omitempty"`
	MaxSize        *int64 `yaml:"max_size,omitempty" json:"max_size,omitempty"`
	MinAgeDays     *int   `yaml:"min_age_days,omitempty" json:"min_age_days,omitempty"`
	MaxAgeDays     *int   `yaml:"max_age_days,omitempty" json:"max_age_days,omitempty"`
}

// Load reads a config file. YAML is assumed for .yaml/.yml extensions,
// JSON otherwise.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Config{Options: Options{Recursive: true}}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	}

	return &cfg, nil
}

// Merge combines defaults, an optional file config and command-line
// patterns. File patterns and excludes append to the defaults; file
// options replace them. CLI patterns with a trailing "/" become folder
// patterns, everything else a file glob; duplicates are dropped.
func Merge(base *Config, file *Config, cliPatterns []string) *Config {
	merged := &Config{
		Clean: CleanSpec{
			Folders: append([]string(nil), base.Clean.Folders...),
			Files:   append([]string(nil), base.Clean.Files...),
		},
		Exclude: append([]string(nil), base.Exclude...),
		Options: base.Options,
	}

	if file != nil {
		merged.Clean.Folders = append(merged.Clean.Folders, file.Clean.Folders...)
		merged.Clean.Files = append(merged.Clean.Files, file.Clean.Files...)
		merged.Exclude = append(merged.Exclude, file.Exclude...)
		merged.Options = file.Options
	}

	for _, p := range cliPatterns {
		if strings.HasSuffix(p, "/") {
			folder := strings.TrimRight(p, "/")
			if !contains(merged.Clean.Folders, folder) {
				merged.Clean.Folders = append(merged.Clean.Folders, folder)
			}
		} else if !contains(merged.Clean.Files, p) {
			merged.Clean.Files = append(merged.Clean.Files, p)
		}
	}

	return merged
}

// Validate checks that the configuration describes something to clean.
func (c *Config) Validate() error {
	if len(c.Clean.Folders) == 0 && len(c.Clean.Files) == 0 {
		return ErrEmptySpec
	}
	return nil
}

// NormalizeExcludes resolves every exclude path to an absolute path so
// the scanner can compare by prefix. Unresolvable entries are kept
// as-is; they simply never match anything.
func (c *Config) NormalizeExcludes() {
	for i, e := range c.Exclude {
		expanded := ExpandPath(e)
		if abs, err := filepath.Abs(expanded); err == nil {
			c.Exclude[i] = abs
		} else {
			c.Exclude[i] = expanded
		}
	}
}

// ExpandPath expands a leading "~" to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ValidateRoot checks that a search root exists and is either a file
// or a directory.
func ValidateRoot(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path not found: %s", path)
		}
		return fmt.Errorf("cannot access %s: %w", path, err)
	}
	if !info.IsDir() && !info.Mode().IsRegular() {
		return fmt.Errorf("path is not a file or directory: %s", path)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
