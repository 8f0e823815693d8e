package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for droidaudit.
type FileConfig struct {
	Include      *string  `yaml:"include"`
	Exclude      *string  `yaml:"exclude"`
	Vendored     []string `yaml:"vendored"`
	MaxBytes     *int64   `yaml:"max_bytes"`
	Enable       *string  `yaml:"enable"`
	Disable      *string  `yaml:"disable"`
	Threads      *int     `yaml:"threads"`
	NoColor      *bool    `yaml:"no_color"`
	ContextWidth *int     `yaml:"context_width"`
	CacheSize    *int     `yaml:"cache_size"`
	LogLevel     *string  `yaml:"log_level"`
	LogJSON      *bool    `yaml:"log_json"`
	Decompiler   *string  `yaml:"decompiler"`

	Emulator *EmulatorConfig `yaml:"emulator"`
	Rules    []RuleConfig    `yaml:"rules"`
}

// EmulatorConfig overrides the caps of the bounded emulator-detection scan.
type EmulatorConfig struct {
	MaxMatchesPerFile   *int `yaml:"max_matches_per_file"`
	MaxFilesWithMatches *int `yaml:"max_files_with_matches"`
}

// RuleConfig is a user rule appended to the detector catalog.
type RuleConfig struct {
	ID            string `yaml:"id"`
	Category      string `yaml:"category"`
	Type          string `yaml:"type"`
	Pattern       string `yaml:"pattern"`
	Description   string `yaml:"description"`
	Severity      string `yaml:"severity"`
	CaseSensitive bool   `yaml:"case_sensitive"`
}

// LocalNames are the repo-local config file names, in lookup order.
var LocalNames = []string{".droidaudit.yml", ".droidaudit.yaml", "droidaudit.yml", "droidaudit.yaml"}

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

// LoadLocal searches for a config file in the given root.
func LoadLocal(root string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range LocalNames {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// GlobalPath returns the global config location under XDG_CONFIG_HOME or
// ~/.config, or "" when neither is available.
func GlobalPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return ""
	}
	return filepath.Join(base, "droidaudit", "config.yml")
}

// LoadGlobal loads the global config file.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	p := GlobalPath()
	if p == "" {
		return cfg, errors.New("no config dir")
	}
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}

// AllRules returns global rules followed by local ones.
func AllRules(local, global FileConfig) []RuleConfig {
	out := append([]RuleConfig(nil), global.Rules...)
	return append(out, local.Rules...)
}

// PickVendored returns the first non-empty vendored list, local over global.
func PickVendored(local, global FileConfig) []string {
	if len(local.Vendored) > 0 {
		return local.Vendored
	}
	return global.Vendored
}
