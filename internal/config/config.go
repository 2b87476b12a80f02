package config

import (
	"errors"
	"path/filepath"
	"sort"

	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Region             string        `toml:"region"`
	Profile            string        `toml:"profile"`
	Toolsets           []string      `toml:"toolsets"`
	ReadOnly           bool          `toml:"read_only"`
	DisableDestructive bool          `toml:"disable_destructive"`
	LogLevel           string        `toml:"log_level"`
	Safety             SafetyConfig  `toml:"safety"`
	Timeouts           TimeoutConfig `toml:"timeouts"`
	Cache              CacheConfig   `toml:"cache"`
}

type SafetyConfig struct {
	AllowDestructiveTools []string `toml:"allow_destructive_tools"`
}

type TimeoutConfig struct {
	DefaultSeconds int            `toml:"default_seconds"`
	MaxSeconds     int            `toml:"max_seconds"`
	PerTool        map[string]int `toml:"per_tool"`
}

type CacheConfig struct {
	ListTTLSeconds     int `toml:"list_ttl_seconds"`
	IdentityTTLSeconds int `toml:"identity_ttl_seconds"`
}

type Overrides struct {
	Region   *string
	Profile  *string
	Toolsets *[]string
	ReadOnly *bool
	LogLevel *string
}

func DefaultConfig() Config {
	return Config{
		Toolsets: []string{"iam", "ecs", "s3", "lambda", "sts"},
		ReadOnly: true,
		LogLevel: "info",
		Timeouts: TimeoutConfig{DefaultSeconds: 30, MaxSeconds: 120},
		Cache:    CacheConfig{IdentityTTLSeconds: 300},
	}
}

func Load(path string, dir string, overrides Overrides) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		fileCfg, err := readFile(path)
		if err != nil {
			return cfg, err
		}
		merge(&cfg, fileCfg)
	}

	if dir != "" {
		files, err := dropInFiles(dir)
		if err != nil {
			return cfg, err
		}
		for _, file := range files {
			fileCfg, err := readFile(file)
			if err != nil {
				return cfg, err
			}
			merge(&cfg, fileCfg)
		}
	}

	applyOverrides(&cfg, overrides)
	return cfg, nil
}

func readFile(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); err != nil {
		return cfg, err
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func dropInFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func merge(dst *Config, src Config) {
	if src.Region != "" {
		dst.Region = src.Region
	}
	if src.Profile != "" {
		dst.Profile = src.Profile
	}
	if len(src.Toolsets) > 0 {
		dst.Toolsets = append([]string{}, src.Toolsets...)
	}
	if src.ReadOnly {
		dst.ReadOnly = src.ReadOnly
	}
	if src.DisableDestructive {
		dst.DisableDestructive = src.DisableDestructive
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if len(src.Safety.AllowDestructiveTools) > 0 {
		dst.Safety.AllowDestructiveTools = append([]string{}, src.Safety.AllowDestructiveTools...)
	}
	if src.Timeouts.DefaultSeconds > 0 {
		dst.Timeouts.DefaultSeconds = src.Timeouts.DefaultSeconds
	}
	if src.Timeouts.MaxSeconds > 0 {
		dst.Timeouts.MaxSeconds = src.Timeouts.MaxSeconds
	}
	if len(src.Timeouts.PerTool) > 0 {
		dst.Timeouts.PerTool = map[string]int{}
		for tool, seconds := range src.Timeouts.PerTool {
			dst.Timeouts.PerTool[tool] = seconds
		}
	}
	if src.Cache.ListTTLSeconds > 0 {
		dst.Cache.ListTTLSeconds = src.Cache.ListTTLSeconds
	}
	if src.Cache.IdentityTTLSeconds > 0 {
		dst.Cache.IdentityTTLSeconds = src.Cache.IdentityTTLSeconds
	}
}

func applyOverrides(cfg *Config, overrides Overrides) {
	if overrides.Region != nil {
		cfg.Region = *overrides.Region
	}
	if overrides.Profile != nil {
		cfg.Profile = *overrides.Profile
	}
	if overrides.Toolsets != nil {
		cfg.Toolsets = append([]string{}, (*overrides.Toolsets)...)
	}
	if overrides.ReadOnly != nil {
		cfg.ReadOnly = *overrides.ReadOnly
	}
	if overrides.LogLevel != nil {
		cfg.LogLevel = *overrides.LogLevel
	}
}
