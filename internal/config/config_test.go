package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.ReadOnly {
		t.Fatalf("expected read_only default")
	}
	if len(cfg.Toolsets) != 5 {
		t.Fatalf("unexpected default toolsets: %#v", cfg.Toolsets)
	}
	if cfg.Timeouts.DefaultSeconds != 30 || cfg.Timeouts.MaxSeconds != 120 {
		t.Fatalf("unexpected default timeouts: %#v", cfg.Timeouts)
	}
}

func TestLoadFileAndDropIns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	base := []byte("region = \"eu-west-1\"\nprofile = \"dev\"\ntoolsets = [\"iam\", \"s3\"]\n")
	if err := os.WriteFile(path, base, 0600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	dropDir := filepath.Join(dir, "conf.d")
	if err := os.Mkdir(dropDir, 0700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	dropIn := []byte("log_level = \"debug\"\n\n[cache]\nlist_ttl_seconds = 15\n")
	if err := os.WriteFile(filepath.Join(dropDir, "10-cache.toml"), dropIn, 0600); err != nil {
		t.Fatalf("write drop-in: %v", err)
	}

	cfg, err := Load(path, dropDir, Overrides{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Region != "eu-west-1" || cfg.Profile != "dev" {
		t.Fatalf("unexpected region/profile: %#v", cfg)
	}
	if len(cfg.Toolsets) != 2 {
		t.Fatalf("unexpected toolsets: %#v", cfg.Toolsets)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("drop-in not applied: %q", cfg.LogLevel)
	}
	if cfg.Cache.ListTTLSeconds != 15 {
		t.Fatalf("unexpected cache config: %#v", cfg.Cache)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"), "", Overrides{})
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadMissingDropInDir(t *testing.T) {
	cfg, err := Load("", filepath.Join(t.TempDir(), "absent.d"), Overrides{})
	if err != nil {
		t.Fatalf("missing drop-in dir should be ignored: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected config: %#v", cfg)
	}
}

func TestReadFileInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("invalid = ["), 0600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	_, err := readFile(path)
	if err == nil {
		t.Fatalf("expected error for invalid toml")
	}
}

func TestMergeTimeoutsAndCache(t *testing.T) {
	dst := Config{}
	src := Config{
		ReadOnly: true,
		Timeouts: TimeoutConfig{
			DefaultSeconds: 10,
			MaxSeconds:     20,
			PerTool:        map[string]int{"aws.s3.find_object": 90},
		},
		Cache: CacheConfig{
			ListTTLSeconds:     11,
			IdentityTTLSeconds: 12,
		},
	}
	merge(&dst, src)
	if !dst.ReadOnly {
		t.Fatalf("expected read_only to be set")
	}
	if dst.Timeouts.DefaultSeconds != 10 || dst.Timeouts.MaxSeconds != 20 {
		t.Fatalf("unexpected timeouts: %#v", dst.Timeouts)
	}
	if dst.Timeouts.PerTool["aws.s3.find_object"] != 90 {
		t.Fatalf("expected per-tool timeout")
	}
	if dst.Cache.ListTTLSeconds != 11 || dst.Cache.IdentityTTLSeconds != 12 {
		t.Fatalf("unexpected cache config: %#v", dst.Cache)
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := DefaultConfig()
	region := "ap-southeast-2"
	profile := "prod"
	toolsets := []string{"iam"}
	readOnly := false
	logLevel := "warn"
	applyOverrides(&cfg, Overrides{
		Region:   &region,
		Profile:  &profile,
		Toolsets: &toolsets,
		ReadOnly: &readOnly,
		LogLevel: &logLevel,
	})
	if cfg.Region != region || cfg.Profile != profile {
		t.Fatalf("unexpected region/profile: %#v", cfg)
	}
	if len(cfg.Toolsets) != 1 || cfg.Toolsets[0] != "iam" {
		t.Fatalf("unexpected toolsets: %#v", cfg.Toolsets)
	}
	if cfg.ReadOnly {
		t.Fatalf("expected read_only override")
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel)
	}
}
