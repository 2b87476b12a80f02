package mcp

import (
	"context"
	"testing"
	"time"

	"infracopilot/internal/config"
)

func TestToolTimeoutDefault(t *testing.T) {
	cfg := config.Config{Timeouts: config.TimeoutConfig{DefaultSeconds: 30, MaxSeconds: 120}}
	if got := toolTimeout(&cfg, "aws.iam.list_users"); got != 30*time.Second {
		t.Fatalf("unexpected timeout: %s", got)
	}
}

func TestToolTimeoutPerToolOverride(t *testing.T) {
	cfg := config.Config{Timeouts: config.TimeoutConfig{
		DefaultSeconds: 30,
		MaxSeconds:     120,
		PerTool:        map[string]int{"aws.s3.find_object": 90},
	}}
	if got := toolTimeout(&cfg, "aws.s3.find_object"); got != 90*time.Second {
		t.Fatalf("unexpected timeout: %s", got)
	}
}

func TestToolTimeoutClampedToMax(t *testing.T) {
	cfg := config.Config{Timeouts: config.TimeoutConfig{
		DefaultSeconds: 30,
		MaxSeconds:     60,
		PerTool:        map[string]int{"aws.s3.find_object": 600},
	}}
	if got := toolTimeout(&cfg, "aws.s3.find_object"); got != 60*time.Second {
		t.Fatalf("unexpected timeout: %s", got)
	}
}

func TestWithToolTimeoutNoConfig(t *testing.T) {
	ctx, cancel := withToolTimeout(context.Background(), nil, ToolSpec{Name: "aws.iam.list_users"})
	defer cancel()
	if _, ok := ctx.Deadline(); ok {
		t.Fatalf("expected no deadline without config")
	}
}

func TestWithToolTimeoutSetsDeadline(t *testing.T) {
	cfg := config.Config{Timeouts: config.TimeoutConfig{DefaultSeconds: 5}}
	ctx, cancel := withToolTimeout(context.Background(), &cfg, ToolSpec{Name: "aws.iam.list_users"})
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Fatalf("expected a deadline")
	}
}
