package sdk

import (
	"context"
	"fmt"
	"testing"
	"time"

	"infracopilot/internal/cache"
	"infracopilot/internal/config"
)

func TestRegisterAndListToolsets(t *testing.T) {
	id := fmt.Sprintf("sdk-test-%d", time.Now().UnixNano())
	err := RegisterToolset(id, func() Toolset { return nil })
	if err != nil {
		t.Fatalf("register toolset: %v", err)
	}
	toolsets := RegisteredToolsets()
	found := false
	for _, name := range toolsets {
		if name == id {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected toolset id %s in list", id)
	}
}

func TestMustRegisterToolset(t *testing.T) {
	id := fmt.Sprintf("sdk-must-%d", time.Now().UnixNano())
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	MustRegisterToolset(id, func() Toolset { return nil })
}

func TestWithListCacheWrapper(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Cache.ListTTLSeconds = 60
	ctx := ToolsetContext{Config: &cfg, Cache: cache.NewStore()}
	calls := 0
	spec := ToolSpec{
		Name: "aws.lambda.list_functions",
		Handler: func(callCtx context.Context, req ToolRequest) (ToolResult, error) {
			calls++
			return ToolResult{Data: map[string]any{"count": calls}}, nil
		},
	}
	wrapped := WithListCache(ctx, spec)
	wrapped.Handler(context.Background(), ToolRequest{})
	wrapped.Handler(context.Background(), ToolRequest{})
	if calls != 1 {
		t.Fatalf("expected one underlying call, got %d", calls)
	}
}
