package mcp

import (
	"context"
	"testing"

	"infracopilot/internal/cache"
	"infracopilot/internal/config"
)

func cachingContext(ttlSeconds int) ToolsetContext {
	cfg := config.DefaultConfig()
	cfg.Cache.ListTTLSeconds = ttlSeconds
	return ToolsetContext{Config: &cfg, Cache: cache.NewStore()}
}

func TestWithListCacheMemoizesListTools(t *testing.T) {
	ctx := cachingContext(60)
	calls := 0
	spec := ToolSpec{
		Name: "aws.s3.list_buckets",
		Handler: func(callCtx context.Context, req ToolRequest) (ToolResult, error) {
			calls++
			return ToolResult{Data: map[string]any{"count": calls}}, nil
		},
	}
	wrapped := WithListCache(ctx, spec)
	for i := 0; i < 3; i++ {
		if _, err := wrapped.Handler(context.Background(), ToolRequest{}); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one underlying call, got %d", calls)
	}
}

func TestWithListCachePreservesMetadata(t *testing.T) {
	ctx := cachingContext(60)
	spec := ToolSpec{
		Name: "aws.ecs.list_clusters",
		Handler: func(callCtx context.Context, req ToolRequest) (ToolResult, error) {
			return ToolResult{
				Data: map[string]any{"count": 1},
				Metadata: ToolMetadata{
					Regions:   []string{"us-east-1"},
					Resources: []string{"ecs/cluster/prod"},
				},
			}, nil
		},
	}
	wrapped := WithListCache(ctx, spec)
	wrapped.Handler(context.Background(), ToolRequest{})
	result, err := wrapped.Handler(context.Background(), ToolRequest{})
	if err != nil {
		t.Fatalf("cached call: %v", err)
	}
	if len(result.Metadata.Resources) != 1 || result.Metadata.Resources[0] != "ecs/cluster/prod" {
		t.Fatalf("cache hit dropped metadata: %#v", result.Metadata)
	}
	if len(result.Metadata.Regions) != 1 {
		t.Fatalf("cache hit dropped regions: %#v", result.Metadata)
	}
}

func TestWithListCacheDistinguishesArguments(t *testing.T) {
	ctx := cachingContext(60)
	calls := 0
	spec := ToolSpec{
		Name: "aws.ecs.list_services",
		Handler: func(callCtx context.Context, req ToolRequest) (ToolResult, error) {
			calls++
			return ToolResult{Data: map[string]any{"count": calls}}, nil
		},
	}
	wrapped := WithListCache(ctx, spec)
	wrapped.Handler(context.Background(), ToolRequest{Arguments: map[string]any{"cluster": "prod"}})
	wrapped.Handler(context.Background(), ToolRequest{Arguments: map[string]any{"cluster": "staging"}})
	wrapped.Handler(context.Background(), ToolRequest{Arguments: map[string]any{"cluster": "prod"}})
	if calls != 2 {
		t.Fatalf("expected two underlying calls, got %d", calls)
	}
}

func TestWithListCacheSkipsNonListTools(t *testing.T) {
	ctx := cachingContext(60)
	calls := 0
	spec := ToolSpec{
		Name: "aws.s3.get_bucket_size",
		Handler: func(callCtx context.Context, req ToolRequest) (ToolResult, error) {
			calls++
			return ToolResult{Data: map[string]any{"count": calls}}, nil
		},
	}
	wrapped := WithListCache(ctx, spec)
	wrapped.Handler(context.Background(), ToolRequest{})
	wrapped.Handler(context.Background(), ToolRequest{})
	if calls != 2 {
		t.Fatalf("non-list tool should not be cached, got %d calls", calls)
	}
}

func TestWithListCacheDisabledByZeroTTL(t *testing.T) {
	ctx := cachingContext(0)
	calls := 0
	spec := ToolSpec{
		Name: "aws.iam.list_users",
		Handler: func(callCtx context.Context, req ToolRequest) (ToolResult, error) {
			calls++
			return ToolResult{Data: map[string]any{"count": calls}}, nil
		},
	}
	wrapped := WithListCache(ctx, spec)
	wrapped.Handler(context.Background(), ToolRequest{})
	wrapped.Handler(context.Background(), ToolRequest{})
	if calls != 2 {
		t.Fatalf("zero TTL should disable caching, got %d calls", calls)
	}
}

func TestStableValueOrdersMapKeys(t *testing.T) {
	a := stableValue(map[string]any{"b": "2", "a": "1"})
	b := stableValue(map[string]any{"a": "1", "b": "2"})
	if a != b {
		t.Fatalf("expected stable key, got %q and %q", a, b)
	}
}
