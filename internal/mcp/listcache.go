package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// WithListCache memoizes list-style tools by tool name and stable argument
// key. Enabled only when cache.list_ttl_seconds is positive.
func WithListCache(ctx ToolsetContext, spec ToolSpec) ToolSpec {
	if ctx.Cache == nil || ctx.Config == nil {
		return spec
	}
	if !strings.Contains(spec.Name, ".list_") {
		return spec
	}
	ttlSeconds := ctx.Config.Cache.ListTTLSeconds
	if ttlSeconds <= 0 {
		return spec
	}
	ttl := time.Duration(ttlSeconds) * time.Second
	handler := spec.Handler
	store := ctx.Cache
	spec.Handler = func(callCtx context.Context, req ToolRequest) (ToolResult, error) {
		key := listCacheKey(spec.Name, req.Arguments)
		if cached, ok := store.Get(key); ok {
			if result, ok := cached.(ToolResult); ok {
				return result, nil
			}
		}
		result, err := handler(callCtx, req)
		if err == nil && result.Data != nil {
			store.Set(key, result, ttl)
		}
		return result, err
	}
	return spec
}

func listCacheKey(toolName string, args map[string]any) string {
	return fmt.Sprintf("list:%s:%s", toolName, stableValue(args))
}

func stableValue(value any) string {
	switch typed := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, stableValue(typed[key])))
		}
		return "{" + strings.Join(parts, ",") + "}"
	case map[string]string:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, typed[key]))
		}
		return "{" + strings.Join(parts, ",") + "}"
	case []any:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, stableValue(item))
		}
		return "[" + strings.Join(parts, ",") + "]"
	case []string:
		return "[" + strings.Join(typed, ",") + "]"
	case string:
		return strings.TrimSpace(typed)
	default:
		return fmt.Sprintf("%v", typed)
	}
}
