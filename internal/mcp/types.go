package mcp

import (
	"context"

	"infracopilot/internal/audit"
	"infracopilot/internal/awsx"
	"infracopilot/internal/cache"
	"infracopilot/internal/config"
	"infracopilot/internal/identity"
	"infracopilot/internal/policy"
	"infracopilot/internal/redact"
	"infracopilot/internal/report"
)

type ToolSafety string

const (
	SafetyReadOnly    ToolSafety = "read_only"
	SafetyWrite       ToolSafety = "write"
	SafetyRiskyWrite  ToolSafety = "risky_write"
	SafetyDestructive ToolSafety = "destructive"
)

type ToolHandler func(ctx context.Context, req ToolRequest) (ToolResult, error)

type ToolSpec struct {
	Name        string
	Description string
	ToolsetID   string
	InputSchema map[string]any
	Safety      ToolSafety
	Handler     ToolHandler
}

type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type ToolRequest struct {
	Arguments map[string]any
	User      policy.User
	Context   ToolContext
}

type ToolResult struct {
	Data     any
	Metadata ToolMetadata
}

type ToolMetadata struct {
	Regions   []string `json:"regions,omitempty"`
	Resources []string `json:"resources,omitempty"`
}

type ToolContext struct {
	Config   *config.Config
	AWS      awsx.Settings
	Policy   *policy.Authorizer
	Identity identity.Resolver
	Renderer report.Renderer
	Redactor *redact.Redactor
	Audit    *audit.Logger
	Services *ServiceRegistry
	Cache    *cache.Store
	Invoker  *ToolInvoker
	Registry Registry
}

type ToolsetContext = ToolContext
