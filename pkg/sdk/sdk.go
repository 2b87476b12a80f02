package sdk

import (
	"infracopilot/internal/awsx"
	"infracopilot/internal/identity"
	"infracopilot/internal/mcp"
	"infracopilot/internal/policy"
	"infracopilot/internal/redact"
	"infracopilot/internal/report"
)

// Core toolset interfaces and types.
type Toolset = mcp.Toolset

type ToolsetContext = mcp.ToolsetContext

type ToolSpec = mcp.ToolSpec

type ToolHandler = mcp.ToolHandler

type ToolSafety = mcp.ToolSafety

type ToolRequest = mcp.ToolRequest

type ToolResult = mcp.ToolResult

type ToolMetadata = mcp.ToolMetadata

type Registry = mcp.Registry

const (
	SafetyReadOnly    = mcp.SafetyReadOnly
	SafetyWrite       = mcp.SafetyWrite
	SafetyRiskyWrite  = mcp.SafetyRiskyWrite
	SafetyDestructive = mcp.SafetyDestructive
)

// Toolset registration for plugin discovery.
func RegisterToolset(id string, factory mcp.ToolsetFactory) error {
	return mcp.RegisterToolset(id, factory)
}

func MustRegisterToolset(id string, factory mcp.ToolsetFactory) {
	mcp.MustRegisterToolset(id, factory)
}

func RegisteredToolsets() []string {
	return mcp.RegisteredToolsets()
}

// Shared services and invoker.
type ServiceRegistry = mcp.ServiceRegistry

type ToolInvoker = mcp.ToolInvoker

// AWS helpers.
type Settings = awsx.Settings

type Identity = identity.Identity

type IdentityResolver = identity.Resolver

type Report = report.Report

type Finding = report.Finding

type Renderer = report.Renderer

type Redactor = redact.Redactor

// WithListCache memoizes list-style tools per the cache config.
func WithListCache(ctx ToolsetContext, spec ToolSpec) ToolSpec {
	return mcp.WithListCache(ctx, spec)
}

// Policy helpers.
type User = policy.User

type Role = policy.Role

const (
	RoleRegional = policy.RoleRegional
	RoleAccount  = policy.RoleAccount
)
