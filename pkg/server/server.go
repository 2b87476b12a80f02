package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"infracopilot/internal/audit"
	"infracopilot/internal/awsx"
	"infracopilot/internal/cache"
	"infracopilot/internal/config"
	"infracopilot/internal/identity"
	icmcp "infracopilot/internal/mcp"
	"infracopilot/internal/policy"
	"infracopilot/internal/redact"
	"infracopilot/internal/report"
)

type Options struct {
	ConfigPath         string
	Region             string
	Profile            string
	Toolsets           []string
	ReadOnly           bool
	DisableDestructive bool
	LogLevel           string
	Version            string
	Stderr             io.Writer
	Transport          sdkmcp.Transport
}

func Run(ctx context.Context, opts Options) error {
	errOut := opts.Stderr
	if errOut == nil {
		errOut = os.Stderr
	}
	configPath := opts.ConfigPath
	if configPath == "" {
		if env := os.Getenv("COPILOT_CONFIG"); env != "" {
			configPath = env
		}
	}
	overrides := config.Overrides{}
	if opts.Region != "" {
		overrides.Region = &opts.Region
	}
	if opts.Profile != "" {
		overrides.Profile = &opts.Profile
	}
	if len(opts.Toolsets) > 0 {
		overrides.Toolsets = &opts.Toolsets
	}
	if opts.ReadOnly {
		overrides.ReadOnly = &opts.ReadOnly
	}
	if opts.LogLevel != "" {
		overrides.LogLevel = &opts.LogLevel
	}

	cfg, err := config.Load(configPath, "", overrides)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if opts.DisableDestructive {
		cfg.DisableDestructive = true
	}

	toolCtx, reg, err := buildRuntime(cfg, errOut)
	if err != nil {
		return fmt.Errorf("init failed: %w", err)
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "infracopilot", Version: opts.Version}, nil)
	toolNames, err := icmcp.RegisterSDKTools(server, reg, toolCtx)
	if err != nil {
		return fmt.Errorf("tool registration failed: %w", err)
	}

	reloadCh := make(chan os.Signal, 1)
	signal.Notify(reloadCh, syscall.SIGHUP)
	go func() {
		for range reloadCh {
			cfg, err := config.Load(configPath, "", overrides)
			if err != nil {
				fmt.Fprintf(errOut, "config reload failed: %v\n", err)
				continue
			}
			toolCtx, reg, err := buildRuntime(cfg, errOut)
			if err != nil {
				fmt.Fprintf(errOut, "reload init failed: %v\n", err)
				continue
			}
			if len(toolNames) > 0 {
				server.RemoveTools(toolNames...)
			}
			toolNames, err = icmcp.RegisterSDKTools(server, reg, toolCtx)
			if err != nil {
				fmt.Fprintf(errOut, "tool registration failed: %v\n", err)
				continue
			}
		}
	}()

	transport := opts.Transport
	if transport == nil {
		transport = &sdkmcp.StdioTransport{}
	}
	if err := server.Run(ctx, transport); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func buildRuntime(cfg config.Config, errOut io.Writer) (icmcp.ToolContext, *icmcp.ToolRegistry, error) {
	settings := awsx.Settings{Region: cfg.Region, Profile: cfg.Profile}
	authorizer := policy.NewAuthorizer()
	redactor := redact.New()
	renderer := report.NewRenderer()
	auditLogger := audit.NewLogger(errOut)
	serviceRegistry := icmcp.NewServiceRegistry()
	store := cache.NewStore()
	reg := icmcp.NewRegistry(&cfg)

	stsClients := awsx.NewClientCache(settings, func(awsCfg sdkaws.Config) *sts.Client {
		return sts.NewFromConfig(awsCfg)
	})
	identityTTL := time.Duration(cfg.Cache.IdentityTTLSeconds) * time.Second
	resolver := identity.NewSTSResolver(stsClients.Get, identityTTL)

	toolCtx := icmcp.ToolContext{
		Config:   &cfg,
		AWS:      settings,
		Policy:   authorizer,
		Identity: resolver,
		Renderer: renderer,
		Redactor: redactor,
		Audit:    auditLogger,
		Services: serviceRegistry,
		Cache:    store,
		Registry: reg,
	}
	toolCtx.Invoker = icmcp.NewToolInvoker(reg, toolCtx)
	toolsetCtx := icmcp.ToolsetContext(toolCtx)

	for _, id := range cfg.Toolsets {
		factory, ok := icmcp.ToolsetFactoryFor(id)
		if !ok {
			return icmcp.ToolContext{}, nil, fmt.Errorf("unknown toolset: %s", id)
		}
		toolset := factory()
		if err := toolset.Init(toolsetCtx); err != nil {
			return icmcp.ToolContext{}, nil, err
		}
		if err := toolset.Register(reg); err != nil {
			return icmcp.ToolContext{}, nil, err
		}
	}

	return toolCtx, reg, nil
}
