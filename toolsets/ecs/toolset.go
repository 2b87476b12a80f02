package awsecs

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/health"

	"infracopilot/internal/awsx"
	"infracopilot/internal/mcp"
)

// The AWS Health API is only served out of us-east-1.
const healthRegion = "us-east-1"

type Toolset struct {
	ctx           mcp.ToolsetContext
	ecsClients    *awsx.ClientCache[*ecs.Client]
	healthClients *awsx.ClientCache[*health.Client]
}

func New() *Toolset {
	return &Toolset{}
}

func init() {
	mcp.MustRegisterToolset("ecs", func() mcp.Toolset {
		return New()
	})
}

func (t *Toolset) ID() string {
	return "ecs"
}

func (t *Toolset) Version() string {
	return "0.1.0"
}

func (t *Toolset) Init(ctx mcp.ToolsetContext) error {
	t.ctx = ctx
	t.ecsClients = awsx.NewClientCache(ctx.AWS, func(cfg sdkaws.Config) *ecs.Client {
		return ecs.NewFromConfig(cfg)
	})
	t.healthClients = awsx.NewClientCache(ctx.AWS, func(cfg sdkaws.Config) *health.Client {
		return health.NewFromConfig(cfg)
	})
	return nil
}

func (t *Toolset) Register(reg mcp.Registry) error {
	for _, tool := range ToolSpecs(t.ctx, t.ID(), t.ecsClient, t.healthClient) {
		tool = mcp.WithListCache(t.ctx, tool)
		if err := reg.Add(tool); err != nil {
			return fmt.Errorf("register %s: %w", tool.Name, err)
		}
	}
	return nil
}

func (t *Toolset) ecsClient(ctx context.Context, region string) (*ecs.Client, string, error) {
	return t.ecsClients.Get(ctx, region)
}

func (t *Toolset) healthClient(ctx context.Context) (*health.Client, string, error) {
	return t.healthClients.Get(ctx, healthRegion)
}
