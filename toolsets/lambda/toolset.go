package awslambda

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"

	"infracopilot/internal/awsx"
	"infracopilot/internal/mcp"
)

type Toolset struct {
	ctx     mcp.ToolsetContext
	clients *awsx.ClientCache[*lambda.Client]
}

func New() *Toolset {
	return &Toolset{}
}

func init() {
	mcp.MustRegisterToolset("lambda", func() mcp.Toolset {
		return New()
	})
}

func (t *Toolset) ID() string {
	return "lambda"
}

func (t *Toolset) Version() string {
	return "0.1.0"
}

func (t *Toolset) Init(ctx mcp.ToolsetContext) error {
	t.ctx = ctx
	t.clients = awsx.NewClientCache(ctx.AWS, func(cfg sdkaws.Config) *lambda.Client {
		return lambda.NewFromConfig(cfg)
	})
	return nil
}

func (t *Toolset) Register(reg mcp.Registry) error {
	for _, tool := range ToolSpecs(t.ctx, t.ID(), t.client) {
		tool = mcp.WithListCache(t.ctx, tool)
		if err := reg.Add(tool); err != nil {
			return fmt.Errorf("register %s: %w", tool.Name, err)
		}
	}
	return nil
}

func (t *Toolset) client(ctx context.Context, region string) (*lambda.Client, string, error) {
	return t.clients.Get(ctx, region)
}
