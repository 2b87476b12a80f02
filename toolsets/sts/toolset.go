package awssts

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"infracopilot/internal/awsx"
	"infracopilot/internal/mcp"
)

type Toolset struct {
	ctx     mcp.ToolsetContext
	clients *awsx.ClientCache[*sts.Client]
}

func New() *Toolset {
	return &Toolset{}
}

func init() {
	mcp.MustRegisterToolset("sts", func() mcp.Toolset {
		return New()
	})
}

func (t *Toolset) ID() string {
	return "sts"
}

func (t *Toolset) Version() string {
	return "0.1.0"
}

func (t *Toolset) Init(ctx mcp.ToolsetContext) error {
	t.ctx = ctx
	t.clients = awsx.NewClientCache(ctx.AWS, func(cfg sdkaws.Config) *sts.Client {
		return sts.NewFromConfig(cfg)
	})
	return nil
}

func (t *Toolset) Register(reg mcp.Registry) error {
	for _, tool := range ToolSpecs(t.ctx, t.ID(), t.stsClient) {
		tool = mcp.WithListCache(t.ctx, tool)
		if err := reg.Add(tool); err != nil {
			return fmt.Errorf("register %s: %w", tool.Name, err)
		}
	}
	return nil
}

func (t *Toolset) stsClient(ctx context.Context, region string) (*sts.Client, string, error) {
	return t.clients.Get(ctx, region)
}
