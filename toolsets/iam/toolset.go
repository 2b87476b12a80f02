package awsiam

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"

	"infracopilot/internal/awsx"
	"infracopilot/internal/mcp"
)

type Toolset struct {
	ctx     mcp.ToolsetContext
	clients *awsx.ClientCache[*iam.Client]
}

func New() *Toolset {
	return &Toolset{}
}

func init() {
	mcp.MustRegisterToolset("iam", func() mcp.Toolset {
		return New()
	})
}

func (t *Toolset) ID() string {
	return "iam"
}

func (t *Toolset) Version() string {
	return "0.1.0"
}

func (t *Toolset) Init(ctx mcp.ToolsetContext) error {
	t.ctx = ctx
	t.clients = awsx.NewClientCache(ctx.AWS, func(cfg sdkaws.Config) *iam.Client {
		return iam.NewFromConfig(cfg)
	})
	return nil
}

func (t *Toolset) Register(reg mcp.Registry) error {
	for _, tool := range ToolSpecs(t.ctx, t.ID(), t.iamClient) {
		tool = mcp.WithListCache(t.ctx, tool)
		if err := reg.Add(tool); err != nil {
			return fmt.Errorf("register %s: %w", tool.Name, err)
		}
	}
	return nil
}

func (t *Toolset) iamClient(ctx context.Context, region string) (*iam.Client, string, error) {
	return t.clients.Get(ctx, region)
}
