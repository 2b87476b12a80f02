package awss3

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"infracopilot/internal/awsx"
	"infracopilot/internal/mcp"
)

type Toolset struct {
	ctx        mcp.ToolsetContext
	s3Clients  *awsx.ClientCache[*s3.Client]
	kmsClients *awsx.ClientCache[*kms.Client]
}

func New() *Toolset {
	return &Toolset{}
}

func init() {
	mcp.MustRegisterToolset("s3", func() mcp.Toolset {
		return New()
	})
}

func (t *Toolset) ID() string {
	return "s3"
}

func (t *Toolset) Version() string {
	return "0.1.0"
}

func (t *Toolset) Init(ctx mcp.ToolsetContext) error {
	t.ctx = ctx
	t.s3Clients = awsx.NewClientCache(ctx.AWS, func(cfg sdkaws.Config) *s3.Client {
		return s3.NewFromConfig(cfg)
	})
	t.kmsClients = awsx.NewClientCache(ctx.AWS, func(cfg sdkaws.Config) *kms.Client {
		return kms.NewFromConfig(cfg)
	})
	return nil
}

func (t *Toolset) Register(reg mcp.Registry) error {
	for _, tool := range ToolSpecs(t.ctx, t.ID(), t.s3Client, t.kmsClient) {
		tool = mcp.WithListCache(t.ctx, tool)
		if err := reg.Add(tool); err != nil {
			return fmt.Errorf("register %s: %w", tool.Name, err)
		}
	}
	return nil
}

func (t *Toolset) s3Client(ctx context.Context, region string) (*s3.Client, string, error) {
	return t.s3Clients.Get(ctx, region)
}

func (t *Toolset) kmsClient(ctx context.Context, region string) (*kms.Client, string, error) {
	return t.kmsClients.Get(ctx, region)
}
