package awssts

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"infracopilot/internal/mcp"
)

type Service struct {
	ctx       mcp.ToolsetContext
	stsClient func(context.Context, string) (*sts.Client, string, error)
	toolsetID string
}

func ToolSpecs(ctx mcp.ToolsetContext, toolsetID string, stsClient func(context.Context, string) (*sts.Client, string, error)) []mcp.ToolSpec {
	svc := &Service{ctx: ctx, stsClient: stsClient, toolsetID: toolsetID}
	return []mcp.ToolSpec{
		{
			Name:        "aws.sts.get_caller_identity",
			Description: "Get AWS account and caller identity for the active credentials.",
			ToolsetID:   toolsetID,
			InputSchema: schemaGetCallerIdentity(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleGetCallerIdentity,
		},
	}
}

func (s *Service) handleGetCallerIdentity(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	if s.ctx.Identity != nil {
		id, err := s.ctx.Identity.Resolve(ctx)
		if err != nil {
			return errorResult(err), err
		}
		return mcp.ToolResult{Data: s.ctx.Redactor.RedactValue(map[string]any{
			"account": id.Account,
			"arn":     id.Arn,
			"userId":  id.UserID,
		})}, nil
	}
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.stsClient(ctx, region)
	if err != nil {
		return errorResult(err), err
	}
	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return errorResult(err), err
	}
	return mcp.ToolResult{Data: s.ctx.Redactor.RedactValue(map[string]any{
		"region":  usedRegion,
		"account": aws.ToString(out.Account),
		"arn":     aws.ToString(out.Arn),
		"userId":  aws.ToString(out.UserId),
	})}, nil
}

func errorResult(err error) mcp.ToolResult {
	return mcp.ToolResult{Data: map[string]any{"error": err.Error()}}
}

func toString(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
