package awslambda

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"

	"infracopilot/internal/mcp"
	"infracopilot/internal/report"
)

type Service struct {
	ctx          mcp.ToolsetContext
	lambdaClient func(context.Context, string) (*lambda.Client, string, error)
	toolsetID    string
}

func ToolSpecs(ctx mcp.ToolsetContext, toolsetID string, lambdaClient func(context.Context, string) (*lambda.Client, string, error)) []mcp.ToolSpec {
	svc := &Service{ctx: ctx, lambdaClient: lambdaClient, toolsetID: toolsetID}
	return []mcp.ToolSpec{
		{
			Name:        "aws.lambda.list_functions",
			Description: "List Lambda functions with runtime, memory, timeout and deprecation status.",
			ToolsetID:   toolsetID,
			InputSchema: schemaListFunctions(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListFunctions,
		},
		{
			Name:        "aws.lambda.find_deprecated_runtimes",
			Description: "Find functions running deprecated or end-of-life runtimes.",
			ToolsetID:   toolsetID,
			InputSchema: schemaFindDeprecatedRuntimes(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleFindDeprecatedRuntimes,
		},
		{
			Name:        "aws.lambda.get_function",
			Description: "Get detailed configuration for a single Lambda function.",
			ToolsetID:   toolsetID,
			InputSchema: schemaGetFunction(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleGetFunction,
		},
		{
			Name:        "aws.lambda.list_runtimes",
			Description: "List known Lambda runtimes with their deprecation status.",
			ToolsetID:   toolsetID,
			InputSchema: schemaListRuntimes(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListRuntimes,
		},
	}
}

func (s *Service) handleListFunctions(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.lambdaClient(ctx, region)
	if err != nil {
		return errorResult(err), err
	}
	var functions []map[string]any
	paginator := lambda.NewListFunctionsPaginator(client, &lambda.ListFunctionsInput{})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return errorResult(err), err
		}
		for _, fn := range out.Functions {
			runtime := string(fn.Runtime)
			if runtime == "" {
				runtime = "N/A (container or custom)"
			}
			functions = append(functions, map[string]any{
				"name":              aws.ToString(fn.FunctionName),
				"runtime":           runtime,
				"deprecationStatus": deprecationStatus(runtime),
				"memoryMb":          aws.ToInt32(fn.MemorySize),
				"timeoutSeconds":    aws.ToInt32(fn.Timeout),
				"codeSizeMb":        codeSizeMb(fn.CodeSize),
				"lastModified":      aws.ToString(fn.LastModified),
				"description":       aws.ToString(fn.Description),
			})
		}
	}
	// Flagged runtimes surface first, then alphabetical.
	sort.Slice(functions, func(i, j int) bool {
		flaggedI := functions[i]["deprecationStatus"] != ""
		flaggedJ := functions[j]["deprecationStatus"] != ""
		if flaggedI != flaggedJ {
			return flaggedI
		}
		return functions[i]["name"].(string) < functions[j]["name"].(string)
	})
	data := map[string]any{
		"region":        regionOrDefault(usedRegion),
		"functionCount": len(functions),
		"functions":     functions,
	}
	return mcp.ToolResult{Data: s.ctx.Redactor.RedactValue(data)}, nil
}

func (s *Service) handleFindDeprecatedRuntimes(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	includeApproachingEOL := toBool(req.Arguments["includeApproachingEol"], true)
	client, usedRegion, err := s.lambdaClient(ctx, region)
	if err != nil {
		return errorResult(err), err
	}
	rep := report.New()
	var deprecated []map[string]any
	var approachingEOL []map[string]any
	totalScanned := 0
	paginator := lambda.NewListFunctionsPaginator(client, &lambda.ListFunctionsInput{})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return errorResult(err), err
		}
		for _, fn := range out.Functions {
			totalScanned++
			runtime := string(fn.Runtime)
			name := aws.ToString(fn.FunctionName)
			if reason, ok := deprecatedRuntimes[runtime]; ok {
				entry := map[string]any{
					"name":         name,
					"runtime":      runtime,
					"reason":       reason,
					"lastModified": aws.ToString(fn.LastModified),
				}
				deprecated = append(deprecated, entry)
				rep.AddResource(fmt.Sprintf("lambda/function/%s", name))
				rep.AddFinding(fmt.Sprintf("function %s runs deprecated runtime %s", name, runtime), entry, report.SeverityCritical)
				continue
			}
			if reason, ok := approachingEOLRuntimes[runtime]; ok && includeApproachingEOL {
				entry := map[string]any{
					"name":         name,
					"runtime":      runtime,
					"reason":       reason,
					"lastModified": aws.ToString(fn.LastModified),
				}
				approachingEOL = append(approachingEOL, entry)
				rep.AddResource(fmt.Sprintf("lambda/function/%s", name))
				rep.AddFinding(fmt.Sprintf("function %s runtime %s is approaching end of life", name, runtime), entry, report.SeverityWarning)
			}
		}
	}
	runtimeSummary := map[string]int{}
	for _, entry := range deprecated {
		runtimeSummary[entry["runtime"].(string)]++
	}
	rep.SetSummary("totalFunctionsScanned", totalScanned)
	rep.SetSummary("deprecatedCount", len(deprecated))
	data := map[string]any{
		"region":                regionOrDefault(usedRegion),
		"totalFunctionsScanned": totalScanned,
		"deprecatedCount":       len(deprecated),
		"deprecatedFunctions":   deprecated,
	}
	if includeApproachingEOL {
		data["approachingEolCount"] = len(approachingEOL)
		data["approachingEolFunctions"] = approachingEOL
	}
	if len(runtimeSummary) > 0 {
		data["deprecatedRuntimeSummary"] = runtimeSummary
	}
	if s.ctx.Renderer != nil {
		data["report"] = s.ctx.Renderer.Render(rep)
	}
	return mcp.ToolResult{Data: s.ctx.Redactor.RedactValue(data)}, nil
}

func (s *Service) handleGetFunction(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	functionName := strings.TrimSpace(toString(req.Arguments["functionName"]))
	if functionName == "" {
		err := errors.New("functionName is required")
		return errorResult(err), err
	}
	client, usedRegion, err := s.lambdaClient(ctx, region)
	if err != nil {
		return errorResult(err), err
	}
	out, err := client.GetFunction(ctx, &lambda.GetFunctionInput{FunctionName: aws.String(functionName)})
	if err != nil {
		return errorResult(err), err
	}
	fn := out.Configuration
	if fn == nil {
		err := fmt.Errorf("function %s has no configuration", functionName)
		return errorResult(err), err
	}
	runtime := string(fn.Runtime)
	if runtime == "" {
		runtime = "N/A (container or custom)"
	}
	var deprecationInfo map[string]any
	if reason, ok := deprecatedRuntimes[runtime]; ok {
		deprecationInfo = map[string]any{
			"status":         statusDeprecated,
			"message":        reason,
			"actionRequired": "Upgrade to a supported runtime immediately",
		}
	} else if reason, ok := approachingEOLRuntimes[runtime]; ok {
		deprecationInfo = map[string]any{
			"status":         statusApproachingEOL,
			"message":        reason,
			"actionRequired": "Plan upgrade to newer runtime",
		}
	}
	architectures := make([]string, 0, len(fn.Architectures))
	for _, arch := range fn.Architectures {
		architectures = append(architectures, string(arch))
	}
	if len(architectures) == 0 {
		architectures = []string{"x86_64"}
	}
	// Environment variable names only. Values are routinely secrets.
	var envVarNames []string
	if fn.Environment != nil {
		for name := range fn.Environment.Variables {
			envVarNames = append(envVarNames, name)
		}
		sort.Strings(envVarNames)
	}
	layers := make([]string, 0, len(fn.Layers))
	for _, layer := range fn.Layers {
		layers = append(layers, layerName(aws.ToString(layer.Arn)))
	}
	data := map[string]any{
		"region":          regionOrDefault(usedRegion),
		"name":            aws.ToString(fn.FunctionName),
		"arn":             aws.ToString(fn.FunctionArn),
		"runtime":         runtime,
		"deprecationInfo": deprecationInfo,
		"handler":         aws.ToString(fn.Handler),
		"role":            arnTail(aws.ToString(fn.Role)),
		"memoryMb":        aws.ToInt32(fn.MemorySize),
		"timeoutSeconds":  aws.ToInt32(fn.Timeout),
		"codeSizeMb":      codeSizeMb(fn.CodeSize),
		"lastModified":    aws.ToString(fn.LastModified),
		"description":     aws.ToString(fn.Description),
		"state":           string(fn.State),
		"architectures":   architectures,
		"envVarNames":     envVarNames,
		"layers":          layers,
	}
	if fn.VpcConfig != nil && aws.ToString(fn.VpcConfig.VpcId) != "" {
		data["vpcId"] = aws.ToString(fn.VpcConfig.VpcId)
	}
	if len(out.Tags) > 0 {
		data["tags"] = out.Tags
	}
	return mcp.ToolResult{
		Data: s.ctx.Redactor.RedactValue(data),
		Metadata: mcp.ToolMetadata{
			Resources: []string{fmt.Sprintf("lambda/function/%s", functionName)},
		},
	}, nil
}

func (s *Service) handleListRuntimes(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	data := map[string]any{
		"supportedRuntimes":  supportedRuntimes,
		"approachingEol":     approachingEOLRuntimes,
		"deprecatedRuntimes": deprecatedRuntimes,
		"recommendation":     "Use the latest supported runtime for your language. Prefer Amazon Linux 2023 (al2023) based runtimes.",
	}
	return mcp.ToolResult{Data: data}, nil
}

func codeSizeMb(size int64) float64 {
	return math.Round(float64(size)/(1024*1024)*100) / 100
}

// "arn:aws:lambda:us-east-1:123:layer:shared-utils:3" resolves to
// "shared-utils".
func layerName(arn string) string {
	parts := strings.Split(arn, ":")
	if len(parts) < 2 {
		return arn
	}
	return parts[len(parts)-2]
}

func arnTail(value string) string {
	parts := strings.Split(value, "/")
	return parts[len(parts)-1]
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

func toBool(value any, fallback bool) bool {
	if value == nil {
		return fallback
	}
	if b, ok := value.(bool); ok {
		return b
	}
	return fallback
}

func regionOrDefault(region string) string {
	if strings.TrimSpace(region) == "" {
		return "us-east-1"
	}
	return region
}
