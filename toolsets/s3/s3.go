package awss3

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"infracopilot/internal/mcp"
	"infracopilot/internal/report"
)

// Searches across every bucket stop after this many matches.
const findObjectMatchCap = 50

type Service struct {
	ctx       mcp.ToolsetContext
	s3Client  func(context.Context, string) (*s3.Client, string, error)
	kmsClient func(context.Context, string) (*kms.Client, string, error)
	toolsetID string
}

func ToolSpecs(ctx mcp.ToolsetContext, toolsetID string, s3Client func(context.Context, string) (*s3.Client, string, error), kmsClient func(context.Context, string) (*kms.Client, string, error)) []mcp.ToolSpec {
	svc := &Service{ctx: ctx, s3Client: s3Client, kmsClient: kmsClient, toolsetID: toolsetID}
	return []mcp.ToolSpec{
		{
			Name:        "aws.s3.list_buckets",
			Description: "List S3 buckets with their regions and creation dates.",
			ToolsetID:   toolsetID,
			InputSchema: schemaListBuckets(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListBuckets,
		},
		{
			Name:        "aws.s3.get_bucket_size",
			Description: "Compute object count and total size for a bucket.",
			ToolsetID:   toolsetID,
			InputSchema: schemaGetBucketSize(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleGetBucketSize,
		},
		{
			Name:        "aws.s3.check_public_access",
			Description: "Check public access block settings for one bucket or all buckets.",
			ToolsetID:   toolsetID,
			InputSchema: schemaCheckPublicAccess(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleCheckPublicAccess,
		},
		{
			Name:        "aws.s3.find_object",
			Description: "Search every bucket for objects matching a key (substring by default).",
			ToolsetID:   toolsetID,
			InputSchema: schemaFindObject(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleFindObject,
		},
		{
			Name:        "aws.s3.get_bucket_encryption",
			Description: "Report default encryption for one bucket or all buckets, optionally resolving KMS keys.",
			ToolsetID:   toolsetID,
			InputSchema: schemaGetBucketEncryption(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleGetBucketEncryption,
		},
	}
}

func (s *Service) handleListBuckets(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.s3Client(ctx, region)
	if err != nil {
		return errorResult(err), err
	}
	out, err := client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return errorResult(err), err
	}
	buckets := make([]map[string]any, 0, len(out.Buckets))
	for _, bucket := range out.Buckets {
		name := aws.ToString(bucket.Name)
		buckets = append(buckets, map[string]any{
			"name":    name,
			"region":  bucketRegion(ctx, client, name),
			"created": bucket.CreationDate,
		})
	}
	data := map[string]any{
		"region":  regionOrDefault(usedRegion),
		"buckets": buckets,
		"count":   len(buckets),
	}
	return mcp.ToolResult{Data: s.ctx.Redactor.RedactValue(data)}, nil
}

func (s *Service) handleGetBucketSize(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	bucket := strings.TrimSpace(toString(req.Arguments["bucket"]))
	if bucket == "" {
		err := errors.New("bucket is required")
		return errorResult(err), err
	}
	client, usedRegion, err := s.s3Client(ctx, region)
	if err != nil {
		return errorResult(err), err
	}
	paginator := s3.NewListObjectsV2Paginator(client, &s3.ListObjectsV2Input{Bucket: aws.String(bucket)})
	var totalSize int64
	objectCount := 0
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return errorResult(err), err
		}
		for _, object := range out.Contents {
			totalSize += aws.ToInt64(object.Size)
			objectCount++
		}
	}
	data := map[string]any{
		"region":         regionOrDefault(usedRegion),
		"bucket":         bucket,
		"objectCount":    objectCount,
		"totalSizeBytes": totalSize,
		"totalSize":      humanReadableSize(totalSize),
	}
	return mcp.ToolResult{
		Data: s.ctx.Redactor.RedactValue(data),
		Metadata: mcp.ToolMetadata{
			Resources: []string{fmt.Sprintf("s3/bucket/%s", bucket)},
		},
	}, nil
}

func (s *Service) handleCheckPublicAccess(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	bucket := strings.TrimSpace(toString(req.Arguments["bucket"]))
	client, usedRegion, err := s.s3Client(ctx, region)
	if err != nil {
		return errorResult(err), err
	}
	buckets, err := targetBuckets(ctx, client, bucket)
	if err != nil {
		return errorResult(err), err
	}
	rep := report.New()
	var results []map[string]any
	potentiallyPublic := 0
	for _, name := range buckets {
		entry := map[string]any{"bucket": name}
		rep.AddResource(fmt.Sprintf("s3/bucket/%s", name))
		out, err := client.GetPublicAccessBlock(ctx, &s3.GetPublicAccessBlockInput{Bucket: aws.String(name)})
		if err != nil {
			if isErrorCode(err, "NoSuchPublicAccessBlockConfiguration") {
				entry["issues"] = []string{"no public access block configured"}
				entry["potentiallyPublic"] = true
				potentiallyPublic++
				rep.AddFinding(fmt.Sprintf("bucket %s has no public access block", name), entry, report.SeverityCritical)
				results = append(results, entry)
				continue
			}
			// One unreadable bucket must not abort the scan.
			entry["error"] = err.Error()
			results = append(results, entry)
			continue
		}
		cfg := out.PublicAccessBlockConfiguration
		var issues []string
		if !aws.ToBool(cfg.BlockPublicAcls) {
			issues = append(issues, "BlockPublicAcls disabled")
		}
		if !aws.ToBool(cfg.IgnorePublicAcls) {
			issues = append(issues, "IgnorePublicAcls disabled")
		}
		if !aws.ToBool(cfg.BlockPublicPolicy) {
			issues = append(issues, "BlockPublicPolicy disabled")
		}
		if !aws.ToBool(cfg.RestrictPublicBuckets) {
			issues = append(issues, "RestrictPublicBuckets disabled")
		}
		entry["issues"] = issues
		entry["potentiallyPublic"] = len(issues) > 0
		if len(issues) > 0 {
			potentiallyPublic++
			rep.AddFinding(fmt.Sprintf("bucket %s is potentially public: %s", name, strings.Join(issues, "; ")), entry, report.SeverityWarning)
		}
		results = append(results, entry)
	}
	rep.SetSummary("bucketsChecked", len(buckets))
	rep.SetSummary("potentiallyPublic", potentiallyPublic)
	data := map[string]any{
		"region":            regionOrDefault(usedRegion),
		"buckets":           results,
		"bucketsChecked":    len(buckets),
		"potentiallyPublic": potentiallyPublic,
	}
	if s.ctx.Renderer != nil {
		data["report"] = s.ctx.Renderer.Render(rep)
	}
	return mcp.ToolResult{Data: s.ctx.Redactor.RedactValue(data)}, nil
}

func (s *Service) handleFindObject(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	key := strings.TrimSpace(toString(req.Arguments["key"]))
	exactMatch := toBool(req.Arguments["exactMatch"], false)
	if key == "" {
		err := errors.New("key is required")
		return errorResult(err), err
	}
	client, usedRegion, err := s.s3Client(ctx, region)
	if err != nil {
		return errorResult(err), err
	}
	buckets, err := targetBuckets(ctx, client, "")
	if err != nil {
		return errorResult(err), err
	}
	var matches []map[string]any
	bucketErrors := map[string]string{}
	truncated := false
	lowerKey := strings.ToLower(key)
scan:
	for _, bucket := range buckets {
		paginator := s3.NewListObjectsV2Paginator(client, &s3.ListObjectsV2Input{Bucket: aws.String(bucket)})
		for paginator.HasMorePages() {
			out, err := paginator.NextPage(ctx)
			if err != nil {
				bucketErrors[bucket] = err.Error()
				continue scan
			}
			for _, object := range out.Contents {
				objectKey := aws.ToString(object.Key)
				if exactMatch {
					if objectKey != key {
						continue
					}
				} else if !strings.Contains(strings.ToLower(objectKey), lowerKey) {
					continue
				}
				matches = append(matches, map[string]any{
					"bucket":       bucket,
					"key":          objectKey,
					"sizeBytes":    aws.ToInt64(object.Size),
					"lastModified": object.LastModified,
				})
				if len(matches) >= findObjectMatchCap {
					truncated = true
					break scan
				}
			}
		}
	}
	data := map[string]any{
		"region":         regionOrDefault(usedRegion),
		"query":          key,
		"exactMatch":     exactMatch,
		"matches":        matches,
		"count":          len(matches),
		"truncated":      truncated,
		"bucketsScanned": len(buckets),
	}
	if len(bucketErrors) > 0 {
		data["bucketErrors"] = bucketErrors
	}
	return mcp.ToolResult{Data: s.ctx.Redactor.RedactValue(data)}, nil
}

func (s *Service) handleGetBucketEncryption(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	bucket := strings.TrimSpace(toString(req.Arguments["bucket"]))
	includeKeyDetails := toBool(req.Arguments["includeKeyDetails"], false)
	client, usedRegion, err := s.s3Client(ctx, region)
	if err != nil {
		return errorResult(err), err
	}
	buckets, err := targetBuckets(ctx, client, bucket)
	if err != nil {
		return errorResult(err), err
	}
	rep := report.New()
	var results []map[string]any
	unencrypted := 0
	for _, name := range buckets {
		entry := map[string]any{"bucket": name}
		rep.AddResource(fmt.Sprintf("s3/bucket/%s", name))
		out, err := client.GetBucketEncryption(ctx, &s3.GetBucketEncryptionInput{Bucket: aws.String(name)})
		if err != nil {
			if isErrorCode(err, "ServerSideEncryptionConfigurationNotFoundError") {
				entry["encrypted"] = false
				unencrypted++
				rep.AddFinding(fmt.Sprintf("bucket %s has no default encryption", name), entry, report.SeverityCritical)
				results = append(results, entry)
				continue
			}
			// One unreadable bucket must not abort the scan.
			entry["error"] = err.Error()
			results = append(results, entry)
			continue
		}
		entry["encrypted"] = true
		if cfg := out.ServerSideEncryptionConfiguration; cfg != nil && len(cfg.Rules) > 0 {
			rule := cfg.Rules[0]
			if def := rule.ApplyServerSideEncryptionByDefault; def != nil {
				entry["algorithm"] = string(def.SSEAlgorithm)
				keyID := aws.ToString(def.KMSMasterKeyID)
				if keyID != "" {
					entry["kmsKeyId"] = keyID
					if includeKeyDetails {
						details, err := s.describeKey(ctx, region, keyID)
						if err != nil {
							entry["kmsKeyError"] = err.Error()
						} else {
							entry["kmsKey"] = details
						}
					}
				}
			}
		}
		results = append(results, entry)
	}
	rep.SetSummary("bucketsChecked", len(buckets))
	rep.SetSummary("unencrypted", unencrypted)
	data := map[string]any{
		"region":         regionOrDefault(usedRegion),
		"buckets":        results,
		"bucketsChecked": len(buckets),
		"unencrypted":    unencrypted,
	}
	if s.ctx.Renderer != nil {
		data["report"] = s.ctx.Renderer.Render(rep)
	}
	return mcp.ToolResult{Data: s.ctx.Redactor.RedactValue(data)}, nil
}

func (s *Service) describeKey(ctx context.Context, region, keyID string) (map[string]any, error) {
	client, _, err := s.kmsClient(ctx, region)
	if err != nil {
		return nil, err
	}
	out, err := client.DescribeKey(ctx, &kms.DescribeKeyInput{KeyId: aws.String(keyID)})
	if err != nil {
		return nil, err
	}
	meta := out.KeyMetadata
	if meta == nil {
		return nil, errors.New("key metadata missing")
	}
	return map[string]any{
		"keyId":       aws.ToString(meta.KeyId),
		"arn":         aws.ToString(meta.Arn),
		"state":       string(meta.KeyState),
		"manager":     string(meta.KeyManager),
		"description": aws.ToString(meta.Description),
		"created":     meta.CreationDate,
	}, nil
}

func targetBuckets(ctx context.Context, client *s3.Client, bucket string) ([]string, error) {
	if bucket != "" {
		return []string{bucket}, nil
	}
	out, err := client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(out.Buckets))
	for _, entry := range out.Buckets {
		names = append(names, aws.ToString(entry.Name))
	}
	return names, nil
}

// GetBucketLocation returns an empty constraint for us-east-1; lookup
// failures degrade to "unknown" rather than failing the listing.
func bucketRegion(ctx context.Context, client *s3.Client, bucket string) string {
	out, err := client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{Bucket: aws.String(bucket)})
	if err != nil {
		return "unknown"
	}
	if out.LocationConstraint == s3types.BucketLocationConstraint("") {
		return "us-east-1"
	}
	return string(out.LocationConstraint)
}

func humanReadableSize(size int64) string {
	if size < 1024 {
		return fmt.Sprintf("%d B", size)
	}
	value := float64(size)
	for _, unit := range []string{"KB", "MB", "GB"} {
		value /= 1024
		if value < 1024 {
			return fmt.Sprintf("%.2f %s", value, unit)
		}
	}
	return fmt.Sprintf("%.2f TB", value/1024)
}

func isErrorCode(err error, code string) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == code
	}
	return false
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
