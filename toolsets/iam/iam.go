package awsiam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"

	"infracopilot/internal/mcp"
	"infracopilot/internal/report"
)

// The AWS-managed policy. Customer-managed policies that reuse the name
// do not grant admin access.
const adminPolicyArn = "arn:aws:iam::aws:policy/AdministratorAccess"

type Service struct {
	ctx       mcp.ToolsetContext
	iamClient func(context.Context, string) (*iam.Client, string, error)
	toolsetID string
}

func ToolSpecs(ctx mcp.ToolsetContext, toolsetID string, iamClient func(context.Context, string) (*iam.Client, string, error)) []mcp.ToolSpec {
	svc := &Service{ctx: ctx, iamClient: iamClient, toolsetID: toolsetID}
	return []mcp.ToolSpec{
		{
			Name:        "aws.iam.list_users",
			Description: "List IAM users with creation date and last console sign-in.",
			ToolsetID:   toolsetID,
			InputSchema: schemaListUsers(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListUsers,
		},
		{
			Name:        "aws.iam.list_stale_credentials",
			Description: "Find access keys older than a threshold in days (default 90).",
			ToolsetID:   toolsetID,
			InputSchema: schemaListStaleCredentials(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListStaleCredentials,
		},
		{
			Name:        "aws.iam.list_admin_access",
			Description: "Find users with AdministratorAccess attached directly or via groups.",
			ToolsetID:   toolsetID,
			InputSchema: schemaListAdminAccess(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListAdminAccess,
		},
		{
			Name:        "aws.iam.list_roles",
			Description: "List IAM roles (path prefix, limit supported).",
			ToolsetID:   toolsetID,
			InputSchema: schemaListRoles(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListRoles,
		},
		{
			Name:        "aws.iam.get_role_trust_policy",
			Description: "Get the assume-role (trust) policy document for a role.",
			ToolsetID:   toolsetID,
			InputSchema: schemaGetRoleTrustPolicy(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleGetRoleTrustPolicy,
		},
		{
			Name:        "aws.iam.list_access_keys",
			Description: "List access keys with age and last-used info, for one user or all.",
			ToolsetID:   toolsetID,
			InputSchema: schemaListAccessKeys(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListAccessKeys,
		},
	}
}

func (s *Service) handleListUsers(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.iamClient(ctx, region)
	if err != nil {
		return errorResult(err), err
	}
	users, err := listAllUsers(ctx, client)
	if err != nil {
		return errorResult(err), err
	}
	summaries := make([]map[string]any, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, summarizeUser(user))
	}
	data := map[string]any{
		"region": regionOrDefault(usedRegion),
		"users":  summaries,
		"count":  len(summaries),
	}
	return mcp.ToolResult{Data: s.ctx.Redactor.RedactValue(data)}, nil
}

func (s *Service) handleListStaleCredentials(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	days := toInt(req.Arguments["days"], 90)
	if days <= 0 {
		err := errors.New("days must be a positive number")
		return errorResult(err), err
	}
	client, usedRegion, err := s.iamClient(ctx, region)
	if err != nil {
		return errorResult(err), err
	}
	users, err := listAllUsers(ctx, client)
	if err != nil {
		return errorResult(err), err
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	rep := report.New()
	var stale []map[string]any
	for _, user := range users {
		userName := aws.ToString(user.UserName)
		keys, err := client.ListAccessKeys(ctx, &iam.ListAccessKeysInput{UserName: aws.String(userName)})
		if err != nil {
			return errorResult(err), err
		}
		for _, key := range keys.AccessKeyMetadata {
			if key.CreateDate == nil || !key.CreateDate.Before(cutoff) {
				continue
			}
			age := ageDays(*key.CreateDate)
			entry := map[string]any{
				"user":    userName,
				"keyId":   aws.ToString(key.AccessKeyId),
				"status":  string(key.Status),
				"created": key.CreateDate,
				"ageDays": age,
			}
			stale = append(stale, entry)
			rep.AddFinding(fmt.Sprintf("access key for %s is %d days old", userName, age), entry, report.SeverityWarning)
		}
		rep.AddResource(fmt.Sprintf("iam/user/%s", userName))
	}
	rep.SetSummary("thresholdDays", days)
	rep.SetSummary("staleKeys", len(stale))
	data := map[string]any{
		"region":        regionOrDefault(usedRegion),
		"thresholdDays": days,
		"staleKeys":     stale,
		"count":         len(stale),
	}
	if s.ctx.Renderer != nil {
		data["report"] = s.ctx.Renderer.Render(rep)
	}
	return mcp.ToolResult{Data: s.ctx.Redactor.RedactValue(data)}, nil
}

func (s *Service) handleListAdminAccess(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.iamClient(ctx, region)
	if err != nil {
		return errorResult(err), err
	}
	users, err := listAllUsers(ctx, client)
	if err != nil {
		return errorResult(err), err
	}
	rep := report.New()
	var admins []map[string]any
	for _, user := range users {
		userName := aws.ToString(user.UserName)
		sources, err := adminAccessSources(ctx, client, userName)
		if err != nil {
			return errorResult(err), err
		}
		rep.AddResource(fmt.Sprintf("iam/user/%s", userName))
		if len(sources) == 0 {
			continue
		}
		entry := map[string]any{
			"user":    userName,
			"arn":     aws.ToString(user.Arn),
			"sources": sources,
		}
		admins = append(admins, entry)
		rep.AddFinding(fmt.Sprintf("%s has AdministratorAccess via %s", userName, strings.Join(sources, ", ")), entry, report.SeverityCritical)
	}
	rep.SetSummary("usersWithAdminAccess", len(admins))
	data := map[string]any{
		"region": regionOrDefault(usedRegion),
		"admins": admins,
		"count":  len(admins),
	}
	if s.ctx.Renderer != nil {
		data["report"] = s.ctx.Renderer.Render(rep)
	}
	return mcp.ToolResult{Data: s.ctx.Redactor.RedactValue(data)}, nil
}

func (s *Service) handleListRoles(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	pathPrefix := toString(req.Arguments["pathPrefix"])
	limit := toInt(req.Arguments["limit"], 0)
	client, usedRegion, err := s.iamClient(ctx, region)
	if err != nil {
		return errorResult(err), err
	}
	input := &iam.ListRolesInput{}
	if pathPrefix != "" {
		input.PathPrefix = aws.String(pathPrefix)
	}
	paginator := iam.NewListRolesPaginator(client, input)
	var roles []map[string]any
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return errorResult(err), err
		}
		for _, role := range out.Roles {
			roles = append(roles, summarizeRole(role))
			if limit > 0 && len(roles) >= limit {
				break
			}
		}
		if limit > 0 && len(roles) >= limit {
			break
		}
	}
	data := map[string]any{
		"region": regionOrDefault(usedRegion),
		"roles":  roles,
		"count":  len(roles),
	}
	return mcp.ToolResult{Data: s.ctx.Redactor.RedactValue(data)}, nil
}

func (s *Service) handleGetRoleTrustPolicy(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	roleName := strings.TrimSpace(toString(req.Arguments["roleName"]))
	if roleName == "" {
		err := errors.New("roleName is required")
		return errorResult(err), err
	}
	client, usedRegion, err := s.iamClient(ctx, region)
	if err != nil {
		return errorResult(err), err
	}
	out, err := client.GetRole(ctx, &iam.GetRoleInput{RoleName: aws.String(roleName)})
	if err != nil {
		return errorResult(err), err
	}
	doc := decodePolicyDocument(aws.ToString(out.Role.AssumeRolePolicyDocument))
	result := map[string]any{
		"region":      regionOrDefault(usedRegion),
		"role":        roleName,
		"arn":         aws.ToString(out.Role.Arn),
		"trustPolicy": parseJSONOrString(doc),
	}
	return mcp.ToolResult{
		Data: s.ctx.Redactor.RedactValue(result),
		Metadata: mcp.ToolMetadata{
			Resources: []string{fmt.Sprintf("iam/role/%s", roleName)},
		},
	}, nil
}

func (s *Service) handleListAccessKeys(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	userName := strings.TrimSpace(toString(req.Arguments["userName"]))
	client, usedRegion, err := s.iamClient(ctx, region)
	if err != nil {
		return errorResult(err), err
	}
	var userNames []string
	if userName != "" {
		userNames = []string{userName}
	} else {
		users, err := listAllUsers(ctx, client)
		if err != nil {
			return errorResult(err), err
		}
		for _, user := range users {
			userNames = append(userNames, aws.ToString(user.UserName))
		}
	}
	var keys []map[string]any
	for _, name := range userNames {
		out, err := client.ListAccessKeys(ctx, &iam.ListAccessKeysInput{UserName: aws.String(name)})
		if err != nil {
			return errorResult(err), err
		}
		for _, key := range out.AccessKeyMetadata {
			entry := map[string]any{
				"user":    aws.ToString(key.UserName),
				"keyId":   aws.ToString(key.AccessKeyId),
				"status":  string(key.Status),
				"created": key.CreateDate,
			}
			if key.CreateDate != nil {
				entry["ageDays"] = ageDays(*key.CreateDate)
			}
			lastUsed, err := client.GetAccessKeyLastUsed(ctx, &iam.GetAccessKeyLastUsedInput{AccessKeyId: key.AccessKeyId})
			if err == nil && lastUsed.AccessKeyLastUsed != nil && lastUsed.AccessKeyLastUsed.LastUsedDate != nil {
				entry["lastUsed"] = lastUsed.AccessKeyLastUsed.LastUsedDate
				entry["lastUsedService"] = aws.ToString(lastUsed.AccessKeyLastUsed.ServiceName)
			} else {
				entry["lastUsed"] = "Never"
			}
			keys = append(keys, entry)
		}
	}
	data := map[string]any{
		"region":     regionOrDefault(usedRegion),
		"accessKeys": keys,
		"count":      len(keys),
	}
	return mcp.ToolResult{Data: s.ctx.Redactor.RedactValue(data)}, nil
}

func listAllUsers(ctx context.Context, client *iam.Client) ([]iamtypes.User, error) {
	paginator := iam.NewListUsersPaginator(client, &iam.ListUsersInput{})
	var users []iamtypes.User
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		users = append(users, out.Users...)
	}
	return users, nil
}

func adminAccessSources(ctx context.Context, client *iam.Client, userName string) ([]string, error) {
	var sources []string
	attached, err := client.ListAttachedUserPolicies(ctx, &iam.ListAttachedUserPoliciesInput{UserName: aws.String(userName)})
	if err != nil {
		return nil, err
	}
	for _, policy := range attached.AttachedPolicies {
		if aws.ToString(policy.PolicyArn) == adminPolicyArn {
			sources = append(sources, "direct_attachment")
			break
		}
	}
	groups, err := client.ListGroupsForUser(ctx, &iam.ListGroupsForUserInput{UserName: aws.String(userName)})
	if err != nil {
		return nil, err
	}
	for _, group := range groups.Groups {
		groupName := aws.ToString(group.GroupName)
		groupPolicies, err := client.ListAttachedGroupPolicies(ctx, &iam.ListAttachedGroupPoliciesInput{GroupName: aws.String(groupName)})
		if err != nil {
			return nil, err
		}
		for _, policy := range groupPolicies.AttachedPolicies {
			if aws.ToString(policy.PolicyArn) == adminPolicyArn {
				sources = append(sources, "group:"+groupName)
				break
			}
		}
	}
	return sources, nil
}

func summarizeUser(user iamtypes.User) map[string]any {
	summary := map[string]any{
		"name":    aws.ToString(user.UserName),
		"id":      aws.ToString(user.UserId),
		"arn":     aws.ToString(user.Arn),
		"created": user.CreateDate,
	}
	if user.PasswordLastUsed != nil {
		summary["passwordLastUsed"] = user.PasswordLastUsed
	} else {
		summary["passwordLastUsed"] = "Never"
	}
	return summary
}

func summarizeRole(role iamtypes.Role) map[string]any {
	return map[string]any{
		"name":        aws.ToString(role.RoleName),
		"id":          aws.ToString(role.RoleId),
		"path":        aws.ToString(role.Path),
		"created":     role.CreateDate,
		"description": aws.ToString(role.Description),
	}
}

func parseJSONOrString(value string) any {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return value
	}
	var out any
	if err := json.Unmarshal([]byte(trimmed), &out); err == nil {
		return out
	}
	return value
}

func decodePolicyDocument(value string) string {
	if value == "" {
		return ""
	}
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return value
	}
	return decoded
}

func ageDays(created time.Time) int {
	return int(time.Since(created).Hours() / 24)
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

func toInt(value any, fallback int) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if parsed, err := v.Int64(); err == nil {
			return int(parsed)
		}
	}
	return fallback
}

func regionOrDefault(region string) string {
	if strings.TrimSpace(region) == "" {
		return "us-east-1"
	}
	return region
}
