package awsecs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/aws/aws-sdk-go-v2/service/health"
	healthtypes "github.com/aws/aws-sdk-go-v2/service/health/types"

	"infracopilot/internal/mcp"
	"infracopilot/internal/report"
)

// DescribeServices accepts at most 10 services, DescribeTasks at most 100
// tasks per call.
const (
	describeClustersBatch = 100
	describeServicesBatch = 10
	describeTasksBatch    = 100
	recentServiceEvents   = 5
)

type Service struct {
	ctx          mcp.ToolsetContext
	ecsClient    func(context.Context, string) (*ecs.Client, string, error)
	healthClient func(context.Context) (*health.Client, string, error)
	toolsetID    string
}

func ToolSpecs(ctx mcp.ToolsetContext, toolsetID string, ecsClient func(context.Context, string) (*ecs.Client, string, error), healthClient func(context.Context) (*health.Client, string, error)) []mcp.ToolSpec {
	svc := &Service{ctx: ctx, ecsClient: ecsClient, healthClient: healthClient, toolsetID: toolsetID}
	return []mcp.ToolSpec{
		{
			Name:        "aws.ecs.list_clusters",
			Description: "List ECS clusters with task and service counts.",
			ToolsetID:   toolsetID,
			InputSchema: schemaListClusters(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListClusters,
		},
		{
			Name:        "aws.ecs.list_services",
			Description: "List services in an ECS cluster with desired/running counts.",
			ToolsetID:   toolsetID,
			InputSchema: schemaListServices(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListServices,
		},
		{
			Name:        "aws.ecs.get_service",
			Description: "Get detailed status for one ECS service, including deployments and recent events.",
			ToolsetID:   toolsetID,
			InputSchema: schemaGetService(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleGetService,
		},
		{
			Name:        "aws.ecs.list_tasks",
			Description: "List running tasks in a cluster, optionally scoped to a service.",
			ToolsetID:   toolsetID,
			InputSchema: schemaListTasks(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListTasks,
		},
		{
			Name:        "aws.ecs.describe_task_definition",
			Description: "Describe a task definition revision and its containers.",
			ToolsetID:   toolsetID,
			InputSchema: schemaDescribeTaskDefinition(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleDescribeTaskDefinition,
		},
		{
			Name:        "aws.ecs.list_fargate_retirements",
			Description: "List upcoming Fargate task retirement events from AWS Health (requires Business or Enterprise support).",
			ToolsetID:   toolsetID,
			InputSchema: schemaListFargateRetirements(),
			Safety:      mcp.SafetyReadOnly,
			Handler:     svc.handleListFargateRetirements,
		},
	}
}

func (s *Service) handleListClusters(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	client, usedRegion, err := s.ecsClient(ctx, region)
	if err != nil {
		return errorResult(err), err
	}
	paginator := ecs.NewListClustersPaginator(client, &ecs.ListClustersInput{})
	var arns []string
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return errorResult(err), err
		}
		arns = append(arns, out.ClusterArns...)
	}
	var clusters []map[string]any
	for _, batch := range chunkStrings(arns, describeClustersBatch) {
		out, err := client.DescribeClusters(ctx, &ecs.DescribeClustersInput{Clusters: batch})
		if err != nil {
			return errorResult(err), err
		}
		for _, cluster := range out.Clusters {
			clusters = append(clusters, map[string]any{
				"name":                aws.ToString(cluster.ClusterName),
				"status":              aws.ToString(cluster.Status),
				"runningTasks":        cluster.RunningTasksCount,
				"pendingTasks":        cluster.PendingTasksCount,
				"activeServices":      cluster.ActiveServicesCount,
				"registeredInstances": cluster.RegisteredContainerInstancesCount,
			})
		}
	}
	data := map[string]any{
		"region":   regionOrDefault(usedRegion),
		"clusters": clusters,
		"count":    len(clusters),
	}
	return mcp.ToolResult{Data: s.ctx.Redactor.RedactValue(data)}, nil
}

func (s *Service) handleListServices(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	cluster := strings.TrimSpace(toString(req.Arguments["cluster"]))
	if cluster == "" {
		err := errors.New("cluster is required")
		return errorResult(err), err
	}
	client, usedRegion, err := s.ecsClient(ctx, region)
	if err != nil {
		return errorResult(err), err
	}
	paginator := ecs.NewListServicesPaginator(client, &ecs.ListServicesInput{Cluster: aws.String(cluster)})
	var arns []string
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return errorResult(err), err
		}
		arns = append(arns, out.ServiceArns...)
	}
	var services []map[string]any
	for _, batch := range chunkStrings(arns, describeServicesBatch) {
		out, err := client.DescribeServices(ctx, &ecs.DescribeServicesInput{
			Cluster:  aws.String(cluster),
			Services: batch,
		})
		if err != nil {
			return errorResult(err), err
		}
		for _, service := range out.Services {
			services = append(services, summarizeService(service))
		}
	}
	data := map[string]any{
		"region":   regionOrDefault(usedRegion),
		"cluster":  cluster,
		"services": services,
		"count":    len(services),
	}
	return mcp.ToolResult{
		Data: s.ctx.Redactor.RedactValue(data),
		Metadata: mcp.ToolMetadata{
			Resources: []string{fmt.Sprintf("ecs/cluster/%s", cluster)},
		},
	}, nil
}

func (s *Service) handleGetService(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	cluster := strings.TrimSpace(toString(req.Arguments["cluster"]))
	serviceName := strings.TrimSpace(toString(req.Arguments["service"]))
	if cluster == "" || serviceName == "" {
		err := errors.New("cluster and service are required")
		return errorResult(err), err
	}
	client, usedRegion, err := s.ecsClient(ctx, region)
	if err != nil {
		return errorResult(err), err
	}
	out, err := client.DescribeServices(ctx, &ecs.DescribeServicesInput{
		Cluster:  aws.String(cluster),
		Services: []string{serviceName},
	})
	if err != nil {
		return errorResult(err), err
	}
	if len(out.Services) == 0 {
		err := fmt.Errorf("service %s not found in cluster %s", serviceName, cluster)
		return errorResult(err), err
	}
	service := out.Services[0]
	detail := summarizeService(service)
	var deployments []map[string]any
	for _, deployment := range service.Deployments {
		deployments = append(deployments, map[string]any{
			"id":             aws.ToString(deployment.Id),
			"status":         aws.ToString(deployment.Status),
			"desired":        deployment.DesiredCount,
			"running":        deployment.RunningCount,
			"pending":        deployment.PendingCount,
			"created":        deployment.CreatedAt,
			"taskDefinition": arnTail(aws.ToString(deployment.TaskDefinition)),
		})
	}
	detail["deployments"] = deployments
	var events []map[string]any
	for i, event := range service.Events {
		if i >= recentServiceEvents {
			break
		}
		events = append(events, map[string]any{
			"created": event.CreatedAt,
			"message": aws.ToString(event.Message),
		})
	}
	detail["recentEvents"] = events
	data := map[string]any{
		"region":  regionOrDefault(usedRegion),
		"cluster": cluster,
		"service": detail,
	}
	return mcp.ToolResult{
		Data: s.ctx.Redactor.RedactValue(data),
		Metadata: mcp.ToolMetadata{
			Resources: []string{fmt.Sprintf("ecs/service/%s/%s", cluster, serviceName)},
		},
	}, nil
}

func (s *Service) handleListTasks(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	cluster := strings.TrimSpace(toString(req.Arguments["cluster"]))
	serviceName := strings.TrimSpace(toString(req.Arguments["service"]))
	if cluster == "" {
		err := errors.New("cluster is required")
		return errorResult(err), err
	}
	client, usedRegion, err := s.ecsClient(ctx, region)
	if err != nil {
		return errorResult(err), err
	}
	input := &ecs.ListTasksInput{
		Cluster:       aws.String(cluster),
		DesiredStatus: ecstypes.DesiredStatusRunning,
	}
	if serviceName != "" {
		input.ServiceName = aws.String(serviceName)
	}
	paginator := ecs.NewListTasksPaginator(client, input)
	var arns []string
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return errorResult(err), err
		}
		arns = append(arns, out.TaskArns...)
	}
	var tasks []map[string]any
	for _, batch := range chunkStrings(arns, describeTasksBatch) {
		out, err := client.DescribeTasks(ctx, &ecs.DescribeTasksInput{
			Cluster: aws.String(cluster),
			Tasks:   batch,
		})
		if err != nil {
			return errorResult(err), err
		}
		for _, task := range out.Tasks {
			tasks = append(tasks, summarizeTask(task))
		}
	}
	data := map[string]any{
		"region":  regionOrDefault(usedRegion),
		"cluster": cluster,
		"tasks":   tasks,
		"count":   len(tasks),
	}
	return mcp.ToolResult{
		Data: s.ctx.Redactor.RedactValue(data),
		Metadata: mcp.ToolMetadata{
			Resources: []string{fmt.Sprintf("ecs/cluster/%s", cluster)},
		},
	}, nil
}

func (s *Service) handleDescribeTaskDefinition(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	region := toString(req.Arguments["region"])
	taskDef := strings.TrimSpace(toString(req.Arguments["taskDefinition"]))
	if taskDef == "" {
		err := errors.New("taskDefinition is required")
		return errorResult(err), err
	}
	client, usedRegion, err := s.ecsClient(ctx, region)
	if err != nil {
		return errorResult(err), err
	}
	out, err := client.DescribeTaskDefinition(ctx, &ecs.DescribeTaskDefinitionInput{
		TaskDefinition: aws.String(taskDef),
	})
	if err != nil {
		return errorResult(err), err
	}
	def := out.TaskDefinition
	var containers []map[string]any
	for _, container := range def.ContainerDefinitions {
		entry := map[string]any{
			"name":      aws.ToString(container.Name),
			"image":     aws.ToString(container.Image),
			"cpu":       container.Cpu,
			"essential": aws.ToBool(container.Essential),
		}
		if container.Memory != nil {
			entry["memory"] = aws.ToInt32(container.Memory)
		}
		if container.MemoryReservation != nil {
			entry["memoryReservation"] = aws.ToInt32(container.MemoryReservation)
		}
		var ports []map[string]any
		for _, mapping := range container.PortMappings {
			ports = append(ports, map[string]any{
				"containerPort": aws.ToInt32(mapping.ContainerPort),
				"hostPort":      aws.ToInt32(mapping.HostPort),
				"protocol":      string(mapping.Protocol),
			})
		}
		entry["portMappings"] = ports
		containers = append(containers, entry)
	}
	data := map[string]any{
		"region":        regionOrDefault(usedRegion),
		"family":        aws.ToString(def.Family),
		"revision":      def.Revision,
		"status":        string(def.Status),
		"taskRole":      arnTail(aws.ToString(def.TaskRoleArn)),
		"executionRole": arnTail(aws.ToString(def.ExecutionRoleArn)),
		"networkMode":   string(def.NetworkMode),
		"cpu":           aws.ToString(def.Cpu),
		"memory":        aws.ToString(def.Memory),
		"containers":    containers,
	}
	return mcp.ToolResult{
		Data: s.ctx.Redactor.RedactValue(data),
		Metadata: mcp.ToolMetadata{
			Resources: []string{fmt.Sprintf("ecs/task-definition/%s:%d", aws.ToString(def.Family), def.Revision)},
		},
	}, nil
}

func (s *Service) handleListFargateRetirements(ctx context.Context, req mcp.ToolRequest) (mcp.ToolResult, error) {
	days := toInt(req.Arguments["days"], 14)
	if days <= 0 {
		err := errors.New("days must be a positive number")
		return errorResult(err), err
	}
	client, usedRegion, err := s.healthClient(ctx)
	if err != nil {
		return errorResult(err), err
	}
	// No lower bound: open events whose start time has already passed are
	// still in the window.
	filter := &healthtypes.EventFilter{
		Services:            []string{"ECS"},
		EventTypeCategories: []healthtypes.EventTypeCategory{healthtypes.EventTypeCategoryScheduledChange},
		EventStatusCodes:    []healthtypes.EventStatusCode{healthtypes.EventStatusCodeOpen, healthtypes.EventStatusCodeUpcoming},
		StartTimes: []healthtypes.DateTimeRange{{
			To: aws.Time(time.Now().AddDate(0, 0, days)),
		}},
	}
	paginator := health.NewDescribeEventsPaginator(client, &health.DescribeEventsInput{Filter: filter})
	var events []healthtypes.Event
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return errorResult(err), err
		}
		events = append(events, out.Events...)
	}
	rep := report.New()
	byCluster := map[string][]map[string]any{}
	totalTasks := 0
	for _, event := range events {
		eventArn := aws.ToString(event.Arn)
		eventTypeCode := aws.ToString(event.EventTypeCode)
		fargateEvent := strings.Contains(strings.ToLower(eventTypeCode), "fargate")
		entities, err := affectedEntities(ctx, client, eventArn)
		if err != nil {
			// Skip events we cannot read details for.
			continue
		}
		for _, entity := range entities {
			taskArn := aws.ToString(entity.EntityValue)
			if !strings.Contains(taskArn, ":task/") && !fargateEvent {
				continue
			}
			cluster := clusterFromTaskArn(taskArn)
			entry := map[string]any{
				"taskArn":       taskArn,
				"eventArn":      eventArn,
				"eventTypeCode": eventTypeCode,
				"startTime":     event.StartTime,
				"endTime":       event.EndTime,
				"status":        string(entity.StatusCode),
			}
			byCluster[cluster] = append(byCluster[cluster], entry)
			totalTasks++
		}
	}
	for cluster, tasks := range byCluster {
		rep.AddFinding(fmt.Sprintf("%d task(s) in cluster %s scheduled for retirement", len(tasks), cluster), tasks, report.SeverityWarning)
		rep.AddResource(fmt.Sprintf("ecs/cluster/%s", cluster))
	}
	rep.SetSummary("windowDays", days)
	rep.SetSummary("affectedTasks", totalTasks)
	data := map[string]any{
		"region":        regionOrDefault(usedRegion),
		"windowDays":    days,
		"retirements":   byCluster,
		"eventCount":    len(events),
		"affectedTasks": totalTasks,
	}
	if s.ctx.Renderer != nil {
		data["report"] = s.ctx.Renderer.Render(rep)
	}
	return mcp.ToolResult{Data: s.ctx.Redactor.RedactValue(data)}, nil
}

func affectedEntities(ctx context.Context, client *health.Client, eventArn string) ([]healthtypes.AffectedEntity, error) {
	paginator := health.NewDescribeAffectedEntitiesPaginator(client, &health.DescribeAffectedEntitiesInput{
		Filter: &healthtypes.EntityFilter{EventArns: []string{eventArn}},
	})
	var entities []healthtypes.AffectedEntity
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		entities = append(entities, out.Entities...)
	}
	return entities, nil
}

func summarizeService(service ecstypes.Service) map[string]any {
	launchType := string(service.LaunchType)
	if launchType == "" {
		launchType = "EC2"
	}
	return map[string]any{
		"name":           aws.ToString(service.ServiceName),
		"status":         aws.ToString(service.Status),
		"desired":        service.DesiredCount,
		"running":        service.RunningCount,
		"pending":        service.PendingCount,
		"launchType":     launchType,
		"taskDefinition": arnTail(aws.ToString(service.TaskDefinition)),
	}
}

func summarizeTask(task ecstypes.Task) map[string]any {
	healthStatus := string(task.HealthStatus)
	if healthStatus == "" {
		healthStatus = "UNKNOWN"
	}
	return map[string]any{
		"id":             arnTail(aws.ToString(task.TaskArn)),
		"taskDefinition": arnTail(aws.ToString(task.TaskDefinitionArn)),
		"status":         aws.ToString(task.LastStatus),
		"healthStatus":   healthStatus,
		"launchType":     string(task.LaunchType),
		"cpu":            aws.ToString(task.Cpu),
		"memory":         aws.ToString(task.Memory),
		"startedAt":      task.StartedAt,
	}
}

// Task ARNs look like arn:aws:ecs:region:account:task/cluster-name/task-id.
func clusterFromTaskArn(taskArn string) string {
	parts := strings.Split(taskArn, "/")
	if len(parts) == 3 {
		return parts[1]
	}
	return "unknown"
}

func arnTail(arn string) string {
	if idx := strings.LastIndex(arn, "/"); idx >= 0 {
		return arn[idx+1:]
	}
	return arn
}

func chunkStrings(values []string, size int) [][]string {
	if size <= 0 || len(values) == 0 {
		if len(values) == 0 {
			return nil
		}
		return [][]string{values}
	}
	var chunks [][]string
	for start := 0; start < len(values); start += size {
		end := start + size
		if end > len(values) {
			end = len(values)
		}
		chunks = append(chunks, values[start:end])
	}
	return chunks
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
