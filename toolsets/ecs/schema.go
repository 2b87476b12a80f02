package awsecs

func schemaListClusters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"region": map[string]any{"type": "string"},
		},
	}
}

func schemaListServices() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cluster": map[string]any{"type": "string"},
			"region":  map[string]any{"type": "string"},
		},
		"required": []string{"cluster"},
	}
}

func schemaGetService() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cluster": map[string]any{"type": "string"},
			"service": map[string]any{"type": "string"},
			"region":  map[string]any{"type": "string"},
		},
		"required": []string{"cluster", "service"},
	}
}

func schemaListTasks() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cluster": map[string]any{"type": "string"},
			"service": map[string]any{"type": "string"},
			"region":  map[string]any{"type": "string"},
		},
		"required": []string{"cluster"},
	}
}

func schemaDescribeTaskDefinition() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"taskDefinition": map[string]any{"type": "string"},
			"region":         map[string]any{"type": "string"},
		},
		"required": []string{"taskDefinition"},
	}
}

func schemaListFargateRetirements() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"days": map[string]any{"type": "number"},
		},
	}
}
