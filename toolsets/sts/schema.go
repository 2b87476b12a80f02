package awssts

func schemaGetCallerIdentity() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"region": map[string]any{"type": "string"},
		},
	}
}
