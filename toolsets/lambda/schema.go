package awslambda

func schemaListFunctions() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"region": map[string]any{"type": "string"},
		},
	}
}

func schemaFindDeprecatedRuntimes() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"includeApproachingEol": map[string]any{"type": "boolean"},
			"region":                map[string]any{"type": "string"},
		},
	}
}

func schemaGetFunction() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"functionName": map[string]any{"type": "string"},
			"region":       map[string]any{"type": "string"},
		},
		"required": []string{"functionName"},
	}
}

func schemaListRuntimes() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}
