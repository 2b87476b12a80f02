package awss3

func schemaListBuckets() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"region": map[string]any{"type": "string"},
		},
	}
}

func schemaGetBucketSize() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"bucket": map[string]any{"type": "string"},
			"region": map[string]any{"type": "string"},
		},
		"required": []string{"bucket"},
	}
}

func schemaCheckPublicAccess() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"bucket": map[string]any{"type": "string"},
			"region": map[string]any{"type": "string"},
		},
	}
}

func schemaFindObject() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"key":        map[string]any{"type": "string"},
			"exactMatch": map[string]any{"type": "boolean"},
			"region":     map[string]any{"type": "string"},
		},
		"required": []string{"key"},
	}
}

func schemaGetBucketEncryption() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"bucket":            map[string]any{"type": "string"},
			"includeKeyDetails": map[string]any{"type": "boolean"},
			"region":            map[string]any{"type": "string"},
		},
	}
}
