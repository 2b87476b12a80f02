package awsiam

func schemaListUsers() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"region": map[string]any{"type": "string"},
		},
	}
}

func schemaListStaleCredentials() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"days":   map[string]any{"type": "number"},
			"region": map[string]any{"type": "string"},
		},
	}
}

func schemaListAdminAccess() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"region": map[string]any{"type": "string"},
		},
	}
}

func schemaListRoles() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"pathPrefix": map[string]any{"type": "string"},
			"limit":      map[string]any{"type": "number"},
			"region":     map[string]any{"type": "string"},
		},
	}
}

func schemaGetRoleTrustPolicy() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"roleName": map[string]any{"type": "string"},
			"region":   map[string]any{"type": "string"},
		},
		"required": []string{"roleName"},
	}
}

func schemaListAccessKeys() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"userName": map[string]any{"type": "string"},
			"region":   map[string]any{"type": "string"},
		},
	}
}
