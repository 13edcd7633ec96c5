package ingest

// Normalize restructures a decoded JSON value against a schema: fields
// the schema knows stay in place, unknown fields move under an "_extra"
// object so downstream tools see a closed shape without losing data.
// Objects nested through known object and array properties are
// normalized recursively. Non-object values pass through untouched.
func Normalize(value any, schema map[string]any) any {
	obj, ok := value.(map[string]any)
	if !ok {
		return value
	}
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		return value
	}

	normalized := make(map[string]any, len(obj))
	extra := map[string]any{}

	for key, v := range obj {
		raw, known := props[key]
		if !known {
			extra[key] = v
			continue
		}
		propSchema, _ := raw.(map[string]any)
		normalized[key] = normalizeProperty(v, propSchema)
	}

	if len(extra) > 0 {
		normalized["_extra"] = extra
	}
	return normalized
}

func normalizeProperty(value any, propSchema map[string]any) any {
	if propSchema == nil {
		return value
	}
	switch propSchema["type"] {
	case "object":
		return Normalize(value, propSchema)
	case "array":
		items, ok := propSchema["items"].(map[string]any)
		if !ok || items["type"] != "object" {
			return value
		}
		list, ok := value.([]any)
		if !ok {
			return value
		}
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = Normalize(item, items)
		}
		return out
	default:
		return value
	}
}
