package plist

// String returns the string stored at key
func (d Dict) String(key string) (string, bool) {
	s, ok := d[key].(string)
	return s, ok
}

// Strings returns the string array stored at key, skipping non string items
func (d Dict) Strings(key string) []string {
	switch v := d[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Dict returns the nested dictionary stored at key
func (d Dict) Dict(key string) (Dict, bool) {
	switch v := d[key].(type) {
	case Dict:
		return v, true
	case map[string]any:
		return Dict(v), true
	}
	return nil, false
}

// AppendUnique adds values to the string array at key, keeping existing
// entries and their order
func (d Dict) AppendUnique(key string, values ...string) {
	existing := d.Strings(key)
	seen := make(map[string]bool, len(existing))
	for _, s := range existing {
		seen[s] = true
	}

	out := make([]any, 0, len(existing)+len(values))
	for _, s := range existing {
		out = append(out, s)
	}
	for _, s := range values {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	d[key] = out
}
