package registry

// passthrough copies the row as-is. Most resource types expose their
// internal columns directly.
func passthrough(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

// formatUser hides account-internal columns from the admin API shape.
func formatUser(row map[string]any) map[string]any {
	out := passthrough(row)
	delete(out, "password_hash")
	return out
}
