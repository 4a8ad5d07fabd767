package response

// List converts domain values into response DTOs.
// It never returns nil so empty results encode as [] instead of null.
func List[S any, T any](items []S, convert func(S) T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		out = append(out, convert(it))
	}
	return out
}
