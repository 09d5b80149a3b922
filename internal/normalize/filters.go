package normalize

// FoldInto places value under key in filters unless filters already has a
// non-empty value there; an explicit filters entry always wins over a flat
// argument. The input map is not modified. Empty values are never folded.
func FoldInto(filters map[string]any, key string, value any) map[string]any {
	out := copyMap(filters)
	if IsEmpty(value) {
		return out
	}
	if existing, ok := out[key]; ok && !IsEmpty(existing) {
		return out
	}
	out[key] = value
	return out
}

// FoldTagIDs folds a flat tag_ids argument into filters.tag_ids.
func FoldTagIDs(filters map[string]any, tagIDs any) map[string]any {
	return FoldInto(filters, "tag_ids", tagIDs)
}

// PruneFilters returns a copy of filters without empty values. Nested maps
// are pruned recursively and dropped when nothing survives.
func PruneFilters(filters map[string]any) map[string]any {
	out := make(map[string]any, len(filters))
	for k, v := range filters {
		if nested, ok := v.(map[string]any); ok {
			v = PruneFilters(nested)
		}
		if IsEmpty(v) {
			continue
		}
		out[k] = v
	}
	return out
}

func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}
