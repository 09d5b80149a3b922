package normalize

// Body is a JSON request body under construction.
type Body map[string]any

// NewBody returns an empty body.
func NewBody() Body {
	return Body{}
}

// Put stores a value unconditionally. Use it for required and defaulted
// fields such as page and per_page.
func (b Body) Put(key string, value any) Body {
	b[key] = value
	return b
}

// Set stores a value only when it is not empty in the IsEmpty sense.
func (b Body) Set(key string, value any) Body {
	if !IsEmpty(value) {
		b[key] = value
	}
	return b
}

// SetFilters attaches a filter expression after pruning it. Nothing is
// attached when the pruned filters are empty.
func (b Body) SetFilters(filters map[string]any) Body {
	if pruned := PruneFilters(filters); len(pruned) > 0 {
		b["filters"] = pruned
	}
	return b
}

// Merge copies every non-empty entry of extra into the body; existing keys
// are overwritten.
func (b Body) Merge(extra map[string]any) Body {
	for k, v := range extra {
		b.Set(k, v)
	}
	return b
}

// OrNil returns nil for an empty body so that the request is sent without
// one.
func (b Body) OrNil() map[string]any {
	if len(b) == 0 {
		return nil
	}
	return b
}
