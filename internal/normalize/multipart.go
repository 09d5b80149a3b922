package normalize

import (
	"encoding/json"
	"sort"
)

// FormField is one text part of a multipart/form-data request.
type FormField struct {
	Name  string
	Value string
}

// Form converts fields into multipart text parts, sorted by name. Strings
// are sent as-is, scalars are formatted like query values and structured
// values (lists, maps) are JSON-encoded into a single string part. Empty
// values are skipped.
func Form(fields map[string]any) []FormField {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]FormField, 0, len(names))
	for _, name := range names {
		value := fields[name]
		if IsEmpty(value) {
			continue
		}
		out = append(out, FormField{Name: name, Value: formValue(value)})
	}
	return out
}

func formValue(v any) string {
	if _, isList := listItems(v); isList {
		return encodeJSON(v)
	}
	if _, isMap := v.(map[string]any); isMap {
		return encodeJSON(v)
	}
	return FormatValue(v)
}

func encodeJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return FormatValue(v)
	}
	return string(data)
}
