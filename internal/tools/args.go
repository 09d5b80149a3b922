package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/max-longrun/bison-mcp/internal/normalize"
)

// ValidationError reports a missing or malformed argument.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func missing(field string) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf("Missing required argument '%s'.", field)}
}

func invalid(field, format string, a ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf("Argument '%s' %s", field, fmt.Sprintf(format, a...))}
}

// args is the argument bag of one call, account selector already removed.
// Accessors return a *ValidationError naming the field on bad input.
type args map[string]any

func (a args) present(key string) bool {
	return !normalize.IsEmpty(a[key])
}

func (a args) requireString(key string) (string, error) {
	if !a.present(key) {
		return "", missing(key)
	}
	return a.optString(key), nil
}

// optString renders scalars as strings; absent values yield "".
func (a args) optString(key string) string {
	v, ok := a[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return normalize.FormatValue(v)
}

func (a args) requireInt(key string) (int, error) {
	if !a.present(key) {
		return 0, missing(key)
	}
	return toInt(key, a[key])
}

// intOr returns the integer under key, or fallback when it is absent, zero
// or empty.
func (a args) intOr(key string, fallback int) (int, error) {
	if !a.present(key) {
		return fallback, nil
	}
	n, err := toInt(key, a[key])
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return fallback, nil
	}
	return n, nil
}

func (a args) optInt(key string) (*int, error) {
	if !a.present(key) {
		return nil, nil
	}
	n, err := toInt(key, a[key])
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (a args) optBool(key string) (*bool, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch b := v.(type) {
	case bool:
		return &b, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return nil, invalid(key, "must be a boolean.")
		}
		return &parsed, nil
	}
	return nil, invalid(key, "must be a boolean.")
}

// requireList returns a non-empty array.
func (a args) requireList(key string) ([]any, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, missing(key)
	}
	list, ok := v.([]any)
	if !ok {
		return nil, invalid(key, "must be an array.")
	}
	if len(list) == 0 {
		return nil, invalid(key, "must be a non-empty array.")
	}
	return list, nil
}

func (a args) optList(key string) ([]any, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, invalid(key, "must be an array.")
	}
	return list, nil
}

func (a args) requireIntList(key string) ([]int, error) {
	list, err := a.requireList(key)
	if err != nil {
		return nil, err
	}
	return toIntList(key, list)
}

func (a args) optIntList(key string) ([]int, error) {
	list, err := a.optList(key)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return toIntList(key, list)
}

func (a args) optStringList(key string) ([]string, error) {
	list, err := a.optList(key)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
			continue
		}
		out = append(out, normalize.FormatValue(item))
	}
	return out, nil
}

func (a args) requireObject(key string) (map[string]any, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, missing(key)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, invalid(key, "must be an object.")
	}
	if len(obj) == 0 {
		return nil, missing(key)
	}
	return obj, nil
}

// filters returns the pruned filters object, or an empty map.
func (a args) filters() (map[string]any, error) {
	v, ok := a["filters"]
	if !ok || v == nil {
		return map[string]any{}, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, invalid("filters", "must be provided as an object.")
	}
	return normalize.PruneFilters(obj), nil
}

func toInt(key string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, invalid(key, "must be an integer, got %v.", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, invalid(key, "must be an integer, got %q.", n.String())
		}
		return int(i), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, invalid(key, "must be an integer, got %q.", n)
		}
		return i, nil
	}
	return 0, invalid(key, "must be an integer.")
}

func toIntList(key string, list []any) ([]int, error) {
	out := make([]int, 0, len(list))
	for _, item := range list {
		n, err := toInt(key, item)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// hasFilter reports whether filters already carries a non-empty key, in
// which case the flat argument of the same name is ignored.
func hasFilter(filters map[string]any, key string) bool {
	v, ok := filters[key]
	return ok && !normalize.IsEmpty(v)
}

// foldIntTagIDs folds a flat tag_ids argument into filters as integers. The
// flat value is only coerced when filters has no tag_ids of its own.
func (a args) foldIntTagIDs(filters map[string]any) (map[string]any, error) {
	if hasFilter(filters, "tag_ids") {
		return filters, nil
	}
	tagIDs, err := a.optIntList("tag_ids")
	if err != nil {
		return nil, err
	}
	return normalize.FoldTagIDs(filters, intsToAny(tagIDs)), nil
}

// intsToAny converts coerced IDs back to a generic list for filter objects.
func intsToAny(ids []int) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
