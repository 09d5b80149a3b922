package normalize

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	bstrings "github.com/max-longrun/bison-mcp/pkg/strings"
)

// Values is the query-string form of a request: every key maps to one or
// more already-formatted values. It converts directly to url.Values.
type Values map[string][]string

// IsEmpty reports whether v should be left out of an outgoing request:
// nil, the empty string, an empty list and an empty map are all empty.
// false and 0 are real values and are kept.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// FormatValue renders a scalar for the query string. Booleans become
// "true"/"false" and integral floats lose their decimal part, so the 2
// decoded from JSON is sent as "2" rather than "2.0".
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}

// QueryKey returns the wire name of a parameter: dotted keys are kept
// verbatim, everything else is converted to camelCase.
func QueryKey(key string) string {
	if strings.Contains(key, ".") {
		return key
	}
	return bstrings.SnakeToCamel(key)
}

// Query builds query parameters from base followed by extra. Empty values are
// dropped, lists are comma-joined, except under dotted keys where each element
// becomes its own repeated parameter. When both maps contain the same wire
// key, extra wins.
func Query(base map[string]any, extra ...map[string]any) Values {
	out := Values{}
	for _, m := range append([]map[string]any{base}, extra...) {
		for key, value := range m {
			if IsEmpty(value) {
				continue
			}
			wireKey := QueryKey(key)
			items, isList := listItems(value)
			switch {
			case isList && strings.Contains(wireKey, "."):
				vals := make([]string, 0, len(items))
				for _, item := range items {
					vals = append(vals, FormatValue(item))
				}
				out[wireKey] = vals
			case isList:
				vals := make([]string, 0, len(items))
				for _, item := range items {
					vals = append(vals, FormatValue(item))
				}
				out[wireKey] = []string{strings.Join(vals, ",")}
			default:
				out[wireKey] = []string{FormatValue(value)}
			}
		}
	}
	return out
}

// Keys returns the parameter names in sorted order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func listItems(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		items := make([]any, len(t))
		for i, s := range t {
			items[i] = s
		}
		return items, true
	case []int:
		items := make([]any, len(t))
		for i, n := range t {
			items[i] = n
		}
		return items, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}
