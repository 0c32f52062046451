package harness

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/roach88/sellbot/internal/engine"
)

// ArgError reports a missing or malformed step argument. It aborts the
// scenario rather than becoming an output case.
type ArgError struct {
	Arg    string
	Reason string
}

func (e *ArgError) Error() string {
	return fmt.Sprintf("arg %q: %s", e.Arg, e.Reason)
}

// optString returns args[key] rendered as a string, or "" when absent.
// YAML numbers are accepted so `price: 10` works unquoted.
func optString(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func argString(args map[string]any, key string) (string, error) {
	if _, ok := args[key]; !ok {
		return "", &ArgError{Arg: key, Reason: "required"}
	}
	return optString(args, key), nil
}

func argInt(args map[string]any, key string) (int64, error) {
	v, ok := args[key]
	if !ok {
		return 0, &ArgError{Arg: key, Reason: "required"}
	}
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, &ArgError{Arg: key, Reason: "not an integer"}
		}
		return i, nil
	}
	return 0, &ArgError{Arg: key, Reason: fmt.Sprintf("unsupported type %T", v)}
}

// argUserID reads a user id. String values go through engine.ParseUserID so
// a scenario can exercise INVALID_USER_ID.
func argUserID(args map[string]any, key string) (int64, error) {
	v, ok := args[key]
	if !ok {
		return 0, &ArgError{Arg: key, Reason: "required"}
	}
	if s, ok := v.(string); ok {
		return engine.ParseUserID(s)
	}
	return argInt(args, key)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// normalize maps integer kinds to int64 and slices to []any so values
// decoded from YAML compare equal to values produced by the engine.
func normalize(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case uint64:
		return int64(n)
	case float64:
		if n == float64(int64(n)) {
			return int64(n)
		}
		return n
	case []int64:
		out := make([]any, len(n))
		for i, x := range n {
			out[i] = x
		}
		return out
	case []string:
		out := make([]any, len(n))
		for i, x := range n {
			out[i] = x
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, x := range n {
			out[i] = normalize(x)
		}
		return out
	}
	return v
}

// valuesEqual compares two values after normalization.
func valuesEqual(actual, expected any) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}
	return reflect.DeepEqual(normalize(actual), normalize(expected))
}
