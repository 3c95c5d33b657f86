package form

import (
	"encoding/json"
	"eventdesk/model"
	"math"
	"sort"
	"strconv"
	"strings"
)

// normalize folds every numeric representation into float64 so equals
// compares numbers as numbers.
func normalize(v any) any {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case float32:
		return float64(t)
	case model.Number:
		return float64(t)
	case model.ID:
		return float64(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case model.StringList:
		return normalize([]string(t))
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalize(item)
		}
		return out
	}
	return v
}

// Stringify renders a value the way it is shown and compared as text.
// nil becomes "" and lists join with ",".
func Stringify(v any) string {
	switch t := normalize(v).(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = Stringify(item)
		}
		return strings.Join(parts, ",")
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// toNumber returns NaN for anything that is not a number or a numeric string.
func toNumber(v any) float64 {
	switch t := normalize(v).(type) {
	case float64:
		return t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

// isEmpty is the is_empty operator: missing, null or "" only.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// isBlank is stricter than isEmpty and is what required checks use:
// whitespace-only strings and empty lists count as no answer.
func isBlank(v any) bool {
	switch t := normalize(v).(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	}
	return false
}

// listOf reads a multi-value answer. Upstream stores checkbox answers either as
// an array or as a comma separated string.
func listOf(v any) []string {
	switch t := normalize(v).(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := strings.TrimSpace(Stringify(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		out := []string{}
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	default:
		return []string{Stringify(t)}
	}
}

// Ordered returns a copy of the fields sorted by sort_order. Fields sharing a
// sort_order keep their relative position.
func Ordered(fields []model.FormField) []model.FormField {
	out := make([]model.FormField, len(fields))
	copy(out, fields)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortOrder < out[j].SortOrder
	})
	return out
}
