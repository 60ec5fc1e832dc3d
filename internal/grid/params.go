package grid

import "fmt"

// Params are the free-form mechanic parameters of a cell, as decoded from
// YAML or JSON. Accessors never fail: missing, zero or mistyped values fall
// back to the caller's default.
type Params map[string]any

// Float returns a numeric parameter, or def when absent, zero or not a number.
func (p Params) Float(key string, def float64) float64 {
	v, ok := toFloat(p[key])
	if !ok || v == 0 {
		return def
	}
	return v
}

// String returns a string parameter, or def when absent or empty.
func (p Params) String(key, def string) string {
	s, ok := p[key].(string)
	if !ok || s == "" {
		return def
	}
	return s
}

// Strings returns a string list parameter, or def when absent or empty.
// Non-string entries are skipped.
func (p Params) Strings(key string, def []string) []string {
	var out []string
	switch v := p[key].(type) {
	case []string:
		out = append(out, v...)
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// Color returns the "color" parameter, or def.
func (p Params) Color(def string) string {
	return p.String("color", def)
}

// toFloat converts decoded numbers to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// IDString normalizes a decoded identifier (string or number) to a string.
// Nil yields "".
func IDString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		if id == float64(int64(id)) {
			return fmt.Sprintf("%d", int64(id))
		}
		return fmt.Sprint(id)
	default:
		return fmt.Sprint(id)
	}
}
