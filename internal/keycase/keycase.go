// Package keycase converts map keys between the backend's camelCase wire
// convention and snake_case.
package keycase

import (
	"strings"
	"unicode"
)

// ToSnake converts a camelCase key to snake_case.
func ToSnake(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ToCamel converts a snake_case key to camelCase.
func ToCamel(key string) string {
	parts := strings.Split(key, "_")
	var b strings.Builder
	b.Grow(len(key))
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			b.WriteString(p)
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// ConvertKeys rewrites all map keys with fn, recursing into nested maps
// and slices. Values are not modified.
func ConvertKeys(value any, fn func(string) string) any {
	return ConvertKeysExcept(value, fn)
}

// ConvertKeysExcept is ConvertKeys with opaque subtrees: the value under
// any key named in keep is carried over untouched, at every nesting level.
// The key itself is still rewritten. Use it when a payload embeds
// user-controlled dictionaries whose keys are not the backend's.
func ConvertKeysExcept(value any, fn func(string) string, keep ...string) any {
	opaque := make(map[string]bool, len(keep))
	for _, k := range keep {
		opaque[k] = true
	}
	return convert(value, fn, opaque)
}

func convert(value any, fn func(string) string, opaque map[string]bool) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, inner := range v {
			if opaque[k] {
				out[fn(k)] = inner
				continue
			}
			out[fn(k)] = convert(inner, fn, opaque)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = convert(inner, fn, opaque)
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = convert(inner, fn, opaque)
		}
		return out
	default:
		return value
	}
}
