package booking

import "strings"

// SplitFullName splits a single "full name" answer. The first whitespace token
// is the first name and the remaining tokens, joined by single spaces, are the
// last name. A one-token answer yields an empty last name.
func SplitFullName(full string) (first, last string) {
	tokens := strings.Fields(full)
	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		return tokens[0], ""
	default:
		return tokens[0], strings.Join(tokens[1:], " ")
	}
}

// NormalizeCandidate applies the full-name split policy to a chat-derived
// candidate. It fills nombre/apellido from nombreCompleto when both are absent,
// or splits a multi-word nombre when apellido is absent. Explicit values are
// never overwritten. The input map is not modified.
func NormalizeCandidate(candidate map[string]any) map[string]any {
	out := make(map[string]any, len(candidate))
	for k, v := range candidate {
		out[k] = v
	}

	first, hasFirst := stringField(out, FieldFirstName)
	_, hasLast := stringField(out, FieldLastName)

	switch {
	case !hasFirst && !hasLast:
		full, ok := stringField(out, FieldFullName)
		if !ok {
			break
		}
		f, l := SplitFullName(full)
		out[FieldFirstName] = f
		if l != "" {
			out[FieldLastName] = l
		}
	case hasFirst && !hasLast:
		if f, l := SplitFullName(first); l != "" {
			out[FieldFirstName] = f
			out[FieldLastName] = l
		}
	}
	delete(out, FieldFullName)
	return out
}

// stringField reports a non-blank string value.
func stringField(m map[string]any, key string) (string, bool) {
	s, ok := m[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
