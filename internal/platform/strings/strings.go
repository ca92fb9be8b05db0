// Package strings provides small string and slice helpers
package strings

import std "strings"

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// OrDefault returns def when s is blank
func OrDefault(s, def string) string {
	if std.TrimSpace(s) == "" {
		return def
	}
	return s
}

// SplitList flattens values that may each hold comma separated items
// items are trimmed, blanks dropped, order kept
func SplitList(values ...string) []string {
	out := []string{}
	for _, v := range values {
		for _, part := range std.Split(v, ",") {
			if p := std.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
