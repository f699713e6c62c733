package metrics

import "strings"

// norm keeps label values lowercase and non-empty so cardinality stays sane.
func norm(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return "unknown"
	}
	return s
}
