package rules

import "strings"

// NormalizeSkill lowercases and trims a free-text skill label. Skill and
// interest labels share one label space and are matched by exact string
// equality after normalization.
func NormalizeSkill(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// NormalizeSkills normalizes every label, dropping empties and duplicates
// while keeping first-seen order.
func NormalizeSkills(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		normalized := NormalizeSkill(value)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

// Intersect returns the labels of a that also appear in b, in a's order.
func Intersect(a, b []string) []string {
	lookup := make(map[string]struct{}, len(b))
	for _, value := range b {
		lookup[value] = struct{}{}
	}

	out := make([]string, 0, len(a))
	for _, value := range a {
		if _, ok := lookup[value]; ok {
			out = append(out, value)
		}
	}
	return out
}
