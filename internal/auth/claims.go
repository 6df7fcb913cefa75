package auth

import (
	"encoding/json"
	"strings"
)

// Identity is the normalized result of claim resolution: who the
// caller is, which provider groups they carry, the role derived from
// those groups, and their store-backed custom groups. Custom groups
// never affect the role rank; they are a separate authorization axis
// consumed by group self-service.
type Identity struct {
	UserID       string   `json:"userId"`
	Email        string   `json:"email"`
	Groups       []string `json:"groups"`
	Role         Role     `json:"-"`
	CustomGroups []string `json:"customGroups"`
}

// ParseGroups normalizes the groups claim into a set of lowercase
// names. The provider stringifies the claim inconsistently, so four
// shapes must all parse to the same set:
//
//	["admin", "band"]        native list
//	`["admin","band"]`       JSON-encoded string
//	`[admin, band]`          stringified list, unquoted
//	`admin band`             whitespace-separated
//
// Malformed input yields an empty set, never an error.
func ParseGroups(raw interface{}) []string {
	switch v := raw.(type) {
	case nil:
		return []string{}
	case []string:
		return cleanGroups(v)
	case []interface{}:
		names := make([]string, 0, len(v))
		for _, g := range v {
			if s, ok := g.(string); ok {
				names = append(names, s)
			}
		}
		return cleanGroups(names)
	case string:
		// Structured JSON first.
		var parsed interface{}
		if err := json.Unmarshal([]byte(v), &parsed); err == nil {
			switch p := parsed.(type) {
			case []interface{}:
				return ParseGroups(p)
			case string:
				return cleanGroups([]string{p})
			}
		}
		// Fallback: strip brackets, split on commas or whitespace.
		cleaned := strings.Trim(v, "[]")
		parts := strings.Fields(strings.ReplaceAll(cleaned, ",", " "))
		return cleanGroups(parts)
	default:
		return []string{}
	}
}

func cleanGroups(names []string) []string {
	out := make([]string, 0, len(names))
	seen := map[string]bool{}
	for _, n := range names {
		n = strings.ToLower(strings.Trim(strings.TrimSpace(n), `"'`))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
