// Package permit implements wildcard capability matching for permission strings
// of the form "domain:action:selector", e.g. "login_token:create" or "keys:*".
//
// A permission is a colon-delimited list of parts; each part is a comma-delimited
// set of tokens. "*" in a part matches anything. A granted permission with fewer
// parts than the required one implies all trailing parts, so "keys" implies
// "keys:delete:1234".
package permit

import "strings"

const (
	partDivider    = ":"
	subpartDivider = ","
	wildcard       = "*"
)

// Implies reports whether the granted permission covers the required one.
func Implies(granted, required string) bool {
	grantedParts := parse(granted)
	requiredParts := parse(required)
	if len(grantedParts) == 0 || len(requiredParts) == 0 {
		return false
	}

	for i, req := range requiredParts {
		if i >= len(grantedParts) {
			// Granted permission ran out of parts: everything after is implied.
			return true
		}
		if !partCovers(grantedParts[i], req) {
			return false
		}
	}

	// Granted permission is longer than required: leftover parts must all be wildcards.
	for _, part := range grantedParts[len(requiredParts):] {
		if _, ok := part[wildcard]; !ok {
			return false
		}
	}
	return true
}

// AnyImplies reports whether any of the granted permissions covers the required one.
func AnyImplies(granted []string, required string) bool {
	for _, g := range granted {
		if Implies(g, required) {
			return true
		}
	}
	return false
}

func parse(permission string) []map[string]struct{} {
	permission = strings.TrimSpace(permission)
	if permission == "" {
		return nil
	}

	rawParts := strings.Split(permission, partDivider)
	parts := make([]map[string]struct{}, 0, len(rawParts))
	for _, raw := range rawParts {
		subparts := make(map[string]struct{})
		for _, sub := range strings.Split(raw, subpartDivider) {
			sub = strings.TrimSpace(sub)
			if sub != "" {
				subparts[sub] = struct{}{}
			}
		}
		if len(subparts) == 0 {
			return nil
		}
		parts = append(parts, subparts)
	}
	return parts
}

func partCovers(granted map[string]struct{}, required map[string]struct{}) bool {
	if _, ok := granted[wildcard]; ok {
		return true
	}
	for sub := range required {
		if _, ok := granted[sub]; !ok {
			return false
		}
	}
	return true
}
