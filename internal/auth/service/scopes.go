package service

import (
	"strings"
	"unicode"
)

// ParseScopes splits a scope string on commas and whitespace, dropping empty
// tokens and keeping order and duplicates.
func ParseScopes(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// NegotiateScopes returns the scopes to grant for a request.
//
// An empty request grants every allowed scope in stored order. Otherwise each
// requested token is kept, in request order, when it exactly matches an
// allowed scope. Duplicated requests stay duplicated. A request that matches
// nothing yields an empty, non-nil slice; that is still a successful grant.
func NegotiateScopes(requested string, allowed []string) []string {
	tokens := ParseScopes(requested)
	if len(tokens) == 0 {
		out := make([]string, len(allowed))
		copy(out, allowed)
		return out
	}

	allowedSet := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		allowedSet[a] = struct{}{}
	}

	granted := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := allowedSet[t]; ok {
			granted = append(granted, t)
		}
	}
	return granted
}
