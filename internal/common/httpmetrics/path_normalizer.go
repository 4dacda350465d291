package httpmetrics

import (
	"regexp"
	"strings"
)

var (
	uuidRegex = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

	knownPrefixes = []string{"/api/", "/static/"}
	knownPaths    = map[string]struct{}{
		"/": {}, "/login": {}, "/register": {}, "/logout": {},
		"/habits": {}, "/tasks": {}, "/goals": {},
		"/health": {}, "/metrics": {},
	}
)

// NormalizePath keeps metric label cardinality bounded: ids collapse to a
// placeholder and unknown paths share one label.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if _, ok := knownPaths[path]; ok {
		return path
	}

	known := false
	for _, prefix := range knownPrefixes {
		if strings.HasPrefix(path, prefix) {
			known = true
			break
		}
	}
	if !known {
		return "other"
	}

	normalized := uuidRegex.ReplaceAllString(path, "{id}")

	parts := strings.Split(normalized, "/")
	for i, part := range parts {
		if part != "" && (strings.HasPrefix(part, "{") || isNumeric(part)) {
			parts[i] = "{param}"
		}
	}

	return strings.Join(parts, "/")
}

func isNumeric(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
