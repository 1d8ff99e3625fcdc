package api

import "strings"

// NormalizeBaseURL trims whitespace, inserts an http scheme when none is
// present, and strips a trailing slash.
func NormalizeBaseURL(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if !strings.Contains(cleaned, "://") {
		cleaned = "http://" + cleaned
	}
	return strings.TrimSuffix(cleaned, "/")
}

// BuildURL joins a base URL and a relative route. An empty route yields the
// normalized base URL alone.
func BuildURL(baseURL, route string) string {
	base := NormalizeBaseURL(baseURL)
	r := strings.TrimPrefix(strings.TrimSpace(route), "/")
	if r == "" {
		return base
	}
	return base + "/" + r
}
