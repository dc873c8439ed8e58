package catalog

import "strings"

// RewriteURL strips the publisher's canonical base URL from an absolute
// link, case-insensitively, leaving a site-relative path. URLs already
// in relative form pass through unchanged, so the rewrite is idempotent.
func RewriteURL(baseURL, raw string) string {
	if raw == "" || strings.HasPrefix(raw, "/") {
		return raw
	}

	base := strings.TrimSuffix(baseURL, "/")
	if base == "" {
		return raw
	}

	if strings.HasPrefix(strings.ToLower(raw), strings.ToLower(base)) {
		rest := raw[len(base):]
		if rest == "" {
			return "/"
		}
		if !strings.HasPrefix(rest, "/") {
			// Prefix match fell inside a longer hostname; not ours.
			return raw
		}
		return rest
	}

	return raw
}
