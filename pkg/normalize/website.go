package normalize

import "strings"

// WebsiteHost reduces a URL-ish string to its bare host: lowercase, protocol
// and "www." prefix stripped, path/query/port dropped. Formatting of websites
// varies wildly across sources; the host is the only stable part.
func WebsiteHost(raw string) string {
	if raw == "" {
		return ""
	}
	h := strings.ToLower(strings.TrimSpace(raw))
	h = strings.TrimPrefix(h, "http://")
	h = strings.TrimPrefix(h, "https://")
	h = strings.TrimPrefix(h, "www.")
	for _, sep := range []string{"/", "?", "#", ":"} {
		if i := strings.Index(h, sep); i >= 0 {
			h = h[:i]
		}
	}
	return h
}
