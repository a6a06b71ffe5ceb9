package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// EmailDomain returns the part after '@', lowercased, or "" when the input
// has no '@'. The domain is a separate comparison key: two records sharing
// an email domain are worth a full comparison even when the local parts
// differ.
func EmailDomain(raw string) string {
	e := Email(raw)
	at := strings.LastIndex(e, "@")
	if at < 0 || at == len(e)-1 {
		return ""
	}
	return e[at+1:]
}
