package normalize

import "regexp"

var nonDigit = regexp.MustCompile(`\D`)

// Phone strips everything but digits. A number without a country code is
// treated as a national number; we never guess the country.
func Phone(raw string) string {
	if raw == "" {
		return ""
	}
	return nonDigit.ReplaceAllString(raw, "")
}

// PhoneKey is the comparison/blocking key for a phone number: the last ten
// digits when the number is long enough, otherwise all digits. This makes
// "+1 (555) 123-4567" and "5551234567" collide, which is the common duplicate
// pattern across differently-sourced records.
func PhoneKey(raw string) string {
	d := Phone(raw)
	if len(d) > 10 {
		return d[len(d)-10:]
	}
	return d
}
