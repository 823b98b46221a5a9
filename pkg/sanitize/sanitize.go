package sanitize

import "regexp"

// Plain email addresses (case-insensitive)
var reEmail = regexp.MustCompile(`(?i)[A-Z0-9._%+\-]+@[A-Z0-9.\-]+\.[A-Z]{2,}`)

// Common phone shapes: +xx..., (xxx) xxx-xxxx, 555.123.4567.
// Only digits, spaces, dashes, dots, parentheses and a leading plus are allowed,
// with at least 9 digits overall so dates and amounts are left alone.
var rePhone = regexp.MustCompile(`\+?\(?\d[\d\s\-\.\(\)]{7,}\d`)

// RedactPII masks email addresses and phone numbers in s.
func RedactPII(s string) string {
	if s == "" {
		return s
	}
	s = reEmail.ReplaceAllString(s, "[redacted email]")
	s = rePhone.ReplaceAllStringFunc(s, func(m string) string {
		digits := 0
		for _, r := range m {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits < 9 {
			return m
		}
		return "[redacted phone]"
	})
	return s
}

// Summary cuts s at a word boundary no later than max bytes for list views.
func Summary(s string, max int) string {
	if len(s) <= max {
		return s
	}
	i := max
	for i > 0 && i < len(s) && s[i] != ' ' {
		i--
	}
	if i <= 0 {
		i = max
	}
	return s[:i] + "…"
}
