package filter

import "regexp"

// Sanitization replaces PII substrings with fixed placeholder tokens, one
// pattern type at a time, in a fixed order. IP addresses are detected by
// checkPII but deliberately not redacted here.
var sanitizeRules = []struct {
	re          *regexp.Regexp
	placeholder string
}{
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[EMAIL]"},
	{regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`), "[PHONE]"},
	{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), "[SSN]"},
	{regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`), "[CREDIT_CARD]"},
}

// Sanitize redacts emails, phone numbers, SSNs, and credit-card numbers
// from text. It is a pure function, idempotent, and independent of the
// engine's detector toggles.
func (e *Engine) Sanitize(text string) string {
	return Sanitize(text)
}

// Sanitize is the package-level form of Engine.Sanitize; the operation is
// stateless and shared by all engine instances.
func Sanitize(text string) string {
	for _, rule := range sanitizeRules {
		text = rule.re.ReplaceAllString(text, rule.placeholder)
	}
	return text
}
