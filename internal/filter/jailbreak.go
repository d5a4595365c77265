package filter

const (
	confidenceJailbreak = 0.8
	confidenceRole      = 0.7
)

const (
	reasonJailbreak = "Potential jailbreak attempt detected"
	reasonRole      = "Role manipulation attempt detected"
)

// checkJailbreak scans lowered text for direct jailbreak phrasing, then
// role-manipulation phrasing, then (when enabled) the fuzzy phrase
// matcher. First match wins. Callers hold at least a read lock.
func (e *Engine) checkJailbreak(lower string) *Verdict {
	for _, p := range e.jailbreak {
		if p.re.MatchString(lower) {
			v := unsafeVerdict(reasonJailbreak, confidenceJailbreak, p.Raw)
			return &v
		}
	}

	for _, p := range e.role {
		if p.re.MatchString(lower) {
			v := unsafeVerdict(reasonRole, confidenceRole, p.Raw)
			return &v
		}
	}

	if e.fuzzy != nil {
		if phrase, ok := e.fuzzy.Match(lower); ok {
			v := unsafeVerdict(reasonJailbreak, confidenceRole, phrase)
			return &v
		}
	}
	return nil
}
