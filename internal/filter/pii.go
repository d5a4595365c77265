package filter

const (
	confidencePII = 0.9
	reasonPII     = "PII detected in text"
)

const maxPIIExamples = 2

// checkPII scans the original (not lowered) text against every PII
// pattern. Unlike the other detectors it never short-circuits, so all
// matched types are reported together. Callers hold at least a read lock.
func (e *Engine) checkPII(text string) *Verdict {
	var findings []PIIFinding
	for _, p := range e.pii {
		matches := p.re.FindAllString(text, -1)
		if len(matches) == 0 {
			continue
		}
		examples := matches
		if len(examples) > maxPIIExamples {
			examples = examples[:maxPIIExamples]
		}
		findings = append(findings, PIIFinding{
			Type:     p.Type,
			Count:    len(matches),
			Examples: examples,
		})
	}

	if len(findings) == 0 {
		return nil
	}
	return &Verdict{
		Safe:        false,
		Reason:      reasonPII,
		Confidence:  confidencePII,
		DetectedPII: findings,
	}
}
