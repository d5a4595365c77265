package filter

// Confidence constants are part of the engine's contract with callers;
// they are fixed per detector branch, not computed from match strength.
const (
	confidenceHarmfulInput  = 0.8
	confidenceHarmfulOutput = 0.9
	confidenceLeakage       = 0.7
)

const (
	reasonHarmfulInput  = "Potentially harmful content detected"
	reasonHarmfulOutput = "Harmful content in model output"
	reasonLeakage       = "Potential system prompt leakage"
)

// checkHarmful scans lowered text against the harmful pattern list. A nil
// return means no pattern matched, not that the text is safe: safety is
// declared only after every enabled detector passes. Callers hold at least
// a read lock.
func (e *Engine) checkHarmful(lower string, dir Direction) *Verdict {
	reason, confidence := reasonHarmfulInput, confidenceHarmfulInput
	if dir == DirectionOutput {
		reason, confidence = reasonHarmfulOutput, confidenceHarmfulOutput
	}

	for _, p := range e.harmful {
		if p.re.MatchString(lower) {
			v := unsafeVerdict(reason, confidence, p.Raw)
			return &v
		}
	}
	return nil
}

// checkLeakage runs the output-only system-prompt-leakage rules.
func (e *Engine) checkLeakage(lower string) *Verdict {
	for _, p := range e.leakage {
		if p.re.MatchString(lower) {
			v := unsafeVerdict(reasonLeakage, confidenceLeakage, p.Raw)
			return &v
		}
	}
	return nil
}
