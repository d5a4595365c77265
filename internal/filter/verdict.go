package filter

// Direction tells the engine whether text is heading into the model or
// coming back out of it. Output checks run the leakage patterns and use a
// higher harmful-content confidence.
type Direction string

const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
)

// Verdict is the result of a single safety check. Reason, MatchedPattern,
// and DetectedPII are populated only when Safe is false.
type Verdict struct {
	Safe           bool         `json:"is_safe"`
	Reason         string       `json:"reason,omitempty"`
	Confidence     float64      `json:"confidence"`
	MatchedPattern string       `json:"matched_pattern,omitempty"`
	DetectedPII    []PIIFinding `json:"detected_pii,omitempty"`
}

// PIIFinding summarizes all matches of one PII pattern in a checked text.
// Examples holds at most the first two raw matches.
type PIIFinding struct {
	Type     string   `json:"type"`
	Count    int      `json:"count"`
	Examples []string `json:"examples"`
}

// FilterStats is a read-only snapshot of the engine's loaded patterns and
// toggles.
type FilterStats struct {
	HarmfulPatterns           int  `json:"harmful_patterns"`
	JailbreakPatterns         int  `json:"jailbreak_patterns"`
	ContentFilterEnabled      bool `json:"content_filter_enabled"`
	PIIDetectionEnabled       bool `json:"pii_detection_enabled"`
	JailbreakDetectionEnabled bool `json:"jailbreak_detection_enabled"`
}

// Detector names an unsafe verdict's originating detector: "harmful",
// "jailbreak", "pii", or "leakage". Empty for safe verdicts.
func (v Verdict) Detector() string {
	if v.Safe {
		return ""
	}
	switch v.Reason {
	case reasonJailbreak, reasonRole:
		return "jailbreak"
	case reasonPII:
		return "pii"
	case reasonLeakage:
		return "leakage"
	default:
		return "harmful"
	}
}

func safeVerdict() Verdict {
	return Verdict{Safe: true, Confidence: 1.0}
}

func unsafeVerdict(reason string, confidence float64, pattern string) Verdict {
	return Verdict{
		Safe:           false,
		Reason:         reason,
		Confidence:     confidence,
		MatchedPattern: pattern,
	}
}
