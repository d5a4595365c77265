package filter

import "regexp"

// Pattern categories for the built-in harmful-content rules. Custom packs
// may introduce their own categories.
const (
	CategoryViolence      = "violence"
	CategoryIllegal       = "illegal_activity"
	CategoryHateSpeech    = "hate_speech"
	CategorySelfHarm      = "self_harm"
	CategorySexualContent = "sexual_content"
)

// Jailbreak sub-categories.
const (
	SubCategoryInstructionOverride = "instruction_override"
	SubCategoryRoleManipulation    = "role_manipulation"
)

// Pattern is a single compiled detection rule. Raw is the pattern as
// authored and is reported as evidence on a match; the compiled form is
// case-insensitive regardless of how Raw is written.
type Pattern struct {
	Category string
	Raw      string
	re       *regexp.Regexp
}

// compilePattern wraps raw in a case-insensitive non-capturing group.
// The wrapping never changes whether the expression is valid.
func compilePattern(category, raw string) (Pattern, error) {
	re, err := regexp.Compile(`(?i)(?:` + raw + `)`)
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{Category: category, Raw: raw, re: re}, nil
}

func mustPattern(category, raw string) Pattern {
	p, err := compilePattern(category, raw)
	if err != nil {
		panic(err)
	}
	return p
}

// defaultHarmfulPatterns returns the built-in compound harmful-content
// rules: a topic term co-occurring with an intent or target term. Order
// matters only in that the first match wins.
func defaultHarmfulPatterns() []Pattern {
	return []Pattern{
		// Violence and threats
		mustPattern(CategoryViolence, `\b(?:kill|murder|assassinate|hurt|harm|attack|violence)\b.*\b(?:you|me|someone|people)\b`),
		mustPattern(CategoryViolence, `\b(?:bomb|explosive|weapon|gun|knife)\b.*\b(?:make|build|create|instructions)\b`),

		// Illegal activities
		mustPattern(CategoryIllegal, `\b(?:drugs|narcotics|cocaine|heroin|meth)\b.*\b(?:how to|make|buy|sell)\b`),
		mustPattern(CategoryIllegal, `\b(?:hack|hacking|phishing|malware)\b.*\b(?:tutorial|guide|instructions)\b`),

		// Hate speech
		mustPattern(CategoryHateSpeech, `\b(?:hate|racist|discrimination)\b.*\b(?:against|towards)\b`),

		// Self-harm
		mustPattern(CategorySelfHarm, `\b(?:suicide|self-harm|cut myself|kill myself)\b`),

		// Sexual content
		mustPattern(CategorySexualContent, `\b(?:sex|sexual|porn|pornography)\b.*\b(?:explicit|graphic|detailed)\b`),
	}
}

// defaultJailbreakPatterns returns the direct jailbreak phrasings.
func defaultJailbreakPatterns() []Pattern {
	return []Pattern{
		mustPattern(SubCategoryInstructionOverride, `ignore\s+(?:previous|above|all)\s+instructions`),
		mustPattern(SubCategoryInstructionOverride, `pretend\s+(?:you are|to be)\s+(?:not|an?).*ai`),
		mustPattern(SubCategoryInstructionOverride, `act\s+as\s+(?:if|though)\s+you\s+(?:are|were)`),
		mustPattern(SubCategoryInstructionOverride, `roleplay\s+as`),
		mustPattern(SubCategoryInstructionOverride, `simulate\s+being`),
		mustPattern(SubCategoryInstructionOverride, `you\s+are\s+now\s+(?:a|an)\s+(?:uncensored|unfiltered)`),
	}
}

// defaultRolePatterns returns the role-manipulation phrasings, checked
// after the direct jailbreak patterns.
func defaultRolePatterns() []Pattern {
	return []Pattern{
		mustPattern(SubCategoryRoleManipulation, `you\s+are\s+(?:now|no longer)\s+(?:a|an)`),
		mustPattern(SubCategoryRoleManipulation, `from\s+now\s+on\s+you\s+(?:are|will be)`),
		mustPattern(SubCategoryRoleManipulation, `forget\s+that\s+you\s+are\s+an?\s+ai`),
		mustPattern(SubCategoryRoleManipulation, `you\s+must\s+(?:not|never)\s+(?:mention|say|tell)`),
	}
}

// defaultLeakagePatterns returns the output-only rules that catch text
// reciting system instructions or self-identifying as the underlying model.
func defaultLeakagePatterns() []Pattern {
	return []Pattern{
		mustPattern("system_leakage", `you are a helpful assistant`),
		mustPattern("system_leakage", `(?:i am|as) an ai (?:language model|assistant)`),
		mustPattern("system_leakage", `my training data`),
		mustPattern("system_leakage", `openai`),
		mustPattern("system_leakage", `gpt-[0-9]`),
	}
}

// piiPattern is a typed PII rule. These match against the original text so
// that reported examples keep their casing.
type piiPattern struct {
	Type string
	re   *regexp.Regexp
}

// defaultPIIPatterns returns the structural PII rules. The phone and
// credit-card shapes are syntactic only: any digit string of matching shape
// triggers them, and internationally formatted numbers do not.
func defaultPIIPatterns() []piiPattern {
	return []piiPattern{
		{Type: "email", re: regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)},
		{Type: "phone", re: regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)},
		{Type: "phone", re: regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-.]?\d{4}`)},
		{Type: "ssn", re: regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
		{Type: "credit_card", re: regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`)},
		{Type: "ip_address", re: regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`)},
	}
}
