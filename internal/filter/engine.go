// Package filter implements the content-safety engine: rule-based
// harmful-content, jailbreak, and PII detection over plain text, plus PII
// sanitization for logging and storage.
//
// The engine is purely computational — no I/O, no network. Checks are safe
// to run concurrently; AddCustomPattern is the only mutator and is
// serialized against concurrent checks with a reader-writer lock.
package filter

import (
	"log"
	"strings"
	"sync"
	"unicode/utf8"
)

// DefaultMaxCheckBytes caps how much of a text the detectors scan. The
// surrounding inference layer limits inputs to about 8000 characters.
const DefaultMaxCheckBytes = 8192

// Config holds the engine toggles, supplied once at construction. The
// engine reads no files and no environment.
type Config struct {
	ContentFilterEnabled      bool
	PIIDetectionEnabled       bool
	JailbreakDetectionEnabled bool

	// FuzzyJailbreakEnabled adds Levenshtein matching of instruction-
	// override phrases after the exact jailbreak rules. Off by default.
	FuzzyJailbreakEnabled bool

	// AllowedCategories is informational only; reserved for future policy.
	AllowedCategories []string

	// MaxCheckBytes overrides DefaultMaxCheckBytes when positive.
	MaxCheckBytes int
}

// DefaultConfig enables all three detectors.
func DefaultConfig() Config {
	return Config{
		ContentFilterEnabled:      true,
		PIIDetectionEnabled:       true,
		JailbreakDetectionEnabled: true,
		AllowedCategories: []string{
			"educational", "informational", "creative", "analytical",
			"technical", "scientific", "business", "academic",
		},
		MaxCheckBytes: DefaultMaxCheckBytes,
	}
}

// Engine evaluates text against the loaded pattern sets. Construct one per
// logical configuration; instances do not share pattern state.
type Engine struct {
	cfg Config

	mu        sync.RWMutex
	harmful   []Pattern // grows via AddCustomPattern
	jailbreak []Pattern
	role      []Pattern
	leakage   []Pattern
	pii       []piiPattern
	fuzzy     *fuzzyMatcher
}

// New builds an engine with the built-in pattern sets and the given config.
func New(cfg Config) *Engine {
	if cfg.MaxCheckBytes <= 0 {
		cfg.MaxCheckBytes = DefaultMaxCheckBytes
	}
	e := &Engine{
		cfg:       cfg,
		harmful:   defaultHarmfulPatterns(),
		jailbreak: defaultJailbreakPatterns(),
		role:      defaultRolePatterns(),
		leakage:   defaultLeakagePatterns(),
		pii:       defaultPIIPatterns(),
	}
	if cfg.FuzzyJailbreakEnabled {
		e.fuzzy = newFuzzyMatcher()
	}
	return e
}

// CheckInput evaluates user-supplied text. Detectors run in precedence
// order — harmful content, then jailbreak, then PII — and the first unsafe
// verdict wins.
func (e *Engine) CheckInput(text string) Verdict {
	if strings.TrimSpace(text) == "" {
		return safeVerdict()
	}
	text = e.clip(text)
	lower := strings.ToLower(text)

	e.mu.RLock()
	defer e.mu.RUnlock()

	if v := e.checkHarmful(lower, DirectionInput); v != nil {
		return *v
	}
	if e.cfg.JailbreakDetectionEnabled {
		if v := e.checkJailbreak(lower); v != nil {
			return *v
		}
	}
	if e.cfg.PIIDetectionEnabled {
		if v := e.checkPII(text); v != nil {
			return *v
		}
	}
	return safeVerdict()
}

// CheckOutput evaluates model-produced text: the harmful rules at output
// confidence, then the system-prompt-leakage rules. Jailbreak and PII
// detection apply only to input.
func (e *Engine) CheckOutput(text string) Verdict {
	if strings.TrimSpace(text) == "" {
		return safeVerdict()
	}
	lower := strings.ToLower(e.clip(text))

	e.mu.RLock()
	defer e.mu.RUnlock()

	if v := e.checkHarmful(lower, DirectionOutput); v != nil {
		return *v
	}
	if v := e.checkLeakage(lower); v != nil {
		return *v
	}
	return safeVerdict()
}

// AddCustomPattern validates and appends a harmful-content rule. An
// invalid expression is logged and discarded; this never fails the caller.
func (e *Engine) AddCustomPattern(pattern, category string) {
	p, err := compilePattern(category, pattern)
	if err != nil {
		log.Printf("filter: rejecting invalid pattern %q: %v", pattern, err)
		return
	}

	e.mu.Lock()
	e.harmful = append(e.harmful, p)
	e.mu.Unlock()
	log.Printf("filter: added custom pattern for category %q", category)
}

// Stats reports the loaded pattern counts and the configured toggles.
// JailbreakPatterns counts the direct instruction-override list; role
// manipulation patterns are a separate list and are not included.
func (e *Engine) Stats() FilterStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return FilterStats{
		HarmfulPatterns:           len(e.harmful),
		JailbreakPatterns:         len(e.jailbreak),
		ContentFilterEnabled:      e.cfg.ContentFilterEnabled,
		PIIDetectionEnabled:       e.cfg.PIIDetectionEnabled,
		JailbreakDetectionEnabled: e.cfg.JailbreakDetectionEnabled,
	}
}

// clip bounds the text the detectors scan. Only a rune the cut split in
// half is trimmed; invalid bytes elsewhere in the text stay put, they just
// never match any pattern.
func (e *Engine) clip(text string) string {
	if len(text) <= e.cfg.MaxCheckBytes {
		return text
	}
	cut := text[:e.cfg.MaxCheckBytes]
	if r, size := utf8.DecodeLastRuneInString(cut); r == utf8.RuneError && size <= 1 {
		for i := 1; i < utf8.UTFMax && i <= len(cut); i++ {
			if utf8.RuneStart(cut[len(cut)-i]) {
				if !utf8.ValidString(cut[len(cut)-i:]) {
					cut = cut[:len(cut)-i]
				}
				break
			}
		}
	}
	return cut
}
