package filter

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// fuzzyThreshold is the minimum Levenshtein similarity for a window to
// count as an instruction-override phrase.
const fuzzyThreshold = 0.85

// fuzzyMatcher catches lightly obfuscated instruction-override wording
// ("ignroe previous instrutions") that the exact jailbreak regexes miss.
// It slides a word window over the text and compares each window to a
// small phrase table by edit distance.
type fuzzyMatcher struct {
	phrases   []string
	threshold float64
}

func newFuzzyMatcher() *fuzzyMatcher {
	return &fuzzyMatcher{
		phrases: []string{
			"ignore previous instructions",
			"ignore all instructions",
			"disregard previous instructions",
			"forget your instructions",
			"override your instructions",
			"bypass your instructions",
		},
		threshold: fuzzyThreshold,
	}
}

// Match reports the first phrase some window of text resembles closely
// enough. Text is expected to be lowercased already; invisible characters
// and Latin look-alikes are normalized away before matching.
func (m *fuzzyMatcher) Match(text string) (string, bool) {
	words := strings.Fields(normalizeForFuzzy(text))
	for _, phrase := range m.phrases {
		span := len(strings.Fields(phrase))
		for i := 0; i+span <= len(words); i++ {
			window := strings.Join(words[i:i+span], " ")
			if similarity(window, phrase) >= m.threshold {
				return phrase, true
			}
		}
	}
	return "", false
}

// normalizeForFuzzy drops characters that hide or disguise phrase content:
// zero-width and bidirectional-control runes, Unicode tag characters, and
// Cyrillic/Greek homoglyphs of Latin letters (mapped to their Latin form).
func normalizeForFuzzy(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if isInvisible(r) {
			continue
		}
		if latin, ok := homoglyphs[r]; ok {
			b.WriteRune(latin)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isInvisible(r rune) bool {
	switch r {
	case '\u200B', '\u200C', '\u200D', '\uFEFF', '\u2060', '\u180E', '\u200E', '\u200F', // zero-width
		'\u202A', '\u202B', '\u202C', '\u202D', '\u202E', '\u2066', '\u2067', '\u2068', '\u2069': // bidi controls
		return true
	}
	return r >= 0xE0001 && r <= 0xE007F // tag characters
}

// Lowercase Cyrillic and Greek characters visually confusable with Latin
// letters. Match input is already lowercased, so only lowercase forms are
// needed.
var homoglyphs = map[rune]rune{
	'а': 'a', // cyrillic a
	'с': 'c', // cyrillic es
	'е': 'e', // cyrillic ie
	'і': 'i', // cyrillic byelorussian-ukrainian i
	'о': 'o', // cyrillic o
	'р': 'p', // cyrillic er
	'х': 'x', // cyrillic ha
	'у': 'y', // cyrillic u
	'ο': 'o', // greek omicron
}

// similarity is 1 - distance/longer, so 1.0 means identical strings.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	if longer == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longer)
}
