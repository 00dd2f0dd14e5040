package matching

import (
	"unicode/utf8"

	"github.com/xrash/smetrics"
)

const (
	// MatchThreshold is the minimum similarity for two tokens to count as
	// the same skill.
	MatchThreshold = 0.85

	winklerBoostThreshold = 0.7
	winklerPrefixSize     = 4
)

// Similarity is the Jaro-Winkler similarity of the normalized inputs, in [0,1].
// Window, transpositions and prefix are measured in characters, not bytes.
func Similarity(a, b string) float64 {
	a, b = Normalize(a), Normalize(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	if ca, cb, ok := byteAlphabet(a, b); ok {
		a, b = ca, cb
	}
	return smetrics.JaroWinkler(a, b, winklerBoostThreshold, winklerPrefixSize)
}

// byteAlphabet rewrites a and b so every character is one byte, assigning
// codes to distinct runes in order of appearance. Jaro-Winkler only tests
// characters for equality, so the rewritten pair scores the same as the
// original compared rune by rune. ok is false when the pair is plain ASCII
// (already one byte per character) or uses more than 256 distinct runes.
func byteAlphabet(a, b string) (string, string, bool) {
	if isASCII(a) && isASCII(b) {
		return "", "", false
	}
	codes := make(map[rune]byte)
	encode := func(s string) ([]byte, bool) {
		out := make([]byte, 0, utf8.RuneCountInString(s))
		for _, r := range s {
			c, seen := codes[r]
			if !seen {
				if len(codes) > 255 {
					return nil, false
				}
				c = byte(len(codes))
				codes[r] = c
			}
			out = append(out, c)
		}
		return out, true
	}
	ea, ok := encode(a)
	if !ok {
		return "", "", false
	}
	eb, ok := encode(b)
	if !ok {
		return "", "", false
	}
	return string(ea), string(eb), true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// Matches reports the similarity of a and b and whether it clears MatchThreshold.
func Matches(a, b string) (float64, bool) {
	sim := Similarity(a, b)
	return sim, sim >= MatchThreshold
}
