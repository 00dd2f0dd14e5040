package matching

import (
	"math"
	"regexp"
	"strings"
)

var termPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

var stopwords = stringSet(
	"a", "about", "above", "after", "again", "all", "am", "an", "and", "any",
	"are", "as", "at", "be", "because", "been", "before", "being", "below",
	"between", "both", "but", "by", "can", "could", "did", "do", "does",
	"doing", "down", "during", "each", "few", "for", "from", "further", "had",
	"has", "have", "having", "he", "her", "here", "hers", "him", "his", "how",
	"i", "if", "in", "into", "is", "it", "its", "itself", "just", "me", "more",
	"most", "my", "no", "nor", "not", "now", "of", "off", "on", "once", "only",
	"or", "other", "our", "ours", "out", "over", "own", "same", "she", "should",
	"so", "some", "such", "than", "that", "the", "their", "them", "then",
	"there", "these", "they", "this", "those", "through", "to", "too", "under",
	"until", "up", "very", "was", "we", "were", "what", "when", "where",
	"which", "while", "who", "whom", "why", "will", "with", "would", "you",
	"your", "yours",
)

// terms lower-cases text, splits it on anything that is not a letter or a
// digit and drops stopwords.
func terms(text string) []string {
	found := termPattern.FindAllString(strings.ToLower(text), -1)
	out := found[:0]
	for _, t := range found {
		if _, stop := stopwords[t]; stop {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Corpus is a TF-IDF table over a single document, a profile's free text.
type Corpus struct {
	counts    map[string]int
	documents int
}

// NewCorpus indexes text. It returns nil when text has no content.
func NewCorpus(text string) *Corpus {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	counts := make(map[string]int)
	for _, t := range terms(text) {
		counts[t]++
	}
	return &Corpus{counts: counts, documents: 1}
}

// Weight returns the TF-IDF weight of word against the corpus. A word that
// tokenizes into several terms gets the sum of their weights.
func (c *Corpus) Weight(word string) float64 {
	if c == nil {
		return 0
	}
	var weight float64
	for _, t := range terms(word) {
		tf := c.counts[t]
		if tf == 0 {
			continue
		}
		weight += float64(tf) * c.idf(t)
	}
	return weight
}

func (c *Corpus) idf(term string) float64 {
	df := 0
	if c.counts[term] > 0 {
		df = 1
	}
	return 1 + math.Log(float64(c.documents)/float64(1+df))
}
