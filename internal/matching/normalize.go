// Package matching ranks jobs for a job seeker and job seekers for a job.
//
// Scoring is a heuristic: skills are normalized and expanded through a static
// taxonomy, matched against job requirements and title words with a
// Jaro-Winkler threshold, and free text is compared with a single-document
// TF-IDF table. Every call is a pure function of its inputs and the clock.
package matching

import "strings"

// Normalize lower-cases and trims a skill, requirement or word.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
