package matching

import (
	"strings"
	"time"
)

const (
	softSkillWeight      = 0.5
	technicalSkillWeight = 1.0
	titleBoostWeight     = 0.3
	textRelevanceWeight  = 0.1
)

// Input is everything the scorer needs about one (profile, job) pair.
type Input struct {
	// Skills is the profile side, already expanded.
	Skills SkillSet
	// Requirements are the job's requirement tokens as written.
	Requirements []string
	Title        string
	// Corpus indexes the profile's free text; nil skips text relevance.
	Corpus *Corpus
	// TargetText is the job description.
	TargetText string
	// Bonus is added after scoring and before the recency multiplier.
	Bonus float64
	// ActivityAt drives the recency boost; nil means no boost.
	ActivityAt *time.Time
}

// Score is the scorer's result for one pair.
type Score struct {
	Value            float64
	Technical        float64
	TechnicalMatches int
	// Matched holds satisfied requirements in match order, each at most once.
	Matched []string
}

// Evaluate scores one pair:
//  1. greedy one-to-one skill to requirement matching, skills outer loop,
//     first unmatched requirement over the threshold wins;
//  2. title boost for every (skill, title word) pair over the threshold;
//  3. TF-IDF relevance of the description words against the profile text.
func Evaluate(in Input) Score {
	var out Score

	requirements := make([]string, len(in.Requirements))
	for i, r := range in.Requirements {
		requirements[i] = Normalize(r)
	}
	taken := make([]bool, len(requirements))

	for _, skill := range in.Skills {
		soft := IsSoftSkill(skill)
		for i, req := range requirements {
			if taken[i] || req == "" {
				continue
			}
			sim, ok := Matches(skill, req)
			if !ok {
				continue
			}
			weight := technicalSkillWeight
			if soft {
				weight = softSkillWeight
			} else {
				out.Technical += sim
				out.TechnicalMatches++
			}
			out.Value += sim * weight
			taken[i] = true
			out.Matched = append(out.Matched, in.Requirements[i])
			break
		}
	}

	titleWords := strings.Fields(Normalize(in.Title))
	for _, skill := range in.Skills {
		for _, word := range titleWords {
			if sim, ok := Matches(skill, word); ok {
				out.Value += sim * titleBoostWeight
			}
		}
	}

	if in.Corpus != nil && strings.TrimSpace(in.TargetText) != "" {
		for _, word := range strings.Fields(strings.ToLower(in.TargetText)) {
			if w := in.Corpus.Weight(word); w > 0 {
				out.Value += w * textRelevanceWeight
			}
		}
	}

	return out
}
