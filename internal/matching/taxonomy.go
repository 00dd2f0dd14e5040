package matching

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

//go:embed taxonomy.json
var defaultTaxonomyJSON []byte

// softSkills are tracked separately from technical skills: they are never
// expanded and they score at half weight.
var softSkills = stringSet(
	"communication",
	"teamwork",
	"self-study",
	"problem-solving",
	"reading",
	"technical document comprehension ability",
	"analytical thinking",
	"compliance knowledge",
	"customer service",
)

// fallbackSkills stand in for a profile that declares no skills at all.
var fallbackSkills = []string{"communication", "teamwork"}

// IsSoftSkill reports whether the normalized token is a soft skill.
func IsSoftSkill(skill string) bool {
	_, ok := softSkills[Normalize(skill)]
	return ok
}

func stringSet(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Taxonomy maps a normalized skill to the related skills it implies.
// A Taxonomy is read-only after construction and safe for concurrent use.
type Taxonomy struct {
	related map[string][]string
}

var defaultTaxonomy = sync.OnceValue(func() *Taxonomy {
	t, err := parseTaxonomy(defaultTaxonomyJSON)
	if err != nil {
		panic(fmt.Sprintf("matching: embedded taxonomy is invalid: %v", err))
	}
	return t
})

// DefaultTaxonomy returns the built-in taxonomy, parsed once per process.
func DefaultTaxonomy() *Taxonomy {
	return defaultTaxonomy()
}

// LoadTaxonomy reads a JSON object of skill -> related skills.
func LoadTaxonomy(r io.Reader) (*Taxonomy, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}
	return parseTaxonomy(data)
}

// LoadTaxonomyFile is LoadTaxonomy over a file path.
func LoadTaxonomyFile(path string) (*Taxonomy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open taxonomy: %w", err)
	}
	defer f.Close()
	return LoadTaxonomy(f)
}

func parseTaxonomy(data []byte) (*Taxonomy, error) {
	raw := make(map[string][]string)
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode taxonomy: %w", err)
	}

	related := make(map[string][]string, len(raw))
	for skill, implied := range raw {
		key := Normalize(skill)
		if key == "" {
			continue
		}
		values := make([]string, 0, len(implied))
		for _, v := range implied {
			if n := Normalize(v); n != "" {
				values = append(values, n)
			}
		}
		related[key] = append(related[key], values...)
	}
	return &Taxonomy{related: related}, nil
}

// Related returns a copy of the skills implied by skill.
func (t *Taxonomy) Related(skill string) []string {
	values := t.related[Normalize(skill)]
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

// Len is the number of skills with an entry.
func (t *Taxonomy) Len() int {
	return len(t.related)
}

// SkillSet is an insertion-ordered, duplicate-free list of normalized skills.
type SkillSet []string

// Contains reports whether skill is in the set.
func (s SkillSet) Contains(skill string) bool {
	n := Normalize(skill)
	for _, v := range s {
		if v == n {
			return true
		}
	}
	return false
}

// Expand normalizes skills and unions in every related skill from the
// taxonomy. Soft skills are kept but not expanded. A profile with no
// usable skills gets the fallback pair (communication, teamwork).
func (t *Taxonomy) Expand(skills []string) SkillSet {
	seen := make(map[string]struct{}, len(skills)*2)
	out := make(SkillSet, 0, len(skills)*2)
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	declared := 0
	for _, raw := range skills {
		skill := Normalize(raw)
		if skill == "" {
			continue
		}
		declared++
		add(skill)
		if IsSoftSkill(skill) {
			continue
		}
		for _, r := range t.related[skill] {
			add(r)
		}
	}

	if declared == 0 {
		for _, s := range fallbackSkills {
			add(s)
		}
	}
	return out
}
