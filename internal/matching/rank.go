package matching

import (
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// RecencyBoost multiplies the whole score of a recently active profile.
	RecencyBoost = 1.2
	// RecencyWindow is how far back activity counts as recent.
	RecencyWindow = 7 * 24 * time.Hour
	// MinScore is the exclusive lower bound a ranked subject must beat.
	MinScore = 1.0
	// SocialProofWeight is the bonus per existing application on a job.
	SocialProofWeight = 0.05
)

// SocialProof is the bonus a job earns from its application count.
func SocialProof(applications int) float64 {
	if applications <= 0 {
		return 0
	}
	return float64(applications) * SocialProofWeight
}

// Engine ranks subjects with a shared taxonomy. It holds no per-request
// state and may be used from many goroutines.
type Engine struct {
	taxonomy *Taxonomy
	now      func() time.Time
	workers  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now for the recency window.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithWorkers bounds how many subjects are scored in parallel.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// NewEngine builds an Engine. A nil taxonomy means DefaultTaxonomy.
func NewEngine(taxonomy *Taxonomy, opts ...Option) *Engine {
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy()
	}
	e := &Engine{
		taxonomy: taxonomy,
		now:      time.Now,
		workers:  runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand expands skills with the engine's taxonomy.
func (e *Engine) Expand(skills []string) SkillSet {
	return e.taxonomy.Expand(skills)
}

// Ranked is one subject that cleared the gate.
type Ranked[T any] struct {
	Item    T
	Matched []string
	Score   float64
}

// Rank scores every item, keeps those with a final score above MinScore and
// at least one technical match, sorts them by score descending (ties keep
// input order) and returns at most topN of them. topN <= 0 keeps all.
func Rank[T any](e *Engine, items []T, toInput func(T) Input, topN int) []Ranked[T] {
	now := e.now()
	slots := make([]*Ranked[T], len(items))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i := range items {
		i := i
		g.Go(func() error {
			in := toInput(items[i])
			sc := Evaluate(in)

			value := sc.Value + in.Bonus
			if isRecent(in.ActivityAt, now) {
				value *= RecencyBoost
			}
			if value <= MinScore || sc.TechnicalMatches == 0 {
				return nil
			}
			slots[i] = &Ranked[T]{Item: items[i], Matched: sc.Matched, Score: value}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]Ranked[T], 0, len(items))
	for _, r := range slots {
		if r != nil {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

func isRecent(at *time.Time, now time.Time) bool {
	if at == nil || at.IsZero() {
		return false
	}
	return now.Sub(*at) <= RecencyWindow
}
