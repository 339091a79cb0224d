package insight

import (
	"fmt"
	"time"
)

// Insight type identifiers
const (
	TypeMoodTrend       = "mood-trend"
	TypeThemeSummary    = "theme-summary"
	TypeNarrativeRecap  = "narrative-recap"
	TypeWeeklyReview    = "weekly-review"
	TypeRecommendations = "recommendations"
)

// Registry is the read-only table of per-type policies. The dependency
// graph is validated once at construction; the orchestrator trusts it.
type Registry struct {
	policies map[string]Policy
	order    []string
}

// NewRegistry builds a registry from the given policies. It fails on
// duplicate identifiers, references to unknown dependencies, and cycles
// in the dependency graph.
func NewRegistry(policies []Policy) (*Registry, error) {
	r := &Registry{policies: make(map[string]Policy, len(policies))}
	for _, p := range policies {
		if p.Identifier == "" {
			return nil, fmt.Errorf("policy with empty identifier")
		}
		if _, dup := r.policies[p.Identifier]; dup {
			return nil, fmt.Errorf("duplicate insight type %q", p.Identifier)
		}
		if p.Strategy == nil {
			return nil, fmt.Errorf("insight type %q has no strategy", p.Identifier)
		}
		r.policies[p.Identifier] = p
		r.order = append(r.order, p.Identifier)
	}

	for _, p := range r.policies {
		for _, dep := range p.Dependencies {
			if _, ok := r.policies[dep]; !ok {
				return nil, fmt.Errorf("insight type %q depends on unknown type %q", p.Identifier, dep)
			}
		}
	}

	if cycle := findCycle(r.policies); cycle != "" {
		return nil, fmt.Errorf("dependency cycle through insight type %q", cycle)
	}

	return r, nil
}

// findCycle runs a coloring DFS over the dependency graph and returns an
// identifier on a cycle, or "" if the graph is a DAG.
func findCycle(policies map[string]Policy) string {
	const (
		white = 0 // unvisited
		gray  = 1 // on the current path
		black = 2 // done
	)
	color := make(map[string]int, len(policies))

	var visit func(id string) string
	visit = func(id string) string {
		color[id] = gray
		for _, dep := range policies[id].Dependencies {
			switch color[dep] {
			case gray:
				return dep
			case white:
				if hit := visit(dep); hit != "" {
					return hit
				}
			}
		}
		color[id] = black
		return ""
	}

	for id := range policies {
		if color[id] == white {
			if hit := visit(id); hit != "" {
				return hit
			}
		}
	}
	return ""
}

// Policy returns the policy for an identifier. A false return means the
// identifier was never registered, which is a caller bug rather than a
// runtime condition.
func (r *Registry) Policy(identifier string) (Policy, bool) {
	p, ok := r.policies[identifier]
	return p, ok
}

// MustPolicy returns the policy for an identifier and panics if it was
// never registered. For static wiring only.
func (r *Registry) MustPolicy(identifier string) Policy {
	p, ok := r.policies[identifier]
	if !ok {
		panic(fmt.Sprintf("unknown insight type %q", identifier))
	}
	return p
}

// Identifiers returns all registered type identifiers in registration order
func (r *Registry) Identifiers() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// DefaultRegistry returns the standard set of insight types
func DefaultRegistry() *Registry {
	weeklyWindow := &ActivityWindow{
		Start: WeekMoment{Day: time.Sunday, Hour: 3},
		End:   WeekMoment{Day: time.Monday, Hour: 23, Minute: 59},
	}

	r, err := NewRegistry([]Policy{
		{
			Identifier: TypeMoodTrend,
			Interval:   12 * time.Hour,
			MinEntries: 3,
			Window:     WindowSpec{Kind: WindowRecencyCount, Count: 15},
			Strategy:   moodTrendStrategy{},
		},
		{
			Identifier: TypeThemeSummary,
			Interval:   24 * time.Hour,
			MinEntries: 3,
			Window:     WindowSpec{Kind: WindowRollingRank, Span: 14 * 24 * time.Hour, Cap: 30, Floor: 2},
			Strategy:   themeSummaryStrategy{},
		},
		{
			Identifier:   TypeNarrativeRecap,
			Interval:     24 * time.Hour,
			MinEntries:   5,
			Window:       WindowSpec{Kind: WindowRecencyDuration, Span: 7 * 24 * time.Hour},
			Dependencies: []string{TypeMoodTrend},
			Strategy:     narrativeRecapStrategy{},
		},
		{
			Identifier:   TypeWeeklyReview,
			Interval:     7 * 24 * time.Hour,
			MinEntries:   2,
			Window:       WindowSpec{Kind: WindowFixedPriorWeek},
			Dependencies: []string{TypeMoodTrend, TypeThemeSummary},
			Activity:     weeklyWindow,
			Strategy:     weeklyReviewStrategy{},
		},
		{
			Identifier:   TypeRecommendations,
			Interval:     24 * time.Hour,
			MinEntries:   3,
			Window:       WindowSpec{Kind: WindowRecencyCount, Count: 7},
			Dependencies: []string{TypeThemeSummary, TypeWeeklyReview},
			Strategy:     recommendationsStrategy{},
		},
	})
	if err != nil {
		// The default table is static; a failure here is a programming error.
		panic(err)
	}
	return r
}
