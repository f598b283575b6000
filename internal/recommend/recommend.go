// Package recommend selects prioritised action recommendations from survey
// dimension scores. Selection is table driven: combination rules fire when
// several related dimensions are red at once, and per-dimension entries cover
// whatever the combinations did not.
package recommend

import (
	"sort"

	"github.com/nyashahama/fluir-backend/internal/scoring"
)

// ─── TYPES ────────────────────────────────────────────────────────────────────

// Priority is the urgency bucket of a recommendation.
type Priority string

const (
	PriorityImmediate Priority = "imediata"
	PriorityShort     Priority = "curto"
	PriorityMedium    Priority = "medio"
)

// Rank orders priorities for sorting; unknown priorities sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityImmediate:
		return 0
	case PriorityShort:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

// Recommendation is a suggested intervention tied to one or more dimensions.
type Recommendation struct {
	DimensionIDs []string `json:"dimension_ids"`
	Priority     Priority `json:"priority"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
}

// ComboRule fires when at least MinRed of its Dimensions are red.
type ComboRule struct {
	Dimensions  []string
	MinRed      int
	Priority    Priority
	Title       string
	Description string
}

// Advice is the text of a per-dimension recommendation.
type Advice struct {
	Title       string
	Description string
}

// Selector evaluates a set of rule tables against dimension scores.
type Selector struct {
	Combos     []ComboRule
	Individual map[string]map[scoring.Status]Advice
}

// individualPriority maps a dimension status to the priority of its
// per-dimension recommendation. Individual entries never reach imediata.
var individualPriority = map[scoring.Status]Priority{
	scoring.StatusRed:    PriorityShort,
	scoring.StatusYellow: PriorityMedium,
}

// ─── CORE FUNCTIONS ───────────────────────────────────────────────────────────

// Generate runs the built-in rule tables.
func Generate(scores []scoring.DimensionScore) []Recommendation {
	return Default().Select(scores)
}

// Default returns a Selector over the built-in rule tables.
func Default() Selector {
	return Selector{Combos: comboRules, Individual: individualAdvice}
}

// Select returns the recommendations for scores, stably sorted by priority.
//
// Combination rules are evaluated first in table order; every rule whose red
// count reaches MinRed is emitted and all of its dimensions become covered.
// Then each non-green dimension, in input order, gets its individual entry,
// except a red dimension that a combination already covered. Dimensions the
// tables do not know are ignored.
func (s Selector) Select(scores []scoring.DimensionScore) []Recommendation {
	statusOf := make(map[string]scoring.Status, len(scores))
	for _, d := range scores {
		statusOf[d.DimensionID] = d.Status
	}

	out := []Recommendation{}
	covered := map[string]bool{}

	for _, rule := range s.Combos {
		red := 0
		for _, id := range rule.Dimensions {
			if statusOf[id] == scoring.StatusRed {
				red++
			}
		}
		if red < rule.MinRed {
			continue
		}
		out = append(out, Recommendation{
			DimensionIDs: append([]string(nil), rule.Dimensions...),
			Priority:     rule.Priority,
			Title:        rule.Title,
			Description:  rule.Description,
		})
		for _, id := range rule.Dimensions {
			covered[id] = true
		}
	}

	for _, d := range scores {
		// Only red and yellow carry an individual priority.
		priority, ok := individualPriority[d.Status]
		if !ok {
			continue
		}
		if covered[d.DimensionID] && d.Status == scoring.StatusRed {
			continue
		}
		advice, ok := s.Individual[d.DimensionID][d.Status]
		if !ok {
			continue
		}
		out = append(out, Recommendation{
			DimensionIDs: []string{d.DimensionID},
			Priority:     priority,
			Title:        advice.Title,
			Description:  advice.Description,
		})
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Priority.Rank() < out[b].Priority.Rank()
	})

	return out
}
