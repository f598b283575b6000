package scoring

import "github.com/nyashahama/fluir-backend/internal/copsoq"

// uncategorised is the bucket for dimensions without a category.
const uncategorised = "Outros"

// ─── TYPES ────────────────────────────────────────────────────────────────────

// Summary counts dimensions per status.
type Summary struct {
	Green       int     `json:"green"`
	Yellow      int     `json:"yellow"`
	Red         int     `json:"red"`
	Total       int     `json:"total"`
	HealthScore float64 `json:"health_score"` // share of green dimensions, 0–100
}

// CategoryScore is the unrounded mean of the dimensions in one category.
type CategoryScore struct {
	Category string               `json:"category"`
	Average  float64              `json:"average"`
	Type     copsoq.DimensionType `json:"type"`
	Status   Status               `json:"status"`
}

// ─── AGGREGATE HELPERS ────────────────────────────────────────────────────────

// AggregateAcrossRespondents merges per-respondent scores into one survey-level
// list: one entry per dimension id in order of first appearance, score is the
// mean across respondents rounded to two decimals, and status is recomputed
// from that mean. Descriptive fields come from the last occurrence.
func AggregateAcrossRespondents(perRespondent [][]DimensionScore) []DimensionScore {
	type acc struct {
		last DimensionScore
		sum  float64
		n    int
	}

	order := []string{}
	byID := map[string]*acc{}
	for _, scores := range perRespondent {
		for _, s := range scores {
			a, ok := byID[s.DimensionID]
			if !ok {
				a = &acc{}
				byID[s.DimensionID] = a
				order = append(order, s.DimensionID)
			}
			a.last = s
			a.sum += s.Score
			a.n++
		}
	}

	out := make([]DimensionScore, 0, len(order))
	for _, id := range order {
		a := byID[id]
		d := a.last
		d.Score = round(a.sum/float64(a.n), 2)
		d.Status = DimensionBands(d.Type).Classify(d.Score)
		out = append(out, d)
	}
	return out
}

// Summarize counts statuses. HealthScore is the green share rounded to one
// decimal, or 0 for an empty list.
func Summarize(scores []DimensionScore) Summary {
	var s Summary
	for _, d := range scores {
		switch d.Status {
		case StatusGreen:
			s.Green++
		case StatusYellow:
			s.Yellow++
		case StatusRed:
			s.Red++
		}
	}
	s.Total = s.Green + s.Yellow + s.Red
	if s.Total > 0 {
		s.HealthScore = round(float64(s.Green)/float64(s.Total)*100, 1)
	}
	return s
}

// CategoryScores groups dimension scores by category in order of first
// appearance. A category takes the type of the last dimension seen in it,
// which decides the direction of its status.
func CategoryScores(scores []DimensionScore) []CategoryScore {
	type acc struct {
		typ copsoq.DimensionType
		sum float64
		n   int
	}

	order := []string{}
	byName := map[string]*acc{}
	for _, s := range scores {
		name := s.Category
		if name == "" {
			name = uncategorised
		}
		a, ok := byName[name]
		if !ok {
			a = &acc{typ: copsoq.TypeResource}
			byName[name] = a
			order = append(order, name)
		}
		if s.Type != "" {
			a.typ = s.Type
		}
		a.sum += s.Score
		a.n++
	}

	out := make([]CategoryScore, 0, len(order))
	for _, name := range order {
		a := byName[name]
		avg := a.sum / float64(a.n)
		out = append(out, CategoryScore{
			Category: name,
			Average:  avg,
			Type:     a.typ,
			Status:   DimensionBands(a.typ).Classify(avg),
		})
	}
	return out
}
