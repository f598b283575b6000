package scoring

import (
	"strconv"

	"github.com/nyashahama/fluir-backend/internal/copsoq"
)

// ─── TYPES ────────────────────────────────────────────────────────────────────

// Answers maps question id to a Likert value in [1, 5]. JSON objects with
// numeric string keys ({"1": 3}) decode into it directly.
type Answers map[int]int

// DimensionScore is the computed result for one dimension. It is derived data:
// recompute it from answers rather than storing it.
type DimensionScore struct {
	DimensionID string               `json:"dimension_id"`
	Name        string               `json:"name"`
	Score       float64              `json:"score"`
	Status      Status               `json:"status"`
	Type        copsoq.DimensionType `json:"type"`
	Category    string               `json:"category"`
	Description string               `json:"description"`
}

// Engine scores answers against a catalog.
type Engine struct {
	catalog *copsoq.Catalog
}

// NewEngine returns an Engine bound to c.
func NewEngine(c *copsoq.Catalog) *Engine {
	return &Engine{catalog: c}
}

// ─── CORE FUNCTIONS ───────────────────────────────────────────────────────────

// DimensionBands returns the classifier for a dimension type. Risk dimensions
// are healthy when low, resource dimensions when high.
func DimensionBands(t copsoq.DimensionType) Bands {
	return Bands{Lower: Lower, Upper: Upper, HigherIsBetter: t == copsoq.TypeResource}
}

// ScoreDimensions scores every dimension of the default catalog.
func ScoreDimensions(answers Answers) []DimensionScore {
	return NewEngine(copsoq.Default()).ScoreDimensions(answers)
}

// ScoreDimensions returns one DimensionScore per dimension that has at least
// one answered question, in catalog order.
//
// A dimension's score is the mean of its answered questions rounded to two
// decimals. Unanswered questions are skipped, not treated as zero. Values
// are not range-checked here; that is the submission boundary's job.
func (e *Engine) ScoreDimensions(answers Answers) []DimensionScore {
	out := make([]DimensionScore, 0, len(e.catalog.Dimensions))

	for _, d := range e.catalog.Dimensions {
		sum, n := 0, 0
		for _, qid := range d.Questions {
			if v, ok := answers[qid]; ok {
				sum += v
				n++
			}
		}
		if n == 0 {
			continue
		}

		score := round(float64(sum)/float64(n), 2)
		out = append(out, DimensionScore{
			DimensionID: d.ID,
			Name:        d.Name,
			Score:       score,
			Status:      DimensionBands(d.Type).Classify(score),
			Type:        d.Type,
			Category:    d.Category,
			Description: d.Description,
		})
	}

	return out
}

// AnswersFromStringKeys converts a map keyed by question id strings, as found
// in stored JSON, into Answers. Keys that are not integers are dropped.
func AnswersFromStringKeys(raw map[string]int) Answers {
	out := make(Answers, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		out[id] = v
	}
	return out
}
