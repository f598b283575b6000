package copsoq_test

import (
	"strings"
	"testing"

	"github.com/nyashahama/fluir-backend/internal/copsoq"
)

func TestDefault_Shape(t *testing.T) {
	c := copsoq.Default()

	if got := c.QuestionCount(); got != 41 {
		t.Errorf("questions: got %d, want 41", got)
	}
	if got := len(c.Dimensions); got != 26 {
		t.Errorf("dimensions: got %d, want 26", got)
	}
	if got := len(c.Categories); got != 8 {
		t.Errorf("categories: got %d, want 8", got)
	}
	if c.Dimensions[0].ID != "exigencias_quantitativas" {
		t.Errorf("first dimension: got %q", c.Dimensions[0].ID)
	}
	if c.Dimensions[len(c.Dimensions)-1].ID != "comportamentos_ofensivos" {
		t.Errorf("last dimension: got %q", c.Dimensions[len(c.Dimensions)-1].ID)
	}
}

func TestDefault_EveryQuestionInExactlyOneDimension(t *testing.T) {
	c := copsoq.Default()
	seen := map[int]int{}
	for _, d := range c.Dimensions {
		if len(d.Questions) == 0 {
			t.Errorf("dimension %q has no questions", d.ID)
		}
		for _, q := range d.Questions {
			seen[q]++
		}
	}
	for id := 1; id <= 41; id++ {
		if seen[id] != 1 {
			t.Errorf("question %d appears in %d dimensions", id, seen[id])
		}
	}
}

func TestDefault_PagesCoverAllQuestions(t *testing.T) {
	c := copsoq.Default()
	seen := map[int]bool{}
	for _, cat := range c.Categories {
		for _, q := range cat.Questions {
			seen[q] = true
		}
	}
	if len(seen) != 41 {
		t.Errorf("pages cover %d questions, want 41", len(seen))
	}
}

func TestDefault_Lookups(t *testing.T) {
	c := copsoq.Default()

	q, ok := c.Question(33)
	if !ok || q.Dimension != "burnout" || q.Scale != copsoq.ScaleFrequency {
		t.Errorf("question 33: got %+v ok=%v", q, ok)
	}
	d, ok := c.Dimension("saude_geral")
	if !ok || d.Type != copsoq.TypeResource || d.Category != "Saude e Bem-Estar" {
		t.Errorf("saude_geral: got %+v ok=%v", d, ok)
	}
	if _, ok := c.Dimension("nope"); ok {
		t.Error("unknown dimension should not be found")
	}
	if got := c.Labels(copsoq.ScaleIntensity)[5]; got != "Extremamente" {
		t.Errorf("intensity 5: got %q", got)
	}
}

func TestLoad_RejectsBrokenCatalogs(t *testing.T) {
	const scales = `
scales:
  frequency: {1: a, 2: b, 3: c, 4: d, 5: e}
  intensity: {1: a, 2: b, 3: c, 4: d, 5: e}
categories:
  - {id: p, name: Page, questions: [1, 2]}
`
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "orphan question",
			doc: scales + `
questions:
  - {id: 1, scale: frequency, dimension: a}
  - {id: 2, scale: frequency, dimension: a}
dimensions:
  - {id: a, type: risk, questions: [1], category: Page}
`,
			wantErr: "question 2: not assigned",
		},
		{
			name: "question in two dimensions",
			doc: scales + `
questions:
  - {id: 1, scale: frequency, dimension: a}
  - {id: 2, scale: frequency, dimension: a}
dimensions:
  - {id: a, type: risk, questions: [1, 2], category: Page}
  - {id: b, type: risk, questions: [2], category: Page}
`,
			wantErr: "claimed by",
		},
		{
			name: "empty dimension",
			doc: scales + `
questions:
  - {id: 1, scale: frequency, dimension: a}
  - {id: 2, scale: frequency, dimension: a}
dimensions:
  - {id: a, type: risk, questions: [1, 2], category: Page}
  - {id: b, type: resource, questions: [], category: Page}
`,
			wantErr: `dimension "b": has no questions`,
		},
		{
			name: "unknown type",
			doc: scales + `
questions:
  - {id: 1, scale: frequency, dimension: a}
  - {id: 2, scale: frequency, dimension: a}
dimensions:
  - {id: a, type: neutral, questions: [1, 2], category: Page}
`,
			wantErr: "unknown type",
		},
		{
			name: "unknown category",
			doc: scales + `
questions:
  - {id: 1, scale: frequency, dimension: a}
  - {id: 2, scale: frequency, dimension: a}
dimensions:
  - {id: a, type: risk, questions: [1, 2], category: Elsewhere}
`,
			wantErr: "unknown category",
		},
		{
			name:    "malformed yaml",
			doc:     "questions: [",
			wantErr: "parse catalog",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := copsoq.Load([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
