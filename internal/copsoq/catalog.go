// Package copsoq holds the immutable COPSOQ II reference data: the 41
// questionnaire items, the 26 dimensions they feed, the 8 questionnaire pages
// and the Likert scale labels. The data lives in catalog.yaml and is parsed
// and validated once per process.
package copsoq

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// ─── TYPES ────────────────────────────────────────────────────────────────────

// DimensionType says which direction of a dimension is healthy.
type DimensionType string

const (
	TypeRisk     DimensionType = "risk"     // higher score is worse
	TypeResource DimensionType = "resource" // higher score is better
)

// Scale names the Likert label set a question is answered with.
type Scale string

const (
	ScaleFrequency Scale = "frequency"
	ScaleIntensity Scale = "intensity"
)

// Question is one questionnaire item. Answers are integers in [1, 5].
type Question struct {
	ID        int    `yaml:"id"`
	Text      string `yaml:"text"`
	Scale     Scale  `yaml:"scale"`
	Dimension string `yaml:"dimension"`
}

// Dimension is a psychosocial construct scored from one or more questions.
type Dimension struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Type        DimensionType `yaml:"type"`
	Questions   []int         `yaml:"questions"`
	Category    string        `yaml:"category"`
	Description string        `yaml:"description"`
}

// Category is a questionnaire page. Its question list is a layout concern and
// does not have to match the categories of the dimensions those questions feed.
type Category struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Color       string `yaml:"color"`
	Questions   []int  `yaml:"questions"`
}

// Catalog is the complete reference data set. Treat it as read-only.
type Catalog struct {
	Scales     map[Scale]map[int]string `yaml:"scales"`
	Categories []Category               `yaml:"categories"`
	Questions  []Question               `yaml:"questions"`
	Dimensions []Dimension              `yaml:"dimensions"`

	questionByID  map[int]Question
	dimensionByID map[string]Dimension
}

// ─── LOADING ──────────────────────────────────────────────────────────────────

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := Load(catalogYAML)
	if err != nil {
		panic(fmt.Sprintf("copsoq: embedded catalog is invalid: %v", err))
	}
	return c
})

// Default returns the embedded COPSOQ II catalog. The first call parses it;
// an invalid embedded document panics.
func Default() *Catalog { return defaultCatalog() }

// Load parses and validates a catalog document.
func Load(doc []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(doc, &c); err != nil {
		return nil, fmt.Errorf("copsoq: parse catalog: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

// index builds the lookup maps and checks every structural rule the scoring
// code relies on. All problems are reported together.
func (c *Catalog) index() error {
	var errs []error

	for _, s := range []Scale{ScaleFrequency, ScaleIntensity} {
		labels := c.Scales[s]
		for v := 1; v <= 5; v++ {
			if labels[v] == "" {
				errs = append(errs, fmt.Errorf("scale %q: missing label for %d", s, v))
			}
		}
	}

	c.questionByID = make(map[int]Question, len(c.Questions))
	for _, q := range c.Questions {
		if _, dup := c.questionByID[q.ID]; dup {
			errs = append(errs, fmt.Errorf("question %d: duplicate id", q.ID))
			continue
		}
		if _, ok := c.Scales[q.Scale]; !ok {
			errs = append(errs, fmt.Errorf("question %d: unknown scale %q", q.ID, q.Scale))
		}
		c.questionByID[q.ID] = q
	}

	categoryNames := make(map[string]struct{}, len(c.Categories))
	for _, cat := range c.Categories {
		categoryNames[cat.Name] = struct{}{}
		for _, qid := range cat.Questions {
			if _, ok := c.questionByID[qid]; !ok {
				errs = append(errs, fmt.Errorf("category %q: unknown question %d", cat.ID, qid))
			}
		}
	}

	owner := make(map[int]string, len(c.Questions))
	c.dimensionByID = make(map[string]Dimension, len(c.Dimensions))
	for _, d := range c.Dimensions {
		if _, dup := c.dimensionByID[d.ID]; dup {
			errs = append(errs, fmt.Errorf("dimension %q: duplicate id", d.ID))
			continue
		}
		c.dimensionByID[d.ID] = d

		if d.Type != TypeRisk && d.Type != TypeResource {
			errs = append(errs, fmt.Errorf("dimension %q: unknown type %q", d.ID, d.Type))
		}
		if len(d.Questions) == 0 {
			errs = append(errs, fmt.Errorf("dimension %q: has no questions", d.ID))
		}
		if _, ok := categoryNames[d.Category]; !ok {
			errs = append(errs, fmt.Errorf("dimension %q: unknown category %q", d.ID, d.Category))
		}
		for _, qid := range d.Questions {
			q, ok := c.questionByID[qid]
			if !ok {
				errs = append(errs, fmt.Errorf("dimension %q: unknown question %d", d.ID, qid))
				continue
			}
			if prev, taken := owner[qid]; taken {
				errs = append(errs, fmt.Errorf("question %d: claimed by %q and %q", qid, prev, d.ID))
				continue
			}
			owner[qid] = d.ID
			if q.Dimension != d.ID {
				errs = append(errs, fmt.Errorf("question %d: declares dimension %q but is listed under %q", qid, q.Dimension, d.ID))
			}
		}
	}

	for _, q := range c.Questions {
		if _, ok := owner[q.ID]; !ok {
			errs = append(errs, fmt.Errorf("question %d: not assigned to any dimension", q.ID))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("copsoq: invalid catalog: %w", errors.Join(errs...))
	}
	return nil
}

// ─── LOOKUPS ──────────────────────────────────────────────────────────────────

// Question returns the question with the given id.
func (c *Catalog) Question(id int) (Question, bool) {
	q, ok := c.questionByID[id]
	return q, ok
}

// Dimension returns the dimension with the given id.
func (c *Catalog) Dimension(id string) (Dimension, bool) {
	d, ok := c.dimensionByID[id]
	return d, ok
}

// QuestionCount is the number of items a complete submission answers.
func (c *Catalog) QuestionCount() int { return len(c.Questions) }

// Labels returns the 1..5 labels for a scale.
func (c *Catalog) Labels(s Scale) map[int]string { return c.Scales[s] }
