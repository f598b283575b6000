package scoring

// ─── KPI DEFINITIONS ──────────────────────────────────────────────────────────

// KPI status labels shown on the dashboard.
const (
	KPIExcellent = "Excelente"
	KPIAdequate  = "Adequado"
	KPICritical  = "Crítico"
)

// neutralKPI is used when none of a KPI's dimensions were scored.
const neutralKPI = 3.0

var (
	safetyDims      = []string{"burnout", "stress", "conflito_trabalho_familia", "inseguranca_laboral"}
	wellbeingDims   = []string{"saude_geral", "satisfacao_laboral"}
	supportDims     = []string{"qualidade_lideranca", "apoio_superiores", "comunidade_social", "confianca_vertical"}
	developmentDims = []string{"influencia_trabalho", "possibilidades_desenvolvimento", "significado_trabalho"}
)

// kpiBands differs from the dimension bands only in that a value exactly on
// Upper is already green.
var kpiBands = Bands{Lower: Lower, Upper: Upper, HigherIsBetter: true, UpperInclusive: true}

// ─── TYPES ────────────────────────────────────────────────────────────────────

// KPI is one headline indicator on a 0–5 scale where higher is better.
type KPI struct {
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Status     string  `json:"status"`
	Color      Status  `json:"color"`
	Percentage float64 `json:"percentage"`
}

// KPIs is the fixed set of four dashboard indicators.
type KPIs struct {
	Safety      KPI `json:"safety_index"`
	Wellbeing   KPI `json:"wellbeing_index"`
	Support     KPI `json:"support_index"`
	Development KPI `json:"development_index"`
}

// ─── CORE FUNCTIONS ───────────────────────────────────────────────────────────

// ComputeKPIs derives the four indicators from dimension scores. Each averages
// whichever of its dimensions are present; an indicator with none present
// sits at the neutral 3.0.
//
// The safety index inverts the risk average (5 − avg) so that every KPI reads
// higher-is-better. It is not clamped.
func ComputeKPIs(scores []DimensionScore) KPIs {
	byID := make(map[string]float64, len(scores))
	for _, s := range scores {
		byID[s.DimensionID] = s.Score
	}

	return KPIs{
		Safety:      newKPI("Segurança Psicossocial", round(5.0-meanOf(byID, safetyDims), 2)),
		Wellbeing:   newKPI("Bem-Estar", meanOf(byID, wellbeingDims)),
		Support:     newKPI("Apoio Organizacional", meanOf(byID, supportDims)),
		Development: newKPI("Desenvolvimento", meanOf(byID, developmentDims)),
	}
}

// meanOf averages the listed ids that are present, rounded to two decimals.
func meanOf(byID map[string]float64, ids []string) float64 {
	sum, n := 0.0, 0
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return neutralKPI
	}
	return round(sum/float64(n), 2)
}

func newKPI(label string, value float64) KPI {
	color := kpiBands.Classify(value)
	status := KPIAdequate
	switch color {
	case StatusGreen:
		status = KPIExcellent
	case StatusRed:
		status = KPICritical
	}
	return KPI{
		Label:      label,
		Value:      value,
		Status:     status,
		Color:      color,
		Percentage: round(value/5*100, 1),
	}
}
