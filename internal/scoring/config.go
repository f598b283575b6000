// Package scoring turns COPSOQ answers into dimension scores, traffic-light
// statuses, KPIs and survey-level aggregates. It holds no state and does no
// I/O: every function is a pure transformation over its inputs and the
// reference catalog.
package scoring

import "math"

// ─── CONSTANTS ────────────────────────────────────────────────────────────────

// Tercile cut points on the 1–5 Likert scale.
const (
	Lower = 2.33
	Upper = 3.66
)

// ─── TYPES ────────────────────────────────────────────────────────────────────

// Status is the traffic-light classification of a score.
type Status string

const (
	StatusGreen  Status = "green"
	StatusYellow Status = "yellow"
	StatusRed    Status = "red"
)

// Bands is the three-way threshold classifier shared by dimensions, KPIs and
// category averages.
//
// With HigherIsBetter, a value above Upper is green and a value below Lower is
// red. Without it the colours swap. Values on a bound are yellow unless
// UpperInclusive is set, in which case Upper itself counts as past the bound.
type Bands struct {
	Lower          float64
	Upper          float64
	HigherIsBetter bool
	UpperInclusive bool
}

// Classify returns the status of v.
func (b Bands) Classify(v float64) Status {
	aboveUpper := v > b.Upper || (b.UpperInclusive && v == b.Upper)
	belowLower := v < b.Lower

	switch {
	case aboveUpper && b.HigherIsBetter:
		return StatusGreen
	case aboveUpper:
		return StatusRed
	case belowLower && b.HigherIsBetter:
		return StatusRed
	case belowLower:
		return StatusGreen
	default:
		return StatusYellow
	}
}

// Classify is the strict-bounds form of Bands.Classify.
func Classify(value, lower, upper float64, higherIsBetter bool) Status {
	return Bands{Lower: lower, Upper: upper, HigherIsBetter: higherIsBetter}.Classify(value)
}

// round rounds half to even to the given number of decimals.
func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.RoundToEven(v*p) / p
}
