package portfolio

import (
	"github.com/iwvelando/portfolio-forecast/internal/scenario"
	"github.com/iwvelando/portfolio-forecast/pkg/mathutil"
)

// ItemResult is the scenario view of one item.
type ItemResult struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Segment            string  `json:"segment"`
	Readiness          string  `json:"readiness,omitempty"`
	Gross              float64 `json:"gross"`
	BaseConfidence     float64 `json:"baseConfidence"`
	AdjustedConfidence float64 `json:"adjustedConfidence"`
	RealizedValue      float64 `json:"realizedValue"`
	Band               string  `json:"band"`
	Quadrant           string  `json:"quadrant"`
	UpliftConfidence   float64 `json:"upliftConfidence"`
	UpliftValue        float64 `json:"upliftValue"`
}

// SegmentTotal rolls up items sharing a segment.
type SegmentTotal struct {
	Segment  string  `json:"segment"`
	Items    int     `json:"items"`
	Gross    float64 `json:"gross"`
	Weighted float64 `json:"weighted"`
}

// Evaluation is the deterministic result of applying a scenario and
// sensitivity to a portfolio.
type Evaluation struct {
	Scenario      scenario.Definition `json:"scenario"`
	Sensitivity   float64             `json:"sensitivity"`
	Target        float64             `json:"target"`
	Items         []ItemResult        `json:"items"`
	Segments      []SegmentTotal      `json:"segments"`
	TotalGross    float64             `json:"totalGross"`
	TotalWeighted float64             `json:"totalWeighted"`
	Gap           float64             `json:"gap"`
	Realization   float64             `json:"realization"`
}

// Surplus reports how far the weighted total exceeds the target, or zero.
func (e Evaluation) Surplus() float64 {
	if e.Gap < 0 {
		return -e.Gap
	}
	return 0
}

// TargetMet reports whether the weighted total meets the target.
func (e Evaluation) TargetMet() bool {
	return e.TotalWeighted >= e.Target
}

// Evaluate applies a scenario and sensitivity to every item and aggregates the
// weighted values. The portfolio is not modified.
func Evaluate(p Portfolio, def scenario.Definition, sensitivity float64) Evaluation {
	eval := Evaluation{
		Scenario:    def,
		Sensitivity: sensitivity,
		Target:      p.Target,
		Items:       make([]ItemResult, 0, len(p.Items)),
	}

	maxGross := p.MaxGross()
	segmentIndex := make(map[string]int)

	for _, item := range p.Items {
		adjusted := AdjustConfidence(item.Confidence, sensitivity)
		realized := WeightedValue(item.Gross, adjusted, def.Multiplier)
		uplift := mathutil.ClampConfidence(adjusted + item.UpliftImpact())

		eval.Items = append(eval.Items, ItemResult{
			ID:                 item.ID,
			Name:               item.Name,
			Segment:            item.Segment,
			Readiness:          item.Readiness,
			Gross:              item.Gross,
			BaseConfidence:     item.Confidence,
			AdjustedConfidence: adjusted,
			RealizedValue:      realized,
			Band:               Band(adjusted),
			Quadrant:           ClassifyOpportunity(adjusted, item.Gross, maxGross),
			UpliftConfidence:   uplift,
			UpliftValue:        WeightedValue(item.Gross, uplift, def.Multiplier),
		})

		eval.TotalGross += item.Gross
		eval.TotalWeighted += realized

		idx, ok := segmentIndex[item.Segment]
		if !ok {
			idx = len(eval.Segments)
			segmentIndex[item.Segment] = idx
			eval.Segments = append(eval.Segments, SegmentTotal{Segment: item.Segment})
		}
		eval.Segments[idx].Items++
		eval.Segments[idx].Gross += item.Gross
		eval.Segments[idx].Weighted += realized
	}

	eval.Gap = p.Target - eval.TotalWeighted
	eval.Realization = mathutil.CalculatePercentage(eval.TotalWeighted, p.Target)
	return eval
}

// TotalWeighted returns only the deterministic weighted total.
func TotalWeighted(p Portfolio, multiplier, sensitivity float64) float64 {
	var total float64
	for _, item := range p.Items {
		total += WeightedValue(item.Gross, AdjustConfidence(item.Confidence, sensitivity), multiplier)
	}
	return total
}
