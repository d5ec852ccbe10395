package portfolio

import (
	"github.com/iwvelando/portfolio-forecast/pkg/constants"
	"github.com/iwvelando/portfolio-forecast/pkg/mathutil"
)

// AdjustConfidence shifts a base confidence by a sensitivity offset in
// percentage points and clamps the result to [0, 100]. Any input is accepted.
func AdjustConfidence(base, sensitivity float64) float64 {
	return mathutil.ClampConfidence(base + sensitivity)
}

// WeightedValue scales a gross value by an adjusted confidence and a scenario
// multiplier. The result is not rounded.
func WeightedValue(gross, adjustedConfidence, multiplier float64) float64 {
	return mathutil.ApplyPercentage(gross, adjustedConfidence) * multiplier
}

// Band classifies a confidence into a commitment band.
func Band(confidence float64) string {
	switch {
	case confidence >= constants.HighBandThreshold:
		return constants.BandHigh
	case confidence >= constants.MediumBandThreshold:
		return constants.BandMedium
	default:
		return constants.BandLow
	}
}

// ConfidenceFromScores converts the five 1-5 dimension scores into a
// confidence percentage, rounded to one decimal.
func ConfidenceFromScores(s Scores) float64 {
	sum := s.DataConfidence + s.TechnicalFeasibility + s.DependencyReadiness +
		s.DecisionReadiness + s.ExecutionReadiness
	pct := sum / float64(constants.DimensionScoreMax*constants.DimensionCount) * constants.PercentageMultiplier
	return mathutil.RoundProbability(pct)
}
