package simulation

import (
	"context"

	"github.com/iwvelando/portfolio-forecast/internal/portfolio"
	"github.com/iwvelando/portfolio-forecast/pkg/constants"
)

// SweepPoint is the outcome at one sensitivity offset.
type SweepPoint struct {
	Sensitivity   float64 `json:"sensitivity"`
	TotalWeighted float64 `json:"totalWeighted"`
	Probability   float64 `json:"probability"`
}

// Sweep evaluates every whole sensitivity offset across the slider range,
// from -10 to +10 inclusive. The input's own sensitivity is ignored.
func (s *Simulator) Sweep(ctx context.Context, in Input) ([]SweepPoint, error) {
	points := make([]SweepPoint, 0, constants.MaxSensitivity-constants.MinSensitivity+1)
	for sens := constants.MinSensitivity; sens <= constants.MaxSensitivity; sens++ {
		step := in
		step.Sensitivity = float64(sens)

		result, err := s.Run(ctx, step)
		if err != nil {
			return nil, err
		}
		points = append(points, SweepPoint{
			Sensitivity:   step.Sensitivity,
			TotalWeighted: weightedTotal(step),
			Probability:   result.Probability,
		})
	}
	return points, nil
}

func weightedTotal(in Input) float64 {
	return portfolio.TotalWeighted(portfolio.Portfolio{Items: in.Items}, in.Multiplier, in.Sensitivity)
}
