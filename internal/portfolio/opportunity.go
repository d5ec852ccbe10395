package portfolio

import (
	"strings"

	"github.com/iwvelando/portfolio-forecast/pkg/mathutil"
)

// Opportunity map quadrants.
const (
	QuadrantStrategicBet = "Strategic Bet"
	QuadrantQuickWin     = "Quick Win"
	QuadrantHighRisk     = "High Risk"
)

const (
	opportunityConfidenceFloor   = 2.0
	opportunityConfidenceCeiling = 98.0
	opportunityReadyConfidence   = 70.0
	opportunityLargeShare        = 0.6
)

// ClassifyOpportunity places an item on the value/readiness map. maxGross is
// the largest gross value in the portfolio (at least 1).
func ClassifyOpportunity(adjustedConfidence, gross, maxGross float64) string {
	conf := mathutil.Clamp(adjustedConfidence, opportunityConfidenceFloor, opportunityConfidenceCeiling)
	if conf >= opportunityReadyConfidence {
		if gross >= maxGross*opportunityLargeShare {
			return QuadrantStrategicBet
		}
		return QuadrantQuickWin
	}
	return QuadrantHighRisk
}

// Stakeholder engagement strategies.
const (
	StrategyManageClosely = "Manage Closely"
	StrategyPartner       = "Partner/Promote"
	StrategyKeepInformed  = "Keep Informed"
	StrategyMonitor       = "Monitor"
)

// EngagementStrategy maps a stakeholder's influence and resistance onto the
// engagement grid. Anything other than "high" counts as low.
func EngagementStrategy(influence, resistance string) string {
	highInfluence := strings.EqualFold(strings.TrimSpace(influence), "high")
	highResistance := strings.EqualFold(strings.TrimSpace(resistance), "high")

	switch {
	case highInfluence && highResistance:
		return StrategyManageClosely
	case highInfluence:
		return StrategyPartner
	case highResistance:
		return StrategyKeepInformed
	default:
		return StrategyMonitor
	}
}

// StakeholderView is a stakeholder group with its derived strategy.
type StakeholderView struct {
	StakeholderGroup
	Strategy string `json:"strategy"`
}

// StakeholderStrategies derives the engagement strategy for every group in the
// matrix.
func (p Portfolio) StakeholderStrategies() []StakeholderView {
	views := make([]StakeholderView, 0, len(p.StakeholderMatrix))
	for _, g := range p.StakeholderMatrix {
		views = append(views, StakeholderView{
			StakeholderGroup: g,
			Strategy:         EngagementStrategy(g.Influence, g.Resistance),
		})
	}
	return views
}
