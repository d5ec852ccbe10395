// Package portfolio defines savings initiatives and the deterministic
// scenario arithmetic applied to them: confidence adjustment, weighted value
// and portfolio aggregation.
package portfolio

// Readiness levels an item can be in.
const (
	ReadinessReady       = "Ready"
	ReadinessConditional = "Conditional"
	ReadinessBlocked     = "Blocked"
)

// ReadinessInfo describes a readiness level for display.
type ReadinessInfo struct {
	Label   string `json:"label"`
	Message string `json:"message"`
}

var readinessMap = map[string]ReadinessInfo{
	ReadinessReady:       {Label: "Ready", Message: "Can move to WP2"},
	ReadinessConditional: {Label: "Conditional", Message: "Needs data / approvals"},
	ReadinessBlocked:     {Label: "Blocked", Message: "Dependencies / regulation"},
}

// LookupReadiness returns the display info for a readiness level.
func LookupReadiness(level string) (ReadinessInfo, bool) {
	info, ok := readinessMap[level]
	return info, ok
}

// Scores holds the five 1-5 readiness dimension scores of an item.
type Scores struct {
	DataConfidence       float64 `json:"dc" yaml:"dc" mapstructure:"dc"`
	TechnicalFeasibility float64 `json:"tf" yaml:"tf" mapstructure:"tf"`
	DependencyReadiness  float64 `json:"dr" yaml:"dr" mapstructure:"dr"`
	DecisionReadiness    float64 `json:"der" yaml:"der" mapstructure:"der"`
	ExecutionReadiness   float64 `json:"er" yaml:"er" mapstructure:"er"`
}

// UpliftAction is a task that would raise an item's confidence once done.
type UpliftAction struct {
	Task   string  `json:"task" yaml:"task" mapstructure:"task"`
	Impact float64 `json:"impact" yaml:"impact" mapstructure:"impact"`
	Owner  string  `json:"owner" yaml:"owner" mapstructure:"owner"`
}

// Stakeholder identifies who owns an item and how they are positioned.
type Stakeholder struct {
	Owner      string `json:"owner" yaml:"owner" mapstructure:"owner"`
	Group      string `json:"group" yaml:"group" mapstructure:"group"`
	Influence  string `json:"influence" yaml:"influence" mapstructure:"influence"`
	Resistance string `json:"resistance" yaml:"resistance" mapstructure:"resistance"`
}

// Rationale records why a disposition was chosen.
type Rationale struct {
	Driver       string   `json:"driver" yaml:"driver" mapstructure:"driver"`
	Logic        string   `json:"logic" yaml:"logic" mapstructure:"logic"`
	Alternatives []string `json:"alternatives,omitempty" yaml:"alternatives,omitempty" mapstructure:"alternatives"`
	TimeQuadrant string   `json:"timeQuadrant,omitempty" yaml:"timeQuadrant,omitempty" mapstructure:"timeQuadrant"`
}

// Item is a single savings initiative. Only ID, Gross and Confidence take
// part in the scenario arithmetic.
type Item struct {
	ID            string         `json:"id" yaml:"id" mapstructure:"id"`
	Name          string         `json:"name" yaml:"name" mapstructure:"name"`
	Segment       string         `json:"segment" yaml:"segment" mapstructure:"segment"`
	Gross         float64        `json:"gross" yaml:"gross" mapstructure:"gross"`
	Confidence    float64        `json:"confidence" yaml:"confidence" mapstructure:"confidence"`
	Readiness     string         `json:"readiness,omitempty" yaml:"readiness,omitempty" mapstructure:"readiness"`
	Strategy      string         `json:"strategy,omitempty" yaml:"strategy,omitempty" mapstructure:"strategy"`
	Scores        Scores         `json:"scores" yaml:"scores" mapstructure:"scores"`
	Rationale     Rationale      `json:"rationale" yaml:"rationale" mapstructure:"rationale"`
	UpliftActions []UpliftAction `json:"upliftActions,omitempty" yaml:"upliftActions,omitempty" mapstructure:"upliftActions"`
	Imperfections []string       `json:"imperfections,omitempty" yaml:"imperfections,omitempty" mapstructure:"imperfections"`
	Stakeholder   Stakeholder    `json:"stakeholder" yaml:"stakeholder" mapstructure:"stakeholder"`
}

// UpliftImpact returns the total confidence points the item's uplift actions
// would add.
func (i Item) UpliftImpact() float64 {
	var total float64
	for _, action := range i.UpliftActions {
		total += action.Impact
	}
	return total
}

// Coverage reports how much of the estate the data covers, in percent.
type Coverage struct {
	Cost       float64 `json:"cost" yaml:"cost" mapstructure:"cost"`
	Usage      float64 `json:"usage" yaml:"usage" mapstructure:"usage"`
	Dependency float64 `json:"dependency" yaml:"dependency" mapstructure:"dependency"`
}

// StakeholderGroup is one entry of the influence/resistance matrix.
type StakeholderGroup struct {
	Group      string `json:"group" yaml:"group" mapstructure:"group"`
	Influence  string `json:"influence" yaml:"influence" mapstructure:"influence"`
	Resistance string `json:"resistance" yaml:"resistance" mapstructure:"resistance"`
}

// Portfolio is a set of items measured against an aggregate savings target.
type Portfolio struct {
	Target            float64            `json:"target" yaml:"target" mapstructure:"target"`
	Coverage          Coverage           `json:"coverage" yaml:"coverage" mapstructure:"coverage"`
	Items             []Item             `json:"items" yaml:"items" mapstructure:"items"`
	StakeholderMatrix []StakeholderGroup `json:"stakeholderMatrix,omitempty" yaml:"stakeholderMatrix,omitempty" mapstructure:"stakeholderMatrix"`
}

// WithItem returns a copy of the portfolio with item appended. The receiver's
// item slice is left untouched.
func (p Portfolio) WithItem(item Item) Portfolio {
	items := make([]Item, 0, len(p.Items)+1)
	items = append(items, p.Items...)
	items = append(items, item)
	p.Items = items
	return p
}

// TotalGross sums the unweighted value of every item.
func (p Portfolio) TotalGross() float64 {
	var total float64
	for _, item := range p.Items {
		total += item.Gross
	}
	return total
}

// MaxGross returns the largest item gross value, never less than 1.
func (p Portfolio) MaxGross() float64 {
	maxGross := 1.0
	for _, item := range p.Items {
		if item.Gross > maxGross {
			maxGross = item.Gross
		}
	}
	return maxGross
}
