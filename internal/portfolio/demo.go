package portfolio

// Demo returns the reference portfolio used when no other data source is
// configured.
func Demo() Portfolio {
	return Portfolio{
		Target:   60.0,
		Coverage: Coverage{Cost: 72, Usage: 41, Dependency: 58},
		Items: []Item{
			{
				ID:         "A-101",
				Name:       "Global SAP ERP",
				Segment:    "Finance & GBS",
				Gross:      18.5,
				Confidence: 85,
				Readiness:  ReadinessReady,
				Strategy:   "Modernize",
				Rationale: Rationale{
					Driver:       "Operational Efficiency",
					Logic:        "Migrate to S/4HANA Cloud to reduce legacy technical debt.",
					Alternatives: []string{"Status Quo", "Retire"},
					TimeQuadrant: "Invest",
				},
				Stakeholder: Stakeholder{Owner: "Hans M.", Group: "ERP COE", Influence: "High", Resistance: "Low"},
			},
			{
				ID:         "A-202",
				Name:       "Regional CRM v2",
				Segment:    "Sales & Marketing",
				Gross:      14.2,
				Confidence: 70,
				Readiness:  ReadinessConditional,
				Strategy:   "Migration",
				Rationale: Rationale{
					Driver:       "Sales Agility",
					Logic:        "Consolidate regional instances into global Salesforce tenant.",
					Alternatives: []string{"Upgrade Local", "Ignore"},
					TimeQuadrant: "Migrate",
				},
				UpliftActions: []UpliftAction{{Task: "Confirm user counts via IAM logs", Impact: 5, Owner: "IAM Team"}},
				Imperfections: []string{"Inferred user count"},
				Stakeholder:   Stakeholder{Owner: "Sarah J.", Group: "Sales Ops", Influence: "High", Resistance: "Medium"},
			},
			{
				ID:         "A-303",
				Name:       "Legacy HR Portal",
				Segment:    "HR",
				Gross:      12.8,
				Confidence: 95,
				Readiness:  ReadinessReady,
				Strategy:   "Elimination",
				Rationale: Rationale{
					Driver:       "Redundancy",
					Logic:        "Functionality fully covered by Workday. Clear retirement path.",
					Alternatives: []string{"Keep as Archive"},
					TimeQuadrant: "Eliminate",
				},
				Stakeholder: Stakeholder{Owner: "Klaus R.", Group: "GBS HR", Influence: "Medium", Resistance: "Low"},
			},
			{
				ID:         "A-404",
				Name:       "Supply Chain Tracker",
				Segment:    "Operations",
				Gross:      22.2,
				Confidence: 45,
				Readiness:  ReadinessBlocked,
				Strategy:   "Re-platform",
				Rationale: Rationale{
					Driver:       "Infrastructure Risk",
					Logic:        "Custom monolith on EOL hardware requires containerization.",
					Alternatives: []string{"Replace", "Retire"},
					TimeQuadrant: "Migrate",
				},
				UpliftActions: []UpliftAction{
					{Task: "Validate infra cost allocation", Impact: 10, Owner: "Cloud Ops"},
					{Task: "Dependency workshop", Impact: 5, Owner: "ERP COE"},
				},
				Imperfections: []string{"Manual cost tracking"},
				Stakeholder:   Stakeholder{Owner: "Elena V.", Group: "Logistics IT", Influence: "High", Resistance: "High"},
			},
			{
				ID:         "A-505",
				Name:       "Plant Maint. App",
				Segment:    "Operations",
				Gross:      12.1,
				Confidence: 55,
				Readiness:  ReadinessBlocked,
				Strategy:   "Re-platform",
				Rationale: Rationale{
					Driver:       "Infrastructure Risk",
					Logic:        "Security hole due to OS. Host needs upgrade.",
					Alternatives: []string{"Refactor", "Eliminate"},
					TimeQuadrant: "Migrate",
				},
				UpliftActions: []UpliftAction{{Task: "Technical workshop", Impact: 8, Owner: "Security"}},
				Imperfections: []string{"Legacy OS (Win7)"},
				Stakeholder:   Stakeholder{Owner: "Markus L.", Group: "Plant Ops", Influence: "High", Resistance: "High"},
			},
		},
		StakeholderMatrix: []StakeholderGroup{
			{Group: "OD Owners", Influence: "High", Resistance: "High"},
			{Group: "GD Heads", Influence: "High", Resistance: "Low"},
			{Group: "App Owners", Influence: "Low", Resistance: "High"},
			{Group: "IT Ops", Influence: "Low", Resistance: "Low"},
		},
	}
}
