package model

// FilterSpec holds the selection sets for the hierarchy cascade plus the
// state (region) filter. An empty set at a level means no restriction there;
// the Unassigned sentinel is an ordinary selectable value.
type FilterSpec struct {
	Managers    []string `json:"managers"`
	Supervisors []string `json:"supervisors"`
	Salespeople []string `json:"salespeople"`
	States      []string `json:"states"`
}

// Empty reports whether no level has a selection.
func (f FilterSpec) Empty() bool {
	return len(f.Managers) == 0 && len(f.Supervisors) == 0 &&
		len(f.Salespeople) == 0 && len(f.States) == 0
}

// FilterOptions lists, per level, the values selectable given the levels
// above it. Each list is distinct values of the already-filtered pool,
// sorted ascending.
type FilterOptions struct {
	Managers    []string `json:"managers"`
	Supervisors []string `json:"supervisors"`
	Salespeople []string `json:"salespeople"`
	States      []string `json:"states"`
}

// Summary is the metric block shown at the top of the dashboard.
type Summary struct {
	Total            int    `json:"total"`
	Active           int    `json:"active"`
	Inactive         int    `json:"inactive"`
	RecentPurchasers int    `json:"recentPurchasers"`
	AtRisk           int    `json:"atRisk"`
	ActiveDelta      string `json:"activeDelta"`
	InactiveDelta    string `json:"inactiveDelta"`
	RecentDelta      string `json:"recentDelta"`
	AtRiskDelta      string `json:"atRiskDelta"`
}

// RiskRow is one at-risk customer projected to the display column set.
type RiskRow struct {
	Customer    string  `json:"cliente"`
	LegalName   string  `json:"razaoSocial"`
	Phone       string  `json:"telefone"`
	TaxID       string  `json:"cpfCnpj"`
	Weeks       int     `json:"semanas"`
	ActiveFlag  string  `json:"ativo"`
	TotalBilled float64 `json:"total"`
	Segment     string  `json:"seguimento"`
}

// Availability flags which metric groups the loaded columns support.
// Unsupported metrics are zero and must be rendered as unavailable, not as
// a true zero.
type Availability struct {
	Activity bool `json:"activity"`
	Recency  bool `json:"recency"`
}

// InsightResult is the full structured answer handed to the presentation
// layer: metrics, the at-risk table and any load warnings.
type InsightResult struct {
	Summary      Summary      `json:"summary"`
	AtRisk       []RiskRow    `json:"atRisk"`
	RiskColumns  []string     `json:"riskColumns"`
	Availability Availability `json:"availability"`
	Warnings     []string     `json:"warnings"`
}
