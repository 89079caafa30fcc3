package recommendations

// Recommendation is one deterministic, rule-derived suggestion attached to an
// analysis result.
type Recommendation struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Why      string `json:"why"`
	Action   string `json:"action"`
	Impact   string `json:"impact"`
	Order    int    `json:"order"`
}

// ChangeSummary is the minimal view of a ledger change the recommendation
// engine needs.
type ChangeSummary struct {
	ID          string
	Label       string
	Detector    string
	Impact      string
	Criticality int
	RedFlags    []string
}

// Input is the aggregate ledger statistics recommendations derive from.
type Input struct {
	Domain          string
	Changes         []ChangeSummary
	Coverage        *float64
	RegionCount     int
	ComparisonCount int
	DegradedFields  int
}
