// Package baseline evaluates aggregated label metrics against configured
// service-level thresholds, filtered to an allow-list of expected labels.
package baseline

// Thresholds holds the configured baseline bounds. Each bound is
// independently optional: a value <= 0 disables its check.
type Thresholds struct {
	P95MaxMs      float64 `yaml:"p95_max_ms" json:"p95_max_ms"`
	AvgMaxMs      float64 `yaml:"avg_max_ms" json:"avg_max_ms"`
	P90MaxMs      float64 `yaml:"p90_max_ms" json:"p90_max_ms"`
	ThroughputMin float64 `yaml:"throughput_min" json:"throughput_min"`
}

// Enabled reports whether at least one threshold is configured.
func (t Thresholds) Enabled() bool {
	return t.P95MaxMs > 0 || t.AvgMaxMs > 0 || t.P90MaxMs > 0 || t.ThroughputMin > 0
}

// CriterionResult holds the four independent checks for one label, the
// underlying metric values, and the aggregate pass (AND of all checks).
type CriterionResult struct {
	Label string `json:"label"`

	P95Pass        bool `json:"p95_pass"`
	AvgPass        bool `json:"avg_pass"`
	P90Pass        bool `json:"p90_pass"`
	ThroughputPass bool `json:"throughput_pass"`
	Passed         bool `json:"passed"`

	P95Ms      int64   `json:"p95_ms"`
	AvgMs      float64 `json:"avg_ms"`
	P90Ms      int64   `json:"p90_ms"`
	Throughput float64 `json:"throughput"`
}

// EvaluationReport maps evaluated labels to their criterion results, together
// with the thresholds that produced them. Labels outside the allow-list never
// appear in Results.
type EvaluationReport struct {
	Thresholds Thresholds                 `json:"thresholds"`
	Results    map[string]CriterionResult `json:"results"`
}

// Passed reports whether every evaluated label met all enabled thresholds.
// An empty report passes.
func (r EvaluationReport) Passed() bool {
	for _, result := range r.Results {
		if !result.Passed {
			return false
		}
	}

	return true
}
