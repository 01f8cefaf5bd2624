package baseline

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/perflens/perflens/internal/stats"
)

// Evaluator compares per-label metrics against baseline thresholds.
type Evaluator interface {
	Evaluate(labels []stats.LabelMetrics, allowList []string, thresholds Thresholds) EvaluationReport
}

type evaluator struct {
	log logrus.FieldLogger
}

// NewEvaluator creates a new baseline evaluator.
func NewEvaluator(log logrus.FieldLogger) Evaluator {
	return &evaluator{
		log: log.WithField("component", "baseline_evaluator"),
	}
}

// Evaluate produces one CriterionResult per label that appears in both the
// metric set and the allow-list. Matching is exact on the trimmed,
// case-folded label. An empty allow-list yields an empty report; that is a
// configuration gap, not a failure.
func (e *evaluator) Evaluate(labels []stats.LabelMetrics, allowList []string, thresholds Thresholds) EvaluationReport {
	report := EvaluationReport{
		Thresholds: thresholds,
		Results:    make(map[string]CriterionResult),
	}

	allowed := normalizeAllowList(allowList)
	if len(allowed) == 0 {
		e.log.Debug("no expected labels configured, skipping evaluation")

		return report
	}

	for _, lm := range labels {
		key := strings.ToLower(strings.TrimSpace(lm.Label))
		if _, ok := allowed[key]; !ok {
			continue
		}

		result := CriterionResult{
			Label:      lm.Label,
			P95Ms:      lm.P95Ms,
			AvgMs:      lm.AvgMs,
			P90Ms:      lm.P90Ms,
			Throughput: lm.Throughput,

			P95Pass:        thresholds.P95MaxMs <= 0 || float64(lm.P95Ms) <= thresholds.P95MaxMs,
			AvgPass:        thresholds.AvgMaxMs <= 0 || lm.AvgMs <= thresholds.AvgMaxMs,
			P90Pass:        thresholds.P90MaxMs <= 0 || float64(lm.P90Ms) <= thresholds.P90MaxMs,
			ThroughputPass: thresholds.ThroughputMin <= 0 || lm.Throughput >= thresholds.ThroughputMin,
		}
		result.Passed = result.P95Pass && result.AvgPass && result.P90Pass && result.ThroughputPass

		report.Results[lm.Label] = result

		if !result.Passed {
			e.log.WithFields(logrus.Fields{
				"label":      lm.Label,
				"p95_ms":     lm.P95Ms,
				"avg_ms":     lm.AvgMs,
				"p90_ms":     lm.P90Ms,
				"throughput": lm.Throughput,
			}).Warn("label failed baseline evaluation")
		}
	}

	return report
}

func normalizeAllowList(allowList []string) map[string]struct{} {
	allowed := make(map[string]struct{}, len(allowList))
	for _, name := range allowList {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		allowed[name] = struct{}{}
	}

	return allowed
}

// Merge combines a prior evaluation's results with a re-evaluation's results
// as a right-biased union: a label present in both takes the new result,
// labels only in the prior set keep their stored result. Neither input map is
// mutated. Callers re-evaluating the same run must serialize their updates.
func Merge(prev, next map[string]CriterionResult) map[string]CriterionResult {
	merged := make(map[string]CriterionResult, len(prev)+len(next))
	for label, result := range prev {
		merged[label] = result
	}
	for label, result := range next {
		merged[label] = result
	}

	return merged
}

var _ Evaluator = (*evaluator)(nil)
