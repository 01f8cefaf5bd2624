package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/perflens/perflens/internal/results"
)

// TotalLabel names the synthetic group covering the full, ungrouped sample
// set. It is always computed and always ordered first.
const TotalLabel = "Total"

// AggregateMetrics is an immutable snapshot of one aggregation scope.
// A scope with zero samples yields the zero value, never an error.
type AggregateMetrics struct {
	TotalCount   int64 `json:"total_count"`
	SuccessCount int64 `json:"success_count"`
	FailureCount int64 `json:"failure_count"`

	AvgMs    float64 `json:"avg_ms"`
	MinMs    int64   `json:"min_ms"`
	MaxMs    int64   `json:"max_ms"`
	MedianMs int64   `json:"median_ms"`
	P90Ms    int64   `json:"p90_ms"`
	P95Ms    int64   `json:"p95_ms"`
	P99Ms    int64   `json:"p99_ms"`

	AvgLatencyMs float64 `json:"avg_latency_ms"`
	P95LatencyMs int64   `json:"p95_latency_ms"`

	ErrorRatePercent float64 `json:"error_rate_percent"`
	Throughput       float64 `json:"throughput"`
	DurationSeconds  float64 `json:"duration_seconds"`

	TotalBytesSent     int64 `json:"total_bytes_sent"`
	TotalBytesReceived int64 `json:"total_bytes_received"`
}

// LabelMetrics scopes AggregateMetrics to one transaction label.
type LabelMetrics struct {
	Label string `json:"label"`
	AggregateMetrics
}

// Aggregate computes metrics over the full sample set in a single pass.
// The duration and latency buffers are local to this call and become
// unreachable once it returns; nothing here retains the samples.
func Aggregate(samples []results.Sample) AggregateMetrics {
	var (
		m         AggregateMetrics
		durations = make([]int64, 0, len(samples))
		latencies = make([]int64, 0, len(samples))

		durationSum int64
		latencySum  int64
		minTS       time.Time
		maxTS       time.Time
	)

	for i := range samples {
		s := &samples[i]

		m.TotalCount++
		if s.Success {
			m.SuccessCount++
		} else {
			m.FailureCount++
		}

		m.TotalBytesSent += s.BytesSent
		m.TotalBytesReceived += s.BytesReceived

		durations = append(durations, s.DurationMs)
		durationSum += s.DurationMs

		if s.LatencyMs != nil {
			latencies = append(latencies, *s.LatencyMs)
			latencySum += *s.LatencyMs
		}

		if minTS.IsZero() || s.Timestamp.Before(minTS) {
			minTS = s.Timestamp
		}
		if maxTS.IsZero() || s.Timestamp.After(maxTS) {
			maxTS = s.Timestamp
		}
	}

	if m.TotalCount == 0 {
		return m
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	m.AvgMs = float64(durationSum) / float64(m.TotalCount)
	m.MinMs = durations[0]
	m.MaxMs = durations[len(durations)-1]
	m.MedianMs = Percentile(durations, 50)
	m.P90Ms = Percentile(durations, 90)
	m.P95Ms = Percentile(durations, 95)
	m.P99Ms = Percentile(durations, 99)

	if len(latencies) > 0 {
		sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
		m.AvgLatencyMs = float64(latencySum) / float64(len(latencies))
		m.P95LatencyMs = Percentile(latencies, 95)
	}

	m.ErrorRatePercent = float64(m.FailureCount) * 100 / float64(m.TotalCount)

	m.DurationSeconds = maxTS.Sub(minTS).Seconds()
	if m.DurationSeconds > 0 {
		m.Throughput = float64(m.TotalCount) / m.DurationSeconds
	}

	return m
}

// AggregateByLabel groups samples by exact trimmed label and computes metrics
// per group, plus the synthetic Total group over the ungrouped set. The Total
// entry is first; the remaining labels follow in lexical order so repeated
// runs over identical input produce identical output.
func AggregateByLabel(samples []results.Sample) []LabelMetrics {
	groups := make(map[string][]results.Sample)
	for i := range samples {
		label := strings.TrimSpace(samples[i].Label)
		groups[label] = append(groups[label], samples[i])
	}

	labels := make([]string, 0, len(groups))
	for label := range groups {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	out := make([]LabelMetrics, 0, len(groups)+1)
	out = append(out, LabelMetrics{
		Label:            TotalLabel,
		AggregateMetrics: Aggregate(samples),
	})

	for _, label := range labels {
		out = append(out, LabelMetrics{
			Label:            label,
			AggregateMetrics: Aggregate(groups[label]),
		})
	}

	return out
}
