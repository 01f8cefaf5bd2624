package summary

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/perflens/perflens/internal/baseline"
	"github.com/perflens/perflens/internal/results"
	"github.com/perflens/perflens/internal/stats"
)

func testParseResult() *results.ParseResult {
	return &results.ParseResult{
		Format: results.FormatCSV,
		Stats:  results.ParseStats{TotalRecords: 3, SkippedRecords: 1},
	}
}

func testLabels() []stats.LabelMetrics {
	return []stats.LabelMetrics{
		{Label: stats.TotalLabel, AggregateMetrics: stats.AggregateMetrics{TotalCount: 2, SuccessCount: 2}},
		{Label: "Login", AggregateMetrics: stats.AggregateMetrics{TotalCount: 2, SuccessCount: 2}},
	}
}

func TestAssemble(t *testing.T) {
	t.Parallel()

	report := baseline.EvaluationReport{
		Thresholds: baseline.Thresholds{P95MaxMs: 250},
		Results: map[string]baseline.CriterionResult{
			"Login": {Label: "Login", Passed: true},
		},
	}

	run := Assemble("results.jtl", testParseResult(), testLabels(), report)

	require.NotEmpty(t, run.ID)
	require.Equal(t, "results.jtl", run.Source)
	require.False(t, run.GeneratedAt.IsZero())
	require.Equal(t, results.FormatCSV, run.Format)
	require.Equal(t, 1, run.Parse.SkippedRecords)

	// The global aggregate is the Total group; nothing is re-derived.
	require.Equal(t, run.Labels[0].AggregateMetrics, run.Aggregate)
	require.Equal(t, int64(2), run.Aggregate.TotalCount)
	require.True(t, run.Evaluation.Passed())
}

func TestAssemble_UniqueIDs(t *testing.T) {
	t.Parallel()

	a := Assemble("a.jtl", testParseResult(), testLabels(), baseline.EvaluationReport{})
	b := Assemble("b.jtl", testParseResult(), testLabels(), baseline.EvaluationReport{})

	require.NotEqual(t, a.ID, b.ID)
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	run := Assemble("results.jtl", testParseResult(), testLabels(), baseline.EvaluationReport{})

	var buf bytes.Buffer
	require.NoError(t, run.WriteJSON(&buf))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	require.Equal(t, run.ID, decoded["id"])
	require.Equal(t, "results.jtl", decoded["source"])
	require.Contains(t, decoded, "aggregate")
	require.Contains(t, decoded, "labels")
	require.Contains(t, decoded, "evaluation")
}
