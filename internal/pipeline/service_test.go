package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/perflens/perflens/internal/baseline"
	"github.com/perflens/perflens/internal/results"
	"github.com/perflens/perflens/internal/stats"
)

const testCSV = `timeStamp,elapsed,label,success,Latency,bytes,sentBytes
1622000000000,100,Login,true,90,1000,100
1622000001000,200,Login,true,180,1000,100
1622000002000,300,Checkout,false,280,1000,100
`

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestAnalyze_EndToEnd(t *testing.T) {
	t.Parallel()

	svc := NewService(quietLogger(), Config{
		Baseline: &baseline.Config{
			TestCases:  []string{"Login"},
			Thresholds: baseline.Thresholds{P95MaxMs: 250},
		},
	})

	run, err := svc.Analyze(context.Background(), "run.jtl", []byte(testCSV))
	require.NoError(t, err)

	require.Equal(t, results.FormatCSV, run.Format)
	require.Equal(t, int64(3), run.Aggregate.TotalCount)
	require.Equal(t, int64(2), run.Aggregate.SuccessCount)
	require.Equal(t, int64(1), run.Aggregate.FailureCount)
	require.InDelta(t, 1.5, run.Aggregate.Throughput, 1e-9)

	require.Equal(t, stats.TotalLabel, run.Labels[0].Label)
	require.Len(t, run.Labels, 3)

	// Only Login is on the allow-list; its p95 (200) is within bounds.
	require.Len(t, run.Evaluation.Results, 1)
	require.True(t, run.Evaluation.Results["Login"].Passed)
	require.True(t, run.Evaluation.Passed())
}

func TestAnalyze_NoBaselineYieldsEmptyEvaluation(t *testing.T) {
	t.Parallel()

	svc := NewService(quietLogger(), Config{})

	run, err := svc.Analyze(context.Background(), "run.jtl", []byte(testCSV))
	require.NoError(t, err)
	require.Empty(t, run.Evaluation.Results)
	require.True(t, run.Evaluation.Passed())
}

func TestAnalyze_FatalInputPropagates(t *testing.T) {
	t.Parallel()

	svc := NewService(quietLogger(), Config{})

	_, err := svc.Analyze(context.Background(), "run.jtl", nil)
	require.ErrorIs(t, err, results.ErrEmptyInput)
}

func TestAnalyzeFiles_OrderPreserved(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := make([]string, 0, 3)
	for _, name := range []string{"a.jtl", "b.jtl", "c.jtl"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o600))
		paths = append(paths, path)
	}

	svc := NewService(quietLogger(), Config{Workers: 2})

	runs, err := svc.AnalyzeFiles(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	for i, run := range runs {
		require.Equal(t, paths[i], run.Source)
	}
}

func TestAnalyzeFiles_NoInput(t *testing.T) {
	t.Parallel()

	svc := NewService(quietLogger(), Config{})

	_, err := svc.AnalyzeFiles(context.Background(), nil)
	require.ErrorIs(t, err, ErrNoInput)
}

func TestAnalyzeFiles_MissingFileFails(t *testing.T) {
	t.Parallel()

	svc := NewService(quietLogger(), Config{})

	_, err := svc.AnalyzeFiles(context.Background(), []string{filepath.Join(t.TempDir(), "nope.jtl")})
	require.Error(t, err)
}
