package stats

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPercentile_NearestRank(t *testing.T) {
	t.Parallel()

	values := []int64{100, 200, 300}

	// ceil(50/100 * 3) - 1 = 1
	require.Equal(t, int64(200), Percentile(values, 50))
	// ceil(90/100 * 3) - 1 = 2
	require.Equal(t, int64(300), Percentile(values, 90))
}

func TestPercentile_Bounds(t *testing.T) {
	t.Parallel()

	values := []int64{10, 20, 30, 40, 50}

	require.Equal(t, values[0], Percentile(values, 0), "P0 must be the minimum")
	require.Equal(t, values[len(values)-1], Percentile(values, 100), "P100 must be the maximum")
}

func TestPercentile_Monotonic(t *testing.T) {
	t.Parallel()

	values := []int64{3, 9, 14, 14, 27, 55, 55, 55, 81, 120, 340}

	p50 := Percentile(values, 50)
	p90 := Percentile(values, 90)
	p95 := Percentile(values, 95)
	p99 := Percentile(values, 99)

	require.LessOrEqual(t, values[0], p50)
	require.LessOrEqual(t, p50, p90)
	require.LessOrEqual(t, p90, p95)
	require.LessOrEqual(t, p95, p99)
	require.LessOrEqual(t, p99, values[len(values)-1])
}

func TestPercentile_SingleValue(t *testing.T) {
	t.Parallel()

	values := []int64{42}

	for _, p := range []float64{0, 50, 90, 95, 99, 100} {
		require.Equal(t, int64(42), Percentile(values, p))
	}
}

func TestPercentile_Empty(t *testing.T) {
	t.Parallel()

	require.Equal(t, int64(0), Percentile(nil, 95))
}
