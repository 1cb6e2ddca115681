package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	t.Run("empty_returns_zero_summary", func(t *testing.T) {
		t.Parallel()

		got := Summarize(nil)
		assert.Zero(t, got.Count)
		assert.InDelta(t, 0.0, got.Mean, 0.0001)
	})

	t.Run("two_samples", func(t *testing.T) {
		t.Parallel()

		got := Summarize([]float64{9, 10})
		assert.Equal(t, 2, got.Count)
		assert.InDelta(t, 9.5, got.Mean, 0.0001)
		assert.InDelta(t, 9.5, got.Median, 0.0001)
		assert.InDelta(t, 9.0, got.Min, 0.0001)
		assert.InDelta(t, 10.0, got.Max, 0.0001)
		assert.InDelta(t, 0.5, got.StdDev, 0.0001)
	})

	t.Run("single_sample", func(t *testing.T) {
		t.Parallel()

		got := Summarize([]float64{7})
		assert.Equal(t, 1, got.Count)
		assert.InDelta(t, 7.0, got.Mean, 0.0001)
		assert.InDelta(t, 0.0, got.StdDev, 0.0001)
	})
}

func TestMean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{name: "empty", values: nil, expected: 0},
		{name: "single", values: []float64{4}, expected: 4},
		{name: "several", values: []float64{1, 2, 3, 4}, expected: 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.InDelta(t, tt.expected, Mean(tt.values), 0.0001)
		})
	}
}

func TestMeanStdDevPopulation(t *testing.T) {
	t.Parallel()

	// Population form: sqrt(sum((x-mean)^2)/n), not /(n-1).
	mean, stddev := MeanStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5.0, mean, 0.0001)
	assert.InDelta(t, 2.0, stddev, 0.0001)
}

func TestPercentile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		values   []float64
		p        float64
		expected float64
	}{
		{name: "empty", values: nil, p: 0.5, expected: 0},
		{name: "median_odd", values: []float64{3, 1, 2}, p: 0.5, expected: 2},
		{name: "median_even_interpolates", values: []float64{1, 2, 3, 4}, p: 0.5, expected: 2.5},
		{name: "p0_is_min", values: []float64{5, 1, 3}, p: 0, expected: 1},
		{name: "p1_is_max", values: []float64{5, 1, 3}, p: 1, expected: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.InDelta(t, tt.expected, Percentile(tt.values, tt.p), 0.0001)
		})
	}
}

func TestPercentileDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	values := []float64{3, 1, 2}
	Percentile(values, 0.5)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestClamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		val, lo, hi float64
		expected    float64
	}{
		{name: "within_range", val: 5.0, lo: 0.0, hi: 10.0, expected: 5.0},
		{name: "below_min", val: -1.0, lo: 0.0, hi: 10.0, expected: 0.0},
		{name: "above_max", val: 15.0, lo: 0.0, hi: 10.0, expected: 10.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.InDelta(t, tt.expected, Clamp(tt.val, tt.lo, tt.hi), 0.0001)
		})
	}
}

func TestMinMaxSum(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, Min([]float64{3, 1, 9}), 0.0001)
	assert.InDelta(t, 9.0, Max([]float64{3, 1, 9}), 0.0001)
	assert.InDelta(t, 13.0, Sum([]float64{3, 1, 9}), 0.0001)

	assert.InDelta(t, 0.0, Min([]float64{}), 0.0001)
	assert.InDelta(t, 0.0, Max([]float64{}), 0.0001)
	assert.Equal(t, 6, Sum([]int{1, 2, 3}))
}
