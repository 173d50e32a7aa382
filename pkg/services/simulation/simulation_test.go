package simulation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseParams() Params {
	seed := uint64(42)
	return Params{
		PriceMean:      20,
		PriceStd:       1,
		SalesMean:      600,
		SalesStd:       120,
		Cost:           5,
		ReferralFeePct: 0.15,
		FulfillmentFee: 4.00,
		Runs:           5_000,
		Bins:           40,
		Seed:           &seed,
	}
}

func TestRun_SeededReproducibility(t *testing.T) {
	ctx := context.Background()

	first, err := Run(ctx, baseParams())
	require.NoError(t, err)
	second, err := Run(ctx, baseParams())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRun_HistogramInvariants(t *testing.T) {
	p := baseParams()
	summary, err := Run(context.Background(), p)
	require.NoError(t, err)

	assert.Len(t, summary.Hist.Counts, p.Bins)
	assert.Len(t, summary.Hist.Edges, p.Bins+1)

	total := 0
	for _, c := range summary.Hist.Counts {
		total += c
	}
	assert.Equal(t, p.Runs, total)

	for i := 1; i < len(summary.Hist.Edges); i++ {
		assert.Less(t, summary.Hist.Edges[i-1], summary.Hist.Edges[i])
	}
}

func TestRun_PercentilesOrdered(t *testing.T) {
	summary, err := Run(context.Background(), baseParams())
	require.NoError(t, err)

	assert.LessOrEqual(t, summary.P5, summary.P50)
	assert.LessOrEqual(t, summary.P50, summary.P95)
}

func TestRun_ZeroVarianceInputs(t *testing.T) {
	// Zero std devs hit the epsilon floor instead of degenerating.
	p := baseParams()
	p.PriceStd = 0
	p.SalesStd = 0

	summary, err := Run(context.Background(), p)
	require.NoError(t, err)

	// Unit profit 8 at 600 units/month, everywhere.
	assert.InDelta(t, 4800, summary.P50, 1.0)
	assert.InDelta(t, summary.P5, summary.P95, 1.0)
}

func TestRun_DefaultsApplied(t *testing.T) {
	p := baseParams()
	p.Runs = 0
	p.Bins = 0

	summary, err := Run(context.Background(), p)
	require.NoError(t, err)

	assert.Len(t, summary.Hist.Counts, DefaultBins)
	total := 0
	for _, c := range summary.Hist.Counts {
		total += c
	}
	assert.Equal(t, DefaultRuns, total)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, baseParams())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPercentile_LinearInterpolation(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}
	assert.Equal(t, 10.0, percentile(sorted, 0))
	assert.Equal(t, 40.0, percentile(sorted, 100))
	assert.Equal(t, 25.0, percentile(sorted, 50))
	// h = 0.05 * 3 = 0.15 -> 10 + 0.15*10
	assert.InDelta(t, 11.5, percentile(sorted, 5), 1e-12)
}

func TestHistogram_DegenerateSamples(t *testing.T) {
	counts, edges := histogram([]float64{7, 7, 7}, 4)
	assert.Len(t, edges, 5)
	total := 0
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, 3, total)
}
