package simulation

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/raman-shres/fba-dashboard/pkg/models/api"
)

const (
	DefaultRuns = 10_000
	DefaultBins = 40

	// stdFloor avoids degenerate zero-variance sampling.
	stdFloor = 1e-9
	// minPrice keeps sampled prices positive; free items are not sellable.
	minPrice = 0.01
)

// Params describes one Monte Carlo run of the monthly-profit distribution.
type Params struct {
	PriceMean float64
	PriceStd  float64
	SalesMean float64
	SalesStd  float64

	Cost           float64
	ReferralFeePct float64
	FulfillmentFee float64

	// Runs and Bins fall back to DefaultRuns / DefaultBins when non-positive.
	Runs int
	Bins int

	// Seed makes the full output reproducible. Nil draws a time-based seed.
	Seed *uint64
}

// Run draws price and monthly-sales samples from normal distributions,
// computes per-sample monthly profit with the same fee formula as the
// pricing package (unrounded), and summarizes the distribution.
//
// Pure CPU work; the context is only consulted between phases so a cancelled
// request skips the remaining computation.
func Run(ctx context.Context, p Params) (api.SimulationSummary, error) {
	runs := p.Runs
	if runs <= 0 {
		runs = DefaultRuns
	}
	bins := p.Bins
	if bins <= 0 {
		bins = DefaultBins
	}

	var seed uint64
	if p.Seed != nil {
		seed = *p.Seed
	} else {
		seed = uint64(time.Now().UnixNano())
	}
	src := rand.NewSource(seed)

	priceDist := distuv.Normal{Mu: p.PriceMean, Sigma: math.Max(p.PriceStd, stdFloor), Src: src}
	salesDist := distuv.Normal{Mu: p.SalesMean, Sigma: math.Max(p.SalesStd, stdFloor), Src: src}

	if err := ctx.Err(); err != nil {
		return api.SimulationSummary{}, err
	}

	prices := make([]float64, runs)
	sales := make([]float64, runs)
	for i := 0; i < runs; i++ {
		prices[i] = math.Max(priceDist.Rand(), minPrice)
		sales[i] = math.Max(salesDist.Rand(), 0.0)
	}

	profits := make([]float64, runs)
	for i := 0; i < runs; i++ {
		fees := prices[i]*p.ReferralFeePct + p.FulfillmentFee
		profits[i] = (prices[i] - p.Cost - fees) * sales[i]
	}

	if err := ctx.Err(); err != nil {
		return api.SimulationSummary{}, err
	}

	counts, edges := histogram(profits, bins)

	sorted := make([]float64, runs)
	copy(sorted, profits)
	sort.Float64s(sorted)

	return api.SimulationSummary{
		P5:  round2(percentile(sorted, 5)),
		P50: round2(percentile(sorted, 50)),
		P95: round2(percentile(sorted, 95)),
		Hist: api.Histogram{
			Counts: counts,
			Edges:  edges,
		},
	}, nil
}

// percentile computes the q-th percentile (0..100) of ascending-sorted data
// with linear interpolation between the two nearest order statistics.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	h := q / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

// histogram builds equal-width bins spanning [min, max]. The last bin is
// closed on both sides so every sample lands in exactly one bin.
func histogram(samples []float64, bins int) ([]int, []float64) {
	lo := floats.Min(samples)
	hi := floats.Max(samples)
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	width := (hi - lo) / float64(bins)
	edges := make([]float64, bins+1)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[bins] = hi

	counts := make([]int, bins)
	span := hi - lo
	for _, v := range samples {
		idx := int((v - lo) / span * float64(bins))
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	return counts, edges
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
