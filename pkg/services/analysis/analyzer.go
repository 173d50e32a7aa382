package analysis

import (
	"context"
	"errors"
	"math"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/raman-shres/fba-dashboard/pkg/models/api"
	"github.com/raman-shres/fba-dashboard/pkg/models/domain"
	"github.com/raman-shres/fba-dashboard/pkg/services/demand"
	"github.com/raman-shres/fba-dashboard/pkg/services/pricing"
	"github.com/raman-shres/fba-dashboard/pkg/services/simulation"
	"github.com/raman-shres/fba-dashboard/pkg/store/catalog"
	"github.com/raman-shres/fba-dashboard/pkg/store/rediscache"
)

// CatalogSource resolves identifiers into catalog signals.
type CatalogSource interface {
	Fetch(ctx context.Context, identifiers []string) (map[string]domain.CatalogSignal, error)
}

// ResultCache stores previously computed result batches.
type ResultCache interface {
	Get(ctx context.Context, key string, dst any) (found bool, raw string, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Config tunes the orchestrator. Zero values fall back to the defaults the
// API documents (300s TTL, 10k simulation runs, 40 bins).
type Config struct {
	CacheTTL       time.Duration
	SimulationRuns int
	SimulationBins int
	// Seed pins every item's simulation for reproducible output; nil keeps
	// runs randomized.
	Seed *uint64
	// Parallelism bounds concurrent per-item simulations; defaults to the
	// number of CPUs.
	Parallelism int
}

// Analyzer composes the analysis pipeline: cache key, cache lookup, catalog
// fetch, per-item analytics, cache write.
type Analyzer struct {
	catalog CatalogSource
	cache   ResultCache
	fees    pricing.FeeModel
	cfg     Config
}

func NewAnalyzer(catalogSrc CatalogSource, cache ResultCache, fees pricing.FeeModel, cfg Config) *Analyzer {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 300 * time.Second
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = runtime.NumCPU()
	}
	return &Analyzer{catalog: catalogSrc, cache: cache, fees: fees, cfg: cfg}
}

// Analyze runs the full pipeline for a batch of items. The response data is
// ordered like the request. Missing enrichment data (catalog down, no
// credential, cache outage) degrades to override-only computation; only
// invalid input or cancellation fails the request.
func (a *Analyzer) Analyze(ctx context.Context, items []api.AnalyzeItem) (*api.AnalyzeResponse, error) {
	logger := zerolog.Ctx(ctx)

	if err := validateItems(items); err != nil {
		return nil, err
	}

	key := CacheKey(items)

	var cachedBatch []api.AnalysisResult
	found, raw, err := a.cache.Get(ctx, key, &cachedBatch)
	switch {
	case err != nil:
		// Fail open: a broken cache must never abort the request.
		logger.Warn().Err(err).Msg("cache lookup failed, computing fresh")
	case found && raw != "":
		logger.Warn().Str("key", key).Msg("cache entry not decodable, computing fresh")
	case found:
		return &api.AnalyzeResponse{Cached: true, Data: cachedBatch}, nil
	}

	signals := a.fetchSignals(ctx, items)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]api.AnalysisResult, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Parallelism)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			res, err := a.analyzeItem(gctx, item, signals[item.ASIN])
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Cancellation: skip the cache write, a partial batch must not land.
		return nil, err
	}

	if err := a.cache.Set(ctx, key, results, a.cfg.CacheTTL); err != nil {
		logger.Warn().Err(err).Msg("cache write failed, serving uncached")
	}

	return &api.AnalyzeResponse{Cached: false, Data: results}, nil
}

// fetchSignals resolves catalog data for the batch, degrading to an empty
// mapping on any catalog failure.
func (a *Analyzer) fetchSignals(ctx context.Context, items []api.AnalyzeItem) map[string]domain.CatalogSignal {
	logger := zerolog.Ctx(ctx)

	identifiers := make([]string, len(items))
	for i, item := range items {
		identifiers[i] = item.ASIN
	}

	signals, err := a.catalog.Fetch(ctx, identifiers)
	if err == nil {
		return signals
	}

	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		// Surfaced by the caller via ctx.Err.
	case errors.Is(err, catalog.ErrNoCredential):
		logger.Warn().Msg("catalog credential missing, continuing without catalog data")
	case errors.Is(err, catalog.ErrTransient):
		logger.Warn().Err(err).Msg("catalog unreachable, continuing without catalog data")
	default:
		logger.Warn().Err(err).Msg("catalog fetch failed, continuing without catalog data")
	}
	return map[string]domain.CatalogSignal{}
}

// analyzeItem computes one AnalysisResult from the request row and its
// (possibly zero) catalog signal.
func (a *Analyzer) analyzeItem(ctx context.Context, item api.AnalyzeItem, signal domain.CatalogSignal) (api.AnalysisResult, error) {
	category := item.Category
	if category == nil || *category == "" {
		category = signal.Category
	}

	price := signal.Price
	if item.PriceOverride != nil {
		price = *item.PriceOverride
	}

	rank := item.BSR
	if rank == nil {
		rank = signal.Rank
	}

	referralPct := a.fees.ReferralFeePct(category)
	fulfillmentFee := a.fees.FulfillmentFee(nil, nil)

	roi := pricing.ROI(price, item.Cost, referralPct, fulfillmentFee)
	profit := pricing.ProfitPerUnit(price, item.Cost, referralPct, fulfillmentFee)
	monthlySales := demand.MonthlySales(rank, category)

	sim, err := simulation.Run(ctx, simulation.Params{
		PriceMean:      price,
		PriceStd:       math.Max(price*0.05, 0.1),
		SalesMean:      float64(monthlySales),
		SalesStd:       math.Max(float64(monthlySales)*0.2, 1.0),
		Cost:           item.Cost,
		ReferralFeePct: referralPct,
		FulfillmentFee: fulfillmentFee,
		Runs:           a.cfg.SimulationRuns,
		Bins:           a.cfg.SimulationBins,
		Seed:           a.cfg.Seed,
	})
	if err != nil {
		return api.AnalysisResult{}, err
	}

	return api.AnalysisResult{
		ASIN:            item.ASIN,
		Title:           signal.Title,
		Category:        category,
		Price:           math.Round(price*100) / 100,
		Cost:            item.Cost,
		ROI:             roi,
		ProfitPerUnit:   profit,
		RiskBand:        string(pricing.RiskFromROI(roi)),
		BSR:             rank,
		EstMonthlySales: monthlySales,
		Sim:             sim,
	}, nil
}

// NopCache is a ResultCache that never hits; used where no store is wired,
// e.g. offline CLI runs.
type NopCache struct{}

func (NopCache) Get(context.Context, string, any) (bool, string, error) { return false, "", nil }
func (NopCache) Set(context.Context, string, any, time.Duration) error  { return nil }

var _ ResultCache = (*rediscache.Cache)(nil)
