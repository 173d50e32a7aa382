package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"github.com/raman-shres/fba-dashboard/pkg/models/domain"
)

var (
	// ErrNoCredential means the catalog API key is not configured. Callers
	// must be able to tell this apart from a transient failure; no network
	// attempt is made.
	ErrNoCredential = errors.New("catalog api key is missing")

	// ErrTransient wraps connection errors and timeouts that exhausted the
	// retry budget.
	ErrTransient = errors.New("transient catalog failure")

	// ErrFetch wraps non-transient upstream failures such as error statuses
	// and malformed payloads.
	ErrFetch = errors.New("catalog fetch failed")
)

const (
	// chunkSize respects the upstream request-size limit.
	chunkSize = 50
	// maxAttempts is the total attempt budget per chunk.
	maxAttempts = 3
	// maxChunkConcurrency bounds parallel chunk requests.
	maxChunkConcurrency = 4
)

// Config holds the catalog client settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// RetryBase is the initial backoff between attempts; it doubles per
	// attempt and is capped at 8x. Defaults to 1s.
	RetryBase time.Duration
}

// Client resolves batches of identifiers into catalog signals from a
// Keepa-style product API.
type Client struct {
	http      *http.Client
	baseURL   string
	apiKey    string
	retryBase time.Duration
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retryBase := cfg.RetryBase
	if retryBase <= 0 {
		retryBase = time.Second
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		retryBase: retryBase,
	}
}

// Fetch resolves the given identifiers into signals, keyed by identifier.
// Identifiers unknown upstream are simply absent from the result.
//
// Large batches are split into chunks of 50 fetched concurrently; each chunk
// is retried up to 3 attempts on connection errors and timeouts only.
// Returns ErrNoCredential without any network attempt when no API key is
// configured.
func (c *Client) Fetch(ctx context.Context, identifiers []string) (map[string]domain.CatalogSignal, error) {
	if len(identifiers) == 0 {
		return map[string]domain.CatalogSignal{}, nil
	}
	if c.apiKey == "" {
		return nil, ErrNoCredential
	}

	signals := make(map[string]domain.CatalogSignal, len(identifiers))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxChunkConcurrency)

	for start := 0; start < len(identifiers); start += chunkSize {
		end := start + chunkSize
		if end > len(identifiers) {
			end = len(identifiers)
		}
		chunk := identifiers[start:end]

		g.Go(func() error {
			products, err := c.fetchChunk(gctx, chunk)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for _, p := range products {
				if p.ASIN == "" {
					continue
				}
				signals[p.ASIN] = p.toSignal()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return signals, nil
}

// fetchChunk performs one upstream request with the per-chunk retry budget.
func (c *Client) fetchChunk(ctx context.Context, chunk []string) ([]product, error) {
	backoff := retry.WithMaxRetries(maxAttempts-1,
		retry.WithCappedDuration(8*c.retryBase, retry.NewExponential(c.retryBase)))

	var products []product
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		products, err = c.doChunkRequest(ctx, chunk)
		return err
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) doChunkRequest(ctx context.Context, chunk []string) ([]product, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("domain", "1") // US marketplace
	params.Set("asin", strings.Join(chunk, ","))
	params.Set("history", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/product?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Connection errors and timeouts are worth another attempt.
		zerolog.Ctx(ctx).Warn().Err(err).Int("chunk_size", len(chunk)).
			Msg("catalog request failed, retrying")
		return nil, retry.RetryableError(fmt.Errorf("%w: %v", ErrTransient, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrFetch, resp.StatusCode, string(body))
	}

	var payload struct {
		Products []product `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding payload: %v", ErrFetch, err)
	}
	return payload.Products, nil
}

// product mirrors the upstream wire format.
type product struct {
	ASIN        string          `json:"asin"`
	Title       *string         `json:"title"`
	ProductType json.RawMessage `json:"productType"`
	Stats       struct {
		CurrentSalesRank *int     `json:"currentSalesRank"`
		BuyBoxPrice      *float64 `json:"buyBoxPrice"`
	} `json:"stats"`
	BuyBoxSellerID *string `json:"buyBoxSellerId"`
}

func (p product) toSignal() domain.CatalogSignal {
	price := 0.0
	if p.Stats.BuyBoxPrice != nil {
		// Prices arrive in minor currency units.
		price = *p.Stats.BuyBoxPrice / 100.0
	}
	return domain.CatalogSignal{
		Identifier: p.ASIN,
		Title:      p.Title,
		Category:   categoryFromRaw(p.ProductType),
		Rank:       p.Stats.CurrentSalesRank,
		HasBuyBox:  p.BuyBoxSellerID != nil,
		Price:      price,
	}
}

// categoryFromRaw degrades an absent, null, or oddly typed category field to
// nil instead of failing the whole payload. Numeric category codes are kept
// as their text form.
func categoryFromRaw(raw json.RawMessage) *string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = strings.TrimSpace(string(raw))
	}
	if s == "" {
		return nil
	}
	return &s
}
