package api

// AnalyzeItem is one row of an analysis request. Pointer fields are optional
// overrides; absent means "use catalog data".
type AnalyzeItem struct {
	ASIN          string   `json:"asin"`
	Cost          float64  `json:"cost"`
	PriceOverride *float64 `json:"price_override,omitempty"`
	Category      *string  `json:"category,omitempty"`
	BSR           *int     `json:"bsr,omitempty"`
}

type AnalyzeRequest struct {
	Items []AnalyzeItem `json:"items"`
}

// Histogram holds bin counts plus len(counts)+1 bin edges.
type Histogram struct {
	Counts []int     `json:"counts"`
	Edges  []float64 `json:"edges"`
}

// SimulationSummary is the Monte Carlo monthly-profit distribution:
// 5th/50th/95th percentiles and a fixed-bin histogram.
type SimulationSummary struct {
	P5   float64   `json:"p5"`
	P50  float64   `json:"p50"`
	P95  float64   `json:"p95"`
	Hist Histogram `json:"hist"`
}

// AnalysisResult is the fee-adjusted profitability estimate for one item.
type AnalysisResult struct {
	ASIN            string            `json:"asin"`
	Title           *string           `json:"title"`
	Category        *string           `json:"category"`
	Price           float64           `json:"price"`
	Cost            float64           `json:"cost"`
	ROI             float64           `json:"roi"`
	ProfitPerUnit   float64           `json:"profit_per_unit"`
	RiskBand        string            `json:"risk_band"`
	BSR             *int              `json:"bsr"`
	EstMonthlySales int               `json:"est_monthly_sales"`
	Sim             SimulationSummary `json:"sim"`
}

type AnalyzeResponse struct {
	Cached bool             `json:"cached"`
	Data   []AnalysisResult `json:"data"`
}

// UploadResponse is the CSV batch preview: parsed row count and up to the
// first ten rows.
type UploadResponse struct {
	OK      bool          `json:"ok"`
	Count   int           `json:"count"`
	Preview []AnalyzeItem `json:"preview"`
}

type HealthResponse struct {
	OK bool `json:"ok"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
