package analysis

import (
	"strconv"
	"strings"

	"github.com/raman-shres/fba-dashboard/pkg/models/api"
)

// CacheKey derives a deterministic key from the ordered request fields that
// affect output: identifier, cost, and price override per item. Identical
// requests map to identical keys; any reorder or numeric change yields a new
// key.
func CacheKey(items []api.AnalyzeItem) string {
	parts := make([]string, len(items))
	for i, item := range items {
		override := "-"
		if item.PriceOverride != nil {
			override = formatAmount(*item.PriceOverride)
		}
		parts[i] = item.ASIN + ":" + formatAmount(item.Cost) + ":" + override
	}
	return "analyze:" + strings.Join(parts, ";")
}

// formatAmount renders a float with the shortest exact decimal form,
// independent of locale and platform.
func formatAmount(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
