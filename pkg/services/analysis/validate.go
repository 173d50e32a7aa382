package analysis

import (
	"fmt"
	"strings"

	"github.com/raman-shres/fba-dashboard/pkg/models/api"
)

// ValidationError describes a malformed request item. Unlike enrichment
// failures it is surfaced to the caller instead of being degraded around.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("item %d: %s %s", e.Index, e.Field, e.Reason)
}

func validateItems(items []api.AnalyzeItem) error {
	if len(items) == 0 {
		return &ValidationError{Index: 0, Field: "items", Reason: "must not be empty"}
	}
	for i, item := range items {
		if strings.TrimSpace(item.ASIN) == "" {
			return &ValidationError{Index: i, Field: "asin", Reason: "must not be empty"}
		}
		if item.Cost < 0 {
			return &ValidationError{Index: i, Field: "cost", Reason: "must not be negative"}
		}
		if item.PriceOverride != nil && *item.PriceOverride <= 0 {
			return &ValidationError{Index: i, Field: "price_override", Reason: "must be positive"}
		}
		if item.BSR != nil && *item.BSR <= 0 {
			return &ValidationError{Index: i, Field: "bsr", Reason: "must be positive"}
		}
	}
	return nil
}
