package analysis

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/raman-shres/fba-dashboard/pkg/models/api"
)

// ReadItemsCSV parses rows with headers asin,cost,price_override into request
// items; price_override is optional and a zero or empty value means "no
// override". Unknown columns are ignored. The parsed rows are handed to the
// pipeline as-is; validation happens there.
func ReadItemsCSV(r io.Reader) ([]api.AnalyzeItem, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["asin"]; !ok {
		return nil, fmt.Errorf("csv is missing an 'asin' column")
	}

	var items []api.AnalyzeItem
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row: %w", err)
		}

		item := api.AnalyzeItem{
			ASIN: strings.TrimSpace(field(record, cols, "asin")),
			Cost: parseAmount(field(record, cols, "cost")),
		}
		if v := parseAmount(field(record, cols, "price_override")); v > 0 {
			item.PriceOverride = &v
		}
		items = append(items, item)
	}
	return items, nil
}

func field(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
