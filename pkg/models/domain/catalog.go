package domain

// CatalogSignal is one identifier's slice of enrichment data from the
// external catalog. Pointer fields distinguish "unknown" from a real zero.
type CatalogSignal struct {
	Identifier string
	Title      *string
	Category   *string
	Rank       *int
	HasBuyBox  bool
	Price      float64 // major currency units, already converted from cents
}
