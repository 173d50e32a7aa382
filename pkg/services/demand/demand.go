package demand

// MonthlySales maps a sales rank to an estimated unit count per month using
// crude, order-of-magnitude tiers. Lower rank means higher demand, so the
// mapping is monotonically non-increasing in rank. An absent or non-positive
// rank yields 0.
//
// The category is accepted for forward compatibility with category-specific
// curves and does not affect the result.
func MonthlySales(rank *int, _ *string) int {
	if rank == nil || *rank <= 0 {
		return 0
	}

	switch r := *rank; {
	case r <= 1_000:
		return 1_200
	case r <= 5_000:
		return 600
	case r <= 20_000:
		return 200
	case r <= 100_000:
		return 50
	default:
		return 10
	}
}
