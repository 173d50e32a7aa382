package domain

// RiskBand is a coarse profitability classification derived from ROI.
type RiskBand string

const (
	RiskLow     RiskBand = "LOW"
	RiskMedium  RiskBand = "MEDIUM"
	RiskHigh    RiskBand = "HIGH"
	RiskUnknown RiskBand = "unknown"
)
