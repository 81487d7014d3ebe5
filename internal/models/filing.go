package models

// Filing represents one taxpayer's declared figures for a tax period.
// It is an input to the analysis pipeline and is never mutated after scoring.
type Filing struct {
	FilingID       string  `json:"filing_id"`
	TaxpayerID     string  `json:"taxpayer_id"`
	Income         float64 `json:"income"`
	Deductions     float64 `json:"deductions"`
	BusinessSector string  `json:"business_sector"`
	TaxPeriod      string  `json:"tax_period"` // e.g. "2024-Q1" or "2024"
}

// TaxpayerHistory is the taxpayer's prior filings ordered by tax period ascending.
type TaxpayerHistory []Filing
