package models

// FinancialBucket is one month of the dashboard time series. Buckets are
// derived on every query and never persisted.
type FinancialBucket struct {
	Month       string  `json:"month"` // JAN..DEC
	Collections float64 `json:"collections"`
	Expenses    float64 `json:"expenses"`
}

// YearSummary aggregates one calendar year of ledger activity.
type YearSummary struct {
	Year             int     `json:"year"`
	TotalCollections float64 `json:"total_collections"`
	TotalExpenses    float64 `json:"total_expenses"`
	NetBalance       float64 `json:"net_balance"`
	PaidMembers      int     `json:"paid_members"`
	UnpaidMembers    int     `json:"unpaid_members"`
}
