package models

import "time"

// StatementPeriod is one reporting period of a financial statement exactly as
// the provider returned it: a flat map of line-item name to value. Line-item
// names vary by issuer and provider version, so nothing here is canonical —
// lookups go through alias resolution downstream. A line item the provider
// did not report is simply missing from the map.
type StatementPeriod struct {
	EndDate time.Time          `json:"end_date"`
	Items   map[string]float64 `json:"items"`
}

// StatementSet holds the three raw annual statements for one ticker.
type StatementSet struct {
	Ticker       string            `json:"ticker"`
	BalanceSheet []StatementPeriod `json:"balance_sheet"`
	Income       []StatementPeriod `json:"income"`
	CashFlow     []StatementPeriod `json:"cash_flow"`
}
