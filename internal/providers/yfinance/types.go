package yfinance

import (
	"bytes"
	"encoding/json"
)

// --- Yahoo Finance API response types ---

// yfVal is a Yahoo numeric field. The API serves either {"raw": n, "fmt": s},
// a bare number, an empty object, or null depending on endpoint and field, so
// it carries its own unmarshaller. Non-numeric payloads leave the value
// unset rather than failing the whole document.
type yfVal struct {
	Raw   float64
	Fmt   string
	Valid bool
}

func (v *yfVal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '{' {
		var obj struct {
			Raw *float64 `json:"raw"`
			Fmt string   `json:"fmt"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		if obj.Raw != nil {
			v.Raw = *obj.Raw
			v.Valid = true
		}
		v.Fmt = obj.Fmt
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		// Strings and other shapes are not numbers; leave unset.
		return nil
	}
	v.Raw = f
	v.Valid = true
	return nil
}

// Ptr returns the value as an optional pointer, nil when unset.
func (v yfVal) Ptr() *float64 {
	if !v.Valid {
		return nil
	}
	raw := v.Raw
	return &raw
}

// yfChartResponse wraps the v8 chart API response.
type yfChartResponse struct {
	Chart struct {
		Result []yfChartResult `json:"result"`
		Error  *yfError        `json:"error"`
	} `json:"chart"`
}

type yfChartResult struct {
	Meta       yfChartMeta  `json:"meta"`
	Timestamp  []int64      `json:"timestamp"`
	Events     yfEvents     `json:"events"`
	Indicators yfIndicators `json:"indicators"`
}

type yfChartMeta struct {
	Symbol             string  `json:"symbol"`
	Currency           string  `json:"currency"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	InstrumentType     string  `json:"instrumentType"`
	ExchangeName       string  `json:"exchangeName"`
}

// yfEvents holds corporate actions keyed by event timestamp.
type yfEvents struct {
	Dividends map[string]yfDividend `json:"dividends"`
}

type yfDividend struct {
	Amount float64 `json:"amount"`
	Date   int64   `json:"date"`
}

type yfIndicators struct {
	Quote    []yfOHLCV    `json:"quote"`
	AdjClose []yfAdjClose `json:"adjclose"`
}

type yfOHLCV struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

type yfAdjClose struct {
	AdjClose []*float64 `json:"adjclose"`
}

// yfQuoteSummaryResponse wraps the v10 quoteSummary API response.
type yfQuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []yfQuoteSummaryResult `json:"result"`
		Error  *yfError               `json:"error"`
	} `json:"quoteSummary"`
}

type yfQuoteSummaryResult struct {
	// Statement history modules. Each container nests its statement list
	// under a key matching the module name.
	BalanceSheetHistory      *yfBalanceSheetContainer `json:"balanceSheetHistory"`
	IncomeStatementHistory   *yfIncomeContainer       `json:"incomeStatementHistory"`
	CashflowStatementHistory *yfCashflowContainer     `json:"cashflowStatementHistory"`

	// Profile modules.
	AssetProfile         *yfAssetProfile         `json:"assetProfile"`
	SummaryDetail        *yfSummaryDetail        `json:"summaryDetail"`
	DefaultKeyStatistics *yfDefaultKeyStatistics `json:"defaultKeyStatistics"`
	FinancialData        *yfFinancialData        `json:"financialData"`
	Price                *yfPrice                `json:"price"`
}

// yfStatement is one reported period: endDate plus the line items, all as
// Yahoo numeric fields. Line items are open-ended, which is exactly why the
// normalizer resolves them through alias lists.
type yfStatement map[string]yfVal

type yfBalanceSheetContainer struct {
	Statements []yfStatement `json:"balanceSheetStatements"`
}

type yfIncomeContainer struct {
	Statements []yfStatement `json:"incomeStatementHistory"`
}

type yfCashflowContainer struct {
	Statements []yfStatement `json:"cashflowStatements"`
}

type yfAssetProfile struct {
	Industry            string `json:"industry"`
	Sector              string `json:"sector"`
	LongBusinessSummary string `json:"longBusinessSummary"`
	Country             string `json:"country"`
	Website             string `json:"website"`
}

type yfSummaryDetail struct {
	MarketCap     yfVal  `json:"marketCap"`
	DividendRate  yfVal  `json:"dividendRate"`
	DividendYield yfVal  `json:"dividendYield"`
	PayoutRatio   yfVal  `json:"payoutRatio"`
	TrailingPE    yfVal  `json:"trailingPE"`
	Currency      string `json:"currency"`
}

type yfDefaultKeyStatistics struct {
	SharesOutstanding yfVal `json:"sharesOutstanding"`
	BookValue         yfVal `json:"bookValue"`
	PriceToBook       yfVal `json:"priceToBook"`
	TrailingEps       yfVal `json:"trailingEps"`
}

type yfFinancialData struct {
	CurrentPrice   yfVal `json:"currentPrice"`
	ReturnOnEquity yfVal `json:"returnOnEquity"`
	TotalCash      yfVal `json:"totalCash"`
	TotalDebt      yfVal `json:"totalDebt"`
}

type yfPrice struct {
	LongName           string `json:"longName"`
	ShortName          string `json:"shortName"`
	Currency           string `json:"currency"`
	RegularMarketPrice yfVal  `json:"regularMarketPrice"`
	MarketCap          yfVal  `json:"marketCap"`
}

type yfError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
