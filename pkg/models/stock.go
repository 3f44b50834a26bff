package models

import "time"

// Bar is a single price observation at the requested interval.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// DividendEvent is a single cash dividend payment.
type DividendEvent struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// History bundles the price bars and dividend events returned by a single
// chart request.
type History struct {
	Ticker    string          `json:"ticker"`
	Interval  string          `json:"interval"` // "1d" or "1mo"
	Bars      []Bar           `json:"bars"`
	Dividends []DividendEvent `json:"dividends"`
}

// Profile is the flat key-value company profile. Numeric fields are pointers
// because the provider omits anything it does not know; nil means absent,
// never zero.
type Profile struct {
	Ticker   string `json:"ticker"`
	LongName string `json:"long_name"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
	Website  string `json:"website"`
	LogoURL  string `json:"logo_url"`
	Summary  string `json:"summary"`
	Currency string `json:"currency"`

	CurrentPrice      *float64 `json:"current_price"`
	DividendRate      *float64 `json:"dividend_rate"`
	PayoutRatio       *float64 `json:"payout_ratio"` // fraction, e.g. 0.55
	TrailingPE        *float64 `json:"trailing_pe"`
	ReturnOnEquity    *float64 `json:"return_on_equity"` // fraction
	TrailingEPS       *float64 `json:"trailing_eps"`
	PriceToBook       *float64 `json:"price_to_book"`
	SharesOutstanding *float64 `json:"shares_outstanding"`
	MarketCap         *float64 `json:"market_cap"`
}

// NewsItem is a single company headline.
type NewsItem struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Source    string    `json:"source"`
	Published time.Time `json:"published"`
}
