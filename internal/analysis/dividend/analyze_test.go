package dividend

import (
	"math"
	"testing"
	"time"

	"github.com/dividup/dividup/internal/series"
	"github.com/dividup/dividup/pkg/models"
)

func ptr(v float64) *float64 { return &v }

func statementPeriod(year int, items map[string]float64) models.StatementPeriod {
	return models.StatementPeriod{
		EndDate: date(year, time.December, 31),
		Items:   items,
	}
}

func testDataset(t *testing.T) Dataset {
	t.Helper()

	prices := mustPrices(t, []models.Bar{
		{Date: date(2020, time.January, 31), Close: 80},
		{Date: date(2020, time.December, 31), Close: 90},
		{Date: date(2021, time.June, 30), Close: 95},
		{Date: date(2021, time.December, 31), Close: 100},
		{Date: date(2022, time.June, 30), Close: 110},
	})

	balance := series.NormalizeStatement([]models.StatementPeriod{
		statementPeriod(2021, map[string]float64{
			"Total Assets":                           1000,
			"Total Liabilities Net Minority Interest": 600,
			"Total Equity Gross Minority Interest":    400,
			"Current Assets":                          300,
			"Current Liabilities":                     150,
			"Cash And Cash Equivalents":               100,
			"Net Receivables":                         50,
			"Inventory":                               40,
			"Accounts Payable":                        30,
			"Total Debt":                              200,
			"Ordinary Shares Number":                  100,
		}),
		statementPeriod(2022, map[string]float64{
			"Total Assets":                           1100,
			"Total Liabilities Net Minority Interest": 620,
			"Total Equity Gross Minority Interest":    480,
			"Current Assets":                          320,
			"Current Liabilities":                     160,
			"Cash And Cash Equivalents":               120,
			"Net Receivables":                         55,
			"Inventory":                               45,
			"Accounts Payable":                        32,
			"Total Debt":                              210,
			"Ordinary Shares Number":                  98,
		}),
	})

	income := series.NormalizeStatement([]models.StatementPeriod{
		statementPeriod(2021, map[string]float64{
			"Total Revenue":    500,
			"Cost Of Revenue":  300,
			"Gross Profit":     200,
			"Operating Income": 80,
			"Net Income":       50,
			"EBITDA":           120,
			"Diluted EPS":      0.50,
		}),
		statementPeriod(2022, map[string]float64{
			"Total Revenue":    550,
			"Cost Of Revenue":  320,
			"Gross Profit":     230,
			"Operating Income": 95,
			"Net Income":       60,
			"EBITDA":           140,
			"Diluted EPS":      0.61,
		}),
	})

	cashflow := series.NormalizeStatement([]models.StatementPeriod{
		statementPeriod(2021, map[string]float64{
			"Operating Cash Flow": 90,
			"Capital Expenditure": -30,
			"Cash Dividends Paid": -20,
			"Issuance Of Debt":    15,
			"Repayment Of Debt":   -10,
		}),
		statementPeriod(2022, map[string]float64{
			"Operating Cash Flow": 100,
			"Capital Expenditure": -35,
			"Cash Dividends Paid": -22,
			"Repurchase Of Capital Stock": -5,
		}),
	})

	return Dataset{
		Profile: models.Profile{
			Ticker:            "ACME",
			LongName:          "Acme Corp",
			CurrentPrice:      ptr(110),
			DividendRate:      ptr(2.20),
			PayoutRatio:       ptr(0.5),
			TrailingPE:        ptr(18),
			ReturnOnEquity:    ptr(0.20),
			TrailingEPS:       ptr(6.1),
			PriceToBook:       ptr(2.2),
			SharesOutstanding: ptr(98),
			MarketCap:         ptr(10780),
		},
		Prices:    prices,
		Dividends: annualDividends(map[int]float64{2020: 2.00, 2021: 2.10, 2022: 1.10}),
		Balance:   balance,
		Income:    income,
		CashFlow:  cashflow,
	}
}

func TestAnalyzeFullDataset(t *testing.T) {
	ds := testDataset(t)
	a := Analyze(ds, Params{DesiredYieldPct: 3, Now: date(2022, time.July, 1)})

	if a.Ticker != "ACME" {
		t.Errorf("ticker = %q", a.Ticker)
	}
	if a.Price.Len() != 5 {
		t.Errorf("price series has %d points, want 5", a.Price.Len())
	}

	h := a.Headline
	if h.CurrentPrice == nil || *h.CurrentPrice != 110 {
		t.Errorf("current price = %v", h.CurrentPrice)
	}
	if h.DividendYieldPct == nil || math.Abs(*h.DividendYieldPct-2.0) > 1e-9 {
		t.Errorf("dividend yield = %v, want 2.0", h.DividendYieldPct)
	}
	// G = 0.20 * (1 - 0.5) * 100 = 10, which sits on the inclusive tier
	// boundary and must map to a x10 multiple.
	if h.SustainableGrowthPct == nil || math.Abs(*h.SustainableGrowthPct-10) > 1e-9 {
		t.Errorf("sustainable growth = %v, want 10", h.SustainableGrowthPct)
	}
	if h.GrowthMultiple == nil || *h.GrowthMultiple != 10 {
		t.Errorf("growth multiple = %v, want 10", h.GrowthMultiple)
	}
	// CAGR endpoints: 2.00 (2020) to 2.10 (2021), one year = 5%.
	if h.DividendCAGRPct == nil || math.Abs(*h.DividendCAGRPct-5) > 1e-6 {
		t.Errorf("dividend CAGR = %v, want 5", h.DividendCAGRPct)
	}
	if h.ProjectedEPS5Y == nil || h.ProjectedFairPrice == nil || h.ImpliedGrowthPct == nil {
		t.Error("projection chain has nil links")
	}
	if h.AvgYieldPct == nil || h.MaxYieldPct == nil || h.MinYieldPct == nil {
		t.Error("yield envelope stats missing")
	}

	if a.Weiss == nil {
		t.Fatal("weiss bands missing")
	}
	if row := findRatio(a.Ratios, "ROIC (%)"); row == nil {
		t.Error("ROIC row missing")
	}

	for name, table := range map[string]models.YearTable{
		"enterprise":     a.Enterprise,
		"sustainability": a.Sustainability,
		"debt":           a.DebtEvolution,
		"per":            a.PERHistory,
		"margins":        a.Margins,
		"balance":        a.Balance,
		"cash flows":     a.CashFlows,
	} {
		if len(table.Rows) == 0 {
			t.Errorf("%s table is empty", name)
		}
	}

	if a.Targets.DividendTargetPrice == nil {
		t.Fatal("dividend target price missing")
	}
	// Quoted rate 2.20 * 1.05 / 0.03 = 77.
	if math.Abs(*a.Targets.DividendTargetPrice-77) > 1e-6 {
		t.Errorf("dividend target price = %v, want 77", *a.Targets.DividendTargetPrice)
	}
	if a.Targets.WeissUndervalued == nil {
		t.Error("weiss undervalued target missing")
	}
	if len(a.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", a.Warnings)
	}
}

func TestAnalyzeBookValueRatiosPerYear(t *testing.T) {
	ds := testDataset(t)
	a := Analyze(ds, Params{DesiredYieldPct: 3, Now: date(2022, time.July, 1)})

	abv := findRatio(a.Ratios, "Adjusted Book Value")
	if abv == nil {
		t.Fatal("adjusted book value row missing")
	}
	// Equity / shares for each statement year: 400/100 and 480/98.
	want := []float64{4, 480.0 / 98}
	for i, w := range want {
		if abv.Values[i] == nil {
			t.Fatalf("adjusted book value year %d absent", a.Ratios.Years[i])
		}
		if math.Abs(*abv.Values[i]-w) > 1e-9 {
			t.Errorf("adjusted book value year %d = %v, want %v", a.Ratios.Years[i], *abv.Values[i], w)
		}
	}

	mb := findRatio(a.Ratios, "Market / Book")
	if mb == nil {
		t.Fatal("market/book row missing")
	}
	// Yearly closes 100 (2021) and 110 (2022) against book value per share
	// (assets - liabilities) / shares: 100/4 and 110/(480/98).
	wantMB := []float64{25, 110 * 98 / 480.0}
	for i, w := range wantMB {
		if mb.Values[i] == nil {
			t.Fatalf("market/book year %d absent", a.Ratios.Years[i])
		}
		if math.Abs(*mb.Values[i]-w) > 1e-9 {
			t.Errorf("market/book year %d = %v, want %v", a.Ratios.Years[i], *mb.Values[i], w)
		}
	}
}

func TestAnalyzeTargetWithoutQuotedRate(t *testing.T) {
	ds := testDataset(t)
	ds.Profile.DividendRate = nil

	a := Analyze(ds, Params{DesiredYieldPct: 3, Now: date(2022, time.July, 1)})

	if a.Targets.DividendTargetPrice == nil {
		t.Fatal("dividend target price missing")
	}
	// Last complete annual sum 2.10 * 1.05 / 0.03 = 73.5.
	if math.Abs(*a.Targets.DividendTargetPrice-73.5) > 1e-6 {
		t.Errorf("dividend target price = %v, want 73.5", *a.Targets.DividendTargetPrice)
	}
}

func TestAnalyzeMissingTotalDebt(t *testing.T) {
	ds := testDataset(t)

	// Rebuild the balance sheet without any debt line item.
	ds.Balance = series.NormalizeStatement([]models.StatementPeriod{
		statementPeriod(2021, map[string]float64{
			"Total Assets":                           1000,
			"Total Liabilities Net Minority Interest": 600,
			"Total Equity Gross Minority Interest":    400,
			"Cash And Cash Equivalents":               100,
		}),
		statementPeriod(2022, map[string]float64{
			"Total Assets":                           1100,
			"Total Liabilities Net Minority Interest": 620,
			"Total Equity Gross Minority Interest":    480,
			"Cash And Cash Equivalents":               120,
		}),
	})

	a := Analyze(ds, Params{DesiredYieldPct: 3, Now: date(2022, time.July, 1)})

	// Debt-dependent rows degrade to absent...
	if row := findRatio(a.Ratios, "ROIC (%)"); row != nil {
		t.Error("ROIC row should be dropped without total debt")
	}
	if row := a.Enterprise.Row("EV / EBITDA"); row != nil {
		t.Error("EV/EBITDA row should be dropped without net debt")
	}
	if row := a.DebtEvolution.Row("Net Debt"); row != nil {
		t.Error("net debt row should be dropped")
	}

	// ...while everything dividend-side still computes.
	if a.Headline.DividendCAGRPct == nil {
		t.Error("dividend CAGR should survive a missing debt line")
	}
	if a.Weiss == nil {
		t.Error("weiss bands should survive a missing debt line")
	}
	if row := findRatio(a.Ratios, "ROE (%)"); row == nil {
		t.Error("ROE should survive a missing debt line")
	}
}

func TestAnalyzeWarnsOnMissingSections(t *testing.T) {
	ds := testDataset(t)
	ds.Dividends = series.FinancialSeries{}
	ds.CashFlow = series.StatementSnapshot{}

	a := Analyze(ds, Params{DesiredYieldPct: 3, Now: date(2022, time.July, 1)})

	if a.Weiss != nil {
		t.Error("weiss bands should be nil without dividends")
	}
	if len(a.Warnings) == 0 {
		t.Fatal("expected warnings")
	}
	if len(a.Sustainability.Rows) != 0 {
		t.Error("sustainability table should be empty without cash flows")
	}
}

func findRatio(t models.RatioTable, name string) *models.RatioRow {
	for i := range t.Rows {
		if t.Rows[i].Name == name {
			return &t.Rows[i]
		}
	}
	return nil
}
