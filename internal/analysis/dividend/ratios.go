package dividend

import (
	"github.com/dividup/dividup/internal/series"
	"github.com/dividup/dividup/pkg/models"
)

// Ratio categories, used by the presentation layer to group rows.
const (
	CategoryLiquidity     = "liquidity"
	CategoryLeverage      = "leverage"
	CategoryEfficiency    = "efficiency"
	CategoryProfitability = "profitability"
	CategoryOther         = "other"
)

// Ratios computes the per-year fundamental ratio table from the normalized
// statements. Years are the intersection of balance-sheet and income years,
// since almost every ratio mixes both statements. Any individual cell whose
// inputs are missing is simply absent; rows where every year is absent are
// dropped.
//
// yearlyClose feeds the Market/Book row: each year's market price is that
// year's last close, against that year's book value per share.
func Ratios(balance, income series.StatementSnapshot, yearlyClose series.FinancialSeries) models.RatioTable {
	years := intersectYears(balance.Years(), income.Years())
	if len(years) == 0 {
		return models.RatioTable{}
	}

	assets, _ := balance.Resolve(aliasTotalAssets...)
	liabilities, _ := balance.Resolve(aliasTotalLiabilities...)
	equity, _ := balance.Resolve(aliasTotalEquity...)
	curAssets, _ := balance.Resolve(aliasCurrentAssets...)
	curLiabilities, _ := balance.Resolve(aliasCurrentLiabilities...)
	cash, _ := balance.Resolve(aliasCash...)
	receivables, _ := balance.Resolve(aliasReceivables...)
	inventory, _ := balance.Resolve(aliasInventory...)
	payables, _ := balance.Resolve(aliasPayables...)
	debt, _ := balance.Resolve(aliasTotalDebt...)

	revenue, _ := income.Resolve(aliasRevenue...)
	cogs, _ := income.Resolve(aliasCostOfRevenue...)
	netIncome, _ := income.Resolve(aliasNetIncome...)

	shares, _ := balance.Resolve(aliasOrdinaryShares...)

	row := func(name, category string, f func(year int) series.Value) models.RatioRow {
		vals := make([]*float64, len(years))
		for i, y := range years {
			vals[i] = f(y).Ptr()
		}
		return models.RatioRow{Name: name, Category: category, Values: vals}
	}

	rows := []models.RatioRow{
		row("Current Ratio", CategoryLiquidity, func(y int) series.Value {
			return series.SafeDiv(curAssets.At(y), curLiabilities.At(y))
		}),
		row("Quick Ratio", CategoryLiquidity, func(y int) series.Value {
			return series.SafeDiv(quickAssets(cash.At(y), receivables.At(y)), curLiabilities.At(y))
		}),
		row("Working Capital", CategoryLiquidity, func(y int) series.Value {
			return curAssets.At(y).Sub(curLiabilities.At(y))
		}),
		row("Debt / Equity", CategoryLeverage, func(y int) series.Value {
			return series.SafeDiv(liabilities.At(y), equity.At(y))
		}),
		row("Debt / Assets", CategoryLeverage, func(y int) series.Value {
			return series.SafeDiv(liabilities.At(y), assets.At(y))
		}),
		row("Equity Multiplier", CategoryLeverage, func(y int) series.Value {
			return series.SafeDiv(assets.At(y), equity.At(y))
		}),
		row("Inventory Turnover", CategoryEfficiency, func(y int) series.Value {
			return series.SafeDiv(cogs.At(y), inventory.At(y))
		}),
		row("Asset Turnover", CategoryEfficiency, func(y int) series.Value {
			return series.SafeDiv(revenue.At(y), assets.At(y))
		}),
		row("Days Receivable", CategoryEfficiency, func(y int) series.Value {
			return series.SafeDiv(receivables.At(y), revenue.At(y)).Scale(365)
		}),
		row("Days Payable", CategoryEfficiency, func(y int) series.Value {
			return series.SafeDiv(payables.At(y), cogs.At(y)).Scale(365)
		}),
		row("ROA (%)", CategoryProfitability, func(y int) series.Value {
			return series.SafeDiv(netIncome.At(y), assets.At(y)).Scale(100)
		}),
		row("ROE (%)", CategoryProfitability, func(y int) series.Value {
			return series.SafeDiv(netIncome.At(y), equity.At(y)).Scale(100)
		}),
		row("ROIC (%)", CategoryProfitability, func(y int) series.Value {
			invested := investedCapital(debt.At(y), equity.At(y), cash.At(y))
			return series.SafeDiv(netIncome.At(y), invested).Scale(100)
		}),
		row("Net Margin (%)", CategoryProfitability, func(y int) series.Value {
			return series.SafeDiv(netIncome.At(y), revenue.At(y)).Scale(100)
		}),
		row("Adjusted Book Value", CategoryOther, func(y int) series.Value {
			return series.SafeDiv(equity.At(y), shares.At(y))
		}),
		row("Market / Book", CategoryOther, func(y int) series.Value {
			bookPerShare := series.SafeDiv(assets.At(y).Sub(liabilities.At(y)), shares.At(y))
			return series.SafeDiv(yearlyClose.At(y), bookPerShare)
		}),
	}

	kept := rows[:0]
	for _, r := range rows {
		if !allNil(r.Values) {
			kept = append(kept, r)
		}
	}
	return models.RatioTable{Years: years, Rows: kept}
}

// quickAssets is cash plus receivables, treating a single missing component
// as zero. Only when both are missing is the numerator itself unavailable.
func quickAssets(cash, receivables series.Value) series.Value {
	if !cash.IsSome() && !receivables.IsSome() {
		return series.None()
	}
	return series.Some(cash.Or(0) + receivables.Or(0))
}

// investedCapital is total debt plus equity minus cash. Debt and equity are
// required; missing cash is treated as zero.
func investedCapital(debt, equity, cash series.Value) series.Value {
	return debt.Add(equity).Sub(series.Some(cash.Or(0)))
}

func intersectYears(a, b []int) []int {
	in := make(map[int]bool, len(b))
	for _, y := range b {
		in[y] = true
	}
	var out []int
	for _, y := range a {
		if in[y] {
			out = append(out, y)
		}
	}
	return out
}

func allNil(vals []*float64) bool {
	for _, v := range vals {
		if v != nil {
			return false
		}
	}
	return true
}
