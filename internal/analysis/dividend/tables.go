package dividend

import (
	"github.com/dividup/dividup/internal/series"
	"github.com/dividup/dividup/pkg/models"
)

// yearTable builds a YearTable from per-year cell functions, dropping rows
// where every cell is absent.
func yearTable(years []int, rows ...namedCell) models.YearTable {
	t := models.YearTable{Years: years}
	for _, r := range rows {
		vals := make([]*float64, len(years))
		for i, y := range years {
			vals[i] = r.cell(y).Ptr()
		}
		if allNil(vals) {
			continue
		}
		t.Rows = append(t.Rows, models.TableRow{Name: r.name, Values: vals})
	}
	return t
}

type namedCell struct {
	name string
	cell func(year int) series.Value
}

// freeCashFlowAt prefers the provider's reported free cash flow; otherwise it
// is operating cash flow plus capital expenditure, which providers report as
// a negative number. Missing capex falls back to operating cash flow alone.
func freeCashFlowAt(cashflow series.StatementSnapshot, year int) series.Value {
	if fcf := cashflow.ResolveValue(year, aliasFreeCashFlow...); fcf.IsSome() {
		return fcf
	}
	ocf := cashflow.ResolveValue(year, aliasOperatingCashFlow...)
	if !ocf.IsSome() {
		return series.None()
	}
	capex := cashflow.ResolveValue(year, aliasCapEx...)
	return series.Some(ocf.Or(0) + capex.Or(0))
}

// netDebtAt prefers the reported net debt line, otherwise total debt minus
// cash.
func netDebtAt(balance series.StatementSnapshot, year int) series.Value {
	if nd := balance.ResolveValue(year, aliasNetDebt...); nd.IsSome() {
		return nd
	}
	debt := balance.ResolveValue(year, aliasTotalDebt...)
	cash := balance.ResolveValue(year, aliasCash...)
	return debt.Sub(series.Some(cash.Or(0)))
}

// EnterpriseTable computes per-year enterprise value and the EV/EBITDA
// multiple. Enterprise value uses the current market capitalization with each
// year's net debt, which is how the dashboard has always framed the question
// "what does today's buyer pay for that year's EBITDA".
func EnterpriseTable(balance, income series.StatementSnapshot, marketCap series.Value) models.YearTable {
	years := intersectYears(balance.Years(), income.Years())
	ev := func(y int) series.Value {
		return marketCap.Add(netDebtAt(balance, y))
	}
	return yearTable(years,
		namedCell{"EBITDA", func(y int) series.Value {
			return income.ResolveValue(y, aliasEBITDA...)
		}},
		namedCell{"Enterprise Value", ev},
		namedCell{"EV / EBITDA", func(y int) series.Value {
			return series.SafeDiv(ev(y), income.ResolveValue(y, aliasEBITDA...))
		}},
	)
}

// SustainabilityTable relates dividends paid to free cash flow: a payout
// above 100% of FCF is being financed with debt or reserves.
func SustainabilityTable(cashflow series.StatementSnapshot) models.YearTable {
	return yearTable(cashflow.Years(),
		namedCell{"Free Cash Flow", func(y int) series.Value {
			return freeCashFlowAt(cashflow, y)
		}},
		namedCell{"Dividends Paid", func(y int) series.Value {
			return cashflow.ResolveValue(y, aliasDividendsPaid...).Abs()
		}},
		namedCell{"FCF Payout (%)", func(y int) series.Value {
			paid := cashflow.ResolveValue(y, aliasDividendsPaid...).Abs()
			return series.SafeDiv(paid, freeCashFlowAt(cashflow, y)).Scale(100)
		}},
	)
}

// DebtTable tracks net debt against free cash flow: the Net Debt / FCF row is
// the number of years of cash generation needed to retire the debt.
func DebtTable(balance, cashflow series.StatementSnapshot) models.YearTable {
	years := intersectYears(balance.Years(), cashflow.Years())
	return yearTable(years,
		namedCell{"Free Cash Flow", func(y int) series.Value {
			return freeCashFlowAt(cashflow, y)
		}},
		namedCell{"Net Debt", func(y int) series.Value {
			return netDebtAt(balance, y)
		}},
		namedCell{"Net Debt / FCF", func(y int) series.Value {
			return series.SafeDiv(netDebtAt(balance, y), freeCashFlowAt(cashflow, y))
		}},
	)
}

// PERTable shows the trailing multiple the market paid at each year end:
// reported EPS, the year's closing price, and their ratio.
func PERTable(income series.StatementSnapshot, prices series.PriceSeries) models.YearTable {
	closes := prices.YearlyLastClose()
	eps := func(y int) series.Value {
		if v := income.ResolveValue(y, aliasDilutedEPS...); v.IsSome() {
			return v
		}
		return income.ResolveValue(y, aliasBasicEPS...)
	}
	return yearTable(income.Years(),
		namedCell{"EPS", eps},
		namedCell{"Price", closes.At},
		namedCell{"PER", func(y int) series.Value {
			return series.SafeDiv(closes.At(y), eps(y))
		}},
	)
}

// MarginsTable is the income-statement margin stack. Gross profit falls back
// to revenue minus cost of revenue when the provider omits the line.
func MarginsTable(income series.StatementSnapshot) models.YearTable {
	revenue := func(y int) series.Value {
		return income.ResolveValue(y, aliasRevenue...)
	}
	gross := func(y int) series.Value {
		if g := income.ResolveValue(y, aliasGrossProfit...); g.IsSome() {
			return g
		}
		return revenue(y).Sub(income.ResolveValue(y, aliasCostOfRevenue...))
	}
	return yearTable(income.Years(),
		namedCell{"Revenue", revenue},
		namedCell{"Gross Margin (%)", func(y int) series.Value {
			return series.SafeDiv(gross(y), revenue(y)).Scale(100)
		}},
		namedCell{"Operating Margin (%)", func(y int) series.Value {
			return series.SafeDiv(income.ResolveValue(y, aliasOperatingIncome...), revenue(y)).Scale(100)
		}},
		namedCell{"Net Margin (%)", func(y int) series.Value {
			return series.SafeDiv(income.ResolveValue(y, aliasNetIncome...), revenue(y)).Scale(100)
		}},
	)
}

// BalanceTable is the raw balance-sheet overview.
func BalanceTable(balance series.StatementSnapshot) models.YearTable {
	item := func(aliases []string) func(int) series.Value {
		return func(y int) series.Value { return balance.ResolveValue(y, aliases...) }
	}
	return yearTable(balance.Years(),
		namedCell{"Total Assets", item(aliasTotalAssets)},
		namedCell{"Total Liabilities", item(aliasTotalLiabilities)},
		namedCell{"Total Equity", item(aliasTotalEquity)},
		namedCell{"Cash", item(aliasCash)},
		namedCell{"Total Debt", item(aliasTotalDebt)},
	)
}

// CashFlowTable is the raw cash-flow overview, including the financing lines
// (debt issued and repaid, buybacks) that show how shareholder returns are
// funded.
func CashFlowTable(cashflow series.StatementSnapshot) models.YearTable {
	item := func(aliases []string) func(int) series.Value {
		return func(y int) series.Value { return cashflow.ResolveValue(y, aliases...) }
	}
	return yearTable(cashflow.Years(),
		namedCell{"Operating Cash Flow", item(aliasOperatingCashFlow)},
		namedCell{"Capital Expenditure", item(aliasCapEx)},
		namedCell{"Free Cash Flow", func(y int) series.Value {
			return freeCashFlowAt(cashflow, y)
		}},
		namedCell{"Dividends Paid", func(y int) series.Value {
			return cashflow.ResolveValue(y, aliasDividendsPaid...).Abs()
		}},
		namedCell{"Debt Issued", item(aliasDebtIssued)},
		namedCell{"Debt Repaid", func(y int) series.Value {
			return cashflow.ResolveValue(y, aliasDebtRepaid...).Abs()
		}},
		namedCell{"Buybacks", func(y int) series.Value {
			return cashflow.ResolveValue(y, aliasBuybacks...).Abs()
		}},
	)
}

// SharesSeries is the outstanding share count per year, for spotting
// dilution or sustained buybacks.
func SharesSeries(balance series.StatementSnapshot) models.YearSeries {
	shares, ok := balance.Resolve(aliasOrdinaryShares...)
	if !ok {
		return models.YearSeries{}
	}
	years := shares.Years()
	out := models.YearSeries{Years: years, Values: make([]*float64, len(years))}
	for i, y := range years {
		out.Values[i] = shares.At(y).Ptr()
	}
	return out
}

// YieldHistory computes the daily trailing dividend yield in percent, plus
// its average, maximum and minimum. The final (partial) dividend year is
// excluded entirely: its sum is still accumulating and would show a
// collapsing yield that never happened.
func YieldHistory(prices series.PriceSeries, annual series.FinancialSeries) (models.TimeSeries, series.Value, series.Value, series.Value) {
	years := annual.Years()
	if len(years) < 2 || prices.Empty() {
		return models.TimeSeries{}, series.None(), series.None(), series.None()
	}
	lastFull := years[len(years)-2]

	var out models.TimeSeries
	var sum, mn, mx float64
	n := 0
	for i := 0; i < prices.Len(); i++ {
		pt := prices.At(i)
		if pt.Date.Year() > lastFull {
			break
		}
		y, ok := series.SafeDiv(annual.At(pt.Date.Year()), series.Some(pt.Close)).Scale(100).Float()
		if !ok {
			continue
		}
		out.Dates = append(out.Dates, pt.Date)
		out.Values = append(out.Values, y)
		sum += y
		if n == 0 || y < mn {
			mn = y
		}
		if n == 0 || y > mx {
			mx = y
		}
		n++
	}
	if n == 0 {
		return models.TimeSeries{}, series.None(), series.None(), series.None()
	}
	return out, series.Some(sum / float64(n)), series.Some(mx), series.Some(mn)
}
