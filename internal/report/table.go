package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/dividup/dividup/pkg/models"
)

// Terminal rendering via go-pretty. Every optional metric prints as "-"
// when unavailable, never as 0.

func newWriter(w io.Writer, title string) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.Style().Options.SeparateRows = false
	if title != "" {
		tw.SetTitle(title)
	}
	return tw
}

func fmtPtr(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmtFloat(*v)
}

func fmtFloat(v float64) string {
	av := v
	if av < 0 {
		av = -av
	}
	switch {
	case av >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case av >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case av >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// WriteHeadline prints the scalar metric summary.
func WriteHeadline(w io.Writer, a *models.Analysis) {
	h := a.Headline
	title := a.Profile.LongName
	if title == "" {
		title = a.Ticker
	}

	tw := newWriter(w, title)
	tw.AppendRows([]table.Row{
		{"Price", fmtPtr(h.CurrentPrice), "Dividend / Share", fmtPtr(h.DividendRate)},
		{"Dividend Yield (%)", fmtPtr(h.DividendYieldPct), "Dividend CAGR (%)", fmtPtr(h.DividendCAGRPct)},
		{"Trailing P/E", fmtPtr(h.TrailingPE), "Payout (%)", fmtPtr(h.PayoutPct)},
		{"Trailing EPS", fmtPtr(h.TrailingEPS), "Price / Book", fmtPtr(h.PriceToBook)},
		{"Book Value / Share", fmtPtr(h.BookValuePerShare), "Sustainable Growth (%)", fmtPtr(h.SustainableGrowthPct)},
		{"EPS in 5y", fmtPtr(h.ProjectedEPS5Y), "Growth Multiple", fmtPtr(h.GrowthMultiple)},
		{"Implied Growth (%)", fmtPtr(h.ImpliedGrowthPct), "Avg Yield (%)", fmtPtr(h.AvgYieldPct)},
		{"Total Return (%)", fmtPtr(h.TotalReturnPct), "Annual Return (%)", fmtPtr(h.AnnualReturnPct)},
	})
	tw.Render()
}

// WriteTargets prints the fair-price estimates side by side.
func WriteTargets(w io.Writer, a *models.Analysis) {
	t := a.Targets
	tw := newWriter(w, "Price Targets")
	tw.AppendHeader(table.Row{"Method", "Target"})
	tw.AppendRows([]table.Row{
		{fmt.Sprintf("Dividend yield %.1f%%", t.DesiredYieldPct), fmtPtr(t.DividendTargetPrice)},
		{"Weiss undervalued band", fmtPtr(t.WeissUndervalued)},
		{"P/B x book value", fmtPtr(t.FairPricePB)},
		{"Projected EPS fair price", fmtPtr(t.ProjectedFairPrice)},
	})
	tw.Render()
}

// WriteYearTable prints a per-year metric table, years as columns.
func WriteYearTable(w io.Writer, title string, yt models.YearTable) {
	if len(yt.Rows) == 0 {
		return
	}
	tw := newWriter(w, title)

	hdr := table.Row{""}
	for _, y := range yt.Years {
		hdr = append(hdr, y)
	}
	tw.AppendHeader(hdr)

	for _, row := range yt.Rows {
		r := table.Row{row.Name}
		for _, v := range row.Values {
			r = append(r, fmtPtr(v))
		}
		tw.AppendRow(r)
	}

	cfgs := make([]table.ColumnConfig, len(yt.Years))
	for i := range yt.Years {
		cfgs[i] = table.ColumnConfig{Number: i + 2, Align: text.AlignRight}
	}
	tw.SetColumnConfigs(cfgs)
	tw.Render()
}

// WriteRatios prints the fundamental ratio table grouped by category.
func WriteRatios(w io.Writer, a *models.Analysis) {
	rt := a.Ratios
	if len(rt.Rows) == 0 {
		return
	}
	tw := newWriter(w, "Fundamental Ratios")

	hdr := table.Row{"", ""}
	for _, y := range rt.Years {
		hdr = append(hdr, y)
	}
	tw.AppendHeader(hdr)

	lastCat := ""
	for _, row := range rt.Rows {
		cat := ""
		if row.Category != lastCat {
			cat = row.Category
			lastCat = row.Category
		}
		r := table.Row{cat, row.Name}
		for _, v := range row.Values {
			r = append(r, fmtPtr(v))
		}
		tw.AppendRow(r)
	}
	tw.Render()
}

// WriteWeiss prints the yield-band valuation summary.
func WriteWeiss(w io.Writer, a *models.Analysis) {
	if a.Weiss == nil {
		return
	}
	wb := a.Weiss
	tw := newWriter(w, "Yield-Band Valuation")
	tw.AppendRows([]table.Row{
		{"Dividend CAGR (%)", fmtPtr(wb.CAGRPct)},
		{"Adjusted annual dividend", fmtPtr(wb.LastDividend)},
		{"Overvalued price", fmtPtr(wb.OvervaluedPrice)},
		{"Undervalued price", fmtPtr(wb.UndervaluedPrice)},
	})
	tw.Render()
}

// WriteNews prints the latest headlines.
func WriteNews(w io.Writer, a *models.Analysis) {
	if len(a.News) == 0 {
		return
	}
	tw := newWriter(w, "News")
	tw.AppendHeader(table.Row{"Date", "Headline"})
	for _, n := range a.News {
		date := ""
		if !n.Published.IsZero() {
			date = n.Published.Format("2006-01-02")
		}
		tw.AppendRow(table.Row{date, n.Title})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 2, WidthMax: 70}})
	tw.Render()
}

// WriteWarnings prints degradation notices, one per line.
func WriteWarnings(w io.Writer, a *models.Analysis) {
	for _, warning := range a.Warnings {
		fmt.Fprintln(w, text.FgYellow.Sprint("! "+warning))
	}
}

// WriteAnalysis prints the full dashboard to the terminal.
func WriteAnalysis(w io.Writer, a *models.Analysis) {
	WriteWarnings(w, a)
	WriteHeadline(w, a)
	fmt.Fprintln(w)
	WriteTargets(w, a)
	fmt.Fprintln(w)
	WriteWeiss(w, a)

	sections := []struct {
		title string
		table models.YearTable
	}{
		{"EV / EBITDA", a.Enterprise},
		{"Dividend Sustainability", a.Sustainability},
		{"Debt Evolution", a.DebtEvolution},
		{"PER History", a.PERHistory},
		{"Margins", a.Margins},
		{"Balance Sheet", a.Balance},
		{"Cash Flows", a.CashFlows},
	}
	for _, s := range sections {
		if len(s.table.Rows) == 0 {
			continue
		}
		fmt.Fprintln(w)
		WriteYearTable(w, s.title, s.table)
	}

	fmt.Fprintln(w)
	WriteRatios(w, a)
	fmt.Fprintln(w)
	WriteNews(w, a)
}
