package series

import (
	"errors"
	"math"
	"sort"

	"github.com/dividup/dividup/pkg/models"
)

// ErrNoData signals that the provider returned no price history for the
// requested ticker and period. It is the only fatal condition in the
// pipeline; everything else degrades per metric.
var ErrNoData = errors.New("no price data")

// NormalizeStatement transposes a raw (line-item × period) statement into a
// snapshot indexed by calendar year. Every cell is coerced to a finite
// numeric or absent; line items that are absent across all periods are
// dropped. Periods always come out ascending by year, regardless of the
// provider's ordering.
func NormalizeStatement(periods []models.StatementPeriod) StatementSnapshot {
	yearSet := make(map[int]bool)
	raw := make(map[string]map[int]Value)

	for _, p := range periods {
		if p.EndDate.IsZero() {
			continue
		}
		year := p.EndDate.Year()
		yearSet[year] = true
		for name, v := range p.Items {
			if raw[name] == nil {
				raw[name] = make(map[int]Value)
			}
			// First report for a year wins; providers occasionally repeat
			// a fiscal year across restated periods.
			if _, seen := raw[name][year]; !seen {
				raw[name][year] = Some(v)
			}
		}
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	items := make(map[string]FinancialSeries, len(raw))
	for name, points := range raw {
		// Fill uncovered years explicitly so each series spans the snapshot.
		for _, y := range years {
			if _, ok := points[y]; !ok {
				points[y] = None()
			}
		}
		fs := MakeFinancialSeries(points)
		if fs.AllAbsent() {
			continue
		}
		items[name] = fs
	}

	return StatementSnapshot{items: items, years: years}
}

// NormalizePrices validates and orders raw price bars into a PriceSeries.
// An empty input is the pipeline's sole fatal condition and returns
// ErrNoData. Bars with non-finite or non-positive closes are discarded;
// duplicate dates keep the last bar.
func NormalizePrices(bars []models.Bar) (PriceSeries, error) {
	if len(bars) == 0 {
		return PriceSeries{}, ErrNoData
	}

	pts := make([]PricePoint, 0, len(bars))
	for _, b := range bars {
		if b.Date.IsZero() || b.Close <= 0 || math.IsNaN(b.Close) || math.IsInf(b.Close, 0) {
			continue
		}
		pts = append(pts, PricePoint{Date: b.Date, Close: b.Close})
	}
	if len(pts) == 0 {
		return PriceSeries{}, ErrNoData
	}

	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Date.Before(pts[j].Date) })

	// Strictly increasing dates: collapse duplicates, keeping the last.
	out := pts[:0]
	for _, pt := range pts {
		if len(out) > 0 && !out[len(out)-1].Date.Before(pt.Date) {
			out[len(out)-1] = pt
			continue
		}
		out = append(out, pt)
	}
	return PriceSeries{points: out}, nil
}

// NormalizeDividends sums dividend events per calendar year. An empty input
// is a valid empty series, not an error: dividend-free stocks exist.
func NormalizeDividends(events []models.DividendEvent) FinancialSeries {
	sums := make(map[int]float64)
	for _, ev := range events {
		if ev.Date.IsZero() || math.IsNaN(ev.Amount) || math.IsInf(ev.Amount, 0) {
			continue
		}
		sums[ev.Date.Year()] += ev.Amount
	}
	points := make(map[int]Value, len(sums))
	for y, total := range sums {
		points[y] = Some(total)
	}
	return MakeFinancialSeries(points)
}
