package series

import (
	"sort"
	"time"
)

// FinancialSeries is one named line item across time: an ordered mapping from
// calendar year to optional value. Years are unique and ascending; gaps are
// allowed. The normalizer owns construction; consumers only read.
type FinancialSeries struct {
	years []int
	vals  map[int]Value
}

// MakeFinancialSeries builds a series from a year→value map. Absent values
// are kept so that "reported as unavailable" is distinguishable from
// "year not covered".
func MakeFinancialSeries(points map[int]Value) FinancialSeries {
	years := make([]int, 0, len(points))
	for y := range points {
		years = append(years, y)
	}
	sort.Ints(years)
	vals := make(map[int]Value, len(points))
	for y, v := range points {
		vals[y] = v
	}
	return FinancialSeries{years: years, vals: vals}
}

// Len returns the number of periods.
func (s FinancialSeries) Len() int { return len(s.years) }

// Empty reports whether the series covers no periods.
func (s FinancialSeries) Empty() bool { return len(s.years) == 0 }

// Years returns the covered years, ascending.
func (s FinancialSeries) Years() []int {
	out := make([]int, len(s.years))
	copy(out, s.years)
	return out
}

// Has reports whether the year is covered with a present value.
func (s FinancialSeries) Has(year int) bool { return s.vals[year].IsSome() }

// At returns the value for a year; absent when the year is not covered.
func (s FinancialSeries) At(year int) Value { return s.vals[year] }

// First returns the earliest period. Absent value when the series is empty.
func (s FinancialSeries) First() (int, Value) {
	if len(s.years) == 0 {
		return 0, None()
	}
	return s.years[0], s.vals[s.years[0]]
}

// Latest returns the most recent period. Absent value when the series is empty.
func (s FinancialSeries) Latest() (int, Value) {
	if len(s.years) == 0 {
		return 0, None()
	}
	y := s.years[len(s.years)-1]
	return y, s.vals[y]
}

// LatestValue returns the most recent present value, skipping trailing
// absent periods.
func (s FinancialSeries) LatestValue() Value {
	for i := len(s.years) - 1; i >= 0; i-- {
		if v := s.vals[s.years[i]]; v.IsSome() {
			return v
		}
	}
	return None()
}

// Restrict returns the sub-series with from ≤ year ≤ to.
func (s FinancialSeries) Restrict(from, to int) FinancialSeries {
	points := make(map[int]Value)
	for _, y := range s.years {
		if y >= from && y <= to {
			points[y] = s.vals[y]
		}
	}
	return MakeFinancialSeries(points)
}

// AllAbsent reports whether no period carries a present value.
func (s FinancialSeries) AllAbsent() bool {
	for _, y := range s.years {
		if s.vals[y].IsSome() {
			return false
		}
	}
	return true
}

// StatementSnapshot maps provider line-item names to their series for one
// statement type. Names are whatever the provider reported; use Resolve with
// an ordered alias list rather than indexing directly.
type StatementSnapshot struct {
	items map[string]FinancialSeries
	years []int
}

// Resolve returns the series for the first alias present in the snapshot.
// This is the single mechanism for surviving provider schema drift: issuers
// and provider versions rename line items ("Cash" vs "Cash And Cash
// Equivalents"), and the first match in priority order wins. The second
// return is false when no alias is present; callers treat that as
// "unavailable", never as an error.
func (s StatementSnapshot) Resolve(aliases ...string) (FinancialSeries, bool) {
	for _, name := range aliases {
		if fs, ok := s.items[name]; ok {
			return fs, true
		}
	}
	return FinancialSeries{}, false
}

// ResolveValue is Resolve collapsed to a single year's value.
func (s StatementSnapshot) ResolveValue(year int, aliases ...string) Value {
	fs, ok := s.Resolve(aliases...)
	if !ok {
		return None()
	}
	return fs.At(year)
}

// Years returns the union of covered years, ascending.
func (s StatementSnapshot) Years() []int {
	out := make([]int, len(s.years))
	copy(out, s.years)
	return out
}

// Len returns the number of line items.
func (s StatementSnapshot) Len() int { return len(s.items) }

// Empty reports whether the snapshot has no line items.
func (s StatementSnapshot) Empty() bool { return len(s.items) == 0 }

// PricePoint is one close observation.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceSeries is an ordered close-price series, strictly increasing by date.
// It may be empty, which signals "no data for ticker" upstream.
type PriceSeries struct {
	points []PricePoint
}

// Len returns the number of observations.
func (p PriceSeries) Len() int { return len(p.points) }

// Empty reports whether the series has no observations.
func (p PriceSeries) Empty() bool { return len(p.points) == 0 }

// At returns the i-th observation.
func (p PriceSeries) At(i int) PricePoint { return p.points[i] }

// First returns the earliest observation; zero value when empty.
func (p PriceSeries) First() PricePoint {
	if len(p.points) == 0 {
		return PricePoint{}
	}
	return p.points[0]
}

// Last returns the latest observation; zero value when empty.
func (p PriceSeries) Last() PricePoint {
	if len(p.points) == 0 {
		return PricePoint{}
	}
	return p.points[len(p.points)-1]
}

// Dates returns all dates in order.
func (p PriceSeries) Dates() []time.Time {
	out := make([]time.Time, len(p.points))
	for i, pt := range p.points {
		out[i] = pt.Date
	}
	return out
}

// Closes returns all closes in order.
func (p PriceSeries) Closes() []float64 {
	out := make([]float64, len(p.points))
	for i, pt := range p.points {
		out[i] = pt.Close
	}
	return out
}

// FirstYear returns the calendar year of the first observation.
func (p PriceSeries) FirstYear() int { return p.First().Date.Year() }

// LastYear returns the calendar year of the last observation.
func (p PriceSeries) LastYear() int { return p.Last().Date.Year() }

// ResampleMonthly keeps the last observation of every calendar month.
func (p PriceSeries) ResampleMonthly() PriceSeries {
	var out []PricePoint
	for i, pt := range p.points {
		if i+1 == len(p.points) {
			out = append(out, pt)
			continue
		}
		next := p.points[i+1].Date
		if next.Year() != pt.Date.Year() || next.Month() != pt.Date.Month() {
			out = append(out, pt)
		}
	}
	return PriceSeries{points: out}
}

// YearlyLastClose returns the last close of every calendar year as a
// year-indexed series.
func (p PriceSeries) YearlyLastClose() FinancialSeries {
	points := make(map[int]Value)
	for _, pt := range p.points {
		points[pt.Date.Year()] = Some(pt.Close) // later observations overwrite
	}
	return MakeFinancialSeries(points)
}
