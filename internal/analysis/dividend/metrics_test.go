package dividend

import (
	"math"
	"testing"
	"time"

	"github.com/dividup/dividup/internal/series"
	"github.com/dividup/dividup/pkg/models"
)

func approxValue(t *testing.T, name string, got series.Value, want float64) {
	t.Helper()
	v, ok := got.Float()
	if !ok {
		t.Fatalf("%s: got absent, want %v", name, want)
	}
	if math.Abs(v-want) > 1e-6 {
		t.Errorf("%s: got %v, want %v", name, v, want)
	}
}

func wantAbsent(t *testing.T, name string, got series.Value) {
	t.Helper()
	if v, ok := got.Float(); ok {
		t.Errorf("%s: got %v, want absent", name, v)
	}
}

func TestGrowthMultipleTiers(t *testing.T) {
	tests := []struct {
		g    float64
		want float64
	}{
		{-5, 10},
		{9.99, 10},
		{10, 10}, // lower tier boundary is inclusive
		{10.0001, 15},
		{20, 15},
		{20.0001, 20},
		{35, 20},
	}
	for _, tt := range tests {
		approxValue(t, "GrowthMultiple", GrowthMultiple(series.Some(tt.g)), tt.want)
	}
	wantAbsent(t, "GrowthMultiple(absent)", GrowthMultiple(series.None()))
}

func TestSustainableGrowthPct(t *testing.T) {
	approxValue(t, "G", SustainableGrowthPct(series.Some(0.20), series.Some(0.5)), 10)
	wantAbsent(t, "G missing roe", SustainableGrowthPct(series.None(), series.Some(0.5)))
	wantAbsent(t, "G missing payout", SustainableGrowthPct(series.Some(0.20), series.None()))
}

func TestProjectionChain(t *testing.T) {
	eps := series.Some(4.0)
	g := series.Some(10.0)
	eps5y := ProjectedEPS(eps, g)
	approxValue(t, "eps5y", eps5y, 4.0*math.Pow(1.10, 5))

	fair := FairPriceAtMultiple(eps5y, GrowthMultiple(g))
	approxValue(t, "fair", fair, 4.0*math.Pow(1.10, 5)*10)

	implied := ImpliedGrowthPct(fair, series.Some(50))
	want := (math.Pow(4.0*math.Pow(1.10, 5)*10/50, 1.0/5) - 1) * 100
	approxValue(t, "implied", implied, want)

	wantAbsent(t, "implied zero price", ImpliedGrowthPct(fair, series.Some(0)))
}

func TestTargetDividendPrice(t *testing.T) {
	// 2.00 growing at 5% should yield 3% at 2.10/0.03 = 70.
	got := TargetDividendPrice(series.Some(2.00), series.Some(5), 3)
	approxValue(t, "target", got, 70)

	wantAbsent(t, "zero desired", TargetDividendPrice(series.Some(2.00), series.Some(5), 0))
	wantAbsent(t, "no cagr", TargetDividendPrice(series.Some(2.00), series.None(), 3))
}

func TestBookValuePerShare(t *testing.T) {
	approxValue(t, "bvps", BookValuePerShare(series.Some(1000), series.Some(100), series.Some(90)), 10)
	// Missing preferred defaults to zero instead of killing the metric.
	approxValue(t, "bvps no preferred", BookValuePerShare(series.Some(1000), series.None(), series.Some(100)), 10)
	wantAbsent(t, "bvps no equity", BookValuePerShare(series.None(), series.None(), series.Some(100)))
	wantAbsent(t, "bvps zero shares", BookValuePerShare(series.Some(1000), series.None(), series.Some(0)))
}

func TestDividendCAGRPct(t *testing.T) {
	mk := func(points map[int]float64) series.FinancialSeries {
		vals := make(map[int]series.Value, len(points))
		for y, v := range points {
			vals[y] = series.Some(v)
		}
		return series.MakeFinancialSeries(vals)
	}

	// Endpoints are the first and the second-to-last year: 1.00 -> 1.10
	// over one year is exactly 10%, the partial 2022 sum is ignored.
	got := DividendCAGRPct(mk(map[int]float64{2020: 1.00, 2021: 1.10, 2022: 1.21}))
	approxValue(t, "cagr", got, 10)

	wantAbsent(t, "two points", DividendCAGRPct(mk(map[int]float64{2020: 1.00, 2021: 1.10})))
	wantAbsent(t, "empty", DividendCAGRPct(series.FinancialSeries{}))
	wantAbsent(t, "zero first", DividendCAGRPct(mk(map[int]float64{2020: 0, 2021: 1.10, 2022: 1.21})))
}

func TestReturnsAndDrawdown(t *testing.T) {
	prices := mustPrices(t, []models.Bar{
		{Date: date(2020, time.January, 2), Close: 100},
		{Date: date(2020, time.June, 1), Close: 80},
		{Date: date(2022, time.January, 2), Close: 150},
	})

	approxValue(t, "total", TotalReturnPct(prices), 50)

	ann, ok := AnnualReturnPct(prices).Float()
	if !ok {
		t.Fatal("annual return absent")
	}
	if ann <= 0 || ann >= 50 {
		t.Errorf("annual return %v out of range (0, 50)", ann)
	}

	dd := Drawdown(prices)
	if len(dd.Values) != 3 {
		t.Fatalf("drawdown has %d points, want 3", len(dd.Values))
	}
	if dd.Values[0] != 0 {
		t.Errorf("drawdown at first high = %v, want 0", dd.Values[0])
	}
	if math.Abs(dd.Values[1]-(-20)) > 1e-9 {
		t.Errorf("drawdown at trough = %v, want -20", dd.Values[1])
	}
	if dd.Values[2] != 0 {
		t.Errorf("drawdown at new high = %v, want 0", dd.Values[2])
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustPrices(t *testing.T, bars []models.Bar) series.PriceSeries {
	t.Helper()
	p, err := series.NormalizePrices(bars)
	if err != nil {
		t.Fatalf("normalize prices: %v", err)
	}
	return p
}
