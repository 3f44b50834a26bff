package series

import (
	"errors"
	"testing"
	"time"

	"github.com/dividup/dividup/pkg/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalizeStatement(t *testing.T) {
	raw := []models.StatementPeriod{
		{EndDate: date(2023, 12, 31), Items: map[string]float64{
			"Total Assets": 300,
			"Cash":         30,
		}},
		{EndDate: date(2021, 12, 31), Items: map[string]float64{
			"Total Assets": 100,
			"Cash":         10,
			"Inventory":    5,
		}},
		{EndDate: date(2022, 12, 31), Items: map[string]float64{
			"Total Assets": 200,
		}},
	}

	snap := NormalizeStatement(raw)

	years := snap.Years()
	if len(years) != 3 || years[0] != 2021 || years[2] != 2023 {
		t.Fatalf("years not ascending: %v", years)
	}

	assets, ok := snap.Resolve("Total Assets")
	if !ok {
		t.Fatal("Total Assets missing")
	}
	if got := assets.At(2022).Or(0); got != 200 {
		t.Errorf("assets 2022: got %v, want 200", got)
	}

	// Inventory exists for 2021 only; the 2022/2023 cells must be absent,
	// not zero.
	inv, ok := snap.Resolve("Inventory")
	if !ok {
		t.Fatal("Inventory missing")
	}
	if inv.At(2022).IsSome() || inv.At(2023).IsSome() {
		t.Error("uncovered inventory years should be absent")
	}
}

func TestNormalizeStatementDropsAllAbsentRows(t *testing.T) {
	nan := 0.0
	nan = nan / nan
	raw := []models.StatementPeriod{
		{EndDate: date(2022, 12, 31), Items: map[string]float64{"Goodwill": nan, "Cash": 10}},
	}
	snap := NormalizeStatement(raw)
	if _, ok := snap.Resolve("Goodwill"); ok {
		t.Error("row with no finite value should be dropped")
	}
	if _, ok := snap.Resolve("Cash"); !ok {
		t.Error("Cash should survive")
	}
}

func TestResolveAliasPriority(t *testing.T) {
	raw := []models.StatementPeriod{
		{EndDate: date(2022, 12, 31), Items: map[string]float64{
			"Cash":                     10,
			"Cash And Cash Equivalents": 12,
		}},
	}
	snap := NormalizeStatement(raw)

	fs, ok := snap.Resolve("Cash And Cash Equivalents", "Cash")
	if !ok {
		t.Fatal("expected a match")
	}
	if got := fs.At(2022).Or(0); got != 12 {
		t.Errorf("first alias must win: got %v, want 12", got)
	}

	fs, ok = snap.Resolve("Cash", "Cash And Cash Equivalents")
	if !ok || fs.At(2022).Or(0) != 10 {
		t.Error("reversed priority must select the other series")
	}

	if _, ok := snap.Resolve("Net Debt", "Total Debt"); ok {
		t.Error("no alias present should report absence")
	}
}

func TestNormalizePrices(t *testing.T) {
	bars := []models.Bar{
		{Date: date(2023, 2, 1), Close: 110},
		{Date: date(2023, 1, 1), Close: 100},
		{Date: date(2023, 1, 1), Close: 101}, // duplicate date, last wins
		{Date: date(2023, 3, 1), Close: 0},   // invalid close dropped
	}
	ps, err := NormalizePrices(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ps.Len() != 2 {
		t.Fatalf("got %d points, want 2", ps.Len())
	}
	if ps.First().Close != 101 {
		t.Errorf("duplicate date should keep last close, got %v", ps.First().Close)
	}
	if !ps.First().Date.Before(ps.Last().Date) {
		t.Error("dates must be strictly increasing")
	}
}

func TestNormalizePricesEmpty(t *testing.T) {
	if _, err := NormalizePrices(nil); !errors.Is(err, ErrNoData) {
		t.Errorf("empty bars: got %v, want ErrNoData", err)
	}
	if _, err := NormalizePrices([]models.Bar{{Date: date(2023, 1, 1), Close: -4}}); !errors.Is(err, ErrNoData) {
		t.Errorf("all-invalid bars: got %v, want ErrNoData", err)
	}
}

func TestNormalizeDividends(t *testing.T) {
	events := []models.DividendEvent{
		{Date: date(2021, 3, 10), Amount: 0.25},
		{Date: date(2021, 9, 10), Amount: 0.25},
		{Date: date(2022, 3, 10), Amount: 0.30},
	}
	annual := NormalizeDividends(events)
	if got := annual.At(2021).Or(0); got != 0.5 {
		t.Errorf("2021 sum: got %v, want 0.5", got)
	}
	if got := annual.At(2022).Or(0); got != 0.3 {
		t.Errorf("2022 sum: got %v, want 0.3", got)
	}

	empty := NormalizeDividends(nil)
	if !empty.Empty() {
		t.Error("no events should produce an empty series, not an error")
	}
}

func TestResampleMonthlyAndYearly(t *testing.T) {
	bars := []models.Bar{
		{Date: date(2022, 1, 5), Close: 10},
		{Date: date(2022, 1, 31), Close: 11},
		{Date: date(2022, 2, 10), Close: 12},
		{Date: date(2023, 1, 4), Close: 15},
	}
	ps, err := NormalizePrices(bars)
	if err != nil {
		t.Fatal(err)
	}

	monthly := ps.ResampleMonthly()
	if monthly.Len() != 3 {
		t.Fatalf("monthly: got %d points, want 3", monthly.Len())
	}
	if monthly.First().Close != 11 {
		t.Errorf("month-end close: got %v, want 11", monthly.First().Close)
	}

	yearly := ps.YearlyLastClose()
	if got := yearly.At(2022).Or(0); got != 12 {
		t.Errorf("yearly 2022: got %v, want 12", got)
	}
	if got := yearly.At(2023).Or(0); got != 15 {
		t.Errorf("yearly 2023: got %v, want 15", got)
	}
}

func TestRestrictAndWindow(t *testing.T) {
	fs := MakeFinancialSeries(map[int]Value{
		2018: Some(1), 2019: Some(2), 2020: Some(3), 2021: Some(4),
	})
	win := fs.Restrict(2019, 2020)
	if win.Len() != 2 {
		t.Fatalf("restricted length: got %d, want 2", win.Len())
	}
	if win.Has(2018) || win.Has(2021) {
		t.Error("years outside the window must be excluded")
	}
}
