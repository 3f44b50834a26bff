// Package report renders analysis results for the API and the CLI: SVG
// charts for the dashboard endpoints, and text tables for the terminal.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dividup/dividup/pkg/models"
)

// ChartConfig holds rendering parameters for SVG charts.
type ChartConfig struct {
	Width        int
	Height       int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	MarginLeft   int
	BgColor      string
	GridColor    string
	TextColor    string
	FontSize     int
	Title        string
}

// DefaultChartConfig returns sensible defaults for chart rendering.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:        800,
		Height:       400,
		MarginTop:    40,
		MarginRight:  60,
		MarginBottom: 50,
		MarginLeft:   70,
		BgColor:      "#ffffff",
		GridColor:    "#e8e8e8",
		TextColor:    "#333333",
		FontSize:     11,
	}
}

// plotArea returns the usable drawing area dimensions.
func (c ChartConfig) plotArea() (x, y, w, h int) {
	return c.MarginLeft, c.MarginTop,
		c.Width - c.MarginLeft - c.MarginRight,
		c.Height - c.MarginTop - c.MarginBottom
}

// ════════════════════════════════════════════════════════════════════
// Date-indexed Line Chart
// ════════════════════════════════════════════════════════════════════

// TimeLine is a named date-indexed series for line charts. Series on the
// same chart may have different date grids (daily closes vs yearly bands):
// each is positioned on a shared time axis.
type TimeLine struct {
	Name   string
	Series models.TimeSeries
	Color  string // hex color (auto-assigned if empty)
	Dashed bool
}

// TimeLineChart generates an SVG line chart from one or more date-indexed
// series, with a shared time X-axis.
func TimeLineChart(lines []TimeLine, cfg ChartConfig) string {
	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}

	lines = nonEmpty(lines)
	if len(lines) == 0 {
		return emptySVG(cfg, "No data available")
	}

	px, py, pw, ph := cfg.plotArea()

	minT, maxT := timeBounds(lines)
	tRange := maxT.Sub(minT)
	if tRange <= 0 {
		tRange = 24 * time.Hour
	}

	minVal, maxVal := math.MaxFloat64, -math.MaxFloat64
	for _, l := range lines {
		for _, v := range l.Series.Values {
			if math.IsNaN(v) {
				continue
			}
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}
	vRange := maxVal - minVal
	if vRange < 0.001 {
		vRange = 1
	}
	minVal -= vRange * 0.05
	maxVal += vRange * 0.05
	vRange = maxVal - minVal

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	// Y-axis grid
	gridLines := 5
	for i := 0; i <= gridLines; i++ {
		val := minVal + vRange*float64(i)/float64(gridLines)
		y := py + ph - int(float64(ph)*float64(i)/float64(gridLines))
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-dasharray="3,3"/>`,
			px, y, px+pw, y, cfg.GridColor))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="end">%.2f</text>`,
			px-5, y+4, cfg.FontSize, cfg.TextColor, val))
	}

	xOf := func(t time.Time) float64 {
		return float64(px) + float64(t.Sub(minT))/float64(tRange)*float64(pw)
	}
	yOf := func(v float64) float64 {
		return float64(py+ph) - (v-minVal)/vRange*float64(ph)
	}

	defaultColors := []string{"#2196f3", "#ff9800", "#4caf50", "#e91e63", "#9c27b0", "#00bcd4"}
	for li, l := range lines {
		color := l.Color
		if color == "" {
			color = defaultColors[li%len(defaultColors)]
		}

		var pathParts []string
		for i, v := range l.Series.Values {
			if math.IsNaN(v) {
				continue
			}
			cmd := "L"
			if len(pathParts) == 0 {
				cmd = "M"
			}
			pathParts = append(pathParts, fmt.Sprintf("%s%.1f,%.1f", cmd, xOf(l.Series.Dates[i]), yOf(v)))
		}
		if len(pathParts) > 1 {
			dash := ""
			if l.Dashed {
				dash = ` stroke-dasharray="6,4"`
			}
			sb.WriteString(fmt.Sprintf(`<path d="%s" fill="none" stroke="%s" stroke-width="2"%s/>`,
				strings.Join(pathParts, " "), color, dash))
		}

		// Legend
		ly := py + 10 + li*16
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="2"/>`,
			px+10, ly, px+30, ly, color))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="10" fill="%s">%s</text>`,
			px+35, ly+4, cfg.TextColor, escapeXML(l.Name)))
	}

	// X-axis date labels
	labelCount := 6
	for i := 0; i <= labelCount; i++ {
		t := minT.Add(time.Duration(float64(tRange) * float64(i) / float64(labelCount)))
		x := xOf(t)
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
			x, py+ph+18, cfg.FontSize-1, cfg.TextColor, t.Format("Jan 06")))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func nonEmpty(lines []TimeLine) []TimeLine {
	out := lines[:0]
	for _, l := range lines {
		if l.Series.Len() > 0 {
			out = append(out, l)
		}
	}
	return out
}

func timeBounds(lines []TimeLine) (time.Time, time.Time) {
	minT, maxT := lines[0].Series.Dates[0], lines[0].Series.Dates[0]
	for _, l := range lines {
		for _, t := range l.Series.Dates {
			if t.Before(minT) {
				minT = t
			}
			if t.After(maxT) {
				maxT = t
			}
		}
	}
	return minT, maxT
}

// ════════════════════════════════════════════════════════════════════
// Dashboard Charts
// ════════════════════════════════════════════════════════════════════

// PriceChart plots the daily close series.
func PriceChart(a *models.Analysis, cfg ChartConfig) string {
	if cfg.Title == "" {
		cfg.Title = a.Ticker + " Price"
	}
	return TimeLineChart([]TimeLine{
		{Name: "Close", Series: a.Price, Color: "#2196f3"},
	}, cfg)
}

// WeissChart plots the close series against the yield-derived valuation
// bands: the undervalued band (green) below, the overvalued band (red)
// above.
func WeissChart(a *models.Analysis, cfg ChartConfig) string {
	if cfg.Title == "" {
		cfg.Title = a.Ticker + " Yield Bands"
	}
	if a.Weiss == nil {
		return emptySVG(cfg, "Not enough dividend history")
	}
	return TimeLineChart([]TimeLine{
		{Name: "Close", Series: a.Price, Color: "#2196f3"},
		{Name: "Overvalued", Series: a.Weiss.StepOvervalued, Color: "#ef5350", Dashed: true},
		{Name: "Undervalued", Series: a.Weiss.StepUndervalued, Color: "#4caf50", Dashed: true},
	}, cfg)
}

// DrawdownChart plots the drawdown-from-peak series in percent.
func DrawdownChart(a *models.Analysis, cfg ChartConfig) string {
	if cfg.Title == "" {
		cfg.Title = a.Ticker + " Drawdown (%)"
	}
	return TimeLineChart([]TimeLine{
		{Name: "Drawdown", Series: a.Drawdown, Color: "#ef5350"},
	}, cfg)
}

// YieldChart plots the historical dividend yield in percent.
func YieldChart(a *models.Analysis, cfg ChartConfig) string {
	if cfg.Title == "" {
		cfg.Title = a.Ticker + " Dividend Yield (%)"
	}
	return TimeLineChart([]TimeLine{
		{Name: "Yield", Series: a.YieldHistory, Color: "#9c27b0"},
	}, cfg)
}

// DividendsChart renders annual dividend totals as vertical bars.
func DividendsChart(a *models.Analysis, cfg ChartConfig) string {
	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if cfg.Title == "" {
		cfg.Title = a.Ticker + " Annual Dividends"
	}

	years, values := presentYears(a.AnnualDividends)
	if len(years) == 0 {
		return emptySVG(cfg, "No dividend history")
	}

	px, py, pw, ph := cfg.plotArea()

	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal < 0.001 {
		maxVal = 1
	}
	maxVal *= 1.1

	n := len(years)
	slot := float64(pw) / float64(n)
	barW := slot * 0.6
	if barW > 60 {
		barW = 60
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	// Y-axis grid
	for i := 0; i <= 5; i++ {
		val := maxVal * float64(i) / 5
		y := py + ph - int(float64(ph)*float64(i)/5)
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-dasharray="3,3"/>`,
			px, y, px+pw, y, cfg.GridColor))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="end">%.2f</text>`,
			px-5, y+4, cfg.FontSize, cfg.TextColor, val))
	}

	for i, y := range years {
		v := values[i]
		bh := v / maxVal * float64(ph)
		bx := float64(px) + float64(i)*slot + (slot-barW)/2
		by := float64(py+ph) - bh
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#4caf50" rx="2"/>`,
			bx, by, barW, bh))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="middle">%d</text>`,
			bx+barW/2, py+ph+18, cfg.FontSize, cfg.TextColor, y))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%d" fill="%s" text-anchor="middle">%.2f</text>`,
			bx+barW/2, by-4, cfg.FontSize-1, cfg.TextColor, v))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SustainabilityChart renders free cash flow against dividends paid as
// paired bars per fiscal year. Dividends rising above FCF is the visual
// cue the chart exists for.
func SustainabilityChart(a *models.Analysis, cfg ChartConfig) string {
	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if cfg.Title == "" {
		cfg.Title = a.Ticker + " FCF vs Dividends"
	}

	fcf := a.Sustainability.Row("Free Cash Flow")
	div := a.Sustainability.Row("Dividends Paid")
	if fcf == nil || div == nil {
		return emptySVG(cfg, "Cash flow data unavailable")
	}
	years := a.Sustainability.Years

	px, py, pw, ph := cfg.plotArea()

	maxVal := 0.0
	for i := range years {
		for _, v := range [2]*float64{fcf.Values[i], div.Values[i]} {
			if v != nil && *v > maxVal {
				maxVal = *v
			}
		}
	}
	if maxVal < 0.001 {
		return emptySVG(cfg, "Cash flow data unavailable")
	}
	maxVal *= 1.1

	n := len(years)
	slot := float64(pw) / float64(n)
	barW := slot * 0.3
	if barW > 40 {
		barW = 40
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	for i := 0; i <= 5; i++ {
		val := maxVal * float64(i) / 5
		y := py + ph - int(float64(ph)*float64(i)/5)
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-dasharray="3,3"/>`,
			px, y, px+pw, y, cfg.GridColor))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="end">%.1f</text>`,
			px-5, y+4, cfg.FontSize, cfg.TextColor, val/1e9))
	}

	drawBar := func(i int, v *float64, offset float64, color string) {
		if v == nil || *v <= 0 {
			return
		}
		bh := *v / maxVal * float64(ph)
		bx := float64(px) + float64(i)*slot + slot/2 + offset
		by := float64(py+ph) - bh
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" rx="2"/>`,
			bx, by, barW, bh, color))
	}

	for i, y := range years {
		drawBar(i, fcf.Values[i], -barW, "#2196f3")
		drawBar(i, div.Values[i], 0, "#ff9800")
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="middle">%d</text>`,
			float64(px)+float64(i)*slot+slot/2, py+ph+18, cfg.FontSize, cfg.TextColor, y))
	}

	// Legend
	sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="12" height="12" fill="#2196f3"/>`, px+10, py+5))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="10" fill="%s">Free Cash Flow (bn)</text>`, px+27, py+15, cfg.TextColor))
	sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="12" height="12" fill="#ff9800"/>`, px+10, py+22))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="10" fill="%s">Dividends Paid (bn)</text>`, px+27, py+32, cfg.TextColor))

	sb.WriteString("</svg>")
	return sb.String()
}

func presentYears(ys models.YearSeries) ([]int, []float64) {
	var years []int
	var values []float64
	for i, y := range ys.Years {
		if ys.Values[i] == nil {
			continue
		}
		years = append(years, y)
		values = append(values, *ys.Values[i])
	}
	return years, values
}

// ════════════════════════════════════════════════════════════════════
// Chart Dispatch
// ════════════════════════════════════════════════════════════════════

// ErrUnknownChart is returned by RenderChart for unrecognized chart names.
var ErrUnknownChart = fmt.Errorf("unknown chart")

var chartRenderers = map[string]func(*models.Analysis, ChartConfig) string{
	"price":          PriceChart,
	"weiss":          WeissChart,
	"drawdown":       DrawdownChart,
	"yield":          YieldChart,
	"dividends":      DividendsChart,
	"sustainability": SustainabilityChart,
}

// ChartNames lists the available chart identifiers, sorted.
func ChartNames() []string {
	names := make([]string, 0, len(chartRenderers))
	for name := range chartRenderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RenderChart renders the named chart for an analysis as an SVG document.
func RenderChart(a *models.Analysis, name string, cfg ChartConfig) (string, error) {
	render, ok := chartRenderers[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
	return render(a, cfg), nil
}

// ════════════════════════════════════════════════════════════════════
// SVG Helpers
// ════════════════════════════════════════════════════════════════════

func svgHeader(cfg ChartConfig) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)
}

func emptySVG(cfg ChartConfig, msg string) string {
	if cfg.Width == 0 {
		cfg.Width = 400
	}
	if cfg.Height == 0 {
		cfg.Height = 200
	}
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="%d" height="%d" fill="#f5f5f5"/><text x="%d" y="%d" text-anchor="middle" fill="#999" font-size="14">%s</text></svg>`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height, cfg.Width/2, cfg.Height/2, escapeXML(msg))
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
