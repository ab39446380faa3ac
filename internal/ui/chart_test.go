package ui

import (
	"math"
	"strings"
	"testing"

	"github.com/jlazear/pyoscope/internal/oscope"
)

func testPlot() oscope.Plot {
	return oscope.Plot{
		XName: "t",
		Rows:  4,
		Series: []oscope.Series{
			{Name: "a", X: []float64{0, 1, 2, 3}, Y: []float64{0, 1, 2, 3}},
			{Name: "b", X: []float64{0, 1, 2, 3}, Y: []float64{3, 2, 1, 0}},
		},
	}
}

func TestRenderChartEmptyPlot(t *testing.T) {
	out := renderChart(oscope.Plot{}, 80, 20, GetTheme("Dracula"))
	if !strings.Contains(out, "waiting for data") {
		t.Errorf("renderChart() = %q, want waiting message", out)
	}
}

func TestRenderChartTooSmall(t *testing.T) {
	out := renderChart(testPlot(), 8, 2, GetTheme("Dracula"))
	if !strings.Contains(out, "terminal too small") {
		t.Errorf("renderChart() = %q, want size message", out)
	}
}

func TestRenderChartShape(t *testing.T) {
	const width, height = 60, 12
	out := renderChart(testPlot(), width, height, GetTheme("Dracula"))

	lines := strings.Split(out, "\n")
	if len(lines) != height {
		t.Fatalf("renderChart() produced %d lines, want %d", len(lines), height)
	}

	hasDots := false
	for _, r := range out {
		if r >= 0x2800 && r <= 0x28FF {
			hasDots = true
			break
		}
	}
	if !hasDots {
		t.Error("renderChart() drew no braille dots for non-empty series")
	}

	// Axis extremes appear somewhere in the output.
	if !strings.Contains(out, "3") || !strings.Contains(out, "0") {
		t.Errorf("renderChart() missing axis labels: %q", out)
	}
}

func TestRenderChartFlatSeries(t *testing.T) {
	plot := oscope.Plot{
		Series: []oscope.Series{
			{Name: "v", X: []float64{0, 1, 2}, Y: []float64{5, 5, 5}},
		},
	}
	out := renderChart(plot, 50, 10, GetTheme("Dracula"))
	if strings.Contains(out, "waiting") {
		t.Error("flat series should still render")
	}
}

func TestRenderLegend(t *testing.T) {
	out := renderLegend(testPlot(), GetTheme("Dracula"))
	if !strings.Contains(out, "a") || !strings.Contains(out, "b") {
		t.Errorf("renderLegend() = %q, want both series names", out)
	}
	if renderLegend(oscope.Plot{}, GetTheme("Dracula")) != "" {
		t.Error("renderLegend() on empty plot should be empty")
	}
}

func TestPlotBoundsSkipsNaN(t *testing.T) {
	plot := oscope.Plot{
		Series: []oscope.Series{
			{Name: "v", X: []float64{0, 1, 2}, Y: []float64{1, math.NaN(), 3}},
		},
	}
	xmin, xmax, ymin, ymax, ok := plotBounds(plot)
	if !ok {
		t.Fatal("plotBounds() ok = false")
	}
	if xmin != 0 || xmax != 2 || ymin != 1 || ymax != 3 {
		t.Errorf("plotBounds() = %v %v %v %v, want 0 2 1 3", xmin, xmax, ymin, ymax)
	}
}
