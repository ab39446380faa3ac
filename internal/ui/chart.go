package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jlazear/pyoscope/internal/oscope"
)

// axisGutter is the character width reserved for y-axis labels.
const axisGutter = 10

// brailleBits maps a sub-cell pixel position to its dot bit. A braille
// cell packs a 2x4 pixel patch into one rune starting at U+2800.
var brailleBits = [2][4]int{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// renderChart draws all series of the plot into a width x height cell
// grid using braille pixels, with y-axis labels in a left gutter and an
// x-range line underneath.
func renderChart(plot oscope.Plot, width, height int, theme Theme) string {
	styles := theme.Styles()
	plotW := width - axisGutter
	if plotW < 4 || height < 3 {
		return styles.MutedText.Render("terminal too small")
	}
	chartH := height - 1 // last line holds the x range

	xmin, xmax, ymin, ymax, ok := plotBounds(plot)
	if !ok {
		return styles.MutedText.Render("waiting for data...")
	}

	// Pixel grid: 2x4 braille dots per cell.
	pw, ph := plotW*2, chartH*4
	colorOf := make([]int, chartH*plotW)
	cells := make([]int, chartH*plotW)
	for i := range colorOf {
		colorOf[i] = -1
	}

	toPx := func(x, y float64) (int, int) {
		px := int(math.Round((x - xmin) / (xmax - xmin) * float64(pw-1)))
		py := int(math.Round((ymax - y) / (ymax - ymin) * float64(ph-1)))
		return px, py
	}
	setDot := func(px, py, series int) {
		if px < 0 || px >= pw || py < 0 || py >= ph {
			return
		}
		idx := (py/4)*plotW + px/2
		cells[idx] |= brailleBits[px%2][py%4]
		colorOf[idx] = series
	}

	for si, s := range plot.Series {
		prevOK := false
		var prevX, prevY int
		for k := range s.Y {
			if k >= len(s.X) || !finite(s.X[k]) || !finite(s.Y[k]) {
				prevOK = false
				continue
			}
			px, py := toPx(s.X[k], s.Y[k])
			if prevOK {
				drawLine(prevX, prevY, px, py, si, setDot)
			} else {
				setDot(px, py, si)
			}
			prevX, prevY = px, py
			prevOK = true
		}
	}

	palette := theme.SeriesColors(len(plot.Series))
	seriesStyles := make([]lipgloss.Style, len(palette))
	for i, c := range palette {
		seriesStyles[i] = lipgloss.NewStyle().Foreground(c)
	}

	var b strings.Builder
	for row := 0; row < chartH; row++ {
		b.WriteString(styles.Axis.Render(yLabel(row, chartH, ymin, ymax)))
		// Group consecutive same-color cells into one styled run.
		runColor := colorOf[row*plotW]
		var run strings.Builder
		flush := func() {
			if run.Len() == 0 {
				return
			}
			text := run.String()
			if runColor >= 0 {
				b.WriteString(seriesStyles[runColor].Render(text))
			} else {
				b.WriteString(text)
			}
			run.Reset()
		}
		for col := 0; col < plotW; col++ {
			idx := row*plotW + col
			if colorOf[idx] != runColor {
				flush()
				runColor = colorOf[idx]
			}
			if cells[idx] == 0 {
				run.WriteRune(' ')
			} else {
				run.WriteRune(rune(0x2800 + cells[idx]))
			}
		}
		flush()
		b.WriteString("\n")
	}

	xLeft := formatTick(xmin)
	xRight := formatTick(xmax)
	pad := plotW - len(xLeft) - len(xRight)
	if pad < 1 {
		pad = 1
	}
	b.WriteString(styles.Axis.Render(strings.Repeat(" ", axisGutter) + xLeft + strings.Repeat(" ", pad) + xRight))
	return b.String()
}

// renderLegend lists series names in their line colors.
func renderLegend(plot oscope.Plot, theme Theme) string {
	if len(plot.Series) == 0 {
		return ""
	}
	palette := theme.SeriesColors(len(plot.Series))
	parts := make([]string, len(plot.Series))
	for i, s := range plot.Series {
		style := lipgloss.NewStyle().Foreground(palette[i])
		parts[i] = style.Render("── " + s.Name)
	}
	return strings.Join(parts, "   ")
}

// plotBounds computes the finite extent of all series.
func plotBounds(plot oscope.Plot) (xmin, xmax, ymin, ymax float64, ok bool) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for _, s := range plot.Series {
		for k := range s.Y {
			if k >= len(s.X) || !finite(s.X[k]) || !finite(s.Y[k]) {
				continue
			}
			xmin = math.Min(xmin, s.X[k])
			xmax = math.Max(xmax, s.X[k])
			ymin = math.Min(ymin, s.Y[k])
			ymax = math.Max(ymax, s.Y[k])
			ok = true
		}
	}
	if !ok {
		return 0, 0, 0, 0, false
	}
	// Degenerate ranges still need a drawable span.
	if xmax == xmin {
		xmin, xmax = xmin-1, xmax+1
	}
	if ymax == ymin {
		span := math.Abs(ymin) * 0.1
		if span == 0 {
			span = 1
		}
		ymin, ymax = ymin-span, ymax+span
	}
	return xmin, xmax, ymin, ymax, true
}

// drawLine rasterizes the segment between two pixel points.
func drawLine(x0, y0, x1, y1, series int, set func(x, y, series int)) {
	steps := maxInt(absInt(x1-x0), absInt(y1-y0))
	if steps == 0 {
		set(x0, y0, series)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x0 + int(math.Round(t*float64(x1-x0)))
		y := y0 + int(math.Round(t*float64(y1-y0)))
		set(x, y, series)
	}
}

// yLabel renders the axis value for a chart row, right-aligned in the
// gutter. Only the top, middle, and bottom rows get values.
func yLabel(row, rows int, ymin, ymax float64) string {
	var text string
	switch row {
	case 0:
		text = formatTick(ymax)
	case rows - 1:
		text = formatTick(ymin)
	case (rows - 1) / 2:
		text = formatTick((ymax + ymin) / 2)
	}
	if text == "" {
		return strings.Repeat(" ", axisGutter)
	}
	return fmt.Sprintf("%*s ", axisGutter-1, text)
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
