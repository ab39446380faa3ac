package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme defines colors and styles for the viewer.
type Theme struct {
	Name string

	Background string
	Surface    string
	Text       string
	Muted      string
	Faint      string
	Accent     string
	Success    string
	Warning    string
	Danger     string

	// Series palette parameters: starting hue plus saturation and
	// value for the HSV ramp the chart colors lines with.
	SeriesHue        float64
	SeriesSaturation float64
	SeriesValue      float64
}

// Styles contains pre-built lipgloss styles for the theme.
type Styles struct {
	Header     lipgloss.Style
	Footer     lipgloss.Style
	Title      lipgloss.Style
	Text       lipgloss.Style
	MutedText  lipgloss.Style
	AccentText lipgloss.Style
	OKText     lipgloss.Style
	WarnText   lipgloss.Style
	DangerText lipgloss.Style
	Axis       lipgloss.Style
}

// Styles returns lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),

		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),

		OKText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),

		WarnText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		Axis: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Faint)),
	}
}

// SeriesColors returns n visually distinct line colors by walking the
// hue circle from the theme's starting hue.
func (t Theme) SeriesColors(n int) []lipgloss.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]lipgloss.Color, n)
	for i := 0; i < n; i++ {
		hue := t.SeriesHue + float64(i)*360.0/float64(n)
		for hue >= 360 {
			hue -= 360
		}
		c := colorful.Hsv(hue, t.SeriesSaturation, t.SeriesValue)
		colors[i] = lipgloss.Color(c.Hex())
	}
	return colors
}

var themes = map[string]Theme{
	"Dracula": {
		Name:       "Dracula",
		Background: "#282A36",
		Surface:    "#44475A",
		Text:       "#F8F8F2",
		Muted:      "#6272A4",
		Faint:      "#44475A",
		Accent:     "#BD93F9",
		Success:    "#50FA7B",
		Warning:    "#F1FA8C",
		Danger:     "#FF5555",

		SeriesHue:        135,
		SeriesSaturation: 0.65,
		SeriesValue:      0.95,
	},
	"Phosphor": {
		Name:       "Phosphor",
		Background: "#0A0F0A",
		Surface:    "#11331A",
		Text:       "#C8FACC",
		Muted:      "#3F7A4A",
		Faint:      "#1E4427",
		Accent:     "#33FF66",
		Success:    "#33FF66",
		Warning:    "#CCFF33",
		Danger:     "#FF6644",

		SeriesHue:        110,
		SeriesSaturation: 0.85,
		SeriesValue:      1.0,
	},
	"Paper": {
		Name:       "Paper",
		Background: "#FAF6EE",
		Surface:    "#E8E0D0",
		Text:       "#33302A",
		Muted:      "#8A8270",
		Faint:      "#C8C0B0",
		Accent:     "#2255AA",
		Success:    "#227744",
		Warning:    "#AA7722",
		Danger:     "#AA2222",

		SeriesHue:        220,
		SeriesSaturation: 0.75,
		SeriesValue:      0.65,
	},
}

var themeOrder = []string{"Dracula", "Phosphor", "Paper"}

// GetTheme returns a theme by name, falling back to Dracula.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["Dracula"]
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}
