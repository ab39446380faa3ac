package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader shows the source file and axis selection.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	title := styles.Title.Render("pyoscope")
	source := styles.Text.Render(filepath.Base(m.session.Path()))

	axes := m.plot.XName
	if axes == "" {
		axes = "index"
	}
	names := make([]string, len(m.plot.Series))
	for i, s := range m.plot.Series {
		names[i] = s.Name
	}
	if len(names) > 0 {
		axes = fmt.Sprintf("%s vs %s", strings.Join(names, ","), axes)
	}

	line := fmt.Sprintf("%s  %s  %s", title, source, styles.MutedText.Render(axes))
	return styles.Header.Width(m.width).Render(line)
}

// renderStatus shows row count, window, parse errors, and watcher health.
func (m Model) renderStatus() string {
	styles := m.theme.Styles()

	parts := []string{
		fmt.Sprintf("%d rows", m.plot.Rows),
	}
	if m.window > 0 {
		parts = append(parts, fmt.Sprintf("window %d", m.window))
	} else {
		parts = append(parts, "full history")
	}
	if m.plot.ParseErrors > 0 {
		parts = append(parts, styles.WarnText.Render(fmt.Sprintf("%d parse errors", m.plot.ParseErrors)))
	}
	switch {
	case m.plotErr != nil:
		parts = append(parts, styles.DangerText.Render(m.plotErr.Error()))
	case m.plot.LastError != nil:
		parts = append(parts, styles.DangerText.Render(m.plot.LastError.Error()))
	}
	if m.paused {
		parts = append(parts, styles.WarnText.Render("PAUSED"))
	}

	left := strings.Join(parts, "  ·  ")
	right := m.help.ShortHelpView(m.keys.ShortHelp())

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		return styles.Footer.Width(m.width).Render(left)
	}
	return styles.Footer.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}
