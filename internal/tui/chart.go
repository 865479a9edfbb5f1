package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"reportqa/internal/domain"
)

var (
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	pointStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderChart draws a chart as text rows, one per label. Bar charts fill
// up to the value; line charts mark the value with a point.
// Negative values are drawn from zero with the magnitude.
func RenderChart(c *domain.Chart, width int) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render(c.Title))
	b.WriteString("\n")
	if len(c.Labels) == 0 {
		b.WriteString(axisStyle.Render("(no data)"))
		return b.String()
	}

	labelW := 0
	for _, l := range c.Labels {
		labelW = max(labelW, lipgloss.Width(l))
	}
	maxAbs := 0.0
	for _, v := range c.Values {
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}
	plotW := max(10, width-labelW-16)

	for i, label := range c.Labels {
		v := c.Values[i]
		n := 0
		if maxAbs > 0 {
			n = int(math.Round(math.Abs(v) / maxAbs * float64(plotW)))
		}
		var plot string
		if c.Type == "line" {
			plot = strings.Repeat(" ", max(0, n-1)) + pointStyle.Render("●")
		} else {
			plot = barStyle.Render(strings.Repeat("█", n))
		}
		fmt.Fprintf(&b, "%s %s %s %s\n",
			lipgloss.NewStyle().Width(labelW).Render(label),
			axisStyle.Render("│"),
			plot,
			formatValue(v))
	}
	if c.XLabel != "" || c.YLabel != "" {
		b.WriteString(axisStyle.Render(strings.TrimSpace(fmt.Sprintf("x: %s  y: %s", c.XLabel, c.YLabel))))
		b.WriteString("\n")
	}
	return b.String()
}

func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
