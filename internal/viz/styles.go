package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Styles is the set of lipgloss styles derived from a theme.
type Styles struct {
	Canvas    lipgloss.Style
	Panel     lipgloss.Style
	Header    lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Graph     lipgloss.Style
	Help      lipgloss.Style
	Running   lipgloss.Style
	Paused    lipgloss.Style
	Recording lipgloss.Style
	Alert     lipgloss.Style

	SparkHigh, SparkMid, SparkLow lipgloss.Style
}

// canvas padding in cells; mouse coordinates are offset by it
const (
	padTop  = 1
	padLeft = 2
)

func NewStyles(t Theme) Styles {
	return Styles{
		Canvas: lipgloss.NewStyle().Padding(padTop, 1, 0, padLeft),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(panelWidth),
		Header:    lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		Label:     lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		Value:     lipgloss.NewStyle().Foreground(t.Text),
		Graph:     lipgloss.NewStyle().Foreground(t.Secondary).Padding(1, 0),
		Help:      lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		Running:   lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Paused:    lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		Recording: lipgloss.NewStyle().Bold(true).Foreground(t.Error).Blink(true),
		Alert:     lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		SparkHigh: lipgloss.NewStyle().Foreground(t.Success),
		SparkMid:  lipgloss.NewStyle().Foreground(t.Warning),
		SparkLow:  lipgloss.NewStyle().Foreground(t.Error),
	}
}

// GradientText colours each rune of text along a blend from start to end.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	a, err := colorful.Hex(string(start))
	if err != nil {
		return text
	}
	b, err := colorful.Hex(string(end))
	if err != nil {
		return text
	}

	var result strings.Builder
	for i, c := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		col := lipgloss.Color(a.BlendLab(b, t).Clamped().Hex())
		result.WriteString(lipgloss.NewStyle().Foreground(col).Render(string(c)))
	}
	return result.String()
}

// ProgressBar renders how full a quantity is, coloured by level.
func (s Styles) ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	if percent > 0.8 {
		return s.SparkLow.Render(bar)
	} else if percent > 0.4 {
		return s.SparkMid.Render(bar)
	}
	return s.SparkHigh.Render(bar)
}

// Sparkline renders the last width values as a one-line bar chart.
func (s Styles) Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var result strings.Builder
	for _, v := range values {
		norm := (v - lo) / rng
		idx := int(norm * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))

		c := string(chars[idx])
		switch {
		case norm > 0.7:
			result.WriteString(s.SparkHigh.Render(c))
		case norm > 0.3:
			result.WriteString(s.SparkMid.Render(c))
		default:
			result.WriteString(s.SparkLow.Render(c))
		}
	}
	return result.String()
}

// Separator is a muted divider line.
func (s Styles) Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return s.Help.UnsetMarginTop().Render(left + " ◆ " + right)
}
