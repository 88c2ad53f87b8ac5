package output

import (
	"fmt"
	"strings"
)

// ProgressBar renders a bar for a 0-100 percentage followed by the rounded
// value, e.g. "████████░░ 80%".
func ProgressBar(percent float64, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := int((percent / 100.0) * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := StyleSuccess.Render(strings.Repeat("█", filled)) + StyleMuted.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %s", bar, StyleMuted.Render(fmt.Sprintf("%.0f%%", percent)))
}

// QualityBar renders a 0-100 quality score colored by its band.
func QualityBar(score int, width int) string {
	if width <= 0 {
		width = 10
	}
	filled := score * width / 100
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	style := StyleError
	switch {
	case score >= 80:
		style = StyleSuccess
	case score >= 60:
		style = StyleWarning
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %s", style.Render(bar), StyleMuted.Render(fmt.Sprintf("%d/100", score)))
}

// TrendArrow returns a styled indicator for a signed percentage-point
// change. Zero renders as empty.
func TrendArrow(delta float64) string {
	switch {
	case delta > 0:
		return StyleSuccess.Render(fmt.Sprintf("▲ (+%g%%)", delta))
	case delta < 0:
		return StyleError.Render(fmt.Sprintf("▼ (%g%%)", delta))
	default:
		return ""
	}
}

// Dots renders filled out of total dots, e.g. "●●●○".
func Dots(filled, total int) string {
	if filled > total {
		filled = total
	}
	if filled < 0 {
		filled = 0
	}
	return StyleSuccess.Render(strings.Repeat("●", filled)) + StyleMuted.Render(strings.Repeat("○", total-filled))
}

// Badge renders a short bracketed label in the warning color.
func Badge(label string) string {
	return StyleWarning.Render("[" + label + "]")
}

// Section returns a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}
