package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/leonardotrapani/quotevoice/internal/metrics"
	"github.com/leonardotrapani/quotevoice/internal/quotelog"
	"github.com/leonardotrapani/quotevoice/internal/session"
)

const (
	maxNumberWidth = 24
	maxQuoteWidth  = 48
)

// shortNumber keeps huge powers readable: leading digits plus the digit count.
func shortNumber(s string) string {
	digits := strings.TrimPrefix(s, "-")
	if len(digits) <= maxNumberWidth {
		return s
	}
	sign := s[:len(s)-len(digits)]
	return fmt.Sprintf("%s%s… (%d digits)", sign, digits[:12], len(digits))
}

func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

func card(label, value string) string {
	return StyleCard.Render(StyleMuted.Render(label) + "\n" + StyleCardValue.Render(value))
}

// MetricsView renders the results row shown after a submission.
func MetricsView(m metrics.Metrics, exponent int) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Words", strconv.Itoa(m.WordCount)),
		card(fmt.Sprintf("Power (words^%d)", exponent), shortNumber(m.PowerString())),
		card("Difference", shortNumber(m.DifferenceString())),
	)
}

// LogView renders the stored quote log as a table, oldest first.
func LogView(t quotelog.Table) string {
	if len(t) == 0 {
		return StyleSubtle.Render("No quotes saved yet. Submit one to start the log.")
	}

	rows := make([][]string, 0, len(t))
	for _, e := range t {
		rows = append(rows, []string{
			e.Timestamp.Format(quotelog.TimeLayout),
			truncate(e.Quote, maxQuoteWidth),
			strconv.Itoa(e.Metrics.WordCount),
			shortNumber(e.Metrics.PowerString()),
			shortNumber(e.Metrics.DifferenceString()),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorSubtle)).
		Headers(quotelog.Header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return StyleTableHeader
			case col >= 2:
				return StyleTableNumber
			default:
				return StyleTableCell
			}
		}).
		String()
}

// statusLine describes the recording widget for the header.
func statusLine(st session.State) string {
	switch {
	case st.AudioPayload != nil && session.Fingerprint(st.AudioPayload) == st.LastAudioFingerprint:
		return StyleMuted.Render("Recording already transcribed")
	case st.AudioPayload != nil:
		return StyleWarning.Render(fmt.Sprintf("Recording ready (%d bytes), transcribing on next pass", len(st.AudioPayload)))
	default:
		return StyleMuted.Render("No recording. Record from the microphone or load a WAV file.")
	}
}

// exponentOptions lists every exponent between lo and hi inclusive.
func exponentOptions(lo, hi int) []huh.Option[int] {
	if lo < 0 {
		lo = 0
	}
	if hi < lo {
		hi = lo
	}
	options := make([]huh.Option[int], 0, hi-lo+1)
	for e := lo; e <= hi; e++ {
		label := strconv.Itoa(e)
		if e == 2 {
			label += " (square)"
		}
		options = append(options, huh.NewOption(label, e))
	}
	return options
}

// clampExponent keeps the configured default inside the offered range.
func clampExponent(e, lo, hi int) int {
	if e < lo {
		return lo
	}
	if e > hi {
		return hi
	}
	return e
}
