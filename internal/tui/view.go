package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/gyro/internal/engine"
)

const barWidth = 40

var (
	targetStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	correctStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#73D13D"))
	wrongStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	dwellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cellStyle    = lipgloss.NewStyle().
			Width(cellWidth-2).
			Height(cellHeight-2).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(lipgloss.Color("#F0F0F0")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	focusCellStyle = cellStyle.BorderForeground(lipgloss.Color("#C89A3A"))
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.results != nil {
		return m.results.View()
	}
	vm := m.state.Snapshot()
	var lines []string
	if vm.Finished {
		lines = m.renderFinished(vm)
	} else {
		lines = append(m.renderHeader(vm), m.renderGrid(vm)...)
	}
	lines = append(lines, "", m.center(renderFooter(vm, m.state.Config().LevelBound)), m.center(m.help.View(m.keys)))
	return strings.Join(lines, "\n")
}

// renderHeader returns exactly headerLines lines.
func (m *Model) renderHeader(vm engine.ViewModel) []string {
	m.timer.Width = barWidth
	target := labelStyle.Render("Target ") + targetStyle.Render(string(vm.Target))
	timer := m.timer.ViewAs(vm.TimeFraction()) + " " + labelStyle.Render(formatRemaining(vm.Remaining))
	return []string{m.center(target), m.center(timer), ""}
}

func (m *Model) renderGrid(vm engine.ViewModel) []string {
	g := newGrid(len(vm.Candidates), m.width)
	pad := strings.Repeat(" ", g.originX)
	gap := strings.Repeat(" ", colGap)
	var lines []string
	for row := 0; row < g.rows; row++ {
		var cells []string
		for col := 0; col < g.cols; col++ {
			slot := row*g.cols + col
			if slot >= len(vm.Candidates) {
				break
			}
			if col > 0 {
				cells = append(cells, gap)
			}
			style, bar := cellStyle, ""
			if vm.Mode == engine.ModeDwell && slot == vm.Focus {
				style, bar = focusCellStyle, dwellBar(vm.DwellProgress())
			}
			cells = append(cells, style.Render("\n"+string(vm.Candidates[slot])+"\n"+bar))
		}
		if row > 0 {
			for i := 0; i < rowGap; i++ {
				lines = append(lines, "")
			}
		}
		for _, line := range strings.Split(lipgloss.JoinHorizontal(lipgloss.Top, cells...), "\n") {
			lines = append(lines, pad+line)
		}
	}
	return lines
}

// dwellBar fills the inner width of a cell in proportion to p.
func dwellBar(p float64) string {
	n := int(p * float64(cellWidth-2))
	return dwellStyle.Render(strings.Repeat("▮", n))
}

// formatRemaining renders d as ss:mmm.
func formatRemaining(d time.Duration) string {
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%03d", ms/1000, ms%1000)
}

func (m *Model) renderFinished(vm engine.ViewModel) []string {
	lines := []string{
		m.center(targetStyle.Render("Session over")),
		"",
		m.center(fmt.Sprintf("Correct %d · Incorrect %d · Missed %d",
			m.totals.Correct, m.totals.Incorrect, m.totals.Missed)),
	}
	for i, slot := range vm.Ledger {
		if !slot.Filled {
			continue
		}
		lines = append(lines, m.center(labelStyle.Render(fmt.Sprintf("Block %d: %d/%d/%d",
			i+1, slot.Tally.Correct, slot.Tally.Incorrect, slot.Tally.Missed))))
	}
	return lines
}

func (m *Model) center(s string) string {
	if m.width <= 0 {
		return s
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, s)
}

func renderFooter(vm engine.ViewModel, bound int) string {
	level := fmt.Sprintf("Level %d", vm.Level+1)
	if bound > 0 {
		level = fmt.Sprintf("Level %d/%d", min(vm.Level+1, bound), bound)
	}
	segments := []string{level}
	if len(vm.Ledger) > 0 || vm.Block > 0 {
		segments = append(segments, fmt.Sprintf("Block %d", vm.Block+1))
	}
	segments = append(segments,
		fmt.Sprintf("Timeout %.1fs", vm.Timeout.Seconds()),
		fmt.Sprintf("✓ %d ✗ %d ⌛ %d", vm.Tally.Correct, vm.Tally.Incorrect, vm.Tally.Missed),
	)
	footer := footerStyle.Render(strings.Join(segments, "  "))
	if vm.Last != nil {
		footer += "  " + renderVerdict(*vm.Last)
	}
	return footer
}

func renderVerdict(c engine.Conclusion) string {
	switch c.Outcome {
	case engine.Correct:
		return correctStyle.Render(fmt.Sprintf("Correct %dms", c.Reaction.Milliseconds()))
	case engine.Incorrect:
		return wrongStyle.Render("NO!!!")
	default:
		return wrongStyle.Render("Missed")
	}
}
