// Package statsui provides the Bubble Tea results browser.
package statsui

import (
	"bytes"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/gyro/internal/stats"
)

const (
	tabBlocks = iota
	tabSymbols
	tabReactions
)

// reactionWindow is the moving-average window of the reaction curve.
const reactionWindow = 5

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// CloseMsg is emitted when the user leaves the browser.
type CloseMsg struct{}

// Model implements the Bubble Tea results UI.
type Model struct {
	report stats.Report

	tabs      []string
	activeTab int
	tables    map[int]*table.Model
	reactions viewport.Model

	width  int
	height int
}

// NewModel constructs a results browser for report.
func NewModel(report stats.Report, width, height int) *Model {
	m := &Model{
		report:    report,
		tabs:      []string{"Blocks", "Symbols", "Reactions"},
		tables:    map[int]*table.Model{},
		reactions: viewport.New(0, 0),
	}
	blocks := newTable(stats.BlockHeaders, stats.BlockRows(report.Blocks))
	symbols := newTable(stats.SymbolHeaders, stats.SymbolRows(report.Symbols))
	m.tables[tabBlocks] = &blocks
	m.tables[tabSymbols] = &symbols
	m.resize(width, height)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "tab":
			return m, func() tea.Msg { return CloseMsg{} }
		case "left", "h":
			m.moveTab(-1)
			return m, nil
		case "right", "l":
			m.moveTab(1)
			return m, nil
		}
		if t, ok := m.tables[m.activeTab]; ok {
			var cmd tea.Cmd
			*t, cmd = t.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.reactions, cmd = m.reactions.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	if t, ok := m.tables[m.activeTab]; ok {
		body = t.View()
	} else {
		body = m.reactions.View()
	}
	help := helpStyle.Render("←/→ switch tab · ↑/↓ scroll · tab/esc back")
	return lipgloss.JoinVertical(lipgloss.Left, m.renderTabs(), body, help)
}

func (m *Model) moveTab(delta int) {
	n := len(m.tabs)
	m.activeTab = (m.activeTab + delta + n) % n
	for idx, t := range m.tables {
		if idx == m.activeTab {
			t.Focus()
		} else {
			t.Blur()
		}
	}
}

func (m *Model) renderTabs() string {
	rendered := make([]string, len(m.tabs))
	for i, name := range m.tabs {
		style := inactiveNavStyle
		if i == m.activeTab {
			style = activeNavStyle
		}
		rendered[i] = style.Render(name)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	// tabs take three lines, help one
	bodyHeight := max(3, height-4)
	for _, t := range m.tables {
		t.SetHeight(bodyHeight)
		t.SetWidth(max(20, width))
	}
	m.reactions.Width = max(20, width)
	m.reactions.Height = bodyHeight
	m.reactions.SetContent(m.renderReactions())
	m.moveTab(0)
}

func (m *Model) renderReactions() string {
	var buf bytes.Buffer
	if err := stats.RenderSummary(&buf, m.report.Sessions); err != nil {
		return "Failed to render summary."
	}
	if len(m.report.Reactions) == 0 {
		buf.WriteString("No correct trials yet.\n")
		return buf.String()
	}
	if err := stats.RenderReactionCurve(&buf, m.report.Reactions, reactionWindow, max(20, m.width)); err != nil {
		return "Failed to render reaction curve."
	}
	return strings.TrimRight(buf.String(), "\n")
}

func newTable(headers []string, rows [][]string) table.Model {
	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		w := runewidth.StringWidth(h)
		for _, row := range rows {
			if i < len(row) {
				w = max(w, runewidth.StringWidth(row[i]))
			}
		}
		cols[i] = table.Column{Title: h, Width: w}
	}
	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(tableRows),
	)
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#4A3A1A")).
		Bold(false)
	return styles
}
