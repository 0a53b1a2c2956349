package reporter

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ppiankov/revizor/internal/review"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	fileStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")) // cyan
	critStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)  // red
	highStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))             // red
	medStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))            // yellow
	lowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))             // gray
	aiStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))            // blue
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// TUIModel is the Bubbletea model for browsing a finished report.
type TUIModel struct {
	report *review.Report
	lines  []string

	scrollOffset int
	width        int
	height       int
}

// NewTUIModel builds the browser for a report.
func NewTUIModel(r *review.Report) TUIModel {
	m := TUIModel{report: r}
	m.lines = m.buildLines()
	return m
}

// Init implements tea.Model.
func (m TUIModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "j", "down":
			m.scrollDown(1)
		case "k", "up":
			m.scrollUp(1)
		case "g", "home":
			m.scrollOffset = 0
		case "G", "end":
			m.scrollOffset = m.maxScroll()
		case "pgdown", " ":
			m.scrollDown(m.visibleLines())
		case "pgup":
			m.scrollUp(m.visibleLines())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.scrollOffset > m.maxScroll() {
			m.scrollOffset = m.maxScroll()
		}
	}

	return m, nil
}

func (m *TUIModel) scrollDown(n int) {
	m.scrollOffset += n
	if max := m.maxScroll(); m.scrollOffset > max {
		m.scrollOffset = max
	}
}

func (m *TUIModel) scrollUp(n int) {
	m.scrollOffset -= n
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

func (m TUIModel) visibleLines() int {
	// header(2) + blank(1) + help(1) + scroll hints(2)
	avail := m.height - 6
	if avail < 3 {
		return 3
	}
	return avail
}

func (m TUIModel) maxScroll() int {
	if len(m.lines) <= m.visibleLines() {
		return 0
	}
	return len(m.lines) - m.visibleLines()
}

// View implements tea.Model.
func (m TUIModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("revizor — %s", m.report.Path)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d files, %d issues (%d security, %d quality, %d performance)",
		m.report.FilesReviewed, m.report.IssuesFound,
		m.report.SecurityIssues, m.report.QualityIssues, m.report.PerformanceIssues)))
	b.WriteString("\n\n")

	vis := m.visibleLines()
	start := m.scrollOffset
	end := start + vis
	if end > len(m.lines) {
		end = len(m.lines)
	}
	if start > len(m.lines) {
		start = len(m.lines)
	}

	if start > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ↑ %d more above", start)))
		b.WriteString("\n")
	}
	for i := start; i < end; i++ {
		b.WriteString(m.lines[i])
		b.WriteString("\n")
	}
	if end < len(m.lines) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ↓ %d more below", len(m.lines)-end)))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("  ↑↓/jk: scroll  g/G: top/bottom  q: quit"))
	return b.String()
}

func (m TUIModel) buildLines() []string {
	var lines []string
	for _, fr := range m.report.Files {
		if len(fr.Issues) == 0 {
			continue
		}
		lines = append(lines, fileStyle.Render(fmt.Sprintf("%s (%s, %d issues)", fr.Path, fr.Language, len(fr.Issues))))
		for _, is := range fr.Issues {
			lines = append(lines, m.issueLine(is))
		}
		lines = append(lines, "")
	}
	for _, w := range m.report.Warnings {
		lines = append(lines, medStyle.Render("  ⚠ "+w))
	}
	if len(lines) == 0 {
		lines = append(lines, dimStyle.Render("  no issues found"))
	}
	return lines
}

func (m TUIModel) issueLine(is review.Issue) string {
	loc := "   -"
	if is.Line > 0 {
		loc = fmt.Sprintf("%4d", is.Line)
	}
	tag := ""
	if is.Source == review.SourceAI {
		tag = " " + aiStyle.Render("[ai]")
	}
	line := fmt.Sprintf("  %s %s  %-11s %s%s", m.sevLabel(is.Severity), loc, is.Category, is.Message, tag)
	return line
}

func (m TUIModel) sevLabel(s review.Severity) string {
	switch s {
	case review.SeverityCritical:
		return critStyle.Render("CRIT")
	case review.SeverityHigh:
		return highStyle.Render("HIGH")
	case review.SeverityMedium:
		return medStyle.Render("MED ")
	default:
		return lowStyle.Render("low ")
	}
}

// RunTUI opens the interactive browser for a report.
func RunTUI(r *review.Report) error {
	p := tea.NewProgram(NewTUIModel(r), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
