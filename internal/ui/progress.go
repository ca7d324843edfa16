package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// maxRecent is how many finished items stay visible under the bar.
const maxRecent = 5

// ItemDoneMsg reports one finished batch item.
type ItemDoneMsg struct {
	Index int
	Label string
	Err   error
}

// BatchDoneMsg ends the progress view.
type BatchDoneMsg struct{}

// BatchModel renders a spinner, a progress bar and the most recent results.
type BatchModel struct {
	total   int
	done    int
	failed  int
	recent  []string
	spinner spinner.Model
	bar     progress.Model
}

// NewBatchModel returns a model for total items.
func NewBatchModel(total int) BatchModel {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	return BatchModel{
		total:   total,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (m BatchModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m BatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case ItemDoneMsg:
		m.done++
		line := okStyle.Render("✓ ") + msg.Label
		if msg.Err != nil {
			m.failed++
			line = failStyle.Render("✗ ") + msg.Label + dimStyle.Render(" "+msg.Err.Error())
		}
		m.recent = append(m.recent, line)
		if len(m.recent) > maxRecent {
			m.recent = m.recent[len(m.recent)-maxRecent:]
		}
	case BatchDoneMsg:
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m BatchModel) View() string {
	var b strings.Builder
	pct := 0.0
	if m.total > 0 {
		pct = float64(m.done) / float64(m.total)
	}
	fmt.Fprintf(&b, "%s %s %d/%d", m.spinner.View(), m.bar.ViewAs(pct), m.done, m.total)
	if m.failed > 0 {
		b.WriteString(failStyle.Render(fmt.Sprintf("  %d failed", m.failed)))
	}
	b.WriteString("\n")
	for _, line := range m.recent {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

// Done reports completed and failed counts.
func (m BatchModel) Done() (done, failed int) {
	return m.done, m.failed
}
