package viz

import (
	"fmt"
	"iter"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/heatrod/internal/heat"
)

const defaultInterval = 42 * time.Millisecond

type TickMsg time.Time

type LiveOptions struct {
	Title    string
	Interval time.Duration
	Theme    string
	// Lower and Upper fix the temperature axis, see ProfileOptions.
	Lower, Upper float64
	// Total is the expected number of steps, shown as progress.
	Total int
}

// LiveModel animates a snapshot sequence. Every tick pulls one step from the
// driver, so the simulation advances only as fast as frames are drawn.
type LiveModel struct {
	next     func() (heat.Field, bool)
	stop     func()
	opts     LiveOptions
	theme    Theme
	current  heat.Field
	step     int
	running  bool
	done     bool
	quitting bool
}

func NewLiveModel(seq iter.Seq[heat.Field], opts LiveOptions) *LiveModel {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	next, stop := iter.Pull(seq)
	return &LiveModel{
		next:    next,
		stop:    stop,
		opts:    opts,
		theme:   GetTheme(opts.Theme),
		running: true,
	}
}

func (m *LiveModel) tick() tea.Cmd {
	return tea.Tick(m.opts.Interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *LiveModel) Init() tea.Cmd {
	return m.tick()
}

// advance pulls one snapshot. The driver's slice is copied since the next
// pull overwrites it.
func (m *LiveModel) advance() {
	if m.done {
		return
	}
	t, ok := m.next()
	if !ok {
		m.done = true
		m.stop()
		return
	}
	m.step++
	if m.current == nil {
		m.current = t.Clone()
	} else {
		copy(m.current, t)
	}
}

func (m *LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			m.stop()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.advance()
			}
		case "t":
			m.theme = nextTheme(m.theme)
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		if m.done {
			return m, nil
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *LiveModel) Step() int           { return m.step }
func (m *LiveModel) Done() bool          { return m.done }
func (m *LiveModel) Current() heat.Field { return m.current }

func (m *LiveModel) View() string {
	if m.quitting {
		return ""
	}

	header := lipgloss.NewStyle().Foreground(m.theme.Primary).Bold(true).MarginBottom(1)
	graph := lipgloss.NewStyle().Foreground(m.theme.Graph).Padding(1, 2)
	label := lipgloss.NewStyle().Foreground(m.theme.Muted).Width(12)
	value := lipgloss.NewStyle().Foreground(m.theme.Text)
	help := lipgloss.NewStyle().Foreground(m.theme.Muted).MarginTop(1)

	var s strings.Builder
	title := m.opts.Title
	if title == "" {
		title = "temperature distribution"
	}
	s.WriteString(header.Render(strings.ToUpper(title)) + "\n")

	status := "RUNNING"
	switch {
	case m.done:
		status = "FINISHED"
	case !m.running:
		status = "PAUSED"
	}
	s.WriteString(lipgloss.NewStyle().Foreground(m.theme.Warning).Render(status) + "\n")

	if m.current != nil {
		chart := RenderProfile(m.current, ProfileOptions{
			Caption: "temperature vs node",
			Lower:   m.opts.Lower,
			Upper:   m.opts.Upper,
		})
		s.WriteString(graph.Render(chart) + "\n")
	}

	progress := fmt.Sprintf("%d", m.step)
	if m.opts.Total > 0 {
		progress = fmt.Sprintf("%d / %d", m.step, m.opts.Total)
	}
	s.WriteString(label.Render("Iteration") + value.Render(progress) + "\n")
	if m.current != nil {
		s.WriteString(label.Render("Min") + value.Render(fmt.Sprintf("%.2f", m.current.Min())) + "\n")
		s.WriteString(label.Render("Max") + value.Render(fmt.Sprintf("%.2f", m.current.Max())) + "\n")
	}
	s.WriteString(help.Render("space pause • n step • t theme • q quit"))
	return s.String()
}

// RunLive runs the model until the user quits.
func RunLive(m *LiveModel) error {
	defer m.stop()
	_, err := tea.NewProgram(m).Run()
	return err
}
