package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"mend/internal/engine"
)

// Candidate is one row of the progress view.
type Candidate struct {
	ID   engine.CandidateID
	Name string // shown instead of the id
}

// stageInfo: подпись активной стадии и доля пройденного пути
// к моменту её начала.
var stageInfo = map[engine.Stage]struct {
	label  string
	weight float64
}{
	engine.StageCompile: {"compiling", 0.1},
	engine.StageLoad:    {"loading", 0.5},
	engine.StageRun:     {"running", 0.7},
	engine.StageDiff:    {"diffing", 0.9},
}

const statusColumn = 12

type palette struct {
	title, queued, active, passed, failed, faint lipgloss.Style
}

func defaultPalette() palette {
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	return palette{
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		queued: fg("7"),
		active: fg("6"),
		passed: fg("2"),
		failed: fg("1"),
		faint:  lipgloss.NewStyle().Faint(true),
	}
}

type row struct {
	name   string
	status string
	stage  engine.Stage
	state  engine.Status
	reason string // первая строка ошибки
	took   time.Duration
}

func (r row) finished() bool {
	return r.state == engine.StatusDone || r.state == engine.StatusError
}

type progressModel struct {
	title   string
	events  <-chan engine.Event
	spinner spinner.Model
	bar     progress.Model
	styles  palette
	items   []row
	byID    map[engine.CandidateID]*row
	width   int
	done    bool
}

type eventMsg engine.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders evaluation
// progress. It quits when events is closed.
func NewProgressModel(title string, candidates []Candidate, events <-chan engine.Event) tea.Model {
	m := &progressModel{
		title:   title,
		events:  events,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		styles:  defaultPalette(),
		items:   make([]row, len(candidates)),
		byID:    make(map[engine.CandidateID]*row, len(candidates)),
		width:   80,
	}
	m.spinner.Style = m.styles.active
	for i, c := range candidates {
		name := c.Name
		if name == "" {
			name = string(c.ID)
		}
		m.items[i] = row{name: name, status: "queued", state: engine.StatusQueued}
		m.byID[c.ID] = &m.items[i]
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case eventMsg:
		cmd = tea.Batch(m.applyEvent(engine.Event(msg)), m.listenForEvent())
	case doneMsg:
		m.done = true
		cmd = tea.Quit
	case spinner.TickMsg:
		if !m.done {
			m.spinner, cmd = m.spinner.Update(msg)
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		var bar tea.Model
		bar, cmd = m.bar.Update(msg)
		m.bar = bar.(progress.Model)
	}
	return m, cmd
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	var b strings.Builder
	header := m.spinner.View() + " " + m.title
	if m.done {
		header = "done: " + m.title
	}
	b.WriteString(m.styles.title.Render(header) + "\n\n")

	nameWidth := max(m.width-statusColumn-4, 20)
	for _, r := range m.items {
		status := m.styleFor(r).Render(fmt.Sprintf("%*s", statusColumn, r.status))
		line := "  " + status + " " + truncate(r.name, nameWidth)
		if r.took > 0 {
			line += m.styles.faint.Render(" " + r.took.Round(time.Millisecond).String())
		}
		if r.reason != "" {
			rest := nameWidth - runewidth.StringWidth(r.name) - 3
			if rest > 8 {
				line += m.styles.faint.Render(" : " + truncate(r.reason, rest))
			}
		}
		b.WriteString(line + "\n")
	}

	passed, failed := m.tally()
	fmt.Fprintf(&b, "\n  %d/%d finished", passed+failed, len(m.items))
	if failed > 0 {
		b.WriteString(m.styles.failed.Render(fmt.Sprintf(", %d failed", failed)))
	}
	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) styleFor(r row) lipgloss.Style {
	switch r.state {
	case engine.StatusDone:
		return m.styles.passed
	case engine.StatusError:
		return m.styles.failed
	case engine.StatusQueued:
		return m.styles.queued
	}
	return m.styles.active
}

func (m *progressModel) tally() (passed, failed int) {
	for _, r := range m.items {
		switch r.state {
		case engine.StatusDone:
			passed++
		case engine.StatusError:
			failed++
		}
	}
	return passed, failed
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *progressModel) applyEvent(ev engine.Event) tea.Cmd {
	r := m.byID[ev.ID]
	if r == nil {
		return nil
	}
	r.stage, r.state = ev.Stage, ev.Status
	r.status = statusLabel(ev.Stage, ev.Status)
	if ev.Err != nil {
		r.reason, _, _ = strings.Cut(ev.Err.Error(), "\n")
	}
	if r.finished() {
		r.took = ev.Elapsed
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.items {
		if r.finished() {
			sum++
			continue
		}
		sum += stageInfo[r.stage].weight
	}
	return sum / float64(len(m.items))
}

func statusLabel(stage engine.Stage, status engine.Status) string {
	switch status {
	case engine.StatusQueued:
		return "queued"
	case engine.StatusDone:
		return "done"
	case engine.StatusError:
		return stage.String() + " failed"
	}
	return stageInfo[stage].label
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
