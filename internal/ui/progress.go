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

	"strand/internal/driver"
)

// maxRows bounds the file list; active files are listed first, then the
// most recently finished ones.
const maxRows = 8

type fileState uint8

const (
	stateQueued fileState = iota
	stateLoading
	stateLexing
	stateOK
	stateCached
	stateFailed
)

func (s fileState) finished() bool { return s >= stateOK }

func (s fileState) label() string {
	switch s {
	case stateLoading:
		return "loading"
	case stateLexing:
		return "lexing"
	case stateOK:
		return "ok"
	case stateCached:
		return "cached"
	case stateFailed:
		return "error"
	default:
		return "queued"
	}
}

// weight is the share of a file's work done in state s.
func (s fileState) weight() float64 {
	switch {
	case s.finished():
		return 1
	case s == stateLexing:
		return 0.5
	case s == stateLoading:
		return 0.1
	default:
		return 0
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stateStyle = map[fileState]lipgloss.Style{
		stateQueued:  lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		stateLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		stateLexing:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		stateOK:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		stateCached:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		stateFailed:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

type fileRow struct {
	path    string
	state   fileState
	elapsed time.Duration
}

type tally struct {
	ok, cached, failed int
	tokens, diags      int
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []fileRow
	byPath  map[string]int
	recent  []int // finished rows, newest last
	totals  tally
	started time.Time
	width   int
	done    bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders lexing progress
// for files from events. It quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	rows := make([]fileRow, len(files))
	byPath := make(map[string]int, len(files))
	for i, file := range files {
		rows[i] = fileRow{path: file}
		byPath[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(60)),
		rows:    rows,
		byPath:  byPath,
		started: time.Now(),
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(driver.Event(msg)), m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(msg.Width-4, 10)
		}
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

// applyEvent folds ev into the row of its file. Events for unknown files
// and run-level events are ignored.
func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	idx, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[idx]
	if row.state.finished() {
		return nil
	}
	row.state = stateFor(ev)
	if !row.state.finished() {
		return nil
	}
	row.elapsed = ev.Elapsed
	m.recent = append(m.recent, idx)
	switch row.state {
	case stateCached:
		m.totals.cached++
	case stateFailed:
		m.totals.failed++
	default:
		m.totals.ok++
	}
	m.totals.tokens += ev.Tokens
	m.totals.diags += ev.Diags
	return m.bar.SetPercent(m.percent())
}

func stateFor(ev driver.Event) fileState {
	switch ev.Status {
	case driver.StatusError:
		return stateFailed
	case driver.StatusDone:
		if ev.Stage == driver.StageCache {
			return stateCached
		}
		return stateOK
	case driver.StatusWorking:
		if ev.Stage == driver.StageLoad {
			return stateLoading
		}
		return stateLexing
	default:
		return stateQueued
	}
}

func (m *progressModel) finished() int {
	return m.totals.ok + m.totals.cached + m.totals.failed
}

func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, row := range m.rows {
		sum += row.state.weight()
	}
	return sum / float64(len(m.rows))
}

// visibleRows picks active rows first, then the newest finished rows.
func (m *progressModel) visibleRows() []int {
	out := make([]int, 0, maxRows)
	for i, row := range m.rows {
		if len(out) == maxRows {
			return out
		}
		if row.state == stateLoading || row.state == stateLexing {
			out = append(out, i)
		}
	}
	for j := len(m.recent) - 1; j >= 0 && len(out) < maxRows; j-- {
		out = append(out, m.recent[j])
	}
	return out
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder

	prefix := m.spinner.View()
	if m.done {
		prefix = "done:"
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %s [%d/%d]", prefix, m.title, m.finished(), len(m.rows))))
	b.WriteString("\n\n")

	nameWidth := max(m.width-24, 20)
	visible := m.visibleRows()
	for _, idx := range visible {
		row := m.rows[idx]
		fmt.Fprintf(&b, "  %s %s", stateStyle[row.state].Render(fmt.Sprintf("%7s", row.state.label())), truncate(row.path, nameWidth))
		if row.elapsed > 0 {
			b.WriteString(mutedStyle.Render("  " + row.elapsed.Round(time.Microsecond).String()))
		}
		b.WriteString("\n")
	}
	if hidden := len(m.rows) - len(visible); hidden > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  ... %d more", hidden)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "  ok %d  cached %d  errors %d  %d tokens  %d diagnostics",
		m.totals.ok, m.totals.cached, m.totals.failed, m.totals.tokens, m.totals.diags)
	b.WriteString(mutedStyle.Render("  " + time.Since(m.started).Round(time.Millisecond).String()))
	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
