// internal/tui/tui.go
// Package tui renders a live view of a council run: stage progress while the
// models deliberate, then the standings and the chairman's answer.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/synod/internal/council"
	"github.com/mwiater/synod/internal/util"
)

// stageState tracks one pipeline stage's progress in the view.
type stageState int

const (
	stagePending stageState = iota
	stageRunning
	stageDone
)

var (
	headerStyle   = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	modelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	answerStyle   = lipgloss.NewStyle().Margin(1, 2)
	standingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
)

// councilEventMsg carries one progress event from the running council.
type councilEventMsg council.Event

// runDoneMsg is sent when the council run has finished.
type runDoneMsg council.RunResult

// tickMsg drives the elapsed-time display while a stage is running.
type tickMsg time.Time

// model is the Bubble Tea model for a single council run.
type model struct {
	engine   *council.Engine
	question string

	spinner   spinner.Model
	stages    [3]stageState
	answered  int
	result    *council.RunResult
	startTime time.Time
	width     int
	height    int
}

func initialModel(engine *council.Engine, question string) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &model{
		engine:    engine,
		question:  question,
		spinner:   s,
		startTime: time.Now(),
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the spinner animation.
func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

// Update handles key presses, council progress, and spinner ticks.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case councilEventMsg:
		switch msg.Type {
		case council.EventStage1Start:
			m.stages[0] = stageRunning
		case council.EventStage1Complete:
			m.stages[0] = stageDone
			if results, ok := msg.Data.([]council.Stage1Result); ok {
				m.answered = len(results)
			}
		case council.EventStage2Start:
			m.stages[1] = stageRunning
		case council.EventStage2Complete:
			m.stages[1] = stageDone
		case council.EventStage3Start:
			m.stages[2] = stageRunning
		case council.EventStage3Complete:
			m.stages[2] = stageDone
		}
		return m, nil

	case runDoneMsg:
		result := council.RunResult(msg)
		m.result = &result
		return m, nil

	case tickMsg:
		if m.result == nil {
			return m, tickCmd()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// View renders stage progress while running and the outcome afterwards.
func (m *model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Council of %d | Chairman: %s", len(m.engine.Roster()), m.engine.Chairman())))
	b.WriteString("\n")
	b.WriteString(pendingStyle.Render(util.TruncateRunes(m.question, 80)))
	b.WriteString("\n\n")

	labels := [3]string{
		"Stage 1: collect answers",
		"Stage 2: cross-rank answers",
		"Stage 3: chairman synthesis",
	}
	for i, label := range labels {
		switch m.stages[i] {
		case stageDone:
			line := label
			if i == 0 {
				line = fmt.Sprintf("%s (%d/%d models)", label, m.answered, len(m.engine.Roster()))
			}
			b.WriteString(doneStyle.Render("  ✓ " + line))
		case stageRunning:
			b.WriteString(fmt.Sprintf("  %s %s %.1fs", m.spinner.View(), label, time.Since(m.startTime).Seconds()))
		default:
			b.WriteString(pendingStyle.Render("  · " + label))
		}
		b.WriteString("\n")
	}

	if m.result == nil {
		return b.String()
	}

	if len(m.result.Metadata.AggregateRankings) > 0 {
		b.WriteString("\n" + standingStyle.Render("Standings:") + "\n")
		for i, entry := range m.result.Metadata.AggregateRankings {
			b.WriteString(fmt.Sprintf("  %d. %s (avg rank %.2f, %d rankings)\n",
				i+1, modelStyle.Render(entry.Model), entry.AverageRank, entry.RankingsCount))
		}
	}

	width := m.width
	if width <= 0 {
		width = 80
	}
	answer := util.WrapToWidth(m.result.Stage3.Response, util.Max(width-4, 20))
	b.WriteString(answerStyle.Render(answer))
	b.WriteString("\n" + pendingStyle.Render("press q to quit") + "\n")

	return b.String()
}

// Run executes the council for the given question inside the interactive view.
func Run(engine *council.Engine, question string) error {
	m := initialModel(engine, question)
	p := tea.NewProgram(m, tea.WithAltScreen())

	go func() {
		result := engine.RunStream(context.Background(), question, func(ev council.Event) {
			p.Send(councilEventMsg(ev))
		})
		p.Send(runDoneMsg(result))
	}()

	_, err := p.Run()
	return err
}
