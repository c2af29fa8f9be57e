package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	hostruntime "github.com/Nexuscompute/host-runtime"
	"github.com/Nexuscompute/host-runtime/workqueue"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateConfigure modelState = iota
	stateRunning
	stateDone
)

type interactiveModel struct {
	err      error
	pool     *workqueue.Pool
	ec       *hostruntime.ExecutionContext
	load     *load
	input    textinput.Model
	bar      progress.Model
	total    int
	started  time.Time
	elapsed  time.Duration
	state    modelState
}

type startedMsg struct {
	err   error
	load  *load
	total int
}

type tickMsg struct{}

type doneMsg struct{}

func newInteractiveModel() *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "200"
	ti.Prompt = "tasks: "
	ti.Width = 12
	ti.Focus()

	return &interactiveModel{
		input: ti,
		bar:   progress.New(progress.WithDefaultGradient()),
		state: stateConfigure,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) start() tea.Msg {
	total := 200
	if v := strings.TrimSpace(m.input.Value()); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return startedMsg{err: fmt.Errorf("invalid task count %q", v)}
		}
		total = n
	}

	cfg, err := workqueue.ConfigFromEnv()
	if err != nil {
		return startedMsg{err: err}
	}
	m.pool = workqueue.NewPool(cfg)
	m.ec = hostruntime.NewExecutionContext(m.pool)

	return startedMsg{load: submit(m.ec, total, 0.25, 0.05), total: total}
}

func tick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *interactiveModel) waitAllReady() tea.Msg {
	<-m.load.allReady
	return doneMsg{}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.pool != nil {
				m.pool.Close()
			}
			return m, tea.Quit

		case "enter":
			switch m.state {
			case stateConfigure:
				return m, m.start
			case stateDone:
				if m.pool != nil {
					m.pool.Close()
					m.pool = nil
				}
				m.state = stateConfigure
				m.err = nil
				m.input.Focus()
				return m, textinput.Blink
			}
		}

	case startedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.load = msg.load
		m.total = msg.total
		m.started = time.Now()
		m.state = stateRunning
		return m, tea.Batch(tick(), m.waitAllReady)

	case tickMsg:
		if m.state == stateRunning {
			return m, tick()
		}

	case doneMsg:
		m.elapsed = time.Since(m.started)
		m.state = stateDone
	}

	if m.state == stateConfigure {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Dispatch Monitor"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	switch m.state {
	case stateConfigure:
		b.WriteString("How many tasks should be submitted?\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter run • q quit"))

	case stateRunning:
		done := int(m.load.completed.Load())
		b.WriteString(fmt.Sprintf("Request %s\n\n", labelStyle.Render(m.ec.ID())))
		b.WriteString(m.bar.ViewAs(float64(done) / float64(m.total)))
		b.WriteString(fmt.Sprintf("\n\n%s %d/%d", labelStyle.Render("completed"), done, m.total))
		b.WriteString(fmt.Sprintf("   %s %d", errorStyle.Render("failed"), m.load.failed.Load()))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("q quit"))

	case stateDone:
		failed := int(m.load.failed.Load())
		b.WriteString(okStyle.Render(fmt.Sprintf("All %d tasks terminal in %v", m.total, m.elapsed.Round(time.Millisecond))))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("%s %d\n", labelStyle.Render("succeeded:"), m.total-failed))
		b.WriteString(fmt.Sprintf("%s %d (%d rejected at submission)\n", errorStyle.Render("failed:   "), failed, m.load.rejected))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter run again • q quit"))
	}

	return b.String()
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
